package refund

import (
	"context"
	"time"

	"matchtrip-be/internal/pkg/logger"

	"github.com/patrickmn/go-cache"
)

// Policy sources reported alongside a band set.
const (
	SourceDatabase = "database"
	SourceDefault  = "default"
)

// BandLoader reads the active bands that apply to role (rows targeting role or
// "all"). An empty result is not an error.
type BandLoader interface {
	LoadActiveBands(ctx context.Context, role Role) ([]Band, error)
}

type PolicySet struct {
	Role   Role   `json:"role"`
	Source string `json:"source"`
	Bands  []Band `json:"bands"`
}

// Provider resolves the band set for a role, caching database results in
// process. Failures never surface to callers: the default table is used and a
// warning is logged.
type Provider struct {
	loader BandLoader
	cache  *cache.Cache
	logger logger.ILogger
}

func NewProvider(loader BandLoader, ttl time.Duration, log logger.ILogger) *Provider {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Provider{
		loader: loader,
		cache:  cache.New(ttl, 2*ttl),
		logger: log,
	}
}

func cacheKey(role Role) string {
	return "bands:" + string(role)
}

func (p *Provider) Policy(ctx context.Context, role Role) PolicySet {
	if cached, ok := p.cache.Get(cacheKey(role)); ok {
		return cached.(PolicySet)
	}

	set := PolicySet{Role: role, Source: SourceDefault, Bands: DefaultBands()}
	if p.loader == nil {
		return set
	}

	bands, err := p.loader.LoadActiveBands(ctx, role)
	if err != nil {
		lookupErr := &PolicyLookupError{Role: role, Err: err}
		p.logger.Warn("REFUND_POLICY", "Falling back to default refund bands", map[string]interface{}{
			"role":  role,
			"error": lookupErr.Error(),
		})
		// not cached, so the next request retries the database
		return set
	}

	if len(bands) == 0 {
		p.cache.SetDefault(cacheKey(role), set)
		return set
	}

	if err := ValidateBands(bands); err != nil {
		p.logger.Warn("REFUND_POLICY", "Stored refund bands are invalid, using defaults", map[string]interface{}{
			"role":  role,
			"error": err.Error(),
		})
		return set
	}

	set = PolicySet{Role: role, Source: SourceDatabase, Bands: SortBands(bands)}
	p.cache.SetDefault(cacheKey(role), set)
	return set
}

// Bands is a shortcut for Policy(ctx, role).Bands.
func (p *Provider) Bands(ctx context.Context, role Role) []Band {
	return p.Policy(ctx, role).Bands
}

// Invalidate drops every cached band set.
func (p *Provider) Invalidate() {
	p.cache.Flush()
	p.logger.Info("REFUND_POLICY", "Refund policy cache invalidated", nil)
}
