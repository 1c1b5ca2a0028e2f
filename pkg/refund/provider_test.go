package refund

import (
	"context"
	"errors"
	"testing"
	"time"

	"matchtrip-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
)

type stubLoader struct {
	bands []Band
	err   error
	calls int
}

func (s *stubLoader) LoadActiveBands(ctx context.Context, role Role) ([]Band, error) {
	s.calls++
	return s.bands, s.err
}

func TestProviderUsesDatabaseBands(t *testing.T) {
	loader := &stubLoader{bands: []Band{
		{DaysFrom: 0, DaysTo: intPtr(13), Percentage: 0},
		{DaysFrom: 14, Percentage: 100},
	}}
	p := NewProvider(loader, time.Minute, logger.NewNopLogger())

	set := p.Policy(context.Background(), RoleGuide)
	assert.Equal(t, SourceDatabase, set.Source)
	assert.Equal(t, 14, set.Bands[0].DaysFrom)

	p.Policy(context.Background(), RoleGuide)
	assert.Equal(t, 1, loader.calls, "second read should hit the cache")

	p.Invalidate()
	p.Policy(context.Background(), RoleGuide)
	assert.Equal(t, 2, loader.calls)
}

func TestProviderFallsBackOnError(t *testing.T) {
	loader := &stubLoader{err: errors.New("connection refused")}
	p := NewProvider(loader, time.Minute, logger.NewNopLogger())

	set := p.Policy(context.Background(), RoleTraveler)
	assert.Equal(t, SourceDefault, set.Source)
	assert.Equal(t, DefaultBands(), set.Bands)

	p.Policy(context.Background(), RoleTraveler)
	assert.Equal(t, 2, loader.calls, "failures must not be cached")
}

func TestProviderFallsBackOnEmpty(t *testing.T) {
	p := NewProvider(&stubLoader{}, time.Minute, logger.NewNopLogger())

	set := p.Policy(context.Background(), RoleTraveler)
	assert.Equal(t, SourceDefault, set.Source)
	assert.Len(t, set.Bands, 5)
}

func TestProviderRejectsInvalidStoredBands(t *testing.T) {
	loader := &stubLoader{bands: []Band{
		{DaysFrom: 0, Percentage: 10},
		{DaysFrom: 5, Percentage: 50},
	}}
	p := NewProvider(loader, time.Minute, logger.NewNopLogger())

	set := p.Policy(context.Background(), RoleTraveler)
	assert.Equal(t, SourceDefault, set.Source)
}

func TestProviderWithoutLoader(t *testing.T) {
	p := NewProvider(nil, 0, logger.NewNopLogger())
	assert.Equal(t, DefaultBands(), p.Bands(context.Background(), RoleGuide))
}
