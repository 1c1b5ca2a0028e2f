// Package refund computes how much of a payment is returned when a booked trip
// is cancelled. The schedule is a list of day-range bands; a small set of
// exception reasons bypass it and always yield a full refund, subject to admin
// approval downstream.
package refund

import (
	"strings"
	"time"
)

// Basis explains which rule produced a quote.
type Basis string

const (
	BasisSchedule     Basis = "schedule"
	BasisException    Basis = "exception"
	BasisManualReview Basis = "manual_review"
)

// DefaultExceptionReasons grant a full refund regardless of timing.
var DefaultExceptionReasons = []string{
	"natural_disaster",
	"medical_emergency",
	"guide_no_show",
	"government_restriction",
}

type Input struct {
	Amount     int64
	EventStart time.Time
	Role       Role
	ReasonType string
}

type Quote struct {
	Percentage     int    `json:"percentage"`
	RefundAmount   int64  `json:"refund_amount"`
	DaysUntilStart int    `json:"days_until_start"`
	Basis          Basis  `json:"basis"`
	Band           *Band  `json:"band,omitempty"`
	NeedsReview    bool   `json:"needs_review"`
	Description    string `json:"policy_description"`
}

type Calculator struct {
	exceptions map[string]struct{}
	now        func() time.Time
}

type Option func(*Calculator)

// WithClock replaces time.Now, mostly for tests and offline quotes.
func WithClock(now func() time.Time) Option {
	return func(c *Calculator) { c.now = now }
}

// WithExceptionReasons replaces the default exception set.
func WithExceptionReasons(reasons ...string) Option {
	return func(c *Calculator) {
		c.exceptions = make(map[string]struct{}, len(reasons))
		for _, r := range reasons {
			c.exceptions[normalizeReason(r)] = struct{}{}
		}
	}
}

func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{now: time.Now}
	WithExceptionReasons(DefaultExceptionReasons...)(c)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Calculator) IsException(reasonType string) bool {
	_, ok := c.exceptions[normalizeReason(reasonType)]
	return ok
}

// ExceptionReasons lists the configured exception reasons.
func (c *Calculator) ExceptionReasons() []string {
	out := make([]string, 0, len(c.exceptions))
	for r := range c.exceptions {
		out = append(out, r)
	}
	return out
}

// DaysUntil is floor((start - now) / 24h), clamped at zero.
func DaysUntil(start, now time.Time) int {
	d := start.Sub(now)
	if d <= 0 {
		return 0
	}
	return int(d / (24 * time.Hour))
}

// Calculate evaluates in against bands. bands may be in any order; they are
// scanned by DaysFrom descending and the first containing band wins.
func (c *Calculator) Calculate(in Input, bands []Band) (*Quote, error) {
	if in.EventStart.IsZero() {
		return nil, &ValidationError{Field: "event_start_date", Reason: "is required"}
	}
	if !in.Role.Valid() {
		return nil, &ValidationError{Field: "requester_role", Reason: "must be traveler or guide"}
	}

	q := &Quote{DaysUntilStart: DaysUntil(in.EventStart, c.now())}

	switch {
	case c.IsException(in.ReasonType):
		q.Percentage = 100
		q.Basis = BasisException
		q.Description = "Exception reason: full refund pending admin approval"
	default:
		if band, ok := matchBand(bands, q.DaysUntilStart); ok {
			q.Percentage = band.Percentage
			q.Basis = BasisSchedule
			q.Band = &band
			q.Description = band.Describe()
		} else {
			q.Percentage = 0
			q.Basis = BasisManualReview
			q.NeedsReview = true
			q.Description = "No policy band matches: manual review required"
		}
	}

	q.RefundAmount = RefundAmount(in.Amount, q.Percentage)
	return q, nil
}

func matchBand(bands []Band, days int) (Band, bool) {
	for _, b := range SortBands(bands) {
		if b.Contains(days) {
			return b, true
		}
	}
	return Band{}, false
}

// RefundAmount is round(amount * percentage / 100), zero for non-positive
// amounts and never above amount.
func RefundAmount(amount int64, percentage int) int64 {
	if amount <= 0 || percentage <= 0 {
		return 0
	}
	if percentage >= 100 {
		return amount
	}
	return (amount*int64(percentage) + 50) / 100
}

func normalizeReason(r string) string {
	return strings.ToLower(strings.TrimSpace(r))
}
