package refund

import (
	"fmt"
	"sort"
	"strings"
)

// Role identifies who asked for the cancellation. Policy rows can target one
// role or both.
type Role string

const (
	RoleTraveler Role = "traveler"
	RoleGuide    Role = "guide"
	RoleAll      Role = "all"
)

func (r Role) Valid() bool {
	return r == RoleTraveler || r == RoleGuide
}

// Band maps a range of "days before trip start" to a refund percentage.
// DaysTo == nil means the band is open-ended upwards.
type Band struct {
	DaysFrom   int  `json:"days_from" yaml:"days_from" mapstructure:"days_from"`
	DaysTo     *int `json:"days_to,omitempty" yaml:"days_to,omitempty" mapstructure:"days_to"`
	Percentage int  `json:"percentage" yaml:"percentage" mapstructure:"percentage"`
}

// Contains reports whether days falls inside the band (both ends inclusive).
func (b Band) Contains(days int) bool {
	if days < b.DaysFrom {
		return false
	}
	return b.DaysTo == nil || days <= *b.DaysTo
}

func (b Band) Describe() string {
	switch {
	case b.DaysTo == nil:
		return fmt.Sprintf("%d+ days before start: %d%% refund", b.DaysFrom, b.Percentage)
	case b.DaysFrom == 0 && *b.DaysTo == 0:
		return fmt.Sprintf("Same day as start: %d%% refund", b.Percentage)
	case b.DaysFrom == *b.DaysTo:
		return fmt.Sprintf("%d days before start: %d%% refund", b.DaysFrom, b.Percentage)
	default:
		return fmt.Sprintf("%d-%d days before start: %d%% refund", b.DaysFrom, *b.DaysTo, b.Percentage)
	}
}

func intPtr(v int) *int { return &v }

// DefaultBands returns the built-in schedule used when no active policy rows
// exist. A fresh slice is returned on every call.
func DefaultBands() []Band {
	return []Band{
		{DaysFrom: 30, DaysTo: nil, Percentage: 100},
		{DaysFrom: 20, DaysTo: intPtr(29), Percentage: 90},
		{DaysFrom: 6, DaysTo: intPtr(19), Percentage: 85},
		{DaysFrom: 1, DaysTo: intPtr(5), Percentage: 80},
		{DaysFrom: 0, DaysTo: intPtr(0), Percentage: 50},
	}
}

// SortBands returns a copy ordered by DaysFrom descending.
func SortBands(bands []Band) []Band {
	out := make([]Band, len(bands))
	copy(out, bands)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DaysFrom > out[j].DaysFrom
	})
	return out
}

// BandSetError lists every problem found in a band set.
type BandSetError struct {
	Problems []string
}

func (e *BandSetError) Error() string {
	return "invalid refund policy bands: " + strings.Join(e.Problems, "; ")
}

// ValidateBands checks that a band set is well formed: non-negative bounds,
// DaysTo >= DaysFrom, percentages within 0..100, at most one open-ended band
// and no two bands sharing a day. Gaps are allowed; a day in a gap resolves to
// manual review.
func ValidateBands(bands []Band) error {
	var problems []string
	openEnded := 0

	for i, b := range bands {
		if b.DaysFrom < 0 {
			problems = append(problems, fmt.Sprintf("band %d: days_from must be >= 0", i))
		}
		if b.DaysTo != nil && *b.DaysTo < b.DaysFrom {
			problems = append(problems, fmt.Sprintf("band %d: days_to (%d) is before days_from (%d)", i, *b.DaysTo, b.DaysFrom))
		}
		if b.Percentage < 0 || b.Percentage > 100 {
			problems = append(problems, fmt.Sprintf("band %d: percentage %d outside 0..100", i, b.Percentage))
		}
		if b.DaysTo == nil {
			openEnded++
		}
	}
	if openEnded > 1 {
		problems = append(problems, fmt.Sprintf("%d open-ended bands, at most one allowed", openEnded))
	}

	sorted := SortBands(bands)
	for i := 1; i < len(sorted); i++ {
		upper, lower := sorted[i-1], sorted[i]
		// lower starts below upper, so they overlap when lower reaches upper.DaysFrom
		if lower.DaysTo == nil || *lower.DaysTo >= upper.DaysFrom {
			problems = append(problems, fmt.Sprintf("bands starting at %d and %d overlap", upper.DaysFrom, lower.DaysFrom))
		}
	}

	if len(problems) > 0 {
		return &BandSetError{Problems: problems}
	}
	return nil
}
