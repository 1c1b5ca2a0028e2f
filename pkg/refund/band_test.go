package refund

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultBandsAreValid(t *testing.T) {
	require.NoError(t, ValidateBands(DefaultBands()))
}

func TestDefaultBandsFreshCopy(t *testing.T) {
	a := DefaultBands()
	a[0].Percentage = 1
	*a[1].DaysTo = 99

	b := DefaultBands()
	assert.Equal(t, 100, b[0].Percentage)
	assert.Equal(t, 29, *b[1].DaysTo)
}

func TestDefaultBandsCoverEveryDay(t *testing.T) {
	bands := DefaultBands()
	for d := 0; d <= 400; d++ {
		matches := 0
		for _, b := range bands {
			if b.Contains(d) {
				matches++
			}
		}
		assert.Equal(t, 1, matches, "day %d", d)
	}
}

func TestValidateBands(t *testing.T) {
	tests := []struct {
		name    string
		bands   []Band
		wantErr bool
	}{
		{"empty", nil, false},
		{"with gap", []Band{{DaysFrom: 10, Percentage: 100}, {DaysFrom: 0, DaysTo: intPtr(3), Percentage: 10}}, false},
		{"overlap", []Band{{DaysFrom: 10, Percentage: 100}, {DaysFrom: 0, DaysTo: intPtr(10), Percentage: 10}}, true},
		{"same start", []Band{{DaysFrom: 5, DaysTo: intPtr(6), Percentage: 100}, {DaysFrom: 5, DaysTo: intPtr(5), Percentage: 10}}, true},
		{"two open ended", []Band{{DaysFrom: 10, Percentage: 100}, {DaysFrom: 0, Percentage: 10}}, true},
		{"inverted", []Band{{DaysFrom: 10, DaysTo: intPtr(3), Percentage: 50}}, true},
		{"negative start", []Band{{DaysFrom: -1, DaysTo: intPtr(3), Percentage: 50}}, true},
		{"percentage too high", []Band{{DaysFrom: 0, Percentage: 101}}, true},
		{"percentage negative", []Band{{DaysFrom: 0, Percentage: -5}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBands(tt.bands)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var setErr *BandSetError
			require.True(t, errors.As(err, &setErr))
			assert.NotEmpty(t, setErr.Problems)
		})
	}
}

func TestBandDescribe(t *testing.T) {
	assert.Equal(t, "30+ days before start: 100% refund", Band{DaysFrom: 30, Percentage: 100}.Describe())
	assert.Equal(t, "Same day as start: 50% refund", Band{DaysFrom: 0, DaysTo: intPtr(0), Percentage: 50}.Describe())
	assert.Equal(t, "7 days before start: 60% refund", Band{DaysFrom: 7, DaysTo: intPtr(7), Percentage: 60}.Describe())
	assert.Equal(t, "1-5 days before start: 80% refund", Band{DaysFrom: 1, DaysTo: intPtr(5), Percentage: 80}.Describe())
}

func TestSortBandsDoesNotMutate(t *testing.T) {
	in := []Band{{DaysFrom: 0, DaysTo: intPtr(0)}, {DaysFrom: 30}}
	out := SortBands(in)
	assert.Equal(t, 0, in[0].DaysFrom)
	assert.Equal(t, 30, out[0].DaysFrom)
}
