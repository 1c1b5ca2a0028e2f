package refund

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestCalculator() *Calculator {
	return NewCalculator(WithClock(func() time.Time { return fixedNow }))
}

func daysAhead(d int) time.Time {
	return fixedNow.Add(time.Duration(d)*24*time.Hour + time.Hour)
}

func TestCalculateDefaultSchedule(t *testing.T) {
	calc := newTestCalculator()

	tests := []struct {
		name        string
		days        int
		wantPercent int
	}{
		{"far ahead", 90, 100},
		{"exactly thirty", 30, 100},
		{"twenty nine", 29, 90},
		{"twenty", 20, 90},
		{"nineteen", 19, 85},
		{"six", 6, 85},
		{"five", 5, 80},
		{"one", 1, 80},
		{"same day", 0, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := calc.Calculate(Input{
				Amount:     100000,
				EventStart: daysAhead(tt.days),
				Role:       RoleTraveler,
			}, DefaultBands())
			require.NoError(t, err)
			assert.Equal(t, tt.days, q.DaysUntilStart)
			assert.Equal(t, tt.wantPercent, q.Percentage)
			assert.Equal(t, BasisSchedule, q.Basis)
			assert.False(t, q.NeedsReview)
			require.NotNil(t, q.Band)
			assert.True(t, q.Band.Contains(tt.days))
		})
	}
}

func TestCalculateExamples(t *testing.T) {
	calc := newTestCalculator()

	q, err := calc.Calculate(Input{Amount: 100000, EventStart: daysAhead(25), Role: RoleTraveler}, DefaultBands())
	require.NoError(t, err)
	assert.Equal(t, int64(90000), q.RefundAmount)
	assert.Equal(t, "20-29 days before start: 90% refund", q.Description)

	q, err = calc.Calculate(Input{Amount: 50000, EventStart: daysAhead(2), Role: RoleTraveler, ReasonType: "medical_emergency"}, DefaultBands())
	require.NoError(t, err)
	assert.Equal(t, 100, q.Percentage)
	assert.Equal(t, int64(50000), q.RefundAmount)
	assert.Equal(t, BasisException, q.Basis)
	assert.Nil(t, q.Band)

	q, err = calc.Calculate(Input{Amount: 200000, EventStart: fixedNow.Add(3 * time.Hour), Role: RoleGuide}, DefaultBands())
	require.NoError(t, err)
	assert.Equal(t, 0, q.DaysUntilStart)
	assert.Equal(t, int64(100000), q.RefundAmount)
}

func TestCalculatePastStartClampsToZero(t *testing.T) {
	calc := newTestCalculator()

	q, err := calc.Calculate(Input{Amount: 1000, EventStart: fixedNow.Add(-72 * time.Hour), Role: RoleTraveler}, DefaultBands())
	require.NoError(t, err)
	assert.Equal(t, 0, q.DaysUntilStart)
	assert.Equal(t, 50, q.Percentage)
}

func TestCalculateExceptionIgnoresTiming(t *testing.T) {
	calc := newTestCalculator()

	for _, reason := range DefaultExceptionReasons {
		q, err := calc.Calculate(Input{Amount: 7777, EventStart: fixedNow, Role: RoleGuide, ReasonType: reason}, nil)
		require.NoError(t, err)
		assert.Equal(t, 100, q.Percentage, reason)
		assert.Equal(t, int64(7777), q.RefundAmount, reason)
	}

	q, err := calc.Calculate(Input{Amount: 7777, EventStart: fixedNow, Role: RoleGuide, ReasonType: "  Natural_Disaster "}, nil)
	require.NoError(t, err)
	assert.Equal(t, BasisException, q.Basis)
}

func TestCalculateCustomExceptionSet(t *testing.T) {
	calc := NewCalculator(
		WithClock(func() time.Time { return fixedNow }),
		WithExceptionReasons("strike"),
	)

	assert.True(t, calc.IsException("strike"))
	assert.False(t, calc.IsException("medical_emergency"))
	assert.Equal(t, []string{"strike"}, calc.ExceptionReasons())
}

func TestCalculateGapNeedsReview(t *testing.T) {
	calc := newTestCalculator()
	bands := []Band{
		{DaysFrom: 30, Percentage: 100},
		{DaysFrom: 0, DaysTo: intPtr(9), Percentage: 20},
	}

	q, err := calc.Calculate(Input{Amount: 50000, EventStart: daysAhead(15), Role: RoleTraveler}, bands)
	require.NoError(t, err)
	assert.Equal(t, 0, q.Percentage)
	assert.Equal(t, int64(0), q.RefundAmount)
	assert.True(t, q.NeedsReview)
	assert.Equal(t, BasisManualReview, q.Basis)
}

func TestCalculateUnorderedBands(t *testing.T) {
	calc := newTestCalculator()
	bands := DefaultBands()
	bands[0], bands[4] = bands[4], bands[0]

	q, err := calc.Calculate(Input{Amount: 1000, EventStart: daysAhead(45), Role: RoleTraveler}, bands)
	require.NoError(t, err)
	assert.Equal(t, 100, q.Percentage)
}

func TestCalculateValidation(t *testing.T) {
	calc := newTestCalculator()

	_, err := calc.Calculate(Input{Amount: 1000, Role: RoleTraveler}, DefaultBands())
	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "event_start_date", vErr.Field)

	_, err = calc.Calculate(Input{Amount: 1000, EventStart: daysAhead(3), Role: "admin"}, DefaultBands())
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "requester_role", vErr.Field)
}

func TestCalculateNonPositiveAmount(t *testing.T) {
	calc := newTestCalculator()

	for _, amount := range []int64{0, -500} {
		q, err := calc.Calculate(Input{Amount: amount, EventStart: daysAhead(40), Role: RoleTraveler}, DefaultBands())
		require.NoError(t, err)
		assert.Equal(t, int64(0), q.RefundAmount)
	}
}

func TestRefundAmountBounds(t *testing.T) {
	amounts := []int64{1, 3, 99, 101, 12345, 999999999}
	for _, a := range amounts {
		for p := 0; p <= 100; p++ {
			got := RefundAmount(a, p)
			assert.GreaterOrEqual(t, got, int64(0))
			assert.LessOrEqual(t, got, a)
		}
	}

	// half-up: 1.5 -> 2, 2.5 -> 3, 0.5 -> 1
	assert.Equal(t, int64(2), RefundAmount(3, 50))
	assert.Equal(t, int64(3), RefundAmount(5, 50))
	assert.Equal(t, int64(1), RefundAmount(1, 50))
	assert.Equal(t, int64(1), RefundAmount(5, 10))
	assert.Equal(t, int64(0), RefundAmount(4, 10))
	assert.Equal(t, int64(85), RefundAmount(100, 85))
}

func TestDaysUntil(t *testing.T) {
	assert.Equal(t, 0, DaysUntil(fixedNow.Add(23*time.Hour), fixedNow))
	assert.Equal(t, 1, DaysUntil(fixedNow.Add(24*time.Hour), fixedNow))
	assert.Equal(t, 0, DaysUntil(fixedNow.Add(-24*time.Hour), fixedNow))
	assert.Equal(t, 29, DaysUntil(fixedNow.Add(30*24*time.Hour-time.Minute), fixedNow))
}
