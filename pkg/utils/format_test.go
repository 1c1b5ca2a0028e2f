package utils

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "₩100,000", FormatPrice(100000, "KRW"))
	assert.Equal(t, "₩0", FormatPrice(0, "krw"))
	assert.Equal(t, "-₩1,500", FormatPrice(-1500, "KRW"))
	assert.Equal(t, "EUR 2,000", FormatPrice(2000, "EUR"))
	assert.Equal(t, "ZZZ1 5", FormatPrice(5, "zzz1"))
}

func TestValidCurrency(t *testing.T) {
	assert.True(t, ValidCurrency("KRW"))
	assert.False(t, ValidCurrency("NOPE"))
}

func TestParseAndFormatDate(t *testing.T) {
	d, err := ParseDate("2026-05-17", nil)
	require.NoError(t, err)
	assert.Equal(t, "2026-05-17", FormatDate(d))

	_, err = ParseDate("17/05/2026", nil)
	assert.Error(t, err)
}

func TestNewOrderID(t *testing.T) {
	id := NewOrderID(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	assert.Regexp(t, regexp.MustCompile(`^MT-20260301-[0-9a-f]{8}$`), id)
	assert.NotEqual(t, id, NewOrderID(time.Now()))
}
