package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const DateLayout = "2006-01-02"

var currencySymbols = map[string]string{
	"KRW": "₩",
	"USD": "$",
	"JPY": "¥",
	"IDR": "Rp",
}

var numberPrinter = message.NewPrinter(language.English)

// FormatPrice renders a minor-unit-free amount with digit grouping, e.g.
// FormatPrice(100000, "KRW") == "₩100,000". Unknown currencies are rendered
// as "<CODE> 100,000".
func FormatPrice(amount int64, code string) string {
	code = strings.ToUpper(code)
	grouped := numberPrinter.Sprintf("%d", amount)

	unit, err := currency.ParseISO(code)
	if err != nil {
		return code + " " + grouped
	}
	if sym, ok := currencySymbols[unit.String()]; ok {
		if amount < 0 {
			return "-" + sym + strings.TrimPrefix(grouped, "-")
		}
		return sym + grouped
	}
	return unit.String() + " " + grouped
}

// ValidCurrency reports whether code is an ISO 4217 currency.
func ValidCurrency(code string) bool {
	_, err := currency.ParseISO(code)
	return err == nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses "2006-01-02" in loc (UTC when nil).
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(DateLayout, s, loc)
}

// NewOrderID returns ids like "MT-20260301-1a2b3c4d".
func NewOrderID(now time.Time) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("MT-%s-%s", now.Format("20060102"), id[:8])
}
