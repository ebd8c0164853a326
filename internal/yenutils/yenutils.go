// Package yenutils provides whole-yen amount parsing and formatting used
// throughout the application.
package yenutils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// markerRe strips currency markers and separators commonly found in receipt
// text and bank exports: yen signs, the 円 suffix, spaces and apostrophes.
var markerRe = regexp.MustCompile(`[¥￥円\s']`)

// ParseYen parses a string amount into a signed whole-yen value. It accepts
// thousands separators ("1,200"), currency markers ("¥1,200", "1200円") and
// an optional leading sign. Fractional values are rounded to the nearest yen.
func ParseYen(amountStr string) (int64, error) {
	cleaned := markerRe.ReplaceAllString(amountStr, "")
	if cleaned == "" {
		return 0, fmt.Errorf("empty amount string %q", amountStr)
	}

	// Commas are thousands separators; yen has no minor unit in practice
	cleaned = strings.ReplaceAll(cleaned, ",", "")

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}

	return d.Round(0).IntPart(), nil
}

// FormatYen renders a whole-yen value with a yen sign and thousands
// separators, e.g. -1234567 -> "-¥1,234,567".
func FormatYen(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	digits := fmt.Sprintf("%d", amount)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + "¥" + b.String()
}
