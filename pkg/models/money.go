package models

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultCurrency is the storefront's display currency.
const DefaultCurrency = "INR"

// ParsePriceMinor converts a price string as the legacy clients send it
// ("₹499", "499", "1,299.50") into integer minor units.
func ParsePriceMinor(s string) (int64, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.TrimPrefix(cleaned, "₹")
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return 0, fmt.Errorf("empty price")
	}

	whole, frac := cleaned, ""
	if idx := strings.IndexByte(cleaned, '.'); idx >= 0 {
		whole, frac = cleaned[:idx], cleaned[idx+1:]
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > 2 {
		frac = frac[:2]
	}
	for len(frac) < 2 {
		frac += "0"
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q: %w", s, err)
	}
	cents, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q: %w", s, err)
	}
	if units < 0 {
		return 0, fmt.Errorf("negative price %q", s)
	}
	return units*100 + cents, nil
}

// FormatPriceMinor renders minor units the way the UI displays prices.
// Whole amounts drop the decimals: 49900 -> "₹499", 49950 -> "₹499.50".
func FormatPriceMinor(minor int64) string {
	if minor%100 == 0 {
		return fmt.Sprintf("₹%d", minor/100)
	}
	return fmt.Sprintf("₹%d.%02d", minor/100, minor%100)
}
