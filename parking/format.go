package parking

import (
	"fmt"
	"strings"
	"time"
)

// Currency renders an amount with one decimal place behind the rupee sign.
func Currency(amount float64) string {
	return fmt.Sprintf("₹%.1f", amount)
}

// CurrencyPtr renders a nullable amount, treating nil as zero.
func CurrencyPtr(amount *float64) string {
	if amount == nil {
		return Currency(0)
	}
	return Currency(*amount)
}

// FormatTime renders an ISO-8601 timestamp for display, "N/A" when empty.
func FormatTime(iso string) string {
	if iso == "" {
		return "N/A"
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05.999999", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, iso); err == nil {
			return t.Format("2006-01-02 15:04")
		}
	}
	return iso
}

// FormatTimePtr renders a nullable timestamp, "N/A" when absent.
func FormatTimePtr(iso *string) string {
	if iso == nil {
		return "N/A"
	}
	return FormatTime(*iso)
}

// FilterLots keeps the lots whose name-plus-address contains term,
// case-insensitively. An empty term keeps everything. The match runs over the
// already-fetched list; there is no backend search call.
func FilterLots(lots []ParkingLot, term string) []ParkingLot {
	term = strings.TrimSpace(term)
	if term == "" {
		return lots
	}
	needle := strings.ToLower(term)
	var matched []ParkingLot
	for _, lot := range lots {
		haystack := strings.ToLower(lot.Name + " " + lot.Address)
		if strings.Contains(haystack, needle) {
			matched = append(matched, lot)
		}
	}
	return matched
}

// Truncate shortens s to maxLen runes for table cells. Cutting on runes
// keeps multibyte names valid UTF-8.
func Truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
