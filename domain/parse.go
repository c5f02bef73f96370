package domain

import (
	"fmt"
	"strings"

	"gold-splitter/shared"
)

// ParseAmount reads "P:G:S:C" notation. Missing leading segments are zero, so
// "5" is five copper and "1:2" is one silver and two copper.
func ParseAmount(text string) (Amount, error) {
	segments := strings.Split(strings.TrimSpace(text), ":")
	if len(segments) > len(shared.Denominations) {
		return Amount{}, fmt.Errorf("invalid amount %q: expected at most %d segments (P:G:S:C)", text, len(shared.Denominations))
	}

	counts := make([]int64, len(shared.Denominations))
	offset := len(counts) - len(segments)
	for i, segment := range segments {
		n, err := shared.ParseCount(segment)
		if err != nil {
			return Amount{}, fmt.Errorf("invalid amount %q: %w", text, err)
		}
		counts[offset+i] = n
	}
	return NewAmount(counts[0], counts[1], counts[2], counts[3]), nil
}
