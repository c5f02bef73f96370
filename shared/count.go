package shared

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidCount = errors.New("invalid coin count")

var (
	minCount = decimal.NewFromInt(math.MinInt32)
	maxCount = decimal.NewFromInt(math.MaxInt32)
)

// ParseCount turns the text of a coin count field into a number.
// Empty text counts as zero. Whole numbers that do not fit in 32 bits are clamped
// to the nearest bound instead of being rejected.
func ParseCount(text string) (int64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, nil
	}
	if !isInteger(text) {
		return 0, fmt.Errorf("%w: %q is not a whole number", ErrInvalidCount, text)
	}

	// decimal keeps arbitrarily long digit strings exact, so the clamp sees the real magnitude.
	d, err := decimal.NewFromString(strings.TrimPrefix(text, "+"))
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidCount, text, err)
	}
	switch {
	case d.LessThan(minCount):
		return math.MinInt32, nil
	case d.GreaterThan(maxCount):
		return math.MaxInt32, nil
	}
	return d.IntPart(), nil
}

func isInteger(s string) bool {
	if s[0] == '+' || s[0] == '-' {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
