package allocator

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// PremiumThreshold is the lowest offer that makes a guest a premium candidate.
var PremiumThreshold = decimal.NewFromInt(100)

// IsPremium reports whether price makes a guest a premium candidate.
func IsPremium(price decimal.Decimal) bool {
	return price.Cmp(PremiumThreshold) >= 0
}

// Guests builds a guest list from decimal text.
// Blank values and "null" become absent guests, which the engine skips.
func Guests(values ...string) ([]decimal.NullDecimal, error) {
	guests := make([]decimal.NullDecimal, 0, len(values))
	for i, raw := range values {
		v := strings.TrimSpace(raw)
		if v == "" || strings.EqualFold(v, "null") {
			guests = append(guests, decimal.NullDecimal{})
			continue
		}

		price, err := decimal.NewFromString(v)
		if err != nil {
			return nil, fmt.Errorf("%w: guest %d has invalid price %q", ErrInvalidArgument, i, raw)
		}
		guests = append(guests, decimal.NewNullDecimal(price))
	}
	return guests, nil
}

// ParsePrices is Guests for a slice of text values.
func ParsePrices(values []string) ([]decimal.NullDecimal, error) {
	return Guests(values...)
}

// sum adds values exactly. An empty slice sums to zero.
func sum(values []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
