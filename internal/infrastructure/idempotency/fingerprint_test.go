package idempotency

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func prices(values ...string) []decimal.NullDecimal {
	out := make([]decimal.NullDecimal, len(values))
	for i, v := range values {
		if v == "null" {
			continue
		}
		out[i] = decimal.NewNullDecimal(decimal.RequireFromString(v))
	}
	return out
}

func TestFingerprint(t *testing.T) {
	base := FingerprintInput{PremiumRooms: 3, EconomyRooms: 3, Guests: prices("23", "45", "155")}
	fp := Fingerprint(base)

	assert.Len(t, fp, 64)
	assert.Equal(t, fp, Fingerprint(base), "stable for equal input")

	tests := []struct {
		name  string
		input FingerprintInput
		equal bool
	}{
		{
			name:  "trailing zeros do not matter",
			input: FingerprintInput{PremiumRooms: 3, EconomyRooms: 3, Guests: prices("23.00", "45.0", "155")},
			equal: true,
		},
		{
			name:  "different premium rooms",
			input: FingerprintInput{PremiumRooms: 4, EconomyRooms: 3, Guests: prices("23", "45", "155")},
		},
		{
			name:  "guest order",
			input: FingerprintInput{PremiumRooms: 3, EconomyRooms: 3, Guests: prices("23", "155", "45")},
		},
		{
			name:  "different price",
			input: FingerprintInput{PremiumRooms: 3, EconomyRooms: 3, Guests: prices("23", "45", "155.01")},
		},
		{
			name:  "explain flag",
			input: FingerprintInput{PremiumRooms: 3, EconomyRooms: 3, Guests: prices("23", "45", "155"), Explain: true},
		},
		{
			name:  "extra guest",
			input: FingerprintInput{PremiumRooms: 3, EconomyRooms: 3, Guests: prices("23", "45", "155", "1")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.equal {
				assert.Equal(t, fp, Fingerprint(tt.input))
			} else {
				assert.NotEqual(t, fp, Fingerprint(tt.input))
			}
		})
	}
}

func TestFingerprint_AbsentGuestDiffersFromZero(t *testing.T) {
	withNull := Fingerprint(FingerprintInput{PremiumRooms: 1, EconomyRooms: 1, Guests: prices("null", "5")})
	withZero := Fingerprint(FingerprintInput{PremiumRooms: 1, EconomyRooms: 1, Guests: prices("0", "5")})

	assert.NotEqual(t, withNull, withZero)
}

func TestFingerprint_GuestBoundaries(t *testing.T) {
	a := Fingerprint(FingerprintInput{Guests: prices("1", "23")})
	b := Fingerprint(FingerprintInput{Guests: prices("12", "3")})

	assert.NotEqual(t, a, b)
}

func TestFingerprint_ExplainLimit(t *testing.T) {
	a := Fingerprint(FingerprintInput{Explain: true, ExplainLimit: 10, Guests: prices("5")})
	b := Fingerprint(FingerprintInput{Explain: true, ExplainLimit: 20, Guests: prices("5")})

	assert.NotEqual(t, a, b)
}
