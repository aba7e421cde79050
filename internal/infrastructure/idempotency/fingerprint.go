package idempotency

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"

	"github.com/shopspring/decimal"
)

// FingerprintInput is the part of an allocation request that determines
// its response.
type FingerprintInput struct {
	PremiumRooms int
	EconomyRooms int
	Guests       []decimal.NullDecimal
	Explain      bool
	ExplainLimit int
}

// Fingerprint hashes in into a hex SHA-256 digest. Prices are hashed by
// their canonical text, so 100 and 100.00 match while an absent guest does
// not match 0.
func Fingerprint(in FingerprintInput) string {
	h := sha256.New()

	buf := make([]byte, 0, 64)
	buf = binary.BigEndian.AppendUint64(buf, uint64(in.PremiumRooms))
	buf = binary.BigEndian.AppendUint64(buf, uint64(in.EconomyRooms))
	if in.Explain {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	buf = binary.BigEndian.AppendUint64(buf, uint64(in.ExplainLimit))
	buf = binary.BigEndian.AppendUint64(buf, uint64(len(in.Guests)))
	h.Write(buf)

	for _, g := range in.Guests {
		buf = buf[:0]
		if g.Valid {
			buf = append(buf, g.Decimal.String()...)
		}
		buf = append(buf, 0)
		h.Write(buf)
	}

	return hex.EncodeToString(h.Sum(nil))
}
