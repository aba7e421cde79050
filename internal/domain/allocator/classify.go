package allocator

import "github.com/shopspring/decimal"

// Pools holds the classified candidates of both tiers.
// Counts are exact; the candidate slices hold only the retained top values,
// sorted descending.
type Pools struct {
	PremiumCount int
	EconomyCount int
	Premium      []decimal.Decimal
	Economy      []decimal.Decimal
}

// Classify splits guests into premium (price >= PremiumThreshold) and economy
// candidates, retaining every candidate. Absent guests are skipped.
func Classify(guests []decimal.NullDecimal) Pools {
	return classify(guests, len(guests), len(guests))
}

// classify is the single pass behind Classify and the engine. Each tier keeps
// only its premiumK / economyK largest prices.
func classify(guests []decimal.NullDecimal, premiumK, economyK int) Pools {
	premium := NewTopK(premiumK)
	economy := NewTopK(economyK)

	var p Pools
	for _, g := range guests {
		if !g.Valid {
			continue
		}
		if IsPremium(g.Decimal) {
			p.PremiumCount++
			premium.Offer(g.Decimal)
		} else {
			p.EconomyCount++
			economy.Offer(g.Decimal)
		}
	}

	p.Premium = premium.Sorted()
	p.Economy = economy.Sorted()
	return p
}
