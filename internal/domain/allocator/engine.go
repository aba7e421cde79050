// Package allocator assigns guests to premium and economy rooms.
//
// Guests offering at least PremiumThreshold compete for premium rooms, the
// rest for economy rooms; within a tier the highest offers win. Premium rooms
// left empty are filled with the best economy guests that could not get an
// economy room anyway:
//
//	direct   = min(premiumRooms, premiumCandidates)
//	upgrades = min(premiumRooms - direct, economyCandidates - economyRooms), if both > 0
//
// Revenue is the exact decimal sum of the allocated offers.
package allocator

import (
	"errors"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

// ErrInvalidArgument is returned for negative room counts or explain limits.
var ErrInvalidArgument = errors.New("invalid argument")

// Summary is the occupancy and revenue per tier.
type Summary struct {
	UsagePremium   int
	RevenuePremium decimal.Decimal
	UsageEconomy   int
	RevenueEconomy decimal.Decimal
}

// Explanation describes why guests were allocated, upgraded or rejected.
// Counts are exact; guest lists are truncated to ExplainLimit entries each.
type Explanation struct {
	PremiumCandidates     int
	EconomyCandidates     int
	Upgrades              int
	AllocatedPremiumCount int
	AllocatedEconomyCount int
	RejectedPremiumCount  int
	RejectedEconomyCount  int
	ExplainLimit          int

	UpgradedEconomyGuests  []decimal.Decimal
	AllocatedPremiumGuests []decimal.Decimal
	AllocatedEconomyGuests []decimal.Decimal
	RejectedPremiumGuests  []decimal.Decimal
	RejectedEconomyGuests  []decimal.Decimal
}

// plan is the outcome of the upgrade rule for one allocation call.
type plan struct {
	pools         Pools
	directPremium int
	upgrades      int
	usageEconomy  int
}

// Allocate computes occupancy and revenue. Absent guests are ignored.
func Allocate(premiumRooms, economyRooms int, guests []decimal.NullDecimal) (Summary, error) {
	if err := validateRooms(premiumRooms, economyRooms); err != nil {
		return Summary{}, err
	}

	p := newPlan(premiumRooms, economyRooms, guests, 0)
	return p.summary(), nil
}

// AllocateExplain computes the same result as Allocate together with an
// explanation whose guest lists hold at most explainLimit entries.
func AllocateExplain(premiumRooms, economyRooms int, guests []decimal.NullDecimal, explainLimit int) (Summary, Explanation, error) {
	if err := validateRooms(premiumRooms, economyRooms); err != nil {
		return Summary{}, Explanation{}, err
	}
	if explainLimit < 0 {
		return Summary{}, Explanation{}, fmt.Errorf("%w: explain limit must be non-negative, got %d", ErrInvalidArgument, explainLimit)
	}

	p := newPlan(premiumRooms, economyRooms, guests, explainLimit)
	return p.summary(), p.explanation(explainLimit), nil
}

// Engine exposes Allocate and AllocateExplain as methods for callers that
// take the engine as a dependency. The zero value is ready to use.
type Engine struct{}

// Allocate calls the package-level Allocate.
func (Engine) Allocate(premiumRooms, economyRooms int, guests []decimal.NullDecimal) (Summary, error) {
	return Allocate(premiumRooms, economyRooms, guests)
}

// AllocateExplain calls the package-level AllocateExplain.
func (Engine) AllocateExplain(premiumRooms, economyRooms int, guests []decimal.NullDecimal, explainLimit int) (Summary, Explanation, error) {
	return AllocateExplain(premiumRooms, economyRooms, guests, explainLimit)
}

func validateRooms(premiumRooms, economyRooms int) error {
	if premiumRooms < 0 {
		return fmt.Errorf("%w: premium rooms must be non-negative, got %d", ErrInvalidArgument, premiumRooms)
	}
	if economyRooms < 0 {
		return fmt.Errorf("%w: economy rooms must be non-negative, got %d", ErrInvalidArgument, economyRooms)
	}
	return nil
}

// newPlan classifies guests and applies the upgrade rule. headroom widens
// both selectors so rejected guests can be listed in an explanation.
func newPlan(premiumRooms, economyRooms int, guests []decimal.NullDecimal, headroom int) plan {
	// The economy selector must supply direct economy guests plus upgrade candidates.
	premiumK := clampTopK(len(guests), premiumRooms, headroom)
	economyK := clampTopK(len(guests), premiumRooms, economyRooms, headroom)
	pools := classify(guests, premiumK, economyK)

	direct := min(premiumRooms, pools.PremiumCount)
	free := premiumRooms - direct

	upgrades := 0
	if free > 0 && pools.EconomyCount > economyRooms {
		upgrades = min(free, pools.EconomyCount-economyRooms)
	}

	return plan{
		pools:         pools,
		directPremium: direct,
		upgrades:      upgrades,
		usageEconomy:  min(economyRooms, pools.EconomyCount),
	}
}

func (p plan) summary() Summary {
	premium := sum(window(p.pools.Premium, 0, p.directPremium))
	upgraded := sum(window(p.pools.Economy, 0, p.upgrades))
	economy := sum(window(p.pools.Economy, p.upgrades, p.usageEconomy))

	return Summary{
		UsagePremium:   p.directPremium + p.upgrades,
		RevenuePremium: premium.Add(upgraded),
		UsageEconomy:   p.usageEconomy,
		RevenueEconomy: economy,
	}
}

func (p plan) explanation(limit int) Explanation {
	economyUsed := p.upgrades + p.usageEconomy

	return Explanation{
		PremiumCandidates:     p.pools.PremiumCount,
		EconomyCandidates:     p.pools.EconomyCount,
		Upgrades:              p.upgrades,
		AllocatedPremiumCount: p.directPremium,
		AllocatedEconomyCount: p.usageEconomy,
		RejectedPremiumCount:  max(0, p.pools.PremiumCount-p.directPremium),
		RejectedEconomyCount:  max(0, p.pools.EconomyCount-economyUsed),
		ExplainLimit:          limit,

		UpgradedEconomyGuests:  window(p.pools.Economy, 0, min(p.upgrades, limit)),
		AllocatedPremiumGuests: window(p.pools.Premium, 0, min(p.directPremium, limit)),
		AllocatedEconomyGuests: window(p.pools.Economy, p.upgrades, min(p.usageEconomy, limit)),
		RejectedPremiumGuests:  window(p.pools.Premium, p.directPremium, limit),
		RejectedEconomyGuests:  window(p.pools.Economy, economyUsed, limit),
	}
}

// window returns a copy of at most n values starting at from, clamped to the
// slice bounds.
func window(values []decimal.Decimal, from, n int) []decimal.Decimal {
	from = max(0, from)
	if from >= len(values) || n <= 0 {
		return []decimal.Decimal{}
	}
	n = min(n, len(values)-from)
	return slices.Clone(values[from : from+n])
}
