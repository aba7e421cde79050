package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/eshaffer321/room-allocation-backend/internal/domain/allocator"
	"github.com/eshaffer321/room-allocation-backend/internal/infrastructure/idempotency"
	"github.com/eshaffer321/room-allocation-backend/internal/observability"
)

// Request holds the parameters of one allocation.
type Request struct {
	PremiumRooms int
	EconomyRooms int
	Guests       []decimal.NullDecimal
	Explain      bool
	ExplainLimit int // only used when Explain is set
}

// Result is the outcome of an allocation. Explanation is nil unless the
// request asked for one.
type Result struct {
	Summary     allocator.Summary
	Explanation *allocator.Explanation
}

// AllocationService runs allocations and records their metrics.
// It is safe for concurrent use.
type AllocationService struct {
	engine  allocator.Engine
	cache   *idempotency.Cache[Result]
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewAllocationService creates a service. cache and metrics may be nil;
// without a cache idempotency keys are ignored.
func NewAllocationService(cache *idempotency.Cache[Result], metrics *observability.Metrics, logger *slog.Logger) *AllocationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AllocationService{
		cache:   cache,
		metrics: metrics,
		logger:  logger,
	}
}

// Allocate computes occupancy and revenue.
func (s *AllocationService) Allocate(ctx context.Context, premiumRooms, economyRooms int, guests []decimal.NullDecimal) (allocator.Summary, error) {
	res, err := s.Process(ctx, Request{PremiumRooms: premiumRooms, EconomyRooms: economyRooms, Guests: guests})
	if err != nil {
		return allocator.Summary{}, err
	}
	return res.Summary, nil
}

// AllocateExplain computes occupancy and revenue with an explanation.
func (s *AllocationService) AllocateExplain(ctx context.Context, premiumRooms, economyRooms int, guests []decimal.NullDecimal, explainLimit int) (allocator.Summary, allocator.Explanation, error) {
	res, err := s.Process(ctx, Request{
		PremiumRooms: premiumRooms,
		EconomyRooms: economyRooms,
		Guests:       guests,
		Explain:      true,
		ExplainLimit: explainLimit,
	})
	if err != nil {
		return allocator.Summary{}, allocator.Explanation{}, err
	}
	return res.Summary, *res.Explanation, nil
}

// Process runs req without deduplication.
func (s *AllocationService) Process(ctx context.Context, req Request) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	mode := observability.ModeSummary
	if req.Explain {
		mode = observability.ModeExplain
	}

	start := time.Now()
	var (
		res Result
		err error
	)
	if req.Explain {
		var explanation allocator.Explanation
		res.Summary, explanation, err = s.engine.AllocateExplain(req.PremiumRooms, req.EconomyRooms, req.Guests, req.ExplainLimit)
		res.Explanation = &explanation
	} else {
		res.Summary, err = s.engine.Allocate(req.PremiumRooms, req.EconomyRooms, req.Guests)
	}
	elapsed := time.Since(start)

	if err != nil {
		s.metrics.AllocationError(mode)
		s.logger.WarnContext(ctx, "allocation rejected", "mode", mode, "error", err)
		return Result{}, err
	}

	upgrades := 0
	if res.Explanation != nil {
		upgrades = res.Explanation.Upgrades
	} else {
		upgrades = max(0, res.Summary.UsagePremium-countPremium(req.Guests, req.PremiumRooms))
	}
	s.metrics.Allocation(mode, len(req.Guests), upgrades, res.Summary.RevenuePremium, res.Summary.RevenueEconomy, elapsed)

	s.logger.DebugContext(ctx, "allocation complete",
		"mode", mode,
		"guests", len(req.Guests),
		"usage_premium", res.Summary.UsagePremium,
		"revenue_premium", res.Summary.RevenuePremium.String(),
		"usage_economy", res.Summary.UsageEconomy,
		"revenue_economy", res.Summary.RevenueEconomy.String(),
		"duration", elapsed,
	)
	return res, nil
}

// ProcessIdempotent runs req at most once per key and replays the stored
// result for repeats. An empty key, or a service without a cache, runs req
// directly and reports replayed as false.
func (s *AllocationService) ProcessIdempotent(ctx context.Context, key string, req Request) (res Result, replayed bool, err error) {
	if key == "" || s.cache == nil {
		res, err = s.Process(ctx, req)
		return res, false, err
	}

	fingerprint := idempotency.Fingerprint(idempotency.FingerprintInput{
		PremiumRooms: req.PremiumRooms,
		EconomyRooms: req.EconomyRooms,
		Guests:       req.Guests,
		Explain:      req.Explain,
		ExplainLimit: req.ExplainLimit,
	})

	res, replayed, err = s.cache.GetOrCompute(key, fingerprint, func() (Result, error) {
		return s.Process(ctx, req)
	})
	if replayed {
		s.logger.InfoContext(ctx, "replayed idempotent response", "idempotency_key", key)
	}
	return res, replayed, err
}

// countPremium returns how many premium rooms premium candidates fill
// directly, so upgrades can be derived from a summary alone.
func countPremium(guests []decimal.NullDecimal, premiumRooms int) int {
	n := 0
	for _, g := range guests {
		if g.Valid && allocator.IsPremium(g.Decimal) {
			n++
		}
	}
	return min(n, premiumRooms)
}
