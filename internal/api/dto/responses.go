package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/eshaffer321/room-allocation-backend/internal/domain/allocator"
)

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// NewHealthResponse creates a healthy response with the current timestamp.
func NewHealthResponse() HealthResponse {
	return HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// OccupancyResponse is the allocation summary. Revenues are JSON numbers
// carrying the exact decimal value.
type OccupancyResponse struct {
	UsagePremium   int         `json:"usagePremium"`
	RevenuePremium json.Number `json:"revenuePremium"`
	UsageEconomy   int         `json:"usageEconomy"`
	RevenueEconomy json.Number `json:"revenueEconomy"`
}

// OccupancyExplainResponse is the summary plus the allocation decisions.
type OccupancyExplainResponse struct {
	OccupancyResponse
	Explanation ExplanationResponse `json:"explanation"`
}

// ExplanationResponse mirrors allocator.Explanation.
type ExplanationResponse struct {
	PremiumCandidates      int           `json:"premiumCandidates"`
	EconomyCandidates      int           `json:"economyCandidates"`
	Upgrades               int           `json:"upgrades"`
	AllocatedPremiumCount  int           `json:"allocatedPremiumCount"`
	AllocatedEconomyCount  int           `json:"allocatedEconomyCount"`
	RejectedPremiumCount   int           `json:"rejectedPremiumCount"`
	RejectedEconomyCount   int           `json:"rejectedEconomyCount"`
	ExplainLimit           int           `json:"explainLimit"`
	UpgradedEconomyGuests  []json.Number `json:"upgradedEconomyGuests"`
	AllocatedPremiumGuests []json.Number `json:"allocatedPremiumGuests"`
	AllocatedEconomyGuests []json.Number `json:"allocatedEconomyGuests"`
	RejectedPremiumGuests  []json.Number `json:"rejectedPremiumGuests"`
	RejectedEconomyGuests  []json.Number `json:"rejectedEconomyGuests"`
}

// NewOccupancyResponse converts an allocation summary.
func NewOccupancyResponse(s allocator.Summary) OccupancyResponse {
	return OccupancyResponse{
		UsagePremium:   s.UsagePremium,
		RevenuePremium: Number(s.RevenuePremium),
		UsageEconomy:   s.UsageEconomy,
		RevenueEconomy: Number(s.RevenueEconomy),
	}
}

// NewOccupancyExplainResponse converts an allocation summary and explanation.
func NewOccupancyExplainResponse(s allocator.Summary, e allocator.Explanation) OccupancyExplainResponse {
	return OccupancyExplainResponse{
		OccupancyResponse: NewOccupancyResponse(s),
		Explanation: ExplanationResponse{
			PremiumCandidates:      e.PremiumCandidates,
			EconomyCandidates:      e.EconomyCandidates,
			Upgrades:               e.Upgrades,
			AllocatedPremiumCount:  e.AllocatedPremiumCount,
			AllocatedEconomyCount:  e.AllocatedEconomyCount,
			RejectedPremiumCount:   e.RejectedPremiumCount,
			RejectedEconomyCount:   e.RejectedEconomyCount,
			ExplainLimit:           e.ExplainLimit,
			UpgradedEconomyGuests:  Numbers(e.UpgradedEconomyGuests),
			AllocatedPremiumGuests: Numbers(e.AllocatedPremiumGuests),
			AllocatedEconomyGuests: Numbers(e.AllocatedEconomyGuests),
			RejectedPremiumGuests:  Numbers(e.RejectedPremiumGuests),
			RejectedEconomyGuests:  Numbers(e.RejectedEconomyGuests),
		},
	}
}

// Number renders d as an unquoted JSON number.
func Number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

// Numbers renders each value with Number. The result is never nil so it
// encodes as [] rather than null.
func Numbers(values []decimal.Decimal) []json.Number {
	out := make([]json.Number, len(values))
	for i, v := range values {
		out[i] = Number(v)
	}
	return out
}
