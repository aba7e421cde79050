package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/eshaffer321/room-allocation-backend/internal/api/dto"
	"github.com/eshaffer321/room-allocation-backend/internal/application/service"
	"github.com/eshaffer321/room-allocation-backend/internal/domain/allocator"
)

// PrintSummary prints occupancy and revenue per tier.
func PrintSummary(w io.Writer, s allocator.Summary) {
	fmt.Fprintf(w, "Premium: %d rooms, revenue %s\n", s.UsagePremium, s.RevenuePremium)
	fmt.Fprintf(w, "Economy: %d rooms, revenue %s\n", s.UsageEconomy, s.RevenueEconomy)
}

// PrintExplanation prints the allocation decisions.
func PrintExplanation(w io.Writer, e allocator.Explanation) {
	fmt.Fprintln(w, strings.Repeat("-", 60))
	fmt.Fprintf(w, "Candidates: premium=%d economy=%d | Upgrades: %d\n",
		e.PremiumCandidates, e.EconomyCandidates, e.Upgrades)
	fmt.Fprintf(w, "Rejected: premium=%d economy=%d\n", e.RejectedPremiumCount, e.RejectedEconomyCount)

	printList(w, "Upgraded economy", e.UpgradedEconomyGuests, e.Upgrades)
	printList(w, "Allocated premium", e.AllocatedPremiumGuests, e.AllocatedPremiumCount)
	printList(w, "Allocated economy", e.AllocatedEconomyGuests, e.AllocatedEconomyCount)
	printList(w, "Rejected premium", e.RejectedPremiumGuests, e.RejectedPremiumCount)
	printList(w, "Rejected economy", e.RejectedEconomyGuests, e.RejectedEconomyCount)
}

func printList(w io.Writer, label string, values []decimal.Decimal, total int) {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = v.String()
	}
	line := fmt.Sprintf("  %-18s [%s]", label+":", strings.Join(parts, ", "))
	if total > len(values) {
		line += fmt.Sprintf(" (+%d more)", total-len(values))
	}
	fmt.Fprintln(w, line)
}

// PrintJSON prints res in the same shape the HTTP API returns.
func PrintJSON(w io.Writer, res service.Result) error {
	var body any = dto.NewOccupancyResponse(res.Summary)
	if res.Explanation != nil {
		body = dto.NewOccupancyExplainResponse(res.Summary, *res.Explanation)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(body)
}
