// Package budget turns a trip's per-route budget maps into the merged
// per-line-item totals the claim editing workflow works against.
package budget

import (
	"sort"

	"github.com/garyjia/trip-expense/internal/domain/entity"
	"go.uber.org/zap"
)

// Extractor flattens a trip's budget maps into individual positive
// allocations.
type Extractor struct {
	logger *zap.Logger
}

// NewExtractor creates a new budget extractor.
func NewExtractor(logger *zap.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// Extract walks the outbound map, the inbound map and each multi-city map
// of the trip and returns one BudgetAllocation per entry with a positive
// amount. Entries without a positive amount are dropped silently: trips
// legitimately carry partial budgets, so this is expected, not an error.
func (e *Extractor) Extract(trip *entity.TripRecord) []entity.BudgetAllocation {
	var allocations []entity.BudgetAllocation

	allocations = appendAllocations(allocations, trip.OutboundBudget, entity.RouteOutbound)
	allocations = appendAllocations(allocations, trip.InboundBudget, entity.RouteInbound)
	for i, budget := range trip.MultiCityBudgets {
		allocations = appendAllocations(allocations, budget, entity.MultiCityRoute(i))
	}

	e.logger.Debug("Extracted budget allocations",
		zap.String("trip_id", trip.ID),
		zap.Int("allocation_count", len(allocations)))

	return allocations
}

// appendAllocations collects the positive entries of one budget map under
// the given route tag. Map iteration order is not deterministic, so entries
// are emitted in sorted line item id order.
func appendAllocations(dst []entity.BudgetAllocation, budget entity.BudgetMap, route string) []entity.BudgetAllocation {
	for _, lineItemID := range sortedKeys(budget) {
		amount, ok := budget[lineItemID].PositiveAmount()
		if !ok {
			continue
		}
		dst = append(dst, entity.BudgetAllocation{
			LineItemID: lineItemID,
			Route:      route,
			Amount:     amount,
		})
	}
	return dst
}

func sortedKeys(budget entity.BudgetMap) []string {
	keys := make([]string, 0, len(budget))
	for k := range budget {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
