package entity

import "fmt"

// Route tags for budget allocations.
const (
	RouteOutbound = "outbound"
	RouteInbound  = "inbound"
)

// MultiCityRoute returns the route tag for the n-th multi-city leg,
// 0-based.
func MultiCityRoute(index int) string {
	return fmt.Sprintf("multiCity-%d", index)
}

// BudgetAllocation is a single positive allocation extracted from one of a
// trip's budget maps. Allocations are derived on every load and never
// persisted.
type BudgetAllocation struct {
	LineItemID string  `json:"line_item_id"`
	Route      string  `json:"route"`
	Amount     float64 `json:"amount"`
}

// MergedBudget is the per-line-item total aggregated across all of a
// trip's routes. Source allocations are retained for audit and display.
type MergedBudget struct {
	LineItemID  string             `json:"line_item_id"`
	Routes      []string           `json:"routes"`
	TotalAmount float64            `json:"total_amount"`
	Allocations []BudgetAllocation `json:"allocations"`
}
