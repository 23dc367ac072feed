package budget

import "github.com/garyjia/trip-expense/internal/domain/entity"

// Aggregate merges allocations sharing a line item into one MergedBudget
// per distinct line item id, in first-seen order. The total is the exact
// sum of the contributing allocations; the routes list keeps every
// contributing route tag, duplicates included, and the source allocations
// are retained for audit and display.
func Aggregate(allocations []entity.BudgetAllocation) []entity.MergedBudget {
	var merged []entity.MergedBudget
	index := make(map[string]int)

	for _, alloc := range allocations {
		i, seen := index[alloc.LineItemID]
		if !seen {
			i = len(merged)
			index[alloc.LineItemID] = i
			merged = append(merged, entity.MergedBudget{LineItemID: alloc.LineItemID})
		}
		merged[i].Routes = append(merged[i].Routes, alloc.Route)
		merged[i].TotalAmount += alloc.Amount
		merged[i].Allocations = append(merged[i].Allocations, alloc)
	}

	return merged
}
