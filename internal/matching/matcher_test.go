package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/garyjia/trip-expense/internal/domain/entity"
)

func mealsReceipt(id string, amount float64) *entity.Receipt {
	return &entity.Receipt{ID: id, Category: "meals", Date: inWindow(), Amount: amount}
}

func TestMatchAssignsEachReceiptOnce(t *testing.T) {
	trip := testTrip()
	budgets := []entity.MergedBudget{
		{LineItemID: "li-a", TotalAmount: 100},
		{LineItemID: "li-b", TotalAmount: 100},
	}
	items := map[string]*entity.LineItem{
		"li-a": {ID: "li-a", Category: entity.CategoryMeals},
		"li-b": {ID: "li-b", Category: entity.CategoryMeals},
	}
	pool := []*entity.Receipt{mealsReceipt("r-1", 40), mealsReceipt("r-2", 60)}

	matcher := NewMatcher(zap.NewNop())
	assignments := matcher.Match(budgets, items, pool, trip)

	// Both receipts clear the threshold for both line items; the first
	// line item consumes them, leaving nothing for the second.
	require.Len(t, assignments["li-a"], 2)
	assert.Empty(t, assignments["li-b"])
}

func TestMatchRespectsThreshold(t *testing.T) {
	trip := testTrip()
	budgets := []entity.MergedBudget{{LineItemID: "li-a"}}
	items := map[string]*entity.LineItem{
		"li-a": {ID: "li-a", Category: entity.CategoryMeals},
	}
	// Out-of-window, category mismatch: 0 + 0 + 30 = 30 < 60.
	pool := []*entity.Receipt{
		{ID: "r-1", Category: "transportation", Date: trip.EndDate.AddDate(0, 1, 0)},
	}

	matcher := NewMatcher(zap.NewNop())
	assignments := matcher.Match(budgets, items, pool, trip)

	assert.Empty(t, assignments["li-a"])
}

func TestMatchSkipsUnresolvedLineItems(t *testing.T) {
	trip := testTrip()
	budgets := []entity.MergedBudget{
		{LineItemID: "li-missing"},
		{LineItemID: "li-a"},
	}
	items := map[string]*entity.LineItem{
		"li-a": {ID: "li-a", Category: entity.CategoryMeals},
	}
	pool := []*entity.Receipt{mealsReceipt("r-1", 40)}

	matcher := NewMatcher(zap.NewNop())
	assignments := matcher.Match(budgets, items, pool, trip)

	// The unresolved line item is skipped, not failed, and later line
	// items still get their pass.
	_, present := assignments["li-missing"]
	assert.False(t, present)
	assert.Len(t, assignments["li-a"], 1)
}

func TestMatchOrdersByScoreStable(t *testing.T) {
	trip := testTrip()
	budgets := []entity.MergedBudget{{LineItemID: "li-a"}}
	items := map[string]*entity.LineItem{
		"li-a": {ID: "li-a", Category: entity.CategoryMeals},
	}
	// r-low scores 70 (category mismatch), the others 100 each; equal
	// scores keep pool order.
	pool := []*entity.Receipt{
		{ID: "r-low", Category: "transportation", Date: inWindow()},
		mealsReceipt("r-1", 10),
		mealsReceipt("r-2", 20),
	}

	matcher := NewMatcher(zap.NewNop())
	assignments := matcher.Match(budgets, items, pool, trip)

	require.Len(t, assignments["li-a"], 3)
	assert.Equal(t, "r-1", assignments["li-a"][0].ID)
	assert.Equal(t, "r-2", assignments["li-a"][1].ID)
	assert.Equal(t, "r-low", assignments["li-a"][2].ID)
}

func TestMatchConsumedSetIsPerCall(t *testing.T) {
	trip := testTrip()
	budgets := []entity.MergedBudget{{LineItemID: "li-a"}}
	items := map[string]*entity.LineItem{
		"li-a": {ID: "li-a", Category: entity.CategoryMeals},
	}
	pool := []*entity.Receipt{mealsReceipt("r-1", 40)}

	matcher := NewMatcher(zap.NewNop())

	first := matcher.Match(budgets, items, pool, trip)
	second := matcher.Match(budgets, items, pool, trip)

	assert.Len(t, first["li-a"], 1)
	assert.Len(t, second["li-a"], 1, "a new call starts with a fresh consumed set")
}

func TestMatchEmptyPool(t *testing.T) {
	trip := testTrip()
	budgets := []entity.MergedBudget{{LineItemID: "li-a"}}
	items := map[string]*entity.LineItem{
		"li-a": {ID: "li-a", Category: entity.CategoryMeals},
	}

	matcher := NewMatcher(zap.NewNop())
	assignments := matcher.Match(budgets, items, nil, trip)

	require.Contains(t, assignments, "li-a")
	assert.Empty(t, assignments["li-a"])
}
