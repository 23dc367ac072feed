package claim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/trip-expense/internal/domain/entity"
)

func TestReconcileAggregates(t *testing.T) {
	budgets := []entity.MergedBudget{
		{LineItemID: "meals", TotalAmount: 250},
		{LineItemID: "hotel", TotalAmount: 500},
	}
	store := NewStore()
	store.InitializeFor(budgets)
	store.AddReceipts("meals", []*entity.Receipt{receipt("r-1", 40), receipt("r-2", 60)})
	store.SetOverride("hotel", 450)

	summary := Reconcile(budgets, store)

	assert.Equal(t, 750.0, summary.BudgetAmount)
	assert.Equal(t, 100.0, summary.ReceiptAmount)
	assert.Equal(t, 550.0, summary.PayableAmount)
}

func TestReconcileEmptyInputs(t *testing.T) {
	assert.Equal(t, Summary{}, Reconcile(nil, NewStore()))
	assert.Equal(t, Summary{}, Reconcile(nil, nil))
}

func TestEffectiveAmount(t *testing.T) {
	summary := Summary{PayableAmount: 100}

	amount, err := EffectiveAmount(80, summary)
	require.NoError(t, err)
	assert.Equal(t, 80.0, amount, "a positive typed amount wins")

	amount, err = EffectiveAmount(0, summary)
	require.NoError(t, err)
	assert.Equal(t, 100.0, amount, "the payable aggregate is the fallback")

	_, err = EffectiveAmount(0, Summary{})
	assert.ErrorIs(t, err, ErrNoClaimableAmount)

	_, err = EffectiveAmount(-5, Summary{})
	assert.ErrorIs(t, err, ErrNoClaimableAmount, "negative typed amounts do not count")
}

func TestBuildLines(t *testing.T) {
	trip := &entity.TripRecord{ID: "trip-1", Currency: "CNY"}
	items := map[string]*entity.LineItem{
		"meals": {ID: "meals", Name: "Meals", Category: entity.CategoryMeals},
	}

	store := NewStore()
	store.InitializeFor([]entity.MergedBudget{
		{LineItemID: "meals"},
		{LineItemID: "empty"},
		{LineItemID: "uncatalogued"},
	})
	store.AddReceipts("meals", []*entity.Receipt{receipt("r-1", 40), receipt("r-2", 60)})
	store.SetOverride("uncatalogued", 75)

	lines := BuildLines(trip, items, store)

	require.Len(t, lines, 2, "line items with no receipts and no override are skipped")

	assert.Equal(t, "meals", lines[0].LineItemID)
	assert.Equal(t, []string{"r-1", "r-2"}, lines[0].ReceiptIDs)
	assert.Equal(t, 100.0, lines[0].Amount)
	assert.Equal(t, "CNY", lines[0].Currency)
	assert.Equal(t, entity.CategoryMeals, lines[0].Category)

	assert.Equal(t, "uncatalogued", lines[1].LineItemID)
	assert.Equal(t, 75.0, lines[1].Amount)
	assert.Equal(t, entity.CategoryOther, lines[1].Category, "unresolved line items fall back to other")
}

func TestBuildLinesNilStore(t *testing.T) {
	assert.Empty(t, BuildLines(&entity.TripRecord{}, nil, nil))
}
