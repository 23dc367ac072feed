package claim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/trip-expense/internal/domain/entity"
)

func receipt(id string, amount float64) *entity.Receipt {
	return &entity.Receipt{ID: id, Amount: amount}
}

func TestStoreAddAndRemoveTracksPayable(t *testing.T) {
	store := NewStore()

	result := store.AddReceipts("meals", []*entity.Receipt{receipt("r-1", 40), receipt("r-2", 60)})
	assert.Len(t, result.Accepted, 2)
	assert.Empty(t, result.Rejected)
	assert.Equal(t, 100.0, store.ReceiptTotal("meals"))
	assert.Equal(t, 100.0, store.PayableAmount("meals"))

	store.RemoveReceipt("meals", "r-1")
	assert.Equal(t, 60.0, store.ReceiptTotal("meals"))
	assert.Equal(t, 60.0, store.PayableAmount("meals"), "auto-tracking follows the receipt total")
}

func TestStoreRejectsReceiptOwnedElsewhere(t *testing.T) {
	store := NewStore()
	r := receipt("r-1", 40)

	store.AddReceipts("li-a", []*entity.Receipt{r})
	result := store.AddReceipts("li-b", []*entity.Receipt{r})

	assert.Empty(t, result.Accepted)
	require.Len(t, result.Rejected, 1)
	assert.Equal(t, "r-1", result.Rejected[0].Receipt.ID)
	assert.Equal(t, "li-a", result.Rejected[0].UsedBy)
	assert.Empty(t, store.Receipts("li-b"))
}

func TestStoreDuplicateAddIsNoOp(t *testing.T) {
	store := NewStore()
	r := receipt("r-1", 40)

	store.AddReceipts("li-a", []*entity.Receipt{r})
	result := store.AddReceipts("li-a", []*entity.Receipt{r})

	assert.Empty(t, result.Accepted)
	assert.Empty(t, result.Rejected)
	assert.Len(t, store.Receipts("li-a"), 1)
	assert.Equal(t, 40.0, store.ReceiptTotal("li-a"))
}

func TestStoreOverrideStickiness(t *testing.T) {
	store := NewStore()
	store.AddReceipts("li-a", []*entity.Receipt{receipt("r-1", 40)})

	// Explicit divergence.
	store.SetOverride("li-a", 35)
	assert.Equal(t, 35.0, store.PayableAmount("li-a"))

	// A diverged override never moves on receipt changes.
	store.AddReceipts("li-a", []*entity.Receipt{receipt("r-2", 60)})
	assert.Equal(t, 100.0, store.ReceiptTotal("li-a"))
	assert.Equal(t, 35.0, store.PayableAmount("li-a"))
}

func TestStoreOverrideResumesTrackingWhenEqual(t *testing.T) {
	store := NewStore()
	store.AddReceipts("li-a", []*entity.Receipt{receipt("r-1", 40)})

	// Setting the override to the current total re-enters auto-tracking.
	store.SetOverride("li-a", 40)
	store.AddReceipts("li-a", []*entity.Receipt{receipt("r-2", 60)})

	assert.Equal(t, 100.0, store.PayableAmount("li-a"))
}

func TestStoreSetOverrideAlwaysWins(t *testing.T) {
	store := NewStore()
	store.AddReceipts("li-a", []*entity.Receipt{receipt("r-1", 40)})

	store.SetOverride("li-a", 0)
	assert.Equal(t, 0.0, store.PayableAmount("li-a"), "an explicit zero is respected")
}

func TestStoreInitializePreservesWork(t *testing.T) {
	store := NewStore()
	budgets := []entity.MergedBudget{{LineItemID: "li-a"}, {LineItemID: "li-b"}}

	store.InitializeFor(budgets)
	store.AddReceipts("li-a", []*entity.Receipt{receipt("r-1", 40)})
	store.InitializeFor(budgets)

	assert.Len(t, store.Receipts("li-a"), 1, "re-initialization never clears associations")
	assert.Equal(t, []string{"li-a", "li-b"}, store.LineItemIDs())
}

func TestStoreRemoveAbsentReceiptIsNoOp(t *testing.T) {
	store := NewStore()
	store.AddReceipts("li-a", []*entity.Receipt{receipt("r-1", 40)})

	store.RemoveReceipt("li-a", "r-unknown")
	store.RemoveReceipt("li-unknown", "r-1")

	assert.Len(t, store.Receipts("li-a"), 1)
}

func TestStoreRemovedReceiptBecomesAvailable(t *testing.T) {
	store := NewStore()
	r := receipt("r-1", 40)

	store.AddReceipts("li-a", []*entity.Receipt{r})
	store.RemoveReceipt("li-a", "r-1")

	result := store.AddReceipts("li-b", []*entity.Receipt{r})
	assert.Len(t, result.Accepted, 1)

	owner, ok := store.OwnerOf("r-1")
	assert.True(t, ok)
	assert.Equal(t, "li-b", owner)
}
