package claim

import (
	"errors"

	"github.com/garyjia/trip-expense/internal/domain/entity"
)

// ErrNoClaimableAmount is returned at submit time when neither a positive
// user-typed amount nor a positive payable total exists.
var ErrNoClaimableAmount = errors.New("no positive claimable amount")

// Summary holds the three derived money figures for display. They are
// read-only projections, recomputed from the store and the merged budgets;
// every aggregate defaults to zero for empty or not-yet-loaded inputs.
type Summary struct {
	BudgetAmount  float64 `json:"budget_amount"`
	ReceiptAmount float64 `json:"receipt_amount"`
	PayableAmount float64 `json:"payable_amount"`
}

// Reconcile derives the budgeted/receipted/payable aggregates from the
// merged budgets and the association store.
func Reconcile(budgets []entity.MergedBudget, store *Store) Summary {
	var summary Summary
	if store == nil {
		return summary
	}

	for _, mb := range budgets {
		summary.BudgetAmount += mb.TotalAmount
	}
	for _, lineItemID := range store.LineItemIDs() {
		summary.ReceiptAmount += store.ReceiptTotal(lineItemID)
		summary.PayableAmount += store.PayableAmount(lineItemID)
	}
	return summary
}

// EffectiveAmount resolves the final claim amount at submission: a
// positive, explicitly user-typed amount wins; otherwise the payable
// aggregate; otherwise the submission fails validation.
func EffectiveAmount(typedAmount float64, summary Summary) (float64, error) {
	if typedAmount > 0 {
		return typedAmount, nil
	}
	if summary.PayableAmount > 0 {
		return summary.PayableAmount, nil
	}
	return 0, ErrNoClaimableAmount
}

// BuildLines flattens the store into per-line-item submission payloads.
// Only line items with at least one association or a non-zero override
// produce a payload. Line items missing from the catalog index fall back
// to the "other" category.
func BuildLines(trip *entity.TripRecord, items map[string]*entity.LineItem, store *Store) []entity.ClaimLine {
	var lines []entity.ClaimLine
	if store == nil {
		return lines
	}

	for _, lineItemID := range store.LineItemIDs() {
		receipts := store.Receipts(lineItemID)
		override, hasOverride := store.Override(lineItemID)
		if len(receipts) == 0 && (!hasOverride || override == 0) {
			continue
		}

		receiptIDs := make([]string, 0, len(receipts))
		for _, receipt := range receipts {
			receiptIDs = append(receiptIDs, receipt.ID)
		}

		category := entity.CategoryOther
		if item, ok := items[lineItemID]; ok && item != nil {
			category = item.Category
		}

		lines = append(lines, entity.ClaimLine{
			LineItemID: lineItemID,
			ReceiptIDs: receiptIDs,
			Amount:     store.PayableAmount(lineItemID),
			Currency:   trip.Currency,
			Category:   category,
		})
	}

	return lines
}
