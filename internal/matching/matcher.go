package matching

import (
	"sort"

	"github.com/garyjia/trip-expense/internal/domain/entity"
	"go.uber.org/zap"
)

// MatchThreshold is the minimum score for a receipt to be assigned to a
// line item.
const MatchThreshold = 60

// Matcher produces a threshold-based assignment of pooled receipts to
// merged budget line items. The assignment is greedy in input order: a
// receipt consumed by an earlier line item is unavailable to later ones,
// even when the later one would be a better home. That trade-off is
// deliberate; the result is deterministic, not globally optimal.
type Matcher struct {
	threshold int
	logger    *zap.Logger
}

// NewMatcher creates a matcher with the fixed acceptance threshold.
func NewMatcher(logger *zap.Logger) *Matcher {
	return &Matcher{
		threshold: MatchThreshold,
		logger:    logger,
	}
}

// scored pairs a pooled receipt with its score for one line item.
type scored struct {
	receipt *entity.Receipt
	score   int
}

// Match assigns receipts from the pool to the merged budgets, in budget
// order. The pool is expected to be pre-filtered to in-window, unlinked
// receipts by the candidate source. Line items missing from the index are
// skipped so an incomplete catalog degrades a single step, not the whole
// pass. Every receipt id is assigned at most once per call; the consumed
// set is local to the call, never ambient state.
func (m *Matcher) Match(
	budgets []entity.MergedBudget,
	items map[string]*entity.LineItem,
	pool []*entity.Receipt,
	trip *entity.TripRecord,
) map[string][]*entity.Receipt {
	assignments := make(map[string][]*entity.Receipt, len(budgets))
	used := make(map[string]bool)

	for _, mb := range budgets {
		item, ok := items[mb.LineItemID]
		if !ok || item == nil {
			m.logger.Warn("Line item not found in catalog, skipping",
				zap.String("line_item_id", mb.LineItemID))
			continue
		}

		var candidates []scored
		for _, receipt := range pool {
			if used[receipt.ID] {
				continue
			}
			if s := Score(receipt, item, trip); s >= m.threshold {
				candidates = append(candidates, scored{receipt: receipt, score: s})
			}
		}

		// Descending by score; stable so ties keep pool order.
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].score > candidates[j].score
		})

		assigned := make([]*entity.Receipt, 0, len(candidates))
		for _, c := range candidates {
			used[c.receipt.ID] = true
			assigned = append(assigned, c.receipt)
		}
		assignments[mb.LineItemID] = assigned

		m.logger.Debug("Matched receipts for line item",
			zap.String("line_item_id", mb.LineItemID),
			zap.Int("assigned_count", len(assigned)))
	}

	return assignments
}
