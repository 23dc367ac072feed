// Package claim holds the session-scoped working state of one expense
// claim edit: which receipts back which line item, the payable overrides,
// and the derived reconciliation figures.
package claim

import "github.com/garyjia/trip-expense/internal/domain/entity"

// Store is the working memory of one editing session. It is the sole
// source of truth while the user edits; reconciliation with persisted
// state happens only at save time. A store must stay confined to a single
// logical owner, so it carries no locking of its own.
type Store struct {
	order     []string
	receipts  map[string][]*entity.Receipt
	owner     map[string]string // receipt id -> owning line item id
	overrides map[string]float64
}

// Rejection describes a receipt that could not be associated because it
// already backs a different line item.
type Rejection struct {
	Receipt *entity.Receipt `json:"receipt"`
	UsedBy  string          `json:"used_by"`
}

// AddResult is the structured outcome of an AddReceipts call. Rejections
// are reported, never raised as errors: the caller presents them as a
// warning.
type AddResult struct {
	Accepted []*entity.Receipt `json:"accepted"`
	Rejected []Rejection       `json:"rejected"`
}

// NewStore creates an empty association store.
func NewStore() *Store {
	return &Store{
		receipts:  make(map[string][]*entity.Receipt),
		owner:     make(map[string]string),
		overrides: make(map[string]float64),
	}
}

// InitializeFor ensures every merged budget line item has an entry.
// Already-populated entries are left alone so re-entering the edit flow
// never loses in-progress work.
func (s *Store) InitializeFor(budgets []entity.MergedBudget) {
	for _, mb := range budgets {
		s.ensureEntry(mb.LineItemID)
	}
}

func (s *Store) ensureEntry(lineItemID string) {
	if _, ok := s.receipts[lineItemID]; ok {
		return
	}
	s.receipts[lineItemID] = []*entity.Receipt{}
	s.order = append(s.order, lineItemID)
}

// AddReceipts associates the given receipts with a line item, preserving
// caller order and deduplicating by id. A receipt already held by this
// line item is a no-op; one held by a different line item is rejected with
// the owner identified.
func (s *Store) AddReceipts(lineItemID string, receipts []*entity.Receipt) AddResult {
	s.ensureEntry(lineItemID)

	pre := s.ReceiptTotal(lineItemID)
	result := AddResult{}

	for _, receipt := range receipts {
		ownedBy, linked := s.owner[receipt.ID]
		if linked {
			if ownedBy == lineItemID {
				continue
			}
			result.Rejected = append(result.Rejected, Rejection{Receipt: receipt, UsedBy: ownedBy})
			continue
		}
		s.receipts[lineItemID] = append(s.receipts[lineItemID], receipt)
		s.owner[receipt.ID] = lineItemID
		result.Accepted = append(result.Accepted, receipt)
	}

	s.trackOverride(lineItemID, pre)
	return result
}

// RemoveReceipt removes a receipt from a line item by id. An absent id is
// a no-op.
func (s *Store) RemoveReceipt(lineItemID, receiptID string) {
	list, ok := s.receipts[lineItemID]
	if !ok {
		return
	}

	pre := s.ReceiptTotal(lineItemID)
	for i, receipt := range list {
		if receipt.ID == receiptID {
			s.receipts[lineItemID] = append(list[:i], list[i+1:]...)
			delete(s.owner, receiptID)
			break
		}
	}

	s.trackOverride(lineItemID, pre)
}

// trackOverride advances the payable override after a receipt change. An
// absent override enters auto-tracking at the new total. An override that
// equalled the pre-change total was auto-tracking, so it advances too. A
// diverged override is never moved silently.
func (s *Store) trackOverride(lineItemID string, preChangeTotal float64) {
	post := s.ReceiptTotal(lineItemID)
	current, ok := s.overrides[lineItemID]
	if !ok || current == preChangeTotal {
		s.overrides[lineItemID] = post
	}
}

// SetOverride records an explicit user-entered payable amount. It always
// wins over auto-tracking.
func (s *Store) SetOverride(lineItemID string, value float64) {
	s.ensureEntry(lineItemID)
	s.overrides[lineItemID] = value
}

// Override returns the payable override for a line item, if any.
func (s *Store) Override(lineItemID string) (float64, bool) {
	v, ok := s.overrides[lineItemID]
	return v, ok
}

// Receipts returns the receipts associated with a line item, in
// association order.
func (s *Store) Receipts(lineItemID string) []*entity.Receipt {
	return s.receipts[lineItemID]
}

// ReceiptTotal returns the live sum of a line item's associated receipt
// amounts.
func (s *Store) ReceiptTotal(lineItemID string) float64 {
	total := 0.0
	for _, receipt := range s.receipts[lineItemID] {
		total += receipt.Amount
	}
	return total
}

// PayableAmount returns a line item's payable contribution: the override
// when present, the live receipt total otherwise.
func (s *Store) PayableAmount(lineItemID string) float64 {
	if v, ok := s.overrides[lineItemID]; ok {
		return v
	}
	return s.ReceiptTotal(lineItemID)
}

// LineItemIDs returns the store's line item ids in first-seen order.
func (s *Store) LineItemIDs() []string {
	ids := make([]string, len(s.order))
	copy(ids, s.order)
	return ids
}

// OwnerOf returns the line item currently holding a receipt, if any.
func (s *Store) OwnerOf(receiptID string) (string, bool) {
	id, ok := s.owner[receiptID]
	return id, ok
}
