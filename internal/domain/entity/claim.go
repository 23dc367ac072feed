package entity

import "time"

// Claim status constants.
const (
	ClaimStatusDraft     = "DRAFT"
	ClaimStatusSubmitted = "SUBMITTED"
)

// ClaimLine is the per-line-item submission payload: the receipts backing
// one budget line item and the amount actually claimed for it.
type ClaimLine struct {
	LineItemID string   `json:"line_item_id"`
	ReceiptIDs []string `json:"receipt_ids"`
	Amount     float64  `json:"amount"`
	Currency   string   `json:"currency"`
	Category   Category `json:"category"`
}

// Claim is an expense claim assembled from a trip editing session.
type Claim struct {
	ID          string      `json:"id"`
	TripID      string      `json:"trip_id"`
	EmployeeID  string      `json:"employee_id"`
	Title       string      `json:"title"`
	Amount      float64     `json:"amount"`
	Currency    string      `json:"currency"`
	Status      string      `json:"status"`
	Lines       []ClaimLine `json:"lines"`
	SubmittedAt time.Time   `json:"submitted_at"`
}
