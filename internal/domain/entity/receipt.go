package entity

import "time"

// Vendor is the merchant a receipt was issued by.
type Vendor struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	TaxID   string `json:"tax_id,omitempty"`
}

// Traveler is the optional passenger sub-record carried by transportation
// receipts.
type Traveler struct {
	Name        string   `json:"name"`
	Departure   Location `json:"departure"`
	Destination Location `json:"destination"`
}

// Receipt is a captured spend document (invoice) available for backing a
// claim line item.
type Receipt struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employee_id"`
	Category   string    `json:"category"`
	Date       time.Time `json:"date"`
	Amount     float64   `json:"amount"`
	Currency   string    `json:"currency,omitempty"`
	Vendor     Vendor    `json:"vendor"`
	Traveler   *Traveler `json:"traveler,omitempty"`

	// Link state. Empty ClaimID means the receipt is unlinked and
	// available for matching.
	ClaimID    string `json:"claim_id,omitempty"`
	LineItemID string `json:"line_item_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Linked reports whether the receipt is already attached to a claim.
func (r *Receipt) Linked() bool {
	return r.ClaimID != ""
}
