// Package port defines the external collaborator interfaces the claim
// workflow depends on. Implementations live in internal/repository.
package port

import (
	"context"
	"time"

	"github.com/garyjia/trip-expense/internal/domain/entity"
)

// TripProvider is the read-only lookup of trip records, including budgets,
// route endpoints, date range, currency and employee identity.
type TripProvider interface {
	GetByID(ctx context.Context, id string) (*entity.TripRecord, error)
	ListCompleted(ctx context.Context, limit int) ([]*entity.TripRecord, error)
}

// LineItemCatalog looks up budget line items. A call may return an
// incomplete set; the matching pass tolerates that by skipping unresolved
// line items, and callers may reload and re-run matching.
type LineItemCatalog interface {
	List(ctx context.Context) ([]*entity.LineItem, error)
	GetByID(ctx context.Context, id string) (*entity.LineItem, error)
}

// ReceiptSource supplies unlinked receipts within a date window and owns
// the link state of receipts. Link is idempotent: linking an
// already-linked receipt is not an error.
type ReceiptSource interface {
	FindAvailable(ctx context.Context, employeeID string, start, end time.Time) ([]*entity.Receipt, error)
	GetByIDs(ctx context.Context, ids []string) ([]*entity.Receipt, error)
	Link(ctx context.Context, receiptID, claimID, lineItemID string) error
	Unlink(ctx context.Context, receiptID string) error
}

// ClaimSink receives the assembled submission. The core builds the payload
// per line item; the sink owns the persistence I/O.
type ClaimSink interface {
	Create(ctx context.Context, c *entity.Claim) error
	GetByID(ctx context.Context, id string) (*entity.Claim, error)
}
