package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/garyjia/trip-expense/internal/domain/entity"
	"go.uber.org/zap"
)

// ReceiptRepository handles receipt database operations, including the
// link state consumed by the matching workflow.
type ReceiptRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewReceiptRepository creates a new receipt repository.
func NewReceiptRepository(db *sql.DB, logger *zap.Logger) *ReceiptRepository {
	return &ReceiptRepository{
		db:     db,
		logger: logger,
	}
}

const receiptColumns = `
	id, employee_id, category, receipt_date, amount, currency,
	vendor_name, vendor_address, vendor_tax_id, traveler,
	claim_id, line_item_id, created_at
`

// FindAvailable retrieves an employee's unlinked receipts whose date falls
// within the given window, inclusive on both ends.
func (r *ReceiptRepository) FindAvailable(ctx context.Context, employeeID string, start, end time.Time) ([]*entity.Receipt, error) {
	query := `
		SELECT ` + receiptColumns + `
		FROM receipts
		WHERE employee_id = ?
		  AND claim_id IS NULL
		  AND receipt_date >= ? AND receipt_date <= ?
		ORDER BY receipt_date ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, employeeID, start, end)
	if err != nil {
		r.logger.Error("Failed to find available receipts",
			zap.String("employee_id", employeeID), zap.Error(err))
		return nil, fmt.Errorf("failed to find available receipts: %w", err)
	}
	defer rows.Close()

	return r.collect(rows)
}

// GetByIDs retrieves receipts by id. Missing ids are simply absent from
// the result.
func (r *ReceiptRepository) GetByIDs(ctx context.Context, ids []string) ([]*entity.Receipt, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	query := `SELECT ` + receiptColumns + ` FROM receipts WHERE id IN (` + placeholders + `)`

	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to get receipts by IDs", zap.Error(err))
		return nil, fmt.Errorf("failed to get receipts: %w", err)
	}
	defer rows.Close()

	receipts, err := r.collect(rows)
	if err != nil {
		return nil, err
	}

	// Preserve caller order.
	byID := make(map[string]*entity.Receipt, len(receipts))
	for _, receipt := range receipts {
		byID[receipt.ID] = receipt
	}
	ordered := make([]*entity.Receipt, 0, len(receipts))
	for _, id := range ids {
		if receipt, ok := byID[id]; ok {
			ordered = append(ordered, receipt)
		}
	}
	return ordered, nil
}

// Link attaches a receipt to a claim line item. Linking an already-linked
// receipt overwrites the link with the same effect, so the call is
// idempotent.
func (r *ReceiptRepository) Link(ctx context.Context, receiptID, claimID, lineItemID string) error {
	query := `UPDATE receipts SET claim_id = ?, line_item_id = ? WHERE id = ?`

	_, err := r.db.ExecContext(ctx, query, claimID, lineItemID, receiptID)
	if err != nil {
		r.logger.Error("Failed to link receipt",
			zap.String("receipt_id", receiptID),
			zap.String("claim_id", claimID),
			zap.Error(err))
		return fmt.Errorf("failed to link receipt: %w", err)
	}
	return nil
}

// Unlink detaches a receipt from its claim.
func (r *ReceiptRepository) Unlink(ctx context.Context, receiptID string) error {
	query := `UPDATE receipts SET claim_id = NULL, line_item_id = NULL WHERE id = ?`

	_, err := r.db.ExecContext(ctx, query, receiptID)
	if err != nil {
		r.logger.Error("Failed to unlink receipt", zap.String("receipt_id", receiptID), zap.Error(err))
		return fmt.Errorf("failed to unlink receipt: %w", err)
	}
	return nil
}

// Create inserts a receipt.
func (r *ReceiptRepository) Create(ctx context.Context, receipt *entity.Receipt) error {
	traveler, err := marshalNullable(receipt.Traveler)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO receipts (
			id, employee_id, category, receipt_date, amount, currency,
			vendor_name, vendor_address, vendor_tax_id, traveler
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		receipt.ID,
		receipt.EmployeeID,
		receipt.Category,
		receipt.Date,
		receipt.Amount,
		receipt.Currency,
		receipt.Vendor.Name,
		receipt.Vendor.Address,
		receipt.Vendor.TaxID,
		traveler,
	)
	if err != nil {
		r.logger.Error("Failed to create receipt", zap.String("id", receipt.ID), zap.Error(err))
		return fmt.Errorf("failed to create receipt: %w", err)
	}
	return nil
}

func (r *ReceiptRepository) collect(rows *sql.Rows) ([]*entity.Receipt, error) {
	var receipts []*entity.Receipt
	for rows.Next() {
		var receipt entity.Receipt
		var traveler, claimID, lineItemID sql.NullString

		err := rows.Scan(
			&receipt.ID,
			&receipt.EmployeeID,
			&receipt.Category,
			&receipt.Date,
			&receipt.Amount,
			&receipt.Currency,
			&receipt.Vendor.Name,
			&receipt.Vendor.Address,
			&receipt.Vendor.TaxID,
			&traveler,
			&claimID,
			&lineItemID,
			&receipt.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan receipt: %w", err)
		}

		if err := unmarshalNullable(traveler, &receipt.Traveler); err != nil {
			return nil, fmt.Errorf("failed to decode traveler: %w", err)
		}
		receipt.ClaimID = claimID.String
		receipt.LineItemID = lineItemID.String

		receipts = append(receipts, &receipt)
	}
	return receipts, rows.Err()
}
