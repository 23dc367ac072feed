package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/garyjia/trip-expense/internal/domain/entity"
	"github.com/garyjia/trip-expense/pkg/database"
	"go.uber.org/zap"
)

// ClaimRepository persists assembled claims and their per-line-item
// payloads. The claim and its lines are written in one transaction.
type ClaimRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewClaimRepository creates a new claim repository.
func NewClaimRepository(db *database.DB, logger *zap.Logger) *ClaimRepository {
	return &ClaimRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a claim with its lines.
func (r *ClaimRepository) Create(ctx context.Context, c *entity.Claim) error {
	if c.SubmittedAt.IsZero() {
		c.SubmittedAt = time.Now()
	}

	err := r.db.WithTransaction(func(tx *sql.Tx) error {
		query := `
			INSERT INTO claims (id, trip_id, employee_id, title, amount, currency, status, submitted_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`
		_, err := tx.ExecContext(ctx, query,
			c.ID,
			c.TripID,
			c.EmployeeID,
			c.Title,
			c.Amount,
			c.Currency,
			c.Status,
			c.SubmittedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert claim: %w", err)
		}

		lineQuery := `
			INSERT INTO claim_lines (claim_id, line_item_id, category, amount, currency, receipt_ids)
			VALUES (?, ?, ?, ?, ?, ?)
		`
		for _, line := range c.Lines {
			receiptIDs, err := json.Marshal(line.ReceiptIDs)
			if err != nil {
				return fmt.Errorf("failed to encode receipt ids: %w", err)
			}
			_, err = tx.ExecContext(ctx, lineQuery,
				c.ID,
				line.LineItemID,
				string(line.Category),
				line.Amount,
				line.Currency,
				string(receiptIDs),
			)
			if err != nil {
				return fmt.Errorf("failed to insert claim line: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		r.logger.Error("Failed to create claim", zap.String("id", c.ID), zap.Error(err))
		return err
	}

	r.logger.Info("Claim created",
		zap.String("id", c.ID),
		zap.String("trip_id", c.TripID),
		zap.Int("line_count", len(c.Lines)),
		zap.Float64("amount", c.Amount))
	return nil
}

// GetByID retrieves a claim with its lines. Returns nil when not found.
func (r *ClaimRepository) GetByID(ctx context.Context, id string) (*entity.Claim, error) {
	query := `
		SELECT id, trip_id, employee_id, title, amount, currency, status, submitted_at
		FROM claims
		WHERE id = ?
	`

	var c entity.Claim
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID,
		&c.TripID,
		&c.EmployeeID,
		&c.Title,
		&c.Amount,
		&c.Currency,
		&c.Status,
		&c.SubmittedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get claim by ID", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get claim: %w", err)
	}

	lines, err := r.linesByClaimID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Lines = lines

	return &c, nil
}

func (r *ClaimRepository) linesByClaimID(ctx context.Context, claimID string) ([]entity.ClaimLine, error) {
	query := `
		SELECT line_item_id, category, amount, currency, receipt_ids
		FROM claim_lines
		WHERE claim_id = ?
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, claimID)
	if err != nil {
		return nil, fmt.Errorf("failed to get claim lines: %w", err)
	}
	defer rows.Close()

	var lines []entity.ClaimLine
	for rows.Next() {
		var line entity.ClaimLine
		var category string
		var receiptIDs sql.NullString

		err := rows.Scan(&line.LineItemID, &category, &line.Amount, &line.Currency, &receiptIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to scan claim line: %w", err)
		}

		line.Category = entity.Category(category)
		if receiptIDs.Valid && receiptIDs.String != "" {
			if err := json.Unmarshal([]byte(receiptIDs.String), &line.ReceiptIDs); err != nil {
				return nil, fmt.Errorf("failed to decode receipt ids: %w", err)
			}
		}

		lines = append(lines, line)
	}

	return lines, rows.Err()
}
