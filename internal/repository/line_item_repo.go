package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/garyjia/trip-expense/internal/domain/entity"
	"go.uber.org/zap"
)

// LineItemRepository handles line item catalog database operations.
type LineItemRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewLineItemRepository creates a new line item repository.
func NewLineItemRepository(db *sql.DB, logger *zap.Logger) *LineItemRepository {
	return &LineItemRepository{
		db:     db,
		logger: logger,
	}
}

// List retrieves all active line items in catalog order.
func (r *LineItemRepository) List(ctx context.Context) ([]*entity.LineItem, error) {
	query := `
		SELECT id, name, category, active, created_at
		FROM line_items
		WHERE active = 1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list line items", zap.Error(err))
		return nil, fmt.Errorf("failed to list line items: %w", err)
	}
	defer rows.Close()

	var items []*entity.LineItem
	for rows.Next() {
		item, err := r.scanLineItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan line item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// GetByID retrieves a line item by id. Returns nil when not found.
func (r *LineItemRepository) GetByID(ctx context.Context, id string) (*entity.LineItem, error) {
	query := `
		SELECT id, name, category, active, created_at
		FROM line_items
		WHERE id = ?
	`

	item, err := r.scanLineItem(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get line item by ID", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get line item: %w", err)
	}
	return item, nil
}

// Create inserts a line item.
func (r *LineItemRepository) Create(ctx context.Context, item *entity.LineItem) error {
	query := `
		INSERT INTO line_items (id, name, category, active)
		VALUES (?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query, item.ID, item.Name, string(item.Category), item.Active)
	if err != nil {
		r.logger.Error("Failed to create line item", zap.String("id", item.ID), zap.Error(err))
		return fmt.Errorf("failed to create line item: %w", err)
	}
	return nil
}

func (r *LineItemRepository) scanLineItem(row rowScanner) (*entity.LineItem, error) {
	var item entity.LineItem
	var category string

	err := row.Scan(
		&item.ID,
		&item.Name,
		&category,
		&item.Active,
		&item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.Category = entity.NormalizeCategory(category)
	return &item, nil
}
