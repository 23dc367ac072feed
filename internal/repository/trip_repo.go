// Package repository implements the application ports on sqlite.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/garyjia/trip-expense/internal/domain/entity"
	"go.uber.org/zap"
)

// TripRepository handles trip record database operations. Route legs and
// budget maps are stored as JSON columns; the AllocationValue union decodes
// both budget shapes.
type TripRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewTripRepository creates a new trip repository.
func NewTripRepository(db *sql.DB, logger *zap.Logger) *TripRepository {
	return &TripRepository{
		db:     db,
		logger: logger,
	}
}

const tripColumns = `
	id, trip_number, title, employee_id, employee_name, currency,
	start_date, end_date, status,
	outbound, inbound, multi_city_legs,
	outbound_budget, inbound_budget, multi_city_budgets,
	created_at
`

// GetByID retrieves a trip record by id. Returns nil when not found.
func (r *TripRepository) GetByID(ctx context.Context, id string) (*entity.TripRecord, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = ?`

	trip, err := r.scanTrip(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get trip by ID", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}
	return trip, nil
}

// ListCompleted retrieves completed trips, most recently ended first.
func (r *TripRepository) ListCompleted(ctx context.Context, limit int) ([]*entity.TripRecord, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE status = 'completed' ORDER BY end_date DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		r.logger.Error("Failed to list completed trips", zap.Error(err))
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	defer rows.Close()

	var trips []*entity.TripRecord
	for rows.Next() {
		trip, err := r.scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		trips = append(trips, trip)
	}

	return trips, rows.Err()
}

// Create inserts a trip record.
func (r *TripRepository) Create(ctx context.Context, trip *entity.TripRecord) error {
	outbound, err := marshalNullable(trip.Outbound)
	if err != nil {
		return err
	}
	inbound, err := marshalNullable(trip.Inbound)
	if err != nil {
		return err
	}
	multiCityLegs, err := marshalNullable(trip.MultiCityLegs)
	if err != nil {
		return err
	}
	outboundBudget, err := marshalNullable(trip.OutboundBudget)
	if err != nil {
		return err
	}
	inboundBudget, err := marshalNullable(trip.InboundBudget)
	if err != nil {
		return err
	}
	multiCityBudgets, err := marshalNullable(trip.MultiCityBudgets)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO trips (
			id, trip_number, title, employee_id, employee_name, currency,
			start_date, end_date, status,
			outbound, inbound, multi_city_legs,
			outbound_budget, inbound_budget, multi_city_budgets
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		trip.ID,
		trip.TripNumber,
		trip.Title,
		trip.EmployeeID,
		trip.EmployeeName,
		trip.Currency,
		trip.StartDate,
		trip.EndDate,
		trip.Status,
		outbound,
		inbound,
		multiCityLegs,
		outboundBudget,
		inboundBudget,
		multiCityBudgets,
	)
	if err != nil {
		r.logger.Error("Failed to create trip", zap.String("id", trip.ID), zap.Error(err))
		return fmt.Errorf("failed to create trip: %w", err)
	}

	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *TripRepository) scanTrip(row rowScanner) (*entity.TripRecord, error) {
	var trip entity.TripRecord
	var outbound, inbound, multiCityLegs sql.NullString
	var outboundBudget, inboundBudget, multiCityBudgets sql.NullString

	err := row.Scan(
		&trip.ID,
		&trip.TripNumber,
		&trip.Title,
		&trip.EmployeeID,
		&trip.EmployeeName,
		&trip.Currency,
		&trip.StartDate,
		&trip.EndDate,
		&trip.Status,
		&outbound,
		&inbound,
		&multiCityLegs,
		&outboundBudget,
		&inboundBudget,
		&multiCityBudgets,
		&trip.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := unmarshalNullable(outbound, &trip.Outbound); err != nil {
		return nil, fmt.Errorf("failed to decode outbound leg: %w", err)
	}
	if err := unmarshalNullable(inbound, &trip.Inbound); err != nil {
		return nil, fmt.Errorf("failed to decode inbound leg: %w", err)
	}
	if err := unmarshalNullable(multiCityLegs, &trip.MultiCityLegs); err != nil {
		return nil, fmt.Errorf("failed to decode multi-city legs: %w", err)
	}
	if err := unmarshalNullable(outboundBudget, &trip.OutboundBudget); err != nil {
		return nil, fmt.Errorf("failed to decode outbound budget: %w", err)
	}
	if err := unmarshalNullable(inboundBudget, &trip.InboundBudget); err != nil {
		return nil, fmt.Errorf("failed to decode inbound budget: %w", err)
	}
	if err := unmarshalNullable(multiCityBudgets, &trip.MultiCityBudgets); err != nil {
		return nil, fmt.Errorf("failed to decode multi-city budgets: %w", err)
	}

	return &trip, nil
}

// marshalNullable encodes a value as JSON, mapping nil to SQL NULL.
func marshalNullable(v interface{}) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to encode JSON column: %w", err)
	}
	if string(data) == "null" {
		return sql.NullString{}, nil
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// unmarshalNullable decodes a JSON column into dst, leaving dst untouched
// for SQL NULL.
func unmarshalNullable(col sql.NullString, dst interface{}) error {
	if !col.Valid || col.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(col.String), dst)
}
