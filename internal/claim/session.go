package claim

import (
	"context"
	"fmt"

	"github.com/garyjia/trip-expense/internal/domain/entity"
	"github.com/garyjia/trip-expense/internal/domain/session"
)

// Session is one claim editing session for a selected trip. It binds the
// trip, its merged budgets, the association store and the lifecycle state
// machine. Sessions are created when a trip is selected and discarded when
// the edit ends without saving; they must stay confined to one owner.
type Session struct {
	ID      string
	Trip    *entity.TripRecord
	Budgets []entity.MergedBudget
	Items   map[string]*entity.LineItem

	store     *Store
	lifecycle session.StateMachine
}

// NewSession creates a session in the uninitialized state.
func NewSession(id string, trip *entity.TripRecord, budgets []entity.MergedBudget, items map[string]*entity.LineItem) *Session {
	return &Session{
		ID:        id,
		Trip:      trip,
		Budgets:   budgets,
		Items:     items,
		store:     NewStore(),
		lifecycle: session.NewLifecycle(),
	}
}

// State returns the session's lifecycle state.
func (s *Session) State() session.State {
	return s.lifecycle.State()
}

// Initialize loads an entry for every merged budget line item into the
// store. Re-initializing never clears in-progress work.
func (s *Session) Initialize(ctx context.Context) error {
	if err := s.lifecycle.Fire(ctx, session.TriggerInitialize); err != nil {
		return err
	}
	s.store.InitializeFor(s.Budgets)
	return nil
}

// ApplyAutoMatch records a matcher pass into the store. It is refused once
// the user has edited by hand.
func (s *Session) ApplyAutoMatch(ctx context.Context, assignments map[string][]*entity.Receipt) error {
	if err := s.lifecycle.Fire(ctx, session.TriggerAutoMatch); err != nil {
		return fmt.Errorf("auto-match not permitted in state %s: %w", s.lifecycle.State(), err)
	}
	// Apply in budget order so the result is deterministic.
	for _, mb := range s.Budgets {
		if receipts := assignments[mb.LineItemID]; len(receipts) > 0 {
			s.store.AddReceipts(mb.LineItemID, receipts)
		}
	}
	return nil
}

// AddReceipts is an explicit user edit associating receipts with a line
// item.
func (s *Session) AddReceipts(ctx context.Context, lineItemID string, receipts []*entity.Receipt) (AddResult, error) {
	if err := s.lifecycle.Fire(ctx, session.TriggerUserEdit); err != nil {
		return AddResult{}, err
	}
	return s.store.AddReceipts(lineItemID, receipts), nil
}

// RemoveReceipt is an explicit user edit detaching a receipt from a line
// item.
func (s *Session) RemoveReceipt(ctx context.Context, lineItemID, receiptID string) error {
	if err := s.lifecycle.Fire(ctx, session.TriggerUserEdit); err != nil {
		return err
	}
	s.store.RemoveReceipt(lineItemID, receiptID)
	return nil
}

// SetPayable is an explicit user edit overriding a line item's payable
// amount.
func (s *Session) SetPayable(ctx context.Context, lineItemID string, amount float64) error {
	if err := s.lifecycle.Fire(ctx, session.TriggerUserEdit); err != nil {
		return err
	}
	s.store.SetOverride(lineItemID, amount)
	return nil
}

// Store exposes the association store for read access.
func (s *Session) Store() *Store {
	return s.store
}

// Summary recomputes the derived money figures.
func (s *Session) Summary() Summary {
	return Reconcile(s.Budgets, s.store)
}

// Lines flattens the session into per-line-item submission payloads.
func (s *Session) Lines() []entity.ClaimLine {
	return BuildLines(s.Trip, s.Items, s.store)
}
