// Package service orchestrates the claim workflow: trip selection, budget
// merging, receipt auto-matching, manual edits and submission.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/garyjia/trip-expense/internal/application/port"
	"github.com/garyjia/trip-expense/internal/budget"
	"github.com/garyjia/trip-expense/internal/claim"
	"github.com/garyjia/trip-expense/internal/domain/entity"
	"github.com/garyjia/trip-expense/internal/matching"
)

var (
	// ErrTripNotFound is returned when the selected trip does not exist.
	ErrTripNotFound = errors.New("trip not found")
	// ErrSessionNotFound is returned for an unknown or already-submitted
	// session id.
	ErrSessionNotFound = errors.New("claim session not found")
)

// FormWriter renders a submitted claim into a form document.
type FormWriter interface {
	Write(trip *entity.TripRecord, c *entity.Claim, items map[string]*entity.LineItem) (string, error)
}

// ClaimService drives claim editing sessions end to end. Sessions live in
// memory; only a submitted claim reaches the database.
type ClaimService struct {
	trips    port.TripProvider
	catalog  port.LineItemCatalog
	receipts port.ReceiptSource
	claims   port.ClaimSink

	extractor *budget.Extractor
	matcher   *matching.Matcher
	exporter  FormWriter

	tripListLimit int
	logger        *zap.Logger

	mu       sync.Mutex
	sessions map[string]*claim.Session
}

// NewClaimService creates a new claim service. exporter may be nil to
// disable form generation.
func NewClaimService(
	trips port.TripProvider,
	catalog port.LineItemCatalog,
	receipts port.ReceiptSource,
	claims port.ClaimSink,
	extractor *budget.Extractor,
	matcher *matching.Matcher,
	exporter FormWriter,
	tripListLimit int,
	logger *zap.Logger,
) *ClaimService {
	return &ClaimService{
		trips:         trips,
		catalog:       catalog,
		receipts:      receipts,
		claims:        claims,
		extractor:     extractor,
		matcher:       matcher,
		exporter:      exporter,
		tripListLimit: tripListLimit,
		logger:        logger,
		sessions:      make(map[string]*claim.Session),
	}
}

// LineView is the per-line-item display payload of a session.
type LineView struct {
	LineItemID    string            `json:"line_item_id"`
	Name          string            `json:"name"`
	Category      entity.Category   `json:"category"`
	Routes        []string          `json:"routes"`
	BudgetAmount  float64           `json:"budget_amount"`
	Receipts      []*entity.Receipt `json:"receipts"`
	ReceiptAmount float64           `json:"receipt_amount"`
	PayableAmount float64           `json:"payable_amount"`
}

// SessionView is the full display payload of a session.
type SessionView struct {
	SessionID string        `json:"session_id"`
	TripID    string        `json:"trip_id"`
	State     string        `json:"state"`
	Lines     []LineView    `json:"lines"`
	Summary   claim.Summary `json:"summary"`
}

// SubmitRequest carries the user-controlled submission fields. A zero
// Amount means "use the payable aggregate".
type SubmitRequest struct {
	Title  string  `json:"title"`
	Amount float64 `json:"amount"`
}

// ListTrips returns completed trips available for claiming.
func (s *ClaimService) ListTrips(ctx context.Context) ([]*entity.TripRecord, error) {
	return s.trips.ListCompleted(ctx, s.tripListLimit)
}

// ListLineItems returns the active line item catalog.
func (s *ClaimService) ListLineItems(ctx context.Context) ([]*entity.LineItem, error) {
	return s.catalog.List(ctx)
}

// StartSession selects a trip, merges its budgets, pre-associates matching
// receipts and returns the editable session. Catalog and receipt lookups
// degrade to empty rather than failing the whole selection: the user can
// still edit by hand and the claim remains submittable.
func (s *ClaimService) StartSession(ctx context.Context, tripID string) (*SessionView, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to load trip: %w", err)
	}
	if trip == nil {
		return nil, ErrTripNotFound
	}

	allocations := s.extractor.Extract(trip)
	budgets := budget.Aggregate(allocations)

	items, err := s.catalog.List(ctx)
	if err != nil {
		s.logger.Warn("Line item catalog unavailable, continuing without names",
			zap.String("trip_id", tripID), zap.Error(err))
		items = nil
	}
	index := entity.IndexLineItems(items)

	sess := claim.NewSession(uuid.NewString(), trip, budgets, index)
	if err := sess.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize session: %w", err)
	}

	pool, err := s.receipts.FindAvailable(ctx, trip.EmployeeID, trip.StartDate, trip.EndDate)
	if err != nil {
		s.logger.Warn("Receipt lookup failed, skipping auto-match",
			zap.String("trip_id", tripID), zap.Error(err))
		pool = nil
	}

	if len(pool) > 0 {
		assignments := s.matcher.Match(budgets, index, pool, trip)
		if err := sess.ApplyAutoMatch(ctx, assignments); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.logger.Info("Claim session started",
		zap.String("session_id", sess.ID),
		zap.String("trip_id", tripID),
		zap.Int("budget_count", len(budgets)),
		zap.Int("receipt_pool", len(pool)))

	return s.view(sess), nil
}

// GetSession returns the current state of a session.
func (s *ClaimService) GetSession(ctx context.Context, sessionID string) (*SessionView, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return s.view(sess), nil
}

// Rematch re-runs the auto-matcher over the session's still-available
// receipts. It is refused once the user has edited by hand.
func (s *ClaimService) Rematch(ctx context.Context, sessionID string) (*SessionView, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	trip := sess.Trip
	pool, err := s.receipts.FindAvailable(ctx, trip.EmployeeID, trip.StartDate, trip.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to load receipts: %w", err)
	}

	assignments := s.matcher.Match(sess.Budgets, sess.Items, pool, trip)
	if err := sess.ApplyAutoMatch(ctx, assignments); err != nil {
		return nil, err
	}
	return s.view(sess), nil
}

// AddReceipts associates receipts with a line item by id. Receipts already
// backing another line item are reported in the result, not treated as
// errors.
func (s *ClaimService) AddReceipts(ctx context.Context, sessionID, lineItemID string, receiptIDs []string) (claim.AddResult, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return claim.AddResult{}, err
	}

	receipts, err := s.receipts.GetByIDs(ctx, receiptIDs)
	if err != nil {
		return claim.AddResult{}, fmt.Errorf("failed to load receipts: %w", err)
	}

	return sess.AddReceipts(ctx, lineItemID, receipts)
}

// RemoveReceipt detaches a receipt from a line item.
func (s *ClaimService) RemoveReceipt(ctx context.Context, sessionID, lineItemID, receiptID string) error {
	sess, err := s.session(sessionID)
	if err != nil {
		return err
	}
	return sess.RemoveReceipt(ctx, lineItemID, receiptID)
}

// SetPayable records an explicit payable amount for a line item.
func (s *ClaimService) SetPayable(ctx context.Context, sessionID, lineItemID string, amount float64) error {
	sess, err := s.session(sessionID)
	if err != nil {
		return err
	}
	return sess.SetPayable(ctx, lineItemID, amount)
}

// Summary returns the session's derived money figures.
func (s *ClaimService) Summary(ctx context.Context, sessionID string) (claim.Summary, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return claim.Summary{}, err
	}
	return sess.Summary(), nil
}

// Submit validates and persists the session as a claim, links the backing
// receipts and discards the session. Linking is additive: receipts are
// attached to the new claim, never blindly detached from anything else.
func (s *ClaimService) Submit(ctx context.Context, sessionID string, req SubmitRequest) (*entity.Claim, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	summary := sess.Summary()
	amount, err := claim.EffectiveAmount(req.Amount, summary)
	if err != nil {
		return nil, err
	}

	trip := sess.Trip
	title := req.Title
	if title == "" {
		title = fmt.Sprintf("%s expense claim", trip.Title)
	}

	c := &entity.Claim{
		ID:          uuid.NewString(),
		TripID:      trip.ID,
		EmployeeID:  trip.EmployeeID,
		Title:       title,
		Amount:      amount,
		Currency:    trip.Currency,
		Status:      entity.ClaimStatusSubmitted,
		Lines:       sess.Lines(),
		SubmittedAt: time.Now(),
	}

	if err := s.claims.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to persist claim: %w", err)
	}

	for _, line := range c.Lines {
		for _, receiptID := range line.ReceiptIDs {
			if err := s.receipts.Link(ctx, receiptID, c.ID, line.LineItemID); err != nil {
				return nil, fmt.Errorf("failed to link receipt %s: %w", receiptID, err)
			}
		}
	}

	if s.exporter != nil {
		if _, err := s.exporter.Write(trip, c, sess.Items); err != nil {
			// The claim is already persisted; a failed form render is
			// reported, not fatal.
			s.logger.Warn("Claim form generation failed",
				zap.String("claim_id", c.ID), zap.Error(err))
		}
	}

	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	s.logger.Info("Claim submitted",
		zap.String("claim_id", c.ID),
		zap.String("trip_id", trip.ID),
		zap.Float64("amount", c.Amount),
		zap.Int("line_count", len(c.Lines)))

	return c, nil
}

// GetClaim retrieves a persisted claim.
func (s *ClaimService) GetClaim(ctx context.Context, id string) (*entity.Claim, error) {
	return s.claims.GetByID(ctx, id)
}

// session looks up a live session. Sessions are confined to one logical
// owner; the lock guards the map, not the session.
func (s *ClaimService) session(id string) (*claim.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// view projects a session into its display payload.
func (s *ClaimService) view(sess *claim.Session) *SessionView {
	store := sess.Store()
	lines := make([]LineView, 0, len(sess.Budgets))

	for _, mb := range sess.Budgets {
		lv := LineView{
			LineItemID:    mb.LineItemID,
			Category:      entity.CategoryOther,
			Routes:        mb.Routes,
			BudgetAmount:  mb.TotalAmount,
			Receipts:      store.Receipts(mb.LineItemID),
			ReceiptAmount: store.ReceiptTotal(mb.LineItemID),
			PayableAmount: store.PayableAmount(mb.LineItemID),
		}
		if item, ok := sess.Items[mb.LineItemID]; ok && item != nil {
			lv.Name = item.Name
			lv.Category = item.Category
		}
		lines = append(lines, lv)
	}

	return &SessionView{
		SessionID: sess.ID,
		TripID:    sess.Trip.ID,
		State:     sess.State().String(),
		Lines:     lines,
		Summary:   sess.Summary(),
	}
}
