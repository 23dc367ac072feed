package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/trip-expense/internal/application/service"
	"github.com/garyjia/trip-expense/internal/claim"
	"github.com/garyjia/trip-expense/internal/domain/session"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	claimService *service.ClaimService
	logger       Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(claimService *service.ClaimService, logger Logger) *Handlers {
	return &Handlers{
		claimService: claimService,
		logger:       logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// StartSessionRequest selects the trip to claim against.
type StartSessionRequest struct {
	TripID string `json:"trip_id" binding:"required"`
}

// AddReceiptsRequest associates receipts with a line item.
type AddReceiptsRequest struct {
	LineItemID string   `json:"line_item_id" binding:"required"`
	ReceiptIDs []string `json:"receipt_ids" binding:"required"`
}

// SetPayableRequest overrides a line item's payable amount.
type SetPayableRequest struct {
	Amount float64 `json:"amount"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   "1.0.0",
		},
	})
}

// ListTrips handles GET /api/v1/trips
func (h *Handlers) ListTrips(c *gin.Context) {
	trips, err := h.claimService.ListTrips(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: trips})
}

// ListLineItems handles GET /api/v1/line-items
func (h *Handlers) ListLineItems(c *gin.Context) {
	items, err := h.claimService.ListLineItems(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: items})
}

// StartSession handles POST /api/v1/claim-sessions
func (h *Handlers) StartSession(c *gin.Context) {
	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "trip_id is required"})
		return
	}

	view, err := h.claimService.StartSession(c.Request.Context(), req.TripID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: view})
}

// GetSession handles GET /api/v1/claim-sessions/:id
func (h *Handlers) GetSession(c *gin.Context) {
	view, err := h.claimService.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: view})
}

// GetSummary handles GET /api/v1/claim-sessions/:id/summary
func (h *Handlers) GetSummary(c *gin.Context) {
	summary, err := h.claimService.Summary(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: summary})
}

// Rematch handles POST /api/v1/claim-sessions/:id/rematch
func (h *Handlers) Rematch(c *gin.Context) {
	view, err := h.claimService.Rematch(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: view})
}

// AddReceipts handles POST /api/v1/claim-sessions/:id/receipts
func (h *Handlers) AddReceipts(c *gin.Context) {
	var req AddReceiptsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "line_item_id and receipt_ids are required"})
		return
	}

	result, err := h.claimService.AddReceipts(c.Request.Context(), c.Param("id"), req.LineItemID, req.ReceiptIDs)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: result})
}

// RemoveReceipt handles DELETE /api/v1/claim-sessions/:id/line-items/:lineItemId/receipts/:receiptId
func (h *Handlers) RemoveReceipt(c *gin.Context) {
	err := h.claimService.RemoveReceipt(c.Request.Context(),
		c.Param("id"), c.Param("lineItemId"), c.Param("receiptId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

// SetPayable handles PUT /api/v1/claim-sessions/:id/line-items/:lineItemId/payable
func (h *Handlers) SetPayable(c *gin.Context) {
	var req SetPayableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	err := h.claimService.SetPayable(c.Request.Context(), c.Param("id"), c.Param("lineItemId"), req.Amount)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

// Submit handles POST /api/v1/claim-sessions/:id/submit
func (h *Handlers) Submit(c *gin.Context) {
	var req service.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	result, err := h.claimService.Submit(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: result})
}

// GetClaim handles GET /api/v1/claims/:id
func (h *Handlers) GetClaim(c *gin.Context) {
	result, err := h.claimService.GetClaim(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if result == nil {
		c.JSON(http.StatusNotFound, Response{Success: false, Error: "claim not found"})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: result})
}

// fail maps service errors onto HTTP status codes.
func (h *Handlers) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTripNotFound), errors.Is(err, service.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, Response{Success: false, Error: err.Error()})
	case errors.Is(err, claim.ErrNoClaimableAmount):
		c.JSON(http.StatusUnprocessableEntity, Response{Success: false, Error: err.Error()})
	case errors.Is(err, session.ErrInvalidTransition), errors.Is(err, session.ErrGuardFailed):
		c.JSON(http.StatusConflict, Response{Success: false, Error: err.Error()})
	default:
		h.logger.Error("Request failed", "error", err)
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "internal error"})
	}
}
