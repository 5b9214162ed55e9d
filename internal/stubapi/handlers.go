package stubapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aarothfresh/orderflow/internal/domain"
)

type statusUpdateRequest struct {
	Status          domain.Status          `json:"status" binding:"required"`
	Notes           string                 `json:"notes"`
	EstimatedTime   *string                `json:"estimated_time"`
	DeliveryDetails map[string]interface{} `json:"delivery_details"`
}

type bulkStatusRequest struct {
	OrderIDs []string      `json:"order_ids" binding:"required,min=1"`
	Status   domain.Status `json:"status" binding:"required"`
	Notes    string        `json:"notes"`
}

type stepUpdateRequest struct {
	Completed bool   `json:"completed"`
	Notes     string `json:"notes"`
}

// handleListOrders handles GET /v1/vendor/orders
func (s *Server) handleListOrders(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	orders := make([]domain.Order, 0, len(s.orderSeq))
	for _, id := range s.orderSeq {
		orders = append(orders, s.orders[id].Clone())
	}
	c.JSON(http.StatusOK, gin.H{"data": orders})
}

// applyTransitionLocked validates and applies one transition to one order.
// Returns an error message suitable for the response body, or "".
func (s *Server) applyTransitionLocked(order *domain.Order, req statusUpdateRequest) string {
	if !req.Status.IsValid() {
		return "unknown status: " + string(req.Status)
	}
	if !order.Status.CanTransitionTo(req.Status) {
		return "cannot transition from " + string(order.Status) + " to " + string(req.Status)
	}
	if opt, _ := domain.OptionFor(req.Status); opt.RequiresReason && strings.TrimSpace(req.Notes) == "" {
		return "a reason is required for this status"
	} else if opt.EstimatedTimeRequired && (req.EstimatedTime == nil || strings.TrimSpace(*req.EstimatedTime) == "") {
		return "an estimated time is required for this status"
	}

	entry := domain.StatusHistoryEntry{
		Status:         req.Status,
		PreviousStatus: order.Status,
		Notes:          req.Notes,
		Timestamp:      s.now(),
		UpdatedBy:      "vendor",
		EstimatedTime:  req.EstimatedTime,
	}
	updated := order.WithTransition(entry)
	*order = updated

	// New status, new stage: reset the checklist the way the backend does
	stage := domain.StageFor(order.Status)
	s.checklists[order.ID] = &domain.Checklist{
		OrderID: order.ID,
		Stage:   stage.ID,
		Steps:   map[string]domain.StepState{},
	}
	s.notifyLocked(order.ID, "Order "+order.ID+" moved to "+string(order.Status))
	return ""
}

// handleUpdateStatus handles PUT /v1/orders/:id/workflow-status
func (s *Server) handleUpdateStatus(c *gin.Context) {
	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[c.Param("id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	if msg := s.applyTransitionLocked(order, req); msg != "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": order.Clone()})
}

// handleBulkUpdateStatus handles POST /v1/orders/bulk-status.
// The batch is atomic: any invalid id or transition rejects the whole request
// before anything is applied.
func (s *Server) handleBulkUpdateStatus(c *gin.Context) {
	var req bulkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	// Target-level requirements are checked up front so the apply loop below
	// cannot fail after part of the batch has been applied
	if opt, _ := domain.OptionFor(req.Status); opt.EstimatedTimeRequired {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "an estimated time is required for this status and cannot be set in bulk",
		})
		return
	} else if opt.RequiresReason && strings.TrimSpace(req.Notes) == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "a reason is required for this status"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	single := statusUpdateRequest{Status: req.Status, Notes: req.Notes}
	for _, id := range req.OrderIDs {
		order, ok := s.orders[id]
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found: " + id})
			return
		}
		if !order.Status.CanTransitionTo(req.Status) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "cannot transition order " + id + " from " + string(order.Status) + " to " + string(req.Status),
			})
			return
		}
	}
	for _, id := range req.OrderIDs {
		if msg := s.applyTransitionLocked(s.orders[id], single); msg != "" {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": msg})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"updated": len(req.OrderIDs)})
}

// handleGetWorkflow handles GET /v1/orders/:id/workflow
func (s *Server) handleGetWorkflow(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	checklist, ok := s.checklists[c.Param("id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "workflow not found"})
		return
	}
	c.JSON(http.StatusOK, checklist.Clone())
}

// handleUpdateStep handles PUT /v1/orders/:id/workflow/:stepId
func (s *Server) handleUpdateStep(c *gin.Context) {
	var req stepUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	orderID := c.Param("id")
	checklist, ok := s.checklists[orderID]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "workflow not found"})
		return
	}
	order := s.orders[orderID]
	stage := domain.StageFor(order.Status)
	stepID := c.Param("stepId")
	if _, ok := stage.StepIn(stepID); !ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "unknown step for the current stage: " + stepID})
		return
	}

	state := domain.StepState{Completed: req.Completed, Notes: req.Notes}
	if req.Completed {
		completedAt := s.now()
		state.CompletedAt = &completedAt
	}
	updated := checklist.WithStep(stepID, state)
	s.checklists[orderID] = &updated
	c.JSON(http.StatusOK, updated.Clone())
}

// handleGetNotifications handles GET /v1/vendor/orders/notifications
func (s *Server) handleGetNotifications(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	unread := 0
	for _, n := range s.notifications {
		if !n.Read {
			unread++
		}
	}
	list := make([]domain.Notification, len(s.notifications))
	copy(list, s.notifications)
	c.JSON(http.StatusOK, gin.H{"data": list, "unread_count": unread})
}
