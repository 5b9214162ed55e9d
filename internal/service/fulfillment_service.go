package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/aarothfresh/orderflow/internal/client"
	"github.com/aarothfresh/orderflow/internal/domain"
	"github.com/aarothfresh/orderflow/internal/gateway"
	"github.com/aarothfresh/orderflow/internal/view"
	"github.com/aarothfresh/orderflow/pkg/errors"
)

// TransitionRequest carries one requested status change
type TransitionRequest struct {
	Target          domain.Status
	Notes           string
	EstimatedTime   *string
	DeliveryDetails map[string]interface{}
	UpdatedBy       string
}

// AdvanceSignal is raised after a step toggle completes the active stage.
// It is advisory: the status change still requires a separate, explicit
// UpdateStatus call.
type AdvanceSignal struct {
	Available bool
	Next      domain.Status
}

// FulfillmentService orchestrates the order workflow: it validates
// transitions against the status table, runs mutations through the
// optimistic gateway, and keeps the cached views populated.
type FulfillmentService struct {
	api    client.API
	gw     *gateway.Gateway
	logger *zap.Logger
	now    func() time.Time
}

// NewFulfillmentService creates a fulfillment service
func NewFulfillmentService(api client.API, gw *gateway.Gateway, logger *zap.Logger) *FulfillmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FulfillmentService{
		api:    api,
		gw:     gw,
		logger: logger,
		now:    time.Now,
	}
}

// RefreshOrders fetches the vendor's order list into the view store
func (s *FulfillmentService) RefreshOrders(ctx context.Context) error {
	orders, err := s.api.ListVendorOrders(ctx)
	if err != nil {
		s.logger.Error("Failed to refresh vendor orders", zap.Error(err))
		return err
	}
	store := s.gw.Store()
	store.Write(view.VendorOrdersKey, orders)
	store.ClearStale(view.VendorOrdersKey)
	for _, order := range orders {
		key := view.OrderKey(order.ID)
		store.Write(key, order)
		store.ClearStale(key)
	}
	s.logger.Debug("Vendor orders refreshed", zap.Int("count", len(orders)))
	return nil
}

// RefreshWorkflow fetches one order's checklist state into the view store
func (s *FulfillmentService) RefreshWorkflow(ctx context.Context, orderID string) error {
	checklist, err := s.api.GetWorkflow(ctx, orderID)
	if err != nil {
		s.logger.Error("Failed to refresh workflow", zap.String("order_id", orderID), zap.Error(err))
		return err
	}
	key := view.WorkflowKey(orderID)
	store := s.gw.Store()
	store.Write(key, *checklist)
	store.ClearStale(key)
	return nil
}

// RefreshAll refetches the order list and then every listed order's
// checklist. This is the polling entry point: one tick reconciles all cached
// views with server truth. A failed checklist fetch is logged and skipped so
// one bad order does not stall the rest.
func (s *FulfillmentService) RefreshAll(ctx context.Context) error {
	if err := s.RefreshOrders(ctx); err != nil {
		return err
	}
	for _, order := range s.Orders() {
		if err := s.RefreshWorkflow(ctx, order.ID); err != nil {
			s.logger.Warn("Skipping workflow refresh",
				zap.String("order_id", order.ID), zap.Error(err))
		}
	}
	return nil
}

// Order reads one order from the cached views
func (s *FulfillmentService) Order(orderID string) (domain.Order, bool) {
	store := s.gw.Store()
	if v, ok := store.Read(view.OrderKey(orderID)); ok {
		if order, ok := v.(domain.Order); ok {
			return order, true
		}
	}
	if v, ok := store.Read(view.VendorOrdersKey); ok {
		if orders, ok := v.([]domain.Order); ok {
			for _, order := range orders {
				if order.ID == orderID {
					return order, true
				}
			}
		}
	}
	return domain.Order{}, false
}

// Orders reads the cached vendor order list
func (s *FulfillmentService) Orders() []domain.Order {
	if v, ok := s.gw.Store().Read(view.VendorOrdersKey); ok {
		if orders, ok := v.([]domain.Order); ok {
			return orders
		}
	}
	return nil
}

// Checklist reads one order's checklist, synthesizing an empty one for the
// order's current stage when nothing has been fetched yet.
func (s *FulfillmentService) Checklist(orderID string) (domain.Checklist, bool) {
	if v, ok := s.gw.Store().Read(view.WorkflowKey(orderID)); ok {
		if checklist, ok := v.(domain.Checklist); ok {
			return checklist, true
		}
	}
	order, ok := s.Order(orderID)
	if !ok {
		return domain.Checklist{}, false
	}
	stage := domain.StageFor(order.Status)
	return domain.Checklist{
		OrderID: orderID,
		Stage:   stage.ID,
		Steps:   map[string]domain.StepState{},
	}, true
}

// validateTransition applies the local gate. Failures here never issue a
// network call.
func (s *FulfillmentService) validateTransition(current domain.Status, req TransitionRequest) error {
	if !req.Target.IsValid() {
		return &errors.ErrValidation{
			Message: "unknown status: " + string(req.Target),
			Fields:  map[string]string{"status": "unknown value"},
		}
	}
	if !current.CanTransitionTo(req.Target) {
		return &errors.ErrInvalidStateTransition{From: current, To: req.Target}
	}
	opt, _ := domain.OptionFor(req.Target)
	if opt.RequiresReason && strings.TrimSpace(req.Notes) == "" {
		return &errors.ErrValidation{
			Message: "a reason is required to cancel an order",
			Fields:  map[string]string{"notes": "required"},
		}
	}
	if opt.EstimatedTimeRequired && (req.EstimatedTime == nil || strings.TrimSpace(*req.EstimatedTime) == "") {
		return &errors.ErrValidation{
			Message: "an estimated time is required to confirm an order",
			Fields:  map[string]string{"estimated_time": "required"},
		}
	}
	return nil
}

// UpdateStatus validates and submits one status transition. The returned
// outcome reports whether the optimistic patch was kept or rolled back; a
// non-nil error means the request failed validation locally and nothing was
// patched or dispatched.
func (s *FulfillmentService) UpdateStatus(ctx context.Context, orderID string, req TransitionRequest) (gateway.Outcome, error) {
	order, ok := s.Order(orderID)
	if !ok {
		return gateway.Outcome{}, &errors.ErrNotFound{Resource: "order", ID: orderID}
	}
	if err := s.validateTransition(order.Status, req); err != nil {
		return gateway.Outcome{}, err
	}

	entry := domain.StatusHistoryEntry{
		Status:         req.Target,
		PreviousStatus: order.Status,
		Notes:          req.Notes,
		Timestamp:      s.now(),
		UpdatedBy:      req.UpdatedBy,
		EstimatedTime:  req.EstimatedTime,
	}
	patched := order.WithTransition(entry)
	keys := []string{view.OrderKey(orderID), view.VendorOrdersKey}

	outcome := s.gw.Do(ctx, "update order status", keys,
		func(store view.Store) {
			patchOrderViews(store, patched)
		},
		func(ctx context.Context) error {
			return s.api.UpdateWorkflowStatus(ctx, orderID, client.StatusUpdateRequest{
				Status:          req.Target,
				Notes:           req.Notes,
				EstimatedTime:   req.EstimatedTime,
				DeliveryDetails: req.DeliveryDetails,
			})
		},
	)
	return outcome, nil
}

// BulkUpdateStatus applies one transition to several orders as a single
// logical patch. Validation covers every order before anything is patched;
// rollback restores the entire pre-bulk snapshot, all-or-nothing.
func (s *FulfillmentService) BulkUpdateStatus(ctx context.Context, orderIDs []string, req TransitionRequest) (gateway.Outcome, error) {
	if len(orderIDs) == 0 {
		return gateway.Outcome{}, &errors.ErrValidation{Message: "no orders selected"}
	}
	// The bulk request carries no estimated time, so a target requiring one
	// can never be applied in bulk
	if opt, ok := domain.OptionFor(req.Target); ok && opt.EstimatedTimeRequired {
		return gateway.Outcome{}, &errors.ErrValidation{
			Message: "status " + string(req.Target) + " requires a per-order estimated time and cannot be applied in bulk",
			Fields:  map[string]string{"status": "not allowed in bulk"},
		}
	}

	orders := make([]domain.Order, 0, len(orderIDs))
	for _, id := range orderIDs {
		order, ok := s.Order(id)
		if !ok {
			return gateway.Outcome{}, &errors.ErrNotFound{Resource: "order", ID: id}
		}
		if err := s.validateTransition(order.Status, req); err != nil {
			return gateway.Outcome{}, err
		}
		orders = append(orders, order)
	}

	keys := make([]string, 0, len(orderIDs)+1)
	for _, id := range orderIDs {
		keys = append(keys, view.OrderKey(id))
	}
	keys = append(keys, view.VendorOrdersKey)

	timestamp := s.now()
	outcome := s.gw.Do(ctx, "bulk update order status", keys,
		func(store view.Store) {
			for _, order := range orders {
				entry := domain.StatusHistoryEntry{
					Status:         req.Target,
					PreviousStatus: order.Status,
					Notes:          req.Notes,
					Timestamp:      timestamp,
					UpdatedBy:      req.UpdatedBy,
				}
				patchOrderViews(store, order.WithTransition(entry))
			}
		},
		func(ctx context.Context) error {
			return s.api.BulkUpdateStatus(ctx, client.BulkStatusRequest{
				OrderIDs: orderIDs,
				Status:   req.Target,
				Notes:    req.Notes,
			})
		},
	)
	return outcome, nil
}

// ToggleStep marks one checklist step complete or incomplete. When the
// committed toggle finishes the active stage, the returned signal names the
// canonical next status; applying it is the caller's explicit decision.
func (s *FulfillmentService) ToggleStep(ctx context.Context, orderID, stepID string, completed bool, notes string) (AdvanceSignal, gateway.Outcome, error) {
	order, ok := s.Order(orderID)
	if !ok {
		return AdvanceSignal{}, gateway.Outcome{}, &errors.ErrNotFound{Resource: "order", ID: orderID}
	}
	stage := domain.StageFor(order.Status)
	if _, ok := stage.StepIn(stepID); !ok {
		return AdvanceSignal{}, gateway.Outcome{}, &errors.ErrValidation{
			Message: "unknown step for the current stage: " + stepID,
			Fields:  map[string]string{"step_id": "unknown value"},
		}
	}

	checklist, ok := s.Checklist(orderID)
	if !ok {
		return AdvanceSignal{}, gateway.Outcome{}, &errors.ErrNotFound{Resource: "workflow", ID: orderID}
	}

	state := domain.StepState{Completed: completed, Notes: notes}
	if completed {
		completedAt := s.now()
		state.CompletedAt = &completedAt
	}
	patched := checklist.WithStep(stepID, state)
	key := view.WorkflowKey(orderID)

	outcome := s.gw.Do(ctx, "update checklist step", []string{key},
		func(store view.Store) {
			store.Write(key, patched)
		},
		func(ctx context.Context) error {
			return s.api.UpdateWorkflowStep(ctx, orderID, stepID, client.StepUpdateRequest{
				Completed: completed,
				Notes:     notes,
			})
		},
	)

	var signal AdvanceSignal
	if outcome.Committed && domain.IsStageComplete(stage, patched) {
		if next := domain.NextCanonical(order.Status); next != "" {
			signal = AdvanceSignal{Available: true, Next: next}
			s.logger.Info("Stage complete, next status available",
				zap.String("order_id", orderID),
				zap.String("stage", string(stage.ID)),
				zap.String("next_status", string(next)),
			)
		}
	}
	return signal, outcome, nil
}

// patchOrderViews writes the patched order into every cached view that
// contains it: the single-order view and the list view.
func patchOrderViews(store view.Store, patched domain.Order) {
	store.Write(view.OrderKey(patched.ID), patched)
	if v, ok := store.Read(view.VendorOrdersKey); ok {
		if orders, ok := v.([]domain.Order); ok {
			updated := make([]domain.Order, len(orders))
			copy(updated, orders)
			for i, order := range updated {
				if order.ID == patched.ID {
					updated[i] = patched
					break
				}
			}
			store.Write(view.VendorOrdersKey, updated)
		}
	}
}
