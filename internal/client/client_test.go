package client

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aarothfresh/orderflow/internal/domain"
	"github.com/aarothfresh/orderflow/internal/stubapi"
	apperrors "github.com/aarothfresh/orderflow/pkg/errors"
)

const testAPIKey = "test-key"

func newTestBackend(t *testing.T) (*stubapi.Server, *Client) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	backend := stubapi.NewServer(testAPIKey, nil)
	srv := httptest.NewServer(backend.Router("test"))
	t.Cleanup(srv.Close)
	return backend, NewClient(srv.URL, testAPIKey, nil)
}

func seedOrder(backend *stubapi.Server, id string, status domain.Status) {
	backend.SeedOrder(domain.Order{
		ID:             id,
		VendorID:       "vendor-1",
		RestaurantName: "Harvest Table",
		Status:         status,
		Items:          []domain.OrderItem{{SKU: "CAR-ORG", Title: "Organic carrots", Price: 2.1, Quantity: 5}},
		Total:          10.5,
	})
}

func TestListVendorOrders(t *testing.T) {
	backend, c := newTestBackend(t)
	seedOrder(backend, "ord-1", domain.StatusPending)
	seedOrder(backend, "ord-2", domain.StatusConfirmed)

	orders, err := c.ListVendorOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "ord-1", orders[0].ID)
	assert.Equal(t, domain.StatusPending, orders[0].Status)
	assert.Equal(t, "ord-2", orders[1].ID)
}

func TestUpdateWorkflowStatus(t *testing.T) {
	backend, c := newTestBackend(t)
	seedOrder(backend, "ord-1", domain.StatusPending)
	ctx := context.Background()

	t.Run("Accepted", func(t *testing.T) {
		eta := "2h"
		err := c.UpdateWorkflowStatus(ctx, "ord-1", StatusUpdateRequest{
			Status:        domain.StatusConfirmed,
			EstimatedTime: &eta,
		})
		require.NoError(t, err)

		orders, err := c.ListVendorOrders(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusConfirmed, orders[0].Status)
		last := orders[0].StatusHistory[len(orders[0].StatusHistory)-1]
		assert.Equal(t, domain.StatusConfirmed, last.Status)
		assert.Equal(t, domain.StatusPending, last.PreviousStatus)
	})

	t.Run("Rejected With Server Message", func(t *testing.T) {
		err := c.UpdateWorkflowStatus(ctx, "ord-1", StatusUpdateRequest{Status: domain.StatusPending})
		var rejection *apperrors.ErrServerRejection
		require.ErrorAs(t, err, &rejection)
		assert.Equal(t, 422, rejection.StatusCode)
		assert.Contains(t, rejection.Message, "cannot transition")
	})

	t.Run("Unknown Order", func(t *testing.T) {
		err := c.UpdateWorkflowStatus(ctx, "nope", StatusUpdateRequest{Status: domain.StatusConfirmed})
		var rejection *apperrors.ErrServerRejection
		require.ErrorAs(t, err, &rejection)
		assert.Equal(t, 404, rejection.StatusCode)
	})
}

func TestBulkUpdateStatus(t *testing.T) {
	backend, c := newTestBackend(t)
	seedOrder(backend, "ord-1", domain.StatusPrepared)
	seedOrder(backend, "ord-2", domain.StatusPrepared)
	seedOrder(backend, "ord-3", domain.StatusDelivered)
	ctx := context.Background()

	t.Run("Estimated Time Target Rejected", func(t *testing.T) {
		err := c.BulkUpdateStatus(ctx, BulkStatusRequest{
			OrderIDs: []string{"ord-1"},
			Status:   domain.StatusConfirmed,
		})
		var rejection *apperrors.ErrServerRejection
		require.ErrorAs(t, err, &rejection)
		assert.Equal(t, 422, rejection.StatusCode)
		assert.Contains(t, rejection.Message, "estimated time")
	})

	t.Run("Atomic Rejection", func(t *testing.T) {
		// ord-3 is terminal, so the whole batch is rejected untouched
		err := c.BulkUpdateStatus(ctx, BulkStatusRequest{
			OrderIDs: []string{"ord-1", "ord-2", "ord-3"},
			Status:   domain.StatusShipping,
		})
		var rejection *apperrors.ErrServerRejection
		require.ErrorAs(t, err, &rejection)

		orders, err := c.ListVendorOrders(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPrepared, orders[0].Status)
		assert.Equal(t, domain.StatusPrepared, orders[1].Status)
	})

	t.Run("Accepted", func(t *testing.T) {
		err := c.BulkUpdateStatus(ctx, BulkStatusRequest{
			OrderIDs: []string{"ord-1", "ord-2"},
			Status:   domain.StatusShipping,
		})
		require.NoError(t, err)

		orders, err := c.ListVendorOrders(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusShipping, orders[0].Status)
		assert.Equal(t, domain.StatusShipping, orders[1].Status)
	})

	t.Run("Cancellation Requires Notes", func(t *testing.T) {
		err := c.BulkUpdateStatus(ctx, BulkStatusRequest{
			OrderIDs: []string{"ord-1", "ord-2"},
			Status:   domain.StatusCancelled,
		})
		var rejection *apperrors.ErrServerRejection
		require.ErrorAs(t, err, &rejection)
		assert.Equal(t, 422, rejection.StatusCode)
		assert.Contains(t, rejection.Message, "reason")

		// Rejected before anything was applied
		orders, err := c.ListVendorOrders(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusShipping, orders[0].Status)
		assert.Equal(t, domain.StatusShipping, orders[1].Status)
	})
}

func TestWorkflowEndpoints(t *testing.T) {
	backend, c := newTestBackend(t)
	seedOrder(backend, "ord-1", domain.StatusPreparing)
	ctx := context.Background()

	checklist, err := c.GetWorkflow(ctx, "ord-1")
	require.NoError(t, err)
	assert.Equal(t, "ord-1", checklist.OrderID)
	assert.Equal(t, domain.StagePreparation, checklist.Stage)
	assert.Empty(t, checklist.Steps)

	err = c.UpdateWorkflowStep(ctx, "ord-1", "harvest_produce", StepUpdateRequest{
		Completed: true,
		Notes:     "picked at dawn",
	})
	require.NoError(t, err)

	checklist, err = c.GetWorkflow(ctx, "ord-1")
	require.NoError(t, err)
	state := checklist.Steps["harvest_produce"]
	assert.True(t, state.Completed)
	require.NotNil(t, state.CompletedAt)
	assert.Equal(t, "picked at dawn", state.Notes)

	t.Run("Unknown Step Rejected", func(t *testing.T) {
		err := c.UpdateWorkflowStep(ctx, "ord-1", "water_the_plants", StepUpdateRequest{Completed: true})
		var rejection *apperrors.ErrServerRejection
		require.ErrorAs(t, err, &rejection)
		assert.Equal(t, 422, rejection.StatusCode)
	})
}

func TestGetNotifications(t *testing.T) {
	backend, c := newTestBackend(t)
	backend.SeedNotification(domain.Notification{Message: "New order", Read: false})
	backend.SeedNotification(domain.Notification{Message: "Older one", Read: true})

	resp, err := c.GetNotifications(context.Background())
	require.NoError(t, err)
	assert.Len(t, resp.Data, 2)
	assert.Equal(t, 1, resp.UnreadCount)
}

func TestAuthRejected(t *testing.T) {
	gin.SetMode(gin.TestMode)
	backend := stubapi.NewServer(testAPIKey, nil)
	srv := httptest.NewServer(backend.Router("test"))
	t.Cleanup(srv.Close)

	t.Run("Wrong Key", func(t *testing.T) {
		c := NewClient(srv.URL, "wrong-key", nil)
		_, err := c.ListVendorOrders(context.Background())
		var unauthorized *apperrors.ErrUnauthorized
		require.ErrorAs(t, err, &unauthorized)
		assert.Equal(t, "invalid API key", unauthorized.Message)
	})

	t.Run("Missing Key", func(t *testing.T) {
		c := NewClient(srv.URL, "", nil)
		_, err := c.ListVendorOrders(context.Background())
		var unauthorized *apperrors.ErrUnauthorized
		require.ErrorAs(t, err, &unauthorized)
		assert.Equal(t, "missing authorization header", unauthorized.Message)
	})
}
