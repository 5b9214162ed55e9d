// Package client speaks the marketplace REST API on behalf of the vendor
// dashboard. It defines no wire format of its own; request shapes follow the
// backend's order-workflow endpoints.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/aarothfresh/orderflow/internal/domain"
	apperrors "github.com/aarothfresh/orderflow/pkg/errors"
)

const defaultTimeout = 30 * time.Second

// API is the surface the services and the mutation gateway depend on.
// Tests substitute a fake to observe (or forbid) network calls.
type API interface {
	ListVendorOrders(ctx context.Context) ([]domain.Order, error)
	UpdateWorkflowStatus(ctx context.Context, orderID string, req StatusUpdateRequest) error
	BulkUpdateStatus(ctx context.Context, req BulkStatusRequest) error
	UpdateWorkflowStep(ctx context.Context, orderID, stepID string, req StepUpdateRequest) error
	GetWorkflow(ctx context.Context, orderID string) (*domain.Checklist, error)
	GetNotifications(ctx context.Context) (*NotificationsResponse, error)
}

// StatusUpdateRequest is the body of PUT /v1/orders/{id}/workflow-status
type StatusUpdateRequest struct {
	Status          domain.Status          `json:"status"`
	Notes           string                 `json:"notes,omitempty"`
	EstimatedTime   *string                `json:"estimated_time,omitempty"`
	DeliveryDetails map[string]interface{} `json:"delivery_details,omitempty"`
}

// BulkStatusRequest is the body of POST /v1/orders/bulk-status.
// A single response governs all ids; there is no per-id result reporting.
type BulkStatusRequest struct {
	OrderIDs []string      `json:"order_ids"`
	Status   domain.Status `json:"status"`
	Notes    string        `json:"notes,omitempty"`
}

// StepUpdateRequest is the body of PUT /v1/orders/{orderID}/workflow/{stepID}
type StepUpdateRequest struct {
	Completed bool   `json:"completed"`
	Notes     string `json:"notes,omitempty"`
}

// NotificationsResponse is the payload of GET /v1/vendor/orders/notifications
type NotificationsResponse struct {
	Data        []domain.Notification `json:"data"`
	UnreadCount int                   `json:"unread_count"`
}

type ordersResponse struct {
	Data []domain.Order `json:"data"`
}

// Client is the HTTP implementation of API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a marketplace API client
func NewClient(baseURL, apiKey string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logger,
	}
}

// ListVendorOrders fetches the vendor's order list
func (c *Client) ListVendorOrders(ctx context.Context) ([]domain.Order, error) {
	var out ordersResponse
	if err := c.do(ctx, http.MethodGet, "/v1/vendor/orders", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// UpdateWorkflowStatus submits a single order status transition
func (c *Client) UpdateWorkflowStatus(ctx context.Context, orderID string, req StatusUpdateRequest) error {
	path := fmt.Sprintf("/v1/orders/%s/workflow-status", orderID)
	return c.do(ctx, http.MethodPut, path, req, nil)
}

// BulkUpdateStatus submits one status transition covering several orders
func (c *Client) BulkUpdateStatus(ctx context.Context, req BulkStatusRequest) error {
	return c.do(ctx, http.MethodPost, "/v1/orders/bulk-status", req, nil)
}

// UpdateWorkflowStep toggles one fulfillment checklist step
func (c *Client) UpdateWorkflowStep(ctx context.Context, orderID, stepID string, req StepUpdateRequest) error {
	path := fmt.Sprintf("/v1/orders/%s/workflow/%s", orderID, stepID)
	return c.do(ctx, http.MethodPut, path, req, nil)
}

// GetWorkflow fetches the current checklist state for an order
func (c *Client) GetWorkflow(ctx context.Context, orderID string) (*domain.Checklist, error) {
	path := fmt.Sprintf("/v1/orders/%s/workflow", orderID)
	var out domain.Checklist
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetNotifications fetches the vendor notification list and unread count
func (c *Client) GetNotifications(ctx context.Context) (*NotificationsResponse, error) {
	var out NotificationsResponse
	if err := c.do(ctx, http.MethodGet, "/v1/vendor/orders/notifications", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do executes one request. A 401 becomes *ErrUnauthorized; any other non-2xx
// response becomes *ErrServerRejection with the server's error message when
// the body carries one.
func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Marketplace API request failed",
			zap.String("method", method), zap.String("path", path), zap.Error(err))
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return &apperrors.ErrUnauthorized{Message: serverMessage(respBody)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &apperrors.ErrServerRejection{
			StatusCode: resp.StatusCode,
			Message:    serverMessage(respBody),
		}
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w, body: %s", err, string(respBody))
		}
	}
	return nil
}

// serverMessage extracts the error message from a rejection body, if any
func serverMessage(body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Error != "" {
		return payload.Error
	}
	return payload.Message
}
