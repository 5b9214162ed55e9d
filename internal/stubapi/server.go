// Package stubapi is an in-memory stand-in for the marketplace backend,
// serving the order-workflow endpoints the client consumes. It backs
// cmd/devserver for local development and the client tests. It is not the
// production backend.
package stubapi

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/aarothfresh/orderflow/internal/domain"
)

// Server holds the stub's in-memory state
type Server struct {
	mu            sync.Mutex
	orders        map[string]*domain.Order
	orderSeq      []string // insertion order, list responses are stable
	checklists    map[string]*domain.Checklist
	notifications []domain.Notification
	apiKeyHash    string
	logger        *zap.Logger
	now           func() time.Time
}

// NewServer creates a stub server accepting the given API key.
func NewServer(apiKey string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		orders:     make(map[string]*domain.Order),
		checklists: make(map[string]*domain.Checklist),
		logger:     logger,
		now:        time.Now,
	}
	if apiKey != "" {
		s.apiKeyHash = hashAPIKey(apiKey)
	}
	return s
}

// hashAPIKey hashes an API key using bcrypt
func hashAPIKey(apiKey string) string {
	// Cost 10 is enough for a dev stub
	hash, err := bcrypt.GenerateFromPassword([]byte(apiKey), 10)
	if err != nil {
		return ""
	}
	return string(hash)
}

// verifyAPIKey verifies an API key against the stored hash
func (s *Server) verifyAPIKey(apiKey string) bool {
	if s.apiKeyHash == "" {
		return true
	}
	return bcrypt.CompareHashAndPassword([]byte(s.apiKeyHash), []byte(apiKey)) == nil
}

// SeedOrder adds one order (and an empty checklist for its stage)
func (s *Server) SeedOrder(order domain.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = s.now()
	}
	order.UpdatedAt = order.CreatedAt
	clone := order.Clone()
	if _, exists := s.orders[order.ID]; !exists {
		s.orderSeq = append(s.orderSeq, order.ID)
	}
	s.orders[order.ID] = &clone
	stage := domain.StageFor(order.Status)
	s.checklists[order.ID] = &domain.Checklist{
		OrderID: order.ID,
		Stage:   stage.ID,
		Steps:   map[string]domain.StepState{},
	}
}

// SeedNotification adds one notification row
func (s *Server) SeedNotification(n domain.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now()
	}
	s.notifications = append(s.notifications, n)
}

// SeedDemo loads a small fixture set for local development
func (s *Server) SeedDemo() {
	s.SeedOrder(domain.Order{
		ID:             "ord-1001",
		VendorID:       "vendor-1",
		RestaurantName: "Green Fork Bistro",
		Status:         domain.StatusPending,
		Items: []domain.OrderItem{
			{SKU: "TOM-ROMA", Title: "Roma tomatoes", Price: 3.20, Quantity: 10, Unit: "kg"},
			{SKU: "BAS-GEN", Title: "Genovese basil", Price: 1.80, Quantity: 4, Unit: "bunch"},
		},
		Total: 39.2,
		DeliveryAddress: map[string]interface{}{
			"street": "12 Market Lane",
			"city":   "Dhaka",
		},
	})
	s.SeedOrder(domain.Order{
		ID:             "ord-1002",
		VendorID:       "vendor-1",
		RestaurantName: "Harvest Table",
		Status:         domain.StatusConfirmed,
		Items: []domain.OrderItem{
			{SKU: "CAR-ORG", Title: "Organic carrots", Price: 2.10, Quantity: 15, Unit: "kg"},
		},
		Total: 31.5,
	})
	s.SeedNotification(domain.Notification{
		OrderID: "ord-1001",
		Message: "New order from Green Fork Bistro",
	})
}

func (s *Server) notifyLocked(orderID, message string) {
	s.notifications = append(s.notifications, domain.Notification{
		ID:        uuid.NewString(),
		OrderID:   orderID,
		Message:   message,
		CreatedAt: s.now(),
	})
}
