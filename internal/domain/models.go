package domain

import (
	"time"
)

// Order represents a restaurant order as seen by the vendor dashboard
type Order struct {
	ID              string                 `json:"id"`
	VendorID        string                 `json:"vendor_id"`
	RestaurantName  string                 `json:"restaurant_name"`
	Status          Status                 `json:"status"`
	StatusHistory   []StatusHistoryEntry   `json:"status_history"`
	Items           []OrderItem            `json:"items"`
	Total           float64                `json:"total"`
	DeliveryAddress map[string]interface{} `json:"delivery_address"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// OrderItem represents one line in an order
type OrderItem struct {
	SKU      string  `json:"sku"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Unit     string  `json:"unit,omitempty"`
}

// StatusHistoryEntry is one append-only record of a status transition.
// History is never mutated or reordered; Order.Status always equals the
// status of the last entry once any transition has been applied.
type StatusHistoryEntry struct {
	Status         Status    `json:"status"`
	PreviousStatus Status    `json:"previous_status"`
	Notes          string    `json:"notes,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
	UpdatedBy      string    `json:"updated_by,omitempty"`
	EstimatedTime  *string   `json:"estimated_time,omitempty"`
}

// StepState is the runtime state of one checklist step.
// CompletedAt is non-nil exactly when Completed is true.
type StepState struct {
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Notes       string     `json:"notes,omitempty"`
}

// Checklist is one order's fulfillment checklist state, drawn from the stage
// matching the order's current status.
type Checklist struct {
	OrderID string               `json:"order_id"`
	Stage   StageID              `json:"stage"`
	Steps   map[string]StepState `json:"steps"`
}

// Notification is one vendor notification row, polled periodically
type Notification struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"order_id,omitempty"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// Clone returns a deep copy of the order. Cached views hold orders as
// immutable values: patches write clones, never mutate in place, so a
// snapshot taken before a patch restores the exact pre-patch value.
func (o Order) Clone() Order {
	out := o
	out.StatusHistory = make([]StatusHistoryEntry, len(o.StatusHistory))
	copy(out.StatusHistory, o.StatusHistory)
	out.Items = make([]OrderItem, len(o.Items))
	copy(out.Items, o.Items)
	if o.DeliveryAddress != nil {
		out.DeliveryAddress = make(map[string]interface{}, len(o.DeliveryAddress))
		for k, v := range o.DeliveryAddress {
			out.DeliveryAddress[k] = v
		}
	}
	return out
}

// WithTransition returns a clone of the order with the status applied and a
// matching history entry appended.
func (o Order) WithTransition(entry StatusHistoryEntry) Order {
	out := o.Clone()
	out.Status = entry.Status
	out.StatusHistory = append(out.StatusHistory, entry)
	out.UpdatedAt = entry.Timestamp
	return out
}

// Clone returns a deep copy of the checklist.
func (c Checklist) Clone() Checklist {
	out := c
	out.Steps = make(map[string]StepState, len(c.Steps))
	for id, state := range c.Steps {
		out.Steps[id] = state
	}
	return out
}

// WithStep returns a clone of the checklist with one step state replaced.
func (c Checklist) WithStep(stepID string, state StepState) Checklist {
	out := c.Clone()
	out.Steps[stepID] = state
	return out
}
