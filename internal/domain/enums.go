package domain

// Status represents the fulfillment status of a vendor order
type Status string

const (
	// PENDING - New order, awaiting vendor confirmation
	StatusPending Status = "pending"
	// CONFIRMED - Vendor accepted the order and committed to an estimated time
	StatusConfirmed Status = "confirmed"
	// PREPARING - Produce is being harvested/prepared
	StatusPreparing Status = "preparing"
	// PREPARED - Order packed and ready for dispatch
	StatusPrepared Status = "prepared"
	// SHIPPING - Driver assigned, order leaving the farm
	StatusShipping Status = "shipping"
	// SHIPPED - Order in transit to the restaurant
	StatusShipped Status = "shipped"
	// DELIVERED - Order handed off (terminal)
	StatusDelivered Status = "delivered"
	// CANCELLED - Order cancelled with a reason (terminal)
	StatusCancelled Status = "cancelled"
)

// statusDef binds one status to its place in the canonical progression and to
// the checklist stage that represents it. This table is the single source of
// truth: reachability, canonical-next and stage lookup all derive from it.
type statusDef struct {
	Status Status
	Stage  StageID
}

// canonicalProgression lists the normal forward path in order. Cancelled sits
// outside the progression: it is reachable from every non-terminal status and
// has no stage.
var canonicalProgression = []statusDef{
	{StatusPending, StageOrderReview},
	{StatusConfirmed, StageScheduling},
	{StatusPreparing, StagePreparation},
	{StatusPrepared, StagePacking},
	{StatusShipping, StageDispatch},
	{StatusShipped, StageInTransit},
	{StatusDelivered, StageHandoff},
}

var statusRank = func() map[Status]int {
	m := make(map[Status]int, len(canonicalProgression))
	for i, def := range canonicalProgression {
		m[def.Status] = i
	}
	return m
}()

// IsValid checks if the status is a member of the closed enumeration
func (s Status) IsValid() bool {
	if s == StatusCancelled {
		return true
	}
	_, ok := statusRank[s]
	return ok
}

// IsTerminal reports whether no further transition is allowed from s
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// ReachableFrom returns every status reachable from s in one transition:
// all statuses later in the canonical progression, plus cancelled.
// Terminal statuses (delivered, cancelled) reach nothing.
func ReachableFrom(s Status) []Status {
	if s.IsTerminal() {
		return nil
	}
	rank, ok := statusRank[s]
	if !ok {
		return nil
	}
	out := make([]Status, 0, len(canonicalProgression)-rank)
	for _, def := range canonicalProgression[rank+1:] {
		out = append(out, def.Status)
	}
	out = append(out, StatusCancelled)
	return out
}

// NextCanonical returns the single status immediately following s on the
// normal path, or "" at delivered/cancelled. Advisory only: callers use it to
// drive auto-advance prompts, never to apply a transition directly.
func NextCanonical(s Status) Status {
	rank, ok := statusRank[s]
	if !ok || rank == len(canonicalProgression)-1 {
		return ""
	}
	return canonicalProgression[rank+1].Status
}

// CanTransitionTo checks if a status transition is valid
func (s Status) CanTransitionTo(newStatus Status) bool {
	for _, candidate := range ReachableFrom(s) {
		if candidate == newStatus {
			return true
		}
	}
	return false
}
