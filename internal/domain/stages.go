package domain

// StageID identifies a fulfillment checklist stage
type StageID string

const (
	StageOrderReview StageID = "order_review"
	StageScheduling  StageID = "scheduling"
	StagePreparation StageID = "preparation"
	StagePacking     StageID = "packing"
	StageDispatch    StageID = "dispatch"
	StageInTransit   StageID = "in_transit"
	StageHandoff     StageID = "handoff"
)

// StepDefinition is the static definition of one checklist step.
// Required is fixed per definition and never mutable at runtime.
type StepDefinition struct {
	ID       string
	Title    string
	Required bool
}

// WorkflowStage groups the checklist steps shown while an order sits in the
// matching status. Stage order is fixed and total; every status on the
// canonical progression has exactly one stage.
type WorkflowStage struct {
	ID     StageID
	Title  string
	Status Status
	Steps  []StepDefinition
}

var stages = []WorkflowStage{
	{
		ID:     StageOrderReview,
		Title:  "Order review",
		Status: StatusPending,
		Steps: []StepDefinition{
			{ID: "verify_order", Title: "Verify order details", Required: true},
			{ID: "confirm_stock", Title: "Confirm produce availability", Required: true},
			{ID: "flag_special_requests", Title: "Flag special requests", Required: false},
		},
	},
	{
		ID:     StageScheduling,
		Title:  "Scheduling",
		Status: StatusConfirmed,
		Steps: []StepDefinition{
			{ID: "schedule_harvest", Title: "Schedule the harvest", Required: true},
			{ID: "reserve_crates", Title: "Reserve crates and packaging", Required: true},
			{ID: "notify_kitchen", Title: "Notify the restaurant kitchen", Required: false},
		},
	},
	{
		ID:     StagePreparation,
		Title:  "Preparation",
		Status: StatusPreparing,
		Steps: []StepDefinition{
			{ID: "harvest_produce", Title: "Harvest the produce", Required: true},
			{ID: "wash_and_sort", Title: "Wash and sort", Required: true},
			{ID: "quality_check", Title: "Quality check", Required: true},
			{ID: "photo_evidence", Title: "Attach photos", Required: false},
		},
	},
	{
		ID:     StagePacking,
		Title:  "Packing",
		Status: StatusPrepared,
		Steps: []StepDefinition{
			{ID: "pack_items", Title: "Pack all items", Required: true},
			{ID: "label_boxes", Title: "Label the boxes", Required: true},
			{ID: "attach_invoice", Title: "Attach the invoice", Required: false},
		},
	},
	{
		ID:     StageDispatch,
		Title:  "Dispatch",
		Status: StatusShipping,
		Steps: []StepDefinition{
			{ID: "assign_driver", Title: "Assign a driver", Required: true},
			{ID: "load_vehicle", Title: "Load the vehicle", Required: true},
		},
	},
	{
		ID:     StageInTransit,
		Title:  "In transit",
		Status: StatusShipped,
		Steps: []StepDefinition{
			{ID: "confirm_pickup", Title: "Confirm pickup", Required: true},
			{ID: "share_tracking", Title: "Share tracking details", Required: false},
		},
	},
	{
		ID:     StageHandoff,
		Title:  "Handoff",
		Status: StatusDelivered,
		Steps: []StepDefinition{
			{ID: "confirm_receipt", Title: "Confirm receipt with the restaurant", Required: true},
			{ID: "collect_feedback", Title: "Collect feedback", Required: false},
		},
	},
}

// Stages returns all stage definitions in fixed order.
func Stages() []WorkflowStage {
	return stages
}

// StageFor returns the checklist stage for a status. An unknown status or a
// status without a stage (cancelled) falls back to the first defined stage,
// matching the behavior vendors see in the dashboard.
func StageFor(status Status) WorkflowStage {
	for _, st := range stages {
		if st.Status == status {
			return st
		}
	}
	return stages[0]
}

// StepIn looks up one step definition within a stage.
func (st WorkflowStage) StepIn(stepID string) (StepDefinition, bool) {
	for _, def := range st.Steps {
		if def.ID == stepID {
			return def, true
		}
	}
	return StepDefinition{}, false
}

// IsStageComplete reports whether every required step of the stage is
// completed in the checklist. Optional steps are ignored even if incomplete.
func IsStageComplete(stage WorkflowStage, checklist Checklist) bool {
	for _, def := range stage.Steps {
		if !def.Required {
			continue
		}
		state, ok := checklist.Steps[def.ID]
		if !ok || !state.Completed {
			return false
		}
	}
	return true
}
