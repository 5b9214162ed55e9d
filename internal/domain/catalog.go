package domain

// StatusOption is the display catalog entry for one status. Exactly one
// option exists per enum member.
type StatusOption struct {
	Value Status
	Label string
	// NextSteps is the short guidance line shown under the option
	NextSteps string
	// RequiresReason marks statuses that cannot be submitted without notes
	RequiresReason bool
	// EstimatedTimeRequired marks statuses that cannot be submitted without
	// an estimated completion time
	EstimatedTimeRequired bool
}

var statusCatalog = map[Status]StatusOption{
	StatusPending: {
		Value:     StatusPending,
		Label:     "Pending",
		NextSteps: "Review the order and confirm or cancel",
	},
	StatusConfirmed: {
		Value:                 StatusConfirmed,
		Label:                 "Confirmed",
		NextSteps:             "Schedule harvest and share an estimated time",
		EstimatedTimeRequired: true,
	},
	StatusPreparing: {
		Value:     StatusPreparing,
		Label:     "Preparing",
		NextSteps: "Harvest, wash and quality-check the produce",
	},
	StatusPrepared: {
		Value:     StatusPrepared,
		Label:     "Prepared",
		NextSteps: "Pack and label the boxes for dispatch",
	},
	StatusShipping: {
		Value:     StatusShipping,
		Label:     "Shipping",
		NextSteps: "Assign a driver and load the vehicle",
	},
	StatusShipped: {
		Value:     StatusShipped,
		Label:     "Shipped",
		NextSteps: "Order is on its way to the restaurant",
	},
	StatusDelivered: {
		Value:     StatusDelivered,
		Label:     "Delivered",
		NextSteps: "Order handed off, no further action",
	},
	StatusCancelled: {
		Value:          StatusCancelled,
		Label:          "Cancelled",
		NextSteps:      "Order cancelled",
		RequiresReason: true,
	},
}

// OptionFor returns the catalog entry for one status.
func OptionFor(s Status) (StatusOption, bool) {
	opt, ok := statusCatalog[s]
	return opt, ok
}

// OptionsFor returns the catalog entries for every status reachable from
// current, in canonical order with cancelled last. Pure and total: a terminal
// or unknown status yields an empty sequence.
func OptionsFor(current Status) []StatusOption {
	reachable := ReachableFrom(current)
	out := make([]StatusOption, 0, len(reachable))
	for _, s := range reachable {
		if opt, ok := statusCatalog[s]; ok {
			out = append(out, opt)
		}
	}
	return out
}
