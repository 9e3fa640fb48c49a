package models

import "time"

// Availability decision outcomes. Unknown means the check could not be
// completed; it blocks advancement but is retryable, and is never collapsed
// into an admit.
const (
	DecisionAdmit   = "admit"
	DecisionBlocked = "blocked"
	DecisionUnknown = "unknown"
)

// Decision is the availability gate's verdict for a date range.
type Decision struct {
	Outcome          string      `json:"outcome"`
	Reason           string      `json:"reason,omitempty"`
	AlternativeDates []DateRange `json:"alternativeDates,omitempty"`
	// CheckedFor and CheckedParty record the inputs the verdict applies to;
	// a later change to either invalidates the decision.
	CheckedFor   DateRange `json:"checkedFor"`
	CheckedParty Party     `json:"checkedParty"`
	CheckedAt    time.Time `json:"checkedAt"`
}

// Admitted reports whether the decision admits the current range.
func (d *Decision) Admitted() bool {
	return d != nil && d.Outcome == DecisionAdmit
}

// AvailabilityResult is the raw collaborator response.
type AvailabilityResult struct {
	Available        bool        `json:"available"`
	Reason           string      `json:"reason,omitempty"`
	AlternativeDates []DateRange `json:"alternativeDates,omitempty"`
}
