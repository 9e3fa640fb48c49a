package models

import "time"

// WizardSession holds the full wizard state between HTTP calls. It is
// marshalled to JSON and stored in Redis under the session id.
type WizardSession struct {
	SessionID string `json:"sessionId"`
	// UserToken is the caller-supplied identity token, attached opaquely.
	UserToken string          `json:"userToken,omitempty"`
	Step      string          `json:"step"`
	Draft     DraftBooking    `json:"draft"`
	Service   ServiceOffering `json:"service"`
	// Gate is the latest availability verdict, if any.
	Gate *Decision `json:"gate,omitempty"`
	// IdempotencyKey is generated once per session and reused across commit
	// retries so the persistence collaborator can deduplicate.
	IdempotencyKey string `json:"idempotencyKey"`
	// Submitting guards against duplicate submits; Submitted records the
	// resulting booking id once commit succeeds.
	Submitting bool      `json:"submitting"`
	BookingID  string    `json:"bookingId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
