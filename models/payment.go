package models

import "time"

// Payment attempt statuses.
const (
	AttemptPending  = "pending"
	AttemptApproved = "approved"
	AttemptDeclined = "declined"
	AttemptRedirect = "redirected"
)

// PaymentAttempt records one interaction with the gateway. A booking may
// accumulate several attempts (declined card, then redirect checkout, ...).
type PaymentAttempt struct {
	AttemptID   string    `bson:"id" json:"attemptId"`
	BookingID   string    `bson:"booking_id" json:"bookingId"`
	GatewayTxID string    `bson:"gateway_tx_id,omitempty" json:"gatewayTxId,omitempty"`
	Status      string    `bson:"status" json:"status"`
	Method      string    `bson:"method" json:"method"`
	Amount      float64   `bson:"amount" json:"amount"`
	Currency    string    `bson:"currency" json:"currency"`
	Error       string    `bson:"error,omitempty" json:"error,omitempty"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
}

// PaymentResult is the gateway's answer to a direct processing call.
type PaymentResult struct {
	Success       bool   `json:"success"`
	TransactionID string `json:"transactionId,omitempty"`
	// HardDecline indicates the gateway will never approve a retry of the
	// same instrument (stolen card, closed account).
	HardDecline  bool   `json:"hardDecline,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// CheckoutSession is a hosted-checkout handle returned by the gateway.
type CheckoutSession struct {
	SessionID   string `json:"sessionId"`
	RedirectURL string `json:"redirectUrl"`
}

// ReturnParams are the query parameters carried back on the gateway's return
// URL. TransactionID and StatusCode are the correlation fields; absence of
// both makes the callback unparseable.
type ReturnParams struct {
	TransactionID     string `form:"transactionId" json:"transactionId"`
	StatusCode        string `form:"statusCode" json:"statusCode"`
	ExternalReference string `form:"externalReference" json:"externalReference"`
	PaymentType       string `form:"paymentType" json:"paymentType"`
}

// RecheckPayload is the asynq task payload for a deferred gateway status
// re-query.
type RecheckPayload struct {
	BookingID     string `json:"bookingId"`
	TransactionID string `json:"transactionId"`
	Attempt       int    `json:"attempt"`
}
