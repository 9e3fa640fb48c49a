package gateway

import (
	"context"

	"andino/models"
)

// Gateway status vocabulary, as carried on the return URL and reported by
// status re-queries.
const (
	StatusApproved  = "approved"
	StatusPending   = "pending"
	StatusInProcess = "in_process"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

// ProcessRequest is a direct (non-redirect) charge.
type ProcessRequest struct {
	BookingID string
	Amount    float64
	Currency  string
	Method    string
	Payer     models.ContactInfo
}

// PaymentGateway is the external payment collaborator. Injected everywhere so
// production and test implementations are interchangeable.
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, bookingID string, amount float64, currency string) (*models.CheckoutSession, error)
	ProcessPayment(ctx context.Context, req ProcessRequest) (*models.PaymentResult, error)
	GetPaymentStatus(ctx context.Context, transactionID string) (string, error)
}
