package booking

import (
	"context"

	"andino/models"
	"andino/services/catalog"

	"go.uber.org/zap"
)

// SubmitResult is the typed outcome of a submit: the committed booking plus
// either an immediate payment result or a redirect URL.
type SubmitResult struct {
	Booking     *models.BookingRecord  `json:"booking"`
	Attempt     *models.PaymentAttempt `json:"attempt,omitempty"`
	RedirectURL string                 `json:"redirectUrl,omitempty"`
}

// BookingFlowService drives a wizard session across HTTP calls.
type BookingFlowService interface {
	StartSession(ctx context.Context, serviceRef, userToken string) (*models.WizardSession, error)
	GetSession(ctx context.Context, sessionID string) (*models.WizardSession, error)
	SetDatesAndParty(ctx context.Context, sessionID string, dr models.DateRange, party models.Party) (*models.WizardSession, error)
	ToggleAddOn(ctx context.Context, sessionID, addOnID string) (*models.WizardSession, error)
	SetContact(ctx context.Context, sessionID string, contact models.ContactInfo) (*models.WizardSession, error)
	SetPaymentMethod(ctx context.Context, sessionID, method string, termsAccepted bool) (*models.WizardSession, error)
	Advance(ctx context.Context, sessionID string) (*models.WizardSession, error)
	Back(ctx context.Context, sessionID string) (*models.WizardSession, error)
	Submit(ctx context.Context, sessionID string) (*SubmitResult, error)
	Abandon(ctx context.Context, sessionID string) error
}

// DefaultBookingFlowService implements BookingFlowService.
type DefaultBookingFlowService struct {
	Catalog   catalog.Service
	Gate      *AvailabilityGate
	Store     *SessionStore
	Committer *Committer
	Payments  PaymentHandler
	Policy    PricingPolicy
	Logger    *zap.Logger
}
