package gateway

import (
	"context"
	"fmt"
	"math"
	"strings"

	"andino/models"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"go.uber.org/zap"
)

// StripeGateway implements PaymentGateway on the Stripe API. The API key is
// set globally in main, matching the stripe-go convention.
type StripeGateway struct {
	ReturnURL string
	Logger    *zap.Logger
}

func NewStripeGateway(returnURL string, logger *zap.Logger) *StripeGateway {
	return &StripeGateway{ReturnURL: returnURL, Logger: logger}
}

// minorUnits converts a whole-currency amount to the gateway's minor units.
func minorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// CreateCheckoutSession opens a hosted checkout page for the booking total.
func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, bookingID string, amount float64, currency string) (*models.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		ClientReferenceID: stripe.String(bookingID),
		SuccessURL:        stripe.String(g.ReturnURL + "?externalReference=" + bookingID + "&statusCode=" + StatusApproved + "&transactionId={CHECKOUT_SESSION_ID}"),
		CancelURL:         stripe.String(g.ReturnURL + "?externalReference=" + bookingID + "&statusCode=" + StatusCancelled + "&transactionId={CHECKOUT_SESSION_ID}"),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(currency),
					UnitAmount: stripe.Int64(minorUnits(amount)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String("Booking " + bookingID),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.Context = ctx

	sess, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	g.Logger.Info("checkout session created",
		zap.String("bookingId", bookingID), zap.String("sessionId", sess.ID))
	return &models.CheckoutSession{SessionID: sess.ID, RedirectURL: sess.URL}, nil
}

// methodTypes maps the engine's closed method enumeration to gateway payment
// method types.
func methodTypes(method string) []string {
	switch method {
	case models.MethodBankDebit:
		return []string{"us_bank_account"}
	case models.MethodWallet:
		return []string{"link"}
	default:
		return []string{"card"}
	}
}

// ProcessPayment runs a synchronous charge. Declines come back as a result,
// not an error; only transport and API failures error out.
func (g *StripeGateway) ProcessPayment(ctx context.Context, req ProcessRequest) (*models.PaymentResult, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(minorUnits(req.Amount)),
		Currency:           stripe.String(req.Currency),
		Confirm:            stripe.Bool(true),
		Description:        stripe.String("Booking " + req.BookingID),
		PaymentMethodTypes: stripe.StringSlice(methodTypes(req.Method)),
		ReceiptEmail:       stripe.String(req.Payer.Email),
	}
	params.Context = ctx
	params.AddMetadata("bookingId", req.BookingID)

	intent, err := paymentintent.New(params)
	if err != nil {
		if stripeErr, ok := err.(*stripe.Error); ok {
			hard := stripeErr.Code == stripe.ErrorCodeCardDeclined ||
				stripeErr.Code == stripe.ErrorCodeExpiredCard
			return &models.PaymentResult{
				Success:      false,
				HardDecline:  hard,
				ErrorMessage: stripeErr.Msg,
			}, nil
		}
		return nil, fmt.Errorf("payment processing failed: %w", err)
	}

	if intent.Status == stripe.PaymentIntentStatusSucceeded {
		return &models.PaymentResult{Success: true, TransactionID: intent.ID}, nil
	}
	return &models.PaymentResult{
		Success:       false,
		TransactionID: intent.ID,
		ErrorMessage:  "payment not completed: " + string(intent.Status),
	}, nil
}

// GetPaymentStatus re-queries the gateway and maps its state onto the shared
// status vocabulary. Redirect transactions carry the checkout session id, so
// those are resolved through the session resource; everything else is a
// payment intent.
func (g *StripeGateway) GetPaymentStatus(ctx context.Context, transactionID string) (string, error) {
	if strings.HasPrefix(transactionID, "cs_") {
		params := &stripe.CheckoutSessionParams{}
		params.Context = ctx
		params.AddExpand("payment_intent")

		sess, err := session.Get(transactionID, params)
		if err != nil {
			return "", fmt.Errorf("failed to fetch checkout session: %w", err)
		}
		return checkoutSessionStatus(sess)
	}

	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	intent, err := paymentintent.Get(transactionID, params)
	if err != nil {
		return "", fmt.Errorf("failed to fetch payment status: %w", err)
	}
	return intentStatus(intent)
}

// checkoutSessionStatus maps a checkout session's payment state onto the
// shared vocabulary, falling back to the expanded intent for unpaid sessions
// that are still open.
func checkoutSessionStatus(sess *stripe.CheckoutSession) (string, error) {
	switch sess.PaymentStatus {
	case stripe.CheckoutSessionPaymentStatusPaid,
		stripe.CheckoutSessionPaymentStatusNoPaymentRequired:
		return StatusApproved, nil
	case stripe.CheckoutSessionPaymentStatusUnpaid:
		if sess.Status == stripe.CheckoutSessionStatusExpired {
			return StatusCancelled, nil
		}
		if sess.PaymentIntent != nil && sess.PaymentIntent.Status != "" {
			return intentStatus(sess.PaymentIntent)
		}
		return StatusPending, nil
	}
	return "", fmt.Errorf("unmapped checkout payment status %q", sess.PaymentStatus)
}

func intentStatus(intent *stripe.PaymentIntent) (string, error) {
	switch intent.Status {
	case stripe.PaymentIntentStatusSucceeded:
		return StatusApproved, nil
	case stripe.PaymentIntentStatusProcessing:
		return StatusInProcess, nil
	case stripe.PaymentIntentStatusRequiresAction,
		stripe.PaymentIntentStatusRequiresConfirmation,
		stripe.PaymentIntentStatusRequiresCapture:
		return StatusPending, nil
	case stripe.PaymentIntentStatusCanceled:
		return StatusCancelled, nil
	case stripe.PaymentIntentStatusRequiresPaymentMethod:
		return StatusRejected, nil
	}
	return "", fmt.Errorf("unmapped gateway status %q", intent.Status)
}
