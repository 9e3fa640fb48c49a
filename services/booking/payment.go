package booking

import (
	"context"
	"fmt"

	bookingRepo "andino/database/repository/booking"
	"andino/models"
	"andino/services/gateway"

	"go.uber.org/zap"
)

// PaymentHandler initiates payment for a committed booking: a synchronous
// charge for direct methods, a hosted checkout session for the redirect flow.
type PaymentHandler interface {
	ProcessDirect(ctx context.Context, rec *models.BookingRecord, method string) (*models.PaymentAttempt, error)
	StartCheckout(ctx context.Context, rec *models.BookingRecord) (*models.CheckoutSession, *models.PaymentAttempt, error)
}

// GatewayPaymentHandler is the production handler backed by the injected
// gateway collaborator.
type GatewayPaymentHandler struct {
	Gateway  gateway.PaymentGateway
	Bookings bookingRepo.BookingRepository
	Attempts bookingRepo.PaymentAttemptRepository
	Logger   *zap.Logger
}

func NewGatewayPaymentHandler(gw gateway.PaymentGateway, bookings bookingRepo.BookingRepository, attempts bookingRepo.PaymentAttemptRepository, logger *zap.Logger) *GatewayPaymentHandler {
	return &GatewayPaymentHandler{Gateway: gw, Bookings: bookings, Attempts: attempts, Logger: logger}
}

// ProcessDirect charges the booking total synchronously. On success the
// booking moves pending → paid. On a decline the booking stays pending (or
// moves to rejected for a hard decline) so another method can be tried
// without re-running the commit.
func (h *GatewayPaymentHandler) ProcessDirect(ctx context.Context, rec *models.BookingRecord, method string) (*models.PaymentAttempt, error) {
	if method == models.MethodGatewayRedirect {
		return nil, NewValidationError("paymentMethod", "redirect checkout is not a direct method")
	}

	attempt := models.PaymentAttempt{
		BookingID: rec.BookingID,
		Status:    models.AttemptPending,
		Method:    method,
		Amount:    rec.Quote.Total,
		Currency:  rec.Quote.Currency,
	}
	attemptID, err := h.Attempts.Create(ctx, attempt)
	if err != nil {
		return nil, &TransientError{Op: "payment attempt record", Err: err}
	}
	attempt.AttemptID = attemptID

	result, err := h.Gateway.ProcessPayment(ctx, gateway.ProcessRequest{
		BookingID: rec.BookingID,
		Amount:    rec.Quote.Total,
		Currency:  rec.Quote.Currency,
		Method:    method,
		Payer:     rec.Contact,
	})
	if err != nil {
		h.markAttempt(ctx, attemptID, models.AttemptDeclined, "", err.Error())
		return nil, &TransientError{Op: "payment processing", Err: err}
	}

	if result.Success {
		attempt.Status = models.AttemptApproved
		attempt.GatewayTxID = result.TransactionID
		h.markAttempt(ctx, attemptID, models.AttemptApproved, result.TransactionID, "")
		if _, err := h.Bookings.TransitionStatus(ctx, rec.BookingID,
			[]string{models.StatusPending}, models.StatusPaid, false); err != nil {
			return nil, &TransientError{Op: "booking status update", Err: err}
		}
		h.Logger.Info("direct payment approved",
			zap.String("bookingId", rec.BookingID), zap.String("txId", result.TransactionID))
		return &attempt, nil
	}

	attempt.Status = models.AttemptDeclined
	attempt.GatewayTxID = result.TransactionID
	attempt.Error = result.ErrorMessage
	h.markAttempt(ctx, attemptID, models.AttemptDeclined, result.TransactionID, result.ErrorMessage)

	if result.HardDecline {
		if _, err := h.Bookings.TransitionStatus(ctx, rec.BookingID,
			[]string{models.StatusPending}, models.StatusRejected, false); err != nil {
			h.Logger.Error("failed to record hard decline", zap.Error(err))
		}
	}
	h.Logger.Warn("direct payment declined",
		zap.String("bookingId", rec.BookingID),
		zap.Bool("hard", result.HardDecline),
		zap.String("reason", result.ErrorMessage))
	return &attempt, &PaymentDeclined{Message: result.ErrorMessage, Hard: result.HardDecline}
}

// StartCheckout opens a hosted checkout session and parks the booking in
// awaiting-payment until the return callback arrives.
func (h *GatewayPaymentHandler) StartCheckout(ctx context.Context, rec *models.BookingRecord) (*models.CheckoutSession, *models.PaymentAttempt, error) {
	checkout, err := h.Gateway.CreateCheckoutSession(ctx, rec.BookingID, rec.Quote.Total, rec.Quote.Currency)
	if err != nil {
		return nil, nil, &TransientError{Op: "checkout session", Err: err}
	}

	attempt := models.PaymentAttempt{
		BookingID:   rec.BookingID,
		GatewayTxID: checkout.SessionID,
		Status:      models.AttemptRedirect,
		Method:      models.MethodGatewayRedirect,
		Amount:      rec.Quote.Total,
		Currency:    rec.Quote.Currency,
	}
	attemptID, err := h.Attempts.Create(ctx, attempt)
	if err != nil {
		return nil, nil, &TransientError{Op: "payment attempt record", Err: err}
	}
	attempt.AttemptID = attemptID

	if _, err := h.Bookings.TransitionStatus(ctx, rec.BookingID,
		[]string{models.StatusPending}, models.StatusAwaitingPayment, false); err != nil {
		return nil, nil, &TransientError{Op: "booking status update", Err: err}
	}

	h.Logger.Info("checkout handoff started",
		zap.String("bookingId", rec.BookingID), zap.String("sessionId", checkout.SessionID))
	return checkout, &attempt, nil
}

func (h *GatewayPaymentHandler) markAttempt(ctx context.Context, attemptID, status, txID, errMsg string) {
	if err := h.Attempts.Update(ctx, attemptID, status, txID, errMsg); err != nil {
		h.Logger.Error(fmt.Sprintf("failed to update payment attempt %s", attemptID), zap.Error(err))
	}
}
