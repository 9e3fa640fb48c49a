package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	bookingRepo "andino/database/repository/booking"
	"andino/models"
	"andino/services/gateway"
	"andino/services/tasks"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Markers for processed callbacks outlive any realistic refresh storm.
const returnMarkerTTL = 48 * time.Hour

const maxRecheckAttempts = 5

// ReconcileResult is the typed outcome handed to the UI layer.
type ReconcileResult struct {
	BookingID      string `json:"bookingId"`
	Status         string `json:"status"`
	Confirmed      bool   `json:"confirmed"`
	AlreadyApplied bool   `json:"alreadyApplied"`
}

// Reconciler interprets gateway return callbacks and applies them to the
// booking exactly once. It is the sole writer of BookingRecord.Status after
// commit.
type Reconciler struct {
	Bookings bookingRepo.BookingRepository
	Attempts bookingRepo.PaymentAttemptRepository
	Gateway  gateway.PaymentGateway
	Marker   *redis.Client
	Tasks    *asynq.Client
	Logger   *zap.Logger

	mu    sync.Mutex
	locks map[string]*bookingLock
}

// bookingLock is a refcounted per-booking mutex so map entries can be
// dropped once the last holder releases.
type bookingLock struct {
	mu   sync.Mutex
	refs int
}

func NewReconciler(bookings bookingRepo.BookingRepository, attempts bookingRepo.PaymentAttemptRepository, gw gateway.PaymentGateway, marker *redis.Client, taskClient *asynq.Client, logger *zap.Logger) *Reconciler {
	return &Reconciler{
		Bookings: bookings,
		Attempts: attempts,
		Gateway:  gw,
		Marker:   marker,
		Tasks:    taskClient,
		Logger:   logger,
		locks:    make(map[string]*bookingLock),
	}
}

// lockBooking serializes reconciliation per booking id so that concurrent
// callbacks race on the lock, not on the status write. The entry is evicted
// when the last holder releases, keeping the map bounded by in-flight work.
func (r *Reconciler) lockBooking(bookingID string) func() {
	r.mu.Lock()
	l, ok := r.locks[bookingID]
	if !ok {
		l = &bookingLock{}
		r.locks[bookingID] = l
	}
	l.refs++
	r.mu.Unlock()
	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		r.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(r.locks, bookingID)
		}
		r.mu.Unlock()
	}
}

// MapGatewayStatus maps the gateway's status vocabulary onto the booking
// status it should produce. Unrecognised codes are a malformed return, not a
// rejection.
func MapGatewayStatus(code string) (string, bool) {
	switch code {
	case gateway.StatusApproved:
		return models.StatusPaid, true
	case gateway.StatusPending, gateway.StatusInProcess:
		return models.StatusAwaitingPayment, true
	case gateway.StatusRejected, gateway.StatusCancelled:
		return models.StatusRejected, true
	}
	return "", false
}

// HandleReturn processes one return callback. Replays (page refresh,
// duplicate webhook) are detected by the redis marker and by the CAS status
// write, so the transition is applied at most once.
func (r *Reconciler) HandleReturn(ctx context.Context, params models.ReturnParams) (*ReconcileResult, error) {
	if params.TransactionID == "" && params.StatusCode == "" {
		return nil, ErrMalformedReturn
	}

	bookingID := params.ExternalReference
	if bookingID == "" && params.TransactionID != "" {
		attempt, err := r.Attempts.GetByGatewayTxID(ctx, params.TransactionID)
		if err != nil {
			return nil, ErrMalformedReturn
		}
		bookingID = attempt.BookingID
	}
	if bookingID == "" {
		return nil, ErrMalformedReturn
	}

	target, ok := MapGatewayStatus(params.StatusCode)
	if !ok {
		r.Logger.Error("unrecognised gateway status on return",
			zap.String("bookingId", bookingID), zap.String("statusCode", params.StatusCode))
		return nil, ErrMalformedReturn
	}

	unlock := r.lockBooking(bookingID)
	defer unlock()

	if r.alreadyProcessed(ctx, bookingID, params) {
		rec, err := r.Bookings.GetByID(ctx, bookingID)
		if err != nil {
			return nil, &TransientError{Op: "booking lookup", Err: err}
		}
		return &ReconcileResult{
			BookingID:      bookingID,
			Status:         rec.Status,
			Confirmed:      !rec.StatusUnconfirmed,
			AlreadyApplied: true,
		}, nil
	}

	// Best-effort server-side confirmation of the client-reported status.
	confirmed := false
	if params.TransactionID != "" {
		if reported, err := r.Gateway.GetPaymentStatus(ctx, params.TransactionID); err == nil {
			if mapped, ok := MapGatewayStatus(reported); ok && mapped == target {
				confirmed = true
			} else {
				r.Logger.Warn("gateway re-query disagrees with client-reported status",
					zap.String("bookingId", bookingID),
					zap.String("client", params.StatusCode),
					zap.String("gateway", reported))
			}
		} else {
			r.Logger.Warn("gateway re-query unavailable", zap.Error(err))
		}
	}

	status, err := r.apply(ctx, bookingID, target, confirmed)
	if err != nil {
		return nil, err
	}

	r.updateAttempt(ctx, params.TransactionID, target)

	if !confirmed || !models.TerminalStatus(status) {
		r.scheduleRecheck(bookingID, params.TransactionID, 1)
	}

	return &ReconcileResult{BookingID: bookingID, Status: status, Confirmed: confirmed}, nil
}

// Recheck re-queries the gateway directly. Used by the deferred recheck
// worker and the manual status-check path; its answer is authoritative, so a
// matching transition is applied as confirmed.
func (r *Reconciler) Recheck(ctx context.Context, bookingID, transactionID string, attempt int) (*ReconcileResult, error) {
	unlock := r.lockBooking(bookingID)
	defer unlock()

	reported, err := r.Gateway.GetPaymentStatus(ctx, transactionID)
	if err != nil {
		if attempt < maxRecheckAttempts {
			r.scheduleRecheck(bookingID, transactionID, attempt+1)
		}
		return nil, &TransientError{Op: "gateway status re-query", Err: err}
	}

	target, ok := MapGatewayStatus(reported)
	if !ok {
		return nil, ErrMalformedReturn
	}

	status, err := r.apply(ctx, bookingID, target, true)
	if err != nil {
		return nil, err
	}
	if !models.TerminalStatus(status) && attempt < maxRecheckAttempts {
		r.scheduleRecheck(bookingID, transactionID, attempt+1)
	}

	return &ReconcileResult{BookingID: bookingID, Status: status, Confirmed: true}, nil
}

// apply performs the status transition. Terminal targets move from any
// non-terminal status; the CAS filter in the repository guarantees that only
// the first terminal write wins. Re-applying the current status with
// confirmed=true clears a prior unconfirmed flag.
func (r *Reconciler) apply(ctx context.Context, bookingID, target string, confirmed bool) (string, error) {
	var from []string
	switch target {
	case models.StatusPaid, models.StatusRejected:
		from = []string{models.StatusPending, models.StatusAwaitingPayment}
		if confirmed {
			// A confirmed re-apply of the current status clears the flag.
			from = append(from, target)
		}
	case models.StatusAwaitingPayment:
		from = []string{models.StatusPending, models.StatusAwaitingPayment}
	default:
		return "", ErrMalformedReturn
	}

	applied, err := r.Bookings.TransitionStatus(ctx, bookingID, from, target, !confirmed)
	if err != nil {
		return "", &TransientError{Op: "booking status update", Err: err}
	}

	rec, err := r.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return "", &TransientError{Op: "booking lookup", Err: err}
	}
	if !applied {
		r.Logger.Info("reconciliation no-op, booking already terminal",
			zap.String("bookingId", bookingID), zap.String("status", rec.Status))
	}
	return rec.Status, nil
}

// alreadyProcessed marks the callback in redis; a marker that is already set
// means this exact payload was handled before. Marker failures fall through:
// the CAS write still protects against double-apply.
func (r *Reconciler) alreadyProcessed(ctx context.Context, bookingID string, params models.ReturnParams) bool {
	key := fmt.Sprintf("return:%s:%s:%s", bookingID, params.TransactionID, params.StatusCode)
	ok, err := r.Marker.SetNX(ctx, key, "1", returnMarkerTTL).Result()
	if err != nil {
		r.Logger.Warn("return marker unavailable", zap.Error(err))
		return false
	}
	return !ok
}

func (r *Reconciler) updateAttempt(ctx context.Context, transactionID, target string) {
	if transactionID == "" {
		return
	}
	attempt, err := r.Attempts.GetByGatewayTxID(ctx, transactionID)
	if err != nil {
		return
	}
	status := models.AttemptPending
	switch target {
	case models.StatusPaid:
		status = models.AttemptApproved
	case models.StatusRejected:
		status = models.AttemptDeclined
	}
	if err := r.Attempts.Update(ctx, attempt.AttemptID, status, transactionID, ""); err != nil {
		r.Logger.Error("failed to update payment attempt", zap.Error(err))
	}
}

// scheduleRecheck enqueues a deferred server-side status re-query with a
// growing delay per attempt.
func (r *Reconciler) scheduleRecheck(bookingID, transactionID string, attempt int) {
	if r.Tasks == nil || transactionID == "" {
		return
	}
	payload := models.RecheckPayload{BookingID: bookingID, TransactionID: transactionID, Attempt: attempt}
	task, opts, err := tasks.NewPaymentRecheckTask(payload, time.Duration(attempt)*2*time.Minute)
	if err != nil {
		r.Logger.Error("failed to build recheck task", zap.Error(err))
		return
	}
	if _, err := r.Tasks.Enqueue(task, opts...); err != nil {
		r.Logger.Error("failed to enqueue recheck task", zap.Error(err))
	}
}
