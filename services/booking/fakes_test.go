package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"

	bookingRepo "andino/database/repository/booking"
	"andino/models"
	"andino/services/gateway"
)

// In-memory collaborators shared by the tests in this package.

type fakeBookingRepo struct {
	mu          sync.Mutex
	byID        map[string]*models.BookingRecord
	byIdemKey   map[string]string
	nextID      int
	createCalls int
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{
		byID:      make(map[string]*models.BookingRecord),
		byIdemKey: make(map[string]string),
	}
}

func (r *fakeBookingRepo) Create(_ context.Context, rec *models.BookingRecord) (*models.BookingRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createCalls++
	if id, ok := r.byIdemKey[rec.IdempotencyKey]; ok {
		return cloneRecord(r.byID[id]), nil
	}
	r.nextID++
	stored := *rec
	stored.BookingID = fmt.Sprintf("bk-%d", r.nextID)
	r.byID[stored.BookingID] = &stored
	r.byIdemKey[stored.IdempotencyKey] = stored.BookingID
	return cloneRecord(&stored), nil
}

func (r *fakeBookingRepo) GetByID(_ context.Context, bookingID string) (*models.BookingRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.byID[bookingID]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return cloneRecord(rec), nil
}

func (r *fakeBookingRepo) GetByIdempotencyKey(_ context.Context, key string) (*models.BookingRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byIdemKey[key]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return cloneRecord(r.byID[id]), nil
}

func (r *fakeBookingRepo) TransitionStatus(_ context.Context, bookingID string, from []string, to string, unconfirmed bool) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.byID[bookingID]
	if !ok {
		return false, bookingRepo.ErrBookingNotFound
	}
	for _, f := range from {
		if rec.Status == f {
			rec.Status = to
			rec.StatusUnconfirmed = unconfirmed
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBookingRepo) Cancel(_ context.Context, bookingID, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.byID[bookingID]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	rec.Status = models.StatusCancelled
	rec.CancelReason = reason
	return nil
}

func cloneRecord(rec *models.BookingRecord) *models.BookingRecord {
	c := *rec
	return &c
}

type fakeAttemptRepo struct {
	mu       sync.Mutex
	attempts map[string]*models.PaymentAttempt
	nextID   int
}

func newFakeAttemptRepo() *fakeAttemptRepo {
	return &fakeAttemptRepo{attempts: make(map[string]*models.PaymentAttempt)}
}

func (r *fakeAttemptRepo) Create(_ context.Context, attempt models.PaymentAttempt) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	attempt.AttemptID = fmt.Sprintf("at-%d", r.nextID)
	r.attempts[attempt.AttemptID] = &attempt
	return attempt.AttemptID, nil
}

func (r *fakeAttemptRepo) Update(_ context.Context, attemptID, status, gatewayTxID, errMsg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.attempts[attemptID]
	if !ok {
		return errors.New("attempt not found")
	}
	a.Status = status
	if gatewayTxID != "" {
		a.GatewayTxID = gatewayTxID
	}
	a.Error = errMsg
	return nil
}

func (r *fakeAttemptRepo) GetByBookingID(_ context.Context, bookingID string) ([]models.PaymentAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.PaymentAttempt
	for _, a := range r.attempts {
		if a.BookingID == bookingID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAttemptRepo) GetByGatewayTxID(_ context.Context, gatewayTxID string) (*models.PaymentAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.attempts {
		if a.GatewayTxID == gatewayTxID {
			c := *a
			return &c, nil
		}
	}
	return nil, errors.New("attempt not found")
}

type fakeGateway struct {
	mu           sync.Mutex
	statusByTx   map[string]string
	statusErr    error
	processRes   *models.PaymentResult
	processErr   error
	checkout     *models.CheckoutSession
	checkoutErr  error
	statusCalls  int
	processCalls int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{statusByTx: make(map[string]string)}
}

func (g *fakeGateway) CreateCheckoutSession(_ context.Context, bookingID string, amount float64, currency string) (*models.CheckoutSession, error) {
	if g.checkoutErr != nil {
		return nil, g.checkoutErr
	}
	if g.checkout != nil {
		return g.checkout, nil
	}
	return &models.CheckoutSession{SessionID: "cs-" + bookingID, RedirectURL: "https://pay.example/" + bookingID}, nil
}

func (g *fakeGateway) ProcessPayment(_ context.Context, req gateway.ProcessRequest) (*models.PaymentResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.processCalls++
	if g.processErr != nil {
		return nil, g.processErr
	}
	if g.processRes != nil {
		return g.processRes, nil
	}
	return &models.PaymentResult{Success: true, TransactionID: "tx-" + req.BookingID}, nil
}

func (g *fakeGateway) GetPaymentStatus(_ context.Context, transactionID string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.statusCalls++
	if g.statusErr != nil {
		return "", g.statusErr
	}
	if s, ok := g.statusByTx[transactionID]; ok {
		return s, nil
	}
	return gateway.StatusApproved, nil
}

type stubAvailabilityClient struct {
	mu     sync.Mutex
	result *models.AvailabilityResult
	err    error
	calls  int
}

func (c *stubAvailabilityClient) CheckAvailability(_ context.Context, _ string, _ models.DateRange, _ models.Party) (*models.AvailabilityResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.result, nil
}

type stubPayments struct {
	directAttempt *models.PaymentAttempt
	directErr     error
	checkout      *models.CheckoutSession
	checkoutErr   error
	directCalls   int
}

func (p *stubPayments) ProcessDirect(_ context.Context, rec *models.BookingRecord, _ string) (*models.PaymentAttempt, error) {
	p.directCalls++
	if p.directErr != nil {
		return p.directAttempt, p.directErr
	}
	if p.directAttempt != nil {
		return p.directAttempt, nil
	}
	return &models.PaymentAttempt{BookingID: rec.BookingID, Status: models.AttemptApproved}, nil
}

func (p *stubPayments) StartCheckout(_ context.Context, rec *models.BookingRecord) (*models.CheckoutSession, *models.PaymentAttempt, error) {
	if p.checkoutErr != nil {
		return nil, nil, p.checkoutErr
	}
	checkout := p.checkout
	if checkout == nil {
		checkout = &models.CheckoutSession{SessionID: "cs-1", RedirectURL: "https://pay.example/cs-1"}
	}
	return checkout, &models.PaymentAttempt{BookingID: rec.BookingID, Status: models.AttemptRedirect, GatewayTxID: checkout.SessionID}, nil
}
