package booking

import (
	"context"
	"errors"
	"time"

	"andino/models"
	"andino/services/catalog"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StartSession creates a wizard session for a catalog service. The
// idempotency key minted here lives for the whole session and makes commit
// retries safe.
func (s *DefaultBookingFlowService) StartSession(ctx context.Context, serviceRef, userToken string) (*models.WizardSession, error) {
	svc, err := s.Catalog.GetService(ctx, serviceRef)
	if err != nil {
		if errors.Is(err, catalog.ErrServiceNotFound) {
			return nil, NewValidationError("serviceRef", "unknown service "+serviceRef)
		}
		return nil, &TransientError{Op: "catalog lookup", Err: err}
	}

	sess := &models.WizardSession{
		SessionID:      uuid.New().String(),
		UserToken:      userToken,
		Step:           StepDateAndParty,
		Draft:          models.DraftBooking{ServiceRef: serviceRef},
		Service:        *svc,
		IdempotencyKey: uuid.New().String(),
		CreatedAt:      time.Now(),
	}
	if err := s.Store.Save(ctx, sess); err != nil {
		return nil, err
	}

	s.Logger.Info("booking session started",
		zap.String("sessionId", sess.SessionID), zap.String("serviceRef", serviceRef))
	return sess, nil
}

// GetSession returns the current wizard state.
func (s *DefaultBookingFlowService) GetSession(ctx context.Context, sessionID string) (*models.WizardSession, error) {
	return s.Store.Get(ctx, sessionID)
}

// withSession loads a session, applies a wizard mutation and saves it back.
func (s *DefaultBookingFlowService) withSession(ctx context.Context, sessionID string, fn func(*Wizard) error) (*models.WizardSession, error) {
	sess, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	w := NewWizard(sess, s.Policy)
	if err := fn(w); err != nil {
		return nil, err
	}
	if err := s.Store.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *DefaultBookingFlowService) SetDatesAndParty(ctx context.Context, sessionID string, dr models.DateRange, party models.Party) (*models.WizardSession, error) {
	return s.withSession(ctx, sessionID, func(w *Wizard) error {
		return w.SetDatesAndParty(dr, party)
	})
}

func (s *DefaultBookingFlowService) ToggleAddOn(ctx context.Context, sessionID, addOnID string) (*models.WizardSession, error) {
	return s.withSession(ctx, sessionID, func(w *Wizard) error {
		return w.ToggleAddOn(addOnID)
	})
}

func (s *DefaultBookingFlowService) SetContact(ctx context.Context, sessionID string, contact models.ContactInfo) (*models.WizardSession, error) {
	return s.withSession(ctx, sessionID, func(w *Wizard) error {
		return w.SetContact(contact)
	})
}

func (s *DefaultBookingFlowService) SetPaymentMethod(ctx context.Context, sessionID, method string, termsAccepted bool) (*models.WizardSession, error) {
	return s.withSession(ctx, sessionID, func(w *Wizard) error {
		return w.SetPaymentMethod(method, termsAccepted)
	})
}

// Advance runs the availability gate when leaving the date step (and only
// then), stores the verdict, and moves the wizard forward if the step guard
// passes. A blocked or unknown verdict is persisted so the UI can show it;
// an unknown verdict never satisfies the guard, so a retried advance asks
// the collaborator again instead of replaying the stored failure.
func (s *DefaultBookingFlowService) Advance(ctx context.Context, sessionID string) (*models.WizardSession, error) {
	sess, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	w := NewWizard(sess, s.Policy)

	if sess.Step == StepDateAndParty {
		if err := w.isValid(StepDateAndParty); err != nil {
			return nil, err
		}
		if !Covers(sess.Gate, sess.Draft.Dates, sess.Draft.Party) || sess.Gate.Outcome == models.DecisionUnknown {
			w.ApplyGate(s.Gate.Check(ctx, sess.Draft.ServiceRef, sess.Draft.Dates, sess.Draft.Party))
		}
	}

	advErr := w.Advance()
	if err := s.Store.Save(ctx, sess); err != nil {
		return nil, err
	}
	if advErr != nil {
		return nil, advErr
	}
	return sess, nil
}

func (s *DefaultBookingFlowService) Back(ctx context.Context, sessionID string) (*models.WizardSession, error) {
	return s.withSession(ctx, sessionID, func(w *Wizard) error {
		return w.Back()
	})
}

// Submit commits the draft exactly once and hands off to payment. A retry
// after a declined direct payment reuses the committed booking instead of
// creating a second one.
func (s *DefaultBookingFlowService) Submit(ctx context.Context, sessionID string) (*SubmitResult, error) {
	sess, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Step != StepConfirmation {
		return nil, NewValidationError("step", "wizard has not reached confirmation")
	}

	locked, err := s.Store.AcquireSubmitLock(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !locked {
		return nil, ErrAlreadySubmitting
	}

	// Freeze the wizard while the submit is in flight so concurrent mutation
	// requests are rejected; sessions that survive the submit are unfrozen on
	// the way out.
	sess.Submitting = true
	sessionGone := false
	defer func() {
		if !sessionGone {
			sess.Submitting = false
			if err := s.Store.Save(context.Background(), sess); err != nil {
				s.Logger.Warn("failed to unfreeze session after submit", zap.Error(err))
			}
		}
		if err := s.Store.ReleaseSubmitLock(context.Background(), sessionID); err != nil {
			s.Logger.Warn("failed to release submit lock", zap.Error(err))
		}
	}()
	if err := s.Store.Save(ctx, sess); err != nil {
		return nil, err
	}

	w := NewWizard(sess, s.Policy)

	var rec *models.BookingRecord
	if sess.BookingID != "" {
		// Already committed; this is a payment retry.
		rec, err = s.Committer.Repo.GetByID(ctx, sess.BookingID)
		if err != nil {
			return nil, &TransientError{Op: "booking lookup", Err: err}
		}
	} else {
		if err := w.ReadyToCommit(); err != nil {
			return nil, err
		}
		// Freeze the quote at the moment of submission.
		if _, err := w.SnapshotQuote(); err != nil {
			return nil, err
		}
		rec, err = s.Committer.Commit(ctx, sess, sess.UserToken)
		if err != nil {
			if errors.Is(err, ErrLostAvailability) {
				// Force a fresh date pick; the stale verdict is useless now.
				// A merely unknown re-check is retryable and keeps the wizard
				// where it is.
				sess.Gate = nil
				sess.Step = StepDateAndParty
			}
			return nil, err
		}
		sess.BookingID = rec.BookingID
		if err := s.Store.Save(ctx, sess); err != nil {
			s.Logger.Error("failed to persist booking id on session", zap.Error(err))
		}
	}

	if sess.Draft.PaymentMethod == models.MethodGatewayRedirect {
		checkout, attempt, err := s.Payments.StartCheckout(ctx, rec)
		if err != nil {
			return nil, err
		}
		if err := s.Store.Delete(ctx, sessionID); err != nil {
			s.Logger.Warn("failed to clear session after handoff", zap.Error(err))
		} else {
			sessionGone = true
		}
		return &SubmitResult{Booking: rec, Attempt: attempt, RedirectURL: checkout.RedirectURL}, nil
	}

	attempt, err := s.Payments.ProcessDirect(ctx, rec, sess.Draft.PaymentMethod)
	var declined *PaymentDeclined
	if errors.As(err, &declined) {
		// Booking survives the decline; keep the session so another method
		// can be selected without re-running the commit.
		return &SubmitResult{Booking: rec, Attempt: attempt}, err
	}
	if err != nil {
		return nil, err
	}

	if updated, err := s.Committer.Repo.GetByID(ctx, rec.BookingID); err == nil {
		rec = updated
	}
	if err := s.Store.Delete(ctx, sessionID); err != nil {
		s.Logger.Warn("failed to clear session after payment", zap.Error(err))
	} else {
		sessionGone = true
	}
	return &SubmitResult{Booking: rec, Attempt: attempt}, nil
}

// Abandon drops the wizard session. Before submit this has no server-side
// effect; after a commit the booking record stays behind for reconciliation
// or cleanup.
func (s *DefaultBookingFlowService) Abandon(ctx context.Context, sessionID string) error {
	return s.Store.Delete(ctx, sessionID)
}
