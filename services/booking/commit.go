package booking

import (
	"context"

	bookingRepo "andino/database/repository/booking"
	"andino/models"

	"go.uber.org/zap"
)

// Committer converts a validated draft into a durable booking record. The
// idempotency key bound to the wizard session makes retries safe: a second
// call with the same key returns the record the first one created.
type Committer struct {
	Repo   bookingRepo.BookingRepository
	Gate   *AvailabilityGate
	Logger *zap.Logger
}

func NewCommitter(repo bookingRepo.BookingRepository, gate *AvailabilityGate, logger *zap.Logger) *Committer {
	return &Committer{Repo: repo, Gate: gate, Logger: logger}
}

// Commit re-checks availability one last time, then persists the draft. A
// blocked re-check surfaces as the distinct lost-availability conflict rather
// than a generic failure; an unknown re-check is retryable.
func (c *Committer) Commit(ctx context.Context, sess *models.WizardSession, userID string) (*models.BookingRecord, error) {
	draft := sess.Draft

	decision := c.Gate.Check(ctx, draft.ServiceRef, draft.Dates, draft.Party)
	switch decision.Outcome {
	case models.DecisionAdmit:
	case models.DecisionBlocked:
		c.Logger.Warn("availability lost at commit",
			zap.String("sessionId", sess.SessionID), zap.String("reason", decision.Reason))
		return nil, ErrLostAvailability
	default:
		return nil, &TransientError{Op: "availability re-check", Err: ErrAvailabilityUnknown}
	}

	rec := &models.BookingRecord{
		IdempotencyKey: sess.IdempotencyKey,
		UserID:         userID,
		ServiceRef:     draft.ServiceRef,
		Dates:          draft.Dates,
		Party:          draft.Party,
		AddOns:         draft.AddOns,
		Contact:        draft.Contact,
		Quote:          draft.Quote,
		Status:         models.StatusPending,
	}

	stored, err := c.Repo.Create(ctx, rec)
	if err != nil {
		return nil, &TransientError{Op: "booking commit", Err: err}
	}

	c.Logger.Info("booking committed",
		zap.String("bookingId", stored.BookingID),
		zap.String("sessionId", sess.SessionID),
		zap.Float64("total", stored.Quote.Total))
	return stored, nil
}
