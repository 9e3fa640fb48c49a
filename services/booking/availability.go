package booking

import (
	"context"
	"time"

	"andino/models"

	"go.uber.org/zap"
)

// AvailabilityClient is the remote availability collaborator. Implementations
// live behind this interface so production and test doubles are
// interchangeable.
type AvailabilityClient interface {
	CheckAvailability(ctx context.Context, serviceRef string, dr models.DateRange, party models.Party) (*models.AvailabilityResult, error)
}

// AvailabilityGate turns the collaborator's answer into a step-admission
// decision. It is consulted when the wizard is about to leave the date step,
// never on every keystroke.
type AvailabilityGate struct {
	Client  AvailabilityClient
	Timeout time.Duration
	Logger  *zap.Logger
}

const defaultGateTimeout = 8 * time.Second

func NewAvailabilityGate(client AvailabilityClient, logger *zap.Logger) *AvailabilityGate {
	return &AvailabilityGate{Client: client, Timeout: defaultGateTimeout, Logger: logger}
}

// Check queries the collaborator and maps the outcome. A transport failure
// yields DecisionUnknown: the caller may retry, but the gate never admits on
// a failed check.
func (g *AvailabilityGate) Check(ctx context.Context, serviceRef string, dr models.DateRange, party models.Party) models.Decision {
	timeout := g.Timeout
	if timeout <= 0 {
		timeout = defaultGateTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	decision := models.Decision{CheckedFor: dr, CheckedParty: party, CheckedAt: time.Now()}

	result, err := g.Client.CheckAvailability(ctx, serviceRef, dr, party)
	if err != nil {
		g.Logger.Warn("availability check failed",
			zap.String("serviceRef", serviceRef), zap.Error(err))
		decision.Outcome = models.DecisionUnknown
		decision.Reason = "could not determine availability, please retry"
		return decision
	}

	if result.Available {
		decision.Outcome = models.DecisionAdmit
		return decision
	}

	// Blocked: reason and alternatives pass through verbatim for the step UI.
	decision.Outcome = models.DecisionBlocked
	decision.Reason = result.Reason
	decision.AlternativeDates = result.AlternativeDates
	return decision
}

// Covers reports whether a gate decision still applies to the given inputs.
// Both the range and the party composition must match: an admit for two
// adults says nothing about six.
func Covers(d *models.Decision, dr models.DateRange, party models.Party) bool {
	return d != nil && SameRange(d.CheckedFor, dr) && d.CheckedParty == party
}

// SameRange reports whether a gate decision still covers the given range.
func SameRange(a, b models.DateRange) bool {
	if !a.CheckIn.Equal(b.CheckIn) {
		return false
	}
	if a.CheckOut == nil || b.CheckOut == nil {
		return a.CheckOut == nil && b.CheckOut == nil
	}
	return a.CheckOut.Equal(*b.CheckOut)
}
