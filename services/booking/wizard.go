package booking

import (
	"andino/models"
)

// Wizard steps, in order. No skipping; backward navigation is always allowed
// and never clears later-step data.
const (
	StepDateAndParty  = "date-and-party"
	StepAddOns        = "add-ons"
	StepContactInfo   = "contact-info"
	StepPaymentMethod = "payment-method"
	StepConfirmation  = "confirmation"
)

var stepOrder = []string{
	StepDateAndParty,
	StepAddOns,
	StepContactInfo,
	StepPaymentMethod,
	StepConfirmation,
}

func stepIndex(step string) int {
	for i, s := range stepOrder {
		if s == step {
			return i
		}
	}
	return -1
}

// Wizard is the state machine driving one booking attempt. It is the single
// writer of the draft: every mutation goes through a method here, and every
// mutation of pricing inputs recomputes the quote.
type Wizard struct {
	sess   *models.WizardSession
	policy PricingPolicy
}

func NewWizard(sess *models.WizardSession, policy PricingPolicy) *Wizard {
	if sess.Step == "" {
		sess.Step = StepDateAndParty
	}
	return &Wizard{sess: sess, policy: policy}
}

// Session exposes the underlying session for persistence.
func (w *Wizard) Session() *models.WizardSession { return w.sess }

// Step returns the current step tag.
func (w *Wizard) Step() string { return w.sess.Step }

// Draft returns a copy of the current draft.
func (w *Wizard) Draft() models.DraftBooking { return w.sess.Draft }

func (w *Wizard) mutable() error {
	if w.sess.Submitting || w.sess.BookingID != "" {
		return ErrAlreadySubmitting
	}
	return nil
}

// SetDatesAndParty updates the stay window and traveller composition. A
// change to either invalidates any prior availability verdict.
func (w *Wizard) SetDatesAndParty(dr models.DateRange, party models.Party) error {
	if err := w.mutable(); err != nil {
		return err
	}
	if dr.CheckIn.IsZero() {
		return NewValidationError("checkIn", "check-in date is required")
	}
	if dr.CheckOut != nil && dr.CheckOut.Before(dr.CheckIn) {
		return NewValidationError("checkOut", "check-out cannot precede check-in")
	}
	if party.Adults < 1 {
		return NewValidationError("party.adults", "at least one adult is required")
	}
	if party.Children < 0 {
		return NewValidationError("party.children", "children cannot be negative")
	}
	if max := w.sess.Service.MaxCapacity; max > 0 && party.Adults+party.Children > max {
		return NewValidationError("party", "party exceeds the service capacity")
	}

	if w.sess.Gate != nil && !Covers(w.sess.Gate, dr, party) {
		w.sess.Gate = nil
	}
	w.sess.Draft.Dates = dr
	w.sess.Draft.Party = party
	return w.recomputeQuote()
}

// ToggleAddOn adds or removes an add-on from the selection set.
func (w *Wizard) ToggleAddOn(id string) error {
	if err := w.mutable(); err != nil {
		return err
	}
	if _, ok := w.sess.Service.AddOnByID(id); !ok {
		return NewValidationError("addOns", "unknown add-on "+id)
	}
	if w.sess.Draft.HasAddOn(id) {
		kept := w.sess.Draft.AddOns[:0]
		for _, a := range w.sess.Draft.AddOns {
			if a != id {
				kept = append(kept, a)
			}
		}
		w.sess.Draft.AddOns = kept
	} else {
		w.sess.Draft.AddOns = append(w.sess.Draft.AddOns, id)
	}
	return w.recomputeQuote()
}

// SetContact stores the contact details; validation runs at advancement.
func (w *Wizard) SetContact(c models.ContactInfo) error {
	if err := w.mutable(); err != nil {
		return err
	}
	w.sess.Draft.Contact = c
	return nil
}

// SetPaymentMethod records the chosen method and terms acceptance. Unlike
// the pricing inputs it stays editable after a commit, so a declined payment
// can be retried with another method.
func (w *Wizard) SetPaymentMethod(method string, termsAccepted bool) error {
	if w.sess.Submitting {
		return ErrAlreadySubmitting
	}
	if !models.ValidPaymentMethod(method) {
		return NewValidationError("paymentMethod", "unsupported payment method "+method)
	}
	w.sess.Draft.PaymentMethod = method
	w.sess.Draft.TermsAccepted = termsAccepted
	return nil
}

// ApplyGate stores the latest availability verdict.
func (w *Wizard) ApplyGate(d models.Decision) {
	w.sess.Gate = &d
}

// Advance moves to the next step after the current step's guard passes. The
// date step additionally requires an admit verdict covering the current
// range.
func (w *Wizard) Advance() error {
	if err := w.mutable(); err != nil {
		return err
	}
	idx := stepIndex(w.sess.Step)
	if idx < 0 || idx == len(stepOrder)-1 {
		return NewValidationError("step", "already at the final step")
	}
	if err := w.isValid(w.sess.Step); err != nil {
		return err
	}
	if w.sess.Step == StepDateAndParty {
		if err := w.gatePassed(); err != nil {
			return err
		}
	}
	w.sess.Step = stepOrder[idx+1]
	return nil
}

// Back moves one step back. Later-step data is preserved so going forward
// again shows prior input.
func (w *Wizard) Back() error {
	if err := w.mutable(); err != nil {
		return err
	}
	idx := stepIndex(w.sess.Step)
	if idx <= 0 {
		return NewValidationError("step", "already at the first step")
	}
	w.sess.Step = stepOrder[idx-1]
	return nil
}

// gatePassed converts the stored availability verdict into a typed outcome.
func (w *Wizard) gatePassed() error {
	gate := w.sess.Gate
	if !Covers(gate, w.sess.Draft.Dates, w.sess.Draft.Party) {
		return &TransientError{Op: "availability check", Err: ErrAvailabilityUnknown}
	}
	switch gate.Outcome {
	case models.DecisionAdmit:
		return nil
	case models.DecisionBlocked:
		return &AvailabilityBlock{Reason: gate.Reason, Alternatives: gate.AlternativeDates}
	default:
		return &TransientError{Op: "availability check", Err: ErrAvailabilityUnknown}
	}
}

// ReadyToCommit verifies every pre-confirmation guard before a submit.
func (w *Wizard) ReadyToCommit() error {
	for _, step := range []string{StepDateAndParty, StepAddOns, StepContactInfo, StepPaymentMethod} {
		if err := w.isValid(step); err != nil {
			return err
		}
	}
	return w.gatePassed()
}

// SnapshotQuote recomputes the quote one final time and returns the value
// that will be committed, protecting against pricing inputs changing after
// submission.
func (w *Wizard) SnapshotQuote() (models.Quote, error) {
	if err := w.recomputeQuote(); err != nil {
		return models.Quote{}, err
	}
	return w.sess.Draft.Quote, nil
}

func (w *Wizard) recomputeQuote() error {
	quote, err := ComputeQuote(w.sess.Service, w.sess.Draft.Dates, w.sess.Draft.Party, w.sess.Draft.AddOns, w.policy)
	if err != nil {
		return err
	}
	w.sess.Draft.Quote = quote
	return nil
}
