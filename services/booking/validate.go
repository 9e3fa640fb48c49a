package booking

import (
	"regexp"
	"strings"

	"andino/models"
)

// Basic address shape; full deliverability checks belong to the UI layer.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// isValid is the per-step transition guard.
func (w *Wizard) isValid(step string) error {
	draft := &w.sess.Draft
	switch step {
	case StepDateAndParty:
		if draft.Dates.CheckIn.IsZero() {
			return NewValidationError("checkIn", "check-in date is required")
		}
		if w.sess.Service.Unit == models.UnitPerNight {
			if draft.Dates.CheckOut == nil {
				return NewValidationError("checkOut", "check-out date is required for lodging")
			}
			if draft.Dates.CheckOut.Before(draft.Dates.CheckIn) {
				return NewValidationError("checkOut", "check-out cannot precede check-in")
			}
		}
		if draft.Party.Adults < 1 {
			return NewValidationError("party.adults", "at least one adult is required")
		}
		return nil

	case StepAddOns:
		for _, id := range draft.AddOns {
			if _, ok := w.sess.Service.AddOnByID(id); !ok {
				return NewValidationError("addOns", "unknown add-on "+id)
			}
		}
		return nil

	case StepContactInfo:
		c := draft.Contact
		if strings.TrimSpace(c.FullName) == "" {
			return NewValidationError("contact.fullName", "full name is required")
		}
		if !emailPattern.MatchString(strings.TrimSpace(c.Email)) {
			return NewValidationError("contact.email", "a valid email address is required")
		}
		if strings.TrimSpace(c.Phone) == "" {
			return NewValidationError("contact.phone", "phone number is required")
		}
		if strings.TrimSpace(c.DocumentID) == "" {
			return NewValidationError("contact.documentId", "document id is required")
		}
		return nil

	case StepPaymentMethod:
		if !models.ValidPaymentMethod(draft.PaymentMethod) {
			return NewValidationError("paymentMethod", "a payment method must be selected")
		}
		if !draft.TermsAccepted {
			return NewValidationError("termsAccepted", "terms must be accepted")
		}
		return nil

	case StepConfirmation:
		// Always valid to view; committing re-checks the earlier guards.
		return nil
	}
	return NewValidationError("step", "unknown step "+step)
}
