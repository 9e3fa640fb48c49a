package booking

import (
	"testing"
	"time"

	"andino/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession() *models.WizardSession {
	return &models.WizardSession{
		SessionID:      "sess-1",
		Step:           StepDateAndParty,
		Draft:          models.DraftBooking{ServiceRef: "svc-eje-cafetero"},
		Service:        lodgingService(),
		IdempotencyKey: "idem-1",
		CreatedAt:      time.Now(),
	}
}

func admitFor(dr models.DateRange, party models.Party) models.Decision {
	return models.Decision{Outcome: models.DecisionAdmit, CheckedFor: dr, CheckedParty: party, CheckedAt: time.Now()}
}

func wizardAtConfirmation(t *testing.T) *Wizard {
	t.Helper()
	w := NewWizard(newTestSession(), testPolicy)
	dr := rangeOf("2026-06-01", "2026-06-03")
	require.NoError(t, w.SetDatesAndParty(dr, models.Party{Adults: 2}))
	w.ApplyGate(admitFor(dr, models.Party{Adults: 2}))
	require.NoError(t, w.Advance())
	require.NoError(t, w.ToggleAddOn("breakfast"))
	require.NoError(t, w.Advance())
	require.NoError(t, w.SetContact(models.ContactInfo{
		FullName:   "Ana Restrepo",
		Email:      "ana@example.com",
		Phone:      "+57 300 000 0000",
		DocumentID: "CC-1234567",
	}))
	require.NoError(t, w.Advance())
	require.NoError(t, w.SetPaymentMethod(models.MethodCard, true))
	require.NoError(t, w.Advance())
	require.Equal(t, StepConfirmation, w.Step())
	return w
}

func TestWizardHappyPath(t *testing.T) {
	w := wizardAtConfirmation(t)
	assert.NoError(t, w.ReadyToCommit())

	draft := w.Draft()
	assert.Equal(t, []string{"breakfast"}, draft.AddOns)
	// 150000 * 2 nights * 2 adults + 25000 breakfast, plus 19% tax.
	assert.Equal(t, 625000.0, draft.Quote.Subtotal)
	assert.Equal(t, 743750.0, draft.Quote.Total)
}

func TestWizardNoSkippingSteps(t *testing.T) {
	w := NewWizard(newTestSession(), testPolicy)

	// Advancing without dates fails the step guard.
	err := w.Advance()
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, StepDateAndParty, w.Step())
}

func TestWizardAdvanceRequiresAdmit(t *testing.T) {
	w := NewWizard(newTestSession(), testPolicy)
	dr := rangeOf("2026-06-01", "2026-06-03")
	require.NoError(t, w.SetDatesAndParty(dr, models.Party{Adults: 2}))

	// No gate verdict yet.
	err := w.Advance()
	assert.True(t, IsTransient(err))
	assert.ErrorIs(t, err, ErrAvailabilityUnknown)

	// A blocked verdict surfaces the reason and alternatives verbatim.
	alt := []models.DateRange{rangeOf("2026-06-10", "2026-06-12")}
	w.ApplyGate(models.Decision{
		Outcome:          models.DecisionBlocked,
		Reason:           "sold out",
		AlternativeDates: alt,
		CheckedFor:       dr,
		CheckedParty:     models.Party{Adults: 2},
	})
	err = w.Advance()
	var block *AvailabilityBlock
	require.ErrorAs(t, err, &block)
	assert.Equal(t, "sold out", block.Reason)
	assert.Equal(t, alt, block.Alternatives)
	assert.Equal(t, StepDateAndParty, w.Step())

	// An unknown verdict blocks but stays retryable; it never admits, and it
	// is not the lost-availability conflict that forces a new date pick.
	w.ApplyGate(models.Decision{Outcome: models.DecisionUnknown, CheckedFor: dr, CheckedParty: models.Party{Adults: 2}})
	err = w.Advance()
	assert.True(t, IsTransient(err))
	assert.ErrorIs(t, err, ErrAvailabilityUnknown)
	assert.NotErrorIs(t, err, ErrLostAvailability)
	assert.Equal(t, StepDateAndParty, w.Step())
}

func TestWizardDateChangeInvalidatesGate(t *testing.T) {
	w := NewWizard(newTestSession(), testPolicy)
	dr := rangeOf("2026-06-01", "2026-06-03")
	require.NoError(t, w.SetDatesAndParty(dr, models.Party{Adults: 2}))
	w.ApplyGate(admitFor(dr, models.Party{Adults: 2}))
	require.NoError(t, w.Advance())

	require.NoError(t, w.Back())
	require.NoError(t, w.SetDatesAndParty(rangeOf("2026-07-01", "2026-07-03"), models.Party{Adults: 2}))

	// The old admit no longer covers the new range.
	assert.Nil(t, w.Session().Gate)
	assert.True(t, IsTransient(w.Advance()))
}

func TestWizardPartyChangeInvalidatesGate(t *testing.T) {
	w := NewWizard(newTestSession(), testPolicy)
	dr := rangeOf("2026-06-01", "2026-06-03")
	require.NoError(t, w.SetDatesAndParty(dr, models.Party{Adults: 2}))
	w.ApplyGate(admitFor(dr, models.Party{Adults: 2}))
	require.NoError(t, w.Advance())

	// Same dates, bigger group: the admit for two adults says nothing about
	// four, so the verdict is dropped and advancement needs a fresh check.
	require.NoError(t, w.Back())
	require.NoError(t, w.SetDatesAndParty(dr, models.Party{Adults: 4}))
	assert.Nil(t, w.Session().Gate)
	assert.True(t, IsTransient(w.Advance()))
	assert.Equal(t, StepDateAndParty, w.Step())
}

func TestWizardBackPreservesLaterData(t *testing.T) {
	w := wizardAtConfirmation(t)
	require.NoError(t, w.Back())
	require.NoError(t, w.Back())
	assert.Equal(t, StepContactInfo, w.Step())

	draft := w.Draft()
	assert.Equal(t, models.MethodCard, draft.PaymentMethod)
	assert.True(t, draft.TermsAccepted)
	assert.Equal(t, "Ana Restrepo", draft.Contact.FullName)

	// Going forward again needs no re-entry.
	require.NoError(t, w.Advance())
	require.NoError(t, w.Advance())
	assert.Equal(t, StepConfirmation, w.Step())
}

func TestWizardMutationRecomputesQuote(t *testing.T) {
	w := NewWizard(newTestSession(), testPolicy)
	dr := rangeOf("2026-06-01", "2026-06-03")
	require.NoError(t, w.SetDatesAndParty(dr, models.Party{Adults: 2}))
	before := w.Draft().Quote

	require.NoError(t, w.ToggleAddOn("transfer"))
	withAddOn := w.Draft().Quote
	assert.Equal(t, before.Subtotal+80000, withAddOn.Subtotal)

	// Toggling off restores the previous quote.
	require.NoError(t, w.ToggleAddOn("transfer"))
	assert.Equal(t, before, w.Draft().Quote)

	require.NoError(t, w.SetDatesAndParty(dr, models.Party{Adults: 2, Children: 2}))
	assert.Equal(t, before.Subtotal*1.5, w.Draft().Quote.Subtotal)
}

func TestWizardValidation(t *testing.T) {
	w := NewWizard(newTestSession(), testPolicy)

	err := w.SetDatesAndParty(rangeOf("2026-06-01", "2026-06-03"), models.Party{Adults: 0})
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "party.adults", validation.Field)

	checkIn, _ := time.Parse("2006-01-02", "2026-06-03")
	checkOut, _ := time.Parse("2006-01-02", "2026-06-01")
	err = w.SetDatesAndParty(models.DateRange{CheckIn: checkIn, CheckOut: &checkOut}, models.Party{Adults: 1})
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "checkOut", validation.Field)

	err = w.SetDatesAndParty(rangeOf("2026-06-01", "2026-06-03"), models.Party{Adults: 5, Children: 2})
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "party", validation.Field)

	err = w.SetPaymentMethod("barter", true)
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "paymentMethod", validation.Field)
}

func TestWizardContactGuard(t *testing.T) {
	w := NewWizard(newTestSession(), testPolicy)
	dr := rangeOf("2026-06-01", "2026-06-03")
	require.NoError(t, w.SetDatesAndParty(dr, models.Party{Adults: 2}))
	w.ApplyGate(admitFor(dr, models.Party{Adults: 2}))
	require.NoError(t, w.Advance())
	require.NoError(t, w.Advance())

	require.NoError(t, w.SetContact(models.ContactInfo{
		FullName:   "Ana Restrepo",
		Email:      "not-an-email",
		Phone:      "+57 300 000 0000",
		DocumentID: "CC-1234567",
	}))
	err := w.Advance()
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "contact.email", validation.Field)
	assert.Equal(t, StepContactInfo, w.Step())
}

func TestWizardTermsRequired(t *testing.T) {
	w := wizardAtConfirmation(t)
	require.NoError(t, w.Back())
	require.NoError(t, w.SetPaymentMethod(models.MethodCard, false))

	err := w.Advance()
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "termsAccepted", validation.Field)
}

func TestWizardFrozenWhileSubmitting(t *testing.T) {
	w := wizardAtConfirmation(t)
	w.Session().Submitting = true

	dr := rangeOf("2026-08-01", "2026-08-02")
	assert.ErrorIs(t, w.SetDatesAndParty(dr, models.Party{Adults: 1}), ErrAlreadySubmitting)
	assert.ErrorIs(t, w.ToggleAddOn("breakfast"), ErrAlreadySubmitting)
	assert.ErrorIs(t, w.SetPaymentMethod(models.MethodWallet, true), ErrAlreadySubmitting)
	assert.ErrorIs(t, w.Back(), ErrAlreadySubmitting)
}

func TestWizardMethodEditableAfterCommit(t *testing.T) {
	w := wizardAtConfirmation(t)
	w.Session().BookingID = "bk-1"

	// Pricing inputs are frozen once committed...
	assert.ErrorIs(t, w.ToggleAddOn("transfer"), ErrAlreadySubmitting)

	// ...but a declined payment can switch methods for a retry.
	assert.NoError(t, w.SetPaymentMethod(models.MethodWallet, true))
	assert.Equal(t, models.MethodWallet, w.Draft().PaymentMethod)
}
