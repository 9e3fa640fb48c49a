package models

import "time"

// Payment methods accepted by the engine.
const (
	MethodGatewayRedirect = "gateway-redirect"
	MethodCard            = "card"
	MethodBankDebit       = "bank-debit"
	MethodWallet          = "wallet"
)

// ValidPaymentMethod reports whether m is one of the accepted methods.
func ValidPaymentMethod(m string) bool {
	switch m {
	case MethodGatewayRedirect, MethodCard, MethodBankDebit, MethodWallet:
		return true
	}
	return false
}

// DateRange is the selected stay window. CheckOut is nil for single-day
// services.
type DateRange struct {
	CheckIn  time.Time  `json:"checkIn"`
	CheckOut *time.Time `json:"checkOut,omitempty"`
}

// Party is the traveller composition for the booking.
type Party struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
}

// ContactInfo captures the lead traveller's details. SpecialRequests is the
// only optional field.
type ContactInfo struct {
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	DocumentID      string `json:"documentId"`
	SpecialRequests string `json:"specialRequests,omitempty"`
}

// Quote is the derived price breakdown. Never hand-edited; the wizard
// recomputes it whenever dates, party or add-ons change.
type Quote struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
	Currency string  `json:"currency"`
}

// DraftBooking is the mutable, wizard-owned record for one booking attempt.
// The wizard is its single writer.
type DraftBooking struct {
	ServiceRef    string      `json:"serviceRef"`
	Dates         DateRange   `json:"dates"`
	Party         Party       `json:"party"`
	AddOns        []string    `json:"addOns,omitempty"`
	Contact       ContactInfo `json:"contact"`
	PaymentMethod string      `json:"paymentMethod,omitempty"`
	TermsAccepted bool        `json:"termsAccepted"`
	Quote         Quote       `json:"quote"`
}

// HasAddOn reports whether the add-on id is already selected.
func (d *DraftBooking) HasAddOn(id string) bool {
	for _, a := range d.AddOns {
		if a == id {
			return true
		}
	}
	return false
}
