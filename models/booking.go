package models

import "time"

// Booking record statuses. Paid, rejected and cancelled are terminal; once a
// record reaches one of them no further status writes are permitted.
const (
	StatusPending         = "pending"
	StatusAwaitingPayment = "awaiting-payment"
	StatusPaid            = "paid"
	StatusRejected        = "rejected"
	StatusCancelled       = "cancelled"
)

// TerminalStatus reports whether s permits no further transitions.
func TerminalStatus(s string) bool {
	return s == StatusPaid || s == StatusRejected || s == StatusCancelled
}

// BookingRecord is the durable result of a committed draft. Identity is
// immutable; only Status (and the unconfirmed flag) change afterwards.
type BookingRecord struct {
	BookingID      string      `bson:"id" json:"bookingId"`
	IdempotencyKey string      `bson:"idempotency_key" json:"-"`
	UserID         string      `bson:"user_id" json:"userId"`
	ServiceRef     string      `bson:"service_ref" json:"serviceRef"`
	Dates          DateRange   `bson:"dates" json:"dates"`
	Party          Party       `bson:"party" json:"party"`
	AddOns         []string    `bson:"add_ons,omitempty" json:"addOns,omitempty"`
	Contact        ContactInfo `bson:"contact" json:"contact"`
	Quote          Quote       `bson:"quote" json:"quote"`
	Status         string      `bson:"status" json:"status"`
	// StatusUnconfirmed marks a terminal status that was applied from the
	// client-reported gateway return without server-side confirmation.
	StatusUnconfirmed bool      `bson:"status_unconfirmed,omitempty" json:"statusUnconfirmed,omitempty"`
	CancelReason      string    `bson:"cancel_reason,omitempty" json:"cancelReason,omitempty"`
	CreatedAt         time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt         time.Time `bson:"updated_at" json:"updatedAt"`
}
