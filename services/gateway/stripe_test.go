package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"
)

func TestCheckoutSessionStatusMapping(t *testing.T) {
	cases := []struct {
		name    string
		session *stripe.CheckoutSession
		want    string
	}{
		{
			name:    "paid session approves",
			session: &stripe.CheckoutSession{PaymentStatus: stripe.CheckoutSessionPaymentStatusPaid},
			want:    StatusApproved,
		},
		{
			name:    "zero-amount session approves",
			session: &stripe.CheckoutSession{PaymentStatus: stripe.CheckoutSessionPaymentStatusNoPaymentRequired},
			want:    StatusApproved,
		},
		{
			name: "expired unpaid session cancels",
			session: &stripe.CheckoutSession{
				PaymentStatus: stripe.CheckoutSessionPaymentStatusUnpaid,
				Status:        stripe.CheckoutSessionStatusExpired,
			},
			want: StatusCancelled,
		},
		{
			name: "open unpaid session without intent stays pending",
			session: &stripe.CheckoutSession{
				PaymentStatus: stripe.CheckoutSessionPaymentStatusUnpaid,
				Status:        stripe.CheckoutSessionStatusOpen,
			},
			want: StatusPending,
		},
		{
			name: "open unpaid session follows the expanded intent",
			session: &stripe.CheckoutSession{
				PaymentStatus: stripe.CheckoutSessionPaymentStatusUnpaid,
				Status:        stripe.CheckoutSessionStatusOpen,
				PaymentIntent: &stripe.PaymentIntent{Status: stripe.PaymentIntentStatusProcessing},
			},
			want: StatusInProcess,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := checkoutSessionStatus(tc.session)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCheckoutSessionStatusUnmapped(t *testing.T) {
	_, err := checkoutSessionStatus(&stripe.CheckoutSession{PaymentStatus: "surprise"})
	assert.Error(t, err)
}

func TestIntentStatusMapping(t *testing.T) {
	cases := []struct {
		status stripe.PaymentIntentStatus
		want   string
	}{
		{stripe.PaymentIntentStatusSucceeded, StatusApproved},
		{stripe.PaymentIntentStatusProcessing, StatusInProcess},
		{stripe.PaymentIntentStatusRequiresAction, StatusPending},
		{stripe.PaymentIntentStatusRequiresConfirmation, StatusPending},
		{stripe.PaymentIntentStatusRequiresCapture, StatusPending},
		{stripe.PaymentIntentStatusCanceled, StatusCancelled},
		{stripe.PaymentIntentStatusRequiresPaymentMethod, StatusRejected},
	}

	for _, tc := range cases {
		got, err := intentStatus(&stripe.PaymentIntent{Status: tc.status})
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, string(tc.status))
	}

	_, err := intentStatus(&stripe.PaymentIntent{Status: "surprise"})
	assert.Error(t, err)
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(74375000), minorUnits(743750.0))
	assert.Equal(t, int64(1050), minorUnits(10.499999))
}
