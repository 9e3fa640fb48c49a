package handlers

import (
	"errors"
	"net/http"

	"andino/services/booking"
	"andino/utils"

	"github.com/gin-gonic/gin"
)

// respondBookingError maps typed engine errors onto HTTP outcomes so the
// caller can decide between fix, retry and abandon.
func respondBookingError(c *gin.Context, err error) {
	var validation *booking.ValidationError
	var block *booking.AvailabilityBlock
	var declined *booking.PaymentDeclined

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation",
			"field":   validation.Field,
			"message": validation.Message,
		})
	case errors.As(err, &block):
		c.JSON(http.StatusConflict, gin.H{
			"error":            "availability-blocked",
			"reason":           block.Reason,
			"alternativeDates": block.Alternatives,
		})
	case errors.Is(err, booking.ErrLostAvailability):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "lost-availability",
			"message": "availability changed before the booking could be committed; please re-pick dates",
		})
	case errors.Is(err, booking.ErrAlreadySubmitting):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "already-submitting",
			"message": "this booking is already being submitted",
		})
	case errors.Is(err, booking.ErrSessionNotFound):
		utils.JSONError(c, http.StatusNotFound, "booking session not found or expired", "")
	case errors.As(err, &declined):
		c.JSON(http.StatusPaymentRequired, gin.H{
			"error":       "payment-declined",
			"message":     declined.Message,
			"hardDecline": declined.Hard,
		})
	case errors.Is(err, booking.ErrMalformedReturn):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "status-unknown",
			"message": "payment status could not be determined, please check again",
		})
	case booking.IsTransient(err):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":     "transient",
			"message":   "a temporary failure occurred, please retry",
			"retryable": true,
		})
	default:
		utils.JSONError(c, http.StatusInternalServerError, "internal error", err.Error())
	}
}
