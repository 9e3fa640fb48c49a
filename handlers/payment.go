package handlers

import (
	"io"
	"net/http"

	bookingRepo "andino/database/repository/booking"
	"andino/models"
	"andino/services/booking"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PaymentHandler exposes the gateway return channel and the booking status
// re-check path.
type PaymentHandler struct {
	Reconciler *booking.Reconciler
	Bookings   bookingRepo.BookingRepository
	Attempts   bookingRepo.PaymentAttemptRepository
	Logger     *zap.Logger
}

func NewPaymentHandler(reconciler *booking.Reconciler, bookings bookingRepo.BookingRepository, attempts bookingRepo.PaymentAttemptRepository, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{Reconciler: reconciler, Bookings: bookings, Attempts: attempts, Logger: logger}
}

// PaymentReturn consumes the gateway's return URL parameters exactly once.
func (h *PaymentHandler) PaymentReturn(c *gin.Context) {
	var params models.ReturnParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid return parameters", "details": err.Error()})
		return
	}

	result, err := h.Reconciler.HandleReturn(c.Request.Context(), params)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// BookingStatus reports the current booking status with its payment
// attempts. For a non-terminal booking with a known gateway transaction it
// re-queries the gateway first, so "check again" actually checks.
func (h *PaymentHandler) BookingStatus(c *gin.Context) {
	bookingID := c.Param("bookingID")

	rec, err := h.Bookings.GetByID(c.Request.Context(), bookingID)
	if err != nil {
		if err == bookingRepo.ErrBookingNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
			return
		}
		respondBookingError(c, &booking.TransientError{Op: "booking lookup", Err: err})
		return
	}

	attempts, err := h.Attempts.GetByBookingID(c.Request.Context(), bookingID)
	if err != nil {
		h.Logger.Warn("failed to load payment attempts", zap.Error(err))
	}

	if !models.TerminalStatus(rec.Status) || rec.StatusUnconfirmed {
		if txID := latestGatewayTx(attempts); txID != "" {
			if result, err := h.Reconciler.Recheck(c.Request.Context(), bookingID, txID, 1); err == nil {
				rec.Status = result.Status
				rec.StatusUnconfirmed = !result.Confirmed
			} else {
				h.Logger.Warn("status re-check failed", zap.String("bookingId", bookingID), zap.Error(err))
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"booking":  rec,
		"attempts": attempts,
	})
}

// CancelBooking cancels a booking that has not reached a terminal status.
func (h *PaymentHandler) CancelBooking(c *gin.Context) {
	bookingID := c.Param("bookingID")
	var input struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&input); err != nil && err != io.EOF {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	rec, err := h.Bookings.GetByID(c.Request.Context(), bookingID)
	if err != nil {
		if err == bookingRepo.ErrBookingNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
			return
		}
		respondBookingError(c, &booking.TransientError{Op: "booking lookup", Err: err})
		return
	}
	if models.TerminalStatus(rec.Status) {
		c.JSON(http.StatusConflict, gin.H{"error": "booking already settled", "status": rec.Status})
		return
	}

	if err := h.Bookings.Cancel(c.Request.Context(), bookingID, input.Reason); err != nil {
		if err == bookingRepo.ErrBookingNotFound {
			// Settled between the read and the write.
			c.JSON(http.StatusConflict, gin.H{"error": "booking already settled"})
			return
		}
		respondBookingError(c, &booking.TransientError{Op: "booking cancel", Err: err})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookingId": bookingID, "status": models.StatusCancelled})
}

func latestGatewayTx(attempts []models.PaymentAttempt) string {
	for _, a := range attempts {
		if a.GatewayTxID != "" {
			return a.GatewayTxID
		}
	}
	return ""
}
