package handlers

import (
	"errors"
	"net/http"
	"time"

	"andino/middleware"
	"andino/models"
	"andino/services/booking"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// BookingHandler exposes the wizard over HTTP.
type BookingHandler struct {
	Svc    booking.BookingFlowService
	Logger *zap.Logger
}

func NewBookingHandler(svc booking.BookingFlowService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Svc: svc, Logger: logger}
}

func sessionView(sess *models.WizardSession) gin.H {
	return gin.H{
		"sessionId": sess.SessionID,
		"step":      sess.Step,
		"draft":     sess.Draft,
		"service":   sess.Service,
		"gate":      sess.Gate,
		"bookingId": sess.BookingID,
	}
}

// StartSession begins a wizard for a catalog service.
func (h *BookingHandler) StartSession(c *gin.Context) {
	var input struct {
		ServiceRef string `json:"serviceRef" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	sess, err := h.Svc.StartSession(c.Request.Context(), input.ServiceRef, c.GetString(middleware.UserTokenKey))
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionView(sess))
}

// GetSession returns the current wizard state.
func (h *BookingHandler) GetSession(c *gin.Context) {
	sess, err := h.Svc.GetSession(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionView(sess))
}

// SetDates updates the stay window and party composition.
func (h *BookingHandler) SetDates(c *gin.Context) {
	var input struct {
		CheckIn  string `json:"checkIn" binding:"required"`
		CheckOut string `json:"checkOut"`
		Adults   int    `json:"adults"`
		Children int    `json:"children"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	checkIn, err := time.Parse(dateLayout, input.CheckIn)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid checkIn date", "details": err.Error()})
		return
	}
	dr := models.DateRange{CheckIn: checkIn}
	if input.CheckOut != "" {
		checkOut, err := time.Parse(dateLayout, input.CheckOut)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid checkOut date", "details": err.Error()})
			return
		}
		dr.CheckOut = &checkOut
	}

	sess, err := h.Svc.SetDatesAndParty(c.Request.Context(), c.Param("sessionID"), dr,
		models.Party{Adults: input.Adults, Children: input.Children})
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionView(sess))
}

// ToggleAddOn adds or removes one add-on.
func (h *BookingHandler) ToggleAddOn(c *gin.Context) {
	var input struct {
		AddOnID string `json:"addOnId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	sess, err := h.Svc.ToggleAddOn(c.Request.Context(), c.Param("sessionID"), input.AddOnID)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionView(sess))
}

// SetContact stores the lead traveller's details.
func (h *BookingHandler) SetContact(c *gin.Context) {
	var input models.ContactInfo
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	sess, err := h.Svc.SetContact(c.Request.Context(), c.Param("sessionID"), input)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionView(sess))
}

// SetPaymentMethod selects the method and records terms acceptance.
func (h *BookingHandler) SetPaymentMethod(c *gin.Context) {
	var input struct {
		Method        string `json:"method" binding:"required"`
		TermsAccepted bool   `json:"termsAccepted"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	sess, err := h.Svc.SetPaymentMethod(c.Request.Context(), c.Param("sessionID"), input.Method, input.TermsAccepted)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionView(sess))
}

// Advance moves the wizard one step forward.
func (h *BookingHandler) Advance(c *gin.Context) {
	sess, err := h.Svc.Advance(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionView(sess))
}

// Back moves the wizard one step back, preserving later-step data.
func (h *BookingHandler) Back(c *gin.Context) {
	sess, err := h.Svc.Back(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionView(sess))
}

// Submit commits the draft and hands off to payment.
func (h *BookingHandler) Submit(c *gin.Context) {
	result, err := h.Svc.Submit(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		// A decline still carries the committed booking back to the caller.
		var declined *booking.PaymentDeclined
		if errors.As(err, &declined) && result != nil {
			c.JSON(http.StatusPaymentRequired, gin.H{
				"error":       "payment-declined",
				"message":     declined.Message,
				"hardDecline": declined.Hard,
				"booking":     result.Booking,
				"attempt":     result.Attempt,
			})
			return
		}
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Abandon drops the wizard session.
func (h *BookingHandler) Abandon(c *gin.Context) {
	if err := h.Svc.Abandon(c.Request.Context(), c.Param("sessionID")); err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cancelled": true})
}
