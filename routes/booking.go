package routes

import (
	"andino/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes sets up the endpoints for the booking wizard.
func RegisterBookingRoutes(r *gin.Engine, bh *handlers.BookingHandler) {
	bookingGroup := r.Group("/api/booking")
	{
		bookingGroup.POST("/session", bh.StartSession)
		bookingGroup.GET("/session/:sessionID", bh.GetSession)
		bookingGroup.PUT("/session/:sessionID/dates", bh.SetDates)
		bookingGroup.PUT("/session/:sessionID/addons", bh.ToggleAddOn)
		bookingGroup.PUT("/session/:sessionID/contact", bh.SetContact)
		bookingGroup.PUT("/session/:sessionID/payment", bh.SetPaymentMethod)
		bookingGroup.POST("/session/:sessionID/advance", bh.Advance)
		bookingGroup.POST("/session/:sessionID/back", bh.Back)
		bookingGroup.POST("/session/:sessionID/submit", bh.Submit)
		bookingGroup.DELETE("/session/:sessionID", bh.Abandon)
	}
}

// RegisterPaymentRoutes sets up the gateway return channel and status checks.
func RegisterPaymentRoutes(r *gin.Engine, ph *handlers.PaymentHandler) {
	paymentGroup := r.Group("/api/payment")
	{
		paymentGroup.GET("/return", ph.PaymentReturn)
	}
	r.GET("/api/booking/:bookingID/status", ph.BookingStatus)
	r.POST("/api/booking/:bookingID/cancel", ph.CancelBooking)
}
