// File: andino/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"andino/config"
	"andino/cron"
	"andino/database"
	bookingRepo "andino/database/repository/booking"
	"andino/handlers"
	"andino/middleware"
	"andino/routes"
	"andino/services/booking"
	"andino/services/catalog"
	"andino/services/gateway"
	"andino/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	router.Use(middleware.SessionTokenMiddleware())
	stripe.Key = config.AppConfig.StripeKey

	// repositories.
	bookings := bookingRepo.NewMongoBookingRepo()
	attempts := bookingRepo.NewMongoAttemptRepo()

	// services.
	catalogSvc := catalog.NewMongoCatalog()
	gate := booking.NewAvailabilityGate(booking.NewHTTPAvailabilityClient(), logger)
	store := booking.NewSessionStore(utils.GetSessionCacheClient())
	paymentGateway := gateway.NewStripeGateway(config.AppConfig.PaymentReturnURL, logger)
	committer := booking.NewCommitter(bookings, gate, logger)
	paymentHandler := booking.NewGatewayPaymentHandler(paymentGateway, bookings, attempts, logger)

	bookingService := &booking.DefaultBookingFlowService{
		Catalog:   catalogSvc,
		Gate:      gate,
		Store:     store,
		Committer: committer,
		Payments:  paymentHandler,
		Policy:    booking.PolicyFromConfig(),
		Logger:    logger,
	}

	taskClient := cron.NewTaskClient()
	reconciler := booking.NewReconciler(bookings, attempts, paymentGateway,
		utils.GetPaymentCacheClient(), taskClient, logger)

	cron.InitRecheckWorker(reconciler)

	bookingHandler := handlers.NewBookingHandler(bookingService, logger)
	returnHandler := handlers.NewPaymentHandler(reconciler, bookings, attempts, logger)

	routes.RegisterRoutes(router, bookingHandler, returnHandler)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	if err := taskClient.Close(); err != nil {
		logger.Sugar().Warnf("main: failed to close task client: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
