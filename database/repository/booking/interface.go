package bookingRepo

import (
	"context"

	"andino/database"
	"andino/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// BookingRepository persists booking records. Create is idempotent on the
// caller-generated idempotency key; TransitionStatus applies the
// first-terminal-write-wins rule.
type BookingRepository interface {
	Create(ctx context.Context, rec *models.BookingRecord) (*models.BookingRecord, error)
	GetByID(ctx context.Context, bookingID string) (*models.BookingRecord, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*models.BookingRecord, error)
	TransitionStatus(ctx context.Context, bookingID string, from []string, to string, unconfirmed bool) (bool, error)
	Cancel(ctx context.Context, bookingID, reason string) error
}

// PaymentAttemptRepository persists gateway interactions, many per booking.
type PaymentAttemptRepository interface {
	Create(ctx context.Context, attempt models.PaymentAttempt) (string, error)
	Update(ctx context.Context, attemptID, status, gatewayTxID, errMsg string) error
	GetByBookingID(ctx context.Context, bookingID string) ([]models.PaymentAttempt, error)
	GetByGatewayTxID(ctx context.Context, gatewayTxID string) (*models.PaymentAttempt, error)
}

type mongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo returns a BookingRepository backed by MongoDB.
func NewMongoBookingRepo() BookingRepository {
	db := database.MongoClient.Database("andino")
	return &mongoBookingRepo{coll: db.Collection("bookings")}
}

type mongoAttemptRepo struct {
	coll *mongo.Collection
}

// NewMongoAttemptRepo returns a PaymentAttemptRepository backed by MongoDB.
func NewMongoAttemptRepo() PaymentAttemptRepository {
	db := database.MongoClient.Database("andino")
	return &mongoAttemptRepo{coll: db.Collection("payment_attempts")}
}
