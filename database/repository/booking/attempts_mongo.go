package bookingRepo

import (
	"context"
	"time"

	"andino/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Create inserts a new payment attempt and returns its id.
func (r *mongoAttemptRepo) Create(ctx context.Context, attempt models.PaymentAttempt) (string, error) {
	if attempt.AttemptID == "" {
		attempt.AttemptID = uuid.New().String()
	}
	attempt.CreatedAt = time.Now()

	if _, err := r.coll.InsertOne(ctx, attempt); err != nil {
		return "", err
	}
	return attempt.AttemptID, nil
}

// Update sets the attempt outcome after the gateway answered.
func (r *mongoAttemptRepo) Update(ctx context.Context, attemptID, status, gatewayTxID, errMsg string) error {
	set := bson.M{"status": status}
	if gatewayTxID != "" {
		set["gateway_tx_id"] = gatewayTxID
	}
	if errMsg != "" {
		set["error"] = errMsg
	}
	_, err := r.coll.UpdateOne(ctx, bson.M{"id": attemptID}, bson.M{"$set": set})
	return err
}

// GetByBookingID fetches all attempts for a booking, most recent first.
func (r *mongoAttemptRepo) GetByBookingID(ctx context.Context, bookingID string) ([]models.PaymentAttempt, error) {
	opts := options.Find().SetSort(bson.M{"created_at": -1})
	cursor, err := r.coll.Find(ctx, bson.M{"booking_id": bookingID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var attempts []models.PaymentAttempt
	if err := cursor.All(ctx, &attempts); err != nil {
		return nil, err
	}
	return attempts, nil
}

// GetByGatewayTxID resolves an attempt from the gateway transaction id, used
// when a return callback lacks the external reference.
func (r *mongoAttemptRepo) GetByGatewayTxID(ctx context.Context, gatewayTxID string) (*models.PaymentAttempt, error) {
	var attempt models.PaymentAttempt
	err := r.coll.FindOne(ctx, bson.M{"gateway_tx_id": gatewayTxID}).Decode(&attempt)
	if err == mongo.ErrNoDocuments {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}
