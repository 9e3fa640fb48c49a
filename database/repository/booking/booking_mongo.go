package bookingRepo

import (
	"context"
	"errors"
	"time"

	"andino/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrBookingNotFound is returned when no record matches the lookup.
var ErrBookingNotFound = errors.New("booking not found")

// Create inserts a new booking record, deduplicating on the idempotency key.
// A retry with the same key returns the record created by the first call.
func (r *mongoBookingRepo) Create(ctx context.Context, rec *models.BookingRecord) (*models.BookingRecord, error) {
	if rec.BookingID == "" {
		rec.BookingID = uuid.New().String()
	}
	now := time.Now()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	filter := bson.M{"idempotency_key": rec.IdempotencyKey}
	update := bson.M{"$setOnInsert": rec}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var stored models.BookingRecord
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

// GetByID returns a booking record by its id.
func (r *mongoBookingRepo) GetByID(ctx context.Context, bookingID string) (*models.BookingRecord, error) {
	var rec models.BookingRecord
	err := r.coll.FindOne(ctx, bson.M{"id": bookingID}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetByIdempotencyKey returns the record a prior commit created, if any.
func (r *mongoBookingRepo) GetByIdempotencyKey(ctx context.Context, key string) (*models.BookingRecord, error) {
	var rec models.BookingRecord
	err := r.coll.FindOne(ctx, bson.M{"idempotency_key": key}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// TransitionStatus moves a booking from one of the given statuses to another.
// The filter makes the write a compare-and-set: once a terminal status is in
// place, no competing transition matches and the call reports applied=false.
func (r *mongoBookingRepo) TransitionStatus(ctx context.Context, bookingID string, from []string, to string, unconfirmed bool) (bool, error) {
	filter := bson.M{
		"id":     bookingID,
		"status": bson.M{"$in": from},
	}
	update := bson.M{"$set": bson.M{
		"status":             to,
		"status_unconfirmed": unconfirmed,
		"updated_at":         time.Now(),
	}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		// Distinguish "no such booking" from "already transitioned".
		if _, err := r.GetByID(ctx, bookingID); err != nil {
			return false, err
		}
		return false, nil
	}
	return true, nil
}

// Cancel marks a non-terminal booking cancelled with a reason.
func (r *mongoBookingRepo) Cancel(ctx context.Context, bookingID, reason string) error {
	filter := bson.M{
		"id":     bookingID,
		"status": bson.M{"$in": []string{models.StatusPending, models.StatusAwaitingPayment}},
	}
	update := bson.M{"$set": bson.M{
		"status":        models.StatusCancelled,
		"cancel_reason": reason,
		"updated_at":    time.Now(),
	}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrBookingNotFound
	}
	return nil
}
