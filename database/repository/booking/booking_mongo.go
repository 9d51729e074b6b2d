package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"movecall/database"
	"movecall/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBookingRepo implements BookingRepository on MongoDB.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo returns a repository over the "bookings" collection.
func NewMongoBookingRepo() *MongoBookingRepo {
	return &MongoBookingRepo{coll: database.Collection("bookings")}
}

// EnsureIndexes creates the necessary indexes on the bookings collection.
// The partial unique index on (date, slot) over confirmed bookings is what
// serializes two concurrent callers racing for the same window: whoever
// inserts second gets a duplicate-key error, not a double booking.
func (r *MongoBookingRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "booking_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_booking_id"),
		},
		{
			Keys: bson.D{{Key: "schedule.date", Value: 1}, {Key: "schedule.slot", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("unique_confirmed_slot").
				SetPartialFilterExpression(bson.M{"status": models.BookingStatusConfirmed}),
		},
		{
			Keys:    bson.D{{Key: "originating_call_id", Value: 1}},
			Options: options.Index().SetName("originating_call_idx"),
		},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}
	return nil
}

func (r *MongoBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	if _, err := r.coll.InsertOne(ctx, booking); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrSlotTaken
		}
		return fmt.Errorf("failed to insert booking %s: %w", booking.BookingID, err)
	}
	return nil
}

func (r *MongoBookingRepo) GetByRef(ctx context.Context, bookingID string) (*models.Booking, error) {
	var booking models.Booking
	err := r.coll.FindOne(ctx, bson.M{"booking_id": bookingID}).Decode(&booking)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booking %s: %w", bookingID, err)
	}
	return &booking, nil
}

func (r *MongoBookingRepo) HasConfirmed(ctx context.Context, date string, slot models.Slot) (bool, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{
		"schedule.date": date,
		"schedule.slot": slot,
		"status":        models.BookingStatusConfirmed,
	})
	if err != nil {
		return false, fmt.Errorf("failed to count bookings for %s/%s: %w", date, slot, err)
	}
	return count > 0, nil
}

func (r *MongoBookingRepo) Update(ctx context.Context, booking *models.Booking) error {
	booking.UpdatedAt = time.Now()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"booking_id": booking.BookingID}, booking)
	if err != nil {
		return fmt.Errorf("failed to update booking %s: %w", booking.BookingID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("booking %s not found", booking.BookingID)
	}
	return nil
}
