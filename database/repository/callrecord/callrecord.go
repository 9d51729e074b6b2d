package callrecordRepo

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

// CallRecordRepository persists the durable trace of finished calls.
type CallRecordRepository interface {
	Create(ctx context.Context, record *models.CallRecord) error
	GetByCallID(ctx context.Context, callID string) (*models.CallRecord, error)
}

// MongoCallRecordRepo implements CallRecordRepository on MongoDB.
type MongoCallRecordRepo struct {
	coll *mongo.Collection
}

func NewMongoCallRecordRepo() *MongoCallRecordRepo {
	return &MongoCallRecordRepo{coll: database.Collection("call_records")}
}

// EnsureIndexes creates the necessary indexes on the call_records collection.
func (r *MongoCallRecordRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "call_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_call_id"),
		},
		{
			Keys:    bson.D{{Key: "ended_at", Value: -1}},
			Options: options.Index().SetName("ended_at_idx"),
		},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create call record indexes: %w", err)
	}
	return nil
}

func (r *MongoCallRecordRepo) Create(ctx context.Context, record *models.CallRecord) error {
	if _, err := r.coll.InsertOne(ctx, record); err != nil {
		return fmt.Errorf("failed to insert call record %s: %w", record.CallID, err)
	}
	return nil
}

func (r *MongoCallRecordRepo) GetByCallID(ctx context.Context, callID string) (*models.CallRecord, error) {
	var record models.CallRecord
	if err := r.coll.FindOne(ctx, bson.M{"call_id": callID}).Decode(&record); err != nil {
		return nil, fmt.Errorf("failed to fetch call record %s: %w", callID, err)
	}
	return &record, nil
}
