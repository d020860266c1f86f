package sos

import (
	"context"

	"rakshak-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type DispatchLogRepository interface {
	Record(ctx context.Context, log *models.DispatchLog) error
	FindByIncident(ctx context.Context, incidentID primitive.ObjectID) ([]*models.DispatchLog, error)
}

type dispatchLogRepository struct {
	collection *mongo.Collection
}

func NewDispatchLogRepository(collection *mongo.Collection) DispatchLogRepository {
	_ = EnsureDispatchLogIndexes(context.Background(), collection)
	return &dispatchLogRepository{
		collection: collection,
	}
}

func EnsureDispatchLogIndexes(ctx context.Context, c *mongo.Collection) error {
	_, err := c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "incident_id", Value: 1}, {Key: "created_at", Value: 1}},
		Options: options.Index().SetName("by_incident_created"),
	})
	return err
}

func (r *dispatchLogRepository) Record(ctx context.Context, log *models.DispatchLog) error {
	res, err := r.collection.InsertOne(ctx, log)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		log.ID = oid
	}
	return nil
}

func (r *dispatchLogRepository) FindByIncident(ctx context.Context, incidentID primitive.ObjectID) ([]*models.DispatchLog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"incident_id": incidentID}, opts)
	if err != nil {
		return nil, err
	}

	logs := make([]*models.DispatchLog, 0)
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}
