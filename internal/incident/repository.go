package incident

import (
	"context"
	"time"

	"rakshak-service/pkg/geo"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Query is the store-side part of a listing. Box, when set, is a coarse
// pre-filter; callers still apply the exact distance check.
type Query struct {
	Category Category
	Status   Status
	Priority Priority
	Box      *geo.Box
}

// Patch holds the moderation fields to change. Nil fields are skipped.
// A non-nil empty Notes clears the notes.
type Patch struct {
	Status    *Status
	Notes     *string
	UpdatedAt time.Time
}

// GroupCount is one row of the stats aggregation.
type GroupCount struct {
	Category Category `bson:"category"`
	Status   Status   `bson:"status"`
	Priority Priority `bson:"priority"`
	Count    int      `bson:"count"`
}

type IncidentRepository interface {
	Create(ctx context.Context, incident *Incident) error
	Find(ctx context.Context, q Query) ([]*Incident, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*Incident, error)
	Update(ctx context.Context, id primitive.ObjectID, patch Patch) (*Incident, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	CountGroups(ctx context.Context) ([]GroupCount, error)
}

type incidentRepository struct {
	collection *mongo.Collection
}

func NewIncidentRepository(collection *mongo.Collection) IncidentRepository {
	_ = EnsureIncidentIndexes(context.Background(), collection)
	return &incidentRepository{
		collection: collection,
	}
}

func (r *incidentRepository) Create(ctx context.Context, incident *Incident) error {

	res, err := r.collection.InsertOne(ctx, incident)
	if err != nil {
		return err
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		incident.ID = oid
	}
	return nil

}

func (r *incidentRepository) Find(ctx context.Context, q Query) ([]*Incident, error) {

	filter := bson.M{}
	if q.Category != "" {
		filter["category"] = q.Category
	}
	if q.Status != "" {
		filter["status"] = q.Status
	}
	if q.Priority != "" {
		filter["priority"] = q.Priority
	}
	if q.Box != nil {
		filter["location.latitude"] = bson.M{"$gte": q.Box.MinLat, "$lte": q.Box.MaxLat}
		if !q.Box.WrapsLon {
			filter["location.longitude"] = bson.M{"$gte": q.Box.MinLon, "$lte": q.Box.MaxLon}
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	incidents := make([]*Incident, 0)
	if err := cursor.All(ctx, &incidents); err != nil {
		return nil, err
	}
	return incidents, nil

}

// FindByID returns nil, nil when the incident does not exist.
func (r *incidentRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*Incident, error) {

	var incident Incident

	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&incident)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}

	return &incident, nil

}

// Update applies patch and returns the updated document, or nil, nil
// when the incident does not exist.
func (r *incidentRepository) Update(ctx context.Context, id primitive.ObjectID, patch Patch) (*Incident, error) {

	set := bson.M{"updated_at": patch.UpdatedAt}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	if patch.Notes != nil {
		if *patch.Notes == "" {
			set["moderator_notes"] = nil
		} else {
			set["moderator_notes"] = *patch.Notes
		}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var incident Incident
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&incident)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}

	return &incident, nil

}

func (r *incidentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {

	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err

}

// CountGroups counts incidents per (category, status, priority) in one
// aggregation pass so all stats derive from the same read.
func (r *incidentRepository) CountGroups(ctx context.Context) ([]GroupCount, error) {

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{
				{Key: "category", Value: "$category"},
				{Key: "status", Value: "$status"},
				{Key: "priority", Value: "$priority"},
			}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "category", Value: "$_id.category"},
			{Key: "status", Value: "$_id.status"},
			{Key: "priority", Value: "$_id.priority"},
			{Key: "count", Value: 1},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}

	groups := make([]GroupCount, 0)
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, err
	}
	return groups, nil

}

func EnsureIncidentIndexes(ctx context.Context, coll *mongo.Collection) error {

	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "category", Value: 1}},
			Options: options.Index().SetName("by_category"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index().SetName("by_status"),
		},
		{
			Keys:    bson.D{{Key: "priority", Value: 1}},
			Options: options.Index().SetName("by_priority"),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("by_created"),
		},
		{
			Keys: bson.D{
				{Key: "location.latitude", Value: 1},
				{Key: "location.longitude", Value: 1},
			},
			Options: options.Index().SetName("by_location"),
		},
	}
	_, err := coll.Indexes().CreateMany(ctx, models)
	return err

}
