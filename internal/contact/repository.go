package contact

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ContactRepository interface {
	Create(ctx context.Context, contact *Contact) error
	FindByTenant(ctx context.Context, tenant string) ([]*Contact, error)
	FindByID(ctx context.Context, tenant string, id primitive.ObjectID) (*Contact, error)
	Delete(ctx context.Context, tenant string, id primitive.ObjectID) error
}

type contactRepository struct {
	collection *mongo.Collection
}

func NewContactRepository(collection *mongo.Collection) ContactRepository {
	_ = EnsureContactIndexes(context.Background(), collection)
	return &contactRepository{
		collection: collection,
	}
}

func EnsureContactIndexes(ctx context.Context, c *mongo.Collection) error {
	_, err := c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
		Options: options.Index().SetName("idx_contacts_tenant_created"),
	})
	return err
}

func (r *contactRepository) Create(ctx context.Context, contact *Contact) error {
	res, err := r.collection.InsertOne(ctx, contact)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		contact.ID = oid
	}
	return nil
}

func (r *contactRepository) FindByTenant(ctx context.Context, tenant string) ([]*Contact, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": tenant}, opts)
	if err != nil {
		return nil, err
	}

	contacts := make([]*Contact, 0)
	if err := cursor.All(ctx, &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

// FindByID returns nil, nil when no contact with id exists for tenant.
func (r *contactRepository) FindByID(ctx context.Context, tenant string, id primitive.ObjectID) (*Contact, error) {
	var contact Contact

	err := r.collection.FindOne(ctx, bson.M{"_id": id, "user_id": tenant}).Decode(&contact)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &contact, nil
}

func (r *contactRepository) Delete(ctx context.Context, tenant string, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "user_id": tenant})
	return err
}
