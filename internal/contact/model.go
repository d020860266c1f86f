package contact

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Contact is an emergency phone contact saved under a tenant partition.
type Contact struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"user_id" json:"userId"`
	Name      string             `bson:"name" json:"name"`
	Phone     string             `bson:"phone" json:"phone"`
	IsDefault bool               `bson:"is_default" json:"isDefault"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}
