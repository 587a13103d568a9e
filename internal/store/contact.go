package store

import (
	"context"

	"github.com/webmoto/storefront/types"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ContactRepository stores contact form messages.
type ContactRepository struct {
	coll *mongo.Collection
}

func NewContactRepository(db *mongo.Database) *ContactRepository {
	return &ContactRepository{coll: db.Collection(contactsCollection)}
}

func (r *ContactRepository) Create(ctx context.Context, msg types.ContactMessage) (types.ContactMessage, error) {
	msg.ID = primitive.NilObjectID
	result, err := r.coll.InsertOne(ctx, msg)
	if err != nil {
		return types.ContactMessage{}, err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		msg.ID = oid
	}
	return msg, nil
}
