package store

import (
	"context"
	"errors"

	"github.com/webmoto/storefront/types"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LibraryRepository handles persistence for user libraries.
type LibraryRepository struct {
	coll *mongo.Collection
}

func NewLibraryRepository(db *mongo.Database) *LibraryRepository {
	return &LibraryRepository{coll: db.Collection(librariesCollection)}
}

// Get returns the library of userID. A user without one gets ErrNotFound.
func (r *LibraryRepository) Get(ctx context.Context, userID primitive.ObjectID) (types.Library, error) {
	var lib types.Library
	if err := r.coll.FindOne(ctx, bson.M{"userId": userID}).Decode(&lib); err != nil {
		return types.Library{}, translate(err)
	}
	return lib, nil
}

// Contains reports whether motoID is saved in the library of userID.
func (r *LibraryRepository) Contains(ctx context.Context, userID, motoID primitive.ObjectID) (bool, error) {
	err := r.coll.FindOne(ctx, bson.M{
		"userId": userID,
		"motos":  bson.M{"$elemMatch": bson.M{"motoId": motoID}},
	}).Err()
	if err == nil {
		return true, nil
	}
	if err = translate(err); errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return false, err
}

// Add saves item in the library of userID, creating the library on first
// use. It reports whether anything changed.
func (r *LibraryRepository) Add(ctx context.Context, userID primitive.ObjectID, item types.LibraryItem) (bool, error) {
	result, err := r.coll.UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{"$addToSet": bson.M{"motos": item}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount > 0 || result.UpsertedCount > 0, nil
}

// Reset empties the library of userID.
func (r *LibraryRepository) Reset(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.coll.UpdateOne(ctx, bson.M{"userId": userID}, bson.M{"$set": bson.M{"motos": bson.A{}}})
	return err
}

// DeleteByUser removes every library owned by userID.
func (r *LibraryRepository) DeleteByUser(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.coll.DeleteMany(ctx, bson.M{"userId": userID})
	return err
}
