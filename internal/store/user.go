package store

import (
	"context"
	"time"

	"github.com/webmoto/storefront/types"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserRepository handles persistence for users.
type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (types.User, error) {
	oid, err := parseID(id)
	if err != nil {
		return types.User{}, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (types.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

// GetByUsernameAndEmail matches both fields exactly.
func (r *UserRepository) GetByUsernameAndEmail(ctx context.Context, username, email string) (types.User, error) {
	return r.findOne(ctx, bson.M{"username": username, "email": email})
}

func (r *UserRepository) GetByResetToken(ctx context.Context, token string) (types.User, error) {
	return r.findOne(ctx, bson.M{"resetToken": token})
}

// List returns every user without credential fields.
func (r *UserRepository) List(ctx context.Context) ([]types.User, error) {
	opts := options.Find().
		SetProjection(bson.M{"salt": 0, "hpass": 0, "resetToken": 0, "resetTokenExpiry": 0}).
		SetSort(bson.M{"username": 1})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	users := make([]types.User, 0)
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) Create(ctx context.Context, user types.User) (types.User, error) {
	user.ID = primitive.NilObjectID
	result, err := r.coll.InsertOne(ctx, user)
	if err != nil {
		return types.User{}, translate(err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}
	return user, nil
}

// UpdateProfile sets the administrable fields of a user.
func (r *UserRepository) UpdateProfile(ctx context.Context, id string, user types.User) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"username": user.Username,
		"role":     user.Role,
		"NgaySinh": user.BirthDate,
		"SoDT":     user.Phone,
		"email":    user.Email,
	}})
	if err != nil {
		return translate(err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetResetToken stores a reset token and its expiry, replacing any pending one.
func (r *UserRepository) SetResetToken(ctx context.Context, id primitive.ObjectID, token string, expiry time.Time) error {
	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"resetToken":       token,
		"resetTokenExpiry": expiry,
	}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ConsumeResetToken replaces the password and clears the reset token in one
// conditional update. It only matches while the token is stored and not
// expired at now; otherwise ErrNotFound is returned and nothing changes.
func (r *UserRepository) ConsumeResetToken(ctx context.Context, token string, now time.Time, salt, hash, scheme string) error {
	filter := bson.M{
		"resetToken":       token,
		"resetTokenExpiry": bson.M{"$gte": now},
	}
	update := bson.M{
		"$set":   bson.M{"hpass": hash, "salt": salt, "hashScheme": scheme},
		"$unset": bson.M{"resetToken": "", "resetTokenExpiry": ""},
	}
	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetPassword replaces the stored credential.
func (r *UserRepository) SetPassword(ctx context.Context, id primitive.ObjectID, salt, hash, scheme string) error {
	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"hpass": hash, "salt": salt, "hashScheme": scheme,
	}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (types.User, error) {
	var user types.User
	if err := r.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		return types.User{}, translate(err)
	}
	return user, nil
}
