package store

import (
	"context"
	"regexp"
	"strings"

	"github.com/webmoto/storefront/types"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MotoRepository handles persistence for catalog listings.
type MotoRepository struct {
	coll *mongo.Collection
}

func NewMotoRepository(db *mongo.Database) *MotoRepository {
	return &MotoRepository{coll: db.Collection(motosCollection)}
}

// List returns the listings matching filter in [offset, offset+limit) and
// the total number of matches. A limit of zero returns every match.
func (r *MotoRepository) List(ctx context.Context, filter types.MotoFilter, offset, limit int) ([]types.Moto, int, error) {
	if offset < 0 {
		offset = 0
	}
	query := motoQuery(filter)

	opts := options.Find().SetSkip(int64(offset))
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	motos := make([]types.Moto, 0, limit)
	if err := cursor.All(ctx, &motos); err != nil {
		return nil, 0, err
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	return motos, int(total), nil
}

func (r *MotoRepository) Get(ctx context.Context, id string) (types.Moto, error) {
	oid, err := parseID(id)
	if err != nil {
		return types.Moto{}, err
	}
	var moto types.Moto
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&moto); err != nil {
		return types.Moto{}, translate(err)
	}
	return moto, nil
}

// GetMany returns the listings whose ids are in ids. Missing ids are skipped.
func (r *MotoRepository) GetMany(ctx context.Context, ids []primitive.ObjectID) ([]types.Moto, error) {
	motos := make([]types.Moto, 0, len(ids))
	if len(ids) == 0 {
		return motos, nil
	}
	cursor, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	if err := cursor.All(ctx, &motos); err != nil {
		return nil, err
	}
	return motos, nil
}

func (r *MotoRepository) Create(ctx context.Context, moto types.Moto) (types.Moto, error) {
	moto.ID = primitive.NilObjectID
	result, err := r.coll.InsertOne(ctx, moto)
	if err != nil {
		return types.Moto{}, translate(err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		moto.ID = oid
	}
	return moto, nil
}

// Update sets the non-empty fields of patch.
func (r *MotoRepository) Update(ctx context.Context, id string, patch types.MotoPatch) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	set := bson.M{}
	for key, value := range map[string]string{
		"TenXe":      patch.Name,
		"HangXe":     patch.Brand,
		"DongXe":     patch.Type,
		"NamSanXuat": patch.Year,
		"GiaCu":      patch.OldPrice,
		"GiaBan":     patch.Price,
		"AnhXe":      patch.Image,
		"SaleTag":    patch.SaleTag,
	} {
		if value != "" {
			set[key] = value
		}
	}
	if len(set) == 0 {
		return nil
	}
	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MotoRepository) Delete(ctx context.Context, id string) error {
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

func motoQuery(f types.MotoFilter) bson.M {
	query := bson.M{}
	if f.Brand != "" {
		query["HangXe"] = f.Brand
	}
	if f.Type != "" {
		query["DongXe"] = f.Type
	}
	if f.SaleTag != "" {
		query["SaleTag"] = f.SaleTag
	}
	if pattern := searchPattern(f.Terms); pattern != "" {
		query["TenXe"] = primitive.Regex{Pattern: pattern, Options: "i"}
	}
	return query
}

// searchPattern builds one lookahead per term so every term must occur in
// the name, in any order.
func searchPattern(terms []string) string {
	var b strings.Builder
	for _, term := range terms {
		if term == "" {
			continue
		}
		b.WriteString("(?=.*")
		b.WriteString(regexp.QuoteMeta(term))
		b.WriteString(")")
	}
	return b.String()
}
