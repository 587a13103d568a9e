package types

import "go.mongodb.org/mongo-driver/bson/primitive"

// Library is the per-user list of saved listings.
type Library struct {
	ID     primitive.ObjectID `bson:"_id,omitempty"`
	UserID primitive.ObjectID `bson:"userId"`
	Motos  []LibraryItem      `bson:"motos"`
}

// LibraryItem references a saved listing. Name is denormalized for display.
type LibraryItem struct {
	MotoID primitive.ObjectID `bson:"motoId"`
	Name   string             `bson:"TenXe"`
}
