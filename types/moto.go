package types

import "go.mongodb.org/mongo-driver/bson/primitive"

// SaleTagNew marks listings shown on the home page.
const SaleTagNew = "NEW PRODUCTS"

// Moto is a motorbike listing in the catalog.
type Moto struct {
	ID primitive.ObjectID `bson:"_id,omitempty"`

	// Name is the model name shown to customers and matched by search.
	Name string `bson:"TenXe"`

	// Brand is the manufacturer (e.g. "Honda").
	Brand string `bson:"HangXe"`

	// Type is the product line (e.g. "Scooter").
	Type string `bson:"DongXe"`

	Year     string `bson:"NamSanXuat"`
	OldPrice string `bson:"GiaCu"`
	Price    string `bson:"GiaBan"`

	// Image is the public URL of the listing picture, if any.
	Image string `bson:"AnhXe,omitempty"`

	SaleTag string `bson:"SaleTag"`
}

// MotoFilter narrows catalog queries. Empty fields match everything.
type MotoFilter struct {
	Brand   string
	Type    string
	SaleTag string
	// Terms must all appear in the listing name, case-insensitively.
	Terms []string
}

// MotoPatch carries the fields of a partial listing update. Empty strings
// are left untouched.
type MotoPatch struct {
	Name     string
	Brand    string
	Type     string
	Year     string
	OldPrice string
	Price    string
	Image    string
	SaleTag  string
}

// IsEmpty reports whether the patch would change nothing.
func (p MotoPatch) IsEmpty() bool {
	return p == MotoPatch{}
}
