package types

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the authorization level of an account.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole maps a role name onto the closed set of roles. The match is
// exact; unknown names, including other casings, are rejected.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser:
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) String() string { return string(r) }

// User represents a storefront account.
// Field names in BSON match the documents written by earlier versions of
// the storefront so existing databases keep working.
type User struct {
	// ID is generated by the store on insert.
	ID primitive.ObjectID `bson:"_id,omitempty"`

	// Username is the unique login name.
	Username string `bson:"username"`

	Email     string `bson:"email"`
	BirthDate string `bson:"NgaySinh"`
	Phone     string `bson:"SoDT"`
	Role      Role   `bson:"role"`

	// Salt is the random per-user secret mixed into PasswordHash.
	Salt string `bson:"salt"`

	// PasswordHash is hash(Salt, password) under HashScheme.
	PasswordHash string `bson:"hpass"`

	// HashScheme names the function that produced PasswordHash. Empty means
	// the legacy HMAC-SHA256 scheme.
	HashScheme string `bson:"hashScheme,omitempty"`

	// ResetToken and ResetTokenExpiry are set together by a reset request
	// and cleared together when the reset is consumed.
	ResetToken       string     `bson:"resetToken,omitempty"`
	ResetTokenExpiry *time.Time `bson:"resetTokenExpiry,omitempty"`
}

// HasPendingReset reports whether a reset token is stored on the user.
func (u User) HasPendingReset() bool {
	return u.ResetToken != "" && u.ResetTokenExpiry != nil
}
