package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/webmoto/storefront/types"
)

type sessionClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	UserID   string `json:"id"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies HS256 session tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for id, valid for the configured TTL.
func (t *Tokens) Issue(id Identity) (string, error) {
	now := t.now()
	claims := sessionClaims{
		Username: id.Username,
		Role:     id.Role.String(),
		UserID:   id.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify checks signature, structure and expiry and returns the identity.
// Every failure wraps ErrInvalidCredential.
func (t *Tokens) Verify(tokenString string) (Identity, error) {
	claims := sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}
	if !token.Valid {
		return Identity{}, ErrInvalidCredential
	}
	if strings.TrimSpace(claims.Username) == "" || strings.TrimSpace(claims.UserID) == "" {
		return Identity{}, fmt.Errorf("%w: missing identity claims", ErrInvalidCredential)
	}
	role, err := types.ParseRole(claims.Role)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}
	return Identity{Username: claims.Username, Role: role, ID: claims.UserID}, nil
}
