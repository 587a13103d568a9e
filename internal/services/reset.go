package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/webmoto/storefront/internal/auth"
	"github.com/webmoto/storefront/internal/logging"
	"github.com/webmoto/storefront/internal/notify"
	"github.com/webmoto/storefront/internal/store"
	"github.com/webmoto/storefront/types"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const resetTokenBytes = 32

// ResetRepository defines the user persistence needed by password resets.
type ResetRepository interface {
	GetByUsernameAndEmail(ctx context.Context, username, email string) (types.User, error)
	GetByResetToken(ctx context.Context, token string) (types.User, error)
	SetResetToken(ctx context.Context, id primitive.ObjectID, token string, expiry time.Time) error
	ConsumeResetToken(ctx context.Context, token string, now time.Time, salt, hash, scheme string) error
}

// PasswordResetService issues and redeems single-use reset tokens.
type PasswordResetService struct {
	repo      ResetRepository
	passwords *auth.Passwords
	sink      notify.Sink
	logger    logging.Logger
	baseURL   string
	ttl       time.Duration
	now       func() time.Time
}

func NewPasswordResetService(repo ResetRepository, passwords *auth.Passwords, sink notify.Sink, logger logging.Logger, baseURL string, ttl time.Duration) *PasswordResetService {
	return &PasswordResetService{
		repo:      repo,
		passwords: passwords,
		sink:      sink,
		logger:    logger,
		baseURL:   baseURL,
		ttl:       ttl,
		now:       time.Now,
	}
}

// Request stores a fresh token on the account matching username and email
// and mails the reset link. A pending token is overwritten.
func (s *PasswordResetService) Request(ctx context.Context, username, email string) error {
	user, err := s.repo.GetByUsernameAndEmail(ctx, username, email)
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}

	token, err := newResetToken()
	if err != nil {
		return err
	}
	if err := s.repo.SetResetToken(ctx, user.ID, token, s.now().Add(s.ttl)); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	link := s.baseURL + "/update-password?token=" + url.QueryEscape(token)
	err = s.sink.Send(ctx, notify.Notification{
		Kind:    notify.KindPasswordReset,
		To:      user.Email,
		Subject: "Password reset",
		Body:    "Open the following link to reset your password: " + link,
	})
	if err != nil {
		s.logger.Error(ctx, "reset mail not sent", "user", user.Username, "error", err)
	}
	return nil
}

// Validate returns the account holding token if the token is still live.
func (s *PasswordResetService) Validate(ctx context.Context, token string) (types.User, error) {
	if token == "" {
		return types.User{}, ErrMissingToken
	}
	user, err := s.repo.GetByResetToken(ctx, token)
	if errors.Is(err, store.ErrNotFound) {
		return types.User{}, ErrInvalidToken
	}
	if err != nil {
		return types.User{}, err
	}
	if user.ResetTokenExpiry == nil || user.ResetTokenExpiry.Before(s.now()) {
		return types.User{}, ErrExpiredToken
	}
	return user, nil
}

// Consume sets a new password and clears the token. The update is
// conditional on the token still being stored and unexpired, so a token
// can be redeemed once.
func (s *PasswordResetService) Consume(ctx context.Context, token, newPassword string) error {
	if _, err := s.Validate(ctx, token); err != nil {
		return err
	}
	if newPassword == "" {
		return invalid("New password is required")
	}
	cred, err := s.passwords.Derive(newPassword)
	if err != nil {
		return err
	}
	err = s.repo.ConsumeResetToken(ctx, token, s.now(), cred.Salt, cred.Hash, cred.Scheme)
	if errors.Is(err, store.ErrNotFound) {
		return ErrInvalidToken
	}
	return err
}

func newResetToken() (string, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
