package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/webmoto/storefront/internal/auth"
	"github.com/webmoto/storefront/internal/logging"
	"github.com/webmoto/storefront/internal/store"
	"github.com/webmoto/storefront/types"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (types.User, error)
	GetByUsername(ctx context.Context, username string) (types.User, error)
	List(ctx context.Context) ([]types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	UpdateProfile(ctx context.Context, id string, user types.User) error
	SetPassword(ctx context.Context, id primitive.ObjectID, salt, hash, scheme string) error
	Delete(ctx context.Context, id string) error
}

// LibraryCleaner removes the saved listings of a deleted user.
type LibraryCleaner interface {
	DeleteByUser(ctx context.Context, userID primitive.ObjectID) error
}

var phonePattern = regexp.MustCompile(`^[0-9]{10}$`)

// birthDateLayout is the value format of an HTML date input.
const birthDateLayout = "2006-01-02"

// Registration is a self-service sign-up form.
type Registration struct {
	Username  string
	Password  string
	BirthDate string
	Phone     string
	Email     string
}

// UserService encapsulates account use-cases.
type UserService struct {
	repo      UserRepository
	libraries LibraryCleaner
	passwords *auth.Passwords
	logger    logging.Logger
	now       func() time.Time
}

func NewUserService(repo UserRepository, libraries LibraryCleaner, passwords *auth.Passwords, logger logging.Logger) *UserService {
	return &UserService{repo: repo, libraries: libraries, passwords: passwords, logger: logger, now: time.Now}
}

// Register creates an account with role user.
func (s *UserService) Register(ctx context.Context, reg Registration) (types.User, error) {
	return s.create(ctx, reg, types.RoleUser)
}

// CreateAdmin seeds an administrator account.
func (s *UserService) CreateAdmin(ctx context.Context, reg Registration) (types.User, error) {
	return s.create(ctx, reg, types.RoleAdmin)
}

func (s *UserService) create(ctx context.Context, reg Registration, role types.Role) (types.User, error) {
	reg.Username = strings.TrimSpace(reg.Username)
	reg.Email = strings.TrimSpace(reg.Email)
	reg.Phone = strings.TrimSpace(reg.Phone)
	if reg.Username == "" || reg.Password == "" || reg.BirthDate == "" || reg.Phone == "" || reg.Email == "" {
		return types.User{}, invalid("Please fill in all fields")
	}

	if _, err := s.repo.GetByUsername(ctx, reg.Username); err == nil {
		return types.User{}, ErrUsernameTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return types.User{}, err
	}

	born, err := time.Parse(birthDateLayout, reg.BirthDate)
	if err != nil {
		return types.User{}, invalid("Birth date is not a valid date")
	}
	if !born.Before(s.now()) {
		return types.User{}, invalid("Birth date must be in the past")
	}
	if !phonePattern.MatchString(reg.Phone) {
		return types.User{}, invalid("Phone number must be exactly 10 digits")
	}

	cred, err := s.passwords.Derive(reg.Password)
	if err != nil {
		return types.User{}, err
	}
	user, err := s.repo.Create(ctx, types.User{
		Username:     reg.Username,
		Email:        reg.Email,
		BirthDate:    reg.BirthDate,
		Phone:        reg.Phone,
		Role:         role,
		Salt:         cred.Salt,
		PasswordHash: cred.Hash,
		HashScheme:   cred.Scheme,
	})
	if errors.Is(err, store.ErrDuplicate) {
		return types.User{}, ErrUsernameTaken
	}
	return user, err
}

// Authenticate checks a username and password and returns the identity to
// put in the session.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (auth.Identity, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		return auth.Identity{}, ErrUserNotFound
	}
	if err != nil {
		return auth.Identity{}, err
	}
	cred := auth.Credential{Salt: user.Salt, Hash: user.PasswordHash, Scheme: user.HashScheme}
	if !s.passwords.Verify(cred, password) {
		return auth.Identity{}, ErrWrongPassword
	}
	role, err := types.ParseRole(string(user.Role))
	if err != nil {
		s.logger.Warn(ctx, "login refused, stored role is not recognized", "user", user.Username, "role", string(user.Role))
		return auth.Identity{}, ErrInvalidRole
	}
	if s.passwords.Stale(cred) {
		s.rehash(ctx, user.ID, password)
	}
	return auth.Identity{Username: user.Username, Role: role, ID: user.ID.Hex()}, nil
}

// rehash moves a verified password to the configured scheme. Failures
// leave the old credential in place, which still verifies.
func (s *UserService) rehash(ctx context.Context, id primitive.ObjectID, password string) {
	cred, err := s.passwords.Derive(password)
	if err == nil {
		err = s.repo.SetPassword(ctx, id, cred.Salt, cred.Hash, cred.Scheme)
	}
	if err != nil {
		s.logger.Warn(ctx, "password rehash failed", "user_id", id.Hex(), "error", err)
	}
}

func (s *UserService) List(ctx context.Context) ([]types.User, error) {
	return s.repo.List(ctx)
}

func (s *UserService) Get(ctx context.Context, id string) (types.User, error) {
	return s.repo.GetByID(ctx, id)
}

// ProfileUpdate is the admin edit form for an account.
type ProfileUpdate struct {
	Username  string
	Role      string
	BirthDate string
	Phone     string
	Email     string
}

func (s *UserService) UpdateProfile(ctx context.Context, id string, in ProfileUpdate) error {
	role, err := types.ParseRole(strings.ToLower(strings.TrimSpace(in.Role)))
	if err != nil {
		return invalid(fmt.Sprintf("Unknown role %q", in.Role))
	}
	if strings.TrimSpace(in.Username) == "" {
		return invalid("Username is required")
	}
	return s.repo.UpdateProfile(ctx, id, types.User{
		Username:  strings.TrimSpace(in.Username),
		Role:      role,
		BirthDate: in.BirthDate,
		Phone:     strings.TrimSpace(in.Phone),
		Email:     strings.TrimSpace(in.Email),
	})
}

// Delete removes the account and then its library. The two deletes are not
// transactional.
func (s *UserService) Delete(ctx context.Context, id string) error {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.libraries.DeleteByUser(ctx, user.ID); err != nil {
		return fmt.Errorf("delete library of %s: %w", user.ID.Hex(), err)
	}
	return nil
}
