package handlers

import (
	"context"
	"net/http"

	"github.com/webmoto/storefront/internal/auth"
	"github.com/webmoto/storefront/internal/logging"
	"github.com/webmoto/storefront/internal/services"
	"github.com/webmoto/storefront/internal/storage"
	"github.com/webmoto/storefront/internal/views"
	"github.com/webmoto/storefront/types"
)

// Renderer writes a named HTML page.
type Renderer interface {
	Render(w http.ResponseWriter, status int, page string, data views.Data) error
}

type Accounts interface {
	Register(ctx context.Context, reg services.Registration) (types.User, error)
	Authenticate(ctx context.Context, username, password string) (auth.Identity, error)
	List(ctx context.Context) ([]types.User, error)
	Get(ctx context.Context, id string) (types.User, error)
	UpdateProfile(ctx context.Context, id string, in services.ProfileUpdate) error
	Delete(ctx context.Context, id string) error
}

type Catalog interface {
	Home(ctx context.Context, page, limit int) (services.Page, error)
	Automaker(ctx context.Context, brand, motoType string, page int) (services.Page, error)
	Search(ctx context.Context, query string) ([]types.Moto, error)
	List(ctx context.Context) ([]types.Moto, error)
	Get(ctx context.Context, id string) (types.Moto, error)
	Create(ctx context.Context, moto types.Moto, image *services.Upload) (types.Moto, error)
	Update(ctx context.Context, id string, patch types.MotoPatch, image *services.Upload) error
	Delete(ctx context.Context, id string) error
}

type Library interface {
	Add(ctx context.Context, userID, motoID string) (types.Moto, services.AddResult, error)
	List(ctx context.Context, userID string) ([]types.Moto, error)
	Reset(ctx context.Context, userID string) error
}

type Resets interface {
	Request(ctx context.Context, username, email string) error
	Validate(ctx context.Context, token string) (types.User, error)
	Consume(ctx context.Context, token, newPassword string) error
}

type Contacts interface {
	Submit(ctx context.Context, name, email, message string) error
}

type Media interface {
	Open(ctx context.Context, key string) (storage.Object, error)
}

// Deps are the collaborators of the storefront handlers.
type Deps struct {
	Views    Renderer
	Sessions *auth.Authenticator
	Accounts Accounts
	Catalog  Catalog
	Library  Library
	Resets   Resets
	Contacts Contacts
	Media    Media
	Logger   logging.Logger
}

// Handler serves the storefront pages.
type Handler struct {
	views    Renderer
	sessions *auth.Authenticator
	accounts Accounts
	catalog  Catalog
	library  Library
	resets   Resets
	contacts Contacts
	media    Media
	logger   logging.Logger
}

func NewHandler(d Deps) *Handler {
	return &Handler{
		views:    d.Views,
		sessions: d.Sessions,
		accounts: d.Accounts,
		catalog:  d.Catalog,
		library:  d.Library,
		resets:   d.Resets,
		contacts: d.Contacts,
		media:    d.Media,
		logger:   d.Logger,
	}
}
