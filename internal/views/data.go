package views

import "github.com/webmoto/storefront/types"

// Data is passed to every page. Content holds the page specific view.
type Data struct {
	Title   string
	Viewer  string
	IsAdmin bool
	Flash   Flash
	Message string
	Error   string
	Content any
}

// Flash carries the one-shot notices passed in the query string.
type Flash struct {
	Success string
	Error   string
	Info    string
}

type LoginView struct {
	Username string
	URL      string
}

// CatalogView backs home, automaker and search results.
type CatalogView struct {
	Motos       []types.Moto
	CurrentPage int
	TotalPages  int
	Brand       string
	Type        string
	Query       string
	// PageLink is the path prefix for pagination links, ending in "page=".
	PageLink string
}

type UsersView struct {
	Users []types.User
}

type UserView struct {
	User  types.User
	Roles []types.Role
}

type MotosView struct {
	Motos []types.Moto
}

type MotoView struct {
	Moto types.Moto
}

type RegisterView struct {
	Username  string
	BirthDate string
	Phone     string
	Email     string
}

type ResetView struct {
	Token string
}
