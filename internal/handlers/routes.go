package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/webmoto/storefront/internal/auth"
	"github.com/webmoto/storefront/types"
)

// Router registers every storefront route on r.
//
// Public pages see the signed-in user when there is one. Member routes
// redirect anonymous visitors to the login page, and admin routes also
// redirect members without the admin role.
func Router(r chi.Router, d Deps) {
	h := NewHandler(d)
	member := auth.Pipeline(d.Sessions.Authenticate)
	admin := auth.Pipeline(d.Sessions.Authenticate, auth.RequireRole(types.RoleAdmin))

	r.Group(func(r chi.Router) {
		r.Use(d.Sessions.Optional)

		r.Get("/login", h.LoginPage)
		r.Post("/login", h.Login)
		r.Get("/create-user", h.RegisterPage)
		r.Post("/user", h.Register)

		r.Get("/", h.Home)
		r.Get("/automaker", h.Automaker)
		r.Get("/search", h.Search)
		r.Get("/contact", h.static("contact", "Contact"))
		r.Post("/contact", h.Contact)
		r.Get("/product", h.static("product", "Products"))
		r.Get("/new", h.static("new", "New"))
		r.Get("/about", h.static("about", "About"))
		r.Get("/media/*", h.ServeMedia)

		r.Get("/reset-password", h.ResetPage)
		r.Post("/reset-password", h.RequestReset)
		r.Get("/update-password", h.UpdatePasswordPage)
		r.Post("/update-password", h.UpdatePassword)
	})

	r.Group(func(r chi.Router) {
		r.Use(member)

		r.Get("/logout", h.Logout)
		r.Get("/mylibrary", h.MyLibrary)
		r.Post("/mylibrary/add/{motoID}", h.AddToLibrary)
		r.Post("/mylibrary/reset", h.ResetLibrary)
	})

	r.Group(func(r chi.Router) {
		r.Use(admin)

		r.Get("/admin", h.static("admin", "Administration"))
		r.Get("/users", h.ListUsers)
		r.Get("/update-user/{id}", h.EditUser)
		r.Post("/user/{id}", h.UpdateUser)
		r.Get("/user/{id}", h.DeleteUser)

		r.Get("/motos", h.ListMotos)
		r.Get("/create-moto", h.static("create-moto", "New listing"))
		r.Post("/moto", h.CreateMoto)
		r.Get("/update-moto/{id}", h.EditMoto)
		r.Post("/moto/{id}", h.UpdateMoto)
		r.Get("/moto/{id}", h.DeleteMoto)
	})
}

func (h *Handler) static(name, title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.render(w, r, http.StatusOK, name, page(r, title, nil))
	}
}

// Healthz reports liveness.
func Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
