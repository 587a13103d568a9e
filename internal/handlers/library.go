package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/webmoto/storefront/internal/auth"
	"github.com/webmoto/storefront/internal/services"
	"github.com/webmoto/storefront/internal/store"
	"github.com/webmoto/storefront/internal/views"
)

// AddToLibrary saves a listing for the signed-in user and reports the
// outcome as a flash notice on the automaker page.
func (h *Handler) AddToLibrary(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	moto, result, err := h.library.Add(r.Context(), id.ID, chi.URLParam(r, "motoID"))
	switch {
	case errors.Is(err, store.ErrNotFound):
		redirect(w, r, withFlash("/automaker", "error", "Motorbike not found!"))
	case errors.Is(err, services.ErrNotAdded):
		redirect(w, r, withFlash("/automaker", "error", "Could not add the motorbike to your library!"))
	case err != nil:
		h.internalError(w, r, "failed to update library", err)
	case result == services.AlreadySaved:
		redirect(w, r, withFlash("/automaker", "info", fmt.Sprintf("%q is already in your library!", moto.Name)))
	default:
		redirect(w, r, withFlash("/automaker", "success", fmt.Sprintf("Added %q to your library!", moto.Name)))
	}
}

func (h *Handler) MyLibrary(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	motos, err := h.library.List(r.Context(), id.ID)
	if err != nil {
		h.internalError(w, r, "failed to load library", err)
		return
	}
	data := page(r, "My library", views.MotosView{Motos: motos})
	if len(motos) == 0 {
		data.Message = "Your library is empty."
	}
	h.render(w, r, http.StatusOK, "mylibrary", data)
}

func (h *Handler) ResetLibrary(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	if err := h.library.Reset(r.Context(), id.ID); err != nil {
		h.internalError(w, r, "failed to reset library", err)
		return
	}
	redirect(w, r, "/mylibrary")
}
