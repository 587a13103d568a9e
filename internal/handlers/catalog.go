package handlers

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/webmoto/storefront/internal/services"
	"github.com/webmoto/storefront/internal/storage"
	"github.com/webmoto/storefront/internal/views"
)

func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	limit := intQuery(r, "limit")
	result, err := h.catalog.Home(r.Context(), intQuery(r, "page"), limit)
	if err != nil {
		h.internalError(w, r, "failed to load listings", err)
		return
	}

	link := "/?page="
	if limit > 0 {
		link = "/?limit=" + strconv.Itoa(limit) + "&page="
	}
	h.render(w, r, http.StatusOK, "home", page(r, "", views.CatalogView{
		Motos:       result.Motos,
		CurrentPage: result.Page,
		TotalPages:  result.TotalPages,
		PageLink:    link,
	}))
}

func (h *Handler) Automaker(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	brand := orAll(q.Get("brand"))
	motoType := orAll(q.Get("type"))

	result, err := h.catalog.Automaker(r.Context(), brand, motoType, intQuery(r, "page"))
	if err != nil {
		h.internalError(w, r, "failed to load listings", err)
		return
	}

	link := url.Values{"brand": {brand}, "type": {motoType}}
	h.render(w, r, http.StatusOK, "automaker", page(r, "Automaker", views.CatalogView{
		Motos:       result.Motos,
		CurrentPage: result.Page,
		TotalPages:  result.TotalPages,
		Brand:       brand,
		Type:        motoType,
		PageLink:    "/automaker?" + link.Encode() + "&page=",
	}))
}

// Search matches listings whose name contains every word of the query. An
// empty query goes back to the full catalog.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		redirect(w, r, "/automaker")
		return
	}
	motos, err := h.catalog.Search(r.Context(), query)
	if err != nil {
		h.internalError(w, r, "failed to search listings", err)
		return
	}
	h.render(w, r, http.StatusOK, "automaker", page(r, "Search", views.CatalogView{
		Motos:       motos,
		Query:       query,
		Brand:       services.AllOption,
		Type:        services.AllOption,
		CurrentPage: 1,
		TotalPages:  1,
	}))
}

func (h *Handler) Contact(w http.ResponseWriter, r *http.Request) {
	err := h.contacts.Submit(r.Context(), r.FormValue("name"), r.FormValue("email"), r.FormValue("message"))
	data := page(r, "Contact", nil)
	var verr *services.ValidationError
	switch {
	case err == nil:
		data.Message = "Your message has been sent!"
		h.render(w, r, http.StatusOK, "contact", data)
	case errors.As(err, &verr):
		data.Error = verr.Message
		h.render(w, r, http.StatusBadRequest, "contact", data)
	default:
		h.logger.Error(r.Context(), "contact message not saved", "error", err)
		data.Error = "Your message could not be sent. Please try again later."
		h.render(w, r, http.StatusInternalServerError, "contact", data)
	}
}

// ServeMedia streams an uploaded listing image.
func (h *Handler) ServeMedia(w http.ResponseWriter, r *http.Request) {
	obj, err := h.media.Open(r.Context(), chi.URLParam(r, "*"))
	if errors.Is(err, storage.ErrObjectNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.internalError(w, r, "failed to open image", err)
		return
	}
	defer obj.Close()

	if obj.ContentType != "" {
		w.Header().Set("Content-Type", obj.ContentType)
	}
	if obj.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	}
	w.Header().Set("Cache-Control", storage.ImageCacheControl)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, obj); err != nil {
		h.logger.Warn(r.Context(), "image stream interrupted", "error", err)
	}
}

func orAll(v string) string {
	if v = strings.TrimSpace(v); v == "" {
		return services.AllOption
	}
	return v
}
