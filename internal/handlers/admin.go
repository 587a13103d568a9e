package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/webmoto/storefront/internal/services"
	"github.com/webmoto/storefront/internal/store"
	"github.com/webmoto/storefront/internal/views"
	"github.com/webmoto/storefront/types"
)

const maxMultipartMemory = 10 << 20

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.accounts.List(r.Context())
	if err != nil {
		h.internalError(w, r, "failed to list users", err)
		return
	}
	h.render(w, r, http.StatusOK, "users", page(r, "Users", views.UsersView{Users: users}))
}

func (h *Handler) EditUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.accounts.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		h.internalError(w, r, "failed to load user", err)
		return
	}
	h.render(w, r, http.StatusOK, "update-user", page(r, "Edit user", views.UserView{
		User:  user,
		Roles: []types.Role{types.RoleUser, types.RoleAdmin},
	}))
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	err := h.accounts.UpdateProfile(r.Context(), chi.URLParam(r, "id"), services.ProfileUpdate{
		Username:  r.FormValue("username"),
		Role:      r.FormValue("role"),
		BirthDate: r.FormValue("NgaySinh"),
		Phone:     r.FormValue("SoDT"),
		Email:     r.FormValue("email"),
	})
	var verr *services.ValidationError
	switch {
	case err == nil:
		redirect(w, r, "/users")
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Message)
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "user not found")
	default:
		h.internalError(w, r, "failed to update user", err)
	}
}

// DeleteUser removes the account and its library. An id that matches no
// account deletes nothing and also lands on the user list.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	err := h.accounts.Delete(r.Context(), chi.URLParam(r, "id"))
	switch {
	case err == nil, errors.Is(err, store.ErrNotFound):
		redirect(w, r, "/users")
	default:
		h.internalError(w, r, "failed to delete user and library", err)
	}
}

func (h *Handler) ListMotos(w http.ResponseWriter, r *http.Request) {
	motos, err := h.catalog.List(r.Context())
	if err != nil {
		h.internalError(w, r, "failed to list listings", err)
		return
	}
	h.render(w, r, http.StatusOK, "motos", page(r, "Listings", views.MotosView{Motos: motos}))
}

func (h *Handler) EditMoto(w http.ResponseWriter, r *http.Request) {
	moto, err := h.catalog.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "listing not found")
		return
	}
	if err != nil {
		h.internalError(w, r, "failed to load listing", err)
		return
	}
	h.render(w, r, http.StatusOK, "update-moto", page(r, "Edit listing", views.MotoView{Moto: moto}))
}

func (h *Handler) CreateMoto(w http.ResponseWriter, r *http.Request) {
	image, cleanup, err := parseMotoForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}
	defer cleanup()

	_, err = h.catalog.Create(r.Context(), types.Moto{
		Name:     r.FormValue("TenXe"),
		Brand:    r.FormValue("HangXe"),
		Type:     r.FormValue("DongXe"),
		Year:     r.FormValue("NamSanXuat"),
		OldPrice: r.FormValue("GiaCu"),
		Price:    r.FormValue("GiaBan"),
		SaleTag:  r.FormValue("SaleTag"),
	}, image)
	var verr *services.ValidationError
	switch {
	case err == nil:
		redirect(w, r, "/motos")
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Message)
	default:
		h.internalError(w, r, "failed to create listing", err)
	}
}

// UpdateMoto sets only the fields that were filled in.
func (h *Handler) UpdateMoto(w http.ResponseWriter, r *http.Request) {
	image, cleanup, err := parseMotoForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}
	defer cleanup()

	err = h.catalog.Update(r.Context(), chi.URLParam(r, "id"), types.MotoPatch{
		Name:     strings.TrimSpace(r.FormValue("TenXe")),
		Brand:    strings.TrimSpace(r.FormValue("HangXe")),
		Type:     strings.TrimSpace(r.FormValue("DongXe")),
		Year:     strings.TrimSpace(r.FormValue("NamSanXuat")),
		OldPrice: strings.TrimSpace(r.FormValue("GiaCu")),
		Price:    strings.TrimSpace(r.FormValue("GiaBan")),
		SaleTag:  strings.TrimSpace(r.FormValue("SaleTag")),
	}, image)
	var verr *services.ValidationError
	switch {
	case err == nil:
		redirect(w, r, "/motos")
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Message)
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "listing not found")
	default:
		h.internalError(w, r, "failed to update listing", err)
	}
}

func (h *Handler) DeleteMoto(w http.ResponseWriter, r *http.Request) {
	err := h.catalog.Delete(r.Context(), chi.URLParam(r, "id"))
	switch {
	case err == nil:
		redirect(w, r, "/motos")
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "listing not found")
	default:
		h.internalError(w, r, "failed to delete listing", err)
	}
}

// parseMotoForm parses a listing form and opens its image part, preferring
// the AnhXe field. URL-encoded forms are accepted and carry no image.
func parseMotoForm(r *http.Request) (*services.Upload, func(), error) {
	noop := func() {}
	err := r.ParseMultipartForm(maxMultipartMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		return nil, noop, r.ParseForm()
	}
	if err != nil {
		return nil, noop, err
	}
	cleanup := func() { _ = r.MultipartForm.RemoveAll() }

	fh := imagePart(r.MultipartForm)
	if fh == nil {
		return nil, cleanup, nil
	}
	f, err := fh.Open()
	if err != nil {
		cleanup()
		return nil, noop, err
	}
	upload := &services.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	}
	return upload, func() {
		_ = f.Close()
		cleanup()
	}, nil
}

func imagePart(form *multipart.Form) *multipart.FileHeader {
	isImage := func(fh *multipart.FileHeader) bool {
		return fh.Filename != "" && strings.HasPrefix(fh.Header.Get("Content-Type"), "image/")
	}
	for _, fh := range form.File["AnhXe"] {
		if isImage(fh) {
			return fh
		}
	}
	for _, headers := range form.File {
		for _, fh := range headers {
			if isImage(fh) {
				return fh
			}
		}
	}
	return nil
}
