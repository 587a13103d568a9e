package handlers

import (
	"errors"
	"net/http"

	"github.com/webmoto/storefront/internal/services"
	"github.com/webmoto/storefront/internal/views"
)

func (h *Handler) ResetPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "reset-password", page(r, "Reset password", nil))
}

func (h *Handler) RequestReset(w http.ResponseWriter, r *http.Request) {
	err := h.resets.Request(r.Context(), r.FormValue("username"), r.FormValue("email"))
	data := page(r, "Reset password", nil)
	switch {
	case err == nil:
		data.Message = "A password reset email has been sent"
		h.render(w, r, http.StatusOK, "reset-password", data)
	case errors.Is(err, services.ErrUserNotFound):
		data.Error = "User not found"
		h.render(w, r, http.StatusNotFound, "reset-password", data)
	default:
		h.internalError(w, r, "failed to request password reset", err)
	}
}

func (h *Handler) UpdatePasswordPage(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	_, err := h.resets.Validate(r.Context(), token)
	if err == nil {
		h.render(w, r, http.StatusOK, "update-password", page(r, "New password", views.ResetView{Token: token}))
		return
	}
	if msg, ok := tokenMessage(err); ok {
		data := page(r, "New password", views.ResetView{})
		data.Error = msg
		h.render(w, r, http.StatusBadRequest, "update-password", data)
		return
	}
	h.internalError(w, r, "failed to validate reset token", err)
}

// UpdatePassword redeems a reset token. The legacy form field matKhauMoi is
// accepted alongside newPassword.
func (h *Handler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	token := r.FormValue("token")
	password := r.FormValue("newPassword")
	if password == "" {
		password = r.FormValue("matKhauMoi")
	}

	err := h.resets.Consume(r.Context(), token, password)
	if err == nil {
		data := page(r, "New password", views.ResetView{})
		data.Message = "Your password has been updated. You can now log in."
		h.render(w, r, http.StatusOK, "update-password", data)
		return
	}

	var verr *services.ValidationError
	if errors.As(err, &verr) {
		data := page(r, "New password", views.ResetView{Token: token})
		data.Error = verr.Message
		h.render(w, r, http.StatusBadRequest, "update-password", data)
		return
	}
	if msg, ok := tokenMessage(err); ok {
		data := page(r, "New password", views.ResetView{})
		data.Error = msg
		h.render(w, r, http.StatusBadRequest, "update-password", data)
		return
	}
	h.internalError(w, r, "failed to update password", err)
}

func tokenMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, services.ErrMissingToken):
		return "The reset link is missing its token", true
	case errors.Is(err, services.ErrInvalidToken):
		return "The reset link is invalid or has already been used", true
	case errors.Is(err, services.ErrExpiredToken):
		return "The reset link has expired", true
	default:
		return "", false
	}
}
