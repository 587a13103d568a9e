package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/webmoto/storefront/internal/services"
	"github.com/webmoto/storefront/internal/views"
)

func TestRequestReset(t *testing.T) {
	h := newHarness(t)

	rec := h.do(form(http.MethodPost, "/reset-password", url.Values{"username": {"alice"}, "email": {"a@b.c"}}))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "A password reset email has been sent", h.views.last.data.Message)

	h.resets.requestErr = services.ErrUserNotFound
	rec = h.do(form(http.MethodPost, "/reset-password", url.Values{"username": {"bob"}}))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found", h.views.last.data.Error)
}

func TestUpdatePasswordPage(t *testing.T) {
	h := newHarness(t)

	rec := h.do(httptest.NewRequest(http.MethodGet, "/update-password?token=abc", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, views.ResetView{Token: "abc"}, h.views.last.data.Content)

	for _, err := range []error{services.ErrMissingToken, services.ErrInvalidToken, services.ErrExpiredToken} {
		h.resets.validateErr = err
		rec = h.do(httptest.NewRequest(http.MethodGet, "/update-password?token=abc", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, err.Error())
		assert.Equal(t, views.ResetView{}, h.views.last.data.Content)
		assert.NotEmpty(t, h.views.last.data.Error)
	}

	h.resets.validateErr = errors.New("mongo down")
	rec = h.do(httptest.NewRequest(http.MethodGet, "/update-password?token=abc", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestUpdatePassword(t *testing.T) {
	h := newHarness(t)

	rec := h.do(form(http.MethodPost, "/update-password", url.Values{"token": {"abc"}, "newPassword": {"pw1"}}))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, h.views.last.data.Message)

	h.do(form(http.MethodPost, "/update-password", url.Values{"token": {"def"}, "matKhauMoi": {"pw2"}}))
	assert.Equal(t, []string{"abc:pw1", "def:pw2"}, h.resets.consumed)

	h.resets.consumeErr = services.ErrInvalidToken
	rec = h.do(form(http.MethodPost, "/update-password", url.Values{"token": {"abc"}, "newPassword": {"pw"}}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "The reset link is invalid or has already been used", h.views.last.data.Error)

	h.resets.consumeErr = &services.ValidationError{Message: "New password is required"}
	rec = h.do(form(http.MethodPost, "/update-password", url.Values{"token": {"abc"}}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, views.ResetView{Token: "abc"}, h.views.last.data.Content)
}
