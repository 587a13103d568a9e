package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cookiesFrom(rec *httptest.ResponseRecorder) []*http.Cookie {
	return rec.Result().Cookies()
}

func TestCookieCodec_SetAndRead(t *testing.T) {
	codec := NewCookieCodec("cookie-secret", true, time.Hour)
	rec := httptest.NewRecorder()
	codec.Set(rec, "header.payload.signature")

	cookies := cookiesFrom(rec)
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, CookieName, c.Name)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, 3600, c.MaxAge)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)
	got, err := codec.Read(req)
	require.NoError(t, err)
	assert.Equal(t, "header.payload.signature", got)
}

func TestCookieCodec_Missing(t *testing.T) {
	codec := NewCookieCodec("cookie-secret", false, time.Hour)
	_, err := codec.Read(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.ErrorIs(t, err, ErrMissingCredential)
}

func TestCookieCodec_ForeignSignatureRejected(t *testing.T) {
	rec := httptest.NewRecorder()
	NewCookieCodec("other-secret", false, time.Hour).Set(rec, "value")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookiesFrom(rec)[0])

	_, err := NewCookieCodec("cookie-secret", false, time.Hour).Read(req)
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestCookieCodec_UnsignedValueRejected(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "nodots"})

	_, err := NewCookieCodec("cookie-secret", false, time.Hour).Read(req)
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestCookieCodec_Clear(t *testing.T) {
	rec := httptest.NewRecorder()
	NewCookieCodec("cookie-secret", false, time.Hour).Clear(rec)

	cookies := cookiesFrom(rec)
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Equal(t, "", cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)
}
