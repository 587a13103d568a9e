package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strings"
	"time"
)

// CookieName is the cookie that carries the session token.
const CookieName = "token"

// CookieCodec writes and reads the session cookie. Values are signed with
// the cookie secret so a cookie not minted by this server is rejected before
// the token is parsed.
type CookieCodec struct {
	secret []byte
	secure bool
	maxAge time.Duration
}

func NewCookieCodec(secret string, secure bool, maxAge time.Duration) *CookieCodec {
	return &CookieCodec{secret: []byte(secret), secure: secure, maxAge: maxAge}
}

// Set issues the cookie carrying value.
func (c *CookieCodec) Set(w http.ResponseWriter, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value + "." + c.sign(value),
		Path:     "/",
		MaxAge:   int(c.maxAge / time.Second),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear removes the cookie from the client.
func (c *CookieCodec) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Read returns the verified cookie value. ErrMissingCredential when the
// cookie is absent, ErrInvalidCredential when its signature does not match.
func (c *CookieCodec) Read(r *http.Request) (string, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return "", ErrMissingCredential
	}
	i := strings.LastIndexByte(cookie.Value, '.')
	if i <= 0 {
		return "", ErrInvalidCredential
	}
	value, sig := cookie.Value[:i], cookie.Value[i+1:]
	if !hmac.Equal([]byte(sig), []byte(c.sign(value))) {
		return "", ErrInvalidCredential
	}
	return value, nil
}

func (c *CookieCodec) sign(value string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(value))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
