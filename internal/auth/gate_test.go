package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/webmoto/storefront/types"
)

func newTestAuthenticator() *Authenticator {
	return NewAuthenticator(NewTokens("jwt-secret", time.Hour), NewCookieCodec("cookie-secret", false, time.Hour))
}

func signedInRequest(t *testing.T, a *Authenticator, target string, id Identity) *http.Request {
	t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(t, a.SignIn(rec, id))

	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

// echoIdentity writes the username attached to the request, or "anonymous".
var echoIdentity = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		_, _ = w.Write([]byte("anonymous"))
		return
	}
	_, _ = w.Write([]byte(id.Username + ":" + id.Role.String()))
})

func TestAuthenticate_NoCookieRedirectsToLogin(t *testing.T) {
	a := newTestAuthenticator()
	h := Pipeline(a.Authenticate)(echoIdentity)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/mylibrary", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login?err=unAuth&url=/mylibrary", rec.Header().Get("Location"))
	assert.NotEqual(t, "anonymous", rec.Body.String())
}

func TestAuthenticate_InvalidTokenRedirectsToLogin(t *testing.T) {
	a := newTestAuthenticator()
	h := Pipeline(a.Authenticate)(echoIdentity)

	// Correctly signed cookie carrying a token from another server.
	foreign := NewAuthenticator(NewTokens("other-jwt", time.Hour), NewCookieCodec("cookie-secret", false, time.Hour))
	req := signedInRequest(t, foreign, "/admin", testIdentity)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login?err=unAuth&url=/admin", rec.Header().Get("Location"))
}

func TestAuthenticate_QueryInOriginalURLIsEscaped(t *testing.T) {
	a := newTestAuthenticator()
	h := Pipeline(a.Authenticate)(echoIdentity)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/automaker?brand=Honda&page=2", nil))

	assert.Equal(t, "/login?err=unAuth&url=/automaker%3Fbrand%3DHonda%26page%3D2", rec.Header().Get("Location"))
}

func TestAuthenticate_ValidTokenAttachesIdentity(t *testing.T) {
	a := newTestAuthenticator()
	h := Pipeline(a.Authenticate)(echoIdentity)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, signedInRequest(t, a, "/mylibrary", testIdentity))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice:user", rec.Body.String())
}

func TestRequireRole_WrongRoleRedirects(t *testing.T) {
	a := newTestAuthenticator()
	h := Pipeline(a.Authenticate, RequireRole(types.RoleAdmin))(echoIdentity)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, signedInRequest(t, a, "/admin", testIdentity))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login?err=unAuthority&url=/admin&role=admin", rec.Header().Get("Location"))
}

func TestRequireRole_MatchingRoleContinues(t *testing.T) {
	a := newTestAuthenticator()
	h := Pipeline(a.Authenticate, RequireRole(types.RoleAdmin))(echoIdentity)

	admin := Identity{Username: "root", Role: types.RoleAdmin, ID: "65f1c0a2b3d4e5f601234568"}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, signedInRequest(t, a, "/admin", admin))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "root:admin", rec.Body.String())
}

func TestRequireRole_WithoutIdentityRedirects(t *testing.T) {
	h := Pipeline(RequireRole(types.RoleAdmin))(echoIdentity)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", nil))

	assert.Equal(t, "/login?err=unAuthority&url=/users&role=admin", rec.Header().Get("Location"))
}

func TestOptional_NeverRedirects(t *testing.T) {
	a := newTestAuthenticator()
	h := a.Optional(echoIdentity)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "anonymous", rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, signedInRequest(t, a, "/", testIdentity))
	assert.Equal(t, "alice:user", rec.Body.String())
}

func TestSignOut_ClearsCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestAuthenticator().SignOut(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestPipeline_EmptyRedirectStopsRequest(t *testing.T) {
	stop := func(*http.Request) Outcome { return Redirect("") }
	rec := httptest.NewRecorder()

	require.NotPanics(t, func() {
		Pipeline(stop)(echoIdentity).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/mylibrary", nil))
	})
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestPipeline_NilContinueKeepsRequestContext(t *testing.T) {
	pass := func(*http.Request) Outcome { return Continue(nil) }
	rec := httptest.NewRecorder()

	require.NotPanics(t, func() {
		Pipeline(pass)(echoIdentity).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "anonymous", rec.Body.String())
}

func TestOutcome_Kinds(t *testing.T) {
	target, stop := Redirect("/login?err=unAuth&url=/").Redirected()
	assert.True(t, stop)
	assert.Equal(t, "/login?err=unAuth&url=/", target)

	_, stop = Continue(nil).Redirected()
	assert.False(t, stop)
}
