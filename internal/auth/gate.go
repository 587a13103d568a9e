package auth

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/webmoto/storefront/types"
)

type outcomeKind int

const (
	kindContinue outcomeKind = iota
	kindRedirect
)

// Outcome is the result of a Gate: either continue with a (possibly
// enriched) context, or stop the request with a redirect.
type Outcome struct {
	kind     outcomeKind
	ctx      context.Context
	redirect string
}

// Continue lets the request proceed with ctx. A nil ctx keeps the request's
// own context.
func Continue(ctx context.Context) Outcome {
	return Outcome{kind: kindContinue, ctx: ctx}
}

// Redirect stops the request and sends the client to target. An empty
// target redirects to the login page.
func Redirect(target string) Outcome {
	if target == "" {
		target = "/login"
	}
	return Outcome{kind: kindRedirect, redirect: target}
}

// Redirected returns the redirect target when the outcome stops the request.
func (o Outcome) Redirected() (string, bool) {
	return o.redirect, o.kind == kindRedirect
}

// Context returns the context to continue with, or nil when none was set.
func (o Outcome) Context() context.Context {
	return o.ctx
}

// Gate is a single capability check in front of a route.
type Gate func(r *http.Request) Outcome

// Pipeline runs gates in order. The first redirect ends the request with a
// 302; otherwise each gate sees the context produced by the previous one.
func Pipeline(gates ...Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, gate := range gates {
				outcome := gate(r)
				if target, stop := outcome.Redirected(); stop {
					http.Redirect(w, r, target, http.StatusFound)
					return
				}
				if ctx := outcome.Context(); ctx != nil {
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Authenticator ties the token verifier to the cookie carrier.
type Authenticator struct {
	tokens  *Tokens
	cookies *CookieCodec
}

func NewAuthenticator(tokens *Tokens, cookies *CookieCodec) *Authenticator {
	return &Authenticator{tokens: tokens, cookies: cookies}
}

// Identify reads and verifies the session cookie.
func (a *Authenticator) Identify(r *http.Request) (Identity, error) {
	raw, err := a.cookies.Read(r)
	if err != nil {
		return Identity{}, err
	}
	return a.tokens.Verify(raw)
}

// Authenticate is the gate for routes that require a signed-in user.
func (a *Authenticator) Authenticate(r *http.Request) Outcome {
	id, err := a.Identify(r)
	if err != nil {
		return Redirect(LoginURL("unAuth", r.URL.RequestURI(), ""))
	}
	return Continue(WithIdentity(r.Context(), id))
}

// Optional attaches the identity when a valid cookie is present and never
// redirects. Public pages use it to show the signed-in user.
func (a *Authenticator) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, err := a.Identify(r); err == nil {
			r = r.WithContext(WithIdentity(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

// SignIn issues a token for id and stores it in the session cookie.
func (a *Authenticator) SignIn(w http.ResponseWriter, id Identity) error {
	token, err := a.tokens.Issue(id)
	if err != nil {
		return err
	}
	a.cookies.Set(w, token)
	return nil
}

// SignOut clears the session cookie.
func (a *Authenticator) SignOut(w http.ResponseWriter) {
	a.cookies.Clear(w)
}

// Authorize checks that ctx carries an identity with exactly role.
func Authorize(ctx context.Context, role types.Role) (Identity, error) {
	id, ok := IdentityFromContext(ctx)
	if !ok {
		return Identity{}, ErrMissingCredential
	}
	if id.Role != role {
		return Identity{}, ErrInsufficientAuthority
	}
	return id, nil
}

// RequireRole is the gate for routes restricted to role. It must follow
// Authenticate in the pipeline.
func RequireRole(role types.Role) Gate {
	return func(r *http.Request) Outcome {
		if _, err := Authorize(r.Context(), role); err != nil {
			return Redirect(LoginURL("unAuthority", r.URL.RequestURI(), role))
		}
		return Continue(r.Context())
	}
}

// LoginURL builds the login redirect target:
//
//	/login?err=<code>&url=<original>[&role=<role>]
func LoginURL(code, original string, role types.Role) string {
	var b strings.Builder
	b.WriteString("/login?err=")
	b.WriteString(escapeParam(code))
	b.WriteString("&url=")
	b.WriteString(escapeParam(original))
	if role != "" {
		b.WriteString("&role=")
		b.WriteString(escapeParam(role.String()))
	}
	return b.String()
}

// escapeParam query-escapes s but keeps slashes readable, so plain paths
// come out unchanged.
func escapeParam(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "%2F", "/")
}
