package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/webmoto/storefront/internal/auth"
	"github.com/webmoto/storefront/internal/logging"
	"github.com/webmoto/storefront/internal/services"
	"github.com/webmoto/storefront/internal/storage"
	"github.com/webmoto/storefront/internal/store"
	"github.com/webmoto/storefront/internal/views"
	"github.com/webmoto/storefront/types"
)

type rendered struct {
	status int
	page   string
	data   views.Data
}

type recordingRenderer struct {
	last *rendered
}

func (r *recordingRenderer) Render(w http.ResponseWriter, status int, page string, data views.Data) error {
	r.last = &rendered{status: status, page: page, data: data}
	w.WriteHeader(status)
	_, err := io.WriteString(w, page)
	return err
}

type fakeAccounts struct {
	identities map[string]auth.Identity
	passwords  map[string]string
	users      []types.User
	registered []services.Registration
	regErr     error
	updated    map[string]services.ProfileUpdate
	updateErr  error
	deleteErr  error
	authErr    error
}

func (f *fakeAccounts) Register(_ context.Context, reg services.Registration) (types.User, error) {
	if f.regErr != nil {
		return types.User{}, f.regErr
	}
	f.registered = append(f.registered, reg)
	return types.User{Username: reg.Username, Role: types.RoleUser}, nil
}

func (f *fakeAccounts) Authenticate(_ context.Context, username, password string) (auth.Identity, error) {
	if f.authErr != nil {
		return auth.Identity{}, f.authErr
	}
	id, ok := f.identities[username]
	if !ok {
		return auth.Identity{}, services.ErrUserNotFound
	}
	if f.passwords[username] != password {
		return auth.Identity{}, services.ErrWrongPassword
	}
	return id, nil
}

func (f *fakeAccounts) List(context.Context) ([]types.User, error) { return f.users, nil }

func (f *fakeAccounts) Get(_ context.Context, id string) (types.User, error) {
	for _, u := range f.users {
		if u.ID.Hex() == id {
			return u, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (f *fakeAccounts) UpdateProfile(_ context.Context, id string, in services.ProfileUpdate) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if f.updated == nil {
		f.updated = make(map[string]services.ProfileUpdate)
	}
	f.updated[id] = in
	return nil
}

func (f *fakeAccounts) Delete(context.Context, string) error { return f.deleteErr }

type fakeCatalog struct {
	page      services.Page
	homeArgs  [2]int
	autoArgs  []string
	searched  string
	motos     []types.Moto
	created   []types.Moto
	createImg *services.Upload
	imageBody string
	createErr error
	patches   map[string]types.MotoPatch
	updateErr error
}

func (f *fakeCatalog) Home(_ context.Context, page, limit int) (services.Page, error) {
	f.homeArgs = [2]int{page, limit}
	return f.page, nil
}

func (f *fakeCatalog) Automaker(_ context.Context, brand, motoType string, page int) (services.Page, error) {
	f.autoArgs = []string{brand, motoType}
	return f.page, nil
}

func (f *fakeCatalog) Search(_ context.Context, query string) ([]types.Moto, error) {
	f.searched = query
	return f.motos, nil
}

func (f *fakeCatalog) List(context.Context) ([]types.Moto, error) { return f.motos, nil }

func (f *fakeCatalog) Get(_ context.Context, id string) (types.Moto, error) {
	for _, m := range f.motos {
		if m.ID.Hex() == id {
			return m, nil
		}
	}
	return types.Moto{}, store.ErrNotFound
}

func (f *fakeCatalog) Create(_ context.Context, moto types.Moto, image *services.Upload) (types.Moto, error) {
	if f.createErr != nil {
		return types.Moto{}, f.createErr
	}
	f.created = append(f.created, moto)
	f.createImg = image
	if image != nil {
		data, _ := io.ReadAll(image.Body)
		f.imageBody = string(data)
	}
	return moto, nil
}

func (f *fakeCatalog) Update(_ context.Context, id string, patch types.MotoPatch, _ *services.Upload) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if f.patches == nil {
		f.patches = make(map[string]types.MotoPatch)
	}
	f.patches[id] = patch
	return nil
}

func (f *fakeCatalog) Delete(context.Context, string) error { return nil }

type fakeLibrary struct {
	moto    types.Moto
	result  services.AddResult
	err     error
	userIDs []string
	motos   []types.Moto
	resets  int
}

func (f *fakeLibrary) Add(_ context.Context, userID, _ string) (types.Moto, services.AddResult, error) {
	f.userIDs = append(f.userIDs, userID)
	return f.moto, f.result, f.err
}

func (f *fakeLibrary) List(_ context.Context, userID string) ([]types.Moto, error) {
	f.userIDs = append(f.userIDs, userID)
	return f.motos, nil
}

func (f *fakeLibrary) Reset(context.Context, string) error {
	f.resets++
	return nil
}

type fakeResets struct {
	requestErr  error
	validateErr error
	consumeErr  error
	consumed    []string
}

func (f *fakeResets) Request(context.Context, string, string) error { return f.requestErr }

func (f *fakeResets) Validate(context.Context, string) (types.User, error) {
	return types.User{}, f.validateErr
}

func (f *fakeResets) Consume(_ context.Context, token, password string) error {
	f.consumed = append(f.consumed, token+":"+password)
	return f.consumeErr
}

type fakeContacts struct {
	err  error
	sent int
}

func (f *fakeContacts) Submit(context.Context, string, string, string) error {
	f.sent++
	return f.err
}

type fakeMedia struct {
	objects map[string]string
}

func (f *fakeMedia) Open(_ context.Context, key string) (storage.Object, error) {
	data, ok := f.objects[key]
	if !ok {
		return storage.Object{}, storage.ErrObjectNotFound
	}
	return storage.Object{
		ReadCloser:  io.NopCloser(strings.NewReader(data)),
		ContentType: "image/png",
		Size:        int64(len(data)),
	}, nil
}

type harness struct {
	router   chi.Router
	sessions *auth.Authenticator
	views    *recordingRenderer
	accounts *fakeAccounts
	catalog  *fakeCatalog
	library  *fakeLibrary
	resets   *fakeResets
	contacts *fakeContacts
	media    *fakeMedia
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		sessions: auth.NewAuthenticator(
			auth.NewTokens("jwt-secret", time.Hour),
			auth.NewCookieCodec("cookie-secret", false, time.Hour),
		),
		views:    &recordingRenderer{},
		accounts: &fakeAccounts{identities: map[string]auth.Identity{}, passwords: map[string]string{}},
		catalog:  &fakeCatalog{},
		library:  &fakeLibrary{},
		resets:   &fakeResets{},
		contacts: &fakeContacts{},
		media:    &fakeMedia{objects: map[string]string{}},
	}
	r := chi.NewRouter()
	Router(r, Deps{
		Views:    h.views,
		Sessions: h.sessions,
		Accounts: h.accounts,
		Catalog:  h.catalog,
		Library:  h.library,
		Resets:   h.resets,
		Contacts: h.contacts,
		Media:    h.media,
		Logger:   logging.Discard(),
	})
	h.router = r
	return h
}

// cookieFor signs in id and returns the session cookie.
func (h *harness) cookieFor(t *testing.T, id auth.Identity) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	if err := h.sessions.SignIn(rec, id); err != nil {
		t.Fatalf("sign in: %v", err)
	}
	return rec.Result().Cookies()[0]
}

func (h *harness) do(req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func form(method, target string, values url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}
