package services

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/webmoto/storefront/internal/notify"
	"github.com/webmoto/storefront/internal/store"
	"github.com/webmoto/storefront/types"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeUsers struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]types.User

	setPasswordErr error
}

func newFakeUsers(users ...types.User) *fakeUsers {
	f := &fakeUsers{users: make(map[primitive.ObjectID]types.User)}
	for _, u := range users {
		if u.ID.IsZero() {
			u.ID = primitive.NewObjectID()
		}
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUsers) find(match func(types.User) bool) (types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if match(u) {
			return u, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (types.User, error) {
	return f.find(func(u types.User) bool { return u.ID.Hex() == id })
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (types.User, error) {
	return f.find(func(u types.User) bool { return u.Username == username })
}

func (f *fakeUsers) GetByUsernameAndEmail(_ context.Context, username, email string) (types.User, error) {
	return f.find(func(u types.User) bool { return u.Username == username && u.Email == email })
}

func (f *fakeUsers) GetByResetToken(_ context.Context, token string) (types.User, error) {
	return f.find(func(u types.User) bool { return u.ResetToken != "" && u.ResetToken == token })
}

func (f *fakeUsers) List(context.Context) ([]types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]types.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUsers) Create(_ context.Context, user types.User) (types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == user.Username {
			return types.User{}, store.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUsers) UpdateProfile(_ context.Context, id string, in types.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return store.ErrNotFound
	}
	u, ok := f.users[oid]
	if !ok {
		return store.ErrNotFound
	}
	u.Username, u.Role, u.BirthDate, u.Phone, u.Email = in.Username, in.Role, in.BirthDate, in.Phone, in.Email
	f.users[oid] = u
	return nil
}

func (f *fakeUsers) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return store.ErrNotFound
	}
	if _, ok := f.users[oid]; !ok {
		return store.ErrNotFound
	}
	delete(f.users, oid)
	return nil
}

func (f *fakeUsers) SetPassword(_ context.Context, id primitive.ObjectID, salt, hash, scheme string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setPasswordErr != nil {
		return f.setPasswordErr
	}
	u, ok := f.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.Salt, u.PasswordHash, u.HashScheme = salt, hash, scheme
	f.users[id] = u
	return nil
}

func (f *fakeUsers) SetResetToken(_ context.Context, id primitive.ObjectID, token string, expiry time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.ResetToken = token
	u.ResetTokenExpiry = &expiry
	f.users[id] = u
	return nil
}

func (f *fakeUsers) ConsumeResetToken(_ context.Context, token string, now time.Time, salt, hash, scheme string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, u := range f.users {
		if u.ResetToken == token && u.ResetTokenExpiry != nil && !u.ResetTokenExpiry.Before(now) {
			u.Salt, u.PasswordHash, u.HashScheme = salt, hash, scheme
			u.ResetToken, u.ResetTokenExpiry = "", nil
			f.users[id] = u
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeUsers) get(id primitive.ObjectID) types.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[id]
}

type fakeLibraries struct {
	mu      sync.Mutex
	libs    map[primitive.ObjectID][]types.LibraryItem
	deleted []primitive.ObjectID
}

func newFakeLibraries() *fakeLibraries {
	return &fakeLibraries{libs: make(map[primitive.ObjectID][]types.LibraryItem)}
}

func (f *fakeLibraries) Get(_ context.Context, userID primitive.ObjectID) (types.Library, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items, ok := f.libs[userID]
	if !ok {
		return types.Library{}, store.ErrNotFound
	}
	return types.Library{UserID: userID, Motos: items}, nil
}

func (f *fakeLibraries) Contains(_ context.Context, userID, motoID primitive.ObjectID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, item := range f.libs[userID] {
		if item.MotoID == motoID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeLibraries) Add(_ context.Context, userID primitive.ObjectID, item types.LibraryItem) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.libs[userID] {
		if existing == item {
			return false, nil
		}
	}
	f.libs[userID] = append(f.libs[userID], item)
	return true, nil
}

func (f *fakeLibraries) Reset(_ context.Context, userID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.libs[userID]; ok {
		f.libs[userID] = []types.LibraryItem{}
	}
	return nil
}

func (f *fakeLibraries) DeleteByUser(_ context.Context, userID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.libs, userID)
	f.deleted = append(f.deleted, userID)
	return nil
}

type fakeMotos struct {
	mu       sync.Mutex
	motos    []types.Moto
	lastList types.MotoFilter
	offset   int
	limit    int
}

func (f *fakeMotos) add(m types.Moto) types.Moto {
	f.mu.Lock()
	defer f.mu.Unlock()
	m.ID = primitive.NewObjectID()
	f.motos = append(f.motos, m)
	return m
}

func (f *fakeMotos) List(_ context.Context, filter types.MotoFilter, offset, limit int) ([]types.Moto, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastList, f.offset, f.limit = filter, offset, limit
	var matched []types.Moto
	for _, m := range f.motos {
		if filter.Brand != "" && m.Brand != filter.Brand {
			continue
		}
		if filter.Type != "" && m.Type != filter.Type {
			continue
		}
		if filter.SaleTag != "" && m.SaleTag != filter.SaleTag {
			continue
		}
		ok := true
		for _, term := range filter.Terms {
			if !strings.Contains(strings.ToLower(m.Name), strings.ToLower(term)) {
				ok = false
			}
		}
		if ok {
			matched = append(matched, m)
		}
	}
	total := len(matched)
	if offset > total {
		offset = total
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}
	return matched[offset:end], total, nil
}

func (f *fakeMotos) Get(_ context.Context, id string) (types.Moto, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.motos {
		if m.ID.Hex() == id {
			return m, nil
		}
	}
	return types.Moto{}, store.ErrNotFound
}

func (f *fakeMotos) GetMany(_ context.Context, ids []primitive.ObjectID) ([]types.Moto, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []types.Moto
	for _, m := range f.motos {
		for _, id := range ids {
			if m.ID == id {
				out = append(out, m)
			}
		}
	}
	return out, nil
}

func (f *fakeMotos) Create(_ context.Context, m types.Moto) (types.Moto, error) {
	return f.add(m), nil
}

func (f *fakeMotos) Update(_ context.Context, id string, patch types.MotoPatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, m := range f.motos {
		if m.ID.Hex() != id {
			continue
		}
		if patch.Name != "" {
			m.Name = patch.Name
		}
		if patch.Price != "" {
			m.Price = patch.Price
		}
		if patch.Image != "" {
			m.Image = patch.Image
		}
		f.motos[i] = m
		return nil
	}
	return store.ErrNotFound
}

func (f *fakeMotos) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, m := range f.motos {
		if m.ID.Hex() == id {
			f.motos = append(f.motos[:i], f.motos[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

type fakeImages struct {
	saved   map[string]string
	deleted []string
}

func (f *fakeImages) Save(_ context.Context, filename string, r io.Reader, _ int64, _ string) (string, error) {
	if f.saved == nil {
		f.saved = make(map[string]string)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	key := "motos/" + filename
	f.saved[key] = string(data)
	return key, nil
}

func (f *fakeImages) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

type fakeSink struct {
	sent []notify.Notification
	err  error
}

func (f *fakeSink) Send(_ context.Context, n notify.Notification) error {
	f.sent = append(f.sent, n)
	return f.err
}

type fakeContacts struct {
	saved []types.ContactMessage
}

func (f *fakeContacts) Create(_ context.Context, msg types.ContactMessage) (types.ContactMessage, error) {
	msg.ID = primitive.NewObjectID()
	f.saved = append(f.saved, msg)
	return msg, nil
}
