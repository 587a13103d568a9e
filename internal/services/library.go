package services

import (
	"context"
	"errors"

	"github.com/webmoto/storefront/internal/store"
	"github.com/webmoto/storefront/types"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LibraryRepository defines persistence operations for saved listings.
type LibraryRepository interface {
	Get(ctx context.Context, userID primitive.ObjectID) (types.Library, error)
	Contains(ctx context.Context, userID, motoID primitive.ObjectID) (bool, error)
	Add(ctx context.Context, userID primitive.ObjectID, item types.LibraryItem) (bool, error)
	Reset(ctx context.Context, userID primitive.ObjectID) error
}

// LibraryService manages the per-user list of saved listings.
type LibraryService struct {
	repo  LibraryRepository
	motos MotoRepository
}

func NewLibraryService(repo LibraryRepository, motos MotoRepository) *LibraryService {
	return &LibraryService{repo: repo, motos: motos}
}

// AddResult tells how an Add call changed the library.
type AddResult int

const (
	Added AddResult = iota
	AlreadySaved
)

// Add saves the listing for the user. The listing must exist.
func (s *LibraryService) Add(ctx context.Context, userID, motoID string) (types.Moto, AddResult, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return types.Moto{}, 0, ErrUserNotFound
	}
	moto, err := s.motos.Get(ctx, motoID)
	if err != nil {
		return types.Moto{}, 0, err
	}

	saved, err := s.repo.Contains(ctx, uid, moto.ID)
	if err != nil {
		return moto, 0, err
	}
	if saved {
		return moto, AlreadySaved, nil
	}

	changed, err := s.repo.Add(ctx, uid, types.LibraryItem{MotoID: moto.ID, Name: moto.Name})
	if err != nil {
		return moto, 0, err
	}
	if !changed {
		return moto, 0, ErrNotAdded
	}
	return moto, Added, nil
}

// List returns the saved listings that still exist in the catalog.
func (s *LibraryService) List(ctx context.Context, userID string) ([]types.Moto, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	lib, err := s.repo.Get(ctx, uid)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(lib.Motos) == 0 {
		return nil, nil
	}
	ids := make([]primitive.ObjectID, 0, len(lib.Motos))
	for _, item := range lib.Motos {
		ids = append(ids, item.MotoID)
	}
	return s.motos.GetMany(ctx, ids)
}

func (s *LibraryService) Reset(ctx context.Context, userID string) error {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return ErrUserNotFound
	}
	return s.repo.Reset(ctx, uid)
}
