package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/webmoto/storefront/internal/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestLibraryService_AddListReset(t *testing.T) {
	motos := &fakeMotos{}
	seedCatalog(motos)
	libs := newFakeLibraries()
	svc := NewLibraryService(libs, motos)
	ctx := context.Background()
	userID := primitive.NewObjectID().Hex()
	target := motos.motos[1]

	empty, err := svc.List(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, empty)

	moto, result, err := svc.Add(ctx, userID, target.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, Added, result)
	assert.Equal(t, "Honda Vision", moto.Name)

	_, result, err = svc.Add(ctx, userID, target.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, AlreadySaved, result)

	saved, err := svc.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, target.ID, saved[0].ID)

	require.NoError(t, svc.Reset(ctx, userID))
	saved, err = svc.List(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, saved)
}

func TestLibraryService_AddUnknownListing(t *testing.T) {
	svc := NewLibraryService(newFakeLibraries(), &fakeMotos{})

	_, _, err := svc.Add(context.Background(), primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestLibraryService_RejectsMalformedUser(t *testing.T) {
	svc := NewLibraryService(newFakeLibraries(), &fakeMotos{})

	_, err := svc.List(context.Background(), "not-hex")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
