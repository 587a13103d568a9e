package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactService_Submit(t *testing.T) {
	repo := &fakeContacts{}
	svc := NewContactService(repo)

	require.NoError(t, svc.Submit(context.Background(), "Alice", "alice@example.com", "Is the SH in stock?"))
	require.Len(t, repo.saved, 1)
	assert.Equal(t, "Alice", repo.saved[0].Name)
	assert.False(t, repo.saved[0].CreatedAt.IsZero())

	var verr *ValidationError
	assert.ErrorAs(t, svc.Submit(context.Background(), "", "a@b.c", "hi"), &verr)
}
