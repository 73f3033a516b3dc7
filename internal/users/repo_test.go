package users

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/guiamercado/guiamercado-backend/pkg/db"
	"github.com/guiamercado/guiamercado-backend/pkg/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositoryCreateAndFind(t *testing.T) {
	ctx := context.Background()
	r := NewRepository(dbtest.Open(t))

	created, err := r.Create(ctx, CreateUserDTO{Name: " Ana ", Email: " Ana@Example.com ", PasswordHash: "hash"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, "Ana", created.Name)
	assert.Equal(t, "ana@example.com", created.Email)

	byEmail, err := r.FindByEmail(ctx, "ANA@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	byID, err := r.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "hash", byID.PasswordHash)

	_, err = r.FindByID(ctx, uuid.New())
	assert.True(t, db.IsNotFound(err))
}

func TestRepositoryRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	r := NewRepository(dbtest.Open(t))

	_, err := r.Create(ctx, CreateUserDTO{Name: "A", Email: "a@example.com", PasswordHash: "h"})
	require.NoError(t, err)
	_, err = r.Create(ctx, CreateUserDTO{Name: "B", Email: "A@example.com", PasswordHash: "h"})
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err, ""))
}

func TestDTOsHideCredentials(t *testing.T) {
	assert.Nil(t, FromModel(nil))
	assert.Nil(t, AuthorFromModel(nil))
}
