package repo

import (
	"testing"

	"github.com/rogerio-castellano/product-catalog/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryUserRepository(t *testing.T) {
	r := NewInMemoryUserRepository()

	u, err := r.CreateUser(models.User{Username: "admin", Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, 1, u.ID)

	_, err = r.CreateUser(models.User{Username: "admin"})
	assert.ErrorIs(t, err, ErrUserExists)

	got, err := r.GetByUsername("admin")
	require.NoError(t, err)
	assert.Equal(t, "admin", got.Role)

	_, err = r.GetByUsername("ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
