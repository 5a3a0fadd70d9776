package repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newGormRepo(t *testing.T) *GormProductRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	r := NewGormProductRepository(db)
	require.NoError(t, r.AutoMigrate())
	return r
}

func TestGormProductRepository_CRUD(t *testing.T) {
	r := newGormRepo(t)

	_, err := r.Create(newProduct("abc"))
	require.NoError(t, err)
	_, err = r.Create(newProduct("abc"))
	assert.ErrorIs(t, err, ErrDuplicatedValueUnique)

	p, err := r.GetByID("abc")
	require.NoError(t, err)
	assert.Equal(t, "2030-01-01", p.DateRelease.String())
	assert.Equal(t, "2031-01-01", p.DateRevision.String())

	p.Description = "Descripción actualizada"
	_, err = r.Update(p)
	require.NoError(t, err)
	p, _ = r.GetByID("abc")
	assert.Equal(t, "Descripción actualizada", p.Description)

	_, err = r.Update(newProduct("zzz"))
	assert.ErrorIs(t, err, ErrProductNotFound)

	exists, err := r.Exists("abc")
	require.NoError(t, err)
	assert.True(t, exists)

	all, err := r.GetAll()
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, r.Delete("abc"))
	assert.ErrorIs(t, r.Delete("abc"), ErrProductNotFound)
	_, err = r.GetByID("abc")
	assert.ErrorIs(t, err, ErrProductNotFound)
}
