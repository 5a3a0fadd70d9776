package db

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rogerio-castellano/product-catalog/internal/db/migrations"
)

func TestConnect_EmptyDSN(t *testing.T) {
	_, err := Connect("")
	assert.Error(t, err)
}

func TestRunMigrations_Success(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	orig := gooseUpContext
	defer func() { gooseUpContext = orig }()

	called := false
	gooseUpContext = func(ctx context.Context, got *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		called = true
		assert.Same(t, db, got)
		assert.Equal(t, ".", dir)
		return nil
	}

	require.NoError(t, RunMigrations(context.Background(), db))
	assert.True(t, called)
}

func TestRunMigrations_Error(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	orig := gooseUpContext
	defer func() { gooseUpContext = orig }()

	boom := errors.New("boom")
	gooseUpContext = func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error {
		return boom
	}

	err = RunMigrations(context.Background(), db)
	assert.ErrorIs(t, err, boom)
}

func TestMigrations_Embedded(t *testing.T) {
	data, err := fs.ReadFile(migrations.Migrations, "00001_create_products.sql")
	require.NoError(t, err)

	script := string(data)
	assert.True(t, strings.Contains(script, "-- +goose Up"))
	assert.True(t, strings.Contains(script, "created_at"))
}

func TestOpenSQLite_Memory(t *testing.T) {
	gdb, err := OpenSQLite(":memory:")
	require.NoError(t, err)

	var one int
	require.NoError(t, gdb.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}

func TestCloseSQLite(t *testing.T) {
	gdb, err := OpenSQLite(":memory:")
	require.NoError(t, err)

	require.NoError(t, CloseSQLite(gdb))

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	assert.Error(t, sqlDB.Ping())
}
