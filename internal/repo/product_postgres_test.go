package repo

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPostgresWithMock(t *testing.T) (*PostgresProductRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresProductRepository(db), mock
}

var productColumns = []string{"id", "name", "description", "logo", "date_release", "date_revision"}

func TestPostgresCreate_Success(t *testing.T) {
	r, mock := newPostgresWithMock(t)
	p := newProduct("abc")

	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+products`).
		WithArgs("abc", p.Name, p.Description, p.Logo, "2030-01-01", "2031-01-01").
		WillReturnResult(sqlmock.NewResult(0, 1))

	got, err := r.Create(p)
	require.NoError(t, err)
	assert.Equal(t, "abc", got.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreate_Duplicate(t *testing.T) {
	r, mock := newPostgresWithMock(t)

	mock.ExpectExec(`INSERT INTO products`).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value"})

	_, err := r.Create(newProduct("abc"))
	assert.ErrorIs(t, err, ErrDuplicatedValueUnique)
}

func TestPostgresCreate_DBError(t *testing.T) {
	r, mock := newPostgresWithMock(t)

	mock.ExpectExec(`INSERT INTO products`).WillReturnError(errors.New("db down"))

	_, err := r.Create(newProduct("abc"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
	assert.False(t, errors.Is(err, ErrDuplicatedValueUnique))
}

func TestPostgresGetAll(t *testing.T) {
	r, mock := newPostgresWithMock(t)

	rows := sqlmock.NewRows(productColumns).
		AddRow("trj-crd-01", "Tarjeta de Crédito Oro", "Tarjeta de crédito con beneficios", "logo.png", "2024-01-15", "2025-01-15").
		AddRow("trj-deb-02", "Tarjeta de Débito Classic", "Tarjeta de débito para uso diario", "logo.png", "2024-02-20", "2025-02-20")
	mock.ExpectQuery(`(?s)^SELECT\s+id,\s*name,.*FROM\s+products\s+ORDER BY`).WillReturnRows(rows)

	all, err := r.GetAll()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "2025-02-20", all[1].DateRevision.String())
}

func TestPostgresGetAll_Empty(t *testing.T) {
	r, mock := newPostgresWithMock(t)
	mock.ExpectQuery(`FROM products`).WillReturnRows(sqlmock.NewRows(productColumns))

	all, err := r.GetAll()
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestPostgresGetByID(t *testing.T) {
	r, mock := newPostgresWithMock(t)

	mock.ExpectQuery(`WHERE id = \$1`).WithArgs("abc").
		WillReturnRows(sqlmock.NewRows(productColumns).AddRow("abc", "Nombre", "Descripción", "logo", "2030-01-01", "2031-01-01"))
	mock.ExpectQuery(`WHERE id = \$1`).WithArgs("nope").WillReturnError(sql.ErrNoRows)

	p, err := r.GetByID("abc")
	require.NoError(t, err)
	assert.Equal(t, "Nombre", p.Name)

	_, err = r.GetByID("nope")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestPostgresUpdateAndDelete_NotFound(t *testing.T) {
	r, mock := newPostgresWithMock(t)

	mock.ExpectExec(`UPDATE products SET`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM products`).WithArgs("abc").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM products`).WithArgs("abc").WillReturnResult(sqlmock.NewResult(0, 1))

	_, err := r.Update(newProduct("abc"))
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.ErrorIs(t, r.Delete("abc"), ErrProductNotFound)
	assert.NoError(t, r.Delete("abc"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresExists(t *testing.T) {
	r, mock := newPostgresWithMock(t)

	mock.ExpectQuery(`SELECT EXISTS`).WithArgs("trj-crd-01").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := r.Exists("trj-crd-01")
	require.NoError(t, err)
	assert.True(t, exists)
}
