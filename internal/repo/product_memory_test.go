package repo

import (
	"sync"
	"testing"

	"github.com/rogerio-castellano/product-catalog/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProduct(id string) models.Product {
	return models.Product{
		ID:          id,
		Name:        "Producto " + id,
		Description: "Descripción del producto " + id,
		Logo:        "https://example.com/" + id + ".png",
		DateRelease: models.MustParseDate("2030-01-01"),
	}.WithRevision()
}

func TestInMemoryProductRepository_CRUD(t *testing.T) {
	r := NewInMemoryProductRepository()

	created, err := r.Create(newProduct("abc"))
	require.NoError(t, err)
	assert.Equal(t, "abc", created.ID)

	_, err = r.Create(newProduct("abc"))
	assert.ErrorIs(t, err, ErrDuplicatedValueUnique)

	got, err := r.GetByID("abc")
	require.NoError(t, err)
	assert.Equal(t, "2031-01-01", got.DateRevision.String())

	got.Name = "Nombre nuevo"
	_, err = r.Update(got)
	require.NoError(t, err)
	got, _ = r.GetByID("abc")
	assert.Equal(t, "Nombre nuevo", got.Name)

	_, err = r.Update(newProduct("zzz"))
	assert.ErrorIs(t, err, ErrProductNotFound)

	exists, err := r.Exists("abc")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, r.Delete("abc"))
	assert.ErrorIs(t, r.Delete("abc"), ErrProductNotFound)
	_, err = r.GetByID("abc")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestInMemoryProductRepository_ResetRestoresSeed(t *testing.T) {
	r := NewInMemoryProductRepository(SeedProducts()...)

	all, _ := r.GetAll()
	require.Len(t, all, 7)
	assert.Equal(t, "trj-crd-01", all[0].ID)

	require.NoError(t, r.Delete("trj-crd-01"))
	_, err := r.Create(newProduct("nuevo"))
	require.NoError(t, err)

	r.Reset()
	all, _ = r.GetAll()
	require.Len(t, all, 7)
	assert.Equal(t, "trj-crd-01", all[0].ID)

	r.Clear()
	all, _ = r.GetAll()
	assert.Empty(t, all)
}

func TestInMemoryProductRepository_GetAllReturnsCopy(t *testing.T) {
	r := NewInMemoryProductRepository(SeedProducts()...)
	all, _ := r.GetAll()
	all[0].Name = "mutated"

	p, _ := r.GetByID("trj-crd-01")
	assert.Equal(t, "Tarjeta de Crédito Oro", p.Name)
}

func TestInMemoryProductRepository_Concurrent(t *testing.T) {
	r := NewInMemoryProductRepository()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = r.Create(newProduct(string(rune('a'+i%26)) + "xx"))
			_, _ = r.GetAll()
		}(i)
	}
	wg.Wait()

	all, _ := r.GetAll()
	assert.Len(t, all, 26)
}

func TestSeedProducts_RevisionIsOneYearAfterRelease(t *testing.T) {
	for _, p := range SeedProducts() {
		assert.True(t, models.RevisionFor(p.DateRelease).Equal(p.DateRevision), p.ID)
	}
}
