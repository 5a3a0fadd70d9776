package repo

import (
	"sync"

	"github.com/rogerio-castellano/product-catalog/internal/models"
)

// InMemoryProductRepository is an in-memory implementation of ProductRepository.
// It keeps insertion order and is safe for concurrent use.
type InMemoryProductRepository struct {
	mu       sync.RWMutex
	products []models.Product
	seed     []models.Product
}

// NewInMemoryProductRepository creates a repository holding a copy of seed.
// Reset restores that same content.
func NewInMemoryProductRepository(seed ...models.Product) *InMemoryProductRepository {
	r := &InMemoryProductRepository{seed: append([]models.Product(nil), seed...)}
	r.Reset()
	return r
}

// Create adds a new product to the repository.
func (r *InMemoryProductRepository) Create(product models.Product) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(product.ID) >= 0 {
		return models.Product{}, ErrDuplicatedValueUnique
	}
	r.products = append(r.products, product)
	return product, nil
}

// GetAll returns a copy of all products in insertion order.
func (r *InMemoryProductRepository) GetAll() ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Product, len(r.products))
	copy(out, r.products)
	return out, nil
}

// GetByID retrieves a product by its ID.
func (r *InMemoryProductRepository) GetByID(id string) (models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOf(id); i >= 0 {
		return r.products[i], nil
	}
	return models.Product{}, ErrProductNotFound
}

// Update replaces an existing product in place.
func (r *InMemoryProductRepository) Update(product models.Product) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(product.ID)
	if i < 0 {
		return models.Product{}, ErrProductNotFound
	}
	r.products[i] = product
	return product, nil
}

// Delete removes a product from the repository by its ID.
func (r *InMemoryProductRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return ErrProductNotFound
	}
	r.products = append(r.products[:i], r.products[i+1:]...)
	return nil
}

func (r *InMemoryProductRepository) Exists(id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.indexOf(id) >= 0, nil
}

// Reset restores the seed content.
func (r *InMemoryProductRepository) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = append([]models.Product{}, r.seed...)
}

// Clear removes every product, seed included, until the next Reset.
func (r *InMemoryProductRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = []models.Product{}
}

func (r *InMemoryProductRepository) indexOf(id string) int {
	for i, p := range r.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}
