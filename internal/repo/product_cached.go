package repo

import (
	"context"

	"github.com/rogerio-castellano/product-catalog/internal/logging"
	"github.com/rogerio-castellano/product-catalog/internal/models"
)

const allProductsKey = "products:all"

func productKey(id string) string { return "products:" + id }

// Cache is the subset of redissvc.RedisService used by the cached repository.
type Cache interface {
	Get(key string, dest any) (bool, error)
	Set(key string, value any) error
	Delete(keys ...string) error
}

// CachedProductRepository serves reads from a cache and falls back to the
// wrapped repository. Every write invalidates the affected keys. Cache
// failures are logged and never fail the call.
type CachedProductRepository struct {
	inner ProductRepository
	cache Cache
	log   logging.Logger
}

func NewCachedProductRepository(inner ProductRepository, cache Cache, log logging.Logger) *CachedProductRepository {
	return &CachedProductRepository{inner: inner, cache: cache, log: log}
}

func (r *CachedProductRepository) Create(p models.Product) (models.Product, error) {
	created, err := r.inner.Create(p)
	if err != nil {
		return created, err
	}
	r.invalidate(created.ID)
	return created, nil
}

func (r *CachedProductRepository) GetAll() ([]models.Product, error) {
	var products []models.Product
	if hit, err := r.cache.Get(allProductsKey, &products); err != nil {
		r.log.Warn(context.Background(), "cache read failed", "key", allProductsKey, "error", err)
	} else if hit {
		return products, nil
	}

	products, err := r.inner.GetAll()
	if err != nil {
		return nil, err
	}
	if err := r.cache.Set(allProductsKey, products); err != nil {
		r.log.Warn(context.Background(), "cache write failed", "key", allProductsKey, "error", err)
	}
	return products, nil
}

func (r *CachedProductRepository) GetByID(id string) (models.Product, error) {
	key := productKey(id)
	var p models.Product
	if hit, err := r.cache.Get(key, &p); err != nil {
		r.log.Warn(context.Background(), "cache read failed", "key", key, "error", err)
	} else if hit {
		return p, nil
	}

	p, err := r.inner.GetByID(id)
	if err != nil {
		return p, err
	}
	if err := r.cache.Set(key, p); err != nil {
		r.log.Warn(context.Background(), "cache write failed", "key", key, "error", err)
	}
	return p, nil
}

func (r *CachedProductRepository) Update(p models.Product) (models.Product, error) {
	updated, err := r.inner.Update(p)
	if err != nil {
		return updated, err
	}
	r.invalidate(p.ID)
	return updated, nil
}

func (r *CachedProductRepository) Delete(id string) error {
	if err := r.inner.Delete(id); err != nil {
		return err
	}
	r.invalidate(id)
	return nil
}

// Exists is not cached: it backs the uniqueness check and must see the latest
// writes.
func (r *CachedProductRepository) Exists(id string) (bool, error) {
	return r.inner.Exists(id)
}

func (r *CachedProductRepository) invalidate(id string) {
	if err := r.cache.Delete(allProductsKey, productKey(id)); err != nil {
		r.log.Warn(context.Background(), "cache invalidation failed", "id", id, "error", err)
	}
}
