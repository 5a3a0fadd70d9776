package repo

import (
	"errors"

	"github.com/rogerio-castellano/product-catalog/internal/models"
)

// ProductRepository defines the interface for product data operations.
type ProductRepository interface {
	Create(product models.Product) (models.Product, error)
	GetAll() ([]models.Product, error)
	GetByID(id string) (models.Product, error)
	Update(product models.Product) (models.Product, error)
	Delete(id string) error
	Exists(id string) (bool, error)
}

// ErrProductNotFound is returned when a product is not found in the repository.
var ErrProductNotFound = errors.New("product not found")

// ErrDuplicatedValueUnique is returned when a product id is already taken.
var ErrDuplicatedValueUnique = errors.New("product id already exists")
