package repo

import (
	"errors"
	"fmt"
	"time"

	"github.com/rogerio-castellano/product-catalog/internal/models"
	"gorm.io/gorm"
)

// productRecord is the GORM row for a product. Dates are stored as
// YYYY-MM-DD text.
type productRecord struct {
	ID           string `gorm:"primarykey;size:10"`
	Name         string `gorm:"size:100;not null"`
	Description  string `gorm:"size:200;not null"`
	Logo         string `gorm:"not null"`
	DateRelease  string `gorm:"size:10;not null"`
	DateRevision string `gorm:"size:10;not null"`
	CreatedAt    time.Time
}

func (productRecord) TableName() string {
	return "products"
}

func toRecord(p models.Product) productRecord {
	return productRecord{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Logo:         p.Logo,
		DateRelease:  p.DateRelease.String(),
		DateRevision: p.DateRevision.String(),
	}
}

func (rec productRecord) toModel() (models.Product, error) {
	release, err := models.ParseDate(rec.DateRelease)
	if err != nil {
		return models.Product{}, err
	}
	revision, err := models.ParseDate(rec.DateRevision)
	if err != nil {
		return models.Product{}, err
	}
	return models.Product{
		ID:           rec.ID,
		Name:         rec.Name,
		Description:  rec.Description,
		Logo:         rec.Logo,
		DateRelease:  release,
		DateRevision: revision,
	}, nil
}

// GormProductRepository stores products through GORM, used with SQLite for
// local development.
type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// AutoMigrate creates or updates the products table.
func (r *GormProductRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&productRecord{})
}

func (r *GormProductRepository) Create(p models.Product) (models.Product, error) {
	exists, err := r.Exists(p.ID)
	if err != nil {
		return models.Product{}, err
	}
	if exists {
		return models.Product{}, ErrDuplicatedValueUnique
	}

	rec := toRecord(p)
	if err := r.db.Create(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.Product{}, ErrDuplicatedValueUnique
		}
		return models.Product{}, fmt.Errorf("failed to create product: %w", err)
	}
	return p, nil
}

func (r *GormProductRepository) GetAll() ([]models.Product, error) {
	var recs []productRecord
	if err := r.db.Order("created_at, id").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}

	products := make([]models.Product, 0, len(recs))
	for _, rec := range recs {
		p, err := rec.toModel()
		if err != nil {
			return nil, fmt.Errorf("corrupt product %q: %w", rec.ID, err)
		}
		products = append(products, p)
	}
	return products, nil
}

func (r *GormProductRepository) GetByID(id string) (models.Product, error) {
	var rec productRecord
	if err := r.db.First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Product{}, ErrProductNotFound
		}
		return models.Product{}, fmt.Errorf("failed to find product: %w", err)
	}
	return rec.toModel()
}

func (r *GormProductRepository) Update(p models.Product) (models.Product, error) {
	rec := toRecord(p)
	result := r.db.Model(&productRecord{}).Where("id = ?", p.ID).Updates(map[string]any{
		"name":          rec.Name,
		"description":   rec.Description,
		"logo":          rec.Logo,
		"date_release":  rec.DateRelease,
		"date_revision": rec.DateRevision,
	})
	if err := result.Error; err != nil {
		return models.Product{}, fmt.Errorf("failed to update product: %w", err)
	}
	if result.RowsAffected == 0 {
		return models.Product{}, ErrProductNotFound
	}
	return p, nil
}

func (r *GormProductRepository) Delete(id string) error {
	result := r.db.Delete(&productRecord{}, "id = ?", id)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *GormProductRepository) Exists(id string) (bool, error) {
	var count int64
	if err := r.db.Model(&productRecord{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to verify product id: %w", err)
	}
	return count > 0, nil
}
