package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rogerio-castellano/product-catalog/internal/models"
)

const queryTimeout = 3 * time.Second

// uniqueViolation is the Postgres SQLSTATE for unique_violation.
const uniqueViolation = "23505"

type PostgresProductRepository struct {
	db *sql.DB
}

func NewPostgresProductRepository(db *sql.DB) *PostgresProductRepository {
	return &PostgresProductRepository{db: db}
}

func (r *PostgresProductRepository) Create(p models.Product) (models.Product, error) {
	query := `INSERT INTO products (id, name, description, logo, date_release, date_revision) VALUES ($1, $2, $3, $4, $5, $6)`
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, query, p.ID, p.Name, p.Description, p.Logo, p.DateRelease, p.DateRevision)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return models.Product{}, ErrDuplicatedValueUnique
		}
		return models.Product{}, fmt.Errorf("failed to insert product: %w", err)
	}
	return p, nil
}

func (r *PostgresProductRepository) GetAll() ([]models.Product, error) {
	query := `SELECT id, name, description, logo, date_release, date_revision FROM products ORDER BY created_at, id`
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Logo, &p.DateRelease, &p.DateRevision); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}
	return products, nil
}

func (r *PostgresProductRepository) GetByID(id string) (models.Product, error) {
	query := `SELECT id, name, description, logo, date_release, date_revision FROM products WHERE id = $1`
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	var p models.Product
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.Description, &p.Logo, &p.DateRelease, &p.DateRevision)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to get product: %w", err)
	}
	return p, nil
}

func (r *PostgresProductRepository) Update(p models.Product) (models.Product, error) {
	query := `UPDATE products SET name = $1, description = $2, logo = $3, date_release = $4, date_revision = $5 WHERE id = $6`
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, p.Name, p.Description, p.Logo, p.DateRelease, p.DateRevision, p.ID)
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to update product: %w", err)
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return models.Product{}, ErrProductNotFound
	}
	return p, nil
}

func (r *PostgresProductRepository) Delete(id string) error {
	query := `DELETE FROM products WHERE id = $1`
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *PostgresProductRepository) Exists(id string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to verify product id: %w", err)
	}
	return exists, nil
}
