package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/arvachan/solestore/internal/models"
)

// PostgresProductRepository implements read-only catalog access against a
// PostgreSQL database.
type PostgresProductRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresProductRepository creates a new PostgresProductRepository using
// the provided *sql.DB.
func NewPostgresProductRepository(db *sql.DB) *PostgresProductRepository {
	return &PostgresProductRepository{DB: db}
}

// Products fetches catalog entries, optionally restricted to one category.
// An empty category returns the whole catalog.
func (r *PostgresProductRepository) Products(ctx context.Context, category string) ([]models.Product, error) {
	query := `
		SELECT id, name, description, price, image_url, category, sizes, colors
		  FROM products`
	args := []any{}
	if category != "" {
		query += ` WHERE category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY name`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("Products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.Price, &p.ImageURL, &p.Category,
			pq.Array(&p.Sizes), pq.Array(&p.Colors),
		); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// ProductByID fetches a single catalog entry.
// Returns (nil, nil) when the product does not exist.
func (r *PostgresProductRepository) ProductByID(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, name, description, price, image_url, category, sizes, colors
		  FROM products WHERE id = $1
	`, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.ImageURL, &p.Category,
		pq.Array(&p.Sizes), pq.Array(&p.Colors),
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ProductByID: %w", err)
	}
	return &p, nil
}
