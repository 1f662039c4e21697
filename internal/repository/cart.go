// Package repository provides persistence implementations for the storefront
// services using a PostgreSQL database.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/arvachan/solestore/internal/models"
	"github.com/arvachan/solestore/internal/variant"
)

// PostgresCartRepository implements cart line persistence against a
// PostgreSQL database. Every operation is scoped to one owning user.
type PostgresCartRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresCartRepository creates a new PostgresCartRepository using the
// provided *sql.DB.
func NewPostgresCartRepository(db *sql.DB) *PostgresCartRepository {
	return &PostgresCartRepository{DB: db}
}

// LinesByUser fetches all cart lines owned by userID, each joined with its
// catalog snapshot, in insertion order.
//
//	ctx:    context for cancellation and deadlines
//	userID: identifier of the owning user
//
// Returns a slice of models.CartLine or an error if the query or scanning
// fails.
func (r *PostgresCartRepository) LinesByUser(ctx context.Context, userID string) ([]models.CartLine, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT ci.id, ci.product_id, ci.quantity, ci.selected_size, ci.selected_color,
		       p.id, p.name, p.price, p.image_url
		  FROM cart_items ci
		  JOIN products p ON p.id = ci.product_id
		 WHERE ci.user_id = $1
		 ORDER BY ci.created_at
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("LinesByUser: %w", err)
	}
	defer rows.Close()

	var lines []models.CartLine
	for rows.Next() {
		var line models.CartLine
		if err := rows.Scan(
			&line.ID, &line.ProductID, &line.Quantity, &line.SelectedSize, &line.SelectedColor,
			&line.Product.ID, &line.Product.Name, &line.Product.Price, &line.Product.ImageURL,
		); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// FindLine fetches the single line matching the variant key for userID.
// Returns (nil, nil) when no such line exists.
func (r *PostgresCartRepository) FindLine(ctx context.Context, userID string, key variant.Key) (*models.CartLine, error) {
	var line models.CartLine
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, product_id, quantity, selected_size, selected_color
		  FROM cart_items
		 WHERE user_id = $1 AND product_id = $2 AND selected_size = $3 AND selected_color = $4
	`, userID, key.ProductID, key.Size, key.Color).Scan(
		&line.ID, &line.ProductID, &line.Quantity, &line.SelectedSize, &line.SelectedColor,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("FindLine: %w", err)
	}
	return &line, nil
}

// InsertLine creates a new line for userID with the given variant key and
// quantity. The row identifier is assigned here.
func (r *PostgresCartRepository) InsertLine(ctx context.Context, userID string, key variant.Key, quantity int) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO cart_items (id, user_id, product_id, quantity, selected_size, selected_color)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, uuid.NewString(), userID, key.ProductID, quantity, key.Size, key.Color)
	if err != nil {
		return fmt.Errorf("InsertLine: %w", err)
	}
	return nil
}

// UpdateQuantity sets the quantity of the one line matching the variant key
// for userID.
func (r *PostgresCartRepository) UpdateQuantity(ctx context.Context, userID string, key variant.Key, quantity int) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE cart_items SET quantity = $5
		 WHERE user_id = $1 AND product_id = $2 AND selected_size = $3 AND selected_color = $4
	`, userID, key.ProductID, key.Size, key.Color, quantity)
	if err != nil {
		return fmt.Errorf("UpdateQuantity: %w", err)
	}
	return nil
}

// DeleteLine removes the one line matching the variant key for userID.
func (r *PostgresCartRepository) DeleteLine(ctx context.Context, userID string, key variant.Key) error {
	_, err := r.DB.ExecContext(ctx, `
		DELETE FROM cart_items
		 WHERE user_id = $1 AND product_id = $2 AND selected_size = $3 AND selected_color = $4
	`, userID, key.ProductID, key.Size, key.Color)
	if err != nil {
		return fmt.Errorf("DeleteLine: %w", err)
	}
	return nil
}

// DeleteAllLines removes every line owned by userID.
func (r *PostgresCartRepository) DeleteAllLines(ctx context.Context, userID string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("DeleteAllLines: %w", err)
	}
	return nil
}
