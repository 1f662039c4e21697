package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/arvachan/solestore/internal/models"
)

// PostgresProfileRepository implements profile persistence against a
// PostgreSQL database.
type PostgresProfileRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresProfileRepository creates a new PostgresProfileRepository using
// the provided *sql.DB.
func NewPostgresProfileRepository(db *sql.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{DB: db}
}

// ProfileByID fetches the profile row for the given identity ID.
// Returns (nil, nil) when no profile record exists yet.
func (r *PostgresProfileRepository) ProfileByID(ctx context.Context, id string) (*models.Profile, error) {
	var p models.Profile
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, email, full_name, role FROM profiles WHERE id = $1
	`, id).Scan(&p.ID, &p.Email, &p.FullName, &p.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ProfileByID: %w", err)
	}
	return &p, nil
}

// UpsertProfile inserts the profile row, or refreshes email and full name on
// conflict. The role is never downgraded by an upsert.
func (r *PostgresProfileRepository) UpsertProfile(ctx context.Context, p models.Profile) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO profiles (id, email, full_name, role)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			full_name = EXCLUDED.full_name
	`, p.ID, p.Email, p.FullName, p.Role)
	if err != nil {
		return fmt.Errorf("UpsertProfile: %w", err)
	}
	return nil
}
