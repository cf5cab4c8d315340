package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shortkey/internal/entities"
)

// URLRepository defines the interface for short URL database operations
type URLRepository interface {
	Create(ctx context.Context, code, originalURL string, userID int64, expiresAt *time.Time) (*entities.URLMapping, error)
	FindByCode(ctx context.Context, code string) (*entities.URLMapping, error)
	ListByUser(ctx context.Context, userID int64) ([]*entities.URLMapping, error)
	DeleteByCode(ctx context.Context, code string) error
	DeleteByUser(ctx context.Context, userID int64) error
	Count(ctx context.Context) (int64, error)
	WithTx(tx *sql.Tx) URLRepository
}

type urlRepository struct {
	db DBTX
}

// NewURLRepository creates a new URL repository
func NewURLRepository(db DBTX) URLRepository {
	return &urlRepository{db: db}
}

func (r *urlRepository) WithTx(tx *sql.Tx) URLRepository {
	return &urlRepository{db: tx}
}

// Create inserts a new mapping with the code as primary key. Returns
// ErrDuplicate when the code is already taken, which the shortening service
// uses to retry with a fresh candidate.
func (r *urlRepository) Create(ctx context.Context, code, originalURL string, userID int64, expiresAt *time.Time) (*entities.URLMapping, error) {
	// Store expiry in UTC
	var expiresAtValue any
	if expiresAt != nil {
		expiresAtValue = expiresAt.UTC()
	}

	query := `
		INSERT INTO url_mappings (code, original_url, user_id, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING code, original_url, user_id, expires_at, created_at
	`

	var mapping entities.URLMapping
	err := r.db.QueryRowContext(ctx, query, code, originalURL, userID, expiresAtValue).Scan(
		&mapping.Code,
		&mapping.URL,
		&mapping.UserID,
		&mapping.ExpiresAt,
		&mapping.CreatedAt,
	)
	if isUniqueViolation(err) {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create mapping: %w", err)
	}

	return &mapping, nil
}

// FindByCode finds a mapping by its code, expired or not. Expiry is the
// caller's concern so that lazy deletion stays in one place.
func (r *urlRepository) FindByCode(ctx context.Context, code string) (*entities.URLMapping, error) {
	query := `
		SELECT code, original_url, user_id, expires_at, created_at
		FROM url_mappings
		WHERE code = $1
	`

	var mapping entities.URLMapping
	err := r.db.QueryRowContext(ctx, query, code).Scan(
		&mapping.Code,
		&mapping.URL,
		&mapping.UserID,
		&mapping.ExpiresAt,
		&mapping.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find mapping: %w", err)
	}

	return &mapping, nil
}

// ListByUser returns all mappings owned by a user, newest first.
func (r *urlRepository) ListByUser(ctx context.Context, userID int64) ([]*entities.URLMapping, error) {
	query := `
		SELECT code, original_url, user_id, expires_at, created_at
		FROM url_mappings
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list mappings: %w", err)
	}
	defer rows.Close()

	var mappings []*entities.URLMapping
	for rows.Next() {
		var mapping entities.URLMapping
		if err := rows.Scan(
			&mapping.Code,
			&mapping.URL,
			&mapping.UserID,
			&mapping.ExpiresAt,
			&mapping.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan mapping: %w", err)
		}
		mappings = append(mappings, &mapping)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating mappings: %w", err)
	}

	return mappings, nil
}

// DeleteByCode removes a mapping. Deleting an already-deleted code is not an
// error; concurrent lazy-expiry deletes must stay idempotent.
func (r *urlRepository) DeleteByCode(ctx context.Context, code string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM url_mappings WHERE code = $1`, code); err != nil {
		return fmt.Errorf("failed to delete mapping: %w", err)
	}
	return nil
}

// DeleteByUser removes every mapping owned by a user.
func (r *urlRepository) DeleteByUser(ctx context.Context, userID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM url_mappings WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to delete mappings: %w", err)
	}
	return nil
}

// Count returns the total number of mappings.
func (r *urlRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM url_mappings`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count mappings: %w", err)
	}
	return count, nil
}
