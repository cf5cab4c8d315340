package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"shortkey/internal/entities"
)

// TokenRepository defines the interface for API token database operations
type TokenRepository interface {
	Create(ctx context.Context, userID int64, token uuid.UUID, label string) (*entities.APIToken, error)
	ListByUser(ctx context.Context, userID int64) ([]*entities.APIToken, error)
	// Authenticate resolves a presented token to its owning user id and
	// records the use. Returns ErrNotFound for unknown tokens.
	Authenticate(ctx context.Context, token uuid.UUID) (int64, error)
}

type tokenRepository struct {
	db DBTX
}

// NewTokenRepository creates a new API token repository
func NewTokenRepository(db DBTX) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) Create(ctx context.Context, userID int64, token uuid.UUID, label string) (*entities.APIToken, error) {
	query := `
		INSERT INTO api_tokens (user_id, token, label)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, token, label, created_at, last_used_at
	`

	var t entities.APIToken
	err := r.db.QueryRowContext(ctx, query, userID, token, label).Scan(
		&t.ID,
		&t.UserID,
		&t.Token,
		&t.Label,
		&t.CreatedAt,
		&t.LastUsedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create token: %w", err)
	}

	return &t, nil
}

func (r *tokenRepository) ListByUser(ctx context.Context, userID int64) ([]*entities.APIToken, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, token, label, created_at, last_used_at
		FROM api_tokens
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tokens: %w", err)
	}
	defer rows.Close()

	var tokens []*entities.APIToken
	for rows.Next() {
		var t entities.APIToken
		if err := rows.Scan(&t.ID, &t.UserID, &t.Token, &t.Label, &t.CreatedAt, &t.LastUsedAt); err != nil {
			return nil, fmt.Errorf("failed to scan token: %w", err)
		}
		tokens = append(tokens, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tokens: %w", err)
	}

	return tokens, nil
}

func (r *tokenRepository) Authenticate(ctx context.Context, token uuid.UUID) (int64, error) {
	var userID int64
	err := r.db.QueryRowContext(ctx, `
		UPDATE api_tokens
		SET last_used_at = now()
		WHERE token = $1
		RETURNING user_id
	`, token).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to authenticate token: %w", err)
	}

	return userID, nil
}
