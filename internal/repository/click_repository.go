package repository

import (
	"context"
	"database/sql"
	"fmt"

	"shortkey/internal/entities"
)

// CodeCount pairs a short code with its click count in aggregate queries.
type CodeCount struct {
	Code   string
	Clicks int64
}

// ClickRepository defines the interface for click event database operations
type ClickRepository interface {
	Insert(ctx context.Context, event *entities.ClickEvent) error
	CountByUser(ctx context.Context, userID int64) (map[string]int64, error)
	CountByCode(ctx context.Context) ([]CodeCount, error)
	CountAll(ctx context.Context) (int64, error)
	DeleteByCode(ctx context.Context, code string) error
	DeleteByUser(ctx context.Context, userID int64) error
	WithTx(tx *sql.Tx) ClickRepository
}

type clickRepository struct {
	db DBTX
}

// NewClickRepository creates a new click event repository
func NewClickRepository(db DBTX) ClickRepository {
	return &clickRepository{db: db}
}

func (r *clickRepository) WithTx(tx *sql.Tx) ClickRepository {
	return &clickRepository{db: tx}
}

// Insert appends a click event. Returns ErrNotFound when the referenced
// mapping no longer exists (raced against a delete); the recorder drops the
// event in that case.
func (r *clickRepository) Insert(ctx context.Context, event *entities.ClickEvent) error {
	query := `
		INSERT INTO click_events (code, clicked_at, ip_address, user_agent, referer)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		event.Code,
		event.ClickedAt.UTC(),
		event.IPAddress,
		event.UserAgent,
		event.Referer,
	)
	if isForeignKeyViolation(err) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to insert click: %w", err)
	}
	return nil
}

// CountByUser returns click counts grouped by code for every mapping the user
// owns. One aggregate query; the service joins the result in memory.
func (r *clickRepository) CountByUser(ctx context.Context, userID int64) (map[string]int64, error) {
	query := `
		SELECT c.code, COUNT(*)
		FROM click_events c
		JOIN url_mappings m ON m.code = c.code
		WHERE m.user_id = $1
		GROUP BY c.code
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count clicks by user: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var code string
		var count int64
		if err := rows.Scan(&code, &count); err != nil {
			return nil, fmt.Errorf("failed to scan click count: %w", err)
		}
		counts[code] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating click counts: %w", err)
	}

	return counts, nil
}

// CountByCode returns click counts grouped by code across all mappings.
func (r *clickRepository) CountByCode(ctx context.Context) ([]CodeCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT code, COUNT(*)
		FROM click_events
		GROUP BY code
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to count clicks by code: %w", err)
	}
	defer rows.Close()

	var counts []CodeCount
	for rows.Next() {
		var cc CodeCount
		if err := rows.Scan(&cc.Code, &cc.Clicks); err != nil {
			return nil, fmt.Errorf("failed to scan click count: %w", err)
		}
		counts = append(counts, cc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating click counts: %w", err)
	}

	return counts, nil
}

// CountAll returns the total number of click events.
func (r *clickRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM click_events`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count clicks: %w", err)
	}
	return count, nil
}

// DeleteByCode removes all click events for a code.
func (r *clickRepository) DeleteByCode(ctx context.Context, code string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM click_events WHERE code = $1`, code); err != nil {
		return fmt.Errorf("failed to delete clicks: %w", err)
	}
	return nil
}

// DeleteByUser removes all click events for every mapping the user owns.
func (r *clickRepository) DeleteByUser(ctx context.Context, userID int64) error {
	query := `
		DELETE FROM click_events
		WHERE code IN (SELECT code FROM url_mappings WHERE user_id = $1)
	`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to delete clicks: %w", err)
	}
	return nil
}
