package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"shortkey/internal/cache"
	"shortkey/internal/database"
	"shortkey/internal/entities"
	"shortkey/internal/metrics"
	"shortkey/internal/models"
	"shortkey/internal/repository"
	"shortkey/internal/shortener"
)

// URLConfig carries the tunables of the short-code lifecycle.
type URLConfig struct {
	BaseURL          string
	CacheDefaultTTL  time.Duration // cache TTL for mappings without expiry at creation
	ResolveRefillTTL time.Duration // refill TTL for non-expiring mappings
	ResolveRefillCap time.Duration // upper bound on refill TTL for expiring mappings
	MaxAttempts      int           // code reservation attempts before giving up
}

// URLService defines the interface for short URL business logic
type URLService interface {
	Shorten(ctx context.Context, originalURL string, ttlSeconds *int64, userID int64) (*models.ShortenResponse, error)
	Resolve(ctx context.Context, code string) (string, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.URLInfoResponse, error)
	Info(ctx context.Context, code string) (*models.URLInfoResponse, error)
	Delete(ctx context.Context, code string, userID int64) error
}

type urlService struct {
	urls        repository.URLRepository
	clicks      repository.ClickRepository
	cacheClient cache.Cache
	generator   shortener.Generator
	tx          database.Transactor
	cfg         URLConfig
}

// NewURLService creates a new URL service. cacheClient may be nil, in which
// case every resolve goes to the database.
func NewURLService(
	urls repository.URLRepository,
	clicks repository.ClickRepository,
	cacheClient cache.Cache,
	generator shortener.Generator,
	tx database.Transactor,
	cfg URLConfig,
) URLService {
	return &urlService{
		urls:        urls,
		clicks:      clicks,
		cacheClient: cacheClient,
		generator:   generator,
		tx:          tx,
		cfg:         cfg,
	}
}

func cacheKey(code string) string {
	return "url:" + code
}

// Shorten reserves a unique code by inserting it as the primary key, retrying
// on collision with a fresh candidate. The cache is seeded only after the
// durable commit; a concurrent resolve between the two still succeeds via the
// database.
func (s *urlService) Shorten(ctx context.Context, originalURL string, ttlSeconds *int64, userID int64) (*models.ShortenResponse, error) {
	var expiresAt *time.Time
	if ttlSeconds != nil && *ttlSeconds > 0 {
		t := time.Now().Add(time.Duration(*ttlSeconds) * time.Second)
		expiresAt = &t
	}

	var mapping *entities.URLMapping
	for attempt := 0; attempt < s.cfg.MaxAttempts; attempt++ {
		code := s.generator.Next()

		created, err := s.urls.Create(ctx, code, originalURL, userID, expiresAt)
		if errors.Is(err, repository.ErrDuplicate) {
			continue
		}
		if err != nil {
			return nil, err
		}
		mapping = created
		break
	}
	if mapping == nil {
		return nil, ErrCodeSpaceExhausted
	}

	metrics.URLsCreated.Inc()

	cacheTTL := s.cfg.CacheDefaultTTL
	if ttlSeconds != nil && *ttlSeconds > 0 {
		cacheTTL = time.Duration(*ttlSeconds) * time.Second
	}
	s.cacheSet(ctx, mapping.Code, mapping.URL, cacheTTL)

	return &models.ShortenResponse{
		Code:     mapping.Code,
		ShortURL: s.cfg.BaseURL + "/" + mapping.Code,
	}, nil
}

// Resolve returns the destination URL for a code, or ErrNotFound when the code
// is unknown or expired. Expired mappings are deleted on discovery.
func (s *urlService) Resolve(ctx context.Context, code string) (string, error) {
	if s.cacheClient != nil {
		url, err := s.cacheClient.Get(ctx, cacheKey(code))
		if err == nil {
			metrics.Redirects.WithLabelValues("cache").Inc()
			return url, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			log.Printf("Warning: cache lookup failed for %s: %v", code, err)
		}
	}

	mapping, err := s.urls.FindByCode(ctx, code)
	if errors.Is(err, repository.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}

	now := time.Now()
	if mapping.Expired(now) {
		// Lazy expiry. The delete is idempotent, so two resolvers racing on
		// the same stale row are fine.
		if err := s.urls.DeleteByCode(ctx, code); err != nil {
			log.Printf("Warning: failed to delete expired mapping %s: %v", code, err)
		}
		return "", ErrNotFound
	}

	refillTTL := s.cfg.ResolveRefillTTL
	if mapping.ExpiresAt != nil {
		remaining := mapping.ExpiresAt.Sub(now)
		if remaining > s.cfg.ResolveRefillCap {
			remaining = s.cfg.ResolveRefillCap
		}
		refillTTL = remaining
	}
	s.cacheSet(ctx, code, mapping.URL, refillTTL)

	metrics.Redirects.WithLabelValues("store").Inc()
	return mapping.URL, nil
}

// ListByUser returns the caller's mappings, newest first, with click counts
// joined in from one grouped query.
func (s *urlService) ListByUser(ctx context.Context, userID int64) ([]*models.URLInfoResponse, error) {
	mappings, err := s.urls.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	counts, err := s.clicks.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	infos := make([]*models.URLInfoResponse, len(mappings))
	for i, mapping := range mappings {
		info := s.toInfo(mapping)
		clicks := counts[mapping.Code] // missing codes resolve to 0
		info.Clicks = &clicks
		infos[i] = info
	}

	return infos, nil
}

// Info returns public details for a mapping, without click counts.
func (s *urlService) Info(ctx context.Context, code string) (*models.URLInfoResponse, error) {
	mapping, err := s.urls.FindByCode(ctx, code)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return s.toInfo(mapping), nil
}

// Delete removes a mapping the caller owns, its click events first, inside one
// transaction. Cache invalidation is best-effort after commit.
func (s *urlService) Delete(ctx context.Context, code string, userID int64) error {
	mapping, err := s.urls.FindByCode(ctx, code)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if mapping.UserID != userID {
		return ErrForbidden
	}

	err = s.tx.Transact(ctx, func(tx *sql.Tx) error {
		if err := s.clicks.WithTx(tx).DeleteByCode(ctx, code); err != nil {
			return err
		}
		return s.urls.WithTx(tx).DeleteByCode(ctx, code)
	})
	if err != nil {
		return fmt.Errorf("failed to delete mapping: %w", err)
	}

	if s.cacheClient != nil {
		if err := s.cacheClient.Delete(ctx, cacheKey(code)); err != nil {
			log.Printf("Warning: failed to invalidate cache for %s: %v", code, err)
		}
	}
	return nil
}

func (s *urlService) toInfo(mapping *entities.URLMapping) *models.URLInfoResponse {
	info := &models.URLInfoResponse{
		Code:      mapping.Code,
		URL:       mapping.URL,
		ShortURL:  s.cfg.BaseURL + "/" + mapping.Code,
		CreatedAt: mapping.CreatedAt.Unix(),
		TTLActive: true,
	}
	if mapping.ExpiresAt != nil {
		expiresAt := mapping.ExpiresAt.Unix()
		info.ExpiresAt = &expiresAt
		info.TTLActive = mapping.ExpiresAt.After(time.Now())
	}
	return info
}

func (s *urlService) cacheSet(ctx context.Context, code, url string, ttl time.Duration) {
	if s.cacheClient == nil || ttl <= 0 {
		return
	}
	if err := s.cacheClient.Set(ctx, cacheKey(code), url, ttl); err != nil {
		log.Printf("Warning: failed to cache %s: %v", code, err)
	}
}
