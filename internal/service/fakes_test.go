package service

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"shortkey/internal/cache"
	"shortkey/internal/entities"
	"shortkey/internal/repository"
)

// fakeTx runs the transactional function directly against a nil *sql.Tx. The
// fake repositories ignore the handle, so the callback exercises the same code
// path as a real transaction.
type fakeTx struct {
	calls int
	err   error
}

func (f *fakeTx) Transact(ctx context.Context, fn func(*sql.Tx) error) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	return fn(nil)
}

// opLog records repository mutations across fakes so tests can assert ordering.
type opLog struct {
	mu  sync.Mutex
	ops []string
}

func (l *opLog) add(op string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ops = append(l.ops, op)
}

type fakeURLRepo struct {
	mu        sync.Mutex
	mappings  map[string]entities.URLMapping
	createErr error
	log       *opLog
}

func newFakeURLRepo() *fakeURLRepo {
	return &fakeURLRepo{mappings: make(map[string]entities.URLMapping)}
}

func (f *fakeURLRepo) put(m entities.URLMapping) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mappings[m.Code] = m
}

func (f *fakeURLRepo) Create(ctx context.Context, code, originalURL string, userID int64, expiresAt *time.Time) (*entities.URLMapping, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, exists := f.mappings[code]; exists {
		return nil, repository.ErrDuplicate
	}
	m := entities.URLMapping{
		Code:      code,
		URL:       originalURL,
		UserID:    userID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	f.mappings[code] = m
	return &m, nil
}

func (f *fakeURLRepo) FindByCode(ctx context.Context, code string) (*entities.URLMapping, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.mappings[code]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &m, nil
}

func (f *fakeURLRepo) ListByUser(ctx context.Context, userID int64) ([]*entities.URLMapping, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entities.URLMapping
	for _, m := range f.mappings {
		if m.UserID == userID {
			m := m
			out = append(out, &m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeURLRepo) DeleteByCode(ctx context.Context, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.log.add("urls.DeleteByCode:" + code)
	delete(f.mappings, code)
	return nil
}

func (f *fakeURLRepo) DeleteByUser(ctx context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.log.add("urls.DeleteByUser")
	for code, m := range f.mappings {
		if m.UserID == userID {
			delete(f.mappings, code)
		}
	}
	return nil
}

func (f *fakeURLRepo) Count(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.mappings)), nil
}

func (f *fakeURLRepo) WithTx(tx *sql.Tx) repository.URLRepository { return f }

type fakeClickRepo struct {
	mu           sync.Mutex
	countsByUser map[int64]map[string]int64
	countsByCode []repository.CodeCount
	total        int64
	log          *opLog
}

func newFakeClickRepo() *fakeClickRepo {
	return &fakeClickRepo{countsByUser: make(map[int64]map[string]int64)}
}

func (f *fakeClickRepo) Insert(ctx context.Context, event *entities.ClickEvent) error {
	return nil
}

func (f *fakeClickRepo) CountByUser(ctx context.Context, userID int64) (map[string]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := make(map[string]int64)
	for code, n := range f.countsByUser[userID] {
		counts[code] = n
	}
	return counts, nil
}

func (f *fakeClickRepo) CountByCode(ctx context.Context) ([]repository.CodeCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]repository.CodeCount(nil), f.countsByCode...), nil
}

func (f *fakeClickRepo) CountAll(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.total, nil
}

func (f *fakeClickRepo) DeleteByCode(ctx context.Context, code string) error {
	f.log.add("clicks.DeleteByCode:" + code)
	return nil
}

func (f *fakeClickRepo) DeleteByUser(ctx context.Context, userID int64) error {
	f.log.add("clicks.DeleteByUser")
	return nil
}

func (f *fakeClickRepo) WithTx(tx *sql.Tx) repository.ClickRepository { return f }

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*entities.User
	log    *opLog
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*entities.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, name, email, passwordHash, role string) (*entities.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return nil, repository.ErrDuplicate
		}
	}
	f.nextID++
	user := &entities.User{
		ID:           f.nextID,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    time.Now(),
	}
	f.users[user.ID] = user
	created := *user
	return &created, nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			found := *u
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id int64) (*entities.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	found := *u
	return &found, nil
}

func (f *fakeUserRepo) List(ctx context.Context) ([]*entities.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entities.User
	for _, u := range f.users {
		listed := *u
		out = append(out, &listed)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.log.add("users.Delete")
	if _, ok := f.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) Count(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.users)), nil
}

func (f *fakeUserRepo) WithTx(tx *sql.Tx) repository.UserRepository { return f }

type fakeTokenRepo struct {
	mu     sync.Mutex
	nextID int64
	tokens []*entities.APIToken
}

func (f *fakeTokenRepo) Create(ctx context.Context, userID int64, token uuid.UUID, label string) (*entities.APIToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	t := &entities.APIToken{
		ID:        f.nextID,
		UserID:    userID,
		Token:     token,
		Label:     label,
		CreatedAt: time.Now(),
	}
	f.tokens = append(f.tokens, t)
	return t, nil
}

func (f *fakeTokenRepo) ListByUser(ctx context.Context, userID int64) ([]*entities.APIToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entities.APIToken
	for _, t := range f.tokens {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTokenRepo) Authenticate(ctx context.Context, token uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tokens {
		if t.Token == token {
			now := time.Now()
			t.LastUsedAt = &now
			return t.UserID, nil
		}
	}
	return 0, repository.ErrNotFound
}

type cacheEntry struct {
	value string
	ttl   time.Duration
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	deleted []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]cacheEntry)}
}

func (f *fakeCache) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry, ok := f.entries[key]
	if !ok {
		return "", cache.ErrMiss
	}
	return entry.value, nil
}

func (f *fakeCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = cacheEntry{value: value, ttl: ttl}
	return nil
}

func (f *fakeCache) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	delete(f.entries, key)
	return nil
}

// stubGenerator yields a fixed sequence of codes, repeating the last one once
// the sequence runs out.
type stubGenerator struct {
	codes []string
	calls int
}

func (g *stubGenerator) Next() string {
	idx := g.calls
	if idx >= len(g.codes) {
		idx = len(g.codes) - 1
	}
	g.calls++
	return g.codes[idx]
}
