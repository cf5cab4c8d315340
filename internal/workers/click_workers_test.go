package workers

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shortkey/internal/entities"
	"shortkey/internal/repository"
)

type recordingClickRepo struct {
	mu       sync.Mutex
	inserted []*entities.ClickEvent
	missing  map[string]bool
	block    chan struct{}
}

func (r *recordingClickRepo) Insert(ctx context.Context, event *entities.ClickEvent) error {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.missing[event.Code] {
		return repository.ErrNotFound
	}
	r.inserted = append(r.inserted, event)
	return nil
}

func (r *recordingClickRepo) events() []*entities.ClickEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*entities.ClickEvent(nil), r.inserted...)
}

func (r *recordingClickRepo) CountByUser(ctx context.Context, userID int64) (map[string]int64, error) {
	return nil, nil
}
func (r *recordingClickRepo) CountByCode(ctx context.Context) ([]repository.CodeCount, error) {
	return nil, nil
}
func (r *recordingClickRepo) CountAll(ctx context.Context) (int64, error)         { return 0, nil }
func (r *recordingClickRepo) DeleteByCode(ctx context.Context, code string) error { return nil }
func (r *recordingClickRepo) DeleteByUser(ctx context.Context, userID int64) error {
	return nil
}
func (r *recordingClickRepo) WithTx(tx *sql.Tx) repository.ClickRepository { return r }

func TestRecorder_RecordsClicks(t *testing.T) {
	repo := &recordingClickRepo{}
	recorder := NewRecorder(repo, 2, 16)
	recorder.Start()

	clickedAt := time.Now()
	ok := recorder.Record(Click{
		Code:      "abc1234",
		ClickedAt: clickedAt,
		IPAddress: "203.0.113.9",
		UserAgent: "curl/8.0",
		Referer:   "https://referrer.example.com",
	})
	assert.True(t, ok)

	recorder.Stop()

	events := repo.events()
	require.Len(t, events, 1)
	assert.Equal(t, "abc1234", events[0].Code)
	assert.Equal(t, "203.0.113.9", events[0].IPAddress)
	assert.Equal(t, "curl/8.0", events[0].UserAgent)
	assert.Equal(t, "https://referrer.example.com", events[0].Referer)
}

func TestRecorder_DropsWhenQueueFull(t *testing.T) {
	block := make(chan struct{})
	repo := &recordingClickRepo{block: block}
	recorder := NewRecorder(repo, 1, 1)
	recorder.Start()

	// First click occupies the worker, second fills the queue.
	require.True(t, recorder.Record(Click{Code: "one"}))
	// Give the worker a moment to pick up the first click.
	time.Sleep(10 * time.Millisecond)
	require.True(t, recorder.Record(Click{Code: "two"}))

	assert.False(t, recorder.Record(Click{Code: "three"}), "a full queue should drop the click")

	close(block)
	recorder.Stop()

	assert.Len(t, repo.events(), 2)
}

func TestRecorder_DropsOrphanedClicks(t *testing.T) {
	repo := &recordingClickRepo{missing: map[string]bool{"gone123": true}}
	recorder := NewRecorder(repo, 1, 16)
	recorder.Start()

	require.True(t, recorder.Record(Click{Code: "gone123"}))
	require.True(t, recorder.Record(Click{Code: "here123"}))

	recorder.Stop()

	events := repo.events()
	require.Len(t, events, 1)
	assert.Equal(t, "here123", events[0].Code)
}

func TestRecorder_StopDrainsQueue(t *testing.T) {
	repo := &recordingClickRepo{}
	recorder := NewRecorder(repo, 4, 64)
	recorder.Start()

	for i := 0; i < 50; i++ {
		require.True(t, recorder.Record(Click{Code: "abc1234", ClickedAt: time.Now()}))
	}

	recorder.Stop()

	assert.Len(t, repo.events(), 50)
}
