package workers

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"shortkey/internal/entities"
	"shortkey/internal/metrics"
	"shortkey/internal/repository"
)

// Click is the unit of work queued per successful redirect.
type Click struct {
	Code      string
	ClickedAt time.Time
	IPAddress string
	UserAgent string
	Referer   string
}

// Recorder persists click events on a bounded worker pool so that recording
// never sits on the redirect path. Enqueueing is non-blocking; a full queue
// drops the click. Workers use a background context on purpose: a record must
// outlive the request that scheduled it.
type Recorder struct {
	clicks  repository.ClickRepository
	queue   chan Click
	workers int
	wg      sync.WaitGroup
}

// NewRecorder creates a recorder with the given worker count and queue size.
func NewRecorder(clicks repository.ClickRepository, workers, queueSize int) *Recorder {
	return &Recorder{
		clicks:  clicks,
		queue:   make(chan Click, queueSize),
		workers: workers,
	}
}

// Start launches the worker goroutines.
func (r *Recorder) Start() {
	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go r.worker()
	}
	log.Printf("Started %d click worker(s)", r.workers)
}

// Record enqueues a click without blocking. Returns false when the queue is
// full and the click was dropped.
func (r *Recorder) Record(click Click) bool {
	select {
	case r.queue <- click:
		return true
	default:
		metrics.ClicksDropped.Inc()
		log.Printf("Warning: click queue full, dropping click for %s", click.Code)
		return false
	}
}

// Stop closes the queue and waits for the workers to drain it.
func (r *Recorder) Stop() {
	close(r.queue)
	r.wg.Wait()
}

func (r *Recorder) worker() {
	defer r.wg.Done()
	for click := range r.queue {
		r.persist(click)
	}
}

func (r *Recorder) persist(click Click) {
	event := &entities.ClickEvent{
		Code:      click.Code,
		ClickedAt: click.ClickedAt,
		IPAddress: click.IPAddress,
		UserAgent: click.UserAgent,
		Referer:   click.Referer,
	}

	err := r.clicks.Insert(context.Background(), event)
	if errors.Is(err, repository.ErrNotFound) {
		// Mapping deleted between redirect and record; drop silently.
		metrics.ClicksDropped.Inc()
		return
	}
	if err != nil {
		log.Printf("ERROR: failed to record click for %s: %v", click.Code, err)
		return
	}
	metrics.ClicksRecorded.Inc()
}
