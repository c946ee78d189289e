package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/aitools/platform-api/internal/core/domain"
	"github.com/aitools/platform-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	writeTimeout   = 5 * time.Second
)

var (
	ErrQueueFull = errors.New("audit queue full")
	ErrClosed    = errors.New("audit dispatcher closed")
)

// AuditDispatcher writes auth events to a sink off the request path. Events
// are sharded by email so one account's events are written in order.
type AuditDispatcher struct {
	workers []chan *domain.AuthEvent
	sink    ports.AuthEventRepository
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewAuditDispatcher creates an AuditDispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewAuditDispatcher(numWorkers int, sink ports.AuthEventRepository, log zerolog.Logger) *AuditDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &AuditDispatcher{
		workers: make([]chan *domain.AuthEvent, numWorkers),
		sink:    sink,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan *domain.AuthEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Writes keep ctx's values but not its
// cancellation, so Close can drain what is already queued.
func (d *AuditDispatcher) Start(ctx context.Context) {
	base := context.WithoutCancel(ctx)
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(base, i, ch)
	}
}

// InsertEvent queues event without blocking. It satisfies
// ports.AuthEventRepository so the auth gateway can use it directly.
func (d *AuditDispatcher) InsertEvent(_ context.Context, event *domain.AuthEvent) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return ErrClosed
	}
	select {
	case d.workers[d.shardIndex(event.Email)] <- event:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting events and waits until queued ones are written.
func (d *AuditDispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for _, ch := range d.workers {
		close(ch)
	}
	d.mu.Unlock()

	d.wg.Wait()
}

// shardIndex maps an email deterministically to a worker index.
func (d *AuditDispatcher) shardIndex(email string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(email))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *AuditDispatcher) runWorker(ctx context.Context, id int, ch <-chan *domain.AuthEvent) {
	defer d.wg.Done()

	for event := range ch {
		writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
		err := d.sink.InsertEvent(writeCtx, event)
		cancel()

		if err != nil {
			d.log.Error().Err(err).
				Str("event", string(event.Type)).
				Str("email", event.Email).
				Int("worker_id", id).
				Msg("auth event write failed")
		}
	}
}
