// Package analytics records fire-and-forget usage events. Tracking never
// blocks the caller: events go through a bounded buffer and are dropped when
// it is full.
package analytics

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/rshade/listmembers/internal/logging"
)

// Event names emitted by the members view.
const (
	EventRefresh        = "list:members:refresh"
	EventLoadMore       = "list:members:load_more"
	EventRetryLoadMore  = "list:members:retry_load_more"
	EventRetryFromEmpty = "list:members:retry_from_empty"
	EventOpenProfile    = "list:members:open_profile"
	EventEditMembership = "list:members:edit_membership"
	EventCopyHandle     = "list:members:copy_handle"
)

const defaultBufferSize = 64

// Tracker records named events.
type Tracker interface {
	Track(ctx context.Context, event string)
}

// Nop discards every event.
type Nop struct{}

// Track implements Tracker.
func (Nop) Track(context.Context, string) {}

type trackedEvent struct {
	ctx  context.Context
	name string
}

// LogTracker writes events to a zerolog logger from a background goroutine.
type LogTracker struct {
	logger zerolog.Logger
	events chan trackedEvent
	done   chan struct{}

	closeOnce sync.Once
	mu        sync.RWMutex
	closed    bool
}

// NewLogTracker starts a LogTracker. Call Close to flush and stop it.
func NewLogTracker(logger zerolog.Logger) *LogTracker {
	return NewLogTrackerWithBuffer(logger, defaultBufferSize)
}

// NewLogTrackerWithBuffer starts a LogTracker queueing up to size events.
func NewLogTrackerWithBuffer(logger zerolog.Logger, size int) *LogTracker {
	if size <= 0 {
		size = defaultBufferSize
	}
	t := &LogTracker{
		logger: logging.ComponentLogger(logger, "analytics"),
		events: make(chan trackedEvent, size),
		done:   make(chan struct{}),
	}
	go t.run()
	return t
}

// Track enqueues event, dropping it if the buffer is full or the tracker is closed.
func (t *LogTracker) Track(ctx context.Context, event string) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.closed {
		return
	}
	select {
	case t.events <- trackedEvent{ctx: ctx, name: event}:
	default:
	}
}

// Close stops accepting events and waits for queued ones to be written.
func (t *LogTracker) Close() {
	t.closeOnce.Do(func() {
		t.mu.Lock()
		t.closed = true
		close(t.events)
		t.mu.Unlock()
		<-t.done
	})
}

func (t *LogTracker) run() {
	defer close(t.done)
	for ev := range t.events {
		t.logger.Info().Ctx(ev.ctx).Str("event", ev.name).Msg("track")
	}
}

// Recorder keeps events in memory. Safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []string
}

// Track implements Tracker.
func (r *Recorder) Track(_ context.Context, event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	copy(out, r.events)
	return out
}
