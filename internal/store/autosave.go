package store

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultAutoSaveInterval is used when no interval is configured.
const DefaultAutoSaveInterval = 30 * time.Second

// autosaver owns the recurring auto-save timer that re-persists the cache
// while the file backend is active. At most one timer is alive at a time;
// Start while running is a no-op and Stop is synchronous and idempotent.
//
// The limiter caps timer-driven writes to one per interval even if Start
// races a draining predecessor or the ticker misfires after a suspend.
type autosaver struct {
	mu       sync.Mutex
	interval time.Duration
	save     func(context.Context) error

	cancel  context.CancelFunc
	done    chan struct{}
	limiter *rate.Limiter
}

func newAutosaver(interval time.Duration, save func(context.Context) error) *autosaver {
	if interval <= 0 {
		interval = DefaultAutoSaveInterval
	}
	return &autosaver{
		interval: interval,
		save:     save,
		limiter:  rate.NewLimiter(rate.Every(interval), 1),
	}
}

// Start launches the timer goroutine if it is not already running.
func (a *autosaver) Start() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	a.cancel = cancel
	a.done = done
	go a.run(ctx, done)
}

// Stop cancels the timer and waits for the goroutine to exit. Stopping an
// already-stopped timer is a no-op. Must not be called while holding the
// store mutex: the timer callback takes that mutex, so waiting under it
// would deadlock.
func (a *autosaver) Stop() {
	a.mu.Lock()
	cancel, done := a.cancel, a.done
	a.cancel, a.done = nil, nil
	a.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// halt cancels the timer without waiting. Safe to call from inside the save
// path (and therefore from the timer goroutine itself).
func (a *autosaver) halt() {
	a.mu.Lock()
	cancel := a.cancel
	a.cancel, a.done = nil, nil
	a.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

func (a *autosaver) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !a.limiter.Allow() {
				continue
			}
			if err := a.save(ctx); err != nil {
				log.Printf("Auto-save failed: %v", err)
			}
		}
	}
}
