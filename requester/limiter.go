package requester

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// hostLimiter caps simultaneous outbound connections per external host. The
// discovery pipeline fans out per language, indexer and torrent with no
// natural bound, so the cap is what keeps a busy request from exhausting
// sockets on one upstream.
type hostLimiter struct {
	mu   sync.Mutex
	cap  int64
	sems map[string]*semaphore.Weighted
}

func newHostLimiter(perHost int64) *hostLimiter {
	return &hostLimiter{cap: perHost, sems: make(map[string]*semaphore.Weighted)}
}

func (l *hostLimiter) acquire(ctx context.Context, host string) (func(), error) {
	l.mu.Lock()
	sem, ok := l.sems[host]
	if !ok {
		sem = semaphore.NewWeighted(l.cap)
		l.sems[host] = sem
	}
	l.mu.Unlock()

	if err := sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	return func() { sem.Release(1) }, nil
}
