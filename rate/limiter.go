// Package rate budgets requests per client, one token bucket each.
package rate

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type Config struct {
	// Burst requests go through at once, then one per Interval.
	Burst    int
	Interval time.Duration
	// Buckets of clients idle for Expiry are dropped.
	Expiry time.Duration
}

type Limiter struct {
	cfg     Config
	mu      sync.Mutex
	clients map[string]*client
	done    chan struct{}
	once    sync.Once
}

type client struct {
	bucket   *rate.Limiter
	lastSeen time.Time
}

// New starts a limiter. Stop ends its sweeper.
func New(cfg Config) *Limiter {
	l := &Limiter{
		cfg:     cfg,
		clients: make(map[string]*client),
		done:    make(chan struct{}),
	}
	go l.sweeper()
	return l
}

// Allow takes a token from the bucket of id. When there is none it reports
// how long until the next one.
func (l *Limiter) Allow(id string) (bool, time.Duration) {
	now := time.Now()

	l.mu.Lock()
	c, ok := l.clients[id]
	if !ok {
		c = &client{bucket: rate.NewLimiter(rate.Every(l.cfg.Interval), l.cfg.Burst)}
		l.clients[id] = c
	}
	c.lastSeen = now
	l.mu.Unlock()

	res := c.bucket.ReserveN(now, 1)
	if !res.OK() {
		return false, l.cfg.Interval
	}
	if d := res.DelayFrom(now); d > 0 {
		res.CancelAt(now)
		return false, d
	}
	return true, 0
}

func (l *Limiter) Stop() {
	l.once.Do(func() { close(l.done) })
}

func (l *Limiter) sweeper() {
	t := time.NewTicker(time.Minute)
	defer t.Stop()

	for {
		select {
		case <-l.done:
			return
		case now := <-t.C:
			l.sweep(now)
		}
	}
}

func (l *Limiter) sweep(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for id, c := range l.clients {
		if now.Sub(c.lastSeen) > l.cfg.Expiry {
			delete(l.clients, id)
		}
	}
}
