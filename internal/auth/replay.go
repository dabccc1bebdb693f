package auth

import (
	"sync"
	"time"

	"github.com/RunOnFlux/ssp-relay-sub000/internal/config"
	"github.com/dropbox/godropbox/time2"
	"github.com/rs/zerolog/log"
)

// ReplayGuard is a process-local single-use nonce cache. It provides a
// freshness guarantee, not a durability one: it rebuilds empty on restart
// and the timestamp window bounds what a restart can forget.
type ReplayGuard struct {
	clock      time2.Clock
	ttl        time.Duration
	capacity   int
	sweepEvery time.Duration

	mu     sync.Mutex
	nonces map[string]time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// NewReplayGuard returns a stopped guard; call Start to run the background
// sweep.
func NewReplayGuard(cfg config.Auth, clock time2.Clock) *ReplayGuard {
	return &ReplayGuard{
		clock:      clock,
		ttl:        cfg.NonceTTL,
		capacity:   cfg.NonceCapacity,
		sweepEvery: cfg.NonceSweep,
		nonces:     make(map[string]time.Time),
		stop:       make(chan struct{}),
	}
}

// CheckAndRecord atomically rejects a nonce seen within the TTL window and
// records it otherwise. The check-and-insert is a single critical section so
// two concurrent requests can never both pass with the same nonce.
func (g *ReplayGuard) CheckAndRecord(nonce string) error {
	now := g.clock.Now()

	g.mu.Lock()
	defer g.mu.Unlock()

	if firstSeen, ok := g.nonces[nonce]; ok && now.Sub(firstSeen) < g.ttl {
		return NewError(ReasonNonceAlreadyUsed)
	}

	g.nonces[nonce] = now

	// Eager sweep bounds memory under load.
	if len(g.nonces) > g.capacity {
		g.sweepLocked(now)
	}

	return nil
}

// Len returns the current number of cached nonces.
func (g *ReplayGuard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return len(g.nonces)
}

// Start runs the periodic sweep until Stop is called.
func (g *ReplayGuard) Start() {
	go func() {
		ticker := time.NewTicker(g.sweepEvery)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				g.Sweep()
			case <-g.stop:
				return
			}
		}
	}()
}

// Stop terminates the background sweep. Safe to call more than once.
func (g *ReplayGuard) Stop() {
	g.stopOnce.Do(func() {
		close(g.stop)
	})
}

// Sweep removes entries older than the TTL.
func (g *ReplayGuard) Sweep() {
	now := g.clock.Now()

	g.mu.Lock()
	defer g.mu.Unlock()

	g.sweepLocked(now)
}

func (g *ReplayGuard) sweepLocked(now time.Time) {
	before := len(g.nonces)
	for nonce, firstSeen := range g.nonces {
		if now.Sub(firstSeen) >= g.ttl {
			delete(g.nonces, nonce)
		}
	}

	if evicted := before - len(g.nonces); evicted > 0 {
		log.Debug().Int("evicted", evicted).Int("remaining", len(g.nonces)).Msg("Swept expired nonces")
	}
}
