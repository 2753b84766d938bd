// Package resilience shields the quoting path from a misbehaving routing
// upstream. A Breaker sheds calls once consecutive failures pass a threshold,
// then probes cautiously before letting full traffic back through.
package resilience

import (
	"context"
	"sync"
	"time"

	"github.com/islaride/islaride-shared/errors"
)

// State is the breaker's admission state.
type State int

const (
	// StateClosed admits every call.
	StateClosed State = iota
	// StateOpen rejects every call until the open interval has elapsed.
	StateOpen
	// StateHalfOpen admits a handful of probe calls to test recovery.
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrCircuitOpen is returned without touching the upstream while load is
// being shed. It carries the SERVICE_UNAVAILABLE code so callers can surface
// it without importing this package.
var ErrCircuitOpen = errors.Unavailable("routing upstream unavailable: circuit open")

// IsCircuitOpen reports whether err is a shed-load rejection.
func IsCircuitOpen(err error) bool {
	return errors.Code(err) == errors.CodeUnavailable
}

// BreakerConfig tunes the breaker guarding one upstream.
type BreakerConfig struct {
	// Upstream names the guarded dependency, e.g. "maps.google".
	Upstream string

	// FailureThreshold is how many consecutive failures open the circuit.
	FailureThreshold int

	// RecoveryThreshold is how many probe successes close it again.
	RecoveryThreshold int

	// OpenFor is how long calls are rejected before probing starts.
	OpenFor time.Duration

	// HalfOpenProbes caps how many calls are admitted while half-open.
	HalfOpenProbes int

	// OnStateChange, when set, observes transitions.
	OnStateChange func(upstream string, from, to State)
}

// DefaultBreakerConfig returns the tuning used for the Google clients: open
// after 5 straight failures, shed for 30s, close after 2 good probes.
func DefaultBreakerConfig(upstream string) BreakerConfig {
	return BreakerConfig{
		Upstream:          upstream,
		FailureThreshold:  5,
		RecoveryThreshold: 2,
		OpenFor:           30 * time.Second,
		HalfOpenProbes:    3,
	}
}

// Breaker tracks upstream health and decides per call whether the upstream
// may be contacted. Safe for concurrent use.
type Breaker struct {
	config BreakerConfig

	mu        sync.RWMutex
	state     State
	failures  int
	successes int
	probes    int
	openedAt  time.Time
}

// NewBreaker creates a breaker, filling zero config fields with defaults.
func NewBreaker(config BreakerConfig) *Breaker {
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = 5
	}
	if config.RecoveryThreshold <= 0 {
		config.RecoveryThreshold = 2
	}
	if config.OpenFor <= 0 {
		config.OpenFor = 30 * time.Second
	}
	if config.HalfOpenProbes <= 0 {
		config.HalfOpenProbes = 3
	}

	return &Breaker{
		config: config,
		state:  StateClosed,
	}
}

// Do runs fn if the breaker admits the call. Rejections return ErrCircuitOpen
// without calling fn. A context that is already done is returned as-is and
// not counted against the upstream.
func (b *Breaker) Do(ctx context.Context, fn func(context.Context) error) error {
	if !b.admit() {
		return ErrCircuitOpen
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	err := fn(ctx)
	b.record(err)
	return err
}

func (b *Breaker) admit() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		return true

	case StateOpen:
		if time.Since(b.openedAt) < b.config.OpenFor {
			return false
		}
		b.transition(StateHalfOpen)
		b.probes = 1
		return true

	case StateHalfOpen:
		if b.probes >= b.config.HalfOpenProbes {
			return false
		}
		b.probes++
		return true

	default:
		return false
	}
}

func (b *Breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err == nil {
		b.recordSuccess()
	} else {
		b.recordFailure()
	}
}

func (b *Breaker) recordSuccess() {
	switch b.state {
	case StateClosed:
		b.failures = 0

	case StateHalfOpen:
		b.successes++
		if b.successes >= b.config.RecoveryThreshold {
			b.transition(StateClosed)
		}
	}
}

func (b *Breaker) recordFailure() {
	switch b.state {
	case StateClosed:
		b.failures++
		if b.failures >= b.config.FailureThreshold {
			b.transition(StateOpen)
		}

	case StateHalfOpen:
		// One bad probe is enough; the upstream is still down.
		b.transition(StateOpen)
	}
}

func (b *Breaker) transition(to State) {
	if b.state == to {
		return
	}

	from := b.state
	b.state = to
	b.failures = 0
	b.successes = 0
	b.probes = 0
	if to == StateOpen {
		b.openedAt = time.Now()
	}

	if b.config.OnStateChange != nil {
		// Callbacks must not block admission decisions.
		go b.config.OnStateChange(b.config.Upstream, from, to)
	}
}

// State returns the current admission state.
func (b *Breaker) State() State {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

// Reset closes the breaker and clears its counters.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = StateClosed
	b.failures = 0
	b.successes = 0
	b.probes = 0
}

// Breakers are shared per upstream name so every client of the same
// dependency sees the same admission decisions.
var (
	upstreamsMu sync.Mutex
	upstreams   = make(map[string]*Breaker)
)

// ForUpstream returns the shared breaker for an upstream, creating it with
// default tuning on first use.
func ForUpstream(upstream string) *Breaker {
	upstreamsMu.Lock()
	defer upstreamsMu.Unlock()

	if b, ok := upstreams[upstream]; ok {
		return b
	}

	b := NewBreaker(DefaultBreakerConfig(upstream))
	upstreams[upstream] = b
	return b
}
