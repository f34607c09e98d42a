package netsim

import (
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrNetworkHiccup is the one-shot transient failure injected by Do.
var ErrNetworkHiccup = errors.New("Demo network hiccup. Please retry.")

const (
	DefaultMinLatency  = 150 * time.Millisecond
	DefaultMaxLatency  = 450 * time.Millisecond
	DefaultFailureRate = 0.08
)

// Rand is the randomness Network draws from.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

type defaultRand struct{}

func (defaultRand) Float64() float64 { return rand.Float64() }
func (defaultRand) IntN(n int) int   { return rand.IntN(n) }

// DefaultRand draws from math/rand/v2's global source.
func DefaultRand() Rand { return defaultRand{} }

// Network simulates a remote backend in front of local operations: each call
// waits a uniform random latency and the first call that draws under the
// failure rate fails once with ErrNetworkHiccup. After that one failure the
// simulator never fails again until Reset.
type Network struct {
	mu            sync.Mutex
	rng           Rand
	sleep         func(time.Duration)
	minLatency    time.Duration
	maxLatency    time.Duration
	failureRate   float64
	disabled      bool
	hasFailedOnce bool
}

type Option func(*Network)

func WithRand(r Rand) Option {
	return func(n *Network) { n.rng = r }
}

// WithSleep replaces time.Sleep, mostly for tests.
func WithSleep(sleep func(time.Duration)) Option {
	return func(n *Network) { n.sleep = sleep }
}

func WithLatencyRange(min, max time.Duration) Option {
	return func(n *Network) {
		n.minLatency = min
		n.maxLatency = max
	}
}

func WithFailureRate(rate float64) Option {
	return func(n *Network) { n.failureRate = rate }
}

// Disabled turns the simulator into a pass-through.
func Disabled() Option {
	return func(n *Network) { n.disabled = true }
}

func New(opts ...Option) *Network {
	n := &Network{
		rng:         defaultRand{},
		sleep:       time.Sleep,
		minLatency:  DefaultMinLatency,
		maxLatency:  DefaultMaxLatency,
		failureRate: DefaultFailureRate,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Reset re-arms the one-shot failure.
func (n *Network) Reset() {
	n.mu.Lock()
	n.hasFailedOnce = false
	n.mu.Unlock()
}

// HasFailed reports whether the one-shot failure has been spent.
func (n *Network) HasFailed() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.hasFailedOnce
}

type callOptions struct {
	allowFailure bool
	minLatency   time.Duration
	maxLatency   time.Duration
	hasLatency   bool
}

type CallOption func(*callOptions)

// WithoutFailure exempts a call from failure injection. Latency still applies.
func WithoutFailure() CallOption {
	return func(o *callOptions) { o.allowFailure = false }
}

// WithLatency overrides the latency range for one call.
func WithLatency(min, max time.Duration) CallOption {
	return func(o *callOptions) {
		o.minLatency = min
		o.maxLatency = max
		o.hasLatency = true
	}
}

// Latency draws a delay uniformly from [min, max] in whole milliseconds.
func (n *Network) Latency(min, max time.Duration) time.Duration {
	lo, hi := min.Milliseconds(), max.Milliseconds()
	if hi < lo {
		lo, hi = hi, lo
	}
	n.mu.Lock()
	offset := n.rng.IntN(int(hi-lo) + 1)
	n.mu.Unlock()
	return time.Duration(lo+int64(offset)) * time.Millisecond
}

// maybeFail spends the one-shot failure if the draw lands under the rate.
func (n *Network) maybeFail() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.hasFailedOnce {
		return nil
	}
	if n.rng.Float64() < n.failureRate {
		n.hasFailedOnce = true
		return ErrNetworkHiccup
	}
	return nil
}

// Do runs op behind the simulated network. A nil Network runs op directly.
func Do[T any](n *Network, op func() (T, error), opts ...CallOption) (T, error) {
	if n == nil || n.disabled {
		return op()
	}

	o := callOptions{allowFailure: true}
	for _, opt := range opts {
		opt(&o)
	}
	min, max := n.minLatency, n.maxLatency
	if o.hasLatency {
		min, max = o.minLatency, o.maxLatency
	}

	n.sleep(n.Latency(min, max))

	if o.allowFailure {
		if err := n.maybeFail(); err != nil {
			zap.L().Debug("Injected network failure")
			var zero T
			return zero, err
		}
	}
	return op()
}

// Run is Do for operations without a result.
func Run(n *Network, op func() error, opts ...CallOption) error {
	_, err := Do(n, func() (struct{}, error) {
		return struct{}{}, op()
	}, opts...)
	return err
}
