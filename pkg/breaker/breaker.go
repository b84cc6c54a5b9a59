package breaker

import (
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sony/gobreaker/v2"
)

// Config holds circuit breaker settings.
type Config struct {
	// Name identifies the breaker in metrics and logs.
	Name string

	// MaxRequests is the number of trial calls allowed while half-open.
	MaxRequests uint32

	// Interval clears the closed-state counts periodically; 0 never clears.
	Interval time.Duration

	// Timeout is how long the breaker stays open before going half-open.
	Timeout time.Duration

	// FailureRatio trips the breaker once MinRequests calls have been seen.
	FailureRatio float64
	MinRequests  uint32

	// IsSuccessful classifies errors that should not count as failures,
	// such as a row not found. nil counts every error.
	IsSuccessful func(error) bool
}

// DefaultConfig returns the defaults used for the storage backend.
func DefaultConfig(name string) Config {
	return Config{
		Name:         name,
		MaxRequests:  1,
		Interval:     60 * time.Second,
		Timeout:      30 * time.Second,
		FailureRatio: 0.5,
		MinRequests:  5,
	}
}

// ErrOpen is returned without calling the guarded function while the breaker rejects calls.
var ErrOpen = gobreaker.ErrOpenState

// IsOpen reports whether err came from a breaker rejecting the call.
func IsOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

// Breaker guards calls to one dependency.
type Breaker struct {
	cb    *gobreaker.CircuitBreaker[any]
	state prometheus.Gauge
}

// New builds a breaker. reg may be nil to skip the state gauge.
func New(cfg Config, reg prometheus.Registerer, logger *slog.Logger) *Breaker {
	b := &Breaker{}
	if reg != nil {
		gauge := prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "circuit_breaker_state",
			Help:        "Current state of the circuit breaker (0=closed, 1=half-open, 2=open)",
			ConstLabels: prometheus.Labels{"name": cfg.Name},
		})
		b.state = gauge
		if err := reg.Register(gauge); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
					b.state = existing
				}
			}
		}
	}

	isSuccessful := cfg.IsSuccessful
	if isSuccessful == nil {
		isSuccessful = func(err error) bool { return err == nil }
	}

	b.cb = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:         cfg.Name,
		MaxRequests:  cfg.MaxRequests,
		Interval:     cfg.Interval,
		Timeout:      cfg.Timeout,
		IsSuccessful: isSuccessful,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
			b.setState(to)
		},
	})
	b.setState(gobreaker.StateClosed)
	return b
}

func (b *Breaker) setState(s gobreaker.State) {
	if b.state == nil {
		return
	}
	switch s {
	case gobreaker.StateClosed:
		b.state.Set(0)
	case gobreaker.StateHalfOpen:
		b.state.Set(1)
	case gobreaker.StateOpen:
		b.state.Set(2)
	}
}

// State returns the current breaker state.
func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}

// Do runs fn through b. A nil breaker calls fn directly.
func Do[T any](b *Breaker, fn func() (T, error)) (T, error) {
	if b == nil {
		return fn()
	}
	res, err := b.cb.Execute(func() (any, error) {
		return fn()
	})
	v, _ := res.(T)
	return v, err
}
