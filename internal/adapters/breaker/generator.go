// Package breaker guards text generators with a circuit breaker.
package breaker

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/ewilliams-labs/moodlist/internal/core/ports"
	"github.com/ewilliams-labs/moodlist/internal/logging"
	"github.com/ewilliams-labs/moodlist/internal/metrics"
)

type Settings struct {
	Name string
	// FailureThreshold is the number of consecutive failures that opens the circuit.
	FailureThreshold uint32
	// OpenTimeout is how long the circuit stays open before a half-open probe.
	OpenTimeout time.Duration
}

// Generator wraps a TextGenerator so repeated upstream failures fail fast.
type Generator struct {
	next ports.TextGenerator
	cb   *gobreaker.CircuitBreaker[string]
	name string
}

var _ ports.TextGenerator = (*Generator)(nil)

func NewGenerator(next ports.TextGenerator, s Settings) *Generator {
	if s.Name == "" {
		s.Name = "llm"
	}
	if s.FailureThreshold == 0 {
		s.FailureThreshold = 5
	}
	threshold := s.FailureThreshold

	metrics.CircuitBreakerState.WithLabelValues(s.Name).Set(0)

	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: 1,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			trip := counts.ConsecutiveFailures >= threshold
			if trip {
				logging.Warn().Str("breaker", s.Name).Uint32("failures", counts.ConsecutiveFailures).Msg("opening circuit")
			}
			return trip
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
		// A caller giving up is not an upstream failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return &Generator{next: next, cb: cb, name: s.Name}
}

func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	out, err := g.cb.Execute(func() (string, error) {
		return g.next.Generate(ctx, prompt)
	})
	switch {
	case err == nil:
		metrics.CircuitBreakerRequests.WithLabelValues(g.name, "success").Inc()
	case errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(g.name, "rejected").Inc()
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(g.name, "failure").Inc()
	}
	return out, err
}

// State reports the current circuit state.
func (g *Generator) State() gobreaker.State {
	return g.cb.State()
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
