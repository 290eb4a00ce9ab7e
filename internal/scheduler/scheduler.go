// Package scheduler drives the render and publish cycle at a fixed period.
package scheduler

import (
	"context"
	"time"

	"codeberg.org/mutker/sstat/internal/errors"
	"codeberg.org/mutker/sstat/internal/logger"
	"codeberg.org/mutker/sstat/internal/output"
)

// Renderer produces one status line per cycle and the line that replaces it
// on shutdown.
type Renderer interface {
	Render() string
	Clear() string
}

type Scheduler struct {
	period   time.Duration
	renderer Renderer
	sink     output.Sink
	clock    Clock
	log      logger.Logger
}

type Option func(*Scheduler)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(s *Scheduler) {
		s.clock = c
	}
}

func New(period time.Duration, r Renderer, sink output.Sink, opts ...Option) (*Scheduler, error) {
	if period <= 0 {
		return nil, errors.New().WithData(errors.ErrInvalidInterval, period.String())
	}

	s := &Scheduler{
		period:   period,
		renderer: r,
		sink:     sink,
		clock:    realClock{},
		log:      logger.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Run renders and publishes once per period until ctx is done, then
// publishes the cleared line once. Time spent rendering is subtracted from the
// following sleep; a cycle that overruns the period is followed immediately
// by the next one, and missed cycles are not made up.
func (s *Scheduler) Run(ctx context.Context) error {
	defer s.publish(s.renderer.Clear())

	for {
		if ctx.Err() != nil {
			return nil
		}

		start := s.clock.Now()
		s.publish(s.renderer.Render())

		wait := s.delay(s.clock.Now().Sub(start))
		if wait == 0 {
			s.log.Debug().Dur("period", s.period).Msg("Cycle overran its period")
			continue
		}

		select {
		case <-ctx.Done():
			return nil
		case <-s.clock.After(wait):
		}
	}
}

// delay returns how long to sleep after a cycle that took elapsed.
func (s *Scheduler) delay(elapsed time.Duration) time.Duration {
	wait := s.period - elapsed
	if wait < 0 {
		return 0
	}
	if wait > s.period {
		return s.period
	}

	return wait
}

func (s *Scheduler) publish(text string) {
	if err := s.sink.Publish(text); err != nil {
		s.log.Warn().Err(err).Msg("Failed to publish status")
	}
}
