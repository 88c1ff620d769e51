package cache

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Sweepable is anything the periodic sweeper can clean.
type Sweepable interface {
	Sweep() int
}

// Sweeper runs Sweep on registered caches at a fixed interval using a cron
// schedule, so expired entries do not pile up between reads.
type Sweeper struct {
	cron   *cron.Cron
	logger zerolog.Logger
	caches []Sweepable
}

// NewSweeper creates a sweeper that fires every interval.
func NewSweeper(logger zerolog.Logger, interval time.Duration, caches ...Sweepable) (*Sweeper, error) {
	s := &Sweeper{
		cron:   cron.New(),
		logger: logger,
		caches: caches,
	}

	spec := fmt.Sprintf("@every %s", interval)
	if _, err := s.cron.AddFunc(spec, s.sweepAll); err != nil {
		return nil, fmt.Errorf("schedule cache sweep: %w", err)
	}

	return s, nil
}

// Start begins the sweep schedule.
func (s *Sweeper) Start() {
	s.cron.Start()
}

// Stop halts the schedule. Already-running sweeps finish.
func (s *Sweeper) Stop() {
	s.cron.Stop()
}

func (s *Sweeper) sweepAll() {
	total := 0
	for _, c := range s.caches {
		total += c.Sweep()
	}
	if total > 0 {
		s.logger.Debug().
			Int("evicted", total).
			Msg("Swept expired cache entries")
	}
}
