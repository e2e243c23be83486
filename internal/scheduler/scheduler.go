// Package scheduler runs the lifecycle sweeps on a fixed interval inside the API process.
package scheduler

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/octobees/places-sync/internal/dto"
	"github.com/octobees/places-sync/internal/service"
)

// Sweeper is implemented by service.PlacesSyncService.
type Sweeper interface {
	ReverifyAllPlaces(ctx context.Context) (dto.VerifySummary, error)
	InactivateUnmatchedPlaces(ctx context.Context) (dto.DeactivateSummary, error)
}

// Scheduler triggers a re-verify pass followed by the retention sweep every interval.
type Scheduler struct {
	sweeper  Sweeper
	interval time.Duration
	timeout  time.Duration
}

// New returns a scheduler. A zero interval disables it.
func New(sweeper Sweeper, interval time.Duration) *Scheduler {
	return &Scheduler{sweeper: sweeper, interval: interval, timeout: 2 * time.Hour}
}

// Enabled reports whether Run will do anything.
func (s *Scheduler) Enabled() bool {
	return s != nil && s.sweeper != nil && s.interval > 0
}

// Run blocks until ctx is cancelled. The first sweep happens one interval after start.
func (s *Scheduler) Run(ctx context.Context) {
	if !s.Enabled() {
		return
	}
	log.Printf("scheduler=sweep interval=%s started", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("scheduler=sweep stopped")
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single sweep. The retention sweep runs even if re-verification failed.
func (s *Scheduler) RunOnce(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	verified, err := s.sweeper.ReverifyAllPlaces(runCtx)
	switch {
	case errors.Is(err, service.ErrRunInProgress):
		log.Printf("scheduler=sweep job=reverify skipped=in_progress")
	case err != nil:
		log.Printf("scheduler=sweep job=reverify err=%v", err)
	default:
		log.Printf("scheduler=sweep job=reverify verified=%d deactivated=%d errors=%d",
			verified.Verified, verified.Deactivated, len(verified.Errors))
	}

	inactivated, err := s.sweeper.InactivateUnmatchedPlaces(runCtx)
	switch {
	case errors.Is(err, service.ErrRunInProgress):
		log.Printf("scheduler=sweep job=inactivate skipped=in_progress")
	case err != nil:
		log.Printf("scheduler=sweep job=inactivate err=%v", err)
	default:
		log.Printf("scheduler=sweep job=inactivate deactivated=%d", inactivated.Deactivated)
	}
}
