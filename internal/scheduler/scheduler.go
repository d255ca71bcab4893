package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"melodex/internal/domain"
	"melodex/internal/modules/reconcile"
	"melodex/internal/realtime"

	"github.com/robfig/cron/v3"
)

// Scheduler owns every background timer in the process: the rate-limiter
// fallback sweep and, when configured, scheduled reconciliation. It is
// started once at initialization and stopped at shutdown. Jobs are chained
// with DelayIfStillRunning so a job is never re-entered while a previous run
// is still active.
type Scheduler struct {
	cron    *cron.Cron
	limiter *realtime.Limiter
	recon   *reconcile.Service
}

func New(limiter *realtime.Limiter, recon *reconcile.Service) *Scheduler {
	c := cron.New(cron.WithChain(
		cron.Recover(cron.DefaultLogger),
		cron.DelayIfStillRunning(cron.DefaultLogger),
	))
	return &Scheduler{
		cron:    c,
		limiter: limiter,
		recon:   recon,
	}
}

// RegisterJobs wires the periodic work. sweepInterval throttles the
// rate-limiter state sweep; reconcileSpec is a cron expression (empty
// disables scheduled reconciliation) run in dry-run mode unless
// reconcileApply is set.
func (s *Scheduler) RegisterJobs(sweepInterval time.Duration, reconcileSpec string, reconcileApply bool) error {
	if sweepInterval <= 0 {
		sweepInterval = 5 * time.Minute
	}

	_, err := s.cron.AddFunc(fmt.Sprintf("@every %s", sweepInterval), func() {
		if removed := s.limiter.Sweep(); removed > 0 {
			log.Printf("scheduler: rate limiter sweep removed %d stale windows", removed)
		}
	})
	if err != nil {
		return fmt.Errorf("registering limiter sweep: %w", err)
	}

	if reconcileSpec != "" {
		_, err = s.cron.AddFunc(reconcileSpec, func() {
			s.runReconciliation(reconcileApply)
		})
		if err != nil {
			return fmt.Errorf("registering reconciliation job: %w", err)
		}
	}

	return nil
}

func (s *Scheduler) runReconciliation(apply bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	for _, kind := range []domain.EntityKind{domain.KindArtist, domain.KindAlbum} {
		report, err := s.recon.Reconcile(ctx, kind, !apply)
		if err != nil {
			log.Printf("scheduler: reconciling %ss: %v", kind, err)
			continue
		}
		log.Printf(
			"scheduler: reconciled %ss: orphans=%d files=%d bytes=%d errors=%d dry_run=%t",
			kind, len(report.OrphanedPaths), report.FilesRemoved,
			report.SpaceFreedBytes, len(report.Errors), report.DryRun,
		)
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop cancels the timers and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
