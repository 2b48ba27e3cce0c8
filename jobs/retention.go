package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/corporate-inc/contact-api/logging"
	"github.com/corporate-inc/contact-api/metrics"
	"github.com/corporate-inc/contact-api/services"
)

// runTimeout bounds a single cleanup pass
const runTimeout = time.Minute

// RetentionPruner periodically deletes records past their retention expiry.
// An interval of zero or less disables the job entirely.
type RetentionPruner struct {
	retention services.RetentionService
	log       logging.Logger
	interval  time.Duration

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewRetentionPruner creates a pruner running one cleanup per interval
func NewRetentionPruner(retention services.RetentionService, log logging.Logger, interval time.Duration) *RetentionPruner {
	return &RetentionPruner{
		retention: retention,
		log:       log,
		interval:  interval,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start launches the cleanup loop. The first pass runs immediately so a
// long-idle database is cleaned on startup rather than one interval later.
func (p *RetentionPruner) Start() {
	if p.interval <= 0 {
		p.log.Info(logging.Retention, logging.Cleanup, "retention pruner disabled", nil)
		close(p.done)
		return
	}

	go func() {
		defer close(p.done)

		p.runOnce()

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				p.runOnce()
			case <-p.stop:
				return
			}
		}
	}()
}

// Stop halts the loop and waits for it to exit. Safe to call more than once.
func (p *RetentionPruner) Stop() {
	p.stopOnce.Do(func() { close(p.stop) })
	<-p.done
}

// runOnce executes a single cleanup pass. Failures are logged and the loop
// keeps going; retention enforcement must survive transient database errors.
func (p *RetentionPruner) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	result, err := p.retention.CleanupExpired(ctx)
	if err != nil {
		p.log.Error(logging.Retention, logging.Cleanup, "retention cleanup run failed",
			map[logging.ExtraKey]any{logging.ErrorMessage: err.Error()})
		return
	}

	metrics.ObserveRetentionDeleted("contact_submissions", result.SubmissionsDeleted)
	metrics.ObserveRetentionDeleted("audit_logs", result.AuditEventsDeleted)
}
