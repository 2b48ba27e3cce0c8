package jobs

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/corporate-inc/contact-api/logging"
	"github.com/corporate-inc/contact-api/services"
)

// countingRetention records how many cleanup passes ran
type countingRetention struct {
	runs atomic.Int64
}

func (c *countingRetention) CleanupExpired(context.Context) (*services.CleanupResult, error) {
	c.runs.Add(1)
	return &services.CleanupResult{Success: true}, nil
}

func TestPrunerRunsImmediatelyOnStart(t *testing.T) {
	retention := &countingRetention{}
	pruner := NewRetentionPruner(retention, logging.NewNop(), time.Hour)

	pruner.Start()
	defer pruner.Stop()

	deadline := time.Now().Add(time.Second)
	for retention.runs.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("Expected an immediate cleanup pass after Start")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestPrunerTicks(t *testing.T) {
	retention := &countingRetention{}
	pruner := NewRetentionPruner(retention, logging.NewNop(), 20*time.Millisecond)

	pruner.Start()
	defer pruner.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for retention.runs.Load() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("Expected at least 3 cleanup passes, got %d", retention.runs.Load())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestPrunerDisabledWithZeroInterval(t *testing.T) {
	retention := &countingRetention{}
	pruner := NewRetentionPruner(retention, logging.NewNop(), 0)

	pruner.Start()
	pruner.Stop()

	if runs := retention.runs.Load(); runs != 0 {
		t.Errorf("Expected no cleanup passes when disabled, got %d", runs)
	}
}

func TestPrunerStopIsIdempotent(t *testing.T) {
	pruner := NewRetentionPruner(&countingRetention{}, logging.NewNop(), time.Hour)

	pruner.Start()
	pruner.Stop()
	pruner.Stop()
}
