package queue_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rishavanand/bazario/pkg/queue"
)

// ─── Job types ────────────────────────────────────────────────────────────────

var (
	confirmations atomic.Int32
	reconciles    atomic.Int32
)

type confirmationJob struct {
	OrderID string `json:"order_id"`
}

func (j *confirmationJob) Handle() error {
	confirmations.Add(1)
	return nil
}

type reconcileJob struct {
	TransactionID string `json:"transaction_id"`
}

func (j *reconcileJob) Handle() error {
	reconciles.Add(1)
	return errors.New("still failing")
}

func init() {
	queue.Register("*queue_test.confirmationJob", func() queue.Job { return &confirmationJob{} })
	queue.Register("*queue_test.reconcileJob", func() queue.Job { return &reconcileJob{} })

	ctx := context.Background()
	queue.StartWorkers(ctx, 2)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestDispatchAndProcess(t *testing.T) {
	before := confirmations.Load()
	if err := queue.Dispatch(&confirmationJob{OrderID: "abc123"}); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	waitFor(t, func() bool { return confirmations.Load() == before+1 })
}

func TestFailingJobExhaustsRetries(t *testing.T) {
	queue.SetMaxRetry(2)
	defer queue.SetMaxRetry(3)

	before := reconciles.Load()
	failedBefore := len(queue.FailedJobs())

	if err := queue.Dispatch(&reconcileJob{TransactionID: "txn_123"}); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}

	waitFor(t, func() bool { return len(queue.FailedJobs()) > failedBefore })
	if got := reconciles.Load() - before; got != 2 {
		t.Errorf("job ran %d times, want 2", got)
	}

	failed := queue.FailedJobs()
	last := failed[len(failed)-1]
	if last.Attempts != 2 {
		t.Errorf("recorded attempts = %d", last.Attempts)
	}
	if last.Err == nil {
		t.Error("failed job must keep its final error")
	}
}

func TestDispatchAfter(t *testing.T) {
	before := confirmations.Load()
	queue.DispatchAfter(&confirmationJob{OrderID: "later"}, 50*time.Millisecond)
	waitFor(t, func() bool { return confirmations.Load() == before+1 })
}
