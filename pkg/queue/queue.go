// Package queue runs background jobs: order confirmation mail, payment
// reconciliation, anything that should not hold up a request.
//
// A job is any type with a Handle() error method. Register it once at boot
// under its %T name, then Dispatch a value of it from anywhere:
//
//	type OrderConfirmation struct{ OrderID string }
//	func (j *OrderConfirmation) Handle() error { ... }
//
//	queue.Register("*jobs.OrderConfirmation", func() queue.Job { return &OrderConfirmation{} })
//	queue.Dispatch(&OrderConfirmation{OrderID: id})
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rishavanand/bazario/pkg/logger"
	"github.com/rishavanand/bazario/pkg/metrics"
)

// Job is a unit of background work. Handle returns nil on success; any
// error triggers a retry.
type Job interface {
	Handle() error
}

// Driver stores serialized jobs. MemoryDriver is the default; RedisDriver
// makes the queue durable and multi-process.
type Driver interface {
	Push(payload []byte) error
	Pop(ctx context.Context) ([]byte, error)
}

// FailedJob records a job that burned through every retry.
type FailedJob struct {
	Job      Job
	Err      error
	FailedAt time.Time
	Attempts int
}

// envelope is the wire form: the registered type name plus the job's own
// JSON, so workers can rebuild the concrete type.
type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Manager owns the driver, the job registry, and the failed-job log. The
// package-level functions all act on one process-wide instance.
type Manager struct {
	mu       sync.RWMutex
	driver   Driver
	registry map[string]func() Job
	failed   []FailedJob
	maxRetry int
}

var defaultManager = &Manager{
	driver:   NewMemoryDriver(),
	registry: map[string]func() Job{},
	maxRetry: 3,
}

// SetDriver swaps the storage backend. Call before StartWorkers.
func SetDriver(d Driver) {
	defaultManager.mu.Lock()
	defaultManager.driver = d
	defaultManager.mu.Unlock()
}

// SetMaxRetry changes how many attempts a job gets before it is marked
// failed.
func SetMaxRetry(n int) { defaultManager.maxRetry = n }

// Register binds a type name to a constructor so Pop'd payloads can be
// decoded. The name must match fmt.Sprintf("%T", job) at dispatch time.
func Register(name string, factory func() Job) {
	defaultManager.mu.Lock()
	defaultManager.registry[name] = factory
	defaultManager.mu.Unlock()
}

// Dispatch serializes job and hands it to the driver.
func Dispatch(job Job) error {
	name := fmt.Sprintf("%T", job)

	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("queue: marshal %s: %w", name, err)
	}
	wire, err := json.Marshal(envelope{Type: name, Payload: body})
	if err != nil {
		return fmt.Errorf("queue: marshal envelope: %w", err)
	}

	return defaultManager.backend().Push(wire)
}

// DispatchAfter dispatches job once delay has passed. With the memory
// driver the wait lives in a goroutine and dies with the process; the
// Redis driver's PushDelayed survives restarts.
func DispatchAfter(job Job, delay time.Duration) {
	go func() {
		time.Sleep(delay)
		if err := Dispatch(job); err != nil {
			logger.Error("queue: delayed dispatch failed", "error", err)
		}
	}()
}

// StartWorkers runs n consumers until ctx is cancelled.
func StartWorkers(ctx context.Context, n int) {
	for i := 0; i < n; i++ {
		go defaultManager.consume(ctx)
	}
	logger.Info("queue: workers started", "count", n)
}

// FailedJobs returns a copy of the in-memory failure log.
func FailedJobs() []FailedJob {
	defaultManager.mu.RLock()
	defer defaultManager.mu.RUnlock()
	return append([]FailedJob(nil), defaultManager.failed...)
}

func (m *Manager) backend() Driver {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.driver
}

func (m *Manager) consume(ctx context.Context) {
	for ctx.Err() == nil {
		wire, err := m.backend().Pop(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}
		if wire == nil {
			continue // driver poll timeout, not a job
		}
		m.handle(wire)
	}
}

// handle decodes one envelope and runs the job with retries.
func (m *Manager) handle(wire []byte) {
	var env envelope
	if err := json.Unmarshal(wire, &env); err != nil {
		logger.Error("queue: bad envelope", "error", err)
		return
	}

	m.mu.RLock()
	factory, known := m.registry[env.Type]
	m.mu.RUnlock()
	if !known {
		logger.Warn("queue: unregistered job type", "type", env.Type)
		return
	}

	job := factory()
	if err := json.Unmarshal(env.Payload, job); err != nil {
		logger.Error("queue: unmarshal payload", "type", env.Type, "error", err)
		return
	}

	start := time.Now()
	var lastErr error
	for attempt := 1; attempt <= m.maxRetry; attempt++ {
		lastErr = job.Handle()
		if lastErr == nil {
			logger.Info("queue: job processed", "type", env.Type)
			metrics.RecordQueueJob(env.Type, "success", start)
			return
		}
		logger.Warn("queue: job failed, retrying",
			"type", env.Type, "attempt", attempt, "error", lastErr)
		time.Sleep(time.Duration(attempt) * time.Second)
	}

	m.persistFailed(job, env.Type, lastErr, m.maxRetry)
	metrics.RecordQueueJob(env.Type, "failed", start)
	logger.Error("queue: job exhausted retries", "type", env.Type, "error", lastErr)
}
