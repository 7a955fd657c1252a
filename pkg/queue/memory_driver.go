package queue

import (
	"context"
	"errors"
)

// MemoryDriver holds jobs in a buffered channel. It is the default driver:
// fine for development, tests, and single-process deployments, gone on
// restart.
type MemoryDriver struct {
	jobs chan []byte
}

// NewMemoryDriver returns a driver buffering up to 1000 jobs.
func NewMemoryDriver() *MemoryDriver {
	return &MemoryDriver{jobs: make(chan []byte, 1000)}
}

func (d *MemoryDriver) Push(payload []byte) error {
	select {
	case d.jobs <- payload:
		return nil
	default:
		return errors.New("queue/memory: buffer full")
	}
}

func (d *MemoryDriver) Pop(ctx context.Context) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case payload := <-d.jobs:
		return payload, nil
	}
}
