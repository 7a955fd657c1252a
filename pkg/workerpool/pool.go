// Package workerpool caps the goroutines spent on background work such as
// async event listeners. Submit is non-blocking: when every worker is busy
// and the backlog is full it reports ErrPoolFull and the caller picks a
// fallback (the event dispatcher spawns a plain goroutine).
package workerpool

import (
	"errors"
	"sync"
)

// ErrPoolFull means the backlog is at capacity.
var ErrPoolFull = errors.New("workerpool: pool is full")

// ErrPoolClosed means Shutdown has been called.
var ErrPoolClosed = errors.New("workerpool: pool is closed")

// Pool runs submitted functions on a fixed set of workers.
type Pool struct {
	backlog  chan func()
	stopped  chan struct{}
	stopOnce sync.Once
	done     sync.WaitGroup
}

// New starts size workers. The backlog holds 2×size tasks so short bursts
// are absorbed without rejections.
func New(size int) *Pool {
	if size < 1 {
		size = 1
	}

	p := &Pool{
		backlog: make(chan func(), 2*size),
		stopped: make(chan struct{}),
	}
	p.done.Add(size)
	for i := 0; i < size; i++ {
		go p.work()
	}
	return p
}

func (p *Pool) work() {
	defer p.done.Done()
	for task := range p.backlog {
		func() {
			defer func() {
				if r := recover(); r != nil {
					// A panicking task must not take the worker with it.
					_ = r
				}
			}()
			task()
		}()
	}
}

// Submit queues task without blocking.
func (p *Pool) Submit(task func()) error {
	select {
	case <-p.stopped:
		return ErrPoolClosed
	default:
	}

	select {
	case p.backlog <- task:
		return nil
	default:
		return ErrPoolFull
	}
}

// Shutdown rejects further submissions and waits for queued tasks to finish.
// Safe to call more than once.
func (p *Pool) Shutdown() {
	p.stopOnce.Do(func() {
		close(p.stopped)
		close(p.backlog)
		p.done.Wait()
	})
}
