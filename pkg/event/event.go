// Package event provides a named event dispatcher.
//
// Listeners for "order.created" and "order.status_changed" are registered at
// boot; Fire runs them synchronously, FireAsync hands them to the shared
// worker pool so a slow listener never stalls a checkout response.
package event

import (
	"sync"

	"github.com/rishavanand/bazario/pkg/workerpool"
)

// Handler is a function that receives an event payload.
type Handler func(payload interface{})

var (
	mu       sync.RWMutex
	handlers = map[string][]Handler{}
	pool     *workerpool.Pool
)

// UsePool routes FireAsync dispatches through p instead of bare goroutines.
func UsePool(p *workerpool.Pool) {
	mu.Lock()
	defer mu.Unlock()
	pool = p
}

// Listen registers a handler for the given event name.
func Listen(event string, handler Handler) {
	mu.Lock()
	defer mu.Unlock()
	handlers[event] = append(handlers[event], handler)
}

// Fire dispatches an event synchronously to all registered listeners.
func Fire(event string, payload interface{}) {
	for _, h := range snapshot(event) {
		h(payload)
	}
}

// FireAsync dispatches the event to all listeners without waiting for them
// to complete. Listeners run on the shared pool when one is configured; if
// the pool is full the listener falls back to its own goroutine.
func FireAsync(event string, payload interface{}) {
	mu.RLock()
	p := pool
	mu.RUnlock()

	for _, h := range snapshot(event) {
		h := h
		if p != nil && p.Submit(func() { h(payload) }) == nil {
			continue
		}
		go h(payload)
	}
}

// Flush removes all listeners (useful in tests).
func Flush() {
	mu.Lock()
	defer mu.Unlock()
	handlers = map[string][]Handler{}
}

func snapshot(event string) []Handler {
	mu.RLock()
	defer mu.RUnlock()
	hs := make([]Handler, len(handlers[event]))
	copy(hs, handlers[event])
	return hs
}
