// Package container is a small service locator. The bootstrap binds the
// swappable pieces here — today just the payment gateway — so tests can
// drop in fakes without reaching into handlers.
package container

import (
	"fmt"
	"sync"
)

// Factory builds a service instance.
type Factory func() interface{}

type binding struct {
	factory  Factory
	shared   bool // resolve once, then reuse
	instance interface{}
	resolved bool
}

var (
	mu       sync.Mutex
	bindings = map[string]*binding{}
)

// Bind registers a factory that runs on every Make.
func Bind(key string, factory Factory) {
	mu.Lock()
	bindings[key] = &binding{factory: factory}
	mu.Unlock()
}

// Singleton registers a factory that runs once; later Makes reuse the
// first result.
func Singleton(key string, factory Factory) {
	mu.Lock()
	bindings[key] = &binding{factory: factory, shared: true}
	mu.Unlock()
}

// Instance binds a ready-made value, the usual move in tests:
//
//	container.Instance(payment.BindingKey, &fakeGateway{})
func Instance(key string, value interface{}) {
	mu.Lock()
	bindings[key] = &binding{
		factory:  func() interface{} { return value },
		shared:   true,
		instance: value,
		resolved: true,
	}
	mu.Unlock()
}

// Make resolves key, panicking on an unknown binding: resolving a service
// nobody bound is a bootstrap bug, not a runtime condition.
func Make(key string) interface{} {
	mu.Lock()
	defer mu.Unlock()

	b, ok := bindings[key]
	if !ok {
		panic(fmt.Sprintf("container: unknown binding %q", key))
	}
	if b.shared {
		if !b.resolved {
			b.instance = b.factory()
			b.resolved = true
		}
		return b.instance
	}
	return b.factory()
}

// Has reports whether key is bound.
func Has(key string) bool {
	mu.Lock()
	defer mu.Unlock()
	_, ok := bindings[key]
	return ok
}

// Forget drops a binding; test teardown uses it.
func Forget(key string) {
	mu.Lock()
	delete(bindings, key)
	mu.Unlock()
}
