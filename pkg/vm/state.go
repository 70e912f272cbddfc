package vm

import (
	"reflect"
	"sync"
)

var (
	defaultsMu sync.RWMutex
	defaults   = make(map[reflect.Type]func() any)
)

// RegisterStateDefault sets the function that produces the first instance
// of state type T in every chain. Without a registration a chain's T starts
// as the zero value. Registrations are meant for package initialisation; a
// later one replaces the previous function and only affects chains that
// have not created their T yet.
func RegisterStateDefault[T any](fn func() T) {
	defaultsMu.Lock()
	defer defaultsMu.Unlock()

	defaults[reflect.TypeFor[T]()] = func() any { return fn() }
}

// GetState returns the chain's single instance of state type T, creating it
// on first request. Every context sharing ctx's SharedStates gets the same
// pointer.
func GetState[T any](ctx *ExecutionContext) *T {
	typ := reflect.TypeFor[T]()

	states := ctx.shared.states
	if v, ok := states[typ]; ok {
		return v.(*T)
	}

	p := new(T)
	defaultsMu.RLock()
	fn := defaults[typ]
	defaultsMu.RUnlock()
	if fn != nil {
		*p = fn().(T)
	}

	states[typ] = p
	return p
}

// HasState reports whether state type T was already created in ctx's chain.
func HasState[T any](ctx *ExecutionContext) bool {
	_, ok := ctx.shared.states[reflect.TypeFor[T]()]
	return ok
}
