package webfront

import (
	"sync"

	"github.com/webfrontgo/webfront/weblink"
	"github.com/webfrontgo/webfront/wflog"
)

// Callable is a host function the browser's JavaScript can invoke by
// name. It receives the undecoded parameter bytes following the
// function name (parameter #0, already consumed by the dispatcher) and
// the session's endianness-match flag, so it can keep decoding with
// weblink.NextParameter at whatever arity it expects.
//
// Grounded on original_source/include/CppFunction.hpp's type-erased
// function holder: that design stores a std::function behind a
// dynamic_cast-checked type-erasure wrapper because C++ has no
// equivalent to storing a closure of unknown signature directly. Go's
// first-class functions need none of that; RegisterFunc1/2 below give
// the same typed-registration ergonomics as
// webFront.cppFunction<void, std::string>(name, fn) using generics
// instead of type erasure.
type Callable func(remaining []byte, peerDiffers bool)

// Callables is the registered-callable table (component C10). Per
// spec.md §5 it is populated by the host before the server starts
// accepting connections and is read-only for the remainder of the
// server's lifetime; the mutex here is defensive, not load-bearing,
// since every realistic caller registers during setup.
type Callables struct {
	mu  sync.RWMutex
	fns map[string]Callable
}

// NewCallables returns an empty callable table.
func NewCallables() *Callables {
	return &Callables{fns: make(map[string]Callable)}
}

// Register adds or replaces the callable bound to name.
func (c *Callables) Register(name string, fn Callable) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fns[name] = fn
}

// invoke looks up name and calls it with the remaining parameter bytes,
// reporting whether a callable was found. Unknown names are the
// caller's responsibility to log, per spec.md §4.9 ("unknown names are
// logged at warn level and dropped").
//
// A panicking callable is recovered and logged rather than propagated:
// SPEC_FULL.md §3's error-handling guarantee is that no panic crosses a
// reactor callback boundary, and a host-registered callable is ordinary
// user code running on the session's goroutine, no more trusted than
// any other external input.
func (c *Callables) invoke(name string, remaining []byte, peerDiffers bool) bool {
	c.mu.RLock()
	fn, ok := c.fns[name]
	c.mu.RUnlock()
	if !ok {
		return false
	}
	callSafely(name, fn, remaining, peerDiffers)
	return true
}

func callSafely(name string, fn Callable, remaining []byte, peerDiffers bool) {
	defer func() {
		if r := recover(); r != nil {
			wflog.Warnf("webfront: callable %q panicked: %v", name, r)
		}
	}()
	fn(remaining, peerDiffers)
}

// scalar is the set of WebLink-codable parameter types.
type scalar interface {
	string | float64 | bool
}

func paramAs[T scalar](p weblink.Parameter) (T, bool) {
	var zero T
	switch any(zero).(type) {
	case string:
		if p.Type != weblink.CodedSmallString && p.Type != weblink.CodedString {
			return zero, false
		}
		return any(p.String).(T), true
	case float64:
		if p.Type != weblink.CodedNumber {
			return zero, false
		}
		return any(p.Number).(T), true
	case bool:
		if p.Type != weblink.CodedBooleanTrue && p.Type != weblink.CodedBooleanFalse {
			return zero, false
		}
		return any(p.Bool).(T), true
	default:
		return zero, false
	}
}

// RegisterFunc0 registers a callable taking no further parameters,
// beyond the function name JavaScript already supplied.
func RegisterFunc0(c *Callables, name string, fn func()) {
	c.Register(name, func(remaining []byte, peerDiffers bool) {
		fn()
	})
}

// RegisterFunc1 registers a single-argument callable, the shape
// HelloWorld.cpp uses for its "print" callback
// (webFront.cppFunction<void, std::string>("print", ...)).
func RegisterFunc1[A scalar](c *Callables, name string, fn func(A)) {
	c.Register(name, func(remaining []byte, peerDiffers bool) {
		p, _, err := weblink.NextParameter(remaining, peerDiffers)
		if err != nil {
			wflog.Warnf("webfront: callable %q: %v", name, err)
			return
		}
		a, ok := paramAs[A](p)
		if !ok {
			wflog.Warnf("webfront: callable %q: parameter 1 type mismatch", name)
			return
		}
		fn(a)
	})
}

// RegisterFunc2 registers a two-argument callable.
func RegisterFunc2[A, B scalar](c *Callables, name string, fn func(A, B)) {
	c.Register(name, func(remaining []byte, peerDiffers bool) {
		p1, rest, err := weblink.NextParameter(remaining, peerDiffers)
		if err != nil {
			wflog.Warnf("webfront: callable %q: %v", name, err)
			return
		}
		a, ok := paramAs[A](p1)
		if !ok {
			wflog.Warnf("webfront: callable %q: parameter 1 type mismatch", name)
			return
		}
		p2, _, err := weblink.NextParameter(rest, peerDiffers)
		if err != nil {
			wflog.Warnf("webfront: callable %q: %v", name, err)
			return
		}
		b, ok := paramAs[B](p2)
		if !ok {
			wflog.Warnf("webfront: callable %q: parameter 2 type mismatch", name)
			return
		}
		fn(a, b)
	})
}
