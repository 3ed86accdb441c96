package upbeat

import (
	"runtime"
	"sync/atomic"
)

// Lock owns a value that more than one core can reach. There is no acquire or
// release call: the value is only reachable inside the callback given to Do
// (or Locked), and the lock is held for exactly the life of that callback.
//
// This is a compare-and-set spin lock. It makes no fairness promise; a core
// that keeps losing the compare-and-set can spin forever while another core
// re-enters.  The sections it guards are a few loads and stores, so in
// practice the window is microseconds.
//
// The zero value is an unlocked Lock holding the zero value of T.  A Lock
// must not be copied after first use.
type Lock[T any] struct {
	held atomic.Uint32
	data T
}

// NewLock returns a Lock that owns v.
func NewLock[T any](v T) *Lock[T] {
	return &Lock[T]{data: v}
}

// Do runs f with exclusive access to the value. Writes made by f are visible
// to the next callback that enters Do on the same Lock, from any core.  The
// lock is released however f exits, including by panic.
func (l *Lock[T]) Do(f func(v *T)) {
	l.acquire()
	defer l.release()
	f(&l.data)
}

// Locked is Do for callbacks that produce a result.
func Locked[T, R any](l *Lock[T], f func(v *T) R) R {
	var result R
	l.Do(func(v *T) {
		result = f(v)
	})
	return result
}

func (l *Lock[T]) acquire() {
	for !l.held.CompareAndSwap(0, 1) {
		runtime.Gosched()
	}
}

func (l *Lock[T]) release() {
	l.held.Store(0)
}
