// Package syncutil contains synchronization primitives
package syncutil

import (
	"sync"

	"github.com/Nivl/git-lite/ginternals"
	"github.com/gogf/gf/encoding/ghash"
)

// NamedMutex is a struct allowing to lock/unlock using an object id.
// A fixed number of mutexes are shared by all the ids, so it is
// expected that 2 ids may collide and share the same mutex
type NamedMutex struct {
	locks []sync.Mutex
	size  uint32
}

// NewNamedMutex creates a new NamedMutex with the given capacity.
// If the max number is below 2, 2 will be used.
// using a prime number as max offers better performance
func NewNamedMutex(maxMutexes uint32) *NamedMutex {
	if maxMutexes < 2 {
		maxMutexes = 2
	}

	return &NamedMutex{
		size:  maxMutexes,
		locks: make([]sync.Mutex, maxMutexes),
	}
}

func (mu *NamedMutex) slot(oid ginternals.Oid) *sync.Mutex {
	return &mu.locks[ghash.SDBMHash(oid.Bytes())%mu.size]
}

// Lock locks the provided id. If the lock is already in use, the
// calling goroutine blocks until the mutex is available.
func (mu *NamedMutex) Lock(oid ginternals.Oid) {
	mu.slot(oid).Lock()
}

// Unlock unlocks the provided id. It is a run-time error if the id
// is not locked on entry to Unlock.
func (mu *NamedMutex) Unlock(oid ginternals.Oid) {
	mu.slot(oid).Unlock()
}
