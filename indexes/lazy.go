package indexes

import (
	"sync"

	"github.com/olegnn/metaldb"
)

// Lazy defers opening a Child index at a fixed address until the first
// Get call, then caches it; the child shares the parent's access and
// address (spec §4.3, "Lazy<Child>").
type Lazy[Child any] struct {
	mu     sync.Mutex
	access metaldb.Access
	addr   metaldb.IndexAddress
	open   Opener[Child]
	opened bool
	child  Child
	err    error
}

// NewLazy builds a deferred opener for addr; open is not called yet.
func NewLazy[Child any](a metaldb.Access, addr metaldb.IndexAddress, open Opener[Child]) *Lazy[Child] {
	return &Lazy[Child]{access: a, addr: addr, open: open}
}

// Get opens the child on first call and returns the cached result on
// every subsequent call.
func (l *Lazy[Child]) Get() (Child, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.opened {
		l.child, l.err = l.open(l.access, l.addr)
		l.opened = true
	}
	return l.child, l.err
}
