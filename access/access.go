// Package access provides the address-rewriting Access wrappers: Prefixed
// (namespace a subtree), Migration (stage writes under a reserved, parallel
// namespace), and Lazy (defer acquiring the underlying access until first
// use). Each composes by delegation over an inner metaldb.Access rather
// than reimplementing storage (spec §4.1, §9: "access wrappers compose by
// delegation").
package access

import (
	"sync"

	"github.com/olegnn/metaldb"
)

// -- Prefixed --------------------------------------------------------------

// Prefixed rewrites every address's name to "prefix." + name before
// resolving it through inner, letting unrelated component trees share a
// backend without name collisions.
type Prefixed struct {
	prefix string
	inner  metaldb.Access
}

// NewPrefixed wraps a read-only (or read-write) access under prefix.
func NewPrefixed(prefix string, inner metaldb.Access) *Prefixed {
	return &Prefixed{prefix: prefix, inner: inner}
}

func (p *Prefixed) rewrite(addr metaldb.IndexAddress) metaldb.IndexAddress {
	return metaldb.IndexAddress{Name: p.prefix + "." + addr.Name, Key: addr.Key}
}

func (p *Prefixed) Resolve(addr metaldb.IndexAddress) metaldb.ResolvedAddress {
	return p.inner.Resolve(p.rewrite(addr))
}

func (p *Prefixed) Get(ra metaldb.ResolvedAddress, key []byte) ([]byte, bool) {
	return p.inner.Get(ra, key)
}

func (p *Prefixed) Iterate(ra metaldb.ResolvedAddress, from []byte) metaldb.RawIterator {
	return p.inner.Iterate(ra, from)
}

func (p *Prefixed) Catalog() *metaldb.Catalog { return p.inner.Catalog() }

// PrefixedWrite is Prefixed over a writable inner access.
type PrefixedWrite struct {
	Prefixed
	writer metaldb.WriteAccess
}

func NewPrefixedWrite(prefix string, inner metaldb.WriteAccess) *PrefixedWrite {
	return &PrefixedWrite{Prefixed: Prefixed{prefix: prefix, inner: inner}, writer: inner}
}

func (p *PrefixedWrite) Put(ra metaldb.ResolvedAddress, key, value []byte) {
	p.writer.Put(ra, key, value)
}
func (p *PrefixedWrite) Delete(ra metaldb.ResolvedAddress, key []byte) { p.writer.Delete(ra, key) }
func (p *PrefixedWrite) Clear(ra metaldb.ResolvedAddress)             { p.writer.Clear(ra) }

// -- Migration ---------------------------------------------------------

// reservedTag marks the reserved, staged-namespace column-family prefix.
// User index names must not begin with it (spec §9, "Reserved namespaces").
const reservedTag = "^"

// Migration places every address resolved through it under a reserved,
// staged column-family namespace derived from root, leaving the live
// namespace (reached through Prefixed or a bare access) untouched until
// the migration engine flushes it (spec §4.1, §4.5).
type Migration struct {
	root  string
	inner metaldb.Access
}

func NewMigration(root string, inner metaldb.Access) *Migration {
	return &Migration{root: root, inner: inner}
}

func (m *Migration) rewrite(addr metaldb.IndexAddress) metaldb.IndexAddress {
	return metaldb.IndexAddress{Name: reservedTag + m.root + "." + addr.Name, Key: addr.Key}
}

func (m *Migration) Resolve(addr metaldb.IndexAddress) metaldb.ResolvedAddress {
	return m.inner.Resolve(m.rewrite(addr))
}

func (m *Migration) Get(ra metaldb.ResolvedAddress, key []byte) ([]byte, bool) {
	return m.inner.Get(ra, key)
}

func (m *Migration) Iterate(ra metaldb.ResolvedAddress, from []byte) metaldb.RawIterator {
	return m.inner.Iterate(ra, from)
}

func (m *Migration) Catalog() *metaldb.Catalog { return m.inner.Catalog() }

// StagedCF returns the reserved column-family prefix this migration's
// addresses resolve under, for the migration engine's catalog aggregation.
func (m *Migration) StagedCF() string { return reservedTag + m.root }

// Exists reports whether addr has live staged data: present in the
// catalog and not tombstoned.
func (m *Migration) Exists(addr metaldb.IndexAddress) bool {
	ra := m.Resolve(addr)
	meta, found, err := m.inner.Catalog().Lookup(m.inner, ra)
	if err != nil || !found {
		return false
	}
	return meta.Type != metaldb.IndexTypeTombstone
}

// MigrationWrite is Migration over a writable inner access.
type MigrationWrite struct {
	Migration
	writer metaldb.WriteAccess
}

func NewMigrationWrite(root string, inner metaldb.WriteAccess) *MigrationWrite {
	return &MigrationWrite{Migration: Migration{root: root, inner: inner}, writer: inner}
}

func (m *MigrationWrite) Put(ra metaldb.ResolvedAddress, key, value []byte) {
	m.writer.Put(ra, key, value)
}
func (m *MigrationWrite) Delete(ra metaldb.ResolvedAddress, key []byte) { m.writer.Delete(ra, key) }
func (m *MigrationWrite) Clear(ra metaldb.ResolvedAddress)             { m.writer.Clear(ra) }

// -- Lazy ----------------------------------------------------------------

// Lazy defers acquiring its underlying access (e.g. opening a snapshot)
// until the first actual operation, caching it afterward.
type Lazy struct {
	mu    sync.Mutex
	open  func() metaldb.Access
	inner metaldb.Access
}

func NewLazy(open func() metaldb.Access) *Lazy {
	return &Lazy{open: open}
}

func (l *Lazy) resolve() metaldb.Access {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.inner == nil {
		l.inner = l.open()
	}
	return l.inner
}

func (l *Lazy) Resolve(addr metaldb.IndexAddress) metaldb.ResolvedAddress { return l.resolve().Resolve(addr) }
func (l *Lazy) Get(ra metaldb.ResolvedAddress, key []byte) ([]byte, bool) { return l.resolve().Get(ra, key) }
func (l *Lazy) Iterate(ra metaldb.ResolvedAddress, from []byte) metaldb.RawIterator {
	return l.resolve().Iterate(ra, from)
}
func (l *Lazy) Catalog() *metaldb.Catalog { return l.resolve().Catalog() }

// LazyWrite is Lazy over a writable inner access.
type LazyWrite struct {
	mu    sync.Mutex
	open  func() metaldb.WriteAccess
	inner metaldb.WriteAccess
}

func NewLazyWrite(open func() metaldb.WriteAccess) *LazyWrite {
	return &LazyWrite{open: open}
}

func (l *LazyWrite) resolve() metaldb.WriteAccess {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.inner == nil {
		l.inner = l.open()
	}
	return l.inner
}

func (l *LazyWrite) Resolve(addr metaldb.IndexAddress) metaldb.ResolvedAddress {
	return l.resolve().Resolve(addr)
}
func (l *LazyWrite) Get(ra metaldb.ResolvedAddress, key []byte) ([]byte, bool) {
	return l.resolve().Get(ra, key)
}
func (l *LazyWrite) Iterate(ra metaldb.ResolvedAddress, from []byte) metaldb.RawIterator {
	return l.resolve().Iterate(ra, from)
}
func (l *LazyWrite) Catalog() *metaldb.Catalog { return l.resolve().Catalog() }
func (l *LazyWrite) Put(ra metaldb.ResolvedAddress, key, value []byte) {
	l.resolve().Put(ra, key, value)
}
func (l *LazyWrite) Delete(ra metaldb.ResolvedAddress, key []byte) { l.resolve().Delete(ra, key) }
func (l *LazyWrite) Clear(ra metaldb.ResolvedAddress)              { l.resolve().Clear(ra) }

// Clone returns a cheaply-copyable handle onto the same access. metaldb's
// Access implementations (Fork, Snapshot, Patch, and the wrappers above)
// are already reference types, so unlike a deep-copying clone this is an
// identity pass-through; it exists so callers coming from the reference
// crate's CopyAccessExt have the same call shape available.
func Clone(a metaldb.Access) metaldb.Access { return a }
