package metaldb

import (
	"sort"
	"sync"
)

// entryChange is one staged mutation for a single physical key: either a
// pending Put (value set) or a pending Delete (deleted set, value nil).
type entryChange struct {
	deleted bool
	value   []byte
}

// changes is the change-set entry for one resolved address (spec §4.4):
// a cleared flag plus a map of staged per-key mutations.
type changes struct {
	cleared bool
	entries map[string]entryChange
}

type raKey struct {
	cf     string
	prefix string
}

func toRaKey(ra ResolvedAddress) raKey {
	return raKey{cf: ra.CF, prefix: string(ra.Prefix)}
}

func (k raKey) resolved() ResolvedAddress {
	return ResolvedAddress{CF: k.cf, Prefix: []byte(k.prefix)}
}

// overlay is the in-memory change-set shared by Fork (mutable) and Patch
// (its immutable, drained successor): a sorted-map overlay on top of a
// base Access, implementing read-your-writes (spec §4.4).
type overlay struct {
	mu   sync.Mutex
	base Access
	data map[raKey]*changes
}

func newOverlay(base Access) *overlay {
	return &overlay{base: base, data: make(map[raKey]*changes)}
}

func (o *overlay) ensure(ra ResolvedAddress) *changes {
	k := toRaKey(ra)
	ch, ok := o.data[k]
	if !ok {
		ch = &changes{entries: make(map[string]entryChange)}
		o.data[k] = ch
	}
	return ch
}

func (o *overlay) get(ra ResolvedAddress, key []byte) ([]byte, bool) {
	o.mu.Lock()
	ch := o.data[toRaKey(ra)]
	o.mu.Unlock()

	if ch != nil {
		if ec, ok := ch.entries[string(key)]; ok {
			if ec.deleted {
				return nil, false
			}
			return ec.value, true
		}
		if ch.cleared {
			return nil, false
		}
	}
	return o.base.Get(ra, key)
}

func (o *overlay) put(ra ResolvedAddress, key, value []byte) {
	o.mu.Lock()
	defer o.mu.Unlock()
	ch := o.ensure(ra)
	ch.entries[string(key)] = entryChange{value: append([]byte(nil), value...)}
}

func (o *overlay) delete(ra ResolvedAddress, key []byte) {
	o.mu.Lock()
	defer o.mu.Unlock()
	ch := o.ensure(ra)
	ch.entries[string(key)] = entryChange{deleted: true}
}

func (o *overlay) clear(ra ResolvedAddress) {
	o.mu.Lock()
	defer o.mu.Unlock()
	ch := o.ensure(ra)
	ch.cleared = true
	ch.entries = make(map[string]entryChange)
}

func (o *overlay) iterate(ra ResolvedAddress, from []byte) RawIterator {
	o.mu.Lock()
	ch := o.data[toRaKey(ra)]
	o.mu.Unlock()

	var localKeys []string
	var local map[string]entryChange
	var cleared bool
	if ch != nil {
		cleared = ch.cleared
		local = ch.entries
		for k := range ch.entries {
			if from == nil || k >= string(from) {
				localKeys = append(localKeys, k)
			}
		}
		sort.Strings(localKeys)
	}

	var baseIter RawIterator
	if !cleared {
		baseIter = o.base.Iterate(ra, from)
	}

	return &mergeIterator{localKeys: localKeys, local: local, base: baseIter}
}

// mergeIterator walks the in-memory overlay and the base snapshot's cursor
// in lock-step ascending order, letting overlay entries shadow (and
// tombstones suppress) the base stream. See spec §4.4.
type mergeIterator struct {
	localKeys []string
	li        int
	local     map[string]entryChange
	base      RawIterator
	baseValid bool
	started   bool
	key       []byte
	value     []byte
}

func (m *mergeIterator) ensureStarted() {
	if m.started {
		return
	}
	m.started = true
	if m.base != nil {
		m.baseValid = m.base.Next()
	}
}

func (m *mergeIterator) Next() bool {
	m.ensureStarted()
	for {
		hasLocal := m.li < len(m.localKeys)
		if !hasLocal && !m.baseValid {
			return false
		}

		switch {
		case hasLocal && m.baseValid:
			lk := m.localKeys[m.li]
			bk := string(m.base.Key())
			switch {
			case lk < bk:
				ec := m.local[lk]
				m.li++
				if ec.deleted {
					continue
				}
				m.key, m.value = []byte(lk), ec.value
				return true
			case lk > bk:
				m.key, m.value = m.base.Key(), m.base.Value()
				m.baseValid = m.base.Next()
				return true
			default:
				ec := m.local[lk]
				m.li++
				m.baseValid = m.base.Next()
				if ec.deleted {
					continue
				}
				m.key, m.value = []byte(lk), ec.value
				return true
			}
		case hasLocal:
			lk := m.localKeys[m.li]
			ec := m.local[lk]
			m.li++
			if ec.deleted {
				continue
			}
			m.key, m.value = []byte(lk), ec.value
			return true
		default:
			m.key, m.value = m.base.Key(), m.base.Value()
			m.baseValid = m.base.Next()
			return true
		}
	}
}

func (m *mergeIterator) Key() []byte   { return m.key }
func (m *mergeIterator) Value() []byte { return m.value }

// Fork is a mutable transactional context layered over a snapshot: the
// base for reads, and an in-memory overlay accumulating this transaction's
// writes until it is drained into a Patch (spec §3, §4.4).
type Fork struct {
	snapshot Snapshot
	overlay  *overlay
}

func newFork(snap Snapshot) *Fork {
	return &Fork{snapshot: snap, overlay: newOverlay(snap)}
}

func (f *Fork) Resolve(addr IndexAddress) ResolvedAddress { return baseResolve(addr) }
func (f *Fork) Catalog() *Catalog                         { return &Catalog{} }

func (f *Fork) Get(ra ResolvedAddress, key []byte) ([]byte, bool) {
	return f.overlay.get(ra, key)
}

func (f *Fork) Iterate(ra ResolvedAddress, from []byte) RawIterator {
	return f.overlay.iterate(ra, from)
}

func (f *Fork) Put(ra ResolvedAddress, key, value []byte) { f.overlay.put(ra, key, value) }
func (f *Fork) Delete(ra ResolvedAddress, key []byte)     { f.overlay.delete(ra, key) }
func (f *Fork) Clear(ra ResolvedAddress)                  { f.overlay.clear(ra) }

// Readonly returns a read-only projection of the fork's current state
// (snapshot ⊕ changes so far). Because it shares the fork's overlay, it
// keeps reflecting further writes the fork makes afterward; only the
// write methods are statically unavailable through it.
func (f *Fork) Readonly() *ReadonlyFork { return &ReadonlyFork{fork: f} }

// IntoPatch drains the fork's change set into an immutable Patch. The
// fork should not be written to afterward.
func (f *Fork) IntoPatch() *Patch { return &Patch{ov: f.overlay} }

// Close releases the fork's base snapshot.
func (f *Fork) Close() error { return f.snapshot.Close() }

// ReadonlyFork is a read-only access token over a Fork's live state.
type ReadonlyFork struct {
	fork *Fork
}

func (r *ReadonlyFork) Resolve(addr IndexAddress) ResolvedAddress { return baseResolve(addr) }
func (r *ReadonlyFork) Catalog() *Catalog                         { return &Catalog{} }
func (r *ReadonlyFork) Get(ra ResolvedAddress, key []byte) ([]byte, bool) {
	return r.fork.Get(ra, key)
}
func (r *ReadonlyFork) Iterate(ra ResolvedAddress, from []byte) RawIterator {
	return r.fork.Iterate(ra, from)
}

// Patch is the immutable, atomic result of draining a Fork's change set.
// It also supports reads (base snapshot ⊕ changes), so callers can inspect
// the prospective post-merge state before actually merging it (spec §4.4,
// and the migration flush scenario in spec §8).
type Patch struct {
	ov *overlay
}

func (p *Patch) Resolve(addr IndexAddress) ResolvedAddress           { return baseResolve(addr) }
func (p *Patch) Catalog() *Catalog                                   { return &Catalog{} }
func (p *Patch) Get(ra ResolvedAddress, key []byte) ([]byte, bool)   { return p.ov.get(ra, key) }
func (p *Patch) Iterate(ra ResolvedAddress, from []byte) RawIterator { return p.ov.iterate(ra, from) }

// forEach walks every resolved address touched by the patch, in no
// particular order (backends apply them as one atomic batch so order
// does not matter, per spec invariant I2).
func (p *Patch) forEach(fn func(ra ResolvedAddress, ch *changes)) {
	for k, ch := range p.ov.data {
		fn(k.resolved(), ch)
	}
}
