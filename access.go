package metaldb

// RawIterator walks the physical key-value pairs under one resolved
// address, in ascending byte order, stopping once a key no longer falls
// under the address's prefix. It is lazy and single-pass: start a new one
// to iterate again.
type RawIterator interface {
	// Next advances the cursor and reports whether an item is available.
	Next() bool
	// Key returns the current item's key with the resolved prefix
	// already stripped off.
	Key() []byte
	// Value returns the current item's value.
	Value() []byte
}

// Access is the capability every access flavor (Snapshot, Fork,
// ReadonlyFork, Patch, and the Prefixed/Migration/Lazy wrappers over them)
// exposes: address resolution plus read operations, expressed as a small
// polymorphic contract so index types never need to know which flavor they
// were opened against.
type Access interface {
	// Resolve turns a logical address into its physical location,
	// applying whatever rewriting this access flavor performs.
	Resolve(addr IndexAddress) ResolvedAddress
	// Get looks up a single physical key within ra's column family.
	Get(ra ResolvedAddress, key []byte) ([]byte, bool)
	// Iterate opens a forward cursor over ra's keyspace, optionally
	// seeked to the first key >= from.
	Iterate(ra ResolvedAddress, from []byte) RawIterator
	// Catalog returns the system catalog backing this access. Wrappers
	// delegate to their inner access's catalog: the catalog is addressed
	// by physical, not logical, address and so is shared regardless of
	// which wrapper resolved it.
	Catalog() *Catalog
}

// WriteAccess is an Access that also accepts mutations. Only Fork
// implements it directly; Prefixed/Migration/Lazy wrap it transparently
// when their inner access does.
type WriteAccess interface {
	Access
	// Put stages key -> value. Buckets are created lazily on first write.
	Put(ra ResolvedAddress, key, value []byte)
	// Delete stages a tombstone for key.
	Delete(ra ResolvedAddress, key []byte)
	// Clear marks every pre-existing key under ra as logically deleted
	// and drops any puts already staged for ra.
	Clear(ra ResolvedAddress)
}
