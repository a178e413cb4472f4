package indexes

import "github.com/olegnn/metaldb"

// MapIndex is an ordered map keyed by a KeyCodec type, iterating in the
// key codec's byte order.
type MapIndex[K, V any] struct {
	view     *metaldb.View
	keyCodec metaldb.KeyCodec[K]
	valCodec metaldb.ValueCodec[V]
}

// NewMapIndex opens or allocates a MapIndex at addr.
func NewMapIndex[K, V any](a metaldb.Access, addr metaldb.IndexAddress, keyCodec metaldb.KeyCodec[K], valCodec metaldb.ValueCodec[V]) (*MapIndex[K, V], error) {
	v, err := metaldb.OpenView(a, addr, metaldb.IndexTypeMap)
	if err != nil {
		return nil, err
	}
	return &MapIndex[K, V]{view: v, keyCodec: keyCodec, valCodec: valCodec}, nil
}

// Get looks up the value stored at k.
func (m *MapIndex[K, V]) Get(k K) (V, bool) {
	var zero V
	raw, ok := m.view.Get(m.keyCodec.EncodeKey(k))
	if !ok {
		return zero, false
	}
	v, err := m.valCodec.DecodeValue(raw)
	if err != nil {
		return zero, false
	}
	return v, true
}

// Contains reports whether k has a stored value.
func (m *MapIndex[K, V]) Contains(k K) bool {
	_, ok := m.view.Get(m.keyCodec.EncodeKey(k))
	return ok
}

// Put stores v at k, overwriting any previous value.
func (m *MapIndex[K, V]) Put(k K, v V) error {
	return m.view.Put(m.keyCodec.EncodeKey(k), m.valCodec.EncodeValue(v))
}

// Remove deletes the value at k, if any.
func (m *MapIndex[K, V]) Remove(k K) error {
	return m.view.Delete(m.keyCodec.EncodeKey(k))
}

// Clear drops every entry.
func (m *MapIndex[K, V]) Clear() error {
	return m.view.Clear()
}

// MapEntry is one decoded (key, value) pair yielded during iteration.
type MapEntry[K, V any] struct {
	Key   K
	Value V
}

// Iterate returns a lazy, single-pass iterator over the map's entries in
// key-codec byte order, built on the shared Entries cursor (see iter.go).
func (m *MapIndex[K, V]) Iterate() *MapIterator[K, V] {
	return &MapIterator[K, V]{entries: newEntries(m.view.Iterate(nil), m.keyCodec, m.valCodec)}
}

// MapIterator adapts the shared Entries[K, V] cursor to yield MapEntry
// values instead of bare (key, value) pairs.
type MapIterator[K, V any] struct {
	entries *Entries[K, V]
}

// Next returns the next decoded entry, or ok=false at the end or on a
// decode failure (check Err afterward to distinguish the two).
func (it *MapIterator[K, V]) Next() (MapEntry[K, V], bool) {
	k, v, ok := it.entries.Next()
	if !ok {
		return MapEntry[K, V]{}, false
	}
	return MapEntry[K, V]{Key: k, Value: v}, true
}

// Err returns the decode error, if the iterator stopped early because of one.
func (it *MapIterator[K, V]) Err() error { return it.entries.Err() }

// Keys eagerly collects every key in order. Intended for small maps and
// tests; Iterate is the streaming alternative.
func (m *MapIndex[K, V]) Keys() ([]K, error) {
	it := m.Iterate()
	var keys []K
	for {
		e, ok := it.Next()
		if !ok {
			break
		}
		keys = append(keys, e.Key)
	}
	return keys, it.Err()
}

// Values eagerly collects every value in key order.
func (m *MapIndex[K, V]) Values() ([]V, error) {
	it := m.Iterate()
	var values []V
	for {
		e, ok := it.Next()
		if !ok {
			break
		}
		values = append(values, e.Value)
	}
	return values, it.Err()
}
