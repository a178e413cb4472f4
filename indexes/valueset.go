package indexes

import (
	"crypto/sha256"

	"github.com/olegnn/metaldb"
)

// ValueSetIndex is a set of values of type V, keyed by a sha256 digest of
// the encoded value (the collision-resistant hash the spec leaves
// implementation-defined). The value itself is stored as the payload so
// iteration can recover it without a second lookup.
type ValueSetIndex[V any] struct {
	view  *metaldb.View
	codec metaldb.ValueCodec[V]
}

// NewValueSetIndex opens or allocates a ValueSetIndex at addr.
func NewValueSetIndex[V any](a metaldb.Access, addr metaldb.IndexAddress, codec metaldb.ValueCodec[V]) (*ValueSetIndex[V], error) {
	v, err := metaldb.OpenView(a, addr, metaldb.IndexTypeValueSet)
	if err != nil {
		return nil, err
	}
	return &ValueSetIndex[V]{view: v, codec: codec}, nil
}

func digestKey(raw []byte) []byte {
	sum := sha256.Sum256(raw)
	return sum[:]
}

// Add inserts v into the set.
func (s *ValueSetIndex[V]) Add(v V) error {
	raw := s.codec.EncodeValue(v)
	return s.view.Put(digestKey(raw), raw)
}

// Remove deletes v from the set.
func (s *ValueSetIndex[V]) Remove(v V) error {
	return s.view.Delete(digestKey(s.codec.EncodeValue(v)))
}

// Contains reports whether v is a member.
func (s *ValueSetIndex[V]) Contains(v V) bool {
	_, ok := s.view.Get(digestKey(s.codec.EncodeValue(v)))
	return ok
}

// Clear empties the set.
func (s *ValueSetIndex[V]) Clear() error {
	return s.view.Clear()
}

// Iterate returns a lazy iterator over the set's members, in digest order
// (not the value's natural order), built on the shared Values cursor (see
// iter.go).
func (s *ValueSetIndex[V]) Iterate() *ValueSetIterator[V] {
	return &ValueSetIterator[V]{values: newValues(s.view.Iterate(nil), s.codec)}
}

// ValueSetIterator wraps the shared Values[V] cursor for a ValueSetIndex.
type ValueSetIterator[V any] struct {
	values *Values[V]
}

// Next returns the next member, or ok=false at the end or on decode failure.
func (it *ValueSetIterator[V]) Next() (V, bool) { return it.values.Next() }

// Err returns the decode error, if the iterator stopped early because of one.
func (it *ValueSetIterator[V]) Err() error { return it.values.Err() }
