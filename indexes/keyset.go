package indexes

import "github.com/olegnn/metaldb"

// KeySetIndex is a set of keys of type K, stored as keys with an empty
// value payload.
type KeySetIndex[K any] struct {
	view  *metaldb.View
	codec metaldb.KeyCodec[K]
}

// NewKeySetIndex opens or allocates a KeySetIndex at addr.
func NewKeySetIndex[K any](a metaldb.Access, addr metaldb.IndexAddress, codec metaldb.KeyCodec[K]) (*KeySetIndex[K], error) {
	v, err := metaldb.OpenView(a, addr, metaldb.IndexTypeKeySet)
	if err != nil {
		return nil, err
	}
	return &KeySetIndex[K]{view: v, codec: codec}, nil
}

// Add inserts k into the set.
func (s *KeySetIndex[K]) Add(k K) error {
	return s.view.Put(s.codec.EncodeKey(k), []byte{})
}

// Remove deletes k from the set.
func (s *KeySetIndex[K]) Remove(k K) error {
	return s.view.Delete(s.codec.EncodeKey(k))
}

// Contains reports whether k is a member.
func (s *KeySetIndex[K]) Contains(k K) bool {
	_, ok := s.view.Get(s.codec.EncodeKey(k))
	return ok
}

// Clear empties the set.
func (s *KeySetIndex[K]) Clear() error {
	return s.view.Clear()
}

// Iterate returns a lazy iterator over the set's members in key-codec
// byte order, built on the shared Keys cursor (see iter.go).
func (s *KeySetIndex[K]) Iterate() *KeySetIterator[K] {
	return &KeySetIterator[K]{keys: newKeys(s.view.Iterate(nil), s.codec)}
}

// KeySetIterator wraps the shared Keys[K] cursor for a KeySetIndex.
type KeySetIterator[K any] struct {
	keys *Keys[K]
}

// Next returns the next member, or ok=false at the end or on decode failure.
func (it *KeySetIterator[K]) Next() (K, bool) { return it.keys.Next() }

// Err returns the decode error, if the iterator stopped early because of one.
func (it *KeySetIterator[K]) Err() error { return it.keys.Err() }
