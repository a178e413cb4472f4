package indexes

import "github.com/olegnn/metaldb"

const (
	sparseLenMeta = "len"
	sparseCapMeta = "cap"
)

// SparseListIndex is a ListIndex that leaves holes on deletion instead of
// shifting later elements down. Iteration skips holes; Len counts only
// the live elements, Capacity is the number of slots ever allocated.
type SparseListIndex[V any] struct {
	view     *metaldb.View
	codec    metaldb.ValueCodec[V]
	length   uint64
	capacity uint64
}

// NewSparseListIndex opens or allocates a SparseListIndex at addr.
func NewSparseListIndex[V any](a metaldb.Access, addr metaldb.IndexAddress, codec metaldb.ValueCodec[V]) (*SparseListIndex[V], error) {
	v, err := metaldb.OpenView(a, addr, metaldb.IndexTypeSparseList)
	if err != nil {
		return nil, err
	}
	s := &SparseListIndex[V]{view: v, codec: codec}
	if raw, ok := v.GetMeta(sparseLenMeta); ok {
		n, err := (metaldb.Uint64Value{}).DecodeValue(raw)
		if err != nil {
			return nil, err
		}
		s.length = n
	}
	if raw, ok := v.GetMeta(sparseCapMeta); ok {
		n, err := (metaldb.Uint64Value{}).DecodeValue(raw)
		if err != nil {
			return nil, err
		}
		s.capacity = n
	}
	return s, nil
}

func (s *SparseListIndex[V]) saveMeta() error {
	if err := s.view.PutMeta(sparseLenMeta, (metaldb.Uint64Value{}).EncodeValue(s.length)); err != nil {
		return err
	}
	return s.view.PutMeta(sparseCapMeta, (metaldb.Uint64Value{}).EncodeValue(s.capacity))
}

// Len returns the number of live (non-hole) elements.
func (s *SparseListIndex[V]) Len() uint64 { return s.length }

// Capacity returns the number of slots ever allocated, including holes.
func (s *SparseListIndex[V]) Capacity() uint64 { return s.capacity }

// Get returns the element at i, or ok=false if i is out of range or a hole.
func (s *SparseListIndex[V]) Get(i uint64) (V, bool) {
	var zero V
	if i >= s.capacity {
		return zero, false
	}
	raw, ok := s.view.Get((metaldb.Uint64Key{}).EncodeKey(i))
	if !ok {
		return zero, false
	}
	v, err := s.codec.DecodeValue(raw)
	if err != nil {
		return zero, false
	}
	return v, true
}

// Push allocates a new slot and stores v in it.
func (s *SparseListIndex[V]) Push(v V) error {
	idx := s.capacity
	if err := s.view.Put((metaldb.Uint64Key{}).EncodeKey(idx), s.codec.EncodeValue(v)); err != nil {
		return err
	}
	s.capacity++
	s.length++
	return s.saveMeta()
}

// Remove deletes the element at i, leaving a hole. Reports whether there
// was a live element there.
func (s *SparseListIndex[V]) Remove(i uint64) (V, bool, error) {
	var zero V
	if i >= s.capacity {
		return zero, false, nil
	}
	key := (metaldb.Uint64Key{}).EncodeKey(i)
	raw, ok := s.view.Get(key)
	if !ok {
		return zero, false, nil
	}
	v, err := s.codec.DecodeValue(raw)
	if err != nil {
		return zero, false, err
	}
	if err := s.view.Delete(key); err != nil {
		return v, true, err
	}
	s.length--
	if err := s.saveMeta(); err != nil {
		return v, true, err
	}
	return v, true, nil
}

// Clear drops every element, hole or not, and resets length and capacity.
func (s *SparseListIndex[V]) Clear() error {
	if err := s.view.Clear(); err != nil {
		return err
	}
	s.length, s.capacity = 0, 0
	return nil
}

// Iter returns a forward iterator that skips holes.
func (s *SparseListIndex[V]) Iter() *SparseListIterator[V] {
	return &SparseListIterator[V]{list: s}
}

// SparseListIterator walks a SparseListIndex from slot 0 upward, skipping holes.
type SparseListIterator[V any] struct {
	list *SparseListIndex[V]
	i    uint64
}

// Next returns the next (index, value) pair, or ok=false at the end.
func (it *SparseListIterator[V]) Next() (uint64, V, bool) {
	for it.i < it.list.capacity {
		idx := it.i
		it.i++
		if v, ok := it.list.Get(idx); ok {
			return idx, v, true
		}
	}
	var zero V
	return 0, zero, false
}
