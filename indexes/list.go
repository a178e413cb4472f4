package indexes

import (
	"fmt"

	"github.com/olegnn/metaldb"
)

const listLenMeta = "len"

// ListIndex is an append-only, random-access log indexed by uint64.
type ListIndex[V any] struct {
	view   *metaldb.View
	codec  metaldb.ValueCodec[V]
	length uint64
}

// NewListIndex opens or allocates a ListIndex at addr.
func NewListIndex[V any](a metaldb.Access, addr metaldb.IndexAddress, codec metaldb.ValueCodec[V]) (*ListIndex[V], error) {
	v, err := metaldb.OpenView(a, addr, metaldb.IndexTypeList)
	if err != nil {
		return nil, err
	}
	l := &ListIndex[V]{view: v, codec: codec}
	if raw, ok := v.GetMeta(listLenMeta); ok {
		n, err := (metaldb.Uint64Value{}).DecodeValue(raw)
		if err != nil {
			return nil, err
		}
		l.length = n
	}
	return l, nil
}

func (l *ListIndex[V]) saveLen() error {
	return l.view.PutMeta(listLenMeta, (metaldb.Uint64Value{}).EncodeValue(l.length))
}

// Len returns the number of elements.
func (l *ListIndex[V]) Len() uint64 { return l.length }

// Get returns the element at i, if i is in range.
func (l *ListIndex[V]) Get(i uint64) (V, bool) {
	var zero V
	if i >= l.length {
		return zero, false
	}
	raw, ok := l.view.Get((metaldb.Uint64Key{}).EncodeKey(i))
	if !ok {
		return zero, false
	}
	v, err := l.codec.DecodeValue(raw)
	if err != nil {
		return zero, false
	}
	return v, true
}

// Push appends v, growing the length by one.
func (l *ListIndex[V]) Push(v V) error {
	key := (metaldb.Uint64Key{}).EncodeKey(l.length)
	if err := l.view.Put(key, l.codec.EncodeValue(v)); err != nil {
		return err
	}
	l.length++
	return l.saveLen()
}

// Pop removes and returns the last element, if any.
func (l *ListIndex[V]) Pop() (V, bool, error) {
	var zero V
	if l.length == 0 {
		return zero, false, nil
	}
	idx := l.length - 1
	key := (metaldb.Uint64Key{}).EncodeKey(idx)
	raw, ok := l.view.Get(key)
	if !ok {
		return zero, false, nil
	}
	v, err := l.codec.DecodeValue(raw)
	if err != nil {
		return zero, false, err
	}
	if err := l.view.Delete(key); err != nil {
		return v, true, err
	}
	l.length = idx
	if err := l.saveLen(); err != nil {
		return v, true, err
	}
	return v, true, nil
}

// Set overwrites the element at i. i must be < Len(), else ErrOutOfRange.
func (l *ListIndex[V]) Set(i uint64, v V) error {
	if i >= l.length {
		return fmt.Errorf("%w: index %d, length %d", metaldb.ErrOutOfRange, i, l.length)
	}
	return l.view.Put((metaldb.Uint64Key{}).EncodeKey(i), l.codec.EncodeValue(v))
}

// Truncate drops every element from index n onward. A no-op if n >= Len().
func (l *ListIndex[V]) Truncate(n uint64) error {
	if n >= l.length {
		return nil
	}
	for i := n; i < l.length; i++ {
		if err := l.view.Delete((metaldb.Uint64Key{}).EncodeKey(i)); err != nil {
			return err
		}
	}
	l.length = n
	return l.saveLen()
}

// Extend pushes every element of vs in order.
func (l *ListIndex[V]) Extend(vs []V) error {
	for _, v := range vs {
		if err := l.Push(v); err != nil {
			return err
		}
	}
	return nil
}

// Clear drops every element and resets the length to zero.
func (l *ListIndex[V]) Clear() error {
	if err := l.view.Clear(); err != nil {
		return err
	}
	l.length = 0
	return nil
}

// Iter returns a forward iterator over the list's elements.
func (l *ListIndex[V]) Iter() *ListIterator[V] { return &ListIterator[V]{list: l} }

// ListIterator walks a ListIndex from index 0 upward.
type ListIterator[V any] struct {
	list *ListIndex[V]
	i    uint64
}

// Next returns the next (index, value) pair, or ok=false at the end.
func (it *ListIterator[V]) Next() (uint64, V, bool) {
	if it.i < it.list.length {
		idx := it.i
		it.i++
		v, _ := it.list.Get(idx)
		return idx, v, true
	}
	var zero V
	return 0, zero, false
}
