package indexes

import "github.com/olegnn/metaldb"

const entryValueMeta = "value"

// Entry holds at most one value of type V at a fixed metadata key.
type Entry[V any] struct {
	view  *metaldb.View
	codec metaldb.ValueCodec[V]
}

// NewEntry opens or allocates an Entry at addr.
func NewEntry[V any](a metaldb.Access, addr metaldb.IndexAddress, codec metaldb.ValueCodec[V]) (*Entry[V], error) {
	v, err := metaldb.OpenView(a, addr, metaldb.IndexTypeEntry)
	if err != nil {
		return nil, err
	}
	return &Entry[V]{view: v, codec: codec}, nil
}

// Get returns the stored value, if any.
func (e *Entry[V]) Get() (V, bool) {
	var zero V
	raw, ok := e.view.GetMeta(entryValueMeta)
	if !ok {
		return zero, false
	}
	v, err := e.codec.DecodeValue(raw)
	if err != nil {
		return zero, false
	}
	return v, true
}

// Exists reports whether a value is currently stored.
func (e *Entry[V]) Exists() bool {
	_, ok := e.view.GetMeta(entryValueMeta)
	return ok
}

// Set stores v, overwriting any existing value.
func (e *Entry[V]) Set(v V) error {
	return e.view.PutMeta(entryValueMeta, e.codec.EncodeValue(v))
}

// Remove drops the stored value, if any.
func (e *Entry[V]) Remove() error {
	return e.view.DeleteMeta(entryValueMeta)
}

// Take returns and removes the stored value in one step.
func (e *Entry[V]) Take() (V, bool, error) {
	v, ok := e.Get()
	if !ok {
		return v, false, nil
	}
	if err := e.Remove(); err != nil {
		return v, true, err
	}
	return v, true, nil
}
