package indexes

import "github.com/olegnn/metaldb"

// Entries decodes raw key/value pairs as it walks a raw cursor; MapIndex
// builds its iterator on it (KeySetIndex uses Keys and ValueSetIndex uses
// Values, below). Decoding stops (Next returns false, Err
// becomes non-nil) at the first malformed key or value rather than
// skipping it.
type Entries[K, V any] struct {
	raw      metaldb.RawIterator
	keyCodec metaldb.KeyCodec[K]
	valCodec metaldb.ValueCodec[V]
	err      error
}

func newEntries[K, V any](raw metaldb.RawIterator, keyCodec metaldb.KeyCodec[K], valCodec metaldb.ValueCodec[V]) *Entries[K, V] {
	return &Entries[K, V]{raw: raw, keyCodec: keyCodec, valCodec: valCodec}
}

// Next returns the next decoded (key, value) pair, or ok=false at the end
// or on a decode failure.
func (it *Entries[K, V]) Next() (K, V, bool) {
	var zeroK K
	var zeroV V
	if it.err != nil || !it.raw.Next() {
		return zeroK, zeroV, false
	}
	k, err := it.keyCodec.DecodeKey(it.raw.Key())
	if err != nil {
		it.err = err
		return zeroK, zeroV, false
	}
	v, err := it.valCodec.DecodeValue(it.raw.Value())
	if err != nil {
		it.err = err
		return zeroK, zeroV, false
	}
	return k, v, true
}

// Err returns the decode error, if the iterator stopped early because of one.
func (it *Entries[K, V]) Err() error { return it.err }

// Keys decodes only the key half of a raw cursor walk, never touching the
// value bytes.
type Keys[K any] struct {
	raw   metaldb.RawIterator
	codec metaldb.KeyCodec[K]
	err   error
}

func newKeys[K any](raw metaldb.RawIterator, codec metaldb.KeyCodec[K]) *Keys[K] {
	return &Keys[K]{raw: raw, codec: codec}
}

// Next returns the next key, or ok=false at the end or on decode failure.
func (it *Keys[K]) Next() (K, bool) {
	var zero K
	if it.err != nil || !it.raw.Next() {
		return zero, false
	}
	k, err := it.codec.DecodeKey(it.raw.Key())
	if err != nil {
		it.err = err
		return zero, false
	}
	return k, true
}

// Err returns the decode error, if the iterator stopped early because of one.
func (it *Keys[K]) Err() error { return it.err }

// Values decodes only the value half of a raw cursor walk, never touching
// the key bytes.
type Values[V any] struct {
	raw   metaldb.RawIterator
	codec metaldb.ValueCodec[V]
	err   error
}

func newValues[V any](raw metaldb.RawIterator, codec metaldb.ValueCodec[V]) *Values[V] {
	return &Values[V]{raw: raw, codec: codec}
}

// Next returns the next value, or ok=false at the end or on decode failure.
func (it *Values[V]) Next() (V, bool) {
	var zero V
	if it.err != nil || !it.raw.Next() {
		return zero, false
	}
	v, err := it.codec.DecodeValue(it.raw.Value())
	if err != nil {
		it.err = err
		return zero, false
	}
	return v, true
}

// Err returns the decode error, if the iterator stopped early because of one.
func (it *Values[V]) Err() error { return it.err }
