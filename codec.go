package metaldb

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
)

// KeyCodec is the key-codec contract (spec §2 item 1): an ordered byte
// encoding, fixed or variable width, with an owned decode from bytes.
// Implementations must preserve byte-order: a.EncodeKey(x) <= a.EncodeKey(y)
// (as byte slices) iff x <= y for K's natural order.
type KeyCodec[K any] interface {
	EncodeKey(k K) []byte
	DecodeKey(b []byte) (K, error)
}

// ValueCodec is the value-codec contract: a non-ordered, round-trippable
// byte encoding.
type ValueCodec[V any] interface {
	EncodeValue(v V) []byte
	DecodeValue(b []byte) (V, error)
}

// -- built-in key codecs -----------------------------------------------

// Uint8Key is the identity codec for byte-sized keys.
type Uint8Key struct{}

func (Uint8Key) EncodeKey(k uint8) []byte { return []byte{k} }
func (Uint8Key) DecodeKey(b []byte) (uint8, error) {
	if len(b) != 1 {
		return 0, fmt.Errorf("%w: uint8 key wants 1 byte, got %d", ErrDecodeFailure, len(b))
	}
	return b[0], nil
}

// Uint32Key encodes uint32 keys big-endian, preserving numeric order.
type Uint32Key struct{}

func (Uint32Key) EncodeKey(k uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, k)
	return b
}
func (Uint32Key) DecodeKey(b []byte) (uint32, error) {
	if len(b) != 4 {
		return 0, fmt.Errorf("%w: uint32 key wants 4 bytes, got %d", ErrDecodeFailure, len(b))
	}
	return binary.BigEndian.Uint32(b), nil
}

// Uint64Key encodes uint64 keys big-endian, preserving numeric order. It is
// also used internally for ListIndex/SparseListIndex element indices.
type Uint64Key struct{}

func (Uint64Key) EncodeKey(k uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, k)
	return b
}
func (Uint64Key) DecodeKey(b []byte) (uint64, error) {
	if len(b) != 8 {
		return 0, fmt.Errorf("%w: uint64 key wants 8 bytes, got %d", ErrDecodeFailure, len(b))
	}
	return binary.BigEndian.Uint64(b), nil
}

// StringKey encodes string keys as their raw UTF-8 bytes. Go's byte-wise
// string comparison already matches lexicographic byte-slice order, so
// this is order-preserving without any transformation.
type StringKey struct{}

func (StringKey) EncodeKey(k string) []byte { return []byte(k) }
func (StringKey) DecodeKey(b []byte) (string, error) {
	return string(b), nil
}

// BytesKey encodes []byte keys as themselves.
type BytesKey struct{}

func (BytesKey) EncodeKey(k []byte) []byte { return append([]byte(nil), k...) }
func (BytesKey) DecodeKey(b []byte) ([]byte, error) {
	return append([]byte(nil), b...), nil
}

// -- built-in value codecs -----------------------------------------------

// BytesValue stores []byte values verbatim.
type BytesValue struct{}

func (BytesValue) EncodeValue(v []byte) []byte { return append([]byte(nil), v...) }
func (BytesValue) DecodeValue(b []byte) ([]byte, error) {
	return append([]byte(nil), b...), nil
}

// StringValue stores strings as UTF-8 bytes.
type StringValue struct{}

func (StringValue) EncodeValue(v string) []byte { return []byte(v) }
func (StringValue) DecodeValue(b []byte) (string, error) {
	return string(b), nil
}

// Uint64Value round-trips uint64 values big-endian.
type Uint64Value struct{}

func (Uint64Value) EncodeValue(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
func (Uint64Value) DecodeValue(b []byte) (uint64, error) {
	if len(b) != 8 {
		return 0, fmt.Errorf("%w: uint64 value wants 8 bytes, got %d", ErrDecodeFailure, len(b))
	}
	return binary.BigEndian.Uint64(b), nil
}

// Int32Value round-trips int32 values big-endian (via the zig-zag-free
// two's complement bit pattern; order is not guaranteed, only round-trip,
// matching the ValueCodec contract).
type Int32Value struct{}

func (Int32Value) EncodeValue(v int32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, uint32(v))
	return b
}
func (Int32Value) DecodeValue(b []byte) (int32, error) {
	if len(b) != 4 {
		return 0, fmt.Errorf("%w: int32 value wants 4 bytes, got %d", ErrDecodeFailure, len(b))
	}
	return int32(binary.BigEndian.Uint32(b)), nil
}

// JSONValue adapts encoding/json as a ValueCodec for arbitrary struct
// values, the same serialization pkg/storage's BoltStore uses for its
// records.
type JSONValue[V any] struct{}

func (JSONValue[V]) EncodeValue(v V) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		// A value refusing to marshal is a programmer error (unsupported
		// field type), not a recoverable runtime condition; the codec
		// contract has no error return for Encode.
		panic(fmt.Sprintf("metaldb: JSONValue.EncodeValue: %v", err))
	}
	return data
}

func (JSONValue[V]) DecodeValue(b []byte) (V, error) {
	var v V
	if err := json.Unmarshal(b, &v); err != nil {
		return v, fmt.Errorf("%w: %v", ErrDecodeFailure, err)
	}
	return v, nil
}
