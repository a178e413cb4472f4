package metaldb

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"
)

// IndexAddress is a logical, name-based pointer to an index: a dotted name
// plus an optional group-key suffix distinguishing one member of a Group
// from another. Two addresses are equal iff both fields compare equal
// byte-wise.
type IndexAddress struct {
	Name string
	Key  []byte
}

// NewIndexAddress builds a top-level address (no group key).
func NewIndexAddress(name string) IndexAddress {
	return IndexAddress{Name: name}
}

// InGroup returns the address of a Group child identified by key.
func (a IndexAddress) InGroup(key []byte) IndexAddress {
	return IndexAddress{Name: a.Name, Key: append([]byte(nil), key...)}
}

// Equal reports whether two addresses denote the same index.
func (a IndexAddress) Equal(other IndexAddress) bool {
	return a.Name == other.Name && bytes.Equal(a.Key, other.Key)
}

func (a IndexAddress) String() string {
	if len(a.Key) == 0 {
		return a.Name
	}
	return fmt.Sprintf("%s[%x]", a.Name, a.Key)
}

// ResolvedAddress is the physical location an IndexAddress maps to: a
// column family (a bbolt bucket name) and a key prefix within it.
//
// Resolution choice (spec §4.1, §9 Open Question): metaldb always maps
// CF = address.Name verbatim (dots included) and folds only the group key,
// length-prefixed, into Prefix. This is the simplest of the two
// correctness-equivalent choices the spec allows, and it is stable across
// restarts because it depends on nothing but the address itself — see
// DESIGN.md.
type ResolvedAddress struct {
	CF     string
	Prefix []byte
}

func (r ResolvedAddress) String() string {
	return fmt.Sprintf("%s/%x", r.CF, r.Prefix)
}

// baseResolve is the resolution rule shared by every primitive access
// (Snapshot, Fork, ReadonlyFork, Patch). Access wrappers such as Prefixed
// and Migration rewrite addr.Name before delegating to it.
func baseResolve(addr IndexAddress) ResolvedAddress {
	if len(addr.Key) == 0 {
		return ResolvedAddress{CF: addr.Name}
	}
	var buf bytes.Buffer
	var lenBuf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(lenBuf[:], uint64(len(addr.Key)))
	buf.Write(lenBuf[:n])
	buf.Write(addr.Key)
	return ResolvedAddress{CF: addr.Name, Prefix: buf.Bytes()}
}

// IndexType tags the on-disk collection kind stored at a resolved address.
type IndexType uint8

const (
	IndexTypeUnknown IndexType = iota
	IndexTypeEntry
	IndexTypeList
	IndexTypeSparseList
	IndexTypeMap
	IndexTypeKeySet
	IndexTypeValueSet
	IndexTypeGroup
	IndexTypeTombstone
)

func (t IndexType) String() string {
	switch t {
	case IndexTypeEntry:
		return "Entry"
	case IndexTypeList:
		return "List"
	case IndexTypeSparseList:
		return "SparseList"
	case IndexTypeMap:
		return "Map"
	case IndexTypeKeySet:
		return "KeySet"
	case IndexTypeValueSet:
		return "ValueSet"
	case IndexTypeGroup:
		return "Group"
	case IndexTypeTombstone:
		return "Tombstone"
	default:
		return "Unknown"
	}
}

// IndexMetadata is the system catalog's record for one allocated index:
// its type tag, a stable identity assigned at first open, and optional
// per-type state such as a list's length.
type IndexMetadata struct {
	Type     IndexType
	Identity uuid.UUID
	State    []byte
}

func encodeIndexMetadata(m IndexMetadata) []byte {
	buf := make([]byte, 0, 1+16+len(m.State))
	buf = append(buf, byte(m.Type))
	buf = append(buf, m.Identity[:]...)
	buf = append(buf, m.State...)
	return buf
}

func decodeIndexMetadata(data []byte) (IndexMetadata, error) {
	if len(data) < 17 {
		return IndexMetadata{}, fmt.Errorf("%w: index metadata too short (%d bytes)", ErrDecodeFailure, len(data))
	}
	m := IndexMetadata{Type: IndexType(data[0])}
	copy(m.Identity[:], data[1:17])
	if len(data) > 17 {
		m.State = append([]byte(nil), data[17:]...)
	}
	return m, nil
}
