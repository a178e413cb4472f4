package indexes

import "github.com/olegnn/metaldb"

// Opener constructs a Child index bound to access and addr; it is the
// shape every index constructor in this package already has (NewEntry,
// NewMapIndex, ...), so existing constructors can be used directly.
type Opener[Child any] func(access metaldb.Access, addr metaldb.IndexAddress) (Child, error)

// Group is a factory, not an index itself: Get(k) opens a Child at the
// parent address's group key k. Constructing a Group never touches the
// catalog; only Get does, on the child's first open.
type Group[K, Child any] struct {
	access   metaldb.Access
	addr     metaldb.IndexAddress
	keyCodec metaldb.KeyCodec[K]
	open     Opener[Child]
}

// NewGroup builds a Group of children opened with open, addressed by keys
// encoded with keyCodec.
func NewGroup[K, Child any](a metaldb.Access, addr metaldb.IndexAddress, keyCodec metaldb.KeyCodec[K], open Opener[Child]) *Group[K, Child] {
	return &Group[K, Child]{access: a, addr: addr, keyCodec: keyCodec, open: open}
}

// Get opens (allocating on first use) the child at group key k.
func (g *Group[K, Child]) Get(k K) (Child, error) {
	childAddr := g.addr.InGroup(g.keyCodec.EncodeKey(k))
	return g.open(g.access, childAddr)
}
