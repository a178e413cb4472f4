package metaldb

// metaKeyTag is the leading byte of structural metadata keys (list length,
// sparse-list capacity, an Entry's value, ...), which live under the same
// resolved address as element keys (spec §4.2). List and sparse-list
// element keys are 8-byte big-endian indices and only begin with 0xFE at
// indices of 0xFE<<56 and above. Other key codecs are not restricted:
// Uint8Key encodes 254 as 0xFE, and BytesKey/StringKey keys may begin with
// 0xFE; the index types that use those codecs store no metadata keys.
const metaKeyTag = 0xFE

// View is a typed window into a single index's keyspace, bound to one
// access token. Index types in package indexes are built on top of a View
// plus a pair of codecs; View itself only deals in raw bytes.
type View struct {
	access   Access
	resolved ResolvedAddress
	typeTag  IndexType
	meta     IndexMetadata
}

// OpenView resolves addr against access, performs the catalog open-or-allocate
// sequence from spec §4.1, and returns a bound View. It is the single entry
// point every index type constructor funnels through.
func OpenView(access Access, addr IndexAddress, typeTag IndexType) (*View, error) {
	ra := access.Resolve(addr)
	meta, err := access.Catalog().Open(access, ra, typeTag)
	if err != nil {
		return nil, err
	}
	return &View{access: access, resolved: ra, typeTag: typeTag, meta: meta}, nil
}

// Resolved returns the view's physical address.
func (v *View) Resolved() ResolvedAddress { return v.resolved }

// Meta returns the index's current catalog metadata.
func (v *View) Meta() IndexMetadata { return v.meta }

// SetState persists updated per-type state (e.g. a list's length) to the
// catalog and keeps the in-memory copy in sync.
func (v *View) SetState(state []byte) error {
	v.meta.State = state
	return v.access.Catalog().SaveState(v.access, v.resolved, v.meta)
}

// Get looks up a single user key.
func (v *View) Get(key []byte) ([]byte, bool) {
	return v.access.Get(v.resolved, key)
}

func (v *View) writable() (WriteAccess, error) {
	wa, ok := v.access.(WriteAccess)
	if !ok {
		return nil, ErrReadOnlyAccess
	}
	return wa, nil
}

// Put stages key -> value.
func (v *View) Put(key, value []byte) error {
	wa, err := v.writable()
	if err != nil {
		return err
	}
	wa.Put(v.resolved, key, value)
	return nil
}

// Delete stages a tombstone for key.
func (v *View) Delete(key []byte) error {
	wa, err := v.writable()
	if err != nil {
		return err
	}
	wa.Delete(v.resolved, key)
	return nil
}

// Clear drops every user key and metadata key under this view's address.
func (v *View) Clear() error {
	wa, err := v.writable()
	if err != nil {
		return err
	}
	wa.Clear(v.resolved)
	return nil
}

// Iterate opens a forward cursor over every key under this view's
// address, reserved metadata keys included, optionally seeked to the
// first key >= from.
func (v *View) Iterate(from []byte) RawIterator {
	return v.access.Iterate(v.resolved, from)
}

func metaKey(name string) []byte {
	key := make([]byte, 0, len(name)+1)
	key = append(key, metaKeyTag)
	key = append(key, name...)
	return key
}

// GetMeta reads a reserved structural metadata key.
func (v *View) GetMeta(name string) ([]byte, bool) {
	return v.Get(metaKey(name))
}

// PutMeta writes a reserved structural metadata key.
func (v *View) PutMeta(name string, value []byte) error {
	return v.Put(metaKey(name), value)
}

// DeleteMeta removes a reserved structural metadata key.
func (v *View) DeleteMeta(name string) error {
	return v.Delete(metaKey(name))
}
