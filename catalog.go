package metaldb

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// systemCatalogCF is the reserved column family backing the system
// catalog. It begins with a NUL byte, which can never appear in a
// dotted identifier name, so it can never collide with a user index.
const systemCatalogCF = "\x00catalog"

var catalogResolved = ResolvedAddress{CF: systemCatalogCF}

// Catalog is the system catalog: the map from a resolved physical address
// to the IndexMetadata describing what is stored there. It has no state of
// its own beyond its reserved storage location — every Access shares the
// same logical catalog contents because catalog entries are addressed by
// physical location, not by whichever wrapper (Prefixed, Migration, Lazy)
// produced the resolution.
type Catalog struct{}

func catalogKey(ra ResolvedAddress) []byte {
	key := make([]byte, 0, len(ra.CF)+1+len(ra.Prefix))
	key = append(key, ra.CF...)
	key = append(key, 0)
	key = append(key, ra.Prefix...)
	return key
}

// Lookup returns the metadata recorded for ra, if any.
func (c *Catalog) Lookup(a Access, ra ResolvedAddress) (IndexMetadata, bool, error) {
	raw, ok := a.Get(catalogResolved, catalogKey(ra))
	if !ok {
		return IndexMetadata{}, false, nil
	}
	meta, err := decodeIndexMetadata(raw)
	if err != nil {
		return IndexMetadata{}, false, err
	}
	return meta, true, nil
}

func (c *Catalog) store(wa WriteAccess, ra ResolvedAddress, meta IndexMetadata) {
	wa.Put(catalogResolved, catalogKey(ra), encodeIndexMetadata(meta))
}

// Open implements the catalog resolution contract of spec §4.1:
//
//  1. look up the catalog entry for ra;
//  2. if absent and access is writable, allocate a fresh identity and stage
//     the catalog write; if absent and access is read-only, treat the
//     index as virtually empty without writing anything;
//  3. if present with a matching type tag, reuse it;
//  4. if present as a Tombstone, re-stamp it with typeTag (if writable);
//  5. if present with a conflicting type tag, fail with ErrTypeMismatch.
func (c *Catalog) Open(a Access, ra ResolvedAddress, typeTag IndexType) (IndexMetadata, error) {
	meta, found, err := c.Lookup(a, ra)
	if err != nil {
		return IndexMetadata{}, err
	}
	wa, writable := a.(WriteAccess)

	if !found {
		if !writable {
			return IndexMetadata{Type: typeTag}, nil
		}
		meta = IndexMetadata{Type: typeTag, Identity: uuid.New()}
		c.store(wa, ra, meta)
		return meta, nil
	}

	if meta.Type == IndexTypeTombstone {
		meta.Type = typeTag
		if writable {
			c.store(wa, ra, meta)
		}
		return meta, nil
	}

	if meta.Type != typeTag {
		return IndexMetadata{}, fmt.Errorf("%w: address %s has type %s, requested %s", ErrTypeMismatch, ra, meta.Type, typeTag)
	}
	return meta, nil
}

// SaveState persists updated per-type metadata state (e.g. a list's
// length) for an already-open index.
func (c *Catalog) SaveState(a Access, ra ResolvedAddress, meta IndexMetadata) error {
	wa, writable := a.(WriteAccess)
	if !writable {
		return fmt.Errorf("%w: cannot save index state", ErrReadOnlyAccess)
	}
	c.store(wa, ra, meta)
	return nil
}

// Tombstone marks ra's catalog entry as removed without losing the slot:
// a later Open with a different type tag will succeed. Used by the
// migration engine's "replace an old address with a staged one" flush
// sequence.
func (c *Catalog) Tombstone(wa WriteAccess, ra ResolvedAddress) {
	meta, found, err := c.Lookup(wa, ra)
	if err != nil || !found {
		return
	}
	meta.Type = IndexTypeTombstone
	c.store(wa, ra, meta)
}

// catalogEntry pairs a decoded resolved address with its metadata, as
// produced by ForEachUnder.
type catalogEntry struct {
	Resolved ResolvedAddress
	Meta     IndexMetadata
}

// ForEachUnder enumerates every catalog entry whose column family equals
// cfPrefix or is a dotted child of it (cfPrefix+"."...). This is how the
// migration engine aggregates every address staged under a reserved root
// without the caller needing to separately track which addresses it wrote.
func (c *Catalog) ForEachUnder(a Access, cfPrefix string) ([]catalogEntry, error) {
	var entries []catalogEntry
	it := a.Iterate(catalogResolved, []byte(cfPrefix))
	for it.Next() {
		key := it.Key()
		sep := bytes.IndexByte(key, 0)
		if sep < 0 {
			continue
		}
		cf := string(key[:sep])
		if cf != cfPrefix && !strings.HasPrefix(cf, cfPrefix+".") {
			if cf > cfPrefix && !strings.HasPrefix(cf, cfPrefix) {
				break
			}
			continue
		}
		prefix := append([]byte(nil), key[sep+1:]...)
		meta, err := decodeIndexMetadata(it.Value())
		if err != nil {
			return nil, err
		}
		entries = append(entries, catalogEntry{
			Resolved: ResolvedAddress{CF: cf, Prefix: prefix},
			Meta:     meta,
		})
	}
	return entries, nil
}
