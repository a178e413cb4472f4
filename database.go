package metaldb

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"sync"

	bolt "go.etcd.io/bbolt"

	"github.com/olegnn/metaldb/internal/log"
)

// Database is the top-level handle applications open: it hands out
// Snapshots and Forks for reads/writes, and accepts Patches produced by
// draining a Fork as one atomic backend batch (spec §3).
type Database interface {
	// Snapshot opens a new consistent, point-in-time view.
	Snapshot() Snapshot
	// Fork opens a new Snapshot and wraps it in a writable overlay.
	Fork() *Fork
	// Merge applies patch as one atomic batch without forcing a durable
	// flush before returning.
	Merge(patch *Patch) error
	// MergeSync applies patch as one atomic batch and forces a durable
	// flush before returning.
	MergeSync(patch *Patch) error
	// Close releases the backend's resources.
	Close() error
}

// -- persistent backend (bbolt) ------------------------------------------

// PersistentDB is the on-disk Database backend, one bbolt bucket per
// column family (spec §3, "Backend"). Grounded on pkg/storage's BoltStore
// transaction idiom: one *bolt.DB, buckets created lazily on first write.
type PersistentDB struct {
	db *bolt.DB

	// mergeMu serializes the NoSync toggle against concurrent merges;
	// bbolt already serializes writers internally, but NoSync is a
	// DB-wide field so the toggle-then-commit pair must be atomic too.
	mergeMu sync.Mutex
}

// OpenPersistentDB opens (and, if CreateIfMissing, creates) a bbolt file
// at path. Open-files/compression/cache/WAL-size options in DBOptions have
// no bbolt equivalent and are accepted but not applied; see DESIGN.md.
func OpenPersistentDB(path string, opts DBOptions) (*PersistentDB, error) {
	if !opts.CreateIfMissing {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("metaldb: open persistent db: %w", err)
		}
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{})
	if err != nil {
		return nil, fmt.Errorf("metaldb: open persistent db: %w", err)
	}
	log.WithComponent("database").Debug().Str("path", path).Msg("opened persistent db")
	return &PersistentDB{db: db}, nil
}

func (d *PersistentDB) Snapshot() Snapshot {
	tx, err := d.db.Begin(false)
	if err != nil {
		// Begin(false) only fails once the backing *bolt.DB is already
		// closed, which is caller misuse of the Database handle rather
		// than a recoverable runtime condition; Database.Snapshot has no
		// error return to propagate it through.
		panic(fmt.Sprintf("metaldb: begin read tx: %v", err))
	}
	return &boltSnapshot{tx: tx}
}

func (d *PersistentDB) Fork() *Fork {
	return newFork(d.Snapshot())
}

func (d *PersistentDB) Merge(patch *Patch) error {
	return d.merge(patch, false)
}

func (d *PersistentDB) MergeSync(patch *Patch) error {
	return d.merge(patch, true)
}

func (d *PersistentDB) merge(patch *Patch, durable bool) error {
	d.mergeMu.Lock()
	defer d.mergeMu.Unlock()

	d.db.NoSync = !durable
	err := d.db.Update(func(tx *bolt.Tx) error {
		return applyPatch(tx, patch)
	})
	if err != nil {
		return fmt.Errorf("metaldb: merge: %w", err)
	}
	return nil
}

func applyPatch(tx *bolt.Tx, patch *Patch) error {
	var applyErr error
	patch.forEach(func(ra ResolvedAddress, ch *changes) {
		if applyErr != nil {
			return
		}
		if tx.Bucket([]byte(ra.CF)) == nil {
			log.WithComponent("database").Debug().Str("cf", ra.CF).Msg("creating bucket")
		}
		b, err := tx.CreateBucketIfNotExists([]byte(ra.CF))
		if err != nil {
			applyErr = fmt.Errorf("create bucket %q: %w", ra.CF, err)
			return
		}
		if ch.cleared {
			if err := deleteBoltPrefix(b, ra.Prefix); err != nil {
				applyErr = err
				return
			}
		}
		for k, ec := range ch.entries {
			physKey := append(append([]byte(nil), ra.Prefix...), k...)
			if ec.deleted {
				if err := b.Delete(physKey); err != nil {
					applyErr = err
					return
				}
				continue
			}
			if err := b.Put(physKey, ec.value); err != nil {
				applyErr = err
				return
			}
		}
	})
	return applyErr
}

// deleteBoltPrefix removes every key under prefix. Keys are collected
// before deleting any of them: mutating a bucket mid-cursor-scan is
// documented by bbolt as unsafe for anything but the current key.
func deleteBoltPrefix(b *bolt.Bucket, prefix []byte) error {
	var victims [][]byte
	c := b.Cursor()
	for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
		victims = append(victims, append([]byte(nil), k...))
	}
	for _, k := range victims {
		if err := b.Delete(k); err != nil {
			return err
		}
	}
	return nil
}

// Checkpoint writes a consistent full copy of the database to path,
// matching the backend's hot-backup operation (spec §8 scenario 6).
func (d *PersistentDB) Checkpoint(path string) error {
	err := d.db.View(func(tx *bolt.Tx) error {
		return tx.CopyFile(path, 0o600)
	})
	if err != nil {
		return err
	}
	log.WithComponent("database").Info().Str("path", path).Msg("wrote checkpoint")
	return nil
}

func (d *PersistentDB) Close() error {
	return d.db.Close()
}

type boltSnapshot struct {
	tx *bolt.Tx
}

func (s *boltSnapshot) Resolve(addr IndexAddress) ResolvedAddress { return baseResolve(addr) }
func (s *boltSnapshot) Catalog() *Catalog                         { return &Catalog{} }

func (s *boltSnapshot) Get(ra ResolvedAddress, key []byte) ([]byte, bool) {
	b := s.tx.Bucket([]byte(ra.CF))
	if b == nil {
		return nil, false
	}
	physKey := append(append([]byte(nil), ra.Prefix...), key...)
	v := b.Get(physKey)
	if v == nil {
		return nil, false
	}
	return append([]byte(nil), v...), true
}

func (s *boltSnapshot) Iterate(ra ResolvedAddress, from []byte) RawIterator {
	b := s.tx.Bucket([]byte(ra.CF))
	if b == nil {
		return emptyIterator{}
	}
	return newBoltIterator(b.Cursor(), ra.Prefix, from)
}

func (s *boltSnapshot) Close() error { return s.tx.Rollback() }

// boltIterator walks a bbolt cursor bounded to one resolved address,
// stripping the address's prefix and copying key/value bytes out of the
// mmap'd page before returning them: bbolt only guarantees a cursor's
// Key()/Value() slices are valid until the next cursor call.
type boltIterator struct {
	cursor  *bolt.Cursor
	prefix  []byte
	seek    []byte
	started bool
	done    bool
	key     []byte
	value   []byte
}

func newBoltIterator(c *bolt.Cursor, prefix, from []byte) *boltIterator {
	seek := append([]byte(nil), prefix...)
	seek = append(seek, from...)
	return &boltIterator{cursor: c, prefix: prefix, seek: seek}
}

func (it *boltIterator) Next() bool {
	if it.done {
		return false
	}
	var k, v []byte
	if !it.started {
		it.started = true
		k, v = it.cursor.Seek(it.seek)
	} else {
		k, v = it.cursor.Next()
	}
	if k == nil || !bytes.HasPrefix(k, it.prefix) {
		it.done = true
		return false
	}
	it.key = append([]byte(nil), k[len(it.prefix):]...)
	it.value = append([]byte(nil), v...)
	return true
}

func (it *boltIterator) Key() []byte   { return it.key }
func (it *boltIterator) Value() []byte { return it.value }

// -- ephemeral in-memory backend ------------------------------------------

// TemporaryDB is a pure in-memory Database, intended for tests and
// short-lived tooling the way the reference crate's own ephemeral backend
// is: no files, no fsync, isolation by deep-copying the live state at
// Snapshot time rather than MVCC.
type TemporaryDB struct {
	mu    sync.Mutex
	state map[string]map[string][]byte // CF -> physical key -> value
}

// NewTemporaryDB returns an empty in-memory Database.
func NewTemporaryDB() *TemporaryDB {
	return &TemporaryDB{state: make(map[string]map[string][]byte)}
}

func (d *TemporaryDB) snapshotState() map[string]map[string][]byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make(map[string]map[string][]byte, len(d.state))
	for cf, kv := range d.state {
		cp := make(map[string][]byte, len(kv))
		for k, v := range kv {
			cp[k] = append([]byte(nil), v...)
		}
		out[cf] = cp
	}
	return out
}

func (d *TemporaryDB) Snapshot() Snapshot {
	return &memSnapshot{state: d.snapshotState()}
}

func (d *TemporaryDB) Fork() *Fork {
	return newFork(d.Snapshot())
}

func (d *TemporaryDB) Merge(patch *Patch) error     { return d.merge(patch) }
func (d *TemporaryDB) MergeSync(patch *Patch) error { return d.merge(patch) }

func (d *TemporaryDB) merge(patch *Patch) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	patch.forEach(func(ra ResolvedAddress, ch *changes) {
		kv, ok := d.state[ra.CF]
		if !ok {
			kv = make(map[string][]byte)
			d.state[ra.CF] = kv
		}
		if ch.cleared {
			prefix := string(ra.Prefix)
			for k := range kv {
				if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
					delete(kv, k)
				}
			}
		}
		for k, ec := range ch.entries {
			physKey := string(ra.Prefix) + k
			if ec.deleted {
				delete(kv, physKey)
				continue
			}
			kv[physKey] = append([]byte(nil), ec.value...)
		}
	})
	return nil
}

func (d *TemporaryDB) Close() error { return nil }

type memSnapshot struct {
	state map[string]map[string][]byte
}

func (s *memSnapshot) Resolve(addr IndexAddress) ResolvedAddress { return baseResolve(addr) }
func (s *memSnapshot) Catalog() *Catalog                         { return &Catalog{} }

func (s *memSnapshot) Get(ra ResolvedAddress, key []byte) ([]byte, bool) {
	kv, ok := s.state[ra.CF]
	if !ok {
		return nil, false
	}
	v, ok := kv[string(ra.Prefix)+string(key)]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), v...), true
}

func (s *memSnapshot) Iterate(ra ResolvedAddress, from []byte) RawIterator {
	kv := s.state[ra.CF]
	prefix := string(ra.Prefix)
	fromStr := prefix + string(from)
	keys := make([]string, 0, len(kv))
	for k := range kv {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix && k >= fromStr {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return &memIterator{kv: kv, keys: keys, prefix: prefix}
}

func (s *memSnapshot) Close() error { return nil }

type memIterator struct {
	kv     map[string][]byte
	keys   []string
	prefix string
	i      int
	key    []byte
	value  []byte
}

func (it *memIterator) Next() bool {
	if it.i >= len(it.keys) {
		return false
	}
	k := it.keys[it.i]
	it.i++
	it.key = []byte(k[len(it.prefix):])
	it.value = append([]byte(nil), it.kv[k]...)
	return true
}

func (it *memIterator) Key() []byte   { return it.key }
func (it *memIterator) Value() []byte { return it.value }
