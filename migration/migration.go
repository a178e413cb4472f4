// Package migration implements the staged-migration engine (spec §4.5):
// stage a new schema under a reserved namespace via access.Migration,
// inspect old and new concurrently, then flush the staged namespace into
// the live one as one atomic patch.
package migration

import (
	"fmt"
	"strings"

	"github.com/olegnn/metaldb"
	"github.com/olegnn/metaldb/access"
	"github.com/olegnn/metaldb/internal/log"
)

// Stage returns a writable access scoped to root's reserved staging
// namespace. Every write through it lands under the reserved prefix and
// is invisible to readers using Prefixed(root, ...) or a bare access
// until Flush runs.
func Stage(root string, fork *metaldb.Fork) *access.MigrationWrite {
	return access.NewMigrationWrite(root, fork)
}

// Flush moves everything staged under root into the live namespace as
// one set of fork writes: for each staged resolved address, it clears the
// corresponding live subtree, copies the staged entries over, then drops
// the staged copy and tombstones its catalog slot. Applying the resulting
// fork as a single patch makes the whole move atomic (spec §4.5 step 3).
//
// Flush fails with ErrMigrationConflict if root has nothing staged.
func Flush(fork *metaldb.Fork, root string) error {
	staged := access.NewMigration(root, fork)
	cat := fork.Catalog()

	entries, err := cat.ForEachUnder(fork, staged.StagedCF())
	if err != nil {
		return fmt.Errorf("metaldb: flush migration %q: %w", root, err)
	}
	live := entries[:0]
	for _, e := range entries {
		if e.Meta.Type != metaldb.IndexTypeTombstone {
			live = append(live, e)
		}
	}
	if len(live) == 0 {
		return fmt.Errorf("%w: nothing staged under %q", metaldb.ErrMigrationConflict, root)
	}

	stagedPrefix := staged.StagedCF()
	for _, e := range live {
		liveCF := strings.TrimPrefix(e.Resolved.CF, "^")
		if !strings.HasPrefix(e.Resolved.CF, stagedPrefix) {
			continue
		}
		liveRA := metaldb.ResolvedAddress{CF: liveCF, Prefix: append([]byte(nil), e.Resolved.Prefix...)}

		fork.Clear(liveRA)

		it := fork.Iterate(e.Resolved, nil)
		var pending [][2][]byte
		for it.Next() {
			pending = append(pending, [2][]byte{
				append([]byte(nil), it.Key()...),
				append([]byte(nil), it.Value()...),
			})
		}
		for _, kv := range pending {
			fork.Put(liveRA, kv[0], kv[1])
		}

		if err := cat.SaveState(fork, liveRA, metaldb.IndexMetadata{Type: e.Meta.Type, Identity: e.Meta.Identity, State: e.Meta.State}); err != nil {
			return fmt.Errorf("metaldb: flush migration %q: %w", root, err)
		}

		fork.Clear(e.Resolved)
		cat.Tombstone(fork, e.Resolved)
	}

	log.WithComponent("migration").Info().Str("root", root).Int("addresses", len(live)).Msg("flushed migration")
	return nil
}
