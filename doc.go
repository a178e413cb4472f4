/*
Package metaldb is an embedded, transactional, typed key-value storage
library built on top of bbolt.

It provides snapshot isolation, forkable in-memory patches, and a system
catalog that records what typed index lives at each physical address so
accidentally re-using a slot with a different shape is caught instead of
silently corrupting data.

# Architecture

	┌──────────────────── METALDB ──────────────────────────────┐
	│                                                             │
	│  ┌───────────────┐   ┌───────────────┐   ┌───────────────┐ │
	│  │   Snapshot    │   │     Fork      │   │     Patch     │ │
	│  │  read-only,   │──▶│  snapshot +   │──▶│  drained,     │ │
	│  │  point in     │   │  in-memory    │   │  immutable    │ │
	│  │  time         │   │  overlay      │   │  change set   │ │
	│  └───────┬───────┘   └───────────────┘   └───────┬───────┘ │
	│          │                                        │         │
	│          │            ┌───────────────┐           │         │
	│          └───────────▶│   Database    │◀──────────┘         │
	│                       │ PersistentDB  │   Merge/MergeSync   │
	│                       │ TemporaryDB   │   (one atomic batch)│
	│                       └───────────────┘                     │
	│                                                             │
	│  Every read/write goes through the Access / WriteAccess     │
	│  interfaces, so Snapshot, Fork, ReadonlyFork, Patch, and the │
	│  access-package wrappers (Prefixed, Migration, Lazy) are     │
	│  interchangeable to index types built on top of View.       │
	└─────────────────────────────────────────────────────────────┘

Addresses are resolved from a logical IndexAddress{Name, Key} to a
physical ResolvedAddress{CF, Prefix} and recorded in the system catalog
along with a type tag, so opening the same address again with a
different index type fails fast with ErrTypeMismatch instead of
misinterpreting bytes.
*/
package metaldb
