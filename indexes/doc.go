// Package indexes provides the typed collection layer built on top of a
// metaldb.View: Entry, ListIndex, SparseListIndex, MapIndex, KeySetIndex,
// ValueSetIndex, Group, and Lazy. Every index constructor funnels through
// metaldb.OpenView (Group and Lazy are factories that call such a
// constructor rather than opening a view themselves), so catalog
// allocation, type-tag checking, and
// read-your-writes all come from the view layer; these types only add
// collection semantics over a single view's keyspace.
package indexes
