// Package graphstore holds the canonical node/edge collections of one
// ontology and mediates every mutation to them.
//
// A [Store] is bound to a [Slot], the cell that holds the current snapshot of
// an ontology. Every transition clones the snapshot, applies the change,
// stamps LastModified from the store's clock and publishes the new pointer,
// so readers holding an older snapshot never observe a partial update.
// Transitions are serialized by a mutex; reads are lock-free.
//
// Updates and deletes addressed to an ID that does not exist are silent
// no-ops that report false and leave the snapshot (including LastModified)
// untouched. Adds validate their input and return sentinel errors from
// package ontology.
//
// Deleted IDs are retired for the lifetime of the store and cannot be added
// again.
package graphstore
