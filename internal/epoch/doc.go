// Package epoch implements a reclamation discipline: a guard object pinned
// per operation, and a DeferDestroy that only runs once every guard pinned
// before it was called has been released.
//
// Go's tracing garbage collector already makes the memory-safety half of
// that contract unconditional — an unlinked node is never use-after-freed
// regardless of whether any reclamation scheme runs at all. This package
// exists anyway, for two reasons documented in DESIGN.md: it keeps
// msqueue's code shaped like a pin/guard/defer reclamation scheme rather
// than leaning on the GC alone, and it gives the ordering half of the
// contract (a deferred action must not run while an older guard is still
// pinned) something concrete and testable, independent of GC timing.
//
// The algorithm is the standard three-epoch scheme (global epoch counter,
// one garbage bag per epoch mod 3, advance only when every pinned guard has
// caught up to the current epoch), simplified from a per-thread-local-bag
// design to a single domain-wide bag per epoch, which is sufficient for a
// library with one Domain per Queue.
package epoch
