// Package aggregates contains infrastructure implementations of domain aggregate stores.
//
// Implementations in this package compose table-level repos from internal/data/repos
// and own transaction boundaries for invariant-critical write operations. They
// consume a submitted aggregate's change log as-is and never recompute a diff.
package aggregates
