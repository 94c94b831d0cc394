// Package modgraph orders the modules a target depends on.
//
// Module existence and edges come from an injected Catalog; this package never
// declares dependencies itself. Build expands the declared modules with their
// transitive dependencies, then produces a deterministic build order
// (dependencies first, ties broken by declaration order). Duplicates, unknown
// names and cycles fail the whole build; no partial order is ever returned.
package modgraph
