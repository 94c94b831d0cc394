// Package target holds the target descriptor: the declarative statement of a
// target's kind, settings version, include order and modules.
//
// A Descriptor starts Open and accepts module additions and overrides. It is
// moved to Resolved exactly once by the resolver, after which every mutation
// fails with diagnostic.ErrInvalidState. A Descriptor is not safe for
// concurrent mutation; build it from a single goroutine before resolving.
package target
