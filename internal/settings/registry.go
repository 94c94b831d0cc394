package settings

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sort"
	"sync"

	"targetrules/internal/diagnostic"
)

// ErrAlreadyRegistered is returned when an append would change an existing entry.
var ErrAlreadyRegistered = errors.New("already registered")

type combination struct {
	version Version
	order   IncludeOrder
}

// Registry maps settings versions and include-order versions to their entries.
//
// Entries are append-only: once registered, an entry is never replaced, so a
// concrete version tag resolves identically for the lifetime of the registry.
// A Registry is safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	precedence Precedence

	versions      map[Version]VersionEntry
	versionOrder  []Version // by ordinal
	orders        map[IncludeOrder]IncludeOrderEntry
	orderSequence []IncludeOrder // by ordinal
	disallowed    map[combination]string
}

// New creates an empty registry with the given precedence policy.
func New(precedence Precedence) *Registry {
	return &Registry{
		precedence: precedence,
		versions:   make(map[Version]VersionEntry),
		orders:     make(map[IncludeOrder]IncludeOrderEntry),
		disallowed: make(map[combination]string),
	}
}

// Precedence returns the registry's precedence policy.
func (r *Registry) Precedence() Precedence {
	return r.precedence
}

// RegisterVersion appends a settings version.
func (r *Registry) RegisterVersion(e VersionEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.registerVersion(e)
}

func (r *Registry) registerVersion(e VersionEntry) error {
	if e.Name == "" {
		return errors.New("settings version name is required")
	}

	if e.Name.IsAlias() {
		return fmt.Errorf("settings version %q is a reserved alias", e.Name)
	}

	if _, ok := r.versions[e.Name]; ok {
		return fmt.Errorf("settings version %q: %w", e.Name, ErrAlreadyRegistered)
	}

	for _, existing := range r.versions {
		if existing.Ordinal == e.Ordinal {
			return fmt.Errorf("settings version %q: ordinal %d held by %q: %w",
				e.Name, e.Ordinal, existing.Name, ErrAlreadyRegistered)
		}
	}

	if e.MinIncludeOrder != "" {
		if _, ok := r.orders[e.MinIncludeOrder]; !ok {
			return fmt.Errorf("settings version %q: minimum include order %q is not registered",
				e.Name, e.MinIncludeOrder)
		}
	}

	r.versions[e.Name] = e.clone()
	r.versionOrder = append(r.versionOrder, e.Name)
	sort.Slice(r.versionOrder, func(i, j int) bool {
		return r.versions[r.versionOrder[i]].Ordinal < r.versions[r.versionOrder[j]].Ordinal
	})

	return nil
}

// RegisterIncludeOrder appends an include-order version.
func (r *Registry) RegisterIncludeOrder(e IncludeOrderEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.registerIncludeOrder(e)
}

func (r *Registry) registerIncludeOrder(e IncludeOrderEntry) error {
	if e.Name == "" {
		return errors.New("include order name is required")
	}

	if e.Name.IsAlias() {
		return fmt.Errorf("include order %q is a reserved alias", e.Name)
	}

	if _, ok := r.orders[e.Name]; ok {
		return fmt.Errorf("include order %q: %w", e.Name, ErrAlreadyRegistered)
	}

	for _, existing := range r.orders {
		if existing.Ordinal == e.Ordinal {
			return fmt.Errorf("include order %q: ordinal %d held by %q: %w",
				e.Name, e.Ordinal, existing.Name, ErrAlreadyRegistered)
		}
	}

	r.orders[e.Name] = e
	r.orderSequence = append(r.orderSequence, e.Name)
	sort.Slice(r.orderSequence, func(i, j int) bool {
		return r.orders[r.orderSequence[i]].Ordinal < r.orders[r.orderSequence[j]].Ordinal
	})

	return nil
}

// Disallow forbids combining version with order. Both must be registered.
func (r *Registry) Disallow(version Version, order IncludeOrder, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.disallow(version, order, reason)
}

func (r *Registry) disallow(version Version, order IncludeOrder, reason string) error {
	if _, ok := r.versions[version]; !ok {
		return fmt.Errorf("disallow: settings version %q is not registered", version)
	}

	if _, ok := r.orders[order]; !ok {
		return fmt.Errorf("disallow: include order %q is not registered", order)
	}

	key := combination{version: version, order: order}
	if _, ok := r.disallowed[key]; ok {
		return fmt.Errorf("disallow %s/%s: %w", version, order, ErrAlreadyRegistered)
	}

	r.disallowed[key] = reason

	return nil
}

// Disallowed is one forbidden settings version / include order pair.
type Disallowed struct {
	Version Version
	Order   IncludeOrder
	Reason  string
}

// Batch is a group of entries appended together by Extend.
type Batch struct {
	IncludeOrders []IncludeOrderEntry
	Versions      []VersionEntry
	Disallow      []Disallowed
}

// Extend appends every entry of b, include orders first, then settings
// versions, then disallowed pairs. Either all entries are registered or, when
// any is rejected, none is and the joined rejections are returned.
func (r *Registry) Extend(b Batch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	staged := r.copyLocked()

	var errs []error

	for _, e := range b.IncludeOrders {
		if err := staged.registerIncludeOrder(e); err != nil {
			errs = append(errs, err)
		}
	}

	for _, e := range b.Versions {
		if err := staged.registerVersion(e); err != nil {
			errs = append(errs, err)
		}
	}

	for _, d := range b.Disallow {
		if err := staged.disallow(d.Version, d.Order, d.Reason); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	r.versions = staged.versions
	r.versionOrder = staged.versionOrder
	r.orders = staged.orders
	r.orderSequence = staged.orderSequence
	r.disallowed = staged.disallowed

	return nil
}

// copyLocked returns a copy of the registry contents. r.mu must be held.
func (r *Registry) copyLocked() *Registry {
	return &Registry{
		precedence:    r.precedence,
		versions:      maps.Clone(r.versions),
		versionOrder:  slices.Clone(r.versionOrder),
		orders:        maps.Clone(r.orders),
		orderSequence: slices.Clone(r.orderSequence),
		disallowed:    maps.Clone(r.disallowed),
	}
}

// Lookup returns the entry for a settings version, resolving LatestVersion to
// the highest registered ordinal.
func (r *Registry) Lookup(v Version) (VersionEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if v == LatestVersion && len(r.versionOrder) > 0 {
		v = r.versionOrder[len(r.versionOrder)-1]
	}

	e, ok := r.versions[v]
	if !ok {
		return VersionEntry{}, diagnostic.Newf(diagnostic.CodeUnknownSettingsVersion,
			diagnostic.FieldSettingsVersion, string(v), "settings version is not registered")
	}

	return e.clone(), nil
}

// LookupIncludeOrder returns the entry for an include order, resolving
// LatestIncludeOrder and OldestIncludeOrder against the registered ordinals.
func (r *Registry) LookupIncludeOrder(o IncludeOrder) (IncludeOrderEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if n := len(r.orderSequence); n > 0 {
		switch o {
		case LatestIncludeOrder:
			o = r.orderSequence[n-1]
		case OldestIncludeOrder:
			o = r.orderSequence[0]
		}
	}

	e, ok := r.orders[o]
	if !ok {
		return IncludeOrderEntry{}, diagnostic.Newf(diagnostic.CodeUnknownIncludeOrderVersion,
			diagnostic.FieldIncludeOrderVersion, string(o), "include order version is not registered")
	}

	return e, nil
}

// CheckCombination reports whether two concrete, registered tags may be used together.
func (r *Registry) CheckCombination(v Version, o IncludeOrder) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ve, ok := r.versions[v]
	if !ok {
		return diagnostic.New(diagnostic.CodeUnknownSettingsVersion,
			diagnostic.FieldSettingsVersion, string(v), "settings version is not registered")
	}

	oe, ok := r.orders[o]
	if !ok {
		return diagnostic.New(diagnostic.CodeUnknownIncludeOrderVersion,
			diagnostic.FieldIncludeOrderVersion, string(o), "include order version is not registered")
	}

	if reason, ok := r.disallowed[combination{version: v, order: o}]; ok {
		if reason == "" {
			reason = "combination is disallowed by the registry"
		}

		return diagnostic.Newf(diagnostic.CodeDisallowedVersionCombination,
			diagnostic.FieldIncludeOrderVersion, string(o), "%s with %s: %s", v, o, reason)
	}

	if ve.MinIncludeOrder != "" {
		if minEntry := r.orders[ve.MinIncludeOrder]; oe.Ordinal < minEntry.Ordinal {
			return diagnostic.Newf(diagnostic.CodeDisallowedVersionCombination,
				diagnostic.FieldIncludeOrderVersion, string(o),
				"settings version %s requires include order %s or newer", v, ve.MinIncludeOrder)
		}
	}

	return nil
}

// Versions returns all settings versions in ordinal order.
func (r *Registry) Versions() []VersionEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]VersionEntry, 0, len(r.versionOrder))
	for _, name := range r.versionOrder {
		out = append(out, r.versions[name].clone())
	}

	return out
}

// IncludeOrders returns all include orders in ordinal order.
func (r *Registry) IncludeOrders() []IncludeOrderEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]IncludeOrderEntry, 0, len(r.orderSequence))
	for _, name := range r.orderSequence {
		out = append(out, r.orders[name])
	}

	return out
}

// KnownOption reports whether any settings version defines a default for option.
func (r *Registry) KnownOption(option string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.versions {
		if _, ok := e.Defaults[option]; ok {
			return true
		}
	}

	return false
}
