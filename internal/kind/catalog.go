package kind

import (
	"errors"
	"fmt"
	"sync"

	"targetrules/internal/common"
	"targetrules/internal/diagnostic"
)

// ErrAlreadyRegistered is returned when a kind already has a rule.
var ErrAlreadyRegistered = errors.New("already registered")

// Packaging describes how the build result is delivered.
type Packaging int

const (
	// StandaloneBinary is a self-contained executable.
	StandaloneBinary Packaging = iota
	// LoadableUnit is loaded by a host process (a plugin or shared library).
	LoadableUnit
)

// String returns a human-readable packaging name.
func (p Packaging) String() string {
	switch p {
	case StandaloneBinary:
		return "standalone_binary"
	case LoadableUnit:
		return "loadable_unit"
	default:
		return common.UnknownStr
	}
}

// EntryPoint states whether a target needs an entry point module.
type EntryPoint int

const (
	EntryPointOptional EntryPoint = iota
	EntryPointRequired
)

// String returns a human-readable entry point requirement.
func (e EntryPoint) String() string {
	switch e {
	case EntryPointOptional:
		return "optional"
	case EntryPointRequired:
		return "required"
	default:
		return common.UnknownStr
	}
}

// Visibility is the default visibility of the target's modules.
type Visibility int

const (
	Private Visibility = iota
	Public
)

// String returns a human-readable visibility name.
func (v Visibility) String() string {
	switch v {
	case Private:
		return "private"
	case Public:
		return "public"
	default:
		return common.UnknownStr
	}
}

// Rule holds the packaging and lifecycle rules implied by a kind.
type Rule struct {
	Packaging  Packaging
	EntryPoint EntryPoint
	Visibility Visibility
	// Defaults is the lowest option layer; anything may override it.
	Defaults map[string]string
	// Requirements is the top option layer; explicit overrides may not change it.
	Requirements map[string]string
}

func (r Rule) clone() Rule {
	r.Defaults = common.Clone(r.Defaults)
	r.Requirements = common.Clone(r.Requirements)

	return r
}

// Catalog maps kinds to their rules. It is append-only and safe for concurrent use.
type Catalog struct {
	mu    sync.RWMutex
	rules map[Kind]Rule
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{rules: make(map[Kind]Rule)}
}

// Register adds the rule for k.
func (c *Catalog) Register(k Kind, r Rule) error {
	if !k.IsValid() {
		return fmt.Errorf("register %s: not a valid kind", k)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.rules[k]; ok {
		return fmt.Errorf("kind %s: %w", k, ErrAlreadyRegistered)
	}

	c.rules[k] = r.clone()

	return nil
}

// Lookup returns the rule for k.
func (c *Catalog) Lookup(k Kind) (Rule, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	r, ok := c.rules[k]
	if !ok {
		return Rule{}, diagnostic.New(diagnostic.CodeUnknownKind, diagnostic.FieldKind, k.String(),
			"target kind is not in the catalog")
	}

	return r.clone(), nil
}

// Kinds returns the registered kinds in declaration order.
func (c *Catalog) Kinds() []Kind {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []Kind
	for _, k := range All() {
		if _, ok := c.rules[k]; ok {
			out = append(out, k)
		}
	}

	return out
}

// KnownOption reports whether any registered rule sets option.
func (c *Catalog) KnownOption(option string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, r := range c.rules {
		if _, ok := r.Defaults[option]; ok {
			return true
		}

		if _, ok := r.Requirements[option]; ok {
			return true
		}
	}

	return false
}
