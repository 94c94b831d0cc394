package modgraph

import (
	"slices"
	"sort"
)

// Catalog is the external module lookup collaborator.
type Catalog interface {
	// Exists reports whether a module with this name is known.
	Exists(name string) bool
	// DependenciesOf returns the names the module directly depends on.
	DependenciesOf(name string) []string
}

// EntryPointCatalog is implemented by catalogs that may know which modules
// provide a target entry point. HasEntryPoint is only meaningful while
// KnowsEntryPoints reports true.
type EntryPointCatalog interface {
	Catalog
	KnowsEntryPoints() bool
	HasEntryPoint(name string) bool
}

// Module describes one module of a StaticCatalog.
type Module struct {
	Name         string   `yaml:"name"`
	EntryPoint   bool     `yaml:"entry_point,omitempty"`
	Dependencies []string `yaml:"dependencies,omitempty"`
}

// StaticCatalog is a fixed, in-memory Catalog. It is safe for concurrent
// reads once built.
type StaticCatalog struct {
	modules     map[string]Module
	entryPoints bool
}

// NewStaticCatalog builds a catalog from module descriptions. A later entry
// with the same name replaces an earlier one.
func NewStaticCatalog(modules ...Module) *StaticCatalog {
	c := &StaticCatalog{modules: make(map[string]Module, len(modules))}
	for _, m := range modules {
		m.Dependencies = slices.Clone(m.Dependencies)
		c.modules[m.Name] = m
	}

	for _, m := range c.modules {
		if m.EntryPoint {
			c.entryPoints = true
			break
		}
	}

	return c
}

func (c *StaticCatalog) Exists(name string) bool {
	_, ok := c.modules[name]
	return ok
}

func (c *StaticCatalog) DependenciesOf(name string) []string {
	return slices.Clone(c.modules[name].Dependencies)
}

// KnowsEntryPoints reports whether any module is marked as an entry point.
// An unmarked catalog cannot tell entry modules apart.
func (c *StaticCatalog) KnowsEntryPoints() bool {
	return c.entryPoints
}

func (c *StaticCatalog) HasEntryPoint(name string) bool {
	return c.modules[name].EntryPoint
}

// Names returns all module names, sorted.
func (c *StaticCatalog) Names() []string {
	names := make([]string, 0, len(c.modules))
	for name := range c.modules {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
