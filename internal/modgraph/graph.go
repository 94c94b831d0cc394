package modgraph

import (
	"errors"
	"fmt"
	"slices"

	"targetrules/internal/diagnostic"
)

// BuildFunc builds an ordered module graph. Build is the default implementation.
type BuildFunc func(names []string, catalog Catalog) (*Graph, error)

// Node is one module in build order.
type Node struct {
	Name string
	// DependsOn lists direct dependencies in catalog order.
	DependsOn []string
	// Implicit is true for modules pulled in as dependencies but not declared.
	Implicit bool
}

// Graph is an ordered, validated module graph. It is immutable.
type Graph struct {
	nodes []Node
	index map[string]int
}

var _ BuildFunc = Build

// Build validates names against catalog and orders them with their
// transitive dependencies.
//
// It fails with diagnostic.ErrDuplicateModule for every repeated name,
// diagnostic.ErrUnknownModule for names (declared or required) the catalog
// does not know, and diagnostic.ErrCyclicDependency naming every module that
// sits on a cycle.
func Build(names []string, catalog Catalog) (*Graph, error) {
	if catalog == nil {
		return nil, errors.New("module catalog is required")
	}

	var diags diagnostic.Diagnostics

	declared := dedupe(names, &diags)

	for _, name := range declared {
		if !catalog.Exists(name) {
			diags.AddError(diagnostic.CodeUnknownModule, diagnostic.FieldModules, name,
				"module not found in catalog")
		}
	}

	if diags.HasErrors() {
		return nil, diags.Err()
	}

	all, deps := expand(declared, catalog, &diags)
	if diags.HasErrors() {
		return nil, diags.Err()
	}

	depsFn := func(i int) []int { return deps[i] }

	order, err := topoSort(len(all), depsFn)
	if err != nil {
		return nil, err
	}

	if len(order) != len(all) {
		members := cycleMembers(len(all), depsFn)

		participants := make([]string, 0, len(members))
		for _, i := range members {
			participants = append(participants, all[i])
		}

		d := diagnostic.New(diagnostic.CodeCyclicDependency, diagnostic.FieldModules, participants[0],
			"modules depend on each other")
		d.Participants = participants
		diags.Add(*d)

		return nil, diags.Err()
	}

	g := &Graph{
		nodes: make([]Node, 0, len(order)),
		index: make(map[string]int, len(order)),
	}

	for _, i := range order {
		dependsOn := make([]string, 0, len(deps[i]))
		for _, d := range deps[i] {
			dependsOn = append(dependsOn, all[d])
		}

		g.index[all[i]] = len(g.nodes)
		g.nodes = append(g.nodes, Node{
			Name:      all[i],
			DependsOn: dependsOn,
			Implicit:  i >= len(declared),
		})
	}

	return g, nil
}

// dedupe returns names without repeats, preserving first occurrence order.
// Each repeated name is reported once.
func dedupe(names []string, diags *diagnostic.Diagnostics) []string {
	seen := make(map[string]struct{}, len(names))
	reported := make(map[string]struct{})
	out := make([]string, 0, len(names))

	for pos, name := range names {
		if name == "" {
			diags.AddError(diagnostic.CodeUnknownModule, diagnostic.FieldModules, "",
				fmt.Sprintf("empty module name at position %d", pos))
			continue
		}

		if _, ok := seen[name]; ok {
			if _, done := reported[name]; !done {
				reported[name] = struct{}{}
				diags.AddError(diagnostic.CodeDuplicateModule, diagnostic.FieldModules, name,
					fmt.Sprintf("module declared more than once (again at position %d)", pos))
			}

			continue
		}

		seen[name] = struct{}{}
		out = append(out, name)
	}

	return out
}

// expand walks dependencies breadth-first from the declared modules. It
// returns every module name (declared first, then discovery order) and the
// dependency indices of each.
func expand(declared []string, catalog Catalog, diags *diagnostic.Diagnostics) ([]string, [][]int) {
	all := slices.Clone(declared)
	index := make(map[string]int, len(all))

	for i, name := range all {
		index[name] = i
	}

	missing := make(map[string]struct{})
	deps := make([][]int, 0, len(all))

	for i := 0; i < len(all); i++ {
		name := all[i]

		var edges []int

		for _, dep := range catalog.DependenciesOf(name) {
			j, ok := index[dep]
			if !ok {
				if !catalog.Exists(dep) {
					if _, done := missing[dep]; !done {
						missing[dep] = struct{}{}
						diags.AddError(diagnostic.CodeUnknownModule, diagnostic.FieldModules, dep,
							fmt.Sprintf("module not found in catalog (required by %q)", name))
					}

					continue
				}

				j = len(all)
				all = append(all, dep)
				index[dep] = j
			}

			if !slices.Contains(edges, j) {
				edges = append(edges, j)
			}
		}

		deps = append(deps, edges)
	}

	return all, deps
}

// Order returns module names in build order.
func (g *Graph) Order() []string {
	out := make([]string, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n.Name)
	}

	return out
}

// Nodes returns the modules in build order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		n.DependsOn = slices.Clone(n.DependsOn)
		out = append(out, n)
	}

	return out
}

// Dependencies returns the direct dependencies of a module in the graph.
func (g *Graph) Dependencies(name string) ([]string, bool) {
	i, ok := g.index[name]
	if !ok {
		return nil, false
	}

	return slices.Clone(g.nodes[i].DependsOn), true
}

// Len returns the number of modules, including implicit ones.
func (g *Graph) Len() int {
	return len(g.nodes)
}
