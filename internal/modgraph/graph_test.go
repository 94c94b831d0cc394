package modgraph

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"targetrules/internal/diagnostic"
)

func engineCatalog() *StaticCatalog {
	return NewStaticCatalog(
		Module{Name: "Core"},
		Module{Name: "CoreUObject", Dependencies: []string{"Core"}},
		Module{Name: "Engine", Dependencies: []string{"Core", "CoreUObject"}},
		Module{Name: "InputCore", Dependencies: []string{"Core"}},
		Module{Name: "EnhancedInput", Dependencies: []string{"Engine", "InputCore"}},
		Module{Name: "Runners", EntryPoint: true, Dependencies: []string{"Engine", "EnhancedInput"}},
		Module{Name: "Standalone"},
	)
}

func TestBuildSingleModule(t *testing.T) {
	g, err := Build([]string{"Standalone"}, engineCatalog())
	require.NoError(t, err)
	assert.Equal(t, []string{"Standalone"}, g.Order())
	assert.Equal(t, 1, g.Len())
}

func TestBuildEmpty(t *testing.T) {
	g, err := Build(nil, engineCatalog())
	require.NoError(t, err)
	assert.Empty(t, g.Order())
}

func TestBuildOrdersDependenciesFirst(t *testing.T) {
	g, err := Build([]string{"Runners"}, engineCatalog())
	require.NoError(t, err, spew.Sdump(err))

	assert.Equal(t, []string{"Core", "CoreUObject", "Engine", "InputCore", "EnhancedInput", "Runners"}, g.Order())

	nodes := g.Nodes()
	last := nodes[len(nodes)-1]
	assert.Equal(t, "Runners", last.Name)
	assert.False(t, last.Implicit)
	assert.Equal(t, []string{"Engine", "EnhancedInput"}, last.DependsOn)
	assert.True(t, nodes[0].Implicit)

	deps, ok := g.Dependencies("EnhancedInput")
	require.True(t, ok)
	assert.Equal(t, []string{"Engine", "InputCore"}, deps)

	_, ok = g.Dependencies("Nope")
	assert.False(t, ok)
}

func TestBuildTieBreaksOnDeclarationOrder(t *testing.T) {
	cat := NewStaticCatalog(Module{Name: "A"}, Module{Name: "B"}, Module{Name: "C"})

	g, err := Build([]string{"C", "A", "B"}, cat)
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "A", "B"}, g.Order())
}

func TestBuildEdgesOverrideDeclarationOrder(t *testing.T) {
	cat := NewStaticCatalog(
		Module{Name: "A", Dependencies: []string{"B"}},
		Module{Name: "B"},
		Module{Name: "C"},
	)

	g, err := Build([]string{"A", "C", "B"}, cat)
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "B", "A"}, g.Order())
}

func TestBuildFailures(t *testing.T) {
	t.Run("duplicate module", func(t *testing.T) {
		_, err := Build([]string{"Core", "Engine", "Core"}, engineCatalog())
		require.ErrorIs(t, err, diagnostic.ErrDuplicateModule)

		var d *diagnostic.Diagnostic
		require.ErrorAs(t, err, &d)
		assert.Equal(t, "Core", d.Subject)
	})

	t.Run("duplicate reported once", func(t *testing.T) {
		_, err := Build([]string{"Core", "Core", "Core"}, engineCatalog())

		var verr *diagnostic.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Len(t, verr.Diagnostics.Errors, 1)
	})

	t.Run("unknown declared module", func(t *testing.T) {
		_, err := Build([]string{"Runners", "Ghost"}, engineCatalog())
		require.ErrorIs(t, err, diagnostic.ErrUnknownModule)

		var d *diagnostic.Diagnostic
		require.ErrorAs(t, err, &d)
		assert.Equal(t, "Ghost", d.Subject)
	})

	t.Run("unknown dependency names the requirer", func(t *testing.T) {
		cat := NewStaticCatalog(Module{Name: "A", Dependencies: []string{"Missing"}})

		_, err := Build([]string{"A"}, cat)
		require.ErrorIs(t, err, diagnostic.ErrUnknownModule)
		assert.ErrorContains(t, err, `required by "A"`)
	})

	t.Run("empty module name", func(t *testing.T) {
		_, err := Build([]string{""}, engineCatalog())
		assert.ErrorIs(t, err, diagnostic.ErrUnknownModule)
	})

	t.Run("nil catalog", func(t *testing.T) {
		_, err := Build([]string{"A"}, nil)
		assert.Error(t, err)
	})
}

func TestBuildCycles(t *testing.T) {
	tests := []struct {
		name         string
		modules      []Module
		declared     []string
		participants []string
	}{
		{
			name: "direct cycle",
			modules: []Module{
				{Name: "A", Dependencies: []string{"B"}},
				{Name: "B", Dependencies: []string{"A"}},
			},
			declared:     []string{"A", "B"},
			participants: []string{"A", "B"},
		},
		{
			name: "cycle through implicit modules",
			modules: []Module{
				{Name: "Game", Dependencies: []string{"X"}},
				{Name: "X", Dependencies: []string{"Y"}},
				{Name: "Y", Dependencies: []string{"Z"}},
				{Name: "Z", Dependencies: []string{"X"}},
			},
			declared:     []string{"Game"},
			participants: []string{"X", "Y", "Z"},
		},
		{
			name:         "self dependency",
			modules:      []Module{{Name: "A", Dependencies: []string{"A"}}},
			declared:     []string{"A"},
			participants: []string{"A"},
		},
		{
			name: "two disjoint cycles",
			modules: []Module{
				{Name: "A", Dependencies: []string{"B"}},
				{Name: "B", Dependencies: []string{"A"}},
				{Name: "C"},
				{Name: "D", Dependencies: []string{"E"}},
				{Name: "E", Dependencies: []string{"D"}},
			},
			declared:     []string{"D", "C", "A"},
			participants: []string{"D", "A", "E", "B"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.declared, NewStaticCatalog(tt.modules...))
			require.ErrorIs(t, err, diagnostic.ErrCyclicDependency)

			var d *diagnostic.Diagnostic
			require.ErrorAs(t, err, &d)
			assert.Equal(t, tt.participants, d.Participants)
		})
	}
}

func TestStaticCatalog(t *testing.T) {
	cat := engineCatalog()
	assert.True(t, cat.Exists("Engine"))
	assert.False(t, cat.Exists("engine"))
	assert.True(t, cat.KnowsEntryPoints())
	assert.True(t, cat.HasEntryPoint("Runners"))
	assert.False(t, cat.HasEntryPoint("Engine"))

	assert.False(t, NewStaticCatalog(Module{Name: "Runners"}).KnowsEntryPoints())

	deps := cat.DependenciesOf("Engine")
	deps[0] = "mutated"
	assert.Equal(t, []string{"Core", "CoreUObject"}, cat.DependenciesOf("Engine"))

	assert.Equal(t, "Core", cat.Names()[0])
}
