package plan

import (
	"errors"
	"testing"

	"github.com/masterminds/semver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"targetrules/internal/diagnostic"
	"targetrules/internal/kind"
	"targetrules/internal/modgraph"
	"targetrules/internal/settings"
	"targetrules/internal/target"
)

// depCatalog only answers existence and dependency questions.
type depCatalog map[string][]string

func (c depCatalog) Exists(name string) bool {
	_, ok := c[name]
	return ok
}

func (c depCatalog) DependenciesOf(name string) []string {
	return c[name]
}

func newTestResolver(t *testing.T, modules modgraph.Catalog, cfg Config) *Resolver {
	t.Helper()

	return NewResolver(settings.Builtin(settings.PrecedenceKindRequirements), kind.Builtin(), modules, cfg)
}

func requireValidationError(t *testing.T, err error) *diagnostic.ValidationError {
	t.Helper()

	var verr *diagnostic.ValidationError
	require.ErrorAs(t, err, &verr)

	return verr
}

func TestResolveRunnersScenario(t *testing.T) {
	r := newTestResolver(t, depCatalog{"Runners": nil}, Config{})
	d := target.New("Runners", kind.Executable, "V4", "Unreal5_3", "Runners")

	cfg, err := r.Resolve(d)
	require.NoError(t, err)

	assert.Equal(t, []string{"Runners"}, cfg.ModuleOrder())
	assert.Equal(t, kind.StandaloneBinary, cfg.Packaging())
	assert.Equal(t, kind.Private, cfg.Visibility())
	assert.Equal(t, "Runners", cfg.EntryModule())
	assert.Equal(t, settings.Version("V4"), cfg.SettingsVersion())
	assert.Equal(t, settings.IncludeOrder("Unreal5_3"), cfg.IncludeOrderVersion())
	assert.Empty(t, cfg.Warnings())
	assert.Len(t, cfg.Fingerprint(), 64)

	v4, err := settings.Builtin(settings.PrecedenceKindRequirements).Lookup("V4")
	require.NoError(t, err)

	options := cfg.OptionMap()
	for name, value := range v4.Defaults {
		assert.Equal(t, value, options[name], "option %s", name)
	}

	assert.Equal(t, "monolithic", options[kind.OptLinkType])
	assert.Equal(t, "false", options[kind.OptWithEditor])

	o, ok := cfg.Option(kind.OptWithEditor)
	require.True(t, ok)
	assert.Equal(t, SourceKindRequirement, o.Source)

	o, ok = cfg.Option(settings.OptCppStandard)
	require.True(t, ok)
	assert.Equal(t, SourceSettingsVersion, o.Source)

	assert.Equal(t, target.Resolved, d.State())
}

func TestResolveRunnersScenarioOnStaticCatalog(t *testing.T) {
	r := newTestResolver(t, modgraph.NewStaticCatalog(modgraph.Module{Name: "Runners"}), Config{})
	d := target.New("Runners", kind.Executable, "V4", "Unreal5_3", "Runners")

	cfg, err := r.Resolve(d)
	require.NoError(t, err)
	assert.Equal(t, "Runners", cfg.EntryModule())
	assert.Equal(t, []string{"Runners"}, cfg.ModuleOrder())
	assert.Equal(t, target.Resolved, d.State())
}

func TestResolveOrdersTransitiveDependencies(t *testing.T) {
	catalog := modgraph.NewStaticCatalog(
		modgraph.Module{Name: "Game", EntryPoint: true, Dependencies: []string{"Engine", "UI"}},
		modgraph.Module{Name: "UI", Dependencies: []string{"Core"}},
		modgraph.Module{Name: "Engine", Dependencies: []string{"Core"}},
		modgraph.Module{Name: "Core"},
	)

	r := newTestResolver(t, catalog, Config{})
	d := target.New("Game", kind.Client, "V3", "Unreal5_2", "UI", "Game")

	cfg, err := r.Resolve(d)
	require.NoError(t, err)

	assert.Equal(t, []string{"Core", "UI", "Engine", "Game"}, cfg.ModuleOrder())
	assert.Equal(t, "Game", cfg.EntryModule(), "first module providing an entry point")

	nodes := cfg.Modules()
	require.Len(t, nodes, 4)
	assert.True(t, nodes[0].Implicit)
	assert.False(t, nodes[1].Implicit)
	assert.True(t, nodes[2].Implicit)
	assert.Equal(t, []string{"Engine", "UI"}, nodes[3].DependsOn)
}

func TestResolveDuplicateModule(t *testing.T) {
	r := newTestResolver(t, depCatalog{"A": nil, "B": nil}, Config{})

	t.Run("recorded by New", func(t *testing.T) {
		d := target.New("T", kind.Executable, "V4", "Unreal5_3", "A", "B", "A")

		_, err := r.Resolve(d)
		require.ErrorIs(t, err, diagnostic.ErrDuplicateModule)

		diag, ok := requireValidationError(t, err).Find(diagnostic.CodeDuplicateModule)
		require.True(t, ok)
		assert.Equal(t, "A", diag.Subject)
		assert.Equal(t, target.Open, d.State())
	})

	t.Run("recorded by AddModule", func(t *testing.T) {
		d := target.New("T", kind.Executable, "V4", "Unreal5_3", "B")
		require.ErrorIs(t, d.AddModule("B"), diagnostic.ErrDuplicateModule)

		_, err := r.Resolve(d)
		assert.ErrorIs(t, err, diagnostic.ErrDuplicateModule)
	})
}

func TestResolveUnknownModule(t *testing.T) {
	r := newTestResolver(t, depCatalog{"A": {"Ghost"}, "B": nil}, Config{})

	t.Run("declared", func(t *testing.T) {
		cfg, err := r.Resolve(target.New("T", kind.Executable, "V4", "Unreal5_3", "B", "Nope"))
		require.ErrorIs(t, err, diagnostic.ErrUnknownModule)
		assert.Nil(t, cfg)

		diag, ok := requireValidationError(t, err).Find(diagnostic.CodeUnknownModule)
		require.True(t, ok)
		assert.Equal(t, "Nope", diag.Subject)
		assert.Equal(t, diagnostic.FieldModules, diag.Field)
	})

	t.Run("transitive", func(t *testing.T) {
		cfg, err := r.Resolve(target.New("T", kind.Executable, "V4", "Unreal5_3", "A"))
		require.ErrorIs(t, err, diagnostic.ErrUnknownModule)
		assert.Nil(t, cfg)

		diag, ok := requireValidationError(t, err).Find(diagnostic.CodeUnknownModule)
		require.True(t, ok)
		assert.Equal(t, "Ghost", diag.Subject)
	})
}

func TestResolveCyclicDependency(t *testing.T) {
	r := newTestResolver(t, depCatalog{"A": {"B"}, "B": {"A"}, "Main": {"A"}}, Config{})

	_, err := r.Resolve(target.New("T", kind.Executable, "V4", "Unreal5_3", "Main"))
	require.ErrorIs(t, err, diagnostic.ErrCyclicDependency)

	diag, ok := requireValidationError(t, err).Find(diagnostic.CodeCyclicDependency)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"A", "B"}, diag.Participants)
}

func TestResolveEntryPoint(t *testing.T) {
	catalog := modgraph.NewStaticCatalog(
		modgraph.Module{Name: "Core"},
		modgraph.Module{Name: "Launch", EntryPoint: true, Dependencies: []string{"Core"}},
		modgraph.Module{Name: "Tools"},
	)
	r := newTestResolver(t, catalog, Config{})

	t.Run("executable without an entry point module", func(t *testing.T) {
		_, err := r.Resolve(target.New("T", kind.Executable, "V4", "Unreal5_3", "Core", "Tools"))
		require.ErrorIs(t, err, diagnostic.ErrMissingEntryPoint)

		diag, ok := requireValidationError(t, err).Find(diagnostic.CodeMissingEntryPoint)
		require.True(t, ok)
		assert.Equal(t, "Executable", diag.Subject)
	})

	t.Run("executable with no modules", func(t *testing.T) {
		_, err := r.Resolve(target.New("T", kind.Executable, "V4", "Unreal5_3"))
		assert.ErrorIs(t, err, diagnostic.ErrMissingEntryPoint)
	})

	t.Run("editor extension does not need one", func(t *testing.T) {
		cfg, err := r.Resolve(target.New("T", kind.EditorExtension, "V4", "Unreal5_3", "Tools"))
		require.NoError(t, err)
		assert.Empty(t, cfg.EntryModule())
		assert.Equal(t, kind.LoadableUnit, cfg.Packaging())
		assert.Equal(t, "true", cfg.OptionMap()[kind.OptWithEditor])
	})

	t.Run("explicit entry module", func(t *testing.T) {
		d := target.New("T", kind.Tool, "V4", "Unreal5_3", "Core", "Launch")
		require.NoError(t, d.SetEntryModule("Launch"))

		cfg, err := r.Resolve(d)
		require.NoError(t, err)
		assert.Equal(t, "Launch", cfg.EntryModule())
	})

	t.Run("explicit entry module not declared", func(t *testing.T) {
		d := target.New("T", kind.Tool, "V4", "Unreal5_3", "Core")
		require.NoError(t, d.SetEntryModule("Launch"))

		_, err := r.Resolve(d)
		diag, ok := requireValidationError(t, err).Find(diagnostic.CodeMissingEntryPoint)
		require.True(t, ok)
		assert.Equal(t, diagnostic.FieldEntryModule, diag.Field)
	})

	t.Run("explicit entry module without entry point", func(t *testing.T) {
		d := target.New("T", kind.Tool, "V4", "Unreal5_3", "Core", "Launch")
		require.NoError(t, d.SetEntryModule("Core"))

		_, err := r.Resolve(d)
		assert.ErrorIs(t, err, diagnostic.ErrMissingEntryPoint)
	})
}

func TestResolveStateMachine(t *testing.T) {
	r := newTestResolver(t, depCatalog{"Runners": nil, "Extra": nil}, Config{})
	d := target.New("Runners", kind.Executable, "V4", "Unreal5_3", "Runners")

	_, err := r.Resolve(d)
	require.NoError(t, err)

	err = d.AddModule("Extra")
	require.ErrorIs(t, err, diagnostic.ErrInvalidState)
	assert.Equal(t, []string{"Runners"}, d.Modules())

	require.ErrorIs(t, d.SetOverride(settings.OptPCHUsage, "none"), diagnostic.ErrInvalidState)

	_, err = r.Resolve(d)
	assert.ErrorIs(t, err, diagnostic.ErrInvalidState)

	_, err = r.Resolve(nil)
	assert.Error(t, err)
}

func TestResolveFailureKeepsDescriptorOpen(t *testing.T) {
	catalog := depCatalog{"Runners": nil}
	r := newTestResolver(t, catalog, Config{})
	d := target.New("Runners", kind.Executable, "V4", "Unreal5_3", "Runners", "Missing")

	_, err := r.Resolve(d)
	require.ErrorIs(t, err, diagnostic.ErrUnknownModule)
	assert.Equal(t, target.Open, d.State())

	catalog["Missing"] = nil

	cfg, err := r.Resolve(d)
	require.NoError(t, err)
	assert.Equal(t, []string{"Runners", "Missing"}, cfg.ModuleOrder())
}

func TestResolveVersionErrors(t *testing.T) {
	r := newTestResolver(t, depCatalog{"Runners": nil}, Config{})

	tests := []struct {
		name    string
		kind    kind.Kind
		version settings.Version
		order   settings.IncludeOrder
		want    error
		field   string
	}{
		{name: "unknown kind", kind: kind.Kind(0), version: "V4", order: "Unreal5_3",
			want: diagnostic.ErrUnknownKind, field: diagnostic.FieldKind},
		{name: "unknown settings version", kind: kind.Executable, version: "V9", order: "Unreal5_3",
			want: diagnostic.ErrUnknownSettingsVersion, field: diagnostic.FieldSettingsVersion},
		{name: "unknown include order", kind: kind.Executable, version: "V4", order: "Unreal4_27",
			want: diagnostic.ErrUnknownIncludeOrderVersion, field: diagnostic.FieldIncludeOrderVersion},
		{name: "include order too old", kind: kind.Executable, version: "V4", order: "Unreal5_2",
			want: diagnostic.ErrDisallowedVersionCombination, field: diagnostic.FieldIncludeOrderVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := r.Resolve(target.New("Runners", tt.kind, tt.version, tt.order, "Runners"))
			require.ErrorIs(t, err, tt.want)
			assert.Nil(t, cfg)

			var diag *diagnostic.Diagnostic
			require.ErrorAs(t, err, &diag)
			assert.Equal(t, tt.field, diag.Field)
		})
	}
}

func TestResolveAggregatesErrors(t *testing.T) {
	r := newTestResolver(t, depCatalog{"A": nil}, Config{})
	d := target.New("T", kind.Kind(0), "V9", "Unreal9_9", "A", "A", "Ghost")

	_, err := r.Resolve(d)
	verr := requireValidationError(t, err)

	for _, want := range []error{
		diagnostic.ErrUnknownKind,
		diagnostic.ErrUnknownSettingsVersion,
		diagnostic.ErrUnknownIncludeOrderVersion,
		diagnostic.ErrDuplicateModule,
		diagnostic.ErrUnknownModule,
	} {
		assert.ErrorIs(t, err, want)
	}

	assert.Len(t, verr.Diagnostics.Errors, 5)
}

func TestResolveOverrides(t *testing.T) {
	r := newTestResolver(t, depCatalog{"Runners": nil}, Config{})

	t.Run("override beats version default", func(t *testing.T) {
		d := target.New("Runners", kind.Executable, "V4", "Unreal5_3", "Runners")
		require.NoError(t, d.SetOverride(settings.OptShadowVariableWarning, "warning"))
		require.NoError(t, d.SetOverride(kind.OptLinkType, "modular"))

		cfg, err := r.Resolve(d)
		require.NoError(t, err)

		o, ok := cfg.Option(settings.OptShadowVariableWarning)
		require.True(t, ok)
		assert.Equal(t, Option{Name: settings.OptShadowVariableWarning, Value: "warning", Source: SourceOverride}, o)
		assert.Equal(t, "modular", cfg.OptionMap()[kind.OptLinkType])
	})

	t.Run("override may restate a requirement", func(t *testing.T) {
		d := target.New("Runners", kind.Executable, "V4", "Unreal5_3", "Runners")
		require.NoError(t, d.SetOverride(kind.OptWithEditor, "false"))

		cfg, err := r.Resolve(d)
		require.NoError(t, err)

		o, _ := cfg.Option(kind.OptWithEditor)
		assert.Equal(t, SourceKindRequirement, o.Source)
	})

	t.Run("override may not change a requirement", func(t *testing.T) {
		d := target.New("Runners", kind.Executable, "V4", "Unreal5_3", "Runners")
		require.NoError(t, d.SetOverride(kind.OptWithEditor, "true"))

		_, err := r.Resolve(d)
		require.ErrorIs(t, err, diagnostic.ErrLockedOption)

		diag, ok := requireValidationError(t, err).Find(diagnostic.CodeLockedOption)
		require.True(t, ok)
		assert.Equal(t, kind.OptWithEditor, diag.Subject)
		assert.Equal(t, diagnostic.FieldOverrides, diag.Field)
	})

	t.Run("unknown option warns", func(t *testing.T) {
		d := target.New("Runners", kind.Executable, "V4", "Unreal5_3", "Runners")
		require.NoError(t, d.SetOverride("frobnicate", "yes"))

		cfg, err := r.Resolve(d)
		require.NoError(t, err)

		warnings := cfg.Warnings()
		require.Len(t, warnings, 1)
		assert.Equal(t, diagnostic.CodeUnknownOption, warnings[0].Code)
		assert.Equal(t, "yes", cfg.OptionMap()["frobnicate"])
	})
}

func TestResolvePrecedence(t *testing.T) {
	reg := settings.New(settings.PrecedenceSettingsVersion)
	require.NoError(t, reg.RegisterIncludeOrder(settings.IncludeOrderEntry{Name: "Unreal5_3", Ordinal: 1}))
	require.NoError(t, reg.RegisterVersion(settings.VersionEntry{
		Name: "V4", Ordinal: 4,
		Defaults: map[string]string{kind.OptWithEditor: "true", settings.OptCppStandard: "c++20"},
	}))

	newDescriptor := func() *target.Descriptor {
		return target.New("Runners", kind.Executable, "V4", "Unreal5_3", "Runners")
	}

	t.Run("settings version wins", func(t *testing.T) {
		r := NewResolver(reg, kind.Builtin(), depCatalog{"Runners": nil}, Config{})

		cfg, err := r.Resolve(newDescriptor())
		require.NoError(t, err)

		o, _ := cfg.Option(kind.OptWithEditor)
		assert.Equal(t, Option{Name: kind.OptWithEditor, Value: "true", Source: SourceSettingsVersion}, o)
	})

	t.Run("override cannot change a version-pinned requirement", func(t *testing.T) {
		r := NewResolver(reg, kind.Builtin(), depCatalog{"Runners": nil}, Config{})

		for _, value := range []string{"false", "maybe"} {
			d := newDescriptor()
			require.NoError(t, d.SetOverride(kind.OptWithEditor, value))

			_, err := r.Resolve(d)
			require.ErrorIs(t, err, diagnostic.ErrLockedOption, value)
			assert.Equal(t, target.Open, d.State())
		}
	})

	t.Run("override restating the pinned value is accepted", func(t *testing.T) {
		r := NewResolver(reg, kind.Builtin(), depCatalog{"Runners": nil}, Config{})
		d := newDescriptor()
		require.NoError(t, d.SetOverride(kind.OptWithEditor, "true"))

		cfg, err := r.Resolve(d)
		require.NoError(t, err)

		o, _ := cfg.Option(kind.OptWithEditor)
		assert.Equal(t, Option{Name: kind.OptWithEditor, Value: "true", Source: SourceSettingsVersion}, o)
	})

	t.Run("kind requirements win by default", func(t *testing.T) {
		kindFirst := settings.New(settings.PrecedenceKindRequirements)
		require.NoError(t, kindFirst.RegisterIncludeOrder(settings.IncludeOrderEntry{Name: "Unreal5_3", Ordinal: 1}))
		require.NoError(t, kindFirst.RegisterVersion(settings.VersionEntry{
			Name: "V4", Ordinal: 4,
			Defaults: map[string]string{kind.OptWithEditor: "true"},
		}))

		r := NewResolver(kindFirst, kind.Builtin(), depCatalog{"Runners": nil}, Config{})

		cfg, err := r.Resolve(newDescriptor())
		require.NoError(t, err)

		o, _ := cfg.Option(kind.OptWithEditor)
		assert.Equal(t, Option{Name: kind.OptWithEditor, Value: "false", Source: SourceKindRequirement}, o)
	})
}

func TestResolveWarnings(t *testing.T) {
	r := newTestResolver(t, depCatalog{"Runners": nil}, Config{})

	t.Run("floating aliases", func(t *testing.T) {
		d := target.New("Runners", kind.Executable, settings.LatestVersion, settings.LatestIncludeOrder, "Runners")

		cfg, err := r.Resolve(d)
		require.NoError(t, err)

		assert.Equal(t, settings.Version("V5"), cfg.SettingsVersion())
		assert.Equal(t, settings.IncludeOrder("Unreal5_4"), cfg.IncludeOrderVersion())

		warnings := cfg.Warnings()
		require.Len(t, warnings, 2)

		for _, w := range warnings {
			assert.Equal(t, diagnostic.CodeFloatingAlias, w.Code)
			assert.Equal(t, diagnostic.SeverityWarning, w.Severity)
		}
	})

	t.Run("deprecated versions", func(t *testing.T) {
		cfg, err := r.Resolve(target.New("Runners", kind.Executable, "V1", "Unreal5_0", "Runners"))
		require.NoError(t, err)

		warnings := cfg.Warnings()
		require.Len(t, warnings, 2)
		assert.Equal(t, diagnostic.CodeDeprecatedVersion, warnings[0].Code)
		assert.Equal(t, "V1", warnings[0].Subject)
		assert.Equal(t, "Unreal5_0", warnings[1].Subject)
	})

	t.Run("warnings do not change the fingerprint", func(t *testing.T) {
		pinned, err := r.Resolve(target.New("Runners", kind.Executable, "V5", "Unreal5_4", "Runners"))
		require.NoError(t, err)

		floating, err := r.Resolve(target.New("Runners", kind.Executable, settings.LatestVersion, "Unreal5_4", "Runners"))
		require.NoError(t, err)

		assert.NotEmpty(t, floating.Warnings())
		assert.Equal(t, pinned.Fingerprint(), floating.Fingerprint())
		assert.False(t, pinned.Equal(floating))
	})
}

func TestResolveEngineVersion(t *testing.T) {
	r := newTestResolver(t, depCatalog{"Runners": nil}, Config{EngineVersion: semver.MustParse("5.3.2")})

	_, err := r.Resolve(target.New("Runners", kind.Executable, "V4", "Unreal5_3", "Runners"))
	require.NoError(t, err)

	_, err = r.Resolve(target.New("Runners", kind.Executable, "V5", "Unreal5_4", "Runners"))
	require.ErrorIs(t, err, diagnostic.ErrDisallowedVersionCombination)

	diag, ok := requireValidationError(t, err).Find(diagnostic.CodeDisallowedVersionCombination)
	require.True(t, ok)
	assert.Equal(t, "Unreal5_4", diag.Subject)
}

func TestResolveCustomBuilder(t *testing.T) {
	boom := errors.New("graph service unavailable")

	r := newTestResolver(t, depCatalog{"Runners": nil}, Config{
		Builder: func([]string, modgraph.Catalog) (*modgraph.Graph, error) { return nil, boom },
	})

	_, err := r.Resolve(target.New("Runners", kind.Executable, "V4", "Unreal5_3", "Runners"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), boom.Error())

	verr := requireValidationError(t, err)
	require.Len(t, verr.Diagnostics.Errors, 1)
	assert.Equal(t, diagnostic.FieldModules, verr.Diagnostics.Errors[0].Field)
}
