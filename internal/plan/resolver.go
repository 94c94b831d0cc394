package plan

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"

	"github.com/masterminds/semver"

	"targetrules/internal/common"
	"targetrules/internal/diagnostic"
	"targetrules/internal/kind"
	"targetrules/internal/modgraph"
	"targetrules/internal/settings"
	"targetrules/internal/target"
)

// Config holds configuration for the resolution process.
type Config struct {
	// EngineVersion, when set, rejects include orders introduced by a newer engine.
	EngineVersion *semver.Version
	// Builder orders the module graph. Defaults to modgraph.Build.
	Builder modgraph.BuildFunc
	// Logger receives debug output. Defaults to a discarding logger.
	Logger *slog.Logger
}

// Resolver performs the resolution pipeline. Its registries are only read,
// so one Resolver may resolve independent descriptors concurrently.
type Resolver struct {
	settings *settings.Registry
	kinds    *kind.Catalog
	modules  modgraph.Catalog
	config   Config
}

// NewResolver creates a new Resolver.
func NewResolver(
	settingsRegistry *settings.Registry,
	kinds *kind.Catalog,
	modules modgraph.Catalog,
	config Config,
) *Resolver {
	if config.Builder == nil {
		config.Builder = modgraph.Build
	}

	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}

	return &Resolver{
		settings: settingsRegistry,
		kinds:    kinds,
		modules:  modules,
		config:   config,
	}
}

// Resolve validates d and returns its resolved configuration, then moves d
// to the Resolved state. On failure d stays Open and the error is a
// *diagnostic.ValidationError describing every problem found.
func (r *Resolver) Resolve(d *target.Descriptor) (*ResolvedConfig, error) {
	if d == nil {
		return nil, errors.New("descriptor is required")
	}

	logger := r.config.Logger.With("target", d.Name())

	if d.State() != target.Open {
		return nil, diagnostic.Newf(diagnostic.CodeInvalidState, diagnostic.FieldState, d.Name(),
			"descriptor is already %s", d.State())
	}

	logger.Debug("Resolving target.",
		"kind", d.Kind(),
		"settings_version", d.SettingsVersion(),
		"include_order_version", d.IncludeOrderVersion(),
		"modules", d.Modules())

	cfg, err := r.resolve(d)
	if err != nil {
		logger.Debug("Target resolution failed.", "error", err)
		return nil, err
	}

	if err := d.MarkResolved(); err != nil {
		return nil, err
	}

	logger.Debug("Target resolved.",
		"module_order", cfg.ModuleOrder(),
		"options", len(cfg.options),
		"warnings", len(cfg.warnings),
		"fingerprint", cfg.fingerprint)

	return cfg, nil
}

func (r *Resolver) resolve(d *target.Descriptor) (*ResolvedConfig, error) {
	var diags diagnostic.Diagnostics

	rule, kindErr := r.kinds.Lookup(d.Kind())
	diags.AddErr(diagnostic.FieldKind, kindErr)

	version, versionErr := r.settings.Lookup(d.SettingsVersion())
	diags.AddErr(diagnostic.FieldSettingsVersion, versionErr)

	order, orderErr := r.settings.LookupIncludeOrder(d.IncludeOrderVersion())
	diags.AddErr(diagnostic.FieldIncludeOrderVersion, orderErr)

	if versionErr == nil && orderErr == nil {
		diags.AddErr(diagnostic.FieldIncludeOrderVersion, r.settings.CheckCombination(version.Name, order.Name))
		r.checkEngine(order, &diags)
		r.versionWarnings(d, version, order, &diags)
	}

	graph, graphErr := r.config.Builder(d.Declared(), r.modules)
	diags.AddErr(diagnostic.FieldModules, graphErr)

	var entry string
	if kindErr == nil {
		entry = r.entryModule(d, rule, &diags)
	}

	var (
		rulePtr    *kind.Rule
		versionPtr *settings.VersionEntry
	)

	if kindErr == nil {
		rulePtr = &rule
	}

	if versionErr == nil {
		versionPtr = &version
	}

	options := r.mergeOptions(d, rulePtr, versionPtr, &diags)

	if diags.HasErrors() {
		return nil, diags.Err()
	}

	cfg := &ResolvedConfig{
		name:            d.Name(),
		kind:            d.Kind(),
		settingsVersion: version.Name,
		includeOrder:    order.Name,
		packaging:       rule.Packaging,
		visibility:      rule.Visibility,
		entryModule:     entry,
		modules:         graph.Nodes(),
		options:         options,
		warnings:        diags.Warnings,
	}

	fp, err := computeFingerprint(cfg)
	if err != nil {
		return nil, err
	}

	cfg.fingerprint = fp

	return cfg, nil
}

func (r *Resolver) checkEngine(order settings.IncludeOrderEntry, diags *diagnostic.Diagnostics) {
	engine := r.config.EngineVersion
	if engine == nil || order.Engine == nil {
		return
	}

	if order.Engine.GreaterThan(engine) {
		diags.AddError(diagnostic.CodeDisallowedVersionCombination, diagnostic.FieldIncludeOrderVersion,
			string(order.Name), fmt.Sprintf("include order requires engine %s or newer, building with %s",
				order.Engine, engine))
	}
}

func (r *Resolver) versionWarnings(
	d *target.Descriptor,
	version settings.VersionEntry,
	order settings.IncludeOrderEntry,
	diags *diagnostic.Diagnostics,
) {
	if d.SettingsVersion().IsAlias() {
		diags.AddWarning(diagnostic.CodeFloatingAlias, diagnostic.FieldSettingsVersion, string(d.SettingsVersion()),
			fmt.Sprintf("resolved to %s; pin a concrete version for reproducible builds", version.Name))
	}

	if d.IncludeOrderVersion().IsAlias() {
		diags.AddWarning(diagnostic.CodeFloatingAlias, diagnostic.FieldIncludeOrderVersion, string(d.IncludeOrderVersion()),
			fmt.Sprintf("resolved to %s; pin a concrete version for reproducible builds", order.Name))
	}

	if version.Deprecated {
		diags.AddWarning(diagnostic.CodeDeprecatedVersion, diagnostic.FieldSettingsVersion, string(version.Name),
			"settings version is deprecated")
	}

	if order.Deprecated {
		diags.AddWarning(diagnostic.CodeDeprecatedVersion, diagnostic.FieldIncludeOrderVersion, string(order.Name),
			"include order version is deprecated")
	}
}

// entryModule picks the module providing the target entry point: the explicit
// entry module if set, else the first declared module the catalog marks as an
// entry point, else (for catalogs that cannot tell) the first declared module.
// Kinds that do not require an entry point only get an explicit one.
func (r *Resolver) entryModule(d *target.Descriptor, rule kind.Rule, diags *diagnostic.Diagnostics) string {
	modules := d.Modules()
	entryCatalog, canTell := r.modules.(modgraph.EntryPointCatalog)
	canTell = canTell && entryCatalog.KnowsEntryPoints()

	if explicit := d.EntryModule(); explicit != "" {
		switch {
		case !slices.Contains(modules, explicit):
			diags.AddError(diagnostic.CodeMissingEntryPoint, diagnostic.FieldEntryModule, explicit,
				"entry module is not declared in modules")
		case canTell && r.modules.Exists(explicit) && !entryCatalog.HasEntryPoint(explicit):
			diags.AddError(diagnostic.CodeMissingEntryPoint, diagnostic.FieldEntryModule, explicit,
				"module does not provide an entry point")
		}

		return explicit
	}

	if rule.EntryPoint != kind.EntryPointRequired {
		return ""
	}

	if canTell {
		if m, ok := common.FirstFunc(modules, entryCatalog.HasEntryPoint); ok {
			return m
		}

		diags.AddError(diagnostic.CodeMissingEntryPoint, diagnostic.FieldModules, d.Kind().String(),
			"target kind requires a module providing an entry point")

		return ""
	}

	if m, ok := common.First(modules); ok {
		return m
	}

	diags.AddError(diagnostic.CodeMissingEntryPoint, diagnostic.FieldModules, d.Kind().String(),
		"target kind requires an entry point module but none is declared")

	return ""
}

// mergeOptions layers kind defaults, version defaults, overrides and kind
// requirements. rule and version are nil when their lookup failed.
func (r *Resolver) mergeOptions(
	d *target.Descriptor,
	rule *kind.Rule,
	version *settings.VersionEntry,
	diags *diagnostic.Diagnostics,
) []Option {
	merged := make(map[string]Option)

	set := func(values map[string]string, source OptionSource) {
		for name, value := range values {
			merged[name] = Option{Name: name, Value: value, Source: source}
		}
	}

	// locked holds the options kind requirements pin. Under settings-version
	// precedence a requirement the version also governs is pinned to the
	// version's value instead.
	locked := make(map[string]Option)

	if rule != nil {
		set(rule.Defaults, SourceKindDefault)

		for name, value := range rule.Requirements {
			locked[name] = Option{Name: name, Value: value, Source: SourceKindRequirement}

			if version != nil && r.settings.Precedence() == settings.PrecedenceSettingsVersion {
				if v, governed := version.Defaults[name]; governed {
					locked[name] = Option{Name: name, Value: v, Source: SourceSettingsVersion}
				}
			}
		}
	}

	if version != nil {
		set(version.Defaults, SourceSettingsVersion)
	}

	overrides := d.Overrides()
	for _, name := range d.OverrideNames() {
		value := overrides[name]

		if pinned, ok := locked[name]; ok && pinned.Value != value {
			diags.AddError(diagnostic.CodeLockedOption, diagnostic.FieldOverrides, name,
				fmt.Sprintf("%s targets require %s=%s", d.Kind(), name, pinned.Value))

			continue
		}

		if !r.knownOption(name) {
			diags.AddWarning(diagnostic.CodeUnknownOption, diagnostic.FieldOverrides, name,
				"option is not defined by any settings version or target kind")
		}

		merged[name] = Option{Name: name, Value: value, Source: SourceOverride}
	}

	for name, o := range locked {
		merged[name] = o
	}

	out := make([]Option, 0, len(merged))
	for _, o := range merged {
		out = append(out, o)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out
}

func (r *Resolver) knownOption(name string) bool {
	return r.settings.KnownOption(name) || r.kinds.KnownOption(name)
}
