package plan

import (
	"reflect"
	"slices"

	"targetrules/internal/diagnostic"
	"targetrules/internal/kind"
	"targetrules/internal/modgraph"
	"targetrules/internal/settings"
)

// OptionSource names the layer an option value came from.
type OptionSource string

const (
	SourceKindDefault     OptionSource = "kind_default"
	SourceSettingsVersion OptionSource = "settings_version"
	SourceOverride        OptionSource = "override"
	SourceKindRequirement OptionSource = "kind_requirement"
)

// Option is one resolved build option.
type Option struct {
	Name   string       `json:"name" yaml:"name"`
	Value  string       `json:"value" yaml:"value"`
	Source OptionSource `json:"source" yaml:"source"`
}

// ResolvedConfig is the fully resolved configuration of one target.
// It is immutable; accessors return copies.
type ResolvedConfig struct {
	name            string
	kind            kind.Kind
	settingsVersion settings.Version
	includeOrder    settings.IncludeOrder
	packaging       kind.Packaging
	visibility      kind.Visibility
	entryModule     string
	modules         []modgraph.Node
	options         []Option // sorted by name
	warnings        []diagnostic.Diagnostic
	fingerprint     string
}

func (c *ResolvedConfig) Name() string                               { return c.name }
func (c *ResolvedConfig) Kind() kind.Kind                            { return c.kind }
func (c *ResolvedConfig) SettingsVersion() settings.Version          { return c.settingsVersion }
func (c *ResolvedConfig) IncludeOrderVersion() settings.IncludeOrder { return c.includeOrder }
func (c *ResolvedConfig) Packaging() kind.Packaging                  { return c.packaging }
func (c *ResolvedConfig) Visibility() kind.Visibility                { return c.visibility }
func (c *ResolvedConfig) EntryModule() string                        { return c.entryModule }

// Fingerprint is a stable hash of the build-relevant content, suitable as an
// artifact cache key. Warnings do not contribute.
func (c *ResolvedConfig) Fingerprint() string { return c.fingerprint }

// ModuleOrder returns module names in build order.
func (c *ResolvedConfig) ModuleOrder() []string {
	out := make([]string, 0, len(c.modules))
	for _, m := range c.modules {
		out = append(out, m.Name)
	}

	return out
}

// Modules returns the module nodes in build order.
func (c *ResolvedConfig) Modules() []modgraph.Node {
	out := make([]modgraph.Node, 0, len(c.modules))
	for _, m := range c.modules {
		m.DependsOn = slices.Clone(m.DependsOn)
		out = append(out, m)
	}

	return out
}

// Options returns the resolved options sorted by name.
func (c *ResolvedConfig) Options() []Option {
	return slices.Clone(c.options)
}

// Option returns the resolved option with the given name.
func (c *ResolvedConfig) Option(name string) (Option, bool) {
	i, ok := slices.BinarySearchFunc(c.options, name, func(o Option, n string) int {
		switch {
		case o.Name < n:
			return -1
		case o.Name > n:
			return 1
		default:
			return 0
		}
	})
	if !ok {
		return Option{}, false
	}

	return c.options[i], true
}

// OptionMap returns the resolved options as name → value.
func (c *ResolvedConfig) OptionMap() map[string]string {
	out := make(map[string]string, len(c.options))
	for _, o := range c.options {
		out[o.Name] = o.Value
	}

	return out
}

// Warnings returns the non-fatal diagnostics raised during resolution.
func (c *ResolvedConfig) Warnings() []diagnostic.Diagnostic {
	out := make([]diagnostic.Diagnostic, 0, len(c.warnings))
	for _, w := range c.warnings {
		w.Participants = slices.Clone(w.Participants)
		out = append(out, w)
	}

	return out
}

// Equal reports whether two configs hold the same values.
func (c *ResolvedConfig) Equal(other *ResolvedConfig) bool {
	if c == nil || other == nil {
		return c == other
	}

	return reflect.DeepEqual(*c, *other)
}
