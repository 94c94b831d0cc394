package plan

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Manifest is the wire form of a ResolvedConfig handed to the build engine.
type Manifest struct {
	Name                string           `json:"name" yaml:"name"`
	Kind                string           `json:"kind" yaml:"kind"`
	SettingsVersion     string           `json:"settings_version" yaml:"settings_version"`
	IncludeOrderVersion string           `json:"include_order_version" yaml:"include_order_version"`
	Packaging           string           `json:"packaging" yaml:"packaging"`
	Visibility          string           `json:"visibility" yaml:"visibility"`
	EntryModule         string           `json:"entry_module,omitempty" yaml:"entry_module,omitempty"`
	Modules             []ManifestModule `json:"modules" yaml:"modules"`
	Options             []Option         `json:"options" yaml:"options"`
	Warnings            []string         `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Fingerprint         string           `json:"fingerprint,omitempty" yaml:"fingerprint,omitempty"`
}

// ManifestModule is one module entry of a Manifest, in build order.
type ManifestModule struct {
	Name      string   `json:"name" yaml:"name"`
	DependsOn []string `json:"depends_on,omitempty" yaml:"depends_on,omitempty"`
	Implicit  bool     `json:"implicit,omitempty" yaml:"implicit,omitempty"`
}

// canonical returns the build-relevant part of the manifest: no warnings and
// no fingerprint.
func (c *ResolvedConfig) canonical() Manifest {
	m := Manifest{
		Name:                c.name,
		Kind:                c.kind.String(),
		SettingsVersion:     string(c.settingsVersion),
		IncludeOrderVersion: string(c.includeOrder),
		Packaging:           c.packaging.String(),
		Visibility:          c.visibility.String(),
		EntryModule:         c.entryModule,
		Modules:             make([]ManifestModule, 0, len(c.modules)),
		Options:             slices.Clone(c.options),
	}

	for _, n := range c.modules {
		mm := ManifestModule{Name: n.Name, Implicit: n.Implicit}
		if len(n.DependsOn) > 0 {
			mm.DependsOn = slices.Clone(n.DependsOn)
		}

		m.Modules = append(m.Modules, mm)
	}

	return m
}

// Manifest returns the full wire form, warnings and fingerprint included.
func (c *ResolvedConfig) Manifest() Manifest {
	m := c.canonical()
	m.Fingerprint = c.fingerprint

	for _, w := range c.warnings {
		m.Warnings = append(m.Warnings, w.String())
	}

	return m
}

func computeFingerprint(c *ResolvedConfig) (string, error) {
	data, err := json.Marshal(c.canonical())
	if err != nil {
		return "", fmt.Errorf("failed to encode canonical manifest: %w", err)
	}

	sum := sha256.Sum256(data)

	return hex.EncodeToString(sum[:]), nil
}

// ExportJSON encodes the manifests of configs as an indented JSON array.
func ExportJSON(configs ...*ResolvedConfig) ([]byte, error) {
	return json.MarshalIndent(manifests(configs), "", "  ")
}

// ExportYAML encodes the manifests of configs as a YAML sequence.
func ExportYAML(configs ...*ResolvedConfig) ([]byte, error) {
	return yaml.Marshal(manifests(configs))
}

func manifests(configs []*ResolvedConfig) []Manifest {
	out := make([]Manifest, 0, len(configs))
	for _, c := range configs {
		out = append(out, c.Manifest())
	}

	return out
}
