package loader

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/masterminds/semver"
	"gopkg.in/yaml.v3"

	"targetrules/internal/ctxlog"
	"targetrules/internal/settings"
)

// RegistryExtension holds entries to append to a settings registry.
type RegistryExtension struct {
	IncludeOrders []IncludeOrderDef `yaml:"include_orders"`
	Settings      []VersionDef      `yaml:"settings"`
	Disallow      []DisallowDef     `yaml:"disallow"`
}

// IncludeOrderDef is the file form of settings.IncludeOrderEntry.
type IncludeOrderDef struct {
	Name       string `yaml:"name"`
	Ordinal    int    `yaml:"ordinal"`
	Engine     string `yaml:"engine,omitempty"`
	Deprecated bool   `yaml:"deprecated,omitempty"`
}

// VersionDef is the file form of settings.VersionEntry.
type VersionDef struct {
	Name            string            `yaml:"name"`
	Ordinal         int               `yaml:"ordinal"`
	Deprecated      bool              `yaml:"deprecated,omitempty"`
	MinIncludeOrder string            `yaml:"min_include_order,omitempty"`
	Defaults        map[string]string `yaml:"defaults,omitempty"`
}

// DisallowDef forbids one settings version / include order pair.
type DisallowDef struct {
	SettingsVersion     string `yaml:"settings_version"`
	IncludeOrderVersion string `yaml:"include_order_version"`
	Reason              string `yaml:"reason,omitempty"`
}

// ParseRegistryExtension parses a registry extension file.
func ParseRegistryExtension(data []byte) (*RegistryExtension, error) {
	var ext RegistryExtension

	if err := yaml.Unmarshal(data, &ext); err != nil {
		return nil, fmt.Errorf("failed to parse registry extension YAML: %w", err)
	}

	return &ext, nil
}

// Apply appends the extension to reg: include orders first, then settings
// versions, then disallowed pairs. A rejected entry leaves reg unchanged.
func (ext *RegistryExtension) Apply(reg *settings.Registry) error {
	var (
		batch settings.Batch
		errs  []error
	)

	for _, def := range ext.IncludeOrders {
		entry := settings.IncludeOrderEntry{
			Name:       settings.IncludeOrder(def.Name),
			Ordinal:    def.Ordinal,
			Deprecated: def.Deprecated,
		}

		if def.Engine != "" {
			v, err := semver.NewVersion(def.Engine)
			if err != nil {
				errs = append(errs, fmt.Errorf("include order %q: invalid engine version %q: %w", def.Name, def.Engine, err))
				continue
			}

			entry.Engine = v
		}

		batch.IncludeOrders = append(batch.IncludeOrders, entry)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	for _, def := range ext.Settings {
		batch.Versions = append(batch.Versions, settings.VersionEntry{
			Name:            settings.Version(def.Name),
			Ordinal:         def.Ordinal,
			Deprecated:      def.Deprecated,
			MinIncludeOrder: settings.IncludeOrder(def.MinIncludeOrder),
			Defaults:        def.Defaults,
		})
	}

	for _, def := range ext.Disallow {
		batch.Disallow = append(batch.Disallow, settings.Disallowed{
			Version: settings.Version(def.SettingsVersion),
			Order:   settings.IncludeOrder(def.IncludeOrderVersion),
			Reason:  def.Reason,
		})
	}

	return reg.Extend(batch)
}

// LoadRegistryExtension reads a registry extension file and applies it to reg.
func LoadRegistryExtension(ctx context.Context, reg *settings.Registry, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read registry extension %s: %w", path, err)
	}

	ext, err := ParseRegistryExtension(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if err := ext.Apply(reg); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	ctxlog.FromContext(ctx).Debug("Applied registry extension.",
		"path", path,
		"include_orders", len(ext.IncludeOrders),
		"settings", len(ext.Settings),
		"disallow", len(ext.Disallow))

	return nil
}
