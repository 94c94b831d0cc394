package target

import (
	"targetrules/internal/diagnostic"
	"targetrules/internal/kind"
	"targetrules/internal/settings"
)

// Spec is the literal, serialisable form of a descriptor as written in a
// target file.
type Spec struct {
	Name                string            `yaml:"name"`
	Kind                string            `yaml:"kind"`
	SettingsVersion     string            `yaml:"settings_version"`
	IncludeOrderVersion string            `yaml:"include_order_version"`
	Modules             []string          `yaml:"modules"`
	EntryModule         string            `yaml:"entry_module,omitempty"`
	Overrides           map[string]string `yaml:"overrides,omitempty"`
}

// Descriptor builds an Open descriptor from s. The only check made here
// is that the kind names a declared Kind; everything else is left to the resolver.
func (s Spec) Descriptor() (*Descriptor, error) {
	k, ok := kind.Parse(s.Kind)
	if !ok {
		return nil, diagnostic.New(diagnostic.CodeUnknownKind, diagnostic.FieldKind, s.Kind,
			"not a known target kind")
	}

	d := New(s.Name, k, settings.Version(s.SettingsVersion), settings.IncludeOrder(s.IncludeOrderVersion), s.Modules...)
	d.entryModule = s.EntryModule

	for option, value := range s.Overrides {
		if err := d.SetOverride(option, value); err != nil {
			return nil, err
		}
	}

	return d, nil
}
