package target

import (
	"fmt"
	"maps"
	"slices"
	"sort"

	"targetrules/internal/diagnostic"
	"targetrules/internal/kind"
	"targetrules/internal/settings"
)

// Descriptor is a target definition under construction.
type Descriptor struct {
	name            string
	kind            kind.Kind
	settingsVersion settings.Version
	includeOrder    settings.IncludeOrder

	// declared keeps every module reference in declaration order, repeats
	// included, so that resolution can report them.
	declared []string
	seen     map[string]struct{}

	entryModule string
	overrides   map[string]string
	state       State
}

// New creates an Open descriptor. Modules are added as by AddModule, except
// that a repeated name is only recorded, to be reported at resolution.
func New(name string, k kind.Kind, version settings.Version, order settings.IncludeOrder, modules ...string) *Descriptor {
	d := &Descriptor{
		name:            name,
		kind:            k,
		settingsVersion: version,
		includeOrder:    order,
		seen:            make(map[string]struct{}),
		overrides:       make(map[string]string),
	}

	for _, m := range modules {
		d.record(m)
	}

	return d
}

func (d *Descriptor) record(module string) bool {
	d.declared = append(d.declared, module)

	if _, ok := d.seen[module]; ok {
		return false
	}

	d.seen[module] = struct{}{}

	return true
}

func (d *Descriptor) checkOpen(op string) error {
	if d.state != Open {
		return diagnostic.Newf(diagnostic.CodeInvalidState, diagnostic.FieldState, d.name,
			"cannot %s: descriptor is %s", op, d.state)
	}

	return nil
}

// AddModule declares a module dependency.
//
// A repeated name returns diagnostic.ErrDuplicateModule and is kept on record,
// so the descriptor will fail resolution until it is rebuilt.
func (d *Descriptor) AddModule(name string) error {
	if err := d.checkOpen("add module"); err != nil {
		return err
	}

	if name == "" {
		return diagnostic.New(diagnostic.CodeUnknownModule, diagnostic.FieldModules, "", "module name is empty")
	}

	if !d.record(name) {
		return diagnostic.New(diagnostic.CodeDuplicateModule, diagnostic.FieldModules, name,
			"module declared more than once")
	}

	return nil
}

// SetEntryModule names the module providing the target entry point. It must
// also be declared as a module.
func (d *Descriptor) SetEntryModule(name string) error {
	if err := d.checkOpen("set entry module"); err != nil {
		return err
	}

	d.entryModule = name

	return nil
}

// SetOverride sets an explicit option value, taking precedence over the
// settings version defaults.
func (d *Descriptor) SetOverride(option, value string) error {
	if err := d.checkOpen("set override"); err != nil {
		return err
	}

	if option == "" {
		return fmt.Errorf("override option name is empty")
	}

	d.overrides[option] = value

	return nil
}

// MarkResolved moves the descriptor from Open to Resolved. It is called by
// the resolver after a successful resolution.
func (d *Descriptor) MarkResolved() error {
	if err := d.checkOpen("resolve"); err != nil {
		return err
	}

	d.state = Resolved

	return nil
}

func (d *Descriptor) Name() string                               { return d.name }
func (d *Descriptor) Kind() kind.Kind                            { return d.kind }
func (d *Descriptor) SettingsVersion() settings.Version          { return d.settingsVersion }
func (d *Descriptor) IncludeOrderVersion() settings.IncludeOrder { return d.includeOrder }
func (d *Descriptor) EntryModule() string                        { return d.entryModule }
func (d *Descriptor) State() State                               { return d.state }

// Modules returns the deduplicated module names in first-declaration order.
func (d *Descriptor) Modules() []string {
	out := make([]string, 0, len(d.seen))
	done := make(map[string]struct{}, len(d.seen))

	for _, m := range d.declared {
		if _, ok := done[m]; ok {
			continue
		}

		done[m] = struct{}{}
		out = append(out, m)
	}

	return out
}

// Declared returns every module reference as declared, repeats included.
func (d *Descriptor) Declared() []string {
	return slices.Clone(d.declared)
}

// Overrides returns a copy of the explicit option overrides.
func (d *Descriptor) Overrides() map[string]string {
	return maps.Clone(d.overrides)
}

// OverrideNames returns the override option names, sorted.
func (d *Descriptor) OverrideNames() []string {
	names := make([]string, 0, len(d.overrides))
	for name := range d.overrides {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
