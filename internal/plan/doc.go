// Package plan provides the resolution pipeline that turns a target
// descriptor into the immutable ResolvedConfig consumed by the build engine.
//
// Resolution pipeline:
//  1. Validate the kind against the kind catalog
//  2. Validate the settings version, the include order and their combination
//     (and the engine version, when one is configured)
//  3. Build and order the module graph
//  4. Pick the entry module when the kind requires one
//  5. Merge options, lowest layer first:
//     kind defaults → settings version defaults → explicit overrides → kind requirements
//  6. Emit the config, or one ValidationError holding every failure
//
// Resolution is a pure computation over the descriptor and the injected
// registries: equal descriptors resolve to equal configs.
//
// # Precedence
//
// When a settings version default and a kind requirement set the same option,
// the registry's Precedence decides. With PrecedenceKindRequirements (the
// default) the kind requirement wins and the option is locked: an explicit
// override to another value fails with diagnostic.ErrLockedOption. With
// PrecedenceSettingsVersion the version default wins and the option stays
// locked at the version's value. Overrides never beat a kind requirement.
package plan
