// Package settings provides the settings version registry.
//
// A settings version ("V4") selects a frozen bundle of default build options;
// an include-order version ("Unreal5_3") selects how implicit dependencies
// are ordered. The two axes are independent but a registry may forbid some
// combinations, either through a version's minimum include order or through
// an explicit Disallow entry.
//
// Registries are append-only. New versions may be added at any time;
// existing ones are never changed, which keeps resolution reproducible for a
// given concrete tag. The Latest and Oldest aliases are the exception: they
// follow the registry contents and are reported as floating by the resolver.
package settings
