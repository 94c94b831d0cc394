package settings

import (
	"fmt"
	"strings"

	"github.com/masterminds/semver"

	"targetrules/internal/common"
)

// Version selects a frozen bundle of default build options (e.g. "V4").
type Version string

// IncludeOrder selects the ordering of implicit dependency inclusion (e.g. "Unreal5_3").
type IncludeOrder string

// Alias tags. They select an entry relative to the registry contents and are
// never registered themselves.
const (
	LatestVersion      Version      = "Latest"
	LatestIncludeOrder IncludeOrder = "Latest"
	OldestIncludeOrder IncludeOrder = "Oldest"
)

// IsAlias reports whether v is a floating alias rather than a concrete tag.
func (v Version) IsAlias() bool {
	return v == LatestVersion
}

// IsAlias reports whether o is a floating alias rather than a concrete tag.
func (o IncludeOrder) IsAlias() bool {
	return o == LatestIncludeOrder || o == OldestIncludeOrder
}

// VersionEntry is one registered settings version.
type VersionEntry struct {
	Name       Version
	Ordinal    int
	Deprecated bool
	// MinIncludeOrder is the oldest include order this version may be combined with.
	// Empty means any.
	MinIncludeOrder IncludeOrder
	// Defaults maps option name to value.
	Defaults map[string]string
}

func (e VersionEntry) clone() VersionEntry {
	e.Defaults = common.Clone(e.Defaults)
	return e
}

// IncludeOrderEntry is one registered include-order version.
type IncludeOrderEntry struct {
	Name    IncludeOrder
	Ordinal int
	// Engine is the engine release that introduced this include order.
	Engine     *semver.Version
	Deprecated bool
}

// Precedence decides which layer wins when a settings-version default and a
// target kind requirement govern the same option.
type Precedence int

const (
	// PrecedenceKindRequirements lets kind requirements override version defaults.
	PrecedenceKindRequirements Precedence = iota
	// PrecedenceSettingsVersion lets version defaults override kind requirements.
	PrecedenceSettingsVersion
)

// String returns the flag spelling of the precedence.
func (p Precedence) String() string {
	switch p {
	case PrecedenceKindRequirements:
		return "kind"
	case PrecedenceSettingsVersion:
		return "settings"
	default:
		return common.UnknownStr
	}
}

// ParsePrecedence parses the flag spelling of a precedence.
func ParsePrecedence(s string) (Precedence, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "kind":
		return PrecedenceKindRequirements, nil
	case "settings":
		return PrecedenceSettingsVersion, nil
	default:
		return 0, fmt.Errorf("unknown precedence %q (want kind or settings)", s)
	}
}
