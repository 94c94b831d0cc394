package settings

import (
	"fmt"

	"github.com/masterminds/semver"
)

// Option names defined by the built-in settings versions.
const (
	OptCppStandard              = "cpp_standard"
	OptLegacyPublicIncludePaths = "legacy_public_include_paths"
	OptShadowVariableWarning    = "shadow_variable_warning"
	OptUnsafeTypeCastWarning    = "unsafe_type_cast_warning"
	OptPCHUsage                 = "pch_usage"
	OptStrictConformance        = "strict_conformance"
	OptValidateFormatStrings    = "validate_format_strings"
	OptUndefinedIdentifierCheck = "undefined_identifier_warning"
)

var builtinIncludeOrders = []IncludeOrderEntry{
	{Name: "Unreal5_0", Ordinal: 1, Engine: semver.MustParse("5.0.0"), Deprecated: true},
	{Name: "Unreal5_1", Ordinal: 2, Engine: semver.MustParse("5.1.0"), Deprecated: true},
	{Name: "Unreal5_2", Ordinal: 3, Engine: semver.MustParse("5.2.0")},
	{Name: "Unreal5_3", Ordinal: 4, Engine: semver.MustParse("5.3.0")},
	{Name: "Unreal5_4", Ordinal: 5, Engine: semver.MustParse("5.4.0")},
}

var builtinVersions = []VersionEntry{
	{
		Name: "V1", Ordinal: 1, Deprecated: true,
		Defaults: map[string]string{
			OptCppStandard:              "c++14",
			OptLegacyPublicIncludePaths: "true",
			OptShadowVariableWarning:    "warning",
			OptUnsafeTypeCastWarning:    "off",
			OptPCHUsage:                 "default",
			OptStrictConformance:        "false",
			OptValidateFormatStrings:    "false",
			OptUndefinedIdentifierCheck: "off",
		},
	},
	{
		Name: "V2", Ordinal: 2, Deprecated: true,
		Defaults: map[string]string{
			OptCppStandard:              "c++17",
			OptLegacyPublicIncludePaths: "false",
			OptShadowVariableWarning:    "error",
			OptUnsafeTypeCastWarning:    "off",
			OptPCHUsage:                 "explicit_or_shared",
			OptStrictConformance:        "false",
			OptValidateFormatStrings:    "false",
			OptUndefinedIdentifierCheck: "off",
		},
	},
	{
		Name: "V3", Ordinal: 3,
		Defaults: map[string]string{
			OptCppStandard:              "c++17",
			OptLegacyPublicIncludePaths: "false",
			OptShadowVariableWarning:    "error",
			OptUnsafeTypeCastWarning:    "warning",
			OptPCHUsage:                 "explicit_or_shared",
			OptStrictConformance:        "false",
			OptValidateFormatStrings:    "false",
			OptUndefinedIdentifierCheck: "warning",
		},
	},
	{
		Name: "V4", Ordinal: 4, MinIncludeOrder: "Unreal5_3",
		Defaults: map[string]string{
			OptCppStandard:              "c++20",
			OptLegacyPublicIncludePaths: "false",
			OptShadowVariableWarning:    "error",
			OptUnsafeTypeCastWarning:    "warning",
			OptPCHUsage:                 "explicit_or_shared",
			OptStrictConformance:        "true",
			OptValidateFormatStrings:    "true",
			OptUndefinedIdentifierCheck: "warning",
		},
	},
	{
		Name: "V5", Ordinal: 5, MinIncludeOrder: "Unreal5_4",
		Defaults: map[string]string{
			OptCppStandard:              "c++20",
			OptLegacyPublicIncludePaths: "false",
			OptShadowVariableWarning:    "error",
			OptUnsafeTypeCastWarning:    "error",
			OptPCHUsage:                 "explicit_or_shared",
			OptStrictConformance:        "true",
			OptValidateFormatStrings:    "true",
			OptUndefinedIdentifierCheck: "error",
		},
	},
}

// Builtin returns a registry seeded with the stock settings versions V1-V5
// and include orders Unreal5_0-Unreal5_4.
func Builtin(precedence Precedence) *Registry {
	r := New(precedence)

	for _, e := range builtinIncludeOrders {
		if err := r.RegisterIncludeOrder(e); err != nil {
			panic(fmt.Errorf("builtin include order: %w", err))
		}
	}

	for _, e := range builtinVersions {
		if err := r.RegisterVersion(e); err != nil {
			panic(fmt.Errorf("builtin settings version: %w", err))
		}
	}

	return r
}
