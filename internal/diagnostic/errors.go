package diagnostic

import "errors"

var (
	ErrUnknownKind                  = errors.New("unknown target kind")
	ErrUnknownSettingsVersion       = errors.New("unknown settings version")
	ErrUnknownIncludeOrderVersion   = errors.New("unknown include order version")
	ErrDisallowedVersionCombination = errors.New("disallowed version combination")
	ErrDuplicateModule              = errors.New("duplicate module")
	ErrUnknownModule                = errors.New("unknown module")
	ErrCyclicDependency             = errors.New("cyclic module dependency")
	ErrInvalidState                 = errors.New("invalid descriptor state")
	ErrMissingEntryPoint            = errors.New("missing entry point module")
	ErrLockedOption                 = errors.New("option is locked by target kind")
)

// Code identifies one kind of diagnostic.
type Code string

const (
	CodeUnknownKind                  Code = "unknown_kind"
	CodeUnknownSettingsVersion       Code = "unknown_settings_version"
	CodeUnknownIncludeOrderVersion   Code = "unknown_include_order_version"
	CodeDisallowedVersionCombination Code = "disallowed_version_combination"
	CodeDuplicateModule              Code = "duplicate_module"
	CodeUnknownModule                Code = "unknown_module"
	CodeCyclicDependency             Code = "cyclic_dependency"
	CodeInvalidState                 Code = "invalid_state"
	CodeMissingEntryPoint            Code = "missing_entry_point"
	CodeLockedOption                 Code = "locked_option"

	// Warning-only codes.
	CodeDeprecatedVersion Code = "deprecated_version"
	CodeFloatingAlias     Code = "floating_alias"
	CodeUnknownOption     Code = "unknown_option"
)

var sentinels = map[Code]error{
	CodeUnknownKind:                  ErrUnknownKind,
	CodeUnknownSettingsVersion:       ErrUnknownSettingsVersion,
	CodeUnknownIncludeOrderVersion:   ErrUnknownIncludeOrderVersion,
	CodeDisallowedVersionCombination: ErrDisallowedVersionCombination,
	CodeDuplicateModule:              ErrDuplicateModule,
	CodeUnknownModule:                ErrUnknownModule,
	CodeCyclicDependency:             ErrCyclicDependency,
	CodeInvalidState:                 ErrInvalidState,
	CodeMissingEntryPoint:            ErrMissingEntryPoint,
	CodeLockedOption:                 ErrLockedOption,
}

// Err returns the sentinel error for the code, or nil for warning-only codes.
func (c Code) Err() error {
	return sentinels[c]
}
