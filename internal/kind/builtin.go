package kind

import "fmt"

// Option names set by the built-in kind rules.
const (
	OptLinkType       = "link_type"
	OptBuildEnv       = "build_environment"
	OptWithEditor     = "with_editor"
	OptWithServerCode = "with_server_code"
	OptWithClientCode = "with_client_code"
	OptWithEngine     = "with_engine"
)

var builtinRules = map[Kind]Rule{
	Executable: {
		Packaging:  StandaloneBinary,
		EntryPoint: EntryPointRequired,
		Visibility: Private,
		Defaults:   map[string]string{OptLinkType: "monolithic", OptBuildEnv: "unique"},
		Requirements: map[string]string{
			OptWithEditor: "false",
		},
	},
	Client: {
		Packaging:  StandaloneBinary,
		EntryPoint: EntryPointRequired,
		Visibility: Private,
		Defaults:   map[string]string{OptLinkType: "monolithic", OptBuildEnv: "unique"},
		Requirements: map[string]string{
			OptWithEditor:     "false",
			OptWithServerCode: "false",
		},
	},
	Server: {
		Packaging:  StandaloneBinary,
		EntryPoint: EntryPointRequired,
		Visibility: Private,
		Defaults:   map[string]string{OptLinkType: "monolithic", OptBuildEnv: "unique"},
		Requirements: map[string]string{
			OptWithEditor:     "false",
			OptWithServerCode: "true",
			OptWithClientCode: "false",
		},
	},
	EditorExtension: {
		Packaging:  LoadableUnit,
		EntryPoint: EntryPointOptional,
		Visibility: Public,
		Defaults:   map[string]string{OptLinkType: "modular", OptBuildEnv: "shared"},
		Requirements: map[string]string{
			OptWithEditor: "true",
		},
	},
	Tool: {
		Packaging:  StandaloneBinary,
		EntryPoint: EntryPointRequired,
		Visibility: Private,
		Defaults:   map[string]string{OptLinkType: "monolithic", OptBuildEnv: "unique", OptWithEngine: "false"},
		Requirements: map[string]string{
			OptWithEditor: "false",
		},
	},
}

// Builtin returns a catalog holding a rule for every declared kind.
func Builtin() *Catalog {
	c := NewCatalog()

	for _, k := range All() {
		if err := c.Register(k, builtinRules[k]); err != nil {
			panic(fmt.Errorf("builtin kind: %w", err))
		}
	}

	return c
}
