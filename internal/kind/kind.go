package kind

import "strings"

//go:generate go tool stringer -type=Kind -output=kind_string.go

// Kind is the legal variety of a build target.
type Kind int

const (
	_ Kind = iota // skip zero value, use it as a default (invalid) value for Kind

	Executable
	Client
	Server
	EditorExtension
	Tool

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)

// IsValid reports whether k is one of the declared kinds.
func (k Kind) IsValid() bool {
	return k > 0 && int(k) < KindTotal
}

var aliases = map[string]Kind{
	"game":    Executable,
	"editor":  EditorExtension,
	"program": Tool,
}

// Parse returns the kind named by s. Matching is case-insensitive and also
// accepts the engine spellings Game, Editor and Program.
func Parse(s string) (Kind, bool) {
	name := strings.ToLower(strings.TrimSpace(s))
	for k := Kind(1); int(k) < KindTotal; k++ {
		if strings.ToLower(k.String()) == name {
			return k, true
		}
	}

	k, ok := aliases[name]

	return k, ok
}

// All returns every declared kind in declaration order.
func All() []Kind {
	out := make([]Kind, 0, KindTotal-1)
	for k := Kind(1); int(k) < KindTotal; k++ {
		out = append(out, k)
	}

	return out
}
