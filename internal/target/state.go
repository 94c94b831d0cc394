package target

import "targetrules/internal/common"

// State is the lifecycle state of a Descriptor.
type State int

const (
	// Open descriptors accept modules and overrides.
	Open State = iota
	// Resolved descriptors are immutable.
	Resolved
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case Open:
		return "open"
	case Resolved:
		return "resolved"
	default:
		return common.UnknownStr
	}
}
