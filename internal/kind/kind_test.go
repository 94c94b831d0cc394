package kind_test

import (
	"fmt"

	"targetrules/internal/kind"
)

func Example() {
	for _, name := range []string{"Executable", "game", "Editor", "PROGRAM", "server", "Widget"} {
		k, ok := kind.Parse(name)
		fmt.Println(k, ok)
	}
	// Output:
	// Executable true
	// Executable true
	// EditorExtension true
	// Tool true
	// Server true
	// Kind(0) false
}
