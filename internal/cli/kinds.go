package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"targetrules/internal/kind"
)

func newKindsCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List the target kinds and the rules they imply",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := root.loadEnvironment(cmd.Context(), false)
			if err != nil {
				return err
			}

			return writeKinds(cmd.OutOrStdout(), env.kinds)
		},
	}
}

func writeKinds(w io.Writer, catalog *kind.Catalog) error {
	var rows [][]any

	for _, k := range catalog.Kinds() {
		rule, err := catalog.Lookup(k)
		if err != nil {
			return err
		}

		rows = append(rows, []any{
			k.String(),
			rule.Packaging.String(),
			rule.EntryPoint.String(),
			rule.Visibility.String(),
			formatOptions(rule.Requirements),
		})
	}

	return renderTable(w, []any{"Kind", "Packaging", "Entry Point", "Visibility", "Requirements"}, rows)
}

func formatOptions(options map[string]string) string {
	pairs := make([]string, 0, len(options))
	for name, value := range options {
		pairs = append(pairs, fmt.Sprintf("%s=%s", name, value))
	}

	sort.Strings(pairs)

	return strings.Join(pairs, " ")
}
