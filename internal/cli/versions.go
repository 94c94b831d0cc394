package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"targetrules/internal/settings"
)

func newVersionsCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "versions",
		Short: "List the registered settings versions and include orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := root.loadEnvironment(cmd.Context(), false)
			if err != nil {
				return err
			}

			return writeVersions(cmd.OutOrStdout(), env.settings)
		},
	}
}

func writeVersions(w io.Writer, reg *settings.Registry) error {
	var rows [][]any

	for _, v := range reg.Versions() {
		rows = append(rows, []any{
			string(v.Name), v.Ordinal, string(v.MinIncludeOrder), len(v.Defaults), yesNo(v.Deprecated),
		})
	}

	if err := renderTable(w, []any{"Settings Version", "Ordinal", "Min Include Order", "Defaults", "Deprecated"}, rows); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	rows = nil

	for _, o := range reg.IncludeOrders() {
		engine := ""
		if o.Engine != nil {
			engine = o.Engine.String()
		}

		rows = append(rows, []any{string(o.Name), o.Ordinal, engine, yesNo(o.Deprecated)})
	}

	return renderTable(w, []any{"Include Order", "Ordinal", "Engine", "Deprecated"}, rows)
}
