package cli

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

func renderTable(w io.Writer, header []any, rows [][]any) error {
	table := tablewriter.NewTable(w, tablewriter.WithHeaderAutoFormat(tw.Off))
	table.Header(header...)

	if err := table.Bulk(rows); err != nil {
		return fmt.Errorf("error formatting table: %w", err)
	}

	return table.Render()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}

	return "no"
}
