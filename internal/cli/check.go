package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"targetrules/internal/ctxlog"
	"targetrules/internal/diagnostic"
	"targetrules/internal/loader"
)

func newCheckCmd(root *rootOptions) *cobra.Command {
	opts := resolveOptions{}

	cmd := &cobra.Command{
		Use:   "check <descriptor file or directory>...",
		Short: "Validate target descriptors and list every diagnostic",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			env, err := root.loadEnvironment(ctx, true)
			if err != nil {
				return err
			}

			sources, err := loader.LoadDescriptors(ctx, args...)
			if err != nil {
				return err
			}

			results, err := resolveSources(ctx, env, opts, sources)
			if err != nil {
				return err
			}

			var rows [][]any

			for _, r := range results {
				for _, d := range diagnosticsOf(r) {
					rows = append(rows, []any{r.source.Spec.Name, d.Severity.String(), string(d.Code), d.Field, d.Subject, d.Message})
				}

				if r.err == nil && len(r.config.Warnings()) == 0 {
					rows = append(rows, []any{r.source.Spec.Name, "ok", "", "", "", r.config.Fingerprint()[:12]})
				}
			}

			if err := renderTable(cmd.OutOrStdout(),
				[]any{"Target", "Severity", "Code", "Field", "Subject", "Message"}, rows); err != nil {
				return err
			}

			failed := failedCount(results)
			ctxlog.FromContext(ctx).Debug("Check finished.", "targets", len(results), "failed", failed)

			if failed > 0 {
				return fmt.Errorf("%d of %d targets are invalid", failed, len(results))
			}

			return nil
		},
	}

	opts.addFlags(cmd)

	return cmd
}

// diagnosticsOf flattens a result into its diagnostics: the errors of a
// failed resolution or the warnings of a successful one.
func diagnosticsOf(r result) []diagnostic.Diagnostic {
	if r.err == nil {
		return r.config.Warnings()
	}

	var verr *diagnostic.ValidationError
	if errors.As(r.err, &verr) {
		return verr.Diagnostics.Errors
	}

	var d *diagnostic.Diagnostic
	if errors.As(r.err, &d) {
		return []diagnostic.Diagnostic{*d}
	}

	return []diagnostic.Diagnostic{{Severity: diagnostic.SeverityError, Message: r.err.Error()}}
}
