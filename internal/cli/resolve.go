package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/masterminds/semver"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"targetrules/internal/ctxlog"
	"targetrules/internal/loader"
	"targetrules/internal/plan"
)

// Output formats accepted by --output.
const (
	outputJSON  = "json"
	outputYAML  = "yaml"
	outputTable = "table"
)

type resolveOptions struct {
	engine string
	jobs   int
}

func (o *resolveOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.engine, "engine", "", "engine version; include orders needing a newer engine are rejected")
	cmd.Flags().IntVarP(&o.jobs, "jobs", "j", 4, "number of descriptors resolved concurrently")
}

// result is the outcome of resolving one descriptor.
type result struct {
	source loader.Source
	config *plan.ResolvedConfig
	err    error
}

// resolveSources resolves every source against env. Results keep the input
// order. Per-descriptor failures are reported in the results, not as the
// returned error.
func resolveSources(
	ctx context.Context,
	env *environment,
	opts resolveOptions,
	sources []loader.Source,
) ([]result, error) {
	logger := ctxlog.FromContext(ctx)

	cfg := plan.Config{Logger: logger}

	if opts.engine != "" {
		v, err := semver.NewVersion(opts.engine)
		if err != nil {
			return nil, fmt.Errorf("invalid --engine %q: %w", opts.engine, err)
		}

		cfg.EngineVersion = v
	}

	resolver := plan.NewResolver(env.settings, env.kinds, env.modules, cfg)
	results := make([]result, len(sources))

	g, ctx := errgroup.WithContext(ctx)
	if opts.jobs > 0 {
		g.SetLimit(opts.jobs)
	}

	for i, src := range sources {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			results[i].source = src

			d, err := src.Spec.Descriptor()
			if err != nil {
				results[i].err = err
				return nil
			}

			results[i].config, results[i].err = resolver.Resolve(d)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func failedCount(results []result) int {
	n := 0

	for _, r := range results {
		if r.err != nil {
			n++
		}
	}

	return n
}

func newResolveCmd(root *rootOptions) *cobra.Command {
	opts := resolveOptions{}

	var (
		output string
		dump   bool
	)

	cmd := &cobra.Command{
		Use:   "resolve <descriptor file or directory>...",
		Short: "Resolve target descriptors and print their build configurations",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := ctxlog.FromContext(ctx)

			switch output {
			case outputJSON, outputYAML, outputTable:
			default:
				return fmt.Errorf("invalid --output %q (want %s, %s or %s)", output, outputJSON, outputYAML, outputTable)
			}

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

			if failed := failedCount(results); failed > 0 {
				for _, r := range results {
					if r.err != nil {
						logger.Error("Target failed to resolve.", "target", r.source.Spec.Name, "path", r.source.Path, "error", r.err)
					}
				}

				return fmt.Errorf("%d of %d targets failed to resolve", failed, len(results))
			}

			configs := make([]*plan.ResolvedConfig, 0, len(results))

			for _, r := range results {
				for _, w := range r.config.Warnings() {
					logger.Warn(w.String(), "target", r.config.Name())
				}

				if dump && logger.Enabled(ctx, slog.LevelDebug) {
					logger.Debug("Resolved config.", "target", r.config.Name(), "dump", spew.Sdump(r.config.Manifest()))
				}

				configs = append(configs, r.config)
			}

			return writeConfigs(cmd.OutOrStdout(), output, configs)
		},
	}

	opts.addFlags(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", outputJSON, "output format (json, yaml or table)")
	cmd.Flags().BoolVar(&dump, "dump", false, "log a full dump of every resolved config at debug level")

	return cmd
}

func writeConfigs(w io.Writer, format string, configs []*plan.ResolvedConfig) error {
	switch format {
	case outputYAML:
		data, err := plan.ExportYAML(configs...)
		if err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}

		_, err = w.Write(data)

		return err
	case outputTable:
		rows := make([][]any, 0, len(configs))
		for _, c := range configs {
			rows = append(rows, []any{
				c.Name(),
				c.Kind().String(),
				string(c.SettingsVersion()),
				string(c.IncludeOrderVersion()),
				c.Packaging().String(),
				c.EntryModule(),
				strings.Join(c.ModuleOrder(), " "),
				c.Fingerprint()[:12],
			})
		}

		return renderTable(w,
			[]any{"Target", "Kind", "Settings", "Include Order", "Packaging", "Entry", "Modules", "Fingerprint"},
			rows)
	default:
		data, err := plan.ExportJSON(configs...)
		if err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}

		_, err = fmt.Fprintf(w, "%s\n", data)

		return err
	}
}
