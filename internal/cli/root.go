// Package cli implements the targetrules command line.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"targetrules/internal/ctxlog"
	"targetrules/internal/kind"
	"targetrules/internal/loader"
	"targetrules/internal/modgraph"
	"targetrules/internal/settings"
)

type rootOptions struct {
	logLevel   string
	logFormat  string
	noColor    bool
	registries []string
	catalog    string
	precedence string
}

func (o *rootOptions) addFlags(flags *pflag.FlagSet) {
	flags.StringVar(&o.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flags.StringVar(&o.logFormat, "log-format", logFormatText, "log format (text or json)")
	flags.BoolVar(&o.noColor, "no-color", false, "disable colored log output")
	flags.StringSliceVar(&o.registries, "registry", nil, "registry extension file to apply (repeatable)")
	flags.StringVar(&o.catalog, "catalog", "", "module catalog file")
	flags.StringVar(&o.precedence, "precedence", settings.PrecedenceKindRequirements.String(),
		"which layer wins when a settings version and a kind requirement set the same option (kind or settings)")
}

// environment holds the registries a command works against.
type environment struct {
	settings *settings.Registry
	kinds    *kind.Catalog
	modules  modgraph.Catalog
}

// loadEnvironment builds the settings registry (built-ins plus extensions)
// and, when needCatalog is set, loads the module catalog.
func (o *rootOptions) loadEnvironment(ctx context.Context, needCatalog bool) (*environment, error) {
	precedence, err := settings.ParsePrecedence(o.precedence)
	if err != nil {
		return nil, err
	}

	env := &environment{
		settings: settings.Builtin(precedence),
		kinds:    kind.Builtin(),
	}

	for _, path := range o.registries {
		if err := loader.LoadRegistryExtension(ctx, env.settings, path); err != nil {
			return nil, err
		}
	}

	if !needCatalog {
		return env, nil
	}

	if o.catalog == "" {
		return nil, errors.New("--catalog is required")
	}

	env.modules, err = loader.LoadCatalog(ctx, o.catalog)
	if err != nil {
		return nil, err
	}

	return env, nil
}

// NewRootCmd creates the targetrules command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "targetrules",
		Short: "Resolve build target descriptors into build configurations",
		Long: `targetrules validates build target descriptors against a settings version
registry, a target kind catalog and a module catalog, and resolves each one
into the configuration handed to the build engine.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(cmd.ErrOrStderr(), opts.logLevel, opts.logFormat, opts.noColor)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			ctx = ctxlog.WithLogger(ctx, logger)
			cmd.SetContext(ctxlog.With(ctx, "command", cmd.Name()))

			return nil
		},
	}

	opts.addFlags(cmd.PersistentFlags())

	cmd.AddCommand(newResolveCmd(opts))
	cmd.AddCommand(newCheckCmd(opts))
	cmd.AddCommand(newVersionsCmd(opts))
	cmd.AddCommand(newKindsCmd(opts))

	return cmd
}

// Execute runs the command tree and returns the process exit code.
func Execute(ctx context.Context, args []string) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
		return 1
	}

	return 0
}
