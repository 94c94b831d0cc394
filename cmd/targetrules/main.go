// Package main provides the CLI entrypoint for targetrules.
//
// targetrules resolves declarative build target descriptors:
//   - validates kind, settings version and include order against the registries
//   - orders the module graph and picks the entry module
//   - merges the option layers into one fingerprinted configuration
package main

import (
	"context"
	"os"
	"os/signal"

	"targetrules/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := cli.Execute(ctx, os.Args[1:])

	stop()
	os.Exit(code)
}
