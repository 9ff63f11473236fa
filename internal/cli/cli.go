// Package cli implements the wayfinder command-line interface.
//
// Every command works on a venue file (TOML or JSON, see venuefile). The
// engine is configured from the optional tunables file given by --config or
// WAYFINDING_CONFIG.
//
// # Commands
//
//   - route: compute and print directions to a destination object
//   - destinations, entrances: list route endpoints
//   - graph: export a floor's nav graph as DOT or SVG
//   - import-svg: convert an SVG floor plan into a venue file
//
// All commands support --verbose (-v) for debug logging. The logger travels
// through the command context.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"venue-wayfinding/internal/common/config"
	"venue-wayfinding/internal/common/logging"
	"venue-wayfinding/internal/wayfinding/engine"
)

var version = "dev"

// SetVersion sets the version shown by --version.
func SetVersion(v string) {
	version = v
}

// options are the persistent flags shared by every command.
type options struct {
	verbose  bool
	tunables string
}

// NewRootCommand builds the command tree. Logs go to stderr.
func NewRootCommand(stderr io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "wayfinder",
		Short:         "Indoor wayfinding for multi-floor venues",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if opts.verbose {
				level = log.DebugLevel
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(logging.WithLogger(ctx, logging.New(stderr, level)))
		},
	}

	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&opts.tunables, "config", os.Getenv("WAYFINDING_CONFIG"), "engine tunables file (TOML)")

	root.AddCommand(newRouteCmd(opts))
	root.AddCommand(newDestinationsCmd())
	root.AddCommand(newEntrancesCmd(opts))
	root.AddCommand(newGraphCmd(opts))
	root.AddCommand(newImportSVGCmd())
	root.AddCommand(newPlanCmd())

	return root
}

// Execute runs the CLI with os.Args.
func Execute(ctx context.Context) error {
	return NewRootCommand(os.Stderr).ExecuteContext(ctx)
}

// newEngine builds the engine from the tunables flag.
func (o *options) newEngine(ctx context.Context) (*engine.Engine, error) {
	tun, err := config.LoadTunables(o.tunables)
	if err != nil {
		return nil, err
	}
	e, err := tun.Engine(logging.FromContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("tunables: %w", err)
	}
	return e, nil
}
