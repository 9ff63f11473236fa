package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"venue-wayfinding/internal/common/logging"
	"venue-wayfinding/internal/wayfinding/export"
	"venue-wayfinding/internal/wayfinding/venuefile"
)

type graphOpts struct {
	floor  string
	format string
	output string
	route  []string
}

func newGraphCmd(o *options) *cobra.Command {
	opts := graphOpts{}

	cmd := &cobra.Command{
		Use:   "graph <venue-file>",
		Short: "Export a floor's nav graph as DOT or SVG",
		Example: `  wayfinder graph expo.toml --floor ground > ground.dot
  wayfinder graph expo.toml --floor ground --format svg -o ground.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := logging.FromContext(ctx)

			v, err := venuefile.Load(args[0])
			if err != nil {
				return err
			}
			e, err := o.newEngine(ctx)
			if err != nil {
				return err
			}
			floor := opts.floor
			if floor == "" && len(v.Floors) > 0 {
				floor = v.Floors[0].ID
			}
			fg, err := e.FloorGraph(v, floor)
			if err != nil {
				return err
			}
			logger.Debug("floor graph", "floor", floor, "nodes", len(fg.Nodes), "edges", len(fg.Edges), "generated", fg.Generated)

			data := []byte(export.ToDOT(fg, export.Options{Route: opts.route}))
			switch opts.format {
			case "dot":
			case "svg":
				if data, err = export.RenderSVG(ctx, string(data)); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown format %q: want dot or svg", opts.format)
			}

			if opts.output == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(opts.output, data, 0o644); err != nil {
				return err
			}
			logger.Info("graph written", "path", opts.output)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.floor, "floor", "", "floor id (default: first floor)")
	cmd.Flags().StringVar(&opts.format, "format", "dot", "output format: dot or svg")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringSliceVar(&opts.route, "highlight", nil, "node ids to highlight as a route")

	return cmd
}
