package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"venue-wayfinding/internal/common/logging"
	"venue-wayfinding/internal/wayfinding/models"
	"venue-wayfinding/internal/wayfinding/parser"
	"venue-wayfinding/internal/wayfinding/venuefile"
)

type importOpts struct {
	floor  string
	name   string
	level  int
	scale  float64
	format string
}

func newImportSVGCmd() *cobra.Command {
	opts := importOpts{}

	cmd := &cobra.Command{
		Use:   "import-svg <svg-file>",
		Short: "Convert an SVG floor plan into a single-floor venue file",
		Long: `Read rect, path, polygon, polyline and circle elements from an SVG floor
plan. Object types come from data-type attributes or id prefixes such as
Wall_, Booth_, Entrance_ or Stairs_.`,
		Example: `  wayfinder import-svg ground.svg --floor ground --scale 20 > ground.toml`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.FromContext(cmd.Context())

			floor := opts.floor
			if floor == "" {
				floor = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			}
			if opts.scale < 0 {
				return fmt.Errorf("scale must not be negative")
			}
			objects, err := parser.ParseSVGFile(args[0], floor)
			if err != nil {
				return err
			}
			logger.Info("svg imported", "file", args[0], "floor", floor, "objects", len(objects))

			v := &models.Venue{
				ID:      floor,
				Name:    opts.name,
				Floors:  []models.Floor{{ID: floor, Name: opts.name, Level: opts.level, ScalePxPerM: opts.scale}},
				Objects: objects,
			}
			return venuefile.Encode(cmd.OutOrStdout(), v, venuefile.Format(opts.format))
		},
	}

	cmd.Flags().StringVar(&opts.floor, "floor", "", "floor id (default: file name)")
	cmd.Flags().StringVar(&opts.name, "name", "", "floor display name")
	cmd.Flags().IntVar(&opts.level, "level", 0, "floor level")
	cmd.Flags().Float64Var(&opts.scale, "scale", models.DefaultScalePxPerM, "drawing units per metre")
	cmd.Flags().StringVar(&opts.format, "format", string(venuefile.FormatTOML), "output format: toml or json")

	return cmd
}
