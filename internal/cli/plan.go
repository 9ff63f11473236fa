package cli

import (
	"os"

	"github.com/spf13/cobra"

	"venue-wayfinding/internal/common/logging"
	"venue-wayfinding/internal/wayfinding/export"
	"venue-wayfinding/internal/wayfinding/venuefile"
)

func newPlanCmd() *cobra.Command {
	var floor, output string

	cmd := &cobra.Command{
		Use:   "plan <venue-file>",
		Short: "Draw a floor's objects as an SVG plan",
		Long: `Draws the placed objects of one floor as SVG. Every element keeps its id,
type and label, so the plan can be edited and fed back to import-svg.`,
		Example: `  wayfinder plan expo.toml --floor ground -o ground.svg`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := venuefile.Load(args[0])
			if err != nil {
				return err
			}
			if floor == "" && len(v.Floors) > 0 {
				floor = v.Floors[0].ID
			}
			svg, err := export.FloorPlanSVG(floor, v.Objects)
			if err != nil {
				return err
			}

			if output == "" {
				_, err = cmd.OutOrStdout().Write([]byte(svg))
				return err
			}
			if err := os.WriteFile(output, []byte(svg), 0o644); err != nil {
				return err
			}
			logging.FromContext(cmd.Context()).Info("plan written", "path", output)
			return nil
		},
	}

	cmd.Flags().StringVar(&floor, "floor", "", "floor id (default: first floor)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")

	return cmd
}
