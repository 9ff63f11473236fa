package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"venue-wayfinding/internal/common/logging"
	"venue-wayfinding/internal/wayfinding/engine"
	"venue-wayfinding/internal/wayfinding/models"
	"venue-wayfinding/internal/wayfinding/venuefile"
)

type routeOpts struct {
	from       string
	floor      string
	to         string
	accessible bool
	json       bool
}

func newRouteCmd(o *options) *cobra.Command {
	opts := routeOpts{}

	cmd := &cobra.Command{
		Use:   "route <venue-file>",
		Short: "Print directions from a point to a destination object",
		Long: `Compute a route from a start point (drawing units) on one floor to the
center of a destination object, possibly on another floor.`,
		Example: `  wayfinder route expo.toml --from 120,40 --floor ground --to booth-12
  wayfinder route expo.toml --from 120,40 --floor ground --to booth-12 --accessible --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := logging.FromContext(ctx)

			x, y, err := parsePoint(opts.from)
			if err != nil {
				return err
			}
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

			from := models.WayfindingPoint{X: x, Y: y, FloorID: floor}
			logger.Debug("routing", "venue", v.ID, "from", opts.from, "floor", floor, "to", opts.to)
			route, err := e.Plan(ctx, engine.RequestForVenue(v, from, opts.to, engine.AccessibleOnly(opts.accessible)))
			if errors.Is(err, engine.ErrNoRoute) {
				printNoRoute(cmd.ErrOrStderr(), err.Error())
				return fmt.Errorf("no route to %s (%s)", opts.to, engine.Code(err))
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.json {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(route)
			}
			target, _ := v.Object(opts.to)
			printRoute(out, v, target, route)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.from, "from", "", "start point as x,y in drawing units")
	cmd.Flags().StringVar(&opts.floor, "floor", "", "start floor id (default: first floor)")
	cmd.Flags().StringVar(&opts.to, "to", "", "destination object id")
	cmd.Flags().BoolVar(&opts.accessible, "accessible", false, "avoid stairs and inaccessible paths")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the route as JSON")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func parsePoint(s string) (float64, float64, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("invalid point %q: want x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid point %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid point %q: %w", s, err)
	}
	return x, y, nil
}
