package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"venue-wayfinding/internal/wayfinding/engine"
	"venue-wayfinding/internal/wayfinding/venuefile"
)

func newDestinationsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "destinations <venue-file>",
		Short: "List labelled booths that can be routed to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := venuefile.Load(args[0])
			if err != nil {
				return err
			}
			dests := engine.ExtractDestinations(v.Objects)

			out := cmd.OutOrStdout()
			if asJSON {
				return json.NewEncoder(out).Encode(dests)
			}
			fmt.Fprintln(out, styleTitle.Render(fmt.Sprintf("%d destinations", len(dests))))
			for _, d := range dests {
				label := d.Label
				if d.BoothID != "" {
					label = d.BoothID + "  " + label
				}
				printKeyValue(out, d.ObjectID, label+" "+styleDim.Render(floorName(v, d.FloorID))+" "+fmtPoint(d.X, d.Y))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func newEntrancesCmd(o *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "entrances <venue-file>",
		Short: "List entrances usable as start points",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := venuefile.Load(args[0])
			if err != nil {
				return err
			}
			e, err := o.newEngine(cmd.Context())
			if err != nil {
				return err
			}
			entrances := e.DetectEntrances(v.Floors, v.Objects, v.NavNodes)

			out := cmd.OutOrStdout()
			if asJSON {
				return json.NewEncoder(out).Encode(entrances)
			}
			fmt.Fprintln(out, styleTitle.Render(fmt.Sprintf("%d entrances", len(entrances))))
			for _, en := range entrances {
				id := en.NodeID
				if id == "" {
					id = en.ObjectID
				}
				printKeyValue(out, id, en.Label+" "+styleDim.Render(floorName(v, en.FloorID))+" "+fmtPoint(en.X, en.Y))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}
