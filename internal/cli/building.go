package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"Timber/internal/calc/building"
	"Timber/internal/calc/loads"
)

func newBuildingCmd(opts *options, out io.Writer) *cobra.Command {
	var in building.Input
	var file, method, loadType string
	cmd := &cobra.Command{
		Use:   "building",
		Short: "Size joists, beams and columns of a regular grid",
		Long: `Size the governing joist, beam and column of a post-and-beam grid
and estimate timber volume, cost and stored carbon.

The grid can be given with flags or as a JSON file with --file.`,
		Example: `  sizer building --joist-span 6 --beam-span 7 --joist-bays 3 --beam-bays 4 \
    --floors 3 --dead 1 --live 2.5 --fire 60 -f table`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file != "" {
				b, err := os.ReadFile(file)
				if err != nil {
					return err
				}
				if err := json.Unmarshal(b, &in); err != nil {
					return fmt.Errorf("%s: %w", file, err)
				}
			} else {
				in.Method = loads.Method(method)
				in.LoadType = loads.Type(loadType)
			}
			env, err := opts.env(cmd.Context())
			if err != nil {
				return err
			}
			res, err := building.Calculate(in, env.Tables, env.Limits, env.PricePerM3)
			if err != nil {
				return err
			}
			return opts.print(out, res, func(w io.Writer) { buildingTable(w, res) })
		},
	}
	f := cmd.Flags()
	f.StringVar(&file, "file", "", "JSON building input, replaces the grid flags")
	f.Float64Var(&in.JoistSpanM, "joist-span", 0, "joist span between beam lines (m)")
	f.Float64Var(&in.BeamSpanM, "beam-span", 0, "beam span between columns (m)")
	f.IntVar(&in.JoistBays, "joist-bays", 1, "bays in the joist direction")
	f.IntVar(&in.BeamBays, "beam-bays", 1, "bays in the beam direction")
	f.IntVar(&in.NumFloors, "floors", 1, "number of floors")
	f.Float64Var(&in.FloorHeightM, "height", 3, "floor to floor height (m)")
	f.Float64Var(&in.DeadKPa, "dead", 0, "superimposed dead load (kPa)")
	f.Float64Var(&in.LiveKPa, "live", 0, "live load (kPa)")
	f.StringVar(&method, "method", "", "load combination: EC0, ASCE7, NBCC or service")
	f.Float64Var(&in.JoistSpacingMM, "spacing", 600, "joist spacing (mm)")
	f.StringVar(&in.Grade, "grade", "", "material grade")
	f.StringVar(&in.FireRating, "fire", "", "fire rating, e.g. 60 or 60/60/60")
	f.StringVar(&loadType, "load-type", "", "commercial or residential")
	f.IntVar(&in.JoistWidthMM, "joist-width", 0, "joist width (mm)")
	f.IntVar(&in.BeamWidthMM, "beam-width", 0, "beam width (mm)")
	f.IntVar(&in.DeflectionLimit, "limit", 0, "deflection limit denominator L/n")
	return cmd
}

func buildingTable(w io.Writer, r building.Result) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "design load\t%.2f kPa (%s)\n", r.DesignLoadKPa, r.ComboName)
	fmt.Fprintln(tw, "member\tsection\tcount\tstatus\tpasses")
	fmt.Fprintf(tw, "joist\t%d x %d\t%d\t%s\t%t\n", r.Joist.Width, r.Joist.Depth, r.JoistCount, r.Joist.SnapStatus, r.Joist.Passes)
	fmt.Fprintf(tw, "beam\t%d x %d\t%d\t%s\t%t\n", r.Beam.Width, r.Beam.Depth, r.BeamCount, r.Beam.SnapStatus, r.Beam.Passes)
	fmt.Fprintf(tw, "column\t%d x %d\t%d\t%s\t%t\n", r.Column.Width, r.Column.Depth, r.ColumnCount, r.Column.SnapStatus, r.Column.Passes)
	fmt.Fprintf(tw, "volume\t%.2f m3\n", r.Estimate.TotalVolumeM3)
	fmt.Fprintf(tw, "cost\t%.0f\n", r.Estimate.TotalCost)
	fmt.Fprintf(tw, "carbon\t%.0f kg CO2e\n", r.Estimate.TotalCarbonKgCO2e)
	if r.UsingFallback {
		fmt.Fprintln(tw, "warning\tone or more members are not stocked sections")
	}
	tw.Flush()
}
