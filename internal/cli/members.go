package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"Timber/internal/calc/beam"
	"Timber/internal/calc/column"
	"Timber/internal/calc/joist"
	"Timber/internal/calc/loads"
	"Timber/internal/calc/sizing"
)

func newJoistCmd(opts *options, out io.Writer) *cobra.Command {
	var in joist.Input
	var loadType string
	cmd := &cobra.Command{
		Use:   "joist",
		Short: "Size a floor joist",
		Example: `  # 9m LVL joists at 800mm centres carrying 3 kPa
  sizer joist --span 9 --spacing 800 --load 3 --grade LVL --width 250 --limit 300`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.env(cmd.Context())
			if err != nil {
				return err
			}
			in.LoadType = loads.Type(loadType)
			res, err := joist.Calculate(in, env.Tables, env.Limits)
			if err != nil {
				return err
			}
			return opts.print(out, res, func(w io.Writer) { memberTable(w, "joist", res) })
		},
	}
	f := cmd.Flags()
	f.Float64Var(&in.SpanM, "span", 0, "clear span (m) [required]")
	f.Float64Var(&in.SpacingMM, "spacing", 600, "joist spacing (mm)")
	f.Float64Var(&in.LoadKPa, "load", 0, "design area load (kPa) [required]")
	f.StringVar(&in.Grade, "grade", "", "material grade")
	f.StringVar(&in.FireRating, "fire", "", "fire rating, e.g. 60 or 60/60/60")
	f.IntVarP(&in.WidthMM, "width", "b", 0, "section width (mm), 0 picks the narrowest stocked")
	f.StringVar(&loadType, "load-type", "", "commercial or residential")
	f.IntVar(&in.DeflectionLimit, "limit", 0, "deflection limit denominator L/n")
	f.Float64Var(&in.SafetyFactor, "safety-factor", 1, "divides bending strength")
	cmd.MarkFlagRequired("span")
	cmd.MarkFlagRequired("load")
	return cmd
}

func newBeamCmd(opts *options, out io.Writer) *cobra.Command {
	var in beam.Input
	var loadType string
	cmd := &cobra.Command{
		Use:   "beam",
		Short: "Size a beam carrying a tributary strip",
		Example: `  sizer beam --span 6 --tributary 4.5 --load 3 --fire 60`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.env(cmd.Context())
			if err != nil {
				return err
			}
			in.LoadType = loads.Type(loadType)
			res, err := beam.Calculate(in, env.Tables, env.Limits)
			if err != nil {
				return err
			}
			return opts.print(out, res, func(w io.Writer) { memberTable(w, "beam", res) })
		},
	}
	f := cmd.Flags()
	f.Float64Var(&in.SpanM, "span", 0, "clear span (m) [required]")
	f.Float64Var(&in.TributaryM, "tributary", 0, "tributary width (m) [required]")
	f.Float64Var(&in.LoadKPa, "load", 0, "design area load (kPa) [required]")
	f.StringVar(&in.Grade, "grade", "", "material grade")
	f.StringVar(&in.FireRating, "fire", "", "fire rating, e.g. 60 or 60/60/60")
	f.IntVarP(&in.WidthMM, "width", "b", 0, "section width (mm), 0 picks the narrowest stocked")
	f.StringVar(&loadType, "load-type", "", "commercial or residential")
	f.IntVar(&in.DeflectionLimit, "limit", 0, "deflection limit denominator L/n")
	f.Float64Var(&in.SafetyFactor, "safety-factor", 1, "divides bending strength")
	cmd.MarkFlagRequired("span")
	cmd.MarkFlagRequired("tributary")
	cmd.MarkFlagRequired("load")
	return cmd
}

func newColumnCmd(opts *options, out io.Writer) *cobra.Command {
	var in column.Input
	cmd := &cobra.Command{
		Use:   "column",
		Short: "Size a column under a beam",
		Example: `  sizer column --beam-width 335 --load 3 --area 42 --floors 3 --fire 60`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.env(cmd.Context())
			if err != nil {
				return err
			}
			res, err := column.Calculate(in, env.Tables)
			if err != nil {
				return err
			}
			return opts.print(out, res, func(w io.Writer) { memberTable(w, "column", res) })
		},
	}
	f := cmd.Flags()
	f.IntVar(&in.BeamWidthMM, "beam-width", 0, "supported beam width (mm) [required]")
	f.Float64Var(&in.FloorLoadKPa, "load", 0, "floor load (kPa)")
	f.Float64Var(&in.TributaryAreaM2, "area", 0, "tributary area per floor (m2)")
	f.IntVar(&in.NumFloors, "floors", 1, "floors supported")
	f.Float64Var(&in.FloorHeightM, "height", 3, "floor to floor height (m)")
	f.StringVar(&in.Grade, "grade", "", "material grade")
	f.StringVar(&in.FireRating, "fire", "", "fire rating, e.g. 60 or 60/60/60")
	cmd.MarkFlagRequired("beam-width")
	return cmd
}

func memberTable(w io.Writer, name string, r sizing.Result) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "member\t%s\n", name)
	fmt.Fprintf(tw, "section\t%d x %d mm\n", r.Width, r.Depth)
	if r.BendingGovernedDepth > 0 {
		fmt.Fprintf(tw, "bending depth\t%.1f mm\n", r.BendingGovernedDepth)
		fmt.Fprintf(tw, "deflection depth\t%.1f mm\n", r.DeflectionGovernedDepth)
		fmt.Fprintf(tw, "deflection\t%.1f / %.1f mm\n", r.FinalDeflection, r.AllowableDeflection)
		fmt.Fprintf(tw, "bending stress\t%.2f MPa\n", r.BendingStress)
	}
	fmt.Fprintf(tw, "fire allowance\t%.1f mm\n", r.FireAllowance)
	fmt.Fprintf(tw, "status\t%s\n", r.SnapStatus)
	if r.UsingFallback {
		fmt.Fprintf(tw, "fallback\t%s\n", r.FallbackReason)
	}
	fmt.Fprintf(tw, "passes\t%t\n", r.Passes)
	tw.Flush()
}
