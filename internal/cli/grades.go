package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"Timber/internal/material"
)

func newGradesCmd(opts *options, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "grades",
		Short: "List the material grades in use",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.env(cmd.Context())
			if err != nil {
				return err
			}
			mt, ok := env.Tables.Materials.(*material.Table)
			if !ok {
				return fmt.Errorf("material table unavailable")
			}
			var props []material.Properties
			for _, g := range mt.Grades() {
				p, _ := mt.Lookup(g)
				props = append(props, p)
			}
			return opts.print(out, props, func(w io.Writer) {
				tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "grade\tfb MPa\tE MPa\tdensity\tchar mm/min")
				for _, p := range props {
					fmt.Fprintf(tw, "%s\t%.1f\t%.0f\t%.0f\t%.2f\n", p.Grade, p.BendingStrength, p.ModulusOfElasticity, p.Density, p.CharringRate)
				}
				tw.Flush()
			})
		},
	}
}
