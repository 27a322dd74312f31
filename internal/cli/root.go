package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"

	"Timber/internal/app"
	"Timber/internal/calc"
	"Timber/internal/config"
)

type options struct {
	catalogFile   string
	materialsFile string
	grade         string
	format        string
	verbose       bool
}

// NewRootCmd builds the sizer command tree writing results to out.
func NewRootCmd(out io.Writer) *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "sizer",
		Short: "Preliminary timber member sizing",
		Long: `sizer sizes timber joists, beams and columns against a stocked
section catalog and reports the governing criterion, fire allowance
and catalog fallbacks.

Results are preliminary and must be checked by an engineer.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if !opts.verbose {
				log.SetOutput(io.Discard)
			}
		},
	}

	root.PersistentFlags().StringVar(&opts.catalogFile, "catalog", "", "catalog file (.csv or .xlsx), default is the embedded catalog")
	root.PersistentFlags().StringVar(&opts.materialsFile, "materials", "", "materials YAML file, default is the embedded table")
	root.PersistentFlags().StringVar(&opts.grade, "default-grade", "", "grade used when a requested grade is unknown")
	root.PersistentFlags().StringVarP(&opts.format, "format", "f", "json", "output format: json or table")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log warnings to stderr")

	root.AddCommand(
		newJoistCmd(opts, out),
		newBeamCmd(opts, out),
		newColumnCmd(opts, out),
		newBuildingCmd(opts, out),
		newBatchCmd(opts, out),
		newGradesCmd(opts, out),
	)
	return root
}

// env loads configuration from the environment and applies flag overrides.
func (o *options) env(ctx context.Context) (*calc.Env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if o.catalogFile != "" {
		cfg.CatalogFile = o.catalogFile
	}
	if o.materialsFile != "" {
		cfg.MaterialsFile = o.materialsFile
	}
	if o.grade != "" {
		cfg.DefaultGrade = o.grade
	}
	tables, scope, err := app.Tables(ctx, cfg, nil)
	if err != nil {
		return nil, err
	}
	return app.Env(tables, scope, cfg, nil), nil
}

func (o *options) print(out io.Writer, v any, table func(io.Writer)) error {
	switch o.format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "table":
		table(out)
		return nil
	}
	return fmt.Errorf("unknown format %q", o.format)
}
