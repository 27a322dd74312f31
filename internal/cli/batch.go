package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"Timber/internal/calc/batch"
	"Timber/internal/calc/importer"
)

func newBatchCmd(opts *options, out io.Writer) *cobra.Command {
	var workers int
	cmd := &cobra.Command{
		Use:   "batch FILE",
		Short: "Size a list of members from an .xlsx schedule or a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, skipped, err := readBatch(args[0])
			if err != nil {
				return err
			}
			env, err := opts.env(cmd.Context())
			if err != nil {
				return err
			}
			res, err := batch.Run(cmd.Context(), in, env.Tables, env.Limits, workers)
			if err != nil {
				return err
			}
			full := importer.ImportResult{Result: res, Skipped: skipped}
			return opts.print(out, full, func(w io.Writer) { batchTable(w, full) })
		},
	}
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "concurrent calculations, 0 uses all CPUs")
	return cmd
}

func readBatch(path string) (batch.Input, []importer.SkippedRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return batch.Input{}, nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		items, skipped, err := importer.ReadItems(f)
		if err != nil {
			return batch.Input{}, nil, fmt.Errorf("%s: %w", path, err)
		}
		return batch.Input{Items: items}, skipped, nil
	case ".json":
		var in batch.Input
		if err := json.NewDecoder(f).Decode(&in); err != nil {
			return batch.Input{}, nil, fmt.Errorf("%s: %w", path, err)
		}
		return in, nil, nil
	}
	return batch.Input{}, nil, fmt.Errorf("%s: unsupported file type", path)
}

func batchTable(w io.Writer, r importer.ImportResult) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\ttype\tsection\tstatus\tpasses")
	for _, it := range r.Results {
		if it.Result == nil {
			fmt.Fprintf(tw, "%d\t%s\t-\terror: %s\t-\n", it.Index+1, it.Type, it.Error)
			continue
		}
		fmt.Fprintf(tw, "%d\t%s\t%d x %d\t%s\t%t\n", it.Index+1, it.Type, it.Result.Width, it.Result.Depth, it.Result.SnapStatus, it.Result.Passes)
	}
	for _, s := range r.Skipped {
		fmt.Fprintf(tw, "row %d\tskipped\t%s\n", s.Row, s.Reason)
	}
	fmt.Fprintf(tw, "total %d, failed %d, fallback %d\n", r.Count, r.Failed, r.Fallback)
	tw.Flush()
}
