package batch

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"Timber/internal/calc/beam"
	"Timber/internal/calc/column"
	"Timber/internal/calc/joist"
	"Timber/internal/calc/loads"
	"Timber/internal/calc/sizing"
	"Timber/internal/catalog"
)

// Item is one member request; exactly the input matching Type is read.
type Item struct {
	Type   catalog.MemberType `json:"type"`
	Joist  *joist.Input       `json:"joist,omitempty"`
	Beam   *beam.Input        `json:"beam,omitempty"`
	Column *column.Input      `json:"column,omitempty"`
}

type ItemResult struct {
	Index  int            `json:"index"`
	Type   string         `json:"type"`
	Result *sizing.Result `json:"result,omitempty"`
	Error  string         `json:"error,omitempty"`
}

type Input struct {
	Items []Item `json:"items"`
}

type Result struct {
	Count    int          `json:"count"`
	Failed   int          `json:"failed"`
	Fallback int          `json:"fallback"`
	Results  []ItemResult `json:"results"`
}

func size(it Item, tables sizing.Tables, limits loads.Limits) (sizing.Result, error) {
	t, err := catalog.ParseMemberType(string(it.Type))
	if err != nil {
		return sizing.Result{}, err
	}
	switch {
	case t == catalog.Joist && it.Joist != nil:
		return joist.Calculate(*it.Joist, tables, limits)
	case t == catalog.Beam && it.Beam != nil:
		return beam.Calculate(*it.Beam, tables, limits)
	case t == catalog.Column && it.Column != nil:
		return column.Calculate(*it.Column, tables)
	}
	return sizing.Result{}, fmt.Errorf("no %s input", t)
}

// Run sizes every item concurrently. A failing item is reported in its slot
// and does not stop the others. limit <= 0 uses one worker per CPU.
func Run(ctx context.Context, in Input, tables sizing.Tables, limits loads.Limits, limit int) (Result, error) {
	if len(in.Items) == 0 {
		return Result{}, fmt.Errorf("no items")
	}
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	out := make([]ItemResult, len(in.Items))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, it := range in.Items {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ir := ItemResult{Index: i, Type: string(it.Type)}
			res, err := size(it, tables, limits)
			if err != nil {
				ir.Error = err.Error()
			} else {
				ir.Result = &res
			}
			out[i] = ir
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	res := Result{Count: len(out), Results: out}
	for _, r := range out {
		if r.Error != "" {
			res.Failed++
		} else if r.Result.UsingFallback {
			res.Fallback++
		}
	}
	return res, nil
}
