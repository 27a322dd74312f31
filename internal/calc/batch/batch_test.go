package batch

import (
	"context"
	"testing"

	"Timber/internal/calc/beam"
	"Timber/internal/calc/column"
	"Timber/internal/calc/joist"
	"Timber/internal/calc/loads"
	"Timber/internal/calc/sizing"
	"Timber/internal/catalog"
	"Timber/internal/material"
)

func tables() sizing.Tables {
	return sizing.Tables{Catalog: catalog.Default(), Materials: material.Default()}
}

func TestRunKeepsOrderAndIsolatesFailures(t *testing.T) {
	var items []Item
	for span := 3.0; span <= 10.0; span += 1.0 {
		items = append(items, Item{Type: catalog.Joist, Joist: &joist.Input{SpanM: span, SpacingMM: 600, LoadKPa: 3, Grade: "GL24h", WidthMM: 90}})
	}
	items = append(items,
		Item{Type: catalog.Beam, Beam: &beam.Input{SpanM: 6, TributaryM: 3, LoadKPa: 3, Grade: "GL24h", WidthMM: 215}},
		Item{Type: catalog.Column, Column: &column.Input{BeamWidthMM: 215, FloorLoadKPa: 3, TributaryAreaM2: 18, NumFloors: 2, Grade: "GL24h"}},
		Item{Type: catalog.Joist},
		Item{Type: "rafter"},
		Item{Type: catalog.Joist, Joist: &joist.Input{SpanM: 4, SpacingMM: 400, LoadKPa: 2, WidthMM: 101}},
	)

	res, err := Run(context.Background(), Input{Items: items}, tables(), loads.DefaultLimits(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Count != len(items) || len(res.Results) != len(items) {
		t.Fatalf("expected %d results, got %d", len(items), len(res.Results))
	}
	if res.Failed != 2 {
		t.Errorf("expected 2 failures, got %d", res.Failed)
	}
	if res.Fallback != 1 {
		t.Errorf("expected 1 fallback, got %d", res.Fallback)
	}
	prev := 0
	for i := 0; i < 8; i++ {
		r := res.Results[i]
		if r.Index != i || r.Result == nil {
			t.Fatalf("slot %d: unexpected %+v", i, r)
		}
		if r.Result.Depth < prev {
			t.Errorf("joist depth decreased at slot %d", i)
		}
		prev = r.Result.Depth
	}
	if res.Results[9].Result.MemberType != catalog.Column {
		t.Errorf("expected column in slot 9, got %+v", res.Results[9])
	}
}

func TestRunMatchesSequential(t *testing.T) {
	in := joist.Input{SpanM: 7.5, SpacingMM: 450, LoadKPa: 2.8, Grade: "LVL", WidthMM: 65, FireRating: "90"}
	want, err := joist.Calculate(in, tables(), loads.DefaultLimits())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	items := make([]Item, 20)
	for i := range items {
		items[i] = Item{Type: catalog.Joist, Joist: &in}
	}
	res, err := Run(context.Background(), Input{Items: items}, tables(), loads.DefaultLimits(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, r := range res.Results {
		if *r.Result != want {
			t.Fatalf("parallel result differs from sequential")
		}
	}
}

func TestRunEmpty(t *testing.T) {
	if _, err := Run(context.Background(), Input{}, tables(), loads.DefaultLimits(), 1); err == nil {
		t.Error("expected error for no items")
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	items := []Item{{Type: catalog.Joist, Joist: &joist.Input{SpanM: 4, SpacingMM: 400, LoadKPa: 2, WidthMM: 90}}}
	if _, err := Run(ctx, Input{Items: items}, tables(), loads.DefaultLimits(), 1); err == nil {
		t.Error("expected context error")
	}
}
