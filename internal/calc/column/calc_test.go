package column

import (
	"errors"
	"math"
	"testing"

	"Timber/internal/calc/sizing"
	"Timber/internal/catalog"
	"Timber/internal/material"
)

func tables() sizing.Tables {
	return sizing.Tables{Catalog: catalog.Default(), Materials: material.Default()}
}

func TestCalculateThreeFloorsSixtyMinutes(t *testing.T) {
	res, err := Calculate(Input{
		BeamWidthMM:     335,
		FloorLoadKPa:    3.0,
		TributaryAreaM2: 42.0,
		NumFloors:       3,
		FloorHeightM:    3.2,
		Grade:           "GL24h",
		FireRating:      "60/60/60",
	}, tables())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.TotalLoad != 378 {
		t.Errorf("expected 378 kN, got %v", res.TotalLoad)
	}
	if res.FireAdjustedWidth != 419 || res.FireAdjustedDepth != 519 {
		t.Errorf("expected 419x519, got %.1fx%.1f", res.FireAdjustedWidth, res.FireAdjustedDepth)
	}

	// smallest stocked column at least 419 x 519
	cat := catalog.Default()
	wantW := catalog.NearestAtLeast(cat.Widths(catalog.Column), 419)
	wantD := catalog.NearestAtLeast(cat.AvailableDepths(catalog.Column, wantW), 519)
	if res.Width != wantW || res.Depth != wantD {
		t.Errorf("expected %dx%d, got %dx%d", wantW, wantD, res.Width, res.Depth)
	}
	if res.Width != 440 || res.Depth != 560 {
		t.Errorf("expected 440x560 from the default catalog, got %dx%d", res.Width, res.Depth)
	}
	if !res.Passes || res.UsingFallback {
		t.Errorf("unexpected flags %+v", res)
	}
}

func TestCalculateSingleFloorIsSquare(t *testing.T) {
	res, err := Calculate(Input{BeamWidthMM: 280, FloorLoadKPa: 3, TributaryAreaM2: 20, NumFloors: 1, Grade: "GL24h"}, tables())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Width != 280 || res.Depth != 280 {
		t.Errorf("expected 280x280, got %dx%d", res.Width, res.Depth)
	}
}

func TestCalculateLoadDoesNotDriveDepth(t *testing.T) {
	light, _ := Calculate(Input{BeamWidthMM: 250, FloorLoadKPa: 1, TributaryAreaM2: 10, NumFloors: 2, Grade: "GL24h"}, tables())
	heavy, _ := Calculate(Input{BeamWidthMM: 250, FloorLoadKPa: 10, TributaryAreaM2: 80, NumFloors: 2, Grade: "GL24h"}, tables())
	if light.Depth != heavy.Depth || light.Width != heavy.Width {
		t.Errorf("expected identical sizes, got %dx%d and %dx%d", light.Width, light.Depth, heavy.Width, heavy.Depth)
	}
	if heavy.TotalLoad <= light.TotalLoad {
		t.Error("expected heavier total load to be reported")
	}
}

func TestCalculateWithoutCatalogFallsBack(t *testing.T) {
	res, err := Calculate(Input{BeamWidthMM: 335, FloorLoadKPa: 3, TributaryAreaM2: 42, NumFloors: 3, Grade: "GL24h", FireRating: "60"},
		sizing.Tables{Materials: material.Default()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.UsingFallback || res.SnapStatus != sizing.Unsnapped {
		t.Errorf("expected unsnapped fallback, got %+v", res)
	}
	if res.Width != 419 || res.Depth != 519 {
		t.Errorf("expected raw 419x519, got %dx%d", res.Width, res.Depth)
	}
}

func TestCalculateInvalidInput(t *testing.T) {
	bad := []Input{
		{BeamWidthMM: 0, FloorLoadKPa: 3, TributaryAreaM2: 10, NumFloors: 1},
		{BeamWidthMM: 250, FloorLoadKPa: 3, TributaryAreaM2: 10, NumFloors: 0},
		{BeamWidthMM: 250, FloorLoadKPa: 0, TributaryAreaM2: 10, NumFloors: 1},
		{BeamWidthMM: 250, FloorLoadKPa: 3, TributaryAreaM2: 10, NumFloors: 1, FireRating: "bogus"},
	}
	for i, in := range bad {
		if _, err := Calculate(in, tables()); !errors.Is(err, sizing.ErrInvalidInput) {
			t.Errorf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
}

func TestCalculateRejectsOutOfRangeInput(t *testing.T) {
	bad := map[string]Input{
		"floor overflow":  {BeamWidthMM: 335, FloorLoadKPa: 3, TributaryAreaM2: 42, NumFloors: 184467440737095517},
		"too many floors": {BeamWidthMM: 335, FloorLoadKPa: 3, TributaryAreaM2: 42, NumFloors: MaxFloors + 1},
		"nan height":      {BeamWidthMM: 335, FloorLoadKPa: 3, TributaryAreaM2: 42, NumFloors: 2, FloorHeightM: math.NaN()},
		"inf load":        {BeamWidthMM: 335, FloorLoadKPa: math.Inf(1), TributaryAreaM2: 42, NumFloors: 2},
		"inf area":        {BeamWidthMM: 335, FloorLoadKPa: 3, TributaryAreaM2: math.Inf(1), NumFloors: 2},
		"load overflow":   {BeamWidthMM: 335, FloorLoadKPa: 1e200, TributaryAreaM2: 1e200, NumFloors: 2},
		"huge width":      {BeamWidthMM: math.MaxInt32, FloorLoadKPa: 3, TributaryAreaM2: 42, NumFloors: 1},
	}
	for name, in := range bad {
		if _, err := Calculate(in, tables()); !errors.Is(err, sizing.ErrInvalidInput) {
			t.Errorf("%s: expected ErrInvalidInput, got %v", name, err)
		}
	}

	res, err := Calculate(Input{BeamWidthMM: 200, FloorLoadKPa: 3, TributaryAreaM2: 42, NumFloors: MaxFloors}, sizing.Tables{Materials: material.Default()})
	if err != nil {
		t.Fatalf("tallest stack: unexpected error: %v", err)
	}
	if res.Depth != 200+(MaxFloors-1)*DepthStepMM {
		t.Errorf("unexpected depth %d", res.Depth)
	}
}
