package building

import (
	"context"
	"errors"
	"math"
	"testing"

	"Timber/internal/calc"
	"Timber/internal/calc/loads"
	"Timber/internal/calc/sizing"
	"Timber/internal/catalog"
	"Timber/internal/material"
)

func tables() sizing.Tables {
	return sizing.Tables{Catalog: catalog.Default(), Materials: material.Default()}
}

func office() Input {
	return Input{
		Name:           "office",
		JoistSpanM:     6,
		BeamSpanM:      7,
		JoistBays:      3,
		BeamBays:       4,
		NumFloors:      3,
		FloorHeightM:   3.5,
		DeadKPa:        1.0,
		LiveKPa:        2.5,
		Method:         loads.MethodService,
		JoistSpacingMM: 600,
		Grade:          "GL28h",
		FireRating:     "60/60/60",
		LoadType:       loads.Commercial,
		JoistWidthMM:   90,
		BeamWidthMM:    250,
	}
}

func TestCalculateOffice(t *testing.T) {
	res, err := Calculate(office(), tables(), loads.DefaultLimits(), 1500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(res.DesignLoadKPa-3.5) > 1e-9 {
		t.Errorf("expected 3.5 kPa, got %v", res.DesignLoadKPa)
	}
	if res.BeamTributaryM != 6 {
		t.Errorf("interior beam should carry 6m, got %v", res.BeamTributaryM)
	}
	if res.ColumnTributaryAreaM2 != 42 {
		t.Errorf("expected 42 m2, got %v", res.ColumnTributaryAreaM2)
	}
	if res.Column.Width < res.Beam.Width {
		t.Errorf("column %d narrower than beam %d", res.Column.Width, res.Beam.Width)
	}
	// 7000/600 = 11 gaps -> 12 joists per bay
	if res.JoistCount != 12*3*4*3 {
		t.Errorf("unexpected joist count %d", res.JoistCount)
	}
	if res.BeamCount != 4*4*3 || res.ColumnCount != 4*5 {
		t.Errorf("unexpected beam/column count %d/%d", res.BeamCount, res.ColumnCount)
	}
	if len(res.Estimate.Lines) != 3 || res.Estimate.TotalCost <= 0 || res.Estimate.TotalCarbonKgCO2e <= 0 {
		t.Errorf("unexpected estimate %+v", res.Estimate)
	}
	col := res.Estimate.Lines[2]
	if col.LengthM != 10.5 {
		t.Errorf("expected full column height 10.5m, got %v", col.LengthM)
	}
	if res.UsingFallback {
		t.Error("default catalog should cover the office grid")
	}
}

func TestCalculateSingleBayUsesHalfSpan(t *testing.T) {
	in := office()
	in.JoistBays = 1
	res, err := Calculate(in, tables(), loads.DefaultLimits(), 1500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.BeamTributaryM != 3 {
		t.Errorf("expected 3m, got %v", res.BeamTributaryM)
	}
}

func TestCalculateFallbackPropagates(t *testing.T) {
	in := office()
	in.JoistWidthMM = 77
	res, err := Calculate(in, tables(), loads.DefaultLimits(), 1500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.UsingFallback || !res.Joist.UsingFallback {
		t.Error("expected fallback flag from the joist")
	}
}

func TestCalculateInvalid(t *testing.T) {
	in := office()
	in.BeamBays = 0
	if _, err := Calculate(in, tables(), loads.DefaultLimits(), 1500); !errors.Is(err, sizing.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
	in = office()
	in.DeadKPa, in.LiveKPa = 0, 0
	if _, err := Calculate(in, tables(), loads.DefaultLimits(), 1500); !errors.Is(err, sizing.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRunWithoutCache(t *testing.T) {
	env := &calc.Env{Tables: tables(), Limits: loads.DefaultLimits(), PricePerM3: 1500}
	a, err := Run(context.Background(), env, office())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, _ := Run(context.Background(), env, office())
	if a.Estimate.TotalCost != b.Estimate.TotalCost || a.Joist != b.Joist {
		t.Error("expected identical results")
	}
}

func TestCalculateDeflectionUsesServiceLoad(t *testing.T) {
	in := office()
	in.Method = loads.MethodEC0
	res, err := Calculate(in, tables(), loads.DefaultLimits(), 1500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(res.ServiceLoadKPa-3.5) > 1e-9 || res.DesignLoadKPa <= res.ServiceLoadKPa {
		t.Fatalf("unexpected loads %v / %v", res.DesignLoadKPa, res.ServiceLoadKPa)
	}

	service, err := Calculate(office(), tables(), loads.DefaultLimits(), 1500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, m := range []struct {
		name          string
		factored, svc sizing.Result
	}{{"joist", res.Joist, service.Joist}, {"beam", res.Beam, service.Beam}} {
		if math.Abs(m.factored.DeflectionGovernedDepth-m.svc.DeflectionGovernedDepth) > 1e-9 {
			t.Errorf("%s: deflection depth changed with load factors: %.3f vs %.3f",
				m.name, m.factored.DeflectionGovernedDepth, m.svc.DeflectionGovernedDepth)
		}
		if m.factored.BendingGovernedDepth <= m.svc.BendingGovernedDepth {
			t.Errorf("%s: bending depth should grow with load factors", m.name)
		}
	}
}

func TestCalculateRejectsNonFiniteGrid(t *testing.T) {
	in := office()
	in.JoistSpanM = math.Inf(1)
	if _, err := Calculate(in, tables(), loads.DefaultLimits(), 1500); !errors.Is(err, sizing.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
	in = office()
	in.NumFloors = 1 << 40
	if _, err := Calculate(in, tables(), loads.DefaultLimits(), 1500); !errors.Is(err, sizing.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for an absurd floor count, got %v", err)
	}
}
