package building

import (
	"fmt"
	"math"

	"Timber/internal/calc/beam"
	"Timber/internal/calc/column"
	"Timber/internal/calc/estimate"
	"Timber/internal/calc/joist"
	"Timber/internal/calc/loads"
	"Timber/internal/calc/sizing"
	"Timber/internal/catalog"
)

// Input describes a regular post-and-beam grid. Joists span JoistSpanM
// between beam lines; beams span BeamSpanM between columns.
type Input struct {
	Name            string       `json:"name,omitempty"`
	JoistSpanM      float64      `json:"joist_span_m"`
	BeamSpanM       float64      `json:"beam_span_m"`
	JoistBays       int          `json:"joist_bays"`
	BeamBays        int          `json:"beam_bays"`
	NumFloors       int          `json:"num_floors"`
	FloorHeightM    float64      `json:"floor_height_m"`
	DeadKPa         float64      `json:"dead_kpa"`
	LiveKPa         float64      `json:"live_kpa"`
	Method          loads.Method `json:"method"`
	JoistSpacingMM  float64      `json:"joist_spacing_mm"`
	Grade           string       `json:"grade"`
	FireRating      string       `json:"fire_rating"`
	LoadType        loads.Type   `json:"load_type"`
	JoistWidthMM    int          `json:"joist_width_mm"`
	BeamWidthMM     int          `json:"beam_width_mm"`
	DeflectionLimit int          `json:"deflection_limit"`
}

type Result struct {
	Name                  string           `json:"name,omitempty"`
	DesignLoadKPa         float64          `json:"design_load_kpa"`
	ServiceLoadKPa        float64          `json:"service_load_kpa"`
	ComboName             string           `json:"combo_name"`
	Joist                 sizing.Result    `json:"joist"`
	Beam                  sizing.Result    `json:"beam"`
	Column                sizing.Result    `json:"column"`
	JoistCount            int              `json:"joist_count"`
	BeamCount             int              `json:"beam_count"`
	ColumnCount           int              `json:"column_count"`
	BeamTributaryM        float64          `json:"beam_tributary_m"`
	ColumnTributaryAreaM2 float64          `json:"column_tributary_area_m2"`
	Estimate              estimate.Summary `json:"estimate"`
	UsingFallback         bool             `json:"using_fallback"`
	Passes                bool             `json:"passes"`
}

// Calculate sizes the governing joist, beam and column of the grid and prices
// the whole frame.
func Calculate(in Input, tables sizing.Tables, limits loads.Limits, pricePerM3 float64) (Result, error) {
	if !sizing.Positive(in.JoistSpanM, in.BeamSpanM, in.JoistSpacingMM, in.FloorHeightM) {
		return Result{}, fmt.Errorf("%w: spans, spacing and floor height must be positive", sizing.ErrInvalidInput)
	}
	if in.JoistBays < 1 || in.BeamBays < 1 || in.NumFloors < 1 {
		return Result{}, fmt.Errorf("%w: bay and floor counts must be at least 1", sizing.ErrInvalidInput)
	}
	combo, err := loads.Calculate(loads.Input{Method: in.Method, DeadKPa: in.DeadKPa, LiveKPa: in.LiveKPa})
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", sizing.ErrInvalidInput, err)
	}

	j, err := joist.Calculate(joist.Input{
		SpanM:           in.JoistSpanM,
		SpacingMM:       in.JoistSpacingMM,
		LoadKPa:         combo.DesignLoadKPa,
		ServiceLoadKPa:  combo.ServiceLoadKPa,
		Grade:           in.Grade,
		FireRating:      in.FireRating,
		WidthMM:         in.JoistWidthMM,
		LoadType:        in.LoadType,
		DeflectionLimit: in.DeflectionLimit,
	}, tables, limits)
	if err != nil {
		return Result{}, fmt.Errorf("joist: %w", err)
	}

	// Each beam line picks up half the joist span from either side; the
	// outer lines only from one.
	half := in.JoistSpanM / 2
	trib := half
	if in.JoistBays > 1 {
		trib = 2 * half
	}
	b, err := beam.Calculate(beam.Input{
		SpanM:           in.BeamSpanM,
		TributaryM:      trib,
		LoadKPa:         combo.DesignLoadKPa,
		ServiceLoadKPa:  combo.ServiceLoadKPa,
		Grade:           in.Grade,
		FireRating:      in.FireRating,
		WidthMM:         in.BeamWidthMM,
		LoadType:        in.LoadType,
		DeflectionLimit: in.DeflectionLimit,
	}, tables, limits)
	if err != nil {
		return Result{}, fmt.Errorf("beam: %w", err)
	}

	area := in.JoistSpanM * in.BeamSpanM
	c, err := column.Calculate(column.Input{
		BeamWidthMM:     b.Width,
		FloorLoadKPa:    combo.DesignLoadKPa,
		TributaryAreaM2: area,
		NumFloors:       in.NumFloors,
		FloorHeightM:    in.FloorHeightM,
		Grade:           in.Grade,
		FireRating:      in.FireRating,
	}, tables)
	if err != nil {
		return Result{}, fmt.Errorf("column: %w", err)
	}

	joistsPerBay := int(math.Floor(in.BeamSpanM*1000/in.JoistSpacingMM)) + 1
	res := Result{
		Name:                  in.Name,
		DesignLoadKPa:         combo.DesignLoadKPa,
		ServiceLoadKPa:        combo.ServiceLoadKPa,
		ComboName:             combo.ComboName,
		Joist:                 j,
		Beam:                  b,
		Column:                c,
		JoistCount:            joistsPerBay * in.JoistBays * in.BeamBays * in.NumFloors,
		BeamCount:             (in.JoistBays + 1) * in.BeamBays * in.NumFloors,
		ColumnCount:           (in.JoistBays + 1) * (in.BeamBays + 1),
		BeamTributaryM:        trib,
		ColumnTributaryAreaM2: area,
		UsingFallback:         j.UsingFallback || b.UsingFallback || c.UsingFallback,
		Passes:                j.Passes && b.Passes && c.Passes,
	}

	res.Estimate, err = estimate.Summarize([]estimate.Member{
		{Kind: catalog.Joist, WidthMM: j.Width, DepthMM: j.Depth, LengthM: in.JoistSpanM, Count: res.JoistCount, DensityKgM3: j.Material.Density},
		{Kind: catalog.Beam, WidthMM: b.Width, DepthMM: b.Depth, LengthM: in.BeamSpanM, Count: res.BeamCount, DensityKgM3: b.Material.Density},
		{Kind: catalog.Column, WidthMM: c.Width, DepthMM: c.Depth, LengthM: in.FloorHeightM * float64(in.NumFloors), Count: res.ColumnCount, DensityKgM3: c.Material.Density},
	}, pricePerM3)
	if err != nil {
		return Result{}, err
	}
	return res, nil
}
