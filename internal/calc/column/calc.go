package column

import (
	"fmt"

	"Timber/internal/calc/fire"
	"Timber/internal/calc/sizing"
	"Timber/internal/catalog"
)

// DepthStepMM is added to the column depth for every floor above the first.
const DepthStepMM = 50

// MaxFloors is the tallest stack a column is sized for.
const MaxFloors = 100

type Input struct {
	BeamWidthMM     int     `json:"beam_width_mm"`
	FloorLoadKPa    float64 `json:"floor_load_kpa"`
	TributaryAreaM2 float64 `json:"tributary_area_m2"`
	NumFloors       int     `json:"num_floors"`
	FloorHeightM    float64 `json:"floor_height_m"`
	Grade           string  `json:"grade"`
	FireRating      string  `json:"fire_rating"`
}

// Calculate sizes a column from the beam it supports and the floors above it.
// The accumulated axial load is reported but does not drive the depth.
func Calculate(in Input, tables sizing.Tables) (sizing.Result, error) {
	if in.BeamWidthMM <= 0 || float64(in.BeamWidthMM) > sizing.MaxDimensionMM {
		return sizing.Result{}, fmt.Errorf("%w: beam width out of range", sizing.ErrInvalidInput)
	}
	if in.NumFloors < 1 || in.NumFloors > MaxFloors {
		return sizing.Result{}, fmt.Errorf("%w: floor count must be between 1 and %d", sizing.ErrInvalidInput, MaxFloors)
	}
	if !sizing.Finite(in.FloorHeightM) || in.FloorHeightM < 0 {
		return sizing.Result{}, fmt.Errorf("%w: floor height must be finite and not negative", sizing.ErrInvalidInput)
	}
	if !sizing.Positive(in.FloorLoadKPa, in.TributaryAreaM2) {
		return sizing.Result{}, fmt.Errorf("%w: floor load and tributary area must be positive", sizing.ErrInvalidInput)
	}
	rating, err := fire.Parse(in.FireRating)
	if err != nil {
		return sizing.Result{}, fmt.Errorf("%w: %v", sizing.ErrInvalidInput, err)
	}
	props, matFallback, err := tables.Material(in.Grade)
	if err != nil {
		return sizing.Result{}, err
	}

	width := in.BeamWidthMM
	totalLoad := in.FloorLoadKPa * in.TributaryAreaM2 * float64(in.NumFloors)

	depth := width + (in.NumFloors-1)*DepthStepMM
	if depth < width {
		depth = width
	}

	allowance := rating.Allowance(props.CharringRate)
	fireWidth := float64(width) + 2*allowance
	fireDepth := float64(depth) + 2*allowance

	var widths, depths []int
	if tables.Catalog != nil {
		widths = tables.Catalog.Widths(catalog.Column)
	}
	if !sizing.Finite(totalLoad) {
		return sizing.Result{}, fmt.Errorf("%w: floor load and area too large", sizing.ErrInvalidInput)
	}
	sw, err := sizing.Snap(widths, fireWidth)
	if err != nil {
		return sizing.Result{}, err
	}
	if tables.Catalog != nil && sw.Status == sizing.Snapped {
		depths = tables.Catalog.AvailableDepths(catalog.Column, sw.Depth)
	}
	sd, err := sizing.Snap(depths, fireDepth)
	if err != nil {
		return sizing.Result{}, err
	}

	res := sizing.Result{
		MemberType:        catalog.Column,
		Width:             sw.Depth,
		Depth:             sd.Depth,
		FireAllowance:     allowance,
		FireAdjustedWidth: fireWidth,
		FireAdjustedDepth: fireDepth,
		TotalLoad:         totalLoad,
		Material:          props,
		MaterialFallback:  matFallback,
		Notes: fmt.Sprintf("Column stepped %dmm per floor above the first over %d floors; axial load is reported, not checked.",
			DepthStepMM, in.NumFloors),
	}
	sw.Apply(&res)
	sd.Apply(&res)
	res.Passes = float64(res.Width) >= fireWidth && float64(res.Depth) >= fireDepth
	return res, nil
}
