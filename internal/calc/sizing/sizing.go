// Package sizing holds the flexural sizing procedure shared by joists and
// beams, and the catalog snapping used by every member type.
//
// All functions are pure: the result depends only on the arguments and the
// read-only tables passed in, so calls may run concurrently.
package sizing

import (
	"errors"
	"fmt"
	"math"

	"Timber/internal/calc/fire"
	"Timber/internal/catalog"
	"Timber/internal/material"
)

var ErrInvalidInput = errors.New("invalid input")

// MinPracticalDepthMM is the smallest depth a flexural member is sized to
// before fire allowance, whatever the span.
const MinPracticalDepthMM = 140.0

type DepthSource interface {
	AvailableDepths(t catalog.MemberType, width int) []int
	Widths(t catalog.MemberType) []int
}

type PropertySource interface {
	Lookup(grade string) (material.Properties, bool)
}

// Tables bundles the two read-only lookups a sizer consumes.
type Tables struct {
	Catalog   DepthSource
	Materials PropertySource
}

func (t Tables) depths(mt catalog.MemberType, width int) []int {
	if t.Catalog == nil {
		return nil
	}
	return t.Catalog.AvailableDepths(mt, width)
}

func (t Tables) widths(mt catalog.MemberType) []int {
	if t.Catalog == nil {
		return nil
	}
	return t.Catalog.Widths(mt)
}

// Material resolves a grade, reporting whether the default was substituted.
func (t Tables) Material(grade string) (material.Properties, bool, error) {
	if t.Materials == nil {
		return material.Properties{}, false, fmt.Errorf("%w: no material table", ErrInvalidInput)
	}
	p, ok := t.Materials.Lookup(grade)
	if p.ModulusOfElasticity <= 0 || p.BendingStrength <= 0 {
		return material.Properties{}, false, fmt.Errorf("%w: grade %s has no stiffness or strength", ErrInvalidInput, p.Grade)
	}
	return p, !ok, nil
}

// ResolveWidth returns width when positive, otherwise the narrowest stocked
// width for the member type.
func (t Tables) ResolveWidth(mt catalog.MemberType, width int) (int, error) {
	if width > 0 {
		return width, nil
	}
	ws := t.widths(mt)
	if len(ws) == 0 {
		return 0, fmt.Errorf("%w: width required, catalog has no %s widths", ErrInvalidInput, mt)
	}
	return ws[0], nil
}

// FlexuralSpec describes a simply supported member under a uniform strip load.
type FlexuralSpec struct {
	MemberType      catalog.MemberType
	SpanM           float64
	TributaryM      float64
	LoadKPa         float64
	ServiceLoadKPa  float64 // unfactored load for deflection, zero means LoadKPa
	Grade           string
	Fire            fire.Rating
	WidthMM         int
	DeflectionLimit int
	SafetyFactor    float64
}

type Result struct {
	MemberType              catalog.MemberType  `json:"member_type"`
	Width                   int                 `json:"width_mm"`
	Depth                   int                 `json:"depth_mm"`
	BendingGovernedDepth    float64             `json:"bending_governed_depth_mm"`
	DeflectionGovernedDepth float64             `json:"deflection_governed_depth_mm"`
	FireAllowance           float64             `json:"fire_allowance_mm"`
	FireAdjustedWidth       float64             `json:"fire_adjusted_width_mm,omitempty"`
	FireAdjustedDepth       float64             `json:"fire_adjusted_depth_mm"`
	IsDeflectionGoverning   bool                `json:"is_deflection_governing"`
	FinalDeflection         float64             `json:"final_deflection_mm"`
	AllowableDeflection     float64             `json:"allowable_deflection_mm"`
	DeflectionRatio         float64             `json:"deflection_ratio"`
	BendingStress           float64             `json:"bending_stress_mpa"`
	LineLoad                float64             `json:"line_load_kn_m,omitempty"`
	MaxMoment               float64             `json:"max_moment_knm,omitempty"`
	TotalLoad               float64             `json:"total_load_kn,omitempty"`
	SnapStatus              SnapStatus          `json:"snap_status"`
	UsingFallback           bool                `json:"using_fallback"`
	FallbackReason          string              `json:"fallback_reason,omitempty"`
	ExceedsCatalog          bool                `json:"exceeds_catalog"`
	Passes                  bool                `json:"passes"`
	Material                material.Properties `json:"material"`
	MaterialFallback        bool                `json:"material_fallback"`
	Notes                   string              `json:"notes"`
}

// Flexural sizes a joist or beam: bending and direct deflection depths are
// both computed for every span and the larger governs.
func Flexural(spec FlexuralSpec, tables Tables) (Result, error) {
	if !Positive(spec.SpanM, spec.TributaryM, spec.LoadKPa) {
		return Result{}, fmt.Errorf("%w: span, load and spacing must be positive", ErrInvalidInput)
	}
	serviceKPa := spec.ServiceLoadKPa
	if serviceKPa == 0 {
		serviceKPa = spec.LoadKPa
	}
	if !Positive(serviceKPa) {
		return Result{}, fmt.Errorf("%w: service load must be positive", ErrInvalidInput)
	}
	if spec.DeflectionLimit <= 0 {
		return Result{}, fmt.Errorf("%w: deflection limit must be positive", ErrInvalidInput)
	}
	sf := spec.SafetyFactor
	if sf == 0 {
		sf = 1
	}
	if sf < 1 || !Positive(sf) {
		return Result{}, fmt.Errorf("%w: safety factor must be at least 1", ErrInvalidInput)
	}

	width, err := tables.ResolveWidth(spec.MemberType, spec.WidthMM)
	if err != nil {
		return Result{}, err
	}
	props, matFallback, err := tables.Material(spec.Grade)
	if err != nil {
		return Result{}, err
	}

	b := float64(width)
	fb := props.BendingStrength / sf
	E := props.ModulusOfElasticity
	Lmm := spec.SpanM * 1000.0
	w := spec.LoadKPa * spec.TributaryM // kN/m == N/mm
	ws := serviceKPa * spec.TributaryM

	// M = w L^2 / 8
	M := w * spec.SpanM * spec.SpanM / 8.0
	S := M * 1e6 / fb
	dBending := math.Sqrt(6.0 * S / b)

	// 5 w L^4 / (384 E I) = L/n with I = b d^3 / 12, solved for d
	allowable := Lmm / float64(spec.DeflectionLimit)
	dDeflection := math.Cbrt(12.0 * 5.0 * ws * math.Pow(Lmm, 4) / (384.0 * E * allowable * b))

	required := math.Max(dBending, dDeflection)
	allowance := spec.Fire.Allowance(props.CharringRate)
	fireAdjusted := math.Max(MinPracticalDepthMM, math.Ceil(required)) + allowance
	if !Finite(M, dBending, dDeflection, fireAdjusted) {
		return Result{}, fmt.Errorf("%w: span or load too large to size", ErrInvalidInput)
	}

	sel, err := Snap(tables.depths(spec.MemberType, width), fireAdjusted)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		MemberType:              spec.MemberType,
		Width:                   width,
		Depth:                   sel.Depth,
		BendingGovernedDepth:    dBending,
		DeflectionGovernedDepth: dDeflection,
		FireAllowance:           allowance,
		FireAdjustedDepth:       fireAdjusted,
		IsDeflectionGoverning:   dDeflection > dBending,
		AllowableDeflection:     allowable,
		LineLoad:                w,
		MaxMoment:               M,
		Material:                props,
		MaterialFallback:        matFallback,
		Notes:                   "Simply supported member under uniform load.",
	}
	sel.Apply(&res)

	d := float64(sel.Depth)
	I := b * d * d * d / 12.0
	res.FinalDeflection = 5.0 * ws * math.Pow(Lmm, 4) / (384.0 * E * I)
	res.DeflectionRatio = res.FinalDeflection / allowable
	res.BendingStress = M * 1e6 / (b * d * d / 6.0)
	res.Passes = res.FinalDeflection <= allowable && res.BendingStress <= fb
	return res, nil
}

// Positive reports whether every value is finite and greater than zero.
func Positive(vs ...float64) bool {
	for _, v := range vs {
		if !Finite(v) || v <= 0 {
			return false
		}
	}
	return true
}

// Finite reports whether no value is NaN or infinite.
func Finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
