package beam

import (
	"fmt"

	"Timber/internal/calc/fire"
	"Timber/internal/calc/loads"
	"Timber/internal/calc/sizing"
	"Timber/internal/catalog"
)

type Input struct {
	SpanM           float64    `json:"span_m"`
	TributaryM      float64    `json:"tributary_width_m"`
	LoadKPa         float64    `json:"load_kpa"`
	ServiceLoadKPa  float64    `json:"service_load_kpa,omitempty"`
	Grade           string     `json:"grade"`
	FireRating      string     `json:"fire_rating"`
	WidthMM         int        `json:"width_mm"`
	LoadType        loads.Type `json:"load_type"`
	DeflectionLimit int        `json:"deflection_limit"`
	SafetyFactor    float64    `json:"safety_factor"`
}

// Calculate sizes a beam carrying joist reactions over its tributary width.
func Calculate(in Input, tables sizing.Tables, limits loads.Limits) (sizing.Result, error) {
	rating, err := fire.Parse(in.FireRating)
	if err != nil {
		return sizing.Result{}, fmt.Errorf("%w: %v", sizing.ErrInvalidInput, err)
	}
	res, err := sizing.Flexural(sizing.FlexuralSpec{
		MemberType:      catalog.Beam,
		SpanM:           in.SpanM,
		TributaryM:      in.TributaryM,
		LoadKPa:         in.LoadKPa,
		ServiceLoadKPa:  in.ServiceLoadKPa,
		Grade:           in.Grade,
		Fire:            rating,
		WidthMM:         in.WidthMM,
		DeflectionLimit: limits.Denominator(in.LoadType, in.DeflectionLimit),
		SafetyFactor:    in.SafetyFactor,
	}, tables)
	if err != nil {
		return sizing.Result{}, err
	}
	res.Notes = fmt.Sprintf("Beam with %.2fm tributary width, simply supported under uniform load.", in.TributaryM)
	return res, nil
}
