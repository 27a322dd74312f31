package loads

import (
	"fmt"
	"math"
	"strings"
)

type Method string

const (
	MethodService Method = "service"
	MethodEC0     Method = "EC0"
	MethodASCE7   Method = "ASCE7"
	MethodNBCC    Method = "NBCC"
)

// Type selects the serviceability convention for the deflection limit.
type Type string

const (
	Commercial  Type = "commercial"
	Residential Type = "residential"
)

// Limits holds span/deflection denominators per load type.
type Limits struct {
	Commercial  int `json:"commercial"`
	Residential int `json:"residential"`
}

func DefaultLimits() Limits {
	return Limits{Commercial: 360, Residential: 300}
}

// Denominator resolves the deflection limit denominator. An explicit override
// wins; unknown types use the commercial value.
func (l Limits) Denominator(t Type, override int) int {
	if override > 0 {
		return override
	}
	if Type(strings.ToLower(string(t))) == Residential && l.Residential > 0 {
		return l.Residential
	}
	if l.Commercial > 0 {
		return l.Commercial
	}
	return DefaultLimits().Commercial
}

type Input struct {
	Method  Method  `json:"method"`
	DeadKPa float64 `json:"dead_kpa"`
	LiveKPa float64 `json:"live_kpa"`
}

type Result struct {
	DesignLoadKPa float64 `json:"design_load_kpa"`
	// ServiceLoadKPa is the unfactored dead plus live load used for
	// deflection.
	ServiceLoadKPa float64 `json:"service_load_kpa"`
	ComboName      string  `json:"combo_name"`
	Notes          string  `json:"notes"`
}

func Calculate(in Input) (Result, error) {
	if math.IsNaN(in.DeadKPa) || math.IsNaN(in.LiveKPa) || math.IsInf(in.DeadKPa+in.LiveKPa, 0) {
		return Result{}, fmt.Errorf("invalid area load")
	}
	if in.DeadKPa < 0 || in.LiveKPa < 0 || in.DeadKPa+in.LiveKPa <= 0 {
		return Result{}, fmt.Errorf("invalid area load")
	}
	gG, gQ, name := factors(in.Method)
	return Result{
		DesignLoadKPa:  in.DeadKPa*gG + in.LiveKPa*gQ,
		ServiceLoadKPa: in.DeadKPa + in.LiveKPa,
		ComboName:      name,
		Notes:          "One permanent and one imposed area load.",
	}, nil
}

func factors(method Method) (gG, gQ float64, name string) {
	switch Method(strings.ToUpper(string(method))) {
	case MethodEC0:
		return 1.35, 1.5, "EC0 6.10"
	case MethodASCE7:
		return 1.2, 1.6, "ASCE7 1.2D+1.6L"
	case MethodNBCC:
		return 1.25, 1.5, "NBCC 1.25D+1.5L"
	default:
		return 1.0, 1.0, "service D+L"
	}
}
