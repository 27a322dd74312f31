package estimate

import (
	"fmt"

	"Timber/internal/catalog"
)

const (
	// CarbonFraction is the share of dry timber mass that is carbon.
	CarbonFraction = 0.5
	co2PerCarbon   = 44.0 / 12.0
)

type Member struct {
	Kind        catalog.MemberType `json:"kind"`
	WidthMM     int                `json:"width_mm"`
	DepthMM     int                `json:"depth_mm"`
	LengthM     float64            `json:"length_m"`
	Count       int                `json:"count"`
	DensityKgM3 float64            `json:"density_kg_m3"`
}

type Line struct {
	Member
	VolumeM3     float64 `json:"volume_m3"`
	MassKg       float64 `json:"mass_kg"`
	Cost         float64 `json:"cost"`
	CarbonKgCO2e float64 `json:"carbon_kg_co2e"`
}

type Summary struct {
	Lines             []Line  `json:"lines"`
	PricePerM3        float64 `json:"price_per_m3"`
	TotalVolumeM3     float64 `json:"total_volume_m3"`
	TotalMassKg       float64 `json:"total_mass_kg"`
	TotalCost         float64 `json:"total_cost"`
	TotalCarbonKgCO2e float64 `json:"total_carbon_kg_co2e"`
}

func Calculate(m Member, pricePerM3 float64) (Line, error) {
	if m.WidthMM <= 0 || m.DepthMM <= 0 || m.LengthM < 0 || m.Count < 0 || m.DensityKgM3 < 0 || pricePerM3 < 0 {
		return Line{}, fmt.Errorf("invalid member %s %dx%d", m.Kind, m.WidthMM, m.DepthMM)
	}
	volume := float64(m.WidthMM) / 1000.0 * float64(m.DepthMM) / 1000.0 * m.LengthM * float64(m.Count)
	mass := volume * m.DensityKgM3
	return Line{
		Member:       m,
		VolumeM3:     volume,
		MassKg:       mass,
		Cost:         volume * pricePerM3,
		CarbonKgCO2e: mass * CarbonFraction * co2PerCarbon,
	}, nil
}

func Summarize(members []Member, pricePerM3 float64) (Summary, error) {
	s := Summary{PricePerM3: pricePerM3, Lines: make([]Line, 0, len(members))}
	for _, m := range members {
		l, err := Calculate(m, pricePerM3)
		if err != nil {
			return Summary{}, err
		}
		s.Lines = append(s.Lines, l)
		s.TotalVolumeM3 += l.VolumeM3
		s.TotalMassKg += l.MassKg
		s.TotalCost += l.Cost
		s.TotalCarbonKgCO2e += l.CarbonKgCO2e
	}
	return s, nil
}
