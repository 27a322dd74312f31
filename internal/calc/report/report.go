package report

import (
	"fmt"
	"time"

	"github.com/phpdave11/gofpdf"

	"Timber/internal/calc/building"
	"Timber/internal/calc/sizing"
)

// Render lays out a one page A4 sizing summary.
func Render(in Input, res building.Result, now time.Time) *gofpdf.Fpdf {
	if in.Title == "" {
		in.Title = "Timber Frame Sizing Report"
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, in.Title)
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Project: %s", in.Project))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Author: %s", in.Author))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", now.Format("2006-01-02")))
	pdf.Ln(10)

	b := in.Building
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Design basis")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	for _, line := range []string{
		fmt.Sprintf("Grid: %d x %.2fm joist bays, %d x %.2fm beam bays, %d floors at %.2fm",
			b.JoistBays, b.JoistSpanM, b.BeamBays, b.BeamSpanM, b.NumFloors, b.FloorHeightM),
		fmt.Sprintf("Design load: %.2f kPa (%s)", res.DesignLoadKPa, res.ComboName),
		fmt.Sprintf("Grade: %s   Fire rating: %s   Joist spacing: %.0fmm", res.Joist.Material.Grade, fireLabel(b.FireRating), b.JoistSpacingMM),
	} {
		pdf.Cell(0, 5, line)
		pdf.Ln(5)
	}
	pdf.Ln(4)

	header := []string{"Member", "Size (mm)", "Bending d", "Deflection d", "Fire adj. d", "Governs", "Status"}
	widths := []float64{22, 28, 24, 26, 24, 24, 42}
	pdf.SetFont("Helvetica", "B", 9)
	for i, h := range header {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 9)
	for _, m := range []struct {
		name string
		r    sizing.Result
	}{{"Joist", res.Joist}, {"Beam", res.Beam}, {"Column", res.Column}} {
		cells := []string{
			m.name,
			fmt.Sprintf("%d x %d", m.r.Width, m.r.Depth),
			dim(m.r.BendingGovernedDepth),
			dim(m.r.DeflectionGovernedDepth),
			dim(m.r.FireAdjustedDepth),
			governs(m.r),
			status(m.r),
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 6, c, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Quantities")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	for _, l := range res.Estimate.Lines {
		pdf.Cell(0, 5, fmt.Sprintf("%-7s %4d pcs  %dx%d  %.2f m3  %.0f kg  %.0f kg CO2e",
			l.Kind, l.Count, l.WidthMM, l.DepthMM, l.VolumeM3, l.MassKg, l.CarbonKgCO2e))
		pdf.Ln(5)
	}
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Cell(0, 5, fmt.Sprintf("Total: %.2f m3, cost %.0f at %.0f/m3, stored carbon %.0f kg CO2e",
		res.Estimate.TotalVolumeM3, res.Estimate.TotalCost, res.Estimate.PricePerM3, res.Estimate.TotalCarbonKgCO2e))
	pdf.Ln(8)

	if in.Notes != "" {
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, in.Notes, "", "L", false)
	}
	pdf.SetFont("Helvetica", "I", 8)
	pdf.MultiCell(0, 4, "Preliminary sizing only. Members flagged as fallback or failing must be checked before use.", "", "L", false)
	return pdf
}

func dim(v float64) string {
	if v <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.0f", v)
}

func governs(r sizing.Result) string {
	switch {
	case r.BendingGovernedDepth == 0 && r.DeflectionGovernedDepth == 0:
		return "floors"
	case r.IsDeflectionGoverning:
		return "deflection"
	}
	return "bending"
}

func status(r sizing.Result) string {
	switch {
	case r.UsingFallback:
		return "fallback (not stocked)"
	case r.ExceedsCatalog:
		return "exceeds catalog"
	case !r.Passes:
		return "check"
	}
	return "ok"
}

func fireLabel(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
