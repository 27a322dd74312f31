package importer

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"Timber/internal/calc"
	"Timber/internal/calc/batch"
	"Timber/internal/calc/beam"
	"Timber/internal/calc/column"
	"Timber/internal/calc/joist"
	"Timber/internal/calc/sizing"
	"Timber/internal/catalog"
)

const MaxUploadSize = 10 << 20

type Handler struct {
	Env *calc.Env
}

type SkippedRow struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

type ImportResult struct {
	batch.Result
	Skipped []SkippedRow `json:"skipped,omitempty"`
}

func (h *Handler) Members(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	items, skipped, err := ReadItems(file)
	if err != nil {
		http.Error(w, "Invalid file", http.StatusBadRequest)
		return
	}
	if len(items) == 0 {
		http.Error(w, "Empty sheet", http.StatusBadRequest)
		return
	}

	res, err := batch.Run(r.Context(), batch.Input{Items: items}, h.Env.Tables, h.Env.Limits, 0)
	if err != nil {
		http.Error(w, "Calculation error", http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ImportResult{Result: res, Skipped: skipped})
}

// ReadItems parses the first sheet of a workbook. The header row is skipped;
// rows that cannot be parsed are reported instead of failing the upload.
func ReadItems(r io.Reader) ([]batch.Item, []SkippedRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, nil, err
	}
	var items []batch.Item
	var skipped []SkippedRow
	for i := 1; i < len(rows); i++ {
		item, err := parseRow(rows[i])
		if err != nil {
			skipped = append(skipped, SkippedRow{Row: i + 1, Reason: err.Error()})
			continue
		}
		items = append(items, item)
	}
	return items, skipped, nil
}

func parseRow(row []string) (batch.Item, error) {
	// expected: type, span_m, spacing_mm|tributary_m|area_m2, load_kpa, grade, fire, width_mm, floors, floor_height_m
	if len(row) < 4 {
		return batch.Item{}, fmt.Errorf("bad row")
	}
	t, err := catalog.ParseMemberType(row[0])
	if err != nil {
		return batch.Item{}, err
	}
	span, err := toFloat(cell(row, 1))
	if err != nil && t != catalog.Column {
		return batch.Item{}, fmt.Errorf("span: %w", err)
	}
	strip, err := toFloat(cell(row, 2))
	if err != nil {
		return batch.Item{}, fmt.Errorf("spacing: %w", err)
	}
	load, err := toFloat(cell(row, 3))
	if err != nil {
		return batch.Item{}, fmt.Errorf("load: %w", err)
	}
	grade := cell(row, 4)
	rating := cell(row, 5)
	width := 0
	if v := cell(row, 6); v != "" {
		if width, err = strconv.Atoi(v); err != nil {
			return batch.Item{}, fmt.Errorf("width: %w", err)
		}
	}

	switch t {
	case catalog.Joist:
		return batch.Item{Type: t, Joist: &joist.Input{SpanM: span, SpacingMM: strip, LoadKPa: load, Grade: grade, FireRating: rating, WidthMM: width}}, nil
	case catalog.Beam:
		return batch.Item{Type: t, Beam: &beam.Input{SpanM: span, TributaryM: strip, LoadKPa: load, Grade: grade, FireRating: rating, WidthMM: width}}, nil
	}
	floors := 1
	if v := cell(row, 7); v != "" {
		if floors, err = strconv.Atoi(v); err != nil {
			return batch.Item{}, fmt.Errorf("floors: %w", err)
		}
	}
	height := 0.0
	if v := cell(row, 8); v != "" {
		if height, err = toFloat(v); err != nil {
			return batch.Item{}, fmt.Errorf("floor height: %w", err)
		}
	}
	return batch.Item{Type: t, Column: &column.Input{
		BeamWidthMM:     width,
		FloorLoadKPa:    load,
		TributaryAreaM2: strip,
		NumFloors:       floors,
		FloorHeightM:    height,
		Grade:           grade,
		FireRating:      rating,
	}}, nil
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func toFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, err
	}
	if !sizing.Finite(v) {
		return 0, fmt.Errorf("%q is not a finite number", s)
	}
	return v, nil
}
