package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"Timber/internal/calc/building"
	"Timber/internal/calc/importer"
	"Timber/internal/calc/sizing"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestJoistCommand(t *testing.T) {
	out, err := run(t, "joist", "--span", "9", "--spacing", "800", "--load", "3", "--grade", "LVL", "--width", "250", "--limit", "300")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var res sizing.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if res.Depth != 335 || !res.IsDeflectionGoverning {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestJoistRequiresSpan(t *testing.T) {
	if _, err := run(t, "joist", "--load", "3"); err == nil {
		t.Error("expected missing flag error")
	}
}

func TestColumnTable(t *testing.T) {
	out, err := run(t, "column", "--beam-width", "335", "--load", "3", "--area", "42", "--floors", "3", "--fire", "60", "-f", "table")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "440 x 560 mm") {
		t.Errorf("unexpected table:\n%s", out)
	}
}

func TestBuildingFromFile(t *testing.T) {
	in := building.Input{
		JoistSpanM: 5, BeamSpanM: 6, JoistBays: 2, BeamBays: 2, NumFloors: 2,
		FloorHeightM: 3, DeadKPa: 1, LiveKPa: 2, JoistSpacingMM: 600,
	}
	b, _ := json.Marshal(in)
	path := filepath.Join(t.TempDir(), "grid.json")
	if err := os.WriteFile(path, b, 0o600); err != nil {
		t.Fatal(err)
	}
	out, err := run(t, "building", "--file", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var res building.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatal(err)
	}
	if res.ColumnCount != 9 || res.Estimate.TotalVolumeM3 <= 0 {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestBatchWorkbook(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"type", "span_m", "spacing", "load_kpa", "grade", "fire", "width_mm"},
		{"joist", 9, 800, 3, "LVL", "", 250},
		{"girder", 4, 1, 1},
	}
	for i, row := range rows {
		cellName, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cellName, &row); err != nil {
			t.Fatal(err)
		}
	}
	path := filepath.Join(t.TempDir(), "members.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "batch", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var res importer.ImportResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatal(err)
	}
	if res.Count != 1 || len(res.Skipped) != 1 {
		t.Errorf("unexpected result %+v", res)
	}
	if _, err := run(t, "batch", filepath.Join(t.TempDir(), "x.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGradesAndFormat(t *testing.T) {
	out, err := run(t, "grades", "-f", "table")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "GL24h") || !strings.Contains(out, "LVL") {
		t.Errorf("unexpected grades:\n%s", out)
	}
	if _, err := run(t, "grades", "-f", "xml"); err == nil {
		t.Error("expected unknown format error")
	}
}
