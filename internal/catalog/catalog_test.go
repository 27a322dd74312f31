package catalog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

var standardDepths = []int{200, 270, 335, 410, 480, 550, 620}

func TestNearestAtLeast(t *testing.T) {
	cases := []struct {
		target float64
		want   int
	}{
		{342, 410},
		{621, 620},
		{200, 200},
		{1, 200},
		{410, 410},
		{409.5, 410},
	}
	for _, c := range cases {
		if got := NearestAtLeast(standardDepths, c.target); got != c.want {
			t.Errorf("NearestAtLeast(%v) = %d, want %d", c.target, got, c.want)
		}
	}
	if got := NearestAtLeast(nil, 300); got != 0 {
		t.Errorf("expected 0 for empty list, got %d", got)
	}
}

func TestNewSortsAndDedups(t *testing.T) {
	c, err := New([]Entry{
		{Width: 90, Depth: 335, Type: Joist},
		{Width: 90, Depth: 200, Type: Joist},
		{Width: 90, Depth: 335, Type: "JOIST"},
		{Width: 65, Depth: 270, Type: Joist},
		{Width: 165, Depth: 410, Type: Beam},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := c.AvailableDepths(Joist, 90)
	if len(got) != 2 || got[0] != 200 || got[1] != 335 {
		t.Errorf("unexpected depths %v", got)
	}
	ws := c.Widths(Joist)
	if len(ws) != 2 || ws[0] != 65 || ws[1] != 90 {
		t.Errorf("unexpected widths %v", ws)
	}
	if c.Len() != 4 {
		t.Errorf("expected 4 entries, got %d", c.Len())
	}
}

func TestAvailableDepthsMissingPair(t *testing.T) {
	c := Default()
	if got := c.AvailableDepths(Joist, 999); len(got) != 0 {
		t.Errorf("expected no depths, got %v", got)
	}
	var empty *Catalog
	if got := empty.AvailableDepths(Beam, 250); len(got) != 0 {
		t.Errorf("nil catalog should return no depths, got %v", got)
	}
}

func TestAvailableDepthsReturnsCopy(t *testing.T) {
	c := Default()
	ds := c.AvailableDepths(Joist, 250)
	ds[0] = -1
	if c.AvailableDepths(Joist, 250)[0] != 200 {
		t.Error("catalog was mutated through returned slice")
	}
}

func TestNewRejectsBadEntries(t *testing.T) {
	if _, err := New([]Entry{{Width: 0, Depth: 200, Type: Joist}}); err == nil {
		t.Error("expected error for zero width")
	}
	if _, err := New([]Entry{{Width: 90, Depth: 200, Type: "rafter"}}); err == nil {
		t.Error("expected error for unknown type")
	}
}

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	got := c.AvailableDepths(Joist, 250)
	if len(got) != len(standardDepths) {
		t.Fatalf("unexpected depths %v", got)
	}
	for i := range got {
		if got[i] != standardDepths[i] {
			t.Fatalf("unexpected depths %v", got)
		}
	}
	for _, w := range c.Widths(Column) {
		for _, d := range c.AvailableDepths(Column, w) {
			if d < w {
				t.Errorf("column %dx%d is narrower in depth than width", w, d)
			}
		}
	}
}

func TestLoadCSV(t *testing.T) {
	in := "type, depth, width\njoist,270,90\n\njoist,200,90\nbeam,410,165\n"
	c, err := LoadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := c.AvailableDepths(Joist, 90); len(got) != 2 || got[0] != 200 {
		t.Errorf("unexpected depths %v", got)
	}
}

func TestLoadCSVErrors(t *testing.T) {
	bad := []string{
		"width,depth\n90,200\n",
		"width,depth,type\n",
		"width,depth,type\n90,abc,joist\n",
		"width,depth,type\n90,-5,joist\n",
		"width,depth,type\n90,200.5,joist\n",
	}
	for _, in := range bad {
		if _, err := LoadCSV(strings.NewReader(in)); err == nil {
			t.Errorf("expected error for %q", in)
		}
	}
}

func TestLoadXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"width", "depth", "type"},
		{335, 435, "column"},
		{335, 335, "column"},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	c, err := LoadXLSX(&buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := c.AvailableDepths(Column, 335)
	if len(got) != 2 || got[0] != 335 || got[1] != 435 {
		t.Errorf("unexpected depths %v", got)
	}
}
