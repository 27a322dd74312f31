package catalog

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

//go:embed default_catalog.csv
var defaultCSV []byte

// Default returns the catalog shipped with the service.
func Default() *Catalog {
	c, err := LoadCSV(bytes.NewReader(defaultCSV))
	if err != nil {
		panic("catalog: embedded table is invalid: " + err.Error())
	}
	return c
}

// LoadFile picks the loader from the file extension (.csv or .xlsx).
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadCSV(f)
	case ".xlsx":
		return LoadXLSX(f)
	}
	return nil, fmt.Errorf("unsupported catalog file %s", path)
}

func LoadCSV(r io.Reader) (*Catalog, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read catalog csv: %w", err)
	}
	return fromRows(rows)
}

// LoadXLSX reads the first sheet of a workbook laid out like the CSV table.
func LoadXLSX(r io.Reader) (*Catalog, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open catalog workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("read catalog sheet: %w", err)
	}
	return fromRows(rows)
}

func fromRows(rows [][]string) (*Catalog, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("catalog table is empty")
	}
	col := map[string]int{"width": -1, "depth": -1, "type": -1}
	for i, h := range rows[0] {
		name := strings.ToLower(strings.TrimSpace(h))
		if _, ok := col[name]; ok {
			col[name] = i
		}
	}
	for name, i := range col {
		if i < 0 {
			return nil, fmt.Errorf("catalog table is missing column %q", name)
		}
	}

	entries := make([]Entry, 0, len(rows)-1)
	for n, row := range rows[1:] {
		if blank(row) {
			continue
		}
		line := n + 2
		if len(row) <= col["width"] || len(row) <= col["depth"] || len(row) <= col["type"] {
			return nil, fmt.Errorf("catalog row %d: too few columns", line)
		}
		width, err := parseSize(row[col["width"]])
		if err != nil {
			return nil, fmt.Errorf("catalog row %d: width: %w", line, err)
		}
		depth, err := parseSize(row[col["depth"]])
		if err != nil {
			return nil, fmt.Errorf("catalog row %d: depth: %w", line, err)
		}
		entries = append(entries, Entry{Width: width, Depth: depth, Type: MemberType(row[col["type"]])})
	}
	return New(entries)
}

func parseSize(s string) (int, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if v <= 0 || v != float64(int(v)) {
		return 0, fmt.Errorf("%q is not a positive whole number of millimetres", s)
	}
	return int(v), nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
