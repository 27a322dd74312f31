package catalog

import (
	"fmt"
	"sort"
	"strings"
)

type MemberType string

const (
	Joist  MemberType = "joist"
	Beam   MemberType = "beam"
	Column MemberType = "column"
)

func ParseMemberType(s string) (MemberType, error) {
	switch MemberType(strings.ToLower(strings.TrimSpace(s))) {
	case Joist:
		return Joist, nil
	case Beam:
		return Beam, nil
	case Column:
		return Column, nil
	}
	return "", fmt.Errorf("unknown member type %q", s)
}

type Entry struct {
	Width int        `json:"width"`
	Depth int        `json:"depth"`
	Type  MemberType `json:"type"`
}

type key struct {
	t     MemberType
	width int
}

// Catalog is an immutable index of manufactured sizes. Build one with New and
// share it freely between goroutines.
type Catalog struct {
	depths map[key][]int
	widths map[MemberType][]int
}

func New(entries []Entry) (*Catalog, error) {
	seen := make(map[key]map[int]bool)
	for i, e := range entries {
		if e.Width <= 0 || e.Depth <= 0 {
			return nil, fmt.Errorf("catalog entry %d: width and depth must be positive", i)
		}
		t, err := ParseMemberType(string(e.Type))
		if err != nil {
			return nil, fmt.Errorf("catalog entry %d: %w", i, err)
		}
		k := key{t: t, width: e.Width}
		if seen[k] == nil {
			seen[k] = make(map[int]bool)
		}
		seen[k][e.Depth] = true
	}

	c := &Catalog{
		depths: make(map[key][]int, len(seen)),
		widths: make(map[MemberType][]int),
	}
	for k, set := range seen {
		ds := make([]int, 0, len(set))
		for d := range set {
			ds = append(ds, d)
		}
		sort.Ints(ds)
		c.depths[k] = ds
		c.widths[k.t] = append(c.widths[k.t], k.width)
	}
	for t := range c.widths {
		sort.Ints(c.widths[t])
	}
	return c, nil
}

// AvailableDepths returns the ascending depths manufactured for the pair. An
// empty slice means the pair is not stocked; callers fall back to the raw
// computed depth.
func (c *Catalog) AvailableDepths(t MemberType, width int) []int {
	if c == nil {
		return nil
	}
	ds := c.depths[key{t: t, width: width}]
	out := make([]int, len(ds))
	copy(out, ds)
	return out
}

// Widths returns the ascending widths stocked for a member type.
func (c *Catalog) Widths(t MemberType) []int {
	if c == nil {
		return nil
	}
	ws := c.widths[t]
	out := make([]int, len(ws))
	copy(out, ws)
	return out
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, ds := range c.depths {
		n += len(ds)
	}
	return n
}

// NearestAtLeast returns the smallest element of sorted that is >= target,
// or the largest element when target exceeds them all. It returns 0 for an
// empty slice.
func NearestAtLeast(sorted []int, target float64) int {
	if len(sorted) == 0 {
		return 0
	}
	i := sort.Search(len(sorted), func(i int) bool { return float64(sorted[i]) >= target })
	if i == len(sorted) {
		return sorted[len(sorted)-1]
	}
	return sorted[i]
}
