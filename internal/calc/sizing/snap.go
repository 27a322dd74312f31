package sizing

import (
	"fmt"
	"log"
	"math"

	"Timber/internal/catalog"
)

type SnapStatus string

const (
	// Snapped means the depth is a catalog value.
	Snapped SnapStatus = "snapped"
	// Unsnapped means no catalog row matched and the raw requirement was kept.
	Unsnapped SnapStatus = "unsnapped"
)

const (
	ReasonMissingCatalog = "no catalog depths for member type and width"
	ReasonExceedsCatalog = "requirement exceeds largest catalog depth"
)

// Selection is the outcome of snapping a requirement to a catalog list.
type Selection struct {
	Depth          int
	Status         SnapStatus
	Reason         string
	ExceedsCatalog bool
}

// MaxDimensionMM bounds any requirement handed to Snap.
const MaxDimensionMM = 100000.0

// Snap picks the smallest catalog depth not below target. An empty list keeps
// the rounded-up target; a target beyond the list returns the largest depth.
// A non-finite, negative or out of range target is rejected.
func Snap(depths []int, target float64) (Selection, error) {
	if math.IsNaN(target) || math.IsInf(target, 0) || target < 0 || target > MaxDimensionMM {
		return Selection{}, fmt.Errorf("%w: required dimension %v mm is out of range", ErrInvalidInput, target)
	}
	if len(depths) == 0 {
		log.Printf("warning: %s, using %.0fmm", ReasonMissingCatalog, math.Ceil(target))
		return Selection{Depth: int(math.Ceil(target)), Status: Unsnapped, Reason: ReasonMissingCatalog}, nil
	}
	d := catalog.NearestAtLeast(depths, target)
	if float64(d) < target {
		log.Printf("warning: %s (%.0fmm > %dmm)", ReasonExceedsCatalog, target, d)
		return Selection{Depth: d, Status: Snapped, Reason: ReasonExceedsCatalog, ExceedsCatalog: true}, nil
	}
	return Selection{Depth: d, Status: Snapped}, nil
}

// Apply records a selection on a result. A fallback from either dimension
// of a member marks the whole result as unsnapped.
func (s Selection) Apply(r *Result) {
	switch {
	case s.Status == Unsnapped:
		r.SnapStatus = Unsnapped
		r.UsingFallback = true
	case r.SnapStatus == "":
		r.SnapStatus = Snapped
	}
	if s.ExceedsCatalog {
		r.ExceedsCatalog = true
	}
	if s.Reason != "" && r.FallbackReason == "" {
		r.FallbackReason = s.Reason
	}
}
