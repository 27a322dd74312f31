package fire

import (
	"fmt"
	"strings"
)

type Rating string

const (
	None Rating = "none"
	R30  Rating = "30/30/30"
	R60  Rating = "60/60/60"
	R90  Rating = "90/90/90"
	R120 Rating = "120/120/120"
)

// ZeroStrengthLayerMM is the layer behind the char line assumed to carry no
// load in a detailed fire check. Sizing does not add it.
const ZeroStrengthLayerMM = 7.0

// Parse accepts "", "none", "60", "R60" and "60/60/60" forms.
func Parse(s string) (Rating, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	v = strings.TrimPrefix(v, "FRL")
	v = strings.TrimPrefix(v, "R")
	v = strings.TrimSpace(v)
	if i := strings.Index(v, "/"); i >= 0 {
		v = v[:i]
	}
	switch v {
	case "", "NONE", "0", "-":
		return None, nil
	case "30":
		return R30, nil
	case "60":
		return R60, nil
	case "90":
		return R90, nil
	case "120":
		return R120, nil
	}
	return "", fmt.Errorf("unknown fire rating %q", s)
}

func (r Rating) Minutes() int {
	switch r {
	case R30:
		return 30
	case R60:
		return 60
	case R90:
		return 90
	case R120:
		return 120
	}
	return 0
}

// Allowance is the sacrificial char depth in mm for one exposed face.
func (r Rating) Allowance(charRateMMPerMin float64) float64 {
	if charRateMMPerMin <= 0 {
		return 0
	}
	return float64(r.Minutes()) * charRateMMPerMin
}
