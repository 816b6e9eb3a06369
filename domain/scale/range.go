// Package scale resolves the numeric range a color map is stretched over.
package scale

import (
	"fmt"
	"math"

	"zheatmap/domain/table"
	"zheatmap/internal/errors"

	"github.com/montanaflynn/stats"
)

// DisplayRange is the closed interval [Low, High] mapped onto a color map
type DisplayRange struct {
	Low  float64
	High float64
}

// Span returns High - Low
func (r DisplayRange) Span() float64 {
	return r.High - r.Low
}

// Contains reports whether v lies within the range
func (r DisplayRange) Contains(v float64) bool {
	return v >= r.Low && v <= r.High
}

// Fraction maps v linearly onto [0, 1], clamping values outside the range.
// A zero-width range maps everything to 0 and NaN stays NaN.
func (r DisplayRange) Fraction(v float64) float64 {
	if math.IsNaN(v) {
		return v
	}
	span := r.Span()
	if span <= 0 {
		return 0
	}
	f := (v - r.Low) / span
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}

func (r DisplayRange) String() string {
	return fmt.Sprintf("[%.4f, %.4f]", r.Low, r.High)
}

// Bounds are the optional user-supplied ends of the range
type Bounds struct {
	Low  *float64
	High *float64
}

// Explicit returns bounds with both ends fixed
func Explicit(low, high float64) Bounds {
	return Bounds{Low: &low, High: &high}
}

// Resolution is a resolved range plus what it was derived from
type Resolution struct {
	Range        DisplayRange
	LowExplicit  bool
	HighExplicit bool

	// Extent is the data's own (min, max); nil when the selection holds no
	// numeric value.
	Extent *DisplayRange
}

// Extent returns the minimum and maximum over every non-missing value
func Extent(set *table.SeriesSet) (DisplayRange, error) {
	values := set.Values()
	if len(values) == 0 {
		return DisplayRange{}, errors.InvalidInput("selected columns contain no numeric values")
	}
	low, err := stats.Min(values)
	if err != nil {
		return DisplayRange{}, errors.Wrap(err, "failed to compute minimum")
	}
	high, err := stats.Max(values)
	if err != nil {
		return DisplayRange{}, errors.Wrap(err, "failed to compute maximum")
	}
	return DisplayRange{Low: low, High: high}, nil
}

// Resolve fills each omitted bound from the data, independently of the
// other. Explicit bounds are used verbatim. An inverted result is rejected.
func Resolve(set *table.SeriesSet, b Bounds) (Resolution, error) {
	res := Resolution{
		LowExplicit:  b.Low != nil,
		HighExplicit: b.High != nil,
	}

	extent, err := Extent(set)
	if err == nil {
		res.Extent = &extent
	} else if !res.LowExplicit || !res.HighExplicit {
		return Resolution{}, err
	}

	if res.LowExplicit {
		res.Range.Low = *b.Low
	} else {
		res.Range.Low = extent.Low
	}
	if res.HighExplicit {
		res.Range.High = *b.High
	} else {
		res.Range.High = extent.High
	}

	if math.IsNaN(res.Range.Low) || math.IsNaN(res.Range.High) {
		return Resolution{}, errors.InvalidInput("display range bounds must be numbers")
	}
	if res.Range.Low > res.Range.High {
		return Resolution{}, errors.InvalidInput(fmt.Sprintf("vmin (%g) must not exceed vmax (%g)", res.Range.Low, res.Range.High))
	}
	return res, nil
}

// Warnings describes explicit bounds that fall outside the data extent.
// They are informational; the bounds are still used.
func (r Resolution) Warnings() []string {
	if r.Extent == nil {
		return nil
	}
	var warnings []string
	if r.LowExplicit && !r.Extent.Contains(r.Range.Low) {
		warnings = append(warnings, fmt.Sprintf("vmin %g is outside the data range %s", r.Range.Low, r.Extent))
	}
	if r.HighExplicit && !r.Extent.Contains(r.Range.High) {
		warnings = append(warnings, fmt.Sprintf("vmax %g is outside the data range %s", r.Range.High, r.Extent))
	}
	return warnings
}
