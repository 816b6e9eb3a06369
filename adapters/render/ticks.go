package render

import (
	"math"
	"strconv"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
)

// colorbarTickCount is the number of ticks a colorbar aims for
const colorbarTickCount = 6

// niceTicks returns round values inside [low, high], about n of them, spaced
// by 1, 2, 2.5 or 5 times a power of ten. A zero-width range gets one tick.
func niceTicks(low, high float64, n int) []chart.Tick {
	if math.IsNaN(low) || math.IsNaN(high) || math.IsInf(low, 0) || math.IsInf(high, 0) || high < low {
		return nil
	}
	if high == low {
		return []chart.Tick{{Value: low, Label: formatTick(low, decimalsFor(math.Abs(low)))}}
	}
	if n < 2 {
		n = 2
	}

	span := high - low
	mag := math.Pow(10, math.Floor(math.Log10(span/float64(n-1))))
	bestStep, bestScore := mag, math.MaxFloat64
	for _, c := range []float64{1, 2, 2.5, 5, 10} {
		step := c * mag
		count := countInside(low, high, step)
		if count < 2 {
			continue
		}
		if score := math.Abs(float64(count - n)); score < bestScore {
			bestStep, bestScore = step, score
		}
	}

	decimals := decimalsFor(bestStep)
	first := math.Ceil(low/bestStep - 1e-9)
	var ticks []chart.Tick
	for i := 0.0; ; i++ {
		v := (first + i) * bestStep
		if v > high+bestStep*1e-9 {
			break
		}
		if math.Abs(v) < bestStep*1e-9 {
			v = 0
		}
		ticks = append(ticks, chart.Tick{Value: v, Label: formatTick(v, decimals)})
	}
	if len(ticks) == 0 {
		ticks = []chart.Tick{
			{Value: low, Label: formatTick(low, decimals)},
			{Value: high, Label: formatTick(high, decimals)},
		}
	}
	return ticks
}

func countInside(low, high, step float64) int {
	return int(math.Floor(high/step+1e-9)-math.Ceil(low/step-1e-9)) + 1
}

// decimalsFor returns how many decimals are needed to print multiples of
// step exactly, with at least one for steps below 1
func decimalsFor(step float64) int {
	if step == 0 || step >= 1 && step == math.Trunc(step) {
		return 0
	}
	d := 1
	for ; d < 8; d++ {
		scaled := step * math.Pow(10, float64(d))
		if math.Abs(scaled-math.Round(scaled)) < 1e-6*scaled {
			break
		}
	}
	return d
}

// formatTick prints v with a fixed number of decimals, never as "-0"
func formatTick(v float64, decimals int) string {
	s := strconv.FormatFloat(v, 'f', decimals, 64)
	if strings.Trim(s, "-0.") == "" {
		return strings.TrimPrefix(s, "-")
	}
	return s
}

// tickLabels extracts the labels of ticks
func tickLabels(ticks []chart.Tick) []string {
	labels := make([]string, len(ticks))
	for i, t := range ticks {
		labels[i] = t.Label
	}
	return labels
}
