package table

import (
	"fmt"
	"math"
	"strings"

	"zheatmap/internal/errors"

	"gonum.org/v1/gonum/mat"
)

// SeriesSet is the subject subset of a table: one row per subject, one
// column per time point. Missing cells are NaN.
type SeriesSet struct {
	names  []string
	matrix *mat.Dense
}

// SelectByPrefix keeps the columns whose names start with prefix, in table
// order. The match is case-sensitive and anchored at position 0.
func SelectByPrefix(t *Table, prefix string) (*SeriesSet, error) {
	var selected []Column
	for _, col := range t.columns {
		if strings.HasPrefix(col.Name, prefix) {
			selected = append(selected, col)
		}
	}
	if len(selected) == 0 {
		return nil, errors.NoMatchingColumns(prefix)
	}
	if t.rows == 0 {
		return nil, errors.InvalidInput("table has no data rows")
	}

	// Loaded orientation is time x subject; the heatmap wants the transpose.
	raw := mat.NewDense(t.rows, len(selected), nil)
	names := make([]string, len(selected))
	for j, col := range selected {
		names[j] = col.Name
		for i, cell := range col.Cells {
			v, ok := cell.Float()
			if !ok {
				return nil, errors.ParseError(
					fmt.Sprintf("column %q row %d: non-numeric value %q", col.Name, i+1, cell.Text), nil)
			}
			raw.Set(i, j, v)
		}
	}

	return &SeriesSet{names: names, matrix: mat.DenseCopyOf(raw.T())}, nil
}

// NewSeriesSet builds a set directly from per-subject series. All series
// must have the same, non-zero length.
func NewSeriesSet(names []string, series [][]float64) (*SeriesSet, error) {
	if len(names) == 0 || len(names) != len(series) {
		return nil, errors.InvalidInput(fmt.Sprintf("need one series per name, got %d names and %d series", len(names), len(series)))
	}
	points := len(series[0])
	if points == 0 {
		return nil, errors.InvalidInput("series are empty")
	}
	data := make([]float64, 0, len(series)*points)
	for i, s := range series {
		if len(s) != points {
			return nil, errors.InvalidInput(fmt.Sprintf("series %q has %d points, expected %d", names[i], len(s), points))
		}
		data = append(data, s...)
	}
	return &SeriesSet{
		names:  append([]string(nil), names...),
		matrix: mat.NewDense(len(series), points, data),
	}, nil
}

// Names returns the subject names, one per heatmap row
func (s *SeriesSet) Names() []string {
	return append([]string(nil), s.names...)
}

// Len returns the number of subjects
func (s *SeriesSet) Len() int { return len(s.names) }

// TimePoints returns the number of time points per subject
func (s *SeriesSet) TimePoints() int {
	_, c := s.matrix.Dims()
	return c
}

// At returns the value of subject i at time point j
func (s *SeriesSet) At(i, j int) float64 {
	return s.matrix.At(i, j)
}

// Matrix returns a copy of the subject x time matrix
func (s *SeriesSet) Matrix() *mat.Dense {
	return mat.DenseCopyOf(s.matrix)
}

// Values returns every non-missing value, row by row
func (s *SeriesSet) Values() []float64 {
	r, c := s.matrix.Dims()
	values := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		for _, v := range s.matrix.RawRowView(i) {
			if !math.IsNaN(v) {
				values = append(values, v)
			}
		}
	}
	return values
}
