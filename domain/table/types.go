package table

import (
	"fmt"
	"math"
	"strconv"
)

// CellKind defines the storage type of a cell
type CellKind int

const (
	KindMissing CellKind = iota
	KindNumeric
	KindText
)

func (k CellKind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindText:
		return "text"
	default:
		return "missing"
	}
}

// Cell is a single loaded value: a number, text kept as-is, or missing
type Cell struct {
	Kind CellKind
	Num  float64
	Text string
}

// NumericCell creates a numeric cell
func NumericCell(v float64) Cell {
	return Cell{Kind: KindNumeric, Num: v}
}

// TextCell creates a text cell; empty text is treated as missing
func TextCell(s string) Cell {
	if s == "" {
		return MissingCell()
	}
	return Cell{Kind: KindText, Text: s}
}

// MissingCell creates an empty cell
func MissingCell() Cell {
	return Cell{Kind: KindMissing}
}

// Float returns the numeric value. Missing cells yield NaN and true; text
// cells yield false.
func (c Cell) Float() (float64, bool) {
	switch c.Kind {
	case KindNumeric:
		return c.Num, true
	case KindMissing:
		return math.NaN(), true
	default:
		return 0, false
	}
}

func (c Cell) String() string {
	switch c.Kind {
	case KindNumeric:
		return strconv.FormatFloat(c.Num, 'g', -1, 64)
	case KindText:
		return c.Text
	default:
		return ""
	}
}

// Column is a named, ordered sequence of cells
type Column struct {
	Name  string
	Cells []Cell
}

// Table is an ordered collection of equally long columns. It is not
// modified after New returns.
type Table struct {
	columns []Column
	index   map[string]int
	rows    int
}

// New builds a table. All columns must have the same number of cells and
// distinct names.
func New(columns []Column) (*Table, error) {
	t := &Table{
		columns: make([]Column, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for i, col := range columns {
		if i == 0 {
			t.rows = len(col.Cells)
		} else if len(col.Cells) != t.rows {
			return nil, fmt.Errorf("column %q has %d rows, expected %d", col.Name, len(col.Cells), t.rows)
		}
		if _, dup := t.index[col.Name]; dup {
			return nil, fmt.Errorf("duplicate column name %q", col.Name)
		}
		t.index[col.Name] = i
		t.columns[i] = Column{Name: col.Name, Cells: append([]Cell(nil), col.Cells...)}
	}
	return t, nil
}

// NumRows returns the number of data rows
func (t *Table) NumRows() int { return t.rows }

// NumColumns returns the number of columns
func (t *Table) NumColumns() int { return len(t.columns) }

// ColumnNames returns the column names in file order
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, col := range t.columns {
		names[i] = col.Name
	}
	return names
}

// HasColumn reports whether a column with the exact name exists
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns a copy of the named column
func (t *Table) Column(name string) (Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return Column{}, false
	}
	col := t.columns[i]
	return Column{Name: col.Name, Cells: append([]Cell(nil), col.Cells...)}, true
}

// Cell returns the cell at row r of the named column
func (t *Table) Cell(name string, r int) (Cell, bool) {
	i, ok := t.index[name]
	if !ok || r < 0 || r >= t.rows {
		return Cell{}, false
	}
	return t.columns[i].Cells[r], true
}
