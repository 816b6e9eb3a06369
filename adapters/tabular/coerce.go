package tabular

import (
	"strconv"
	"strings"

	"zheatmap/domain/table"
)

// isNAToken reports the spellings read as missing values, matching the
// usual spreadsheet and dataframe conventions.
func isNAToken(s string) bool {
	switch s {
	case "", "NA", "N/A", "n/a", "NaN", "nan", "-NaN", "-nan",
		"null", "NULL", "None", "<NA>", "#N/A", "#NA", "1.#QNAN":
		return true
	}
	return false
}

// coerceCell converts a raw field: NA tokens become missing, anything
// strconv can read as a float becomes numeric, the rest is kept as text.
func coerceCell(raw string) table.Cell {
	clean := strings.TrimSpace(raw)
	if isNAToken(clean) {
		return table.MissingCell()
	}
	if v, err := strconv.ParseFloat(clean, 64); err == nil {
		return table.NumericCell(v)
	}
	return table.TextCell(raw)
}
