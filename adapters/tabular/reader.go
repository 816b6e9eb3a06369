package tabular

import (
	"context"
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"zheatmap/domain/table"
	"zheatmap/internal"
	"zheatmap/internal/errors"

	"github.com/xuri/excelize/v2"
)

// FileType identifies how a file is parsed
type FileType string

const (
	FileTypeCSV  FileType = "csv"
	FileTypeTSV  FileType = "tsv"
	FileTypeXLSX FileType = "xlsx"
)

// DetectFileType picks the parser from the file extension. Anything that is
// not recognised is read as CSV.
func DetectFileType(path string) FileType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsv", ".tab":
		return FileTypeTSV
	case ".xlsx", ".xlsm":
		return FileTypeXLSX
	default:
		return FileTypeCSV
	}
}

// Reader loads delimited text files and Excel workbooks into tables
type Reader struct {
	logger *internal.Logger
}

// NewReader creates a reader that reports timings through logger
func NewReader(logger *internal.Logger) *Reader {
	return &Reader{logger: logger}
}

// Load reads the file at path into a table
func (r *Reader) Load(ctx context.Context, path string) (*table.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.InputNotFound(path)
		}
		return nil, errors.Wrapf(err, "cannot access %s", path)
	}

	fileType := DetectFileType(path)
	r.logger.Debug("reading %s file: %s", fileType, path)

	start := time.Now()
	var (
		rows [][]string
		err  error
	)
	switch fileType {
	case FileTypeXLSX:
		rows, err = readWorkbook(path)
	case FileTypeTSV:
		rows, err = readDelimited(path, '\t')
	default:
		rows, err = readDelimited(path, ',')
	}
	if err != nil {
		return nil, err
	}
	r.logger.Debug("%s read in %.2fms (%d lines)", path, float64(time.Since(start).Nanoseconds())/1e6, len(rows))

	return buildTable(rows)
}

// readDelimited reads all records, allowing short rows; width checks happen
// in buildTable so the error can name the line.
func readDelimited(path string, comma rune) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = comma
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if stderrors.As(err, &parseErr) {
				return nil, errors.ParseError(fmt.Sprintf("malformed table %s", path), parseErr)
			}
			return nil, errors.Wrapf(err, "failed to read %s", path)
		}
		rows = append(rows, record)
	}
	return rows, nil
}

// readWorkbook reads the first worksheet of an Excel file
func readWorkbook(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.ParseError(fmt.Sprintf("failed to open workbook %s", path), err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.ParseError(fmt.Sprintf("workbook %s has no worksheets", path), nil)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.ParseError(fmt.Sprintf("failed to read sheet %q of %s", sheets[0], path), err)
	}
	return rows, nil
}

// buildTable turns raw records into a table: the first record is the
// header, short rows are padded with missing cells.
func buildTable(rows [][]string) (*table.Table, error) {
	if len(rows) == 0 || isBlank(rows[0]) {
		return nil, errors.ParseError("no header row found", nil)
	}

	headers := normalizeHeaders(rows[0])
	columns := make([]table.Column, len(headers))
	for j, name := range headers {
		columns[j] = table.Column{Name: name, Cells: make([]table.Cell, 0, len(rows)-1)}
	}

	for i, record := range rows[1:] {
		if len(record) == 0 {
			continue
		}
		if len(record) > len(headers) {
			return nil, errors.ParseError(
				fmt.Sprintf("line %d: expected %d fields, saw %d", i+2, len(headers), len(record)), nil)
		}
		for j := range headers {
			cell := table.MissingCell()
			if j < len(record) {
				cell = coerceCell(record[j])
			}
			columns[j].Cells = append(columns[j].Cells, cell)
		}
	}

	t, err := table.New(columns)
	if err != nil {
		return nil, errors.ParseError("inconsistent table", err)
	}
	return t, nil
}

// normalizeHeaders trims names, strips a UTF-8 byte order mark, names blank
// headers "Unnamed: i" and suffixes repeats with ".1", ".2", ...
func normalizeHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	seen := make(map[string]int, len(raw))
	taken := make(map[string]bool, len(raw))
	for i, h := range raw {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		name := h
		for taken[name] {
			seen[h]++
			name = fmt.Sprintf("%s.%d", h, seen[h])
		}
		taken[name] = true
		headers[i] = name
	}
	return headers
}

func isBlank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
