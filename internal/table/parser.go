package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/nconklindev/stylematch/internal/types"

	"github.com/xuri/excelize/v2"
)

// NotFound is returned by FindColumn when no header cell matches.
const NotFound = -1

var (
	// ErrEmpty reports an input without a single row.
	ErrEmpty = errors.New("empty file")

	// ErrUnsupported reports a payload that is neither XLSX nor text.
	ErrUnsupported = errors.New("unsupported file format")
)

var (
	zipMagic = []byte("PK\x03\x04")
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0}
	utf8BOM  = []byte{0xEF, 0xBB, 0xBF}
)

// ParseError wraps a failure to read raw bytes as a table.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("could not read file: %v", e.Err)
	}
	return fmt.Sprintf("could not read %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse reads the first sheet of an XLSX workbook, or a CSV document, into a RawTable.
// Row 0 becomes the header. source only labels errors.
func Parse(source string, data []byte) (*types.RawTable, error) {
	var (
		rows [][]string
		err  error
	)

	switch {
	case len(data) == 0:
		err = ErrEmpty
	case bytes.HasPrefix(data, zipMagic):
		rows, err = readXLSXRows(data)
	case bytes.HasPrefix(data, oleMagic):
		err = fmt.Errorf("%w: legacy .xls workbooks must be saved as .xlsx", ErrUnsupported)
	default:
		rows, err = readCSVRows(data)
	}
	if err != nil {
		return nil, &ParseError{Source: source, Err: err}
	}

	if len(rows) == 0 {
		return nil, &ParseError{Source: source, Err: ErrEmpty}
	}

	t := &types.RawTable{
		Header: toRow(rows[0]),
		Body:   make([]types.Row, 0, len(rows)-1),
	}
	for _, r := range rows[1:] {
		t.Body = append(t.Body, toRow(r))
	}
	return t, nil
}

// FindColumn returns the index of the first header cell exactly equal to name, or NotFound.
func FindColumn(header types.Row, name string) int {
	for i, cell := range header {
		if cell.Present && cell.Text == name {
			return i
		}
	}
	return NotFound
}

func readXLSXRows(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	return f.GetRows(sheetName, excelize.Options{RawCellValue: true})
}

func readCSVRows(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return nil, ErrUnsupported
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	// Hand-edited exports carry bare quotes such as inch marks (5" sleeve).
	reader.LazyQuotes = true

	return reader.ReadAll()
}

// toRow marks blank cells absent, matching how spreadsheet readers skip empty cells.
func toRow(values []string) types.Row {
	row := make(types.Row, len(values))
	for i, v := range values {
		if v != "" {
			row[i] = types.Text(v)
		}
	}
	return row
}
