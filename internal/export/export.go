package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/nconklindev/stylematch/internal/types"

	"github.com/xuri/excelize/v2"
)

// SheetName names the single sheet of an XLSX export.
const SheetName = "Matches Only"

// DefaultName is the filename stem used when none is configured.
const DefaultName = "matching_styles"

// ErrNoData reports an export attempted without a non-empty comparison result.
var ErrNoData = errors.New("no data to export")

// Export serializes the header and matched rows of result in the given format.
// name is the filename stem; an empty name falls back to DefaultName.
func Export(result *types.MatchResult, format Format, name string) (*types.ExportPayload, error) {
	if result == nil || result.Count == 0 {
		return nil, ErrNoData
	}
	if name == "" {
		name = DefaultName
	}

	var (
		data []byte
		err  error
	)
	switch format {
	case FormatXLSX:
		data, err = renderXLSX(result)
	case FormatCSV:
		data, err = renderCSV(result)
	case FormatTXT:
		data, err = renderTXT(result)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(format))
	}
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}

	return &types.ExportPayload{
		Data:        data,
		Filename:    name + format.Extension(),
		ContentType: format.ContentType(),
	}, nil
}

func renderXLSX(result *types.MatchResult) ([]byte, error) {
	file := excelize.NewFile()
	defer func() {
		_ = file.Close()
	}()

	defaultSheet := file.GetSheetName(0)
	if err := file.SetSheetName(defaultSheet, SheetName); err != nil {
		return nil, err
	}

	stream, err := file.NewStreamWriter(SheetName)
	if err != nil {
		return nil, err
	}

	headerStyle, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	rows := append([]types.Row{result.Header}, result.Rows...)
	for i, row := range rows {
		styleID := 0
		if i == 0 {
			styleID = headerStyle
		}

		cells := make([]interface{}, len(row))
		for j, cell := range row {
			if !cell.Present {
				continue
			}
			cells[j] = excelize.Cell{StyleID: styleID, Value: xlsxValue(cell.Text)}
		}

		axis, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := stream.SetRow(axis, cells); err != nil {
			return nil, err
		}
	}

	if err := stream.Flush(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := file.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// xlsxValue writes numerals back as numbers when the text round-trips exactly,
// so "42" stays numeric while "007" keeps its leading zeros.
func xlsxValue(s string) interface{} {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || strconv.FormatFloat(f, 'f', -1, 64) != s {
		return s
	}
	return f
}

func renderCSV(result *types.MatchResult) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.WriteAll(result.Records()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderTXT(result *types.MatchResult) ([]byte, error) {
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 8, 1, '\t', 0)

	for _, record := range result.Records() {
		for i, v := range record {
			record[i] = flattenCell(v)
		}
		if _, err := fmt.Fprintln(tw, strings.Join(record, "\t")); err != nil {
			return nil, err
		}
	}

	if err := tw.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// flattenCell keeps a cell on one line and inside one column.
func flattenCell(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\t', '\n', '\r':
			return ' '
		}
		return r
	}, s)
}
