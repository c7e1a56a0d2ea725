package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/nconklindev/stylematch/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleResult() *types.MatchResult {
	return &types.MatchResult{
		Header: types.NewRow("Handle", "Title", "Qty"),
		Rows: []types.Row{
			types.NewRow("RED SHIRT", "Shirt, red", "42"),
			{types.Text("Green Pants"), types.Cell{}, types.Text("007")},
		},
		Count: 2,
	}
}

func TestExportXLSX(t *testing.T) {
	payload, err := Export(sampleResult(), FormatXLSX, "")
	require.NoError(t, err)

	assert.Equal(t, "matching_styles.xlsx", payload.Filename)
	assert.Equal(t, "application/octet-stream", payload.ContentType)

	f, err := excelize.OpenReader(bytes.NewReader(payload.Data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Handle", "Title", "Qty"},
		{"RED SHIRT", "Shirt, red", "42"},
		{"Green Pants", "", "007"},
	}, rows)
}

func TestExportCSV(t *testing.T) {
	payload, err := Export(sampleResult(), FormatCSV, "styles")
	require.NoError(t, err)

	assert.Equal(t, "styles.csv", payload.Filename)
	assert.Equal(t, "text/csv;charset=utf-8", payload.ContentType)

	records, err := csv.NewReader(bytes.NewReader(payload.Data)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Handle", "Title", "Qty"},
		{"RED SHIRT", "Shirt, red", "42"},
		{"Green Pants", "", "007"},
	}, records)
}

func TestExportTXT(t *testing.T) {
	result := &types.MatchResult{
		Header: types.NewRow("Handle", "Title"),
		Rows: []types.Row{
			types.NewRow("red-shirt", "Shirt\tTwo"),
			types.NewRow("green-pants", "Pants"),
		},
		Count: 2,
	}

	payload, err := Export(result, FormatTXT, "")
	require.NoError(t, err)

	assert.Equal(t, "matching_styles.txt", payload.Filename)
	assert.Equal(t, "text/plain;charset=utf-8", payload.ContentType)

	lines := strings.Split(strings.TrimRight(string(payload.Data), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"Handle", "Title"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"red-shirt", "Shirt", "Two"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"green-pants", "Pants"}, strings.Fields(lines[2]))

	// Columns line up: the second column starts at the same offset on every line.
	first := strings.Index(lines[1], "Shirt")
	second := strings.Index(lines[2], "Pants")
	assert.Equal(t, expandTabs(lines[1][:first]), expandTabs(lines[2][:second]))
}

func expandTabs(s string) int {
	width := 0
	for _, r := range s {
		if r == '\t' {
			width += 8 - width%8
			continue
		}
		width++
	}
	return width
}

func TestExportDoesNotMutateResult(t *testing.T) {
	result := sampleResult()
	before := result.Records()

	for _, f := range Formats {
		_, err := Export(result, f, "")
		require.NoError(t, err)
	}
	assert.Equal(t, before, result.Records())
}

func TestExportNoData(t *testing.T) {
	_, err := Export(nil, FormatCSV, "")
	assert.ErrorIs(t, err, ErrNoData)

	empty := &types.MatchResult{Header: types.NewRow("Handle")}
	_, err = Export(empty, FormatXLSX, "")
	assert.ErrorIs(t, err, ErrNoData)
}

func TestExportUnknownFormat(t *testing.T) {
	_, err := Export(sampleResult(), Format("pdf"), "")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
		wantErr  bool
	}{
		{"xlsx", FormatXLSX, false},
		{"CSV", FormatCSV, false},
		{" .txt ", FormatTXT, false},
		{"xls", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestXLSXValue(t *testing.T) {
	assert.Equal(t, float64(42), xlsxValue("42"))
	assert.Equal(t, 1.5, xlsxValue("1.5"))
	assert.Equal(t, "007", xlsxValue("007"))
	assert.Equal(t, "1e3", xlsxValue("1e3"))
	assert.Equal(t, "RED SHIRT", xlsxValue("RED SHIRT"))
}
