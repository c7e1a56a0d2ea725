package table

import (
	"errors"
	"testing"

	"github.com/nconklindev/stylematch/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func xlsxFixture(t *testing.T, first [][]interface{}, extraSheet bool) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range first {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	if extraSheet {
		_, err := f.NewSheet("Other")
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Other", "A1", &[]interface{}{"Handle", "Ignored"}))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestParseCSV(t *testing.T) {
	data := []byte("Handle,Title\nBlue-Shirt,Shirt\n\"RED SHIRT\",Shirt2\n,No handle\n")

	got, err := Parse("primary", data)
	require.NoError(t, err)

	assert.Equal(t, types.NewRow("Handle", "Title"), got.Header)
	require.Len(t, got.Body, 3)
	assert.Equal(t, types.NewRow("RED SHIRT", "Shirt2"), got.Body[1])
	assert.False(t, got.Body[2].At(0).Present, "blank field should be absent")
	assert.Equal(t, "No handle", got.Body[2].At(1).Text)
}

func TestParseCSVWithBOMAndRaggedRows(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Handle,Title,Extra\nonly-handle\na,b,c,d\n")...)

	got, err := Parse("primary", data)
	require.NoError(t, err)

	assert.Equal(t, 0, FindColumn(got.Header, "Handle"))
	require.Len(t, got.Body, 2)
	assert.Len(t, got.Body[0], 1)
	assert.Len(t, got.Body[1], 4)
}

func TestParseCSVBareQuotes(t *testing.T) {
	data := []byte("Handle,Title\nRED SHIRT,Shirt 5\" sleeve\n\"quoted, field\",ok\n")

	got, err := Parse("primary", data)
	require.NoError(t, err)

	require.Len(t, got.Body, 2)
	assert.Equal(t, types.NewRow("RED SHIRT", `Shirt 5" sleeve`), got.Body[0])
	assert.Equal(t, types.NewRow("quoted, field", "ok"), got.Body[1])
}

func TestParseXLSXFirstSheetOnly(t *testing.T) {
	data := xlsxFixture(t, [][]interface{}{
		{"Body/Fabric", "Qty"},
		{"red shirt", 3},
		{"green pants", 0},
	}, true)

	got, err := Parse("reference", data)
	require.NoError(t, err)

	assert.Equal(t, types.NewRow("Body/Fabric", "Qty"), got.Header)
	require.Len(t, got.Body, 2)
	assert.Equal(t, types.NewRow("red shirt", "3"), got.Body[0])
	assert.Equal(t, types.NewRow("green pants", "0"), got.Body[1])
}

func TestParseXLSXBlankCells(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "Title"))
	require.NoError(t, f.SetCellValue("Sheet1", "B1", "Handle"))
	require.NoError(t, f.SetCellValue("Sheet1", "C1", "Notes"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "no handle"))
	require.NoError(t, f.SetCellValue("Sheet1", "C2", "n"))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	got, err := Parse("primary", buf.Bytes())
	require.NoError(t, err)
	require.Len(t, got.Body, 1)
	assert.False(t, got.Body[0].At(1).Present)
	assert.Equal(t, "n", got.Body[0].At(2).Text)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  []byte
		target error
	}{
		{"Empty bytes", []byte{}, ErrEmpty},
		{"Legacy workbook", []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1}, ErrUnsupported},
		{"Binary garbage", []byte{0xFF, 0xFE, 0x00, 0x81}, ErrUnsupported},
		{"Broken zip", []byte("PK\x03\x04not really a workbook"), nil},
		{"Invalid UTF-8 after header", []byte("Handle\n\xff\xfe"), ErrUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("primary", tt.input)
			require.Error(t, err)

			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr), "expected *ParseError, got %T", err)
			assert.Equal(t, "primary", parseErr.Source)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
		})
	}
}

func TestFindColumn(t *testing.T) {
	header := types.Row{types.Text("Title"), types.Cell{}, types.Text("Handle"), types.Text("Handle")}

	tests := []struct {
		name     string
		column   string
		expected int
	}{
		{"Exact match", "Title", 0},
		{"First of duplicates", "Handle", 2},
		{"Case sensitive", "handle", NotFound},
		{"Whitespace sensitive", "Handle ", NotFound},
		{"Missing", "Body/Fabric", NotFound},
		{"Blank header cells never match", "", NotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FindColumn(header, tt.column))
		})
	}
}
