package excel

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"serialsheets/internal/errors"
)

func xlsxBytes(t *testing.T, sheets map[string][][]string) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	first := true
	for name, rows := range sheets {
		if first {
			require.NoError(t, f.SetSheetName("Sheet1", name))
			first = false
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for r, row := range rows {
			for c, v := range row {
				cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
				require.NoError(t, f.SetCellValue(name, cell, v))
			}
		}
	}

	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)
	return &buf
}

func TestReadWorkbookFirstSheet(t *testing.T) {
	buf := xlsxBytes(t, map[string][][]string{
		"Data": {
			{"Part", "Qty", "Serial"},
			{"P1", "1", "SN001"},
			{"", "", ""},
			{"P2", "1", "SN002"},
		},
	})

	wb, err := NewDataReader("upload.xlsx").ReadWorkbook(buf, "")
	require.NoError(t, err)

	assert.Equal(t, "Data", wb.ActiveName)
	assert.Equal(t, []string{"Part", "Qty", "Serial"}, wb.Table.Headers)
	// The fully blank row is dropped
	require.Len(t, wb.Table.Rows, 2)
	assert.Equal(t, "SN002", wb.Table.Rows[1]["Serial"])
}

func TestReadWorkbookChosenSheet(t *testing.T) {
	buf := xlsxBytes(t, map[string][][]string{
		"First": {
			{"A"},
			{"1"},
		},
	})
	// Build a two-sheet workbook deterministically
	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	_, err = f.NewSheet("Second")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Second", "A1", "Part"))
	require.NoError(t, f.SetCellValue("Second", "A2", "P9"))
	var two bytes.Buffer
	_, err = f.WriteTo(&two)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	wb, err := NewDataReader("upload.xlsx").ReadWorkbook(&two, "Second")
	require.NoError(t, err)
	assert.Equal(t, "Second", wb.ActiveName)
	assert.ElementsMatch(t, []string{"First", "Second"}, wb.SheetNames)
	assert.Equal(t, "P9", wb.Table.Rows[0]["Part"])

	_, err = NewDataReader("upload.xlsx").ReadWorkbook(bytes.NewReader(two.Bytes()), "Nope")
	require.Error(t, err)
	assert.Equal(t, errors.CodeParseError, errors.GetCode(err))
}

func TestReadWorkbookTooFewRows(t *testing.T) {
	buf := xlsxBytes(t, map[string][][]string{
		"Data": {{"OnlyHeader"}},
	})
	_, err := NewDataReader("upload.xlsx").ReadWorkbook(buf, "")
	require.Error(t, err)
	assert.Equal(t, errors.CodeParseError, errors.GetCode(err))
}

func TestReadCSV(t *testing.T) {
	src := strings.NewReader("Part,Qty,Serial\nP1,1,SN001\nP1,2,SN002\n")
	wb, err := NewDataReader("upload.csv").ReadWorkbook(src, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Part", "Qty", "Serial"}, wb.Table.Headers)
	require.Len(t, wb.Table.Rows, 2)
	assert.Equal(t, "2", wb.Table.Rows[1]["Qty"])
}

func TestReadTSV(t *testing.T) {
	src := strings.NewReader("Part\tSerial\nP1\tSN001\n")
	wb, err := NewDataReader("upload.tsv").ReadWorkbook(src, "")
	require.NoError(t, err)
	assert.Equal(t, "SN001", wb.Table.Rows[0]["Serial"])
}

func TestReadCSVShortRows(t *testing.T) {
	// Short rows mean absent fields, not an error
	src := strings.NewReader("Part,Qty,Serial\nP1\nP2,1,SN002\n")
	wb, err := NewDataReader("upload.csv").ReadWorkbook(src, "")
	require.NoError(t, err)
	require.Len(t, wb.Table.Rows, 2)
	_, ok := wb.Table.Rows[0]["Serial"]
	assert.False(t, ok)
}

func TestReadGarbage(t *testing.T) {
	_, err := NewDataReader("upload.xlsx").ReadWorkbook(strings.NewReader("not a zip"), "")
	require.Error(t, err)
	assert.Equal(t, errors.CodeParseError, errors.GetCode(err))
}

func TestDedupeHeaders(t *testing.T) {
	got := dedupeHeaders([]string{" Qty ", "Qty", "", "Qty"})
	assert.Equal(t, []string{"Qty", "Qty (1)", "Column 3", "Qty (2)"}, got)
}
