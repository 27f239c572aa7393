package excel

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"serialsheets/domain/sheet"
)

func TestWriteWorkbook(t *testing.T) {
	c := sheet.NewCollection()
	c.Append(sheet.Sheet{Name: "Batch A", Records: []sheet.Record{
		sheet.BuildRecord("SN001", sheet.ModeSerial),
		sheet.BuildRecord("SN002", sheet.ModeSerial),
		sheet.BuildRecord("SN003", sheet.ModeSerial),
	}})
	c.Append(sheet.Sheet{Name: "Batch B", Records: []sheet.Record{
		sheet.BuildRecord("LOT-1", sheet.ModeLot),
	}})

	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(c, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	// Summary comes first with one row per sheet
	sheets := f.GetSheetList()
	require.Equal(t, []string{SummarySheetName, "Batch A", "Batch B"}, sheets)

	rows, err := f.GetRows(SummarySheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Sheet Name", "Records"}, rows[0])
	assert.Equal(t, []string{"Batch A", "3"}, rows[1])
	assert.Equal(t, []string{"Batch B", "1"}, rows[2])

	// Data sheets carry the fixed header and one row per record
	dataRows, err := f.GetRows("Batch A")
	require.NoError(t, err)
	require.Len(t, dataRows, 4)
	assert.Equal(t, sheet.Columns, dataRows[0])
	assert.Equal(t, "SN001", dataRows[1][0])

	lotRows, err := f.GetRows("Batch B")
	require.NoError(t, err)
	assert.Equal(t, "LOT-1", lotRows[1][1])
	assert.Equal(t, "", lotRows[1][0])
}

func TestWriteWorkbookTruncatesNames(t *testing.T) {
	long := strings.Repeat("x", 40)
	c := sheet.NewCollection()
	c.Append(sheet.Sheet{Name: long, Records: []sheet.Record{sheet.BuildRecord("a", sheet.ModeSerial)}})

	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(c, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	require.Len(t, sheets, 2)
	assert.Len(t, sheets[1], sheet.NameLimit)
}

func TestWriteWorkbookTruncationCollision(t *testing.T) {
	// Distinct collection names that collide once truncated to 31 chars
	base := strings.Repeat("y", 31)
	c := sheet.NewCollection()
	c.Append(sheet.Sheet{Name: base + "-one", Records: []sheet.Record{sheet.BuildRecord("a", sheet.ModeSerial)}})
	c.Append(sheet.Sheet{Name: base + "-two", Records: []sheet.Record{sheet.BuildRecord("b", sheet.ModeSerial)}})

	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(c, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	require.Len(t, sheets, 3)
	assert.NotEqual(t, sheets[1], sheets[2])
	for _, name := range sheets[1:] {
		assert.LessOrEqual(t, len(name), sheet.NameLimit)
	}
}

func TestWriteWorkbookEmptyCollection(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(sheet.NewCollection(), &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{SummarySheetName}, f.GetSheetList())
}
