package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"serialsheets/domain/tabular"
	"serialsheets/internal/errors"
)

// DataReader decodes uploaded workbook and delimited-text files into the
// rectangular cell grid the pipeline consumes.
type DataReader struct {
	filename string
	fileType string // "xlsx", "csv" or "tsv"
}

// NewDataReader creates a reader for the given upload filename. The
// extension decides the decode path: .csv and .tsv/.txt go through the
// delimited-text reader, everything else through excelize.
func NewDataReader(filename string) *DataReader {
	fileType := "xlsx"
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		fileType = "csv"
	case ".tsv", ".txt":
		fileType = "tsv"
	}
	return &DataReader{filename: filename, fileType: fileType}
}

// ReadWorkbook decodes the upload. For workbooks, sheetName selects the
// sheet to decode; empty means the first sheet. Delimited files always have
// exactly one unnamed sheet.
func (r *DataReader) ReadWorkbook(src io.Reader, sheetName string) (*Workbook, error) {
	log.Printf("[DataReader] decoding %s upload: %s", r.fileType, r.filename)

	switch r.fileType {
	case "csv":
		return r.readDelimited(src, ',')
	case "tsv":
		return r.readDelimited(src, '\t')
	default:
		return r.readExcel(src, sheetName)
	}
}

func (r *DataReader) readExcel(src io.Reader, sheetName string) (*Workbook, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, errors.ParseError(fmt.Sprintf("failed to open workbook %s: %v", r.filename, err))
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.ParseError("workbook contains no sheets")
	}

	active := sheets[0]
	if sheetName != "" {
		found := false
		for _, s := range sheets {
			if s == sheetName {
				active = s
				found = true
				break
			}
		}
		if !found {
			return nil, errors.ParseError(fmt.Sprintf("sheet %q not found in workbook", sheetName))
		}
	}

	rows, err := f.GetRows(active)
	if err != nil {
		return nil, errors.ParseError(fmt.Sprintf("failed to read sheet %q: %v", active, err))
	}

	table, err := buildTable(rows)
	if err != nil {
		return nil, err
	}

	log.Printf("[DataReader] decoded sheet %q (%d columns, %d rows)", active, len(table.Headers), len(table.Rows))
	return &Workbook{Table: table, SheetNames: sheets, ActiveName: active}, nil
}

func (r *DataReader) readDelimited(src io.Reader, comma rune) (*Workbook, error) {
	reader := csv.NewReader(src)
	reader.Comma = comma
	reader.FieldsPerRecord = -1 // short rows are absent fields, not errors
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.ParseError(fmt.Sprintf("failed to read %s file: %v", strings.ToUpper(r.fileType), err))
	}

	table, err := buildTable(rows)
	if err != nil {
		return nil, err
	}

	log.Printf("[DataReader] decoded %s file (%d columns, %d rows)", strings.ToUpper(r.fileType), len(table.Headers), len(table.Rows))
	return &Workbook{Table: table, SheetNames: nil, ActiveName: ""}, nil
}

// buildTable turns the raw cell grid into headers plus row maps. Fully blank
// rows are dropped; the first retained row is the header.
func buildTable(rows [][]string) (*tabular.Table, error) {
	retained := make([][]string, 0, len(rows))
	for _, row := range rows {
		if !blankRow(row) {
			retained = append(retained, row)
		}
	}

	if len(retained) < 2 {
		return nil, errors.ParseError("file must have at least a header row and one data row")
	}

	headers := dedupeHeaders(retained[0])

	dataRows := make([]tabular.RowData, 0, len(retained)-1)
	for _, row := range retained[1:] {
		rowData := make(tabular.RowData, len(headers))
		for j, cell := range row {
			if j < len(headers) {
				rowData[headers[j]] = strings.TrimSpace(cell)
			}
		}
		dataRows = append(dataRows, rowData)
	}

	return &tabular.Table{Headers: headers, Rows: dataRows}, nil
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// dedupeHeaders trims header cells, names blank ones positionally and
// suffixes repeats so headers are usable as row-map keys.
func dedupeHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	seen := make(map[string]bool, len(raw))

	for i, h := range raw {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Column %d", i+1)
		}
		if seen[h] {
			base := h
			for n := 1; ; n++ {
				h = fmt.Sprintf("%s (%d)", base, n)
				if !seen[h] {
					break
				}
			}
		}
		seen[h] = true
		headers[i] = h
	}
	return headers
}
