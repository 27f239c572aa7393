package tabular

// Row is an ordered sequence of positional fields split from one delimited
// line of pasted text. No schema; fields are addressed by index only.
type Row []string

// RowData maps a column header to its cell value for one uploaded row.
type RowData map[string]string

// Table is the decoded form of one uploaded workbook sheet or CSV file.
// Headers are de-duplicated at decode time, so they are safe to use as
// RowData keys.
type Table struct {
	Headers []string
	Rows    []RowData
}

// HasHeader reports whether the table carries the named column.
func (t *Table) HasHeader(name string) bool {
	for _, h := range t.Headers {
		if h == name {
			return true
		}
	}
	return false
}
