package tabular

import (
	"strings"
)

// Field returns the trimmed value at the zero-based column index, or
// ok=false when the index is out of range or the value is empty after
// trimming.
func (r Row) Field(col int) (string, bool) {
	if col < 0 || col >= len(r) {
		return "", false
	}
	v := strings.TrimSpace(r[col])
	if v == "" {
		return "", false
	}
	return v, true
}

// Field returns the trimmed value of the named column, or ok=false when the
// header is not present in the row or the value is empty after trimming.
func (d RowData) Field(header string) (string, bool) {
	v, exists := d[header]
	if !exists {
		return "", false
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return "", false
	}
	return v, true
}

// ExtractIndex pulls one field per row at the given column index. Absent
// values are filtered out entirely, they never produce placeholders.
func ExtractIndex(rows []Row, col int) []string {
	values := make([]string, 0, len(rows))
	for _, row := range rows {
		if v, ok := row.Field(col); ok {
			values = append(values, v)
		}
	}
	return values
}

// ExtractColumn pulls the named column from parsed rows, dropping absent and
// blank values.
func ExtractColumn(rows []RowData, header string) []string {
	values := make([]string, 0, len(rows))
	for _, row := range rows {
		if v, ok := row.Field(header); ok {
			values = append(values, v)
		}
	}
	return values
}
