package tabular

import (
	"strings"
)

// Tokenize splits raw pasted text into rows of delimited fields. Lines that
// are empty after trimming are dropped; when skipHeader is set the first
// retained line is discarded. A line containing at least one tab splits on
// tab, otherwise on comma. Short rows are not an error — missing trailing
// fields are simply absent.
func Tokenize(text string, skipHeader bool) []Row {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	rows := make([]Row, 0, len(lines))
	first := true
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if first && skipHeader {
			first = false
			continue
		}
		first = false
		rows = append(rows, splitLine(line))
	}
	return rows
}

// splitLine applies the delimiter precedence rule: tab wins over comma.
func splitLine(line string) Row {
	if strings.Contains(line, "\t") {
		return Row(strings.Split(line, "\t"))
	}
	return Row(strings.Split(line, ","))
}
