package tabular

import (
	"strings"
)

// EncodeTSV renders a header row plus data rows as tab-separated text, the
// payload handed to clipboard copy actions. Cells keep their values verbatim;
// the format carries no quoting, matching the paste-side tokenizer.
func EncodeTSV(headers []string, rows [][]string) string {
	var b strings.Builder
	b.WriteString(strings.Join(headers, "\t"))
	b.WriteString("\n")
	for _, row := range rows {
		b.WriteString(strings.Join(row, "\t"))
		b.WriteString("\n")
	}
	return b.String()
}
