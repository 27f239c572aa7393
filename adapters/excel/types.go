package excel

import (
	"serialsheets/domain/tabular"
)

// Workbook is the decoded form of one uploaded file: the cell grid of the
// chosen sheet plus the workbook's full sheet list so the caller can offer a
// sheet picker when more than one exists.
type Workbook struct {
	Table      *tabular.Table
	SheetNames []string
	ActiveName string
}
