package excel

import (
	"fmt"
	"io"
	"log"

	"github.com/xuri/excelize/v2"

	"serialsheets/domain/sheet"
)

// SummarySheetName is the leading sheet of every exported workbook.
const SummarySheetName = "Summary"

var summaryHeader = []string{"Sheet Name", "Records"}

// WriteWorkbook serializes the collection into an XLSX workbook: one Summary
// sheet of (name, record count) pairs followed by one sheet per collection
// entry, each with the fixed eleven-column header. Sheet names are truncated
// to the format's 31-character limit; names that collide after truncation
// are re-disambiguated within the limit.
func WriteWorkbook(c *sheet.Collection, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	// The default sheet becomes the summary.
	if err := f.SetSheetName("Sheet1", SummarySheetName); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	for i, h := range summaryHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SummarySheetName, cell, h); err != nil {
			return fmt.Errorf("failed to write summary header: %w", err)
		}
	}

	sheets := c.Sheets()
	used := map[string]bool{SummarySheetName: true}

	for i, s := range sheets {
		name := exportName(s.Name, used)
		used[name] = true

		// Summary row
		nameCell, _ := excelize.CoordinatesToCellName(1, i+2)
		countCell, _ := excelize.CoordinatesToCellName(2, i+2)
		if err := f.SetCellValue(SummarySheetName, nameCell, name); err != nil {
			return fmt.Errorf("failed to write summary row: %w", err)
		}
		if err := f.SetCellValue(SummarySheetName, countCell, len(s.Records)); err != nil {
			return fmt.Errorf("failed to write summary row: %w", err)
		}

		if err := writeSheet(f, name, s); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to serialize workbook: %w", err)
	}

	log.Printf("[Writer] exported workbook with %d sheets plus summary", len(sheets))
	return nil
}

func writeSheet(f *excelize.File, name string, s sheet.Sheet) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", name, err)
	}

	for i, h := range sheet.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(name, cell, h); err != nil {
			return fmt.Errorf("failed to write header of %q: %w", name, err)
		}
	}

	for r, rec := range s.Records {
		for cIdx, v := range rec.Values() {
			cell, _ := excelize.CoordinatesToCellName(cIdx+1, r+2)
			if err := f.SetCellValue(name, cell, v); err != nil {
				return fmt.Errorf("failed to write row %d of %q: %w", r+2, name, err)
			}
		}
	}
	return nil
}

// exportName truncates and sanitizes per sheet.ExportName, then resolves
// collisions introduced by truncation with a suffix that still fits the
// limit.
func exportName(name string, used map[string]bool) string {
	candidate := sheet.ExportName(name)
	if !used[candidate] {
		return candidate
	}
	for n := 1; ; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		base := candidate
		if len(base)+len(suffix) > sheet.NameLimit {
			base = base[:sheet.NameLimit-len(suffix)]
		}
		next := base + suffix
		if !used[next] {
			return next
		}
	}
}
