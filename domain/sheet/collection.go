package sheet

import (
	"fmt"
	"strings"
	"sync"
)

// NameLimit is the sheet name length cap of the XLSX format.
const NameLimit = 31

// Sheet is a named, ordered set of records destined for one worksheet.
type Sheet struct {
	Name    string
	Records []Record
}

// SummaryRow is one line of the export summary table.
type SummaryRow struct {
	Name    string `json:"name"`
	Records int    `json:"records"`
}

// Collection is the ordered set of uniquely named sheets accumulated over a
// session. It is the only state shared between handler invocations, so all
// operations take the lock even though each single pipeline run is
// synchronous.
type Collection struct {
	mu     sync.RWMutex
	sheets []Sheet
}

// NewCollection creates an empty sheet collection
func NewCollection() *Collection {
	return &Collection{}
}

// Append adds a sheet, disambiguating a colliding name with the smallest
// ` (n)` suffix, n >= 1, and returns the stored name.
func (c *Collection) Append(s Sheet) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	s.Name = c.uniqueName(s.Name)
	c.sheets = append(c.sheets, s)
	return s.Name
}

// ReplaceAt overwrites the sheet at the given index in place, preserving its
// position. The new name is disambiguated against every other sheet.
func (c *Collection) ReplaceAt(index int, s Sheet) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index < 0 || index >= len(c.sheets) {
		return fmt.Errorf("sheet index %d out of range (have %d sheets)", index, len(c.sheets))
	}
	if s.Name != c.sheets[index].Name {
		s.Name = c.uniqueName(s.Name)
	}
	c.sheets[index] = s
	return nil
}

// RemoveAt deletes the sheet at the given index.
func (c *Collection) RemoveAt(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index < 0 || index >= len(c.sheets) {
		return fmt.Errorf("sheet index %d out of range (have %d sheets)", index, len(c.sheets))
	}
	c.sheets = append(c.sheets[:index], c.sheets[index+1:]...)
	return nil
}

// At returns a copy of the sheet at the given index.
func (c *Collection) At(index int) (Sheet, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if index < 0 || index >= len(c.sheets) {
		return Sheet{}, fmt.Errorf("sheet index %d out of range (have %d sheets)", index, len(c.sheets))
	}
	return c.sheets[index], nil
}

// Sheets returns a snapshot of the collection in insertion order.
func (c *Collection) Sheets() []Sheet {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Sheet, len(c.sheets))
	copy(out, c.sheets)
	return out
}

// Len returns the number of sheets.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sheets)
}

// Summary returns the (name, record count) table for the export's leading
// Summary sheet, names truncated to the format limit.
func (c *Collection) Summary() []SummaryRow {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rows := make([]SummaryRow, len(c.sheets))
	for i, s := range c.sheets {
		rows[i] = SummaryRow{Name: ExportName(s.Name), Records: len(s.Records)}
	}
	return rows
}

// uniqueName finds the smallest suffixed variant not already present.
// Callers must hold the lock.
func (c *Collection) uniqueName(name string) string {
	if !c.nameTaken(name) {
		return name
	}
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s (%d)", name, n)
		if !c.nameTaken(candidate) {
			return candidate
		}
	}
}

func (c *Collection) nameTaken(name string) bool {
	for _, s := range c.sheets {
		if s.Name == name {
			return true
		}
	}
	return false
}

// ExportName truncates a sheet name to the XLSX 31-character limit and
// strips the characters the format forbids in sheet names.
func ExportName(name string) string {
	replacer := strings.NewReplacer(":", " ", "\\", " ", "/", " ", "?", " ", "*", " ", "[", " ", "]", " ")
	name = replacer.Replace(name)
	if len(name) > NameLimit {
		name = name[:NameLimit]
	}
	return name
}
