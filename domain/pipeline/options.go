package pipeline

import (
	"serialsheets/domain/sheet"
)

// Grouping selects the group key formula for the file-upload path.
type Grouping string

const (
	// GroupNone is the manual-entry path: no grouping, one sheet.
	GroupNone Grouping = "none"
	// GroupPart keys groups by part number alone.
	GroupPart Grouping = "part"
	// GroupPartInvoice keys groups by part number plus invoice/BOE id.
	GroupPartInvoice Grouping = "part+invoice"
)

// DuplicatePolicy decides what happens when a group contains the same
// identity value twice. The original tool's page variants disagreed, so the
// behavior is an explicit option rather than a guess.
type DuplicatePolicy string

const (
	// FlagDuplicates keeps repeats in the output and reports them as
	// validation mismatches.
	FlagDuplicates DuplicatePolicy = "flag-and-keep"
	// DropDuplicates removes repeats from the output without reporting.
	DropDuplicates DuplicatePolicy = "drop-silently"
)

// Options configures one pipeline run. A single parameterized pipeline
// replaces the near-duplicate per-page variants of the original tool.
type Options struct {
	Mode       sheet.Mode
	Grouping   Grouping
	Validate   bool
	Duplicates DuplicatePolicy

	// Manual text path only
	SkipHeader bool
	Column     int    // zero-based column index of the identity value
	SheetName  string // name for the single produced sheet
}

// DefaultOptions returns the configuration of the most common flow: serial
// numbers, part-level grouping, validation on, duplicates flagged but kept.
func DefaultOptions() Options {
	return Options{
		Mode:       sheet.ModeSerial,
		Grouping:   GroupPart,
		Validate:   true,
		Duplicates: FlagDuplicates,
	}
}

// Mapping holds the column-header selections for the file-upload path. It is
// what the preference store persists under the fixed key.
type Mapping struct {
	Part     string `json:"part" db:"part_column"`
	Invoice  string `json:"invoice" db:"invoice_column"`
	Quantity string `json:"quantity" db:"quantity_column"`
	Serial   string `json:"serial" db:"serial_column"`
}

// IsZero reports whether no column has been selected at all.
func (m Mapping) IsZero() bool {
	return m.Part == "" && m.Invoice == "" && m.Quantity == "" && m.Serial == ""
}

// required lists the headers a run with the given grouping must resolve.
func (m Mapping) required(grouping Grouping) []string {
	cols := []string{m.Part, m.Quantity, m.Serial}
	if grouping == GroupPartInvoice {
		cols = append(cols, m.Invoice)
	}
	return cols
}

// Missing returns the selected headers absent from the given header set, in
// selection order. An empty result means the mapping resolves fully.
func (m Mapping) Missing(headers []string, grouping Grouping) []string {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}

	var missing []string
	for _, col := range m.required(grouping) {
		if col != "" && !present[col] {
			missing = append(missing, col)
		}
	}
	return missing
}

// Selected reports whether every header a run with the given grouping needs
// has been chosen.
func (m Mapping) Selected(grouping Grouping) bool {
	for _, col := range m.required(grouping) {
		if col == "" {
			return false
		}
	}
	return true
}
