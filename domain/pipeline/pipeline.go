package pipeline

import (
	"log"
	"strconv"
	"strings"

	"serialsheets/domain/core"
	"serialsheets/domain/sheet"
	"serialsheets/domain/tabular"
	"serialsheets/internal/errors"
)

// Result is the outcome of one pipeline run: candidate sheets plus
// non-blocking diagnostics. Callers append the sheets to their collection
// only after the run returned without error.
type Result struct {
	RunID      core.RunID    `json:"run_id"`
	Sheets     []sheet.Sheet `json:"sheets"`
	Mismatches []Mismatch    `json:"mismatches"`
}

// RunText processes pasted delimited text into a single named sheet: tokenize,
// extract the configured column, build records.
func RunText(text string, opts Options) (*Result, error) {
	runID := core.NewRunID()

	name := strings.TrimSpace(opts.SheetName)
	if name == "" {
		return nil, errors.InvalidInput("sheet name is required")
	}

	rows := tabular.Tokenize(text, opts.SkipHeader)
	if len(rows) == 0 {
		return nil, errors.EmptyInput("no non-blank lines in input")
	}

	values := tabular.ExtractIndex(rows, opts.Column)
	if opts.Duplicates == DropDuplicates {
		values = dedupe(values)
	}
	if len(values) == 0 {
		return nil, errors.EmptyInput("no values found in the selected column")
	}

	var mismatches []Mismatch
	if opts.Validate {
		mismatches = validateGroup(name, values)
	}

	records := make([]sheet.Record, len(values))
	for i, v := range values {
		records[i] = sheet.BuildRecord(v, opts.Mode)
	}

	log.Printf("[Pipeline] run %s: text input produced sheet %q (%d records, %d mismatches)",
		runID, name, len(records), len(mismatches))

	return &Result{
		RunID:      runID,
		Sheets:     []sheet.Sheet{{Name: name, Records: records}},
		Mismatches: mismatches,
	}, nil
}

// RunTable processes uploaded-file rows: resolve the column mapping, group by
// the configured key, apply the quantity guard, extract identity values and
// build one candidate sheet per non-empty group. GroupNone falls back to
// part-level grouping since the file path always groups at least by part.
func RunTable(table *tabular.Table, mapping Mapping, opts Options) (*Result, error) {
	runID := core.NewRunID()

	grouping := opts.Grouping
	if grouping == GroupNone {
		grouping = GroupPart
	}

	if !mapping.Selected(grouping) {
		return nil, errors.EmptyInput("no column mapping selected for the active mode")
	}
	if missing := mapping.Missing(table.Headers, grouping); len(missing) > 0 {
		return nil, errors.MappingError(missing)
	}

	groups := groupRows(table.Rows, mapping, grouping)

	result := &Result{RunID: runID}
	for _, g := range groups {
		values := extractGroup(g.rows, mapping)
		if opts.Duplicates == DropDuplicates {
			values = dedupe(values)
		}
		// A group with nothing left after filtering produces no sheet.
		if len(values) == 0 {
			continue
		}

		if opts.Validate {
			result.Mismatches = append(result.Mismatches, validateGroup(g.key, values)...)
		}

		records := make([]sheet.Record, len(values))
		for i, v := range values {
			records[i] = sheet.BuildRecord(v, opts.Mode)
		}
		result.Sheets = append(result.Sheets, sheet.Sheet{Name: g.key, Records: records})
	}

	if len(result.Sheets) == 0 {
		return nil, errors.EmptyInput("no rows survived grouping and filtering")
	}

	log.Printf("[Pipeline] run %s: grouped %d rows into %d sheets (%d mismatches)",
		runID, len(table.Rows), len(result.Sheets), len(result.Mismatches))

	return result, nil
}

// group accumulates the rows of one group key in input order.
type group struct {
	key  string
	rows []tabular.RowData
}

// groupRows partitions rows by the group key formula, preserving input order
// of both groups and their members. Rows missing the part, identity or (in
// invoice mode) invoice field are skipped outright.
func groupRows(rows []tabular.RowData, mapping Mapping, grouping Grouping) []group {
	index := make(map[string]int)
	var groups []group

	for _, row := range rows {
		part, ok := row.Field(mapping.Part)
		if !ok {
			continue
		}
		if _, ok := row.Field(mapping.Serial); !ok {
			continue
		}

		key := part
		if grouping == GroupPartInvoice {
			invoice, ok := row.Field(mapping.Invoice)
			if !ok {
				continue
			}
			key = part + " - " + invoice
		}

		i, exists := index[key]
		if !exists {
			i = len(groups)
			index[key] = i
			groups = append(groups, group{key: key})
		}
		groups[i].rows = append(groups[i].rows, row)
	}
	return groups
}

// extractGroup applies the quantity guard and pulls the identity values of
// the retained rows. Only unit-quantity lines correspond to individually
// serialized items: a quantity that is blank or does not parse as a number
// is not retainable.
func extractGroup(rows []tabular.RowData, mapping Mapping) []string {
	values := make([]string, 0, len(rows))
	for _, row := range rows {
		qty, ok := row.Field(mapping.Quantity)
		if !ok {
			continue
		}
		n, err := strconv.ParseFloat(qty, 64)
		if err != nil || n > 1 {
			continue
		}
		if v, ok := row.Field(mapping.Serial); ok {
			values = append(values, v)
		}
	}
	return values
}
