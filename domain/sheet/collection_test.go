package sheet

import (
	"strings"
	"testing"
)

// TestBuildRecordModeInvariant tests that exactly one identity field is set per mode
func TestBuildRecordModeInvariant(t *testing.T) {
	serial := BuildRecord("SN001", ModeSerial)
	if serial.SerialNo != "SN001" {
		t.Errorf("Expected SerialNo 'SN001', got '%s'", serial.SerialNo)
	}
	if serial.LotNo != "" {
		t.Errorf("Expected empty LotNo in serial mode, got '%s'", serial.LotNo)
	}

	lot := BuildRecord("LOT-7", ModeLot)
	if lot.LotNo != "LOT-7" {
		t.Errorf("Expected LotNo 'LOT-7', got '%s'", lot.LotNo)
	}
	if lot.SerialNo != "" {
		t.Errorf("Expected empty SerialNo in lot mode, got '%s'", lot.SerialNo)
	}
}

// TestBuildRecordCompanions tests the constant companion fields
func TestBuildRecordCompanions(t *testing.T) {
	rec := BuildRecord("SN001", ModeSerial)
	if rec.Available != "Yes" || rec.Usable != "Yes" {
		t.Errorf("Availability flags should be 'Yes', got '%s'/'%s'", rec.Available, rec.Usable)
	}
	if rec.Quantity != 1 {
		t.Errorf("Quantity should be 1, got %d", rec.Quantity)
	}
	if rec.ReservedQty != 0 {
		t.Errorf("ReservedQty should be 0, got %d", rec.ReservedQty)
	}
	if rec.Warehouse != "" || rec.Bin != "" || rec.InvoiceNo != "" || rec.BOENo != "" || rec.Remarks != "" {
		t.Errorf("Remaining companion fields should be blank: %+v", rec)
	}
}

// TestRecordValuesWidth tests that Values matches the fixed export header
func TestRecordValuesWidth(t *testing.T) {
	rec := BuildRecord("SN001", ModeSerial)
	values := rec.Values()
	if len(values) != len(Columns) {
		t.Fatalf("Expected %d cells, got %d", len(Columns), len(values))
	}
	if len(Columns) != 11 {
		t.Fatalf("Export header must stay eleven columns, got %d", len(Columns))
	}
}

// TestAppendDisambiguation tests the duplicate-name suffix rule
func TestAppendDisambiguation(t *testing.T) {
	c := NewCollection()

	name1 := c.Append(Sheet{Name: "Batch A"})
	name2 := c.Append(Sheet{Name: "Batch A"})
	name3 := c.Append(Sheet{Name: "Batch A"})

	if name1 != "Batch A" {
		t.Errorf("First append should keep the name, got '%s'", name1)
	}
	if name2 != "Batch A (1)" {
		t.Errorf("Second append should be 'Batch A (1)', got '%s'", name2)
	}
	if name3 != "Batch A (2)" {
		t.Errorf("Third append should be 'Batch A (2)', got '%s'", name3)
	}
}

// TestAppendFillsGaps tests that the smallest free suffix is used
func TestAppendFillsGaps(t *testing.T) {
	c := NewCollection()
	c.Append(Sheet{Name: "X"})
	c.Append(Sheet{Name: "X"}) // X (1)
	c.Append(Sheet{Name: "X"}) // X (2)

	if err := c.RemoveAt(1); err != nil {
		t.Fatal(err)
	}

	name := c.Append(Sheet{Name: "X"})
	if name != "X (1)" {
		t.Errorf("Expected gap 'X (1)' to be reused, got '%s'", name)
	}
}

// TestReplaceAt tests in-place edit preserving position
func TestReplaceAt(t *testing.T) {
	c := NewCollection()
	c.Append(Sheet{Name: "A"})
	c.Append(Sheet{Name: "B"})

	if err := c.ReplaceAt(0, Sheet{Name: "A", Records: []Record{BuildRecord("SN1", ModeSerial)}}); err != nil {
		t.Fatal(err)
	}

	sheets := c.Sheets()
	if sheets[0].Name != "A" || len(sheets[0].Records) != 1 {
		t.Errorf("Replace did not preserve position/name: %+v", sheets[0])
	}

	// Renaming onto an existing name must still disambiguate
	if err := c.ReplaceAt(1, Sheet{Name: "A"}); err != nil {
		t.Fatal(err)
	}
	if got := c.Sheets()[1].Name; got != "A (1)" {
		t.Errorf("Expected renamed sheet 'A (1)', got '%s'", got)
	}

	if err := c.ReplaceAt(9, Sheet{Name: "Z"}); err == nil {
		t.Error("Expected error for out-of-range replace")
	}
}

// TestRemoveAt tests deletion and range checks
func TestRemoveAt(t *testing.T) {
	c := NewCollection()
	c.Append(Sheet{Name: "A"})
	c.Append(Sheet{Name: "B"})

	if err := c.RemoveAt(0); err != nil {
		t.Fatal(err)
	}
	if c.Len() != 1 || c.Sheets()[0].Name != "B" {
		t.Errorf("Remove left wrong state: %+v", c.Sheets())
	}
	if err := c.RemoveAt(5); err == nil {
		t.Error("Expected error for out-of-range remove")
	}
}

// TestSummary tests the export summary table
func TestSummary(t *testing.T) {
	c := NewCollection()
	c.Append(Sheet{Name: "S1", Records: []Record{
		BuildRecord("a", ModeSerial), BuildRecord("b", ModeSerial), BuildRecord("c", ModeSerial),
	}})
	c.Append(Sheet{Name: "S2", Records: []Record{
		BuildRecord("d", ModeSerial), BuildRecord("e", ModeSerial), BuildRecord("f", ModeSerial),
		BuildRecord("g", ModeSerial), BuildRecord("h", ModeSerial),
	}})

	rows := c.Summary()
	if len(rows) != 2 {
		t.Fatalf("Expected 2 summary rows, got %d", len(rows))
	}
	if rows[0].Records != 3 || rows[1].Records != 5 {
		t.Errorf("Expected counts [3 5], got [%d %d]", rows[0].Records, rows[1].Records)
	}
	if rows[0].Name != "S1" || rows[1].Name != "S2" {
		t.Errorf("Summary out of sheet order: %+v", rows)
	}
}

// TestExportName tests truncation and forbidden-character handling
func TestExportName(t *testing.T) {
	long := strings.Repeat("x", 40)
	if got := ExportName(long); len(got) != NameLimit {
		t.Errorf("Expected %d chars, got %d", NameLimit, len(got))
	}
	if got := ExportName("P1 / I-22"); strings.Contains(got, "/") {
		t.Errorf("Forbidden character survived: %q", got)
	}
	if got := ExportName("short"); got != "short" {
		t.Errorf("Short name should pass through, got %q", got)
	}
}
