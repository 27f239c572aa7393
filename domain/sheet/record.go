package sheet

// Mode selects which identity field a built record carries.
type Mode string

const (
	ModeSerial Mode = "serial"
	ModeLot    Mode = "lot"
)

// Columns is the fixed export header, one cell per Record field, in the
// order the workbook writer and clipboard encoder emit them.
var Columns = []string{
	"Serial No.",
	"Lot No.",
	"Available",
	"Usable",
	"Quantity",
	"Reserved Qty",
	"Warehouse",
	"Bin",
	"Invoice No.",
	"BOE No.",
	"Remarks",
}

// Record is one exported serial or lot number together with its constant
// companion fields. Invariant: at most one of SerialNo/LotNo is non-empty,
// chosen by the build-time mode, never per record.
type Record struct {
	SerialNo    string
	LotNo       string
	Available   string
	Usable      string
	Quantity    int
	ReservedQty int
	Warehouse   string
	Bin         string
	InvoiceNo   string
	BOENo       string
	Remarks     string
}

// BuildRecord maps one extracted identity value into a Record. Pure and
// idempotent; the non-selected identity field stays empty.
func BuildRecord(value string, mode Mode) Record {
	rec := Record{
		Available: "Yes",
		Usable:    "Yes",
		Quantity:  1,
	}
	if mode == ModeLot {
		rec.LotNo = value
	} else {
		rec.SerialNo = value
	}
	return rec
}

// Identity returns the populated identity value for the record's mode.
func (r Record) Identity() string {
	if r.LotNo != "" {
		return r.LotNo
	}
	return r.SerialNo
}

// Values returns the record cells in Columns order, typed for the workbook
// writer (quantities stay numeric).
func (r Record) Values() []interface{} {
	return []interface{}{
		r.SerialNo,
		r.LotNo,
		r.Available,
		r.Usable,
		r.Quantity,
		r.ReservedQty,
		r.Warehouse,
		r.Bin,
		r.InvoiceNo,
		r.BOENo,
		r.Remarks,
	}
}
