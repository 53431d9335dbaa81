package xlsxparser

import (
	"math"
	"strconv"
	"time"
)

// CellKind is the dynamic type of a spreadsheet cell.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellText
	CellNumber
	CellDate
	CellBool
)

// String returns the kind name.
func (k CellKind) String() string {
	switch k {
	case CellText:
		return "text"
	case CellNumber:
		return "number"
	case CellDate:
		return "date"
	case CellBool:
		return "bool"
	default:
		return "empty"
	}
}

// Cell is one untyped spreadsheet value. Only the field matching Kind is set.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
	Time   time.Time
	Bool   bool
}

// Row is an ordered sequence of cells.
type Row []Cell

// At returns the cell at index i, or an empty cell when the row is shorter.
func (r Row) At(i int) Cell {
	if i < 0 || i >= len(r) {
		return Cell{}
	}
	return r[i]
}

// TextCell builds a text cell.
func TextCell(s string) Cell { return Cell{Kind: CellText, Text: s} }

// NumberCell builds a numeric cell.
func NumberCell(f float64) Cell { return Cell{Kind: CellNumber, Number: f} }

// DateCell builds a date cell.
func DateCell(t time.Time) Cell { return Cell{Kind: CellDate, Time: t} }

// BoolCell builds a boolean cell.
func BoolCell(b bool) Cell { return Cell{Kind: CellBool, Bool: b} }

// TextRow builds a row of text cells; empty strings become empty cells.
func TextRow(values ...string) Row {
	row := make(Row, len(values))
	for i, v := range values {
		if v != "" {
			row[i] = TextCell(v)
		}
	}
	return row
}

// FormatNumber renders a float the way a spreadsheet shows a general number:
// no exponent and no trailing zeros.
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// excelEpochOffset is the number of days between the spreadsheet serial
// epoch (1899-12-30) and the Unix epoch.
const excelEpochOffset = 25569

// maxDateMillis bounds representable dates to +/-100,000,000 days around the
// Unix epoch.
const maxDateMillis = 8.64e15

// SerialTime converts a spreadsheet serial day number to a UTC time.
// Serial 1 is 1899-12-31 and serial 25569 is 1970-01-01. There is no
// correction for the phantom 1900-02-29.
func SerialTime(serial float64) (time.Time, bool) {
	if math.IsNaN(serial) || math.IsInf(serial, 0) {
		return time.Time{}, false
	}
	ms := math.Round((serial - excelEpochOffset) * 86400 * 1000)
	if math.Abs(ms) > maxDateMillis {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(ms)).UTC(), true
}
