package sheetparser

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ginjaninja78/grte-converter/internal/xlsxparser"
)

// =============================================================================
// CELL COERCION
// =============================================================================
// Coercion never fails: anything that cannot be read as the requested type
// is reported as absent (nil). Rows that are still being filled in are
// expected to carry blanks and junk.

// DefaultDateLayouts are the layouts tried, in order, for dates typed as text.
func DefaultDateLayouts() []string {
	return []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
		"2006/01/02",
		"02/01/2006",
		"02-01-2006",
	}
}

// Coercer converts cells to optional typed values.
type Coercer struct {
	DateLayouts []string
}

// NewCoercer returns a Coercer using the given date layouts, or the defaults
// when none are given.
func NewCoercer(layouts []string) Coercer {
	if len(layouts) == 0 {
		layouts = DefaultDateLayouts()
	}
	return Coercer{DateLayouts: layouts}
}

// String returns the trimmed text of the cell, or nil when empty.
func (Coercer) String(c xlsxparser.Cell) *string {
	var s string
	switch c.Kind {
	case xlsxparser.CellText:
		s = c.Text
	case xlsxparser.CellNumber:
		s = xlsxparser.FormatNumber(c.Number)
	case xlsxparser.CellBool:
		s = strconv.FormatBool(c.Bool)
	case xlsxparser.CellDate:
		s = c.Time.UTC().Format(time.RFC3339)
	default:
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Number returns the numeric value of the cell when it is finite.
func (Coercer) Number(c xlsxparser.Cell) *float64 {
	var n float64
	switch c.Kind {
	case xlsxparser.CellNumber:
		n = c.Number
	case xlsxparser.CellBool:
		if c.Bool {
			n = 1
		}
	case xlsxparser.CellText:
		s := strings.TrimSpace(c.Text)
		if s == "" {
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		n = v
	default:
		return nil
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return nil
	}
	return &n
}

// Date returns the date value of the cell. Numbers are read as spreadsheet
// serial dates, text is parsed with the configured layouts.
func (c Coercer) Date(cell xlsxparser.Cell) *time.Time {
	switch cell.Kind {
	case xlsxparser.CellDate:
		t := cell.Time
		return &t
	case xlsxparser.CellText:
		s := strings.TrimSpace(cell.Text)
		if s == "" {
			return nil
		}
		for _, layout := range c.DateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return &t
			}
		}
		return nil
	case xlsxparser.CellNumber:
		return SerialToTime(cell.Number)
	default:
		return nil
	}
}

// DocumentNumber returns the identity-document number of the cell. Numbers
// are rendered without exponent; text is kept verbatim so leading zeros
// survive.
func (c Coercer) DocumentNumber(cell xlsxparser.Cell) *string {
	if cell.Kind == xlsxparser.CellNumber && (math.IsNaN(cell.Number) || math.IsInf(cell.Number, 0)) {
		return nil
	}
	return c.String(cell)
}

// GeoCode returns the ubigeo code of the cell. Integral numbers are padded
// to six digits, since a code typed as a number loses its leading zero.
func (c Coercer) GeoCode(cell xlsxparser.Cell) *string {
	if cell.Kind == xlsxparser.CellNumber {
		n := cell.Number
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return nil
		}
		if n >= 0 && n == math.Trunc(n) && n < 1e6 {
			s := fmt.Sprintf("%06d", int64(n))
			return &s
		}
	}
	return c.String(cell)
}

// SerialToTime converts a spreadsheet serial day number to a UTC time.
// Serial 1 is 1899-12-31 and serial 25569 is 1970-01-01.
func SerialToTime(serial float64) *time.Time {
	t, ok := xlsxparser.SerialTime(serial)
	if !ok {
		return nil
	}
	return &t
}
