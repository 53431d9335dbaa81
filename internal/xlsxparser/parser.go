// =============================================================================
// GRTE Workbook Converter - XLSX Workbook Reader
// =============================================================================
//
// This module reads the GRTE workbook with excelize and turns every sheet
// into a grid of typed cells. The workbook carries three named sheets:
//
//   | Sheet          | Content                                          |
//   |----------------|--------------------------------------------------|
//   | data           | one shipment per row (2 header rows)             |
//   | Configuración  | drivers, vehicles, senders, recipients (1 header)|
//   | UBIGEO         | "department, province, district" + 6-digit code  |
//
// The three sheets are independent of each other, so they are read
// concurrently, each with its own excelize handle. A failure reading one
// sheet is recorded on that sheet only.
//
// CELL TYPING:
//   excelize exposes raw values plus the cell type attribute. Numeric
//   cells whose style uses a date number format become date cells, the
//   same way spreadsheet readers surface them to formulas.
//
// =============================================================================

package xlsxparser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"
)

// =============================================================================
// SHEET NAMES
// =============================================================================

// SheetNames names the three workbook sheets.
type SheetNames struct {
	Data   string `yaml:"data" validate:"required"`
	Config string `yaml:"config" validate:"required"`
	Geo    string `yaml:"geo" validate:"required"`
}

// DefaultSheetNames returns the sheet names used by the GRTE template.
func DefaultSheetNames() SheetNames {
	return SheetNames{
		Data:   "data",
		Config: "Configuración",
		Geo:    "UBIGEO",
	}
}

// =============================================================================
// WORKBOOK
// =============================================================================

// SheetResult is the outcome of reading one sheet.
type SheetResult struct {
	Name string
	Rows []Row
	Err  error
}

// Workbook holds the three sheets of a GRTE workbook.
type Workbook struct {
	Data   SheetResult
	Config SheetResult
	Geo    SheetResult
}

// Err joins the per-sheet read errors, or returns nil when every sheet was read.
func (w *Workbook) Err() error {
	return errors.Join(w.Data.Err, w.Config.Err, w.Geo.Err)
}

// ReadWorkbookFile reads the named sheets of the workbook at path.
func ReadWorkbookFile(ctx context.Context, path string, names SheetNames) (*Workbook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook: %w", err)
	}
	return ReadWorkbook(ctx, data, names)
}

// ReadWorkbook reads the named sheets from the workbook bytes.
// The returned error is non-nil only when ctx is done; sheet failures are
// reported on the corresponding SheetResult.
func ReadWorkbook(ctx context.Context, data []byte, names SheetNames) (*Workbook, error) {
	wb := &Workbook{
		Data:   SheetResult{Name: names.Data},
		Config: SheetResult{Name: names.Config},
		Geo:    SheetResult{Name: names.Geo},
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, res := range []*SheetResult{&wb.Data, &wb.Config, &wb.Geo} {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res.Rows, res.Err = ReadSheet(data, res.Name)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return wb, nil
}

// ReadSheet opens the workbook bytes and returns every row of one sheet.
func ReadSheet(data []byte, sheet string) ([]Row, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if idx, err := f.GetSheetIndex(sheet); err != nil || idx == -1 {
		return nil, fmt.Errorf("sheet %q not found", sheet)
	}

	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows of %q: %w", sheet, err)
	}

	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	rows := make([]Row, len(raw))
	for r, values := range raw {
		row := make(Row, len(values))
		for c, value := range values {
			if value == "" {
				continue
			}
			name, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, err
			}
			row[c] = typedCell(f, sheet, name, value, date1904)
		}
		rows[r] = row
	}
	return rows, nil
}

// typedCell converts a raw excelize value into a Cell using the cell type
// and style.
func typedCell(f *excelize.File, sheet, name, value string, date1904 bool) Cell {
	typ, err := f.GetCellType(sheet, name)
	if err != nil {
		return TextCell(value)
	}

	switch typ {
	case excelize.CellTypeBool:
		return BoolCell(value == "1" || strings.EqualFold(value, "true"))
	case excelize.CellTypeDate:
		if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
			return DateCell(t)
		}
		return TextCell(value)
	case excelize.CellTypeError:
		return Cell{}
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		return TextCell(value)
	}

	// Number or unset type attribute.
	n, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return TextCell(value)
	}
	if isDateStyled(f, sheet, name) {
		if !date1904 {
			if t, ok := SerialTime(n); ok {
				return DateCell(t)
			}
		} else if t, err := excelize.ExcelDateToTime(n, true); err == nil {
			return DateCell(t)
		}
	}
	return NumberCell(n)
}

// isDateStyled reports whether the cell's number format renders a date.
func isDateStyled(f *excelize.File, sheet, name string) bool {
	styleID, err := f.GetCellStyle(sheet, name)
	if err != nil || styleID == 0 {
		return false
	}
	style, err := f.GetStyle(styleID)
	if err != nil || style == nil {
		return false
	}
	if style.CustomNumFmt != nil {
		return isDateFormat(*style.CustomNumFmt)
	}
	return isBuiltInDateFormat(style.NumFmt)
}

// isBuiltInDateFormat reports whether a built-in number format ID is a date
// or date-time format.
func isBuiltInDateFormat(id int) bool {
	return (id >= 14 && id <= 22) || (id >= 27 && id <= 36) || (id >= 45 && id <= 47) || (id >= 50 && id <= 58)
}

// isDateFormat reports whether a custom number format contains day, month
// or year tokens outside quoted literals and brackets.
func isDateFormat(format string) bool {
	inQuote, inBracket := false, false
	for _, r := range strings.ToLower(format) {
		switch {
		case r == '"':
			inQuote = !inQuote
		case inQuote:
		case r == '[':
			inBracket = true
		case r == ']':
			inBracket = false
		case inBracket:
		case r == 'd' || r == 'm' || r == 'y':
			return true
		}
	}
	return false
}
