// Package testutil builds GRTE workbooks for tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// Sheet is one worksheet of a test workbook. Nil values leave the cell empty.
type Sheet struct {
	Name string
	Rows [][]any
}

// Fixture values of the sample workbook.
const (
	SenderRUC    = "20123456789"
	RecipientRUC = "20987654321"
	DriverName   = "PEREZ GOMEZ, JUAN CARLOS"
	Plate        = "ABC-123"
	OriginCode   = "150122"
	DestCode     = "130101"
)

// DataSheet returns a data sheet with the template's two header rows
// followed by the given shipment rows.
func DataSheet(rows ...[]any) Sheet {
	all := [][]any{
		{"GUÍAS DE REMISIÓN TRANSPORTISTA"},
		{"Fecha traslado", "Remitente", "Ubigeo origen", "Dirección origen",
			"Destinatario", "Ubigeo destino", "Dirección destino", "Placa", "Conductor",
			"Peso", "Unidad peso",
			"Cantidad 1", "Unidad 1", "Descripción 1",
			"Cantidad 2", "Unidad 2", "Descripción 2",
			"Cantidad 3", "Unidad 3", "Descripción 3"},
	}
	return Sheet{Name: "data", Rows: append(all, rows...)}
}

// ShipmentRow returns a complete shipment row against SampleSheets' lookups,
// with two line items.
func ShipmentRow() []any {
	return []any{
		"2024-03-15", "ACME SAC", "LIMA, LIMA, MIRAFLORES", "Av. Larco 123",
		"Bodega Norte", "LA LIBERTAD, TRUJILLO, TRUJILLO", "Jr. Pizarro 456",
		Plate, DriverName, 1200, "Kilogramos",
		10, "Unidades", "Cajas de fruta",
		5, nil, "Sacos de arroz",
	}
}

// ConfigSheet returns the configuration sheet of the sample workbook.
func ConfigSheet() Sheet {
	return Sheet{Name: "Configuración", Rows: [][]any{
		{"Conductor", "Tipo doc", "Nro doc", "Licencia", nil,
			"Placa", "TUC", nil,
			"Remitente", "Tipo doc", "Nro doc", nil,
			"Destinatario", "Tipo doc", "Nro doc"},
		{DriverName, "DNI", "45678912", "Q45678912", nil,
			Plate, "15M21028374E", nil,
			"ACME SAC", "RUC", SenderRUC, nil,
			"Bodega Norte", "RUC", RecipientRUC},
		{"QUISPE MAMANI JOSE", "DNI", "41234567", "Q41234567", nil,
			"XYZ-999", nil, nil,
			"Sin RUC SAC", "RUC", nil},
	}}
}

// GeoSheet returns the UBIGEO sheet of the sample workbook.
func GeoSheet() Sheet {
	return Sheet{Name: "UBIGEO", Rows: [][]any{
		{"Descripción", "Ubigeo"},
		{"LIMA, LIMA, MIRAFLORES", OriginCode},
		{"LA LIBERTAD, TRUJILLO, TRUJILLO", DestCode},
	}}
}

// SampleSheets returns a workbook with the given shipment rows.
func SampleSheets(shipments ...[]any) []Sheet {
	return []Sheet{DataSheet(shipments...), ConfigSheet(), GeoSheet()}
}

// WorkbookBytes builds an xlsx workbook in memory.
func WorkbookBytes(t testing.TB, sheets ...Sheet) []byte {
	t.Helper()

	f := newFile(t, sheets)
	defer f.Close()

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

// WriteWorkbook builds an xlsx workbook at dir/name and returns its path.
func WriteWorkbook(t testing.TB, dir, name string, sheets ...Sheet) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, WorkbookBytes(t, sheets...), 0644))
	return path
}

func newFile(t testing.TB, sheets []Sheet) *excelize.File {
	t.Helper()
	require.NotEmpty(t, sheets)

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", sheets[0].Name))
	for i, sheet := range sheets {
		if i > 0 {
			_, err := f.NewSheet(sheet.Name)
			require.NoError(t, err)
		}
		for r, row := range sheet.Rows {
			for c, value := range row {
				if value == nil {
					continue
				}
				cell, err := excelize.CoordinatesToCellName(c+1, r+1)
				require.NoError(t, err)
				require.NoError(t, f.SetCellValue(sheet.Name, cell, value))
			}
		}
	}
	return f
}
