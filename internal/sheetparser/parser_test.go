package sheetparser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/grte-converter/internal/types"
	"github.com/ginjaninja78/grte-converter/internal/xlsxparser"
)

func ptr[T any](v T) *T { return &v }

func TestCoercerDate(t *testing.T) {
	c := NewCoercer(nil)

	tests := []struct {
		name string
		cell xlsxparser.Cell
		want *time.Time
	}{
		{"serial 1", xlsxparser.NumberCell(1), ptr(time.Date(1899, 12, 31, 0, 0, 0, 0, time.UTC))},
		{"serial 44562", xlsxparser.NumberCell(44562), ptr(time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC))},
		{"unix epoch", xlsxparser.NumberCell(25569), ptr(time.Unix(0, 0).UTC())},
		{"half day", xlsxparser.NumberCell(44562.5), ptr(time.Date(2022, 1, 1, 12, 0, 0, 0, time.UTC))},
		{"iso text", xlsxparser.TextCell("2024-03-15"), ptr(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))},
		{"day first text", xlsxparser.TextCell("15/03/2024"), ptr(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))},
		{"ambiguous slash date is day first", xlsxparser.TextCell("03/04/2024"), ptr(time.Date(2024, 4, 3, 0, 0, 0, 0, time.UTC))},
		{"date cell", xlsxparser.DateCell(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)), ptr(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))},
		{"junk text", xlsxparser.TextCell("abc"), nil},
		{"blank text", xlsxparser.TextCell("  "), nil},
		{"absent", xlsxparser.Cell{}, nil},
		{"bool", xlsxparser.BoolCell(true), nil},
		{"out of range", xlsxparser.NumberCell(1e12), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Date(tt.cell)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, tt.want.Equal(*got), "got %s, want %s", got, tt.want)
		})
	}
}

func TestCoercerString(t *testing.T) {
	c := NewCoercer(nil)

	assert.Equal(t, ptr("ACME"), c.String(xlsxparser.TextCell("  ACME ")))
	assert.Equal(t, ptr("1200"), c.String(xlsxparser.NumberCell(1200)))
	assert.Equal(t, ptr("true"), c.String(xlsxparser.BoolCell(true)))
	assert.Nil(t, c.String(xlsxparser.TextCell("   ")))
	assert.Nil(t, c.String(xlsxparser.Cell{}))
}

func TestCoercerNumber(t *testing.T) {
	c := NewCoercer(nil)

	assert.Equal(t, ptr(12.5), c.Number(xlsxparser.NumberCell(12.5)))
	assert.Equal(t, ptr(7.0), c.Number(xlsxparser.TextCell(" 7 ")))
	assert.Equal(t, ptr(1.0), c.Number(xlsxparser.BoolCell(true)))
	assert.Nil(t, c.Number(xlsxparser.TextCell("doce")))
	assert.Nil(t, c.Number(xlsxparser.Cell{}))
	assert.Nil(t, c.Number(xlsxparser.DateCell(time.Now())))
}

func TestCoercerDocumentNumber(t *testing.T) {
	c := NewCoercer(nil)

	assert.Equal(t, ptr("20123456789"), c.DocumentNumber(xlsxparser.NumberCell(20123456789)))
	assert.Equal(t, ptr("04567891"), c.DocumentNumber(xlsxparser.TextCell("04567891")))
	assert.Nil(t, c.DocumentNumber(xlsxparser.Cell{}))
}

func TestCoercerGeoCode(t *testing.T) {
	c := NewCoercer(nil)

	tests := []struct {
		name string
		cell xlsxparser.Cell
		want *string
	}{
		{"text keeps leading zero", xlsxparser.TextCell("010101"), ptr("010101")},
		{"number is padded", xlsxparser.NumberCell(10101), ptr("010101")},
		{"six digit number", xlsxparser.NumberCell(150122), ptr("150122")},
		{"fractional number", xlsxparser.NumberCell(10101.5), ptr("10101.5")},
		{"empty", xlsxparser.Cell{}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.GeoCode(tt.cell))
		})
	}
}

func shipmentRow() xlsxparser.Row {
	row := make(xlsxparser.Row, 20)
	row[0] = xlsxparser.NumberCell(45366)
	row[1] = xlsxparser.TextCell("ACME SAC")
	row[2] = xlsxparser.TextCell("LIMA, LIMA, MIRAFLORES")
	row[3] = xlsxparser.TextCell("Av. Larco 123")
	row[4] = xlsxparser.TextCell("Bodega Norte")
	row[7] = xlsxparser.TextCell("ABC-123")
	row[8] = xlsxparser.TextCell("PEREZ GOMEZ, JUAN")
	row[9] = xlsxparser.NumberCell(1200)
	row[10] = xlsxparser.TextCell("Kilogramos")
	row[11] = xlsxparser.NumberCell(10)
	row[12] = xlsxparser.TextCell("Unidades")
	row[13] = xlsxparser.TextCell("Cajas")
	row[17] = xlsxparser.TextCell("3")
	row[19] = xlsxparser.TextCell("Sacos")
	return row
}

func TestDecodeShipment(t *testing.T) {
	s := DefaultDecoder().DecodeShipment(shipmentRow())

	require.NotNil(t, s.TransferDate)
	assert.Equal(t, "2024-03-15", s.TransferDate.Format("2006-01-02"))
	assert.Equal(t, ptr("ACME SAC"), s.SenderName)
	assert.Equal(t, ptr("LIMA, LIMA, MIRAFLORES"), s.SenderGeo)
	assert.Nil(t, s.RecipientGeo)
	assert.Equal(t, ptr(1200.0), s.Weight)

	assert.Equal(t, ptr(10.0), s.Items[0].Quantity)
	assert.Equal(t, ptr("Unidades"), s.Items[0].Unit)
	assert.Nil(t, s.Items[1].Quantity)
	assert.Equal(t, ptr(3.0), s.Items[2].Quantity)
	assert.Nil(t, s.Items[2].Unit)
	assert.Equal(t, ptr("Sacos"), s.Items[2].Description)
}

func TestDecodeShipmentShortRow(t *testing.T) {
	s := DefaultDecoder().DecodeShipment(xlsxparser.TextRow("2024-03-15", "ACME SAC"))

	assert.Equal(t, ptr("ACME SAC"), s.SenderName)
	assert.Nil(t, s.Driver)
	for _, item := range s.Items {
		assert.False(t, item.Complete())
	}
}

func TestDecodeConfig(t *testing.T) {
	row := make(xlsxparser.Row, 15)
	row[0] = xlsxparser.TextCell("PEREZ GOMEZ, JUAN")
	row[1] = xlsxparser.TextCell("DNI")
	row[2] = xlsxparser.NumberCell(45678912)
	row[3] = xlsxparser.TextCell("Q45678912")
	row[5] = xlsxparser.TextCell("ABC-123")
	row[8] = xlsxparser.TextCell("ACME SAC")
	row[9] = xlsxparser.TextCell("RUC")
	row[10] = xlsxparser.NumberCell(20123456789)

	c := DefaultDecoder().DecodeConfig(row)

	assert.Equal(t, ptr("45678912"), c.Driver.DocumentNumber)
	assert.Equal(t, ptr("ABC-123"), c.Vehicle.Plate)
	assert.Nil(t, c.Vehicle.Authorization)
	assert.Equal(t, ptr("20123456789"), c.Sender.DocumentNumber)
	assert.Equal(t, types.Party{}, c.Recipient)
}

func TestDecodeGeo(t *testing.T) {
	g := DefaultDecoder().DecodeGeo(xlsxparser.TextRow("AMAZONAS, CHACHAPOYAS, ASUNCION", "010102"))

	assert.Equal(t, ptr("010102"), g.Code)
	assert.Equal(t, ptr("AMAZONAS"), g.Department)
	assert.Equal(t, ptr("CHACHAPOYAS"), g.Province)
	assert.Equal(t, ptr("ASUNCION"), g.District)

	numeric := DefaultDecoder().DecodeGeo(xlsxparser.Row{
		xlsxparser.TextCell("AMAZONAS, CHACHAPOYAS, CHACHAPOYAS"),
		xlsxparser.NumberCell(10101),
	})
	assert.Equal(t, ptr("010101"), numeric.Code)

	partial := DefaultDecoder().DecodeGeo(xlsxparser.TextRow("CALLAO"))
	assert.Equal(t, ptr("CALLAO"), partial.Department)
	assert.Nil(t, partial.Province)
	assert.Nil(t, partial.Code)
}

func TestParseDataSheetSkipsHeaders(t *testing.T) {
	rows := []xlsxparser.Row{
		xlsxparser.TextRow("title"),
		xlsxparser.TextRow("headers"),
		shipmentRow(),
		shipmentRow(),
		nil,
	}

	shipments := Default().ParseDataSheet(rows)
	require.Len(t, shipments, 3)
	assert.Equal(t, 3, shipments[0].RowNumber)
	assert.Equal(t, 5, shipments[2].RowNumber)
	assert.Nil(t, shipments[2].SenderName)

	assert.Empty(t, Default().ParseDataSheet(rows[:2]))
	assert.Empty(t, Default().ParseDataSheet(nil))
}

func TestParseGeoSheetDropsIncompleteRows(t *testing.T) {
	rows := []xlsxparser.Row{
		xlsxparser.TextRow("Descripción", "Ubigeo"),
		xlsxparser.TextRow("LIMA, LIMA, LIMA", "150101"),
		xlsxparser.TextRow("SIN CODIGO"),
		xlsxparser.TextRow("", "999999"),
		xlsxparser.TextRow("CALLAO, CALLAO, CALLAO", "070101"),
	}

	geo := Default().ParseGeoSheet(rows)
	require.Len(t, geo, 2)
	assert.Equal(t, ptr("150101"), geo[0].Code)
	assert.Equal(t, ptr("070101"), geo[1].Code)
}

func TestGroupConfig(t *testing.T) {
	rows := []types.ConfigRow{
		{Driver: types.Driver{FullName: ptr("A, B")}, Sender: types.Party{LegalName: ptr("S1")}},
		{Vehicle: types.Vehicle{Plate: ptr("P2")}},
		{Recipient: types.Party{LegalName: ptr("R3")}},
	}

	l := GroupConfig(rows)

	require.Len(t, l.Drivers, 3)
	require.Len(t, l.Vehicles, 3)
	require.Len(t, l.Senders, 3)
	require.Len(t, l.Recipients, 3)
	assert.Equal(t, ptr("A, B"), l.Drivers[0].FullName)
	assert.Equal(t, ptr("P2"), l.Vehicles[1].Plate)
	assert.Equal(t, ptr("R3"), l.Recipients[2].LegalName)
	assert.Equal(t, types.Driver{}, l.Drivers[1])

	empty := GroupConfig(nil)
	assert.Empty(t, empty.Drivers)
	assert.NotNil(t, empty.Drivers)
}

func TestCustomLayout(t *testing.T) {
	layout := DefaultLayout()
	layout.Geo = GeoColumns{Description: 1, Code: 0}

	g := NewDecoder(layout, nil).DecodeGeo(xlsxparser.TextRow("150101", "LIMA, LIMA, LIMA"))
	assert.Equal(t, ptr("150101"), g.Code)
	assert.Equal(t, ptr("LIMA"), g.District)
}
