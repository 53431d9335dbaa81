package sheetparser

import (
	"strings"

	"github.com/ginjaninja78/grte-converter/internal/types"
	"github.com/ginjaninja78/grte-converter/internal/xlsxparser"
)

// =============================================================================
// ROW DECODER
// =============================================================================

// Decoder turns untyped rows into typed records using a column layout.
// It is stateless and safe for concurrent use.
type Decoder struct {
	layout Layout
	coerce Coercer
}

// NewDecoder creates a Decoder for the given layout and date layouts.
func NewDecoder(layout Layout, dateLayouts []string) *Decoder {
	return &Decoder{
		layout: layout,
		coerce: NewCoercer(dateLayouts),
	}
}

// DefaultDecoder returns a Decoder for the GRTE template layout.
func DefaultDecoder() *Decoder {
	return NewDecoder(DefaultLayout(), nil)
}

// DecodeShipment decodes one "data" sheet row.
func (d *Decoder) DecodeShipment(row xlsxparser.Row) types.Shipment {
	cols := d.layout.Data
	str := func(i int) *string { return d.coerce.String(row.At(i)) }

	s := types.Shipment{
		TransferDate: d.coerce.Date(row.At(cols.TransferDate)),

		SenderName:    str(cols.SenderName),
		SenderGeo:     str(cols.SenderGeo),
		SenderAddress: str(cols.SenderAddress),

		RecipientName:    str(cols.RecipientName),
		RecipientGeo:     str(cols.RecipientGeo),
		RecipientAddress: str(cols.RecipientAddress),

		Plate:  str(cols.Plate),
		Driver: str(cols.Driver),

		Weight:     d.coerce.Number(row.At(cols.Weight)),
		WeightUnit: str(cols.WeightUnit),
	}

	for i, item := range cols.Items {
		if i >= types.MaxLineItems {
			break
		}
		s.Items[i] = types.LineItem{
			Quantity:    d.coerce.Number(row.At(item.Quantity)),
			Unit:        str(item.Unit),
			Description: str(item.Description),
		}
	}
	return s
}

// DecodeConfig decodes one "Configuración" sheet row.
func (d *Decoder) DecodeConfig(row xlsxparser.Row) types.ConfigRow {
	cols := d.layout.Config
	str := func(i int) *string { return d.coerce.String(row.At(i)) }
	doc := func(i int) *string { return d.coerce.DocumentNumber(row.At(i)) }

	return types.ConfigRow{
		Driver: types.Driver{
			FullName:       str(cols.DriverName),
			DocumentType:   str(cols.DriverDocumentType),
			DocumentNumber: doc(cols.DriverDocumentNumber),
			License:        str(cols.DriverLicense),
		},
		Vehicle: types.Vehicle{
			Plate:         str(cols.VehiclePlate),
			Authorization: str(cols.VehicleAuthorization),
		},
		Sender: types.Party{
			LegalName:      str(cols.SenderName),
			DocumentType:   str(cols.SenderDocumentType),
			DocumentNumber: doc(cols.SenderDocumentNumber),
		},
		Recipient: types.Party{
			LegalName:      str(cols.RecipientName),
			DocumentType:   str(cols.RecipientDocumentType),
			DocumentNumber: doc(cols.RecipientDocumentNumber),
		},
	}
}

// DecodeGeo decodes one "UBIGEO" sheet row. The description is split on
// commas into department, province and district.
func (d *Decoder) DecodeGeo(row xlsxparser.Row) types.GeoRow {
	cols := d.layout.Geo
	g := types.GeoRow{
		Description: d.coerce.String(row.At(cols.Description)),
		Code:        d.coerce.GeoCode(row.At(cols.Code)),
	}
	if g.Description == nil {
		return g
	}

	parts := strings.Split(*g.Description, ",")
	component := func(i int) *string {
		if i >= len(parts) {
			return nil
		}
		p := strings.TrimSpace(parts[i])
		if p == "" {
			return nil
		}
		return &p
	}
	g.Department = component(0)
	g.Province = component(1)
	g.District = component(2)
	return g
}
