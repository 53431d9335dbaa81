// =============================================================================
// GRTE Workbook Converter - Sheet Parser
// =============================================================================
//
// This module applies the row decoder to whole sheets:
//   - the "data" sheet becomes a sequence of shipments
//   - the "Configuración" sheet becomes four independent lookup tables
//   - the "UBIGEO" sheet becomes the geo-code table
//
// Header rows are skipped by count, not detected. Row order is preserved in
// every output so results are deterministic and easy to trace back to the
// workbook.
//
// =============================================================================

package sheetparser

import (
	"github.com/ginjaninja78/grte-converter/internal/types"
	"github.com/ginjaninja78/grte-converter/internal/xlsxparser"
)

// HeaderRows holds the number of leading rows to skip per sheet.
type HeaderRows struct {
	Data   int `yaml:"data" validate:"gte=0"`
	Config int `yaml:"config" validate:"gte=0"`
	Geo    int `yaml:"geo" validate:"gte=0"`
}

// DefaultHeaderRows returns the GRTE template header counts: a title row
// plus a column-header row on the data sheet, one header row elsewhere.
func DefaultHeaderRows() HeaderRows {
	return HeaderRows{Data: 2, Config: 1, Geo: 1}
}

// Parser decodes whole sheets.
type Parser struct {
	decoder *Decoder
	headers HeaderRows
}

// New creates a Parser.
func New(decoder *Decoder, headers HeaderRows) *Parser {
	return &Parser{decoder: decoder, headers: headers}
}

// Default returns a Parser for the GRTE template.
func Default() *Parser {
	return New(DefaultDecoder(), DefaultHeaderRows())
}

// ParseDataSheet decodes every non-header row into a shipment.
func (p *Parser) ParseDataSheet(rows []xlsxparser.Row) []types.Shipment {
	body := skip(rows, p.headers.Data)
	shipments := make([]types.Shipment, len(body))
	for i, row := range body {
		shipments[i] = p.decoder.DecodeShipment(row)
		shipments[i].RowNumber = p.headers.Data + i + 1
	}
	return shipments
}

// ParseConfigRows decodes every non-header row of the configuration sheet.
func (p *Parser) ParseConfigRows(rows []xlsxparser.Row) []types.ConfigRow {
	body := skip(rows, p.headers.Config)
	out := make([]types.ConfigRow, len(body))
	for i, row := range body {
		out[i] = p.decoder.DecodeConfig(row)
	}
	return out
}

// ParseConfigSheet decodes the configuration sheet and groups it into lookups.
func (p *Parser) ParseConfigSheet(rows []xlsxparser.Row) types.Lookups {
	return GroupConfig(p.ParseConfigRows(rows))
}

// ParseGeoSheet decodes the geo sheet, dropping rows without a code or a
// description.
func (p *Parser) ParseGeoSheet(rows []xlsxparser.Row) []types.GeoRow {
	return p.ParseGeoRows(skip(rows, p.headers.Geo))
}

// ParseGeoRows decodes geo rows that carry no header, such as rows read from
// a ubigeo CSV file.
func (p *Parser) ParseGeoRows(rows []xlsxparser.Row) []types.GeoRow {
	out := make([]types.GeoRow, 0, len(rows))
	for _, row := range rows {
		g := p.decoder.DecodeGeo(row)
		if g.Code == nil || g.Description == nil {
			continue
		}
		out = append(out, g)
	}
	return out
}

// =============================================================================
// CONFIGURATION GROUPER
// =============================================================================

// GroupConfig splits configuration rows into four lookup tables. Every row
// contributes exactly one entry to each table, empty or not, so index i of
// each table comes from row i.
func GroupConfig(rows []types.ConfigRow) types.Lookups {
	l := types.Lookups{
		Drivers:    make([]types.Driver, 0, len(rows)),
		Vehicles:   make([]types.Vehicle, 0, len(rows)),
		Senders:    make([]types.Party, 0, len(rows)),
		Recipients: make([]types.Party, 0, len(rows)),
	}
	for _, row := range rows {
		l.Drivers = append(l.Drivers, row.Driver)
		l.Vehicles = append(l.Vehicles, row.Vehicle)
		l.Senders = append(l.Senders, row.Sender)
		l.Recipients = append(l.Recipients, row.Recipient)
	}
	return l
}

func skip(rows []xlsxparser.Row, n int) []xlsxparser.Row {
	if n >= len(rows) {
		return nil
	}
	if n < 0 {
		n = 0
	}
	return rows[n:]
}
