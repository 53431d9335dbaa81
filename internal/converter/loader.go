package converter

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ginjaninja78/grte-converter/internal/config"
	"github.com/ginjaninja78/grte-converter/internal/csvparser"
	"github.com/ginjaninja78/grte-converter/internal/sheetparser"
	"github.com/ginjaninja78/grte-converter/internal/types"
	"github.com/ginjaninja78/grte-converter/internal/ubigeo"
	"github.com/ginjaninja78/grte-converter/internal/xlsxparser"
)

// =============================================================================
// DATASET
// =============================================================================

// Dataset is everything a workbook contributes to a transformation: the
// shipments to transform and the lookups they are resolved against.
type Dataset struct {
	Shipments []types.Shipment
	Lookups   types.Lookups
	Geo       []types.GeoRow

	resolver *ubigeo.Resolver
}

// NewDataset prepares a dataset for transformation.
func NewDataset(shipments []types.Shipment, lookups types.Lookups, geo []types.GeoRow) *Dataset {
	return &Dataset{
		Shipments: shipments,
		Lookups:   lookups,
		Geo:       geo,
		resolver:  ubigeo.NewResolver(geo),
	}
}

// Resolver returns the geo-code resolver of the dataset.
func (d *Dataset) Resolver() *ubigeo.Resolver {
	return d.resolver
}

// =============================================================================
// LOADER
// =============================================================================

// Loader reads workbooks into datasets.
type Loader struct {
	sheets xlsxparser.SheetNames
	parser *sheetparser.Parser

	geoCSV      string
	csvSettings csvparser.Settings

	logger logrus.FieldLogger
}

// NewLoader creates a Loader from the workbook and ubigeo settings.
func NewLoader(cfg *config.MainConfig, logger logrus.FieldLogger) *Loader {
	decoder := sheetparser.NewDecoder(cfg.Workbook.Columns, cfg.Workbook.DateLayouts)
	return &Loader{
		sheets: cfg.Workbook.Sheets,
		parser: sheetparser.New(decoder, cfg.Workbook.HeaderRows),
		geoCSV: cfg.Ubigeo.CSVPath,
		csvSettings: csvparser.Settings{
			Delimiter:  cfg.Ubigeo.Delimiter,
			HeaderRows: cfg.Ubigeo.HeaderRows,
			Encoding:   cfg.Ubigeo.Encoding,
		},
		logger: logger,
	}
}

// LoadFile reads the workbook at path.
func (l *Loader) LoadFile(ctx context.Context, path string) (*Dataset, error) {
	wb, err := xlsxparser.ReadWorkbookFile(ctx, path, l.sheets)
	if err != nil {
		return nil, err
	}
	return l.build(wb)
}

// Load reads a workbook from memory.
//
// The three sheets are read concurrently. The data and configuration sheets
// are required; the UBIGEO sheet is required unless a ubigeo CSV file is
// configured.
func (l *Loader) Load(ctx context.Context, data []byte) (*Dataset, error) {
	wb, err := xlsxparser.ReadWorkbook(ctx, data, l.sheets)
	if err != nil {
		return nil, err
	}
	return l.build(wb)
}

func (l *Loader) build(wb *xlsxparser.Workbook) (*Dataset, error) {
	if wb.Data.Err != nil {
		return nil, fmt.Errorf("data sheet: %w", wb.Data.Err)
	}
	if wb.Config.Err != nil {
		return nil, fmt.Errorf("configuration sheet: %w", wb.Config.Err)
	}

	var geo []types.GeoRow
	if l.geoCSV != "" {
		rows, err := csvparser.ParseFile(l.geoCSV, l.csvSettings)
		if err != nil {
			return nil, fmt.Errorf("ubigeo CSV: %w", err)
		}
		geo = l.parser.ParseGeoRows(rows)
	} else {
		if wb.Geo.Err != nil {
			return nil, fmt.Errorf("ubigeo sheet: %w", wb.Geo.Err)
		}
		geo = l.parser.ParseGeoSheet(wb.Geo.Rows)
	}

	ds := NewDataset(
		l.parser.ParseDataSheet(wb.Data.Rows),
		l.parser.ParseConfigSheet(wb.Config.Rows),
		geo,
	)

	l.logger.WithFields(logrus.Fields{
		"shipments": len(ds.Shipments),
		"config":    len(ds.Lookups.Drivers),
		"ubigeo":    len(ds.Geo),
	}).Debug("workbook loaded")

	return ds, nil
}
