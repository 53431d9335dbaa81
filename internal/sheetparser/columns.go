package sheetparser

// =============================================================================
// COLUMN LAYOUTS
// =============================================================================
// Columns are addressed by position, not by header text. Reordering columns
// in the workbook silently populates the wrong fields, so the layouts are
// overridable from the configuration file.
// Column indices are 0-based (A=0, B=1, C=2, etc.)

// ItemColumns addresses one (quantity, unit, description) group.
type ItemColumns struct {
	Quantity    int `yaml:"quantity"`
	Unit        int `yaml:"unit"`
	Description int `yaml:"description"`
}

// DataColumns is the layout of the "data" sheet.
type DataColumns struct {
	TransferDate     int           `yaml:"transfer_date"`
	SenderName       int           `yaml:"sender_name"`
	SenderGeo        int           `yaml:"sender_geo"`
	SenderAddress    int           `yaml:"sender_address"`
	RecipientName    int           `yaml:"recipient_name"`
	RecipientGeo     int           `yaml:"recipient_geo"`
	RecipientAddress int           `yaml:"recipient_address"`
	Plate            int           `yaml:"plate"`
	Driver           int           `yaml:"driver"`
	Weight           int           `yaml:"weight"`
	WeightUnit       int           `yaml:"weight_unit"`
	Items            []ItemColumns `yaml:"items" validate:"max=3"`
}

// DefaultDataColumns returns the layout of the GRTE template: columns 0-19,
// with item groups at offsets 11, 14 and 17.
func DefaultDataColumns() DataColumns {
	return DataColumns{
		TransferDate:     0,  // Column A
		SenderName:       1,  // Column B
		SenderGeo:        2,  // Column C
		SenderAddress:    3,  // Column D
		RecipientName:    4,  // Column E
		RecipientGeo:     5,  // Column F
		RecipientAddress: 6,  // Column G
		Plate:            7,  // Column H
		Driver:           8,  // Column I
		Weight:           9,  // Column J
		WeightUnit:       10, // Column K
		Items: []ItemColumns{
			{Quantity: 11, Unit: 12, Description: 13},
			{Quantity: 14, Unit: 15, Description: 16},
			{Quantity: 17, Unit: 18, Description: 19},
		},
	}
}

// ConfigColumns is the layout of the "Configuración" sheet.
// Columns 4, 7 and 11 are blank separators in the template.
type ConfigColumns struct {
	DriverName           int `yaml:"driver_name"`
	DriverDocumentType   int `yaml:"driver_document_type"`
	DriverDocumentNumber int `yaml:"driver_document_number"`
	DriverLicense        int `yaml:"driver_license"`

	VehiclePlate         int `yaml:"vehicle_plate"`
	VehicleAuthorization int `yaml:"vehicle_authorization"`

	SenderName           int `yaml:"sender_name"`
	SenderDocumentType   int `yaml:"sender_document_type"`
	SenderDocumentNumber int `yaml:"sender_document_number"`

	RecipientName           int `yaml:"recipient_name"`
	RecipientDocumentType   int `yaml:"recipient_document_type"`
	RecipientDocumentNumber int `yaml:"recipient_document_number"`
}

// DefaultConfigColumns returns the layout of the GRTE template.
func DefaultConfigColumns() ConfigColumns {
	return ConfigColumns{
		DriverName:              0,
		DriverDocumentType:      1,
		DriverDocumentNumber:    2,
		DriverLicense:           3,
		VehiclePlate:            5,
		VehicleAuthorization:    6,
		SenderName:              8,
		SenderDocumentType:      9,
		SenderDocumentNumber:    10,
		RecipientName:           12,
		RecipientDocumentType:   13,
		RecipientDocumentNumber: 14,
	}
}

// GeoColumns is the layout of the "UBIGEO" sheet.
type GeoColumns struct {
	Description int `yaml:"description"`
	Code        int `yaml:"code"`
}

// DefaultGeoColumns returns the layout of the GRTE template.
func DefaultGeoColumns() GeoColumns {
	return GeoColumns{Description: 0, Code: 1}
}

// Layout groups the three sheet layouts.
type Layout struct {
	Data   DataColumns   `yaml:"data"`
	Config ConfigColumns `yaml:"config"`
	Geo    GeoColumns    `yaml:"geo"`
}

// DefaultLayout returns the GRTE template layout.
func DefaultLayout() Layout {
	return Layout{
		Data:   DefaultDataColumns(),
		Config: DefaultConfigColumns(),
		Geo:    DefaultGeoColumns(),
	}
}
