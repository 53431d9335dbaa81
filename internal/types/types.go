// =============================================================================
// GRTE Workbook Converter - Shared Types
// =============================================================================
//
// This package contains the typed records decoded from the GRTE workbook.
// They are shared by several modules to avoid import cycles:
//   - sheetparser (produces them)
//   - ubigeo      (reads GeoRow)
//   - converter   (consumes Shipment and Lookups)
//   - server      (serializes them for previews)
//
// Optional cells are modeled as pointers: nil means the cell was absent,
// empty, or could not be coerced.
//
// =============================================================================

package types

import "time"

// =============================================================================
// SHIPMENT RECORDS ("data" sheet)
// =============================================================================

// MaxLineItems is the number of item column groups on a data-sheet row.
const MaxLineItems = 3

// Shipment is one physical transfer, decoded from one row of the data sheet.
type Shipment struct {
	TransferDate *time.Time `json:"transferDate"`

	SenderName    *string `json:"senderName"`
	SenderGeo     *string `json:"senderGeo"`
	SenderAddress *string `json:"senderAddress"`

	RecipientName    *string `json:"recipientName"`
	RecipientGeo     *string `json:"recipientGeo"`
	RecipientAddress *string `json:"recipientAddress"`

	Plate  *string `json:"plate"`
	Driver *string `json:"driver"`

	Weight     *float64 `json:"weight"`
	WeightUnit *string  `json:"weightUnit"`

	Items [MaxLineItems]LineItem `json:"items"`

	// RowNumber is the 1-based row in the source sheet, for error reporting.
	RowNumber int `json:"rowNumber"`
}

// LineItem is one goods line of a shipment.
type LineItem struct {
	Quantity    *float64 `json:"quantity"`
	Unit        *string  `json:"unit"`
	Description *string  `json:"description"`
}

// Complete reports whether the item carries both a quantity and a description.
// Zero quantities count as missing.
func (i LineItem) Complete() bool {
	return i.Quantity != nil && *i.Quantity != 0 && i.Description != nil
}

// =============================================================================
// CONFIGURATION RECORDS ("Configuración" sheet)
// =============================================================================

// ConfigRow bundles the four independent column groups of one configuration row.
// The sub-records share a row only by spreadsheet convenience.
type ConfigRow struct {
	Driver    Driver
	Vehicle   Vehicle
	Sender    Party
	Recipient Party
}

// Driver is a configured vehicle driver.
type Driver struct {
	// FullName is "Apellidos, Nombres".
	FullName       *string `json:"fullName"`
	DocumentType   *string `json:"documentType"`
	DocumentNumber *string `json:"documentNumber"`
	License        *string `json:"license"`
}

// Vehicle is a configured vehicle.
type Vehicle struct {
	Plate *string `json:"plate"`
	// Authorization is the TUC/CHV registration code.
	Authorization *string `json:"authorization"`
}

// Party is a configured sender or recipient ("Tienda").
type Party struct {
	LegalName      *string `json:"legalName"`
	DocumentType   *string `json:"documentType"`
	DocumentNumber *string `json:"documentNumber"`
}

// Lookups holds the four independent lookup tables built from the
// configuration sheet, each in sheet row order.
type Lookups struct {
	Drivers    []Driver  `json:"drivers"`
	Vehicles   []Vehicle `json:"vehicles"`
	Senders    []Party   `json:"senders"`
	Recipients []Party   `json:"recipients"`
}

// =============================================================================
// GEO-CODE RECORDS ("UBIGEO" sheet)
// =============================================================================

// GeoRow pairs a 6-digit ubigeo code with its "department, province, district"
// description.
type GeoRow struct {
	Code        *string `json:"code"`
	Description *string `json:"description"`
	Department  *string `json:"department"`
	Province    *string `json:"province"`
	District    *string `json:"district"`
}

// =============================================================================
// HELPERS
// =============================================================================

// Deref returns the pointed-to string or "" when absent.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Equal reports whether two optional strings are both present and equal.
func Equal(a, b *string) bool {
	return a != nil && b != nil && *a == *b
}
