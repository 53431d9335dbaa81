// Package catalog maps the human labels used in the GRTE workbook to the
// SUNAT catalog codes required in the document body.
package catalog

// Unit codes (SUNAT catalog 03 / UN/ECE rec 20).
const (
	UnitKilogram = "KGM"
	UnitTonne    = "TNE"
	UnitGram     = "GRM"
	UnitPiece    = "NIU"
	UnitService  = "ZZ"
)

var unitCodes = map[string]string{
	"Kilogramos": UnitKilogram,
	"Toneladas":  UnitTonne,
	"Gramos":     UnitGram,
	"Unidades":   UnitPiece,
	"Servicios":  UnitService,
}

// Company identity-document scheme IDs (SUNAT catalog 06).
const (
	SchemeRUC = "6"
	SchemeDNI = "1"
)

var companyDocTypes = map[string]string{
	"RUC": SchemeRUC,
	"DNI": SchemeDNI,
}

// Driver identity-document scheme IDs.
const (
	DriverSchemeDNI      = "7"
	DriverSchemePassport = "8"
	DriverSchemeForeign  = "4"
)

var driverDocTypes = map[string]string{
	"DNI":                   DriverSchemeDNI,
	"Pasaporte":             DriverSchemePassport,
	"Carnet de extranjería": DriverSchemeForeign,
	// Spelling used by older copies of the workbook template.
	"Carnet extrangeria": DriverSchemeForeign,
}

// WeightUnitCode maps a weight-unit label, defaulting to KGM.
func WeightUnitCode(label *string) string {
	return lookup(unitCodes, label, UnitKilogram)
}

// ItemUnitCode maps a line-item unit label, defaulting to ZZ.
func ItemUnitCode(label *string) string {
	return lookup(unitCodes, label, UnitService)
}

// CompanySchemeID maps a sender/recipient document-type label, defaulting
// to RUC.
func CompanySchemeID(label *string) string {
	return lookup(companyDocTypes, label, SchemeRUC)
}

// DriverSchemeID maps a driver document-type label, defaulting to DNI.
func DriverSchemeID(label *string) string {
	return lookup(driverDocTypes, label, DriverSchemeDNI)
}

// IsDriverDocType reports whether label is a recognized driver document type.
func IsDriverDocType(label *string) bool {
	if label == nil {
		return false
	}
	_, ok := driverDocTypes[*label]
	return ok
}

func lookup(table map[string]string, label *string, fallback string) string {
	if label == nil {
		return fallback
	}
	if code, ok := table[*label]; ok {
		return code
	}
	return fallback
}
