package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(s string) *string { return &s }

func TestWeightUnitCode(t *testing.T) {
	assert.Equal(t, UnitKilogram, WeightUnitCode(ptr("Kilogramos")))
	assert.Equal(t, UnitTonne, WeightUnitCode(ptr("Toneladas")))
	assert.Equal(t, UnitKilogram, WeightUnitCode(ptr("Libras")))
	assert.Equal(t, UnitKilogram, WeightUnitCode(nil))
}

func TestItemUnitCode(t *testing.T) {
	assert.Equal(t, UnitPiece, ItemUnitCode(ptr("Unidades")))
	assert.Equal(t, UnitGram, ItemUnitCode(ptr("Gramos")))
	assert.Equal(t, UnitService, ItemUnitCode(ptr("Cajas")))
	assert.Equal(t, UnitService, ItemUnitCode(nil))
}

func TestCompanySchemeID(t *testing.T) {
	assert.Equal(t, SchemeRUC, CompanySchemeID(ptr("RUC")))
	assert.Equal(t, SchemeDNI, CompanySchemeID(ptr("DNI")))
	assert.Equal(t, SchemeRUC, CompanySchemeID(ptr("ruc")))
	assert.Equal(t, SchemeRUC, CompanySchemeID(nil))
}

func TestDriverSchemeID(t *testing.T) {
	tests := map[string]string{
		"DNI":                   DriverSchemeDNI,
		"Pasaporte":             DriverSchemePassport,
		"Carnet de extranjería": DriverSchemeForeign,
		"Carnet extrangeria":    DriverSchemeForeign,
		"Licencia":              DriverSchemeDNI,
	}
	for label, want := range tests {
		assert.Equal(t, want, DriverSchemeID(ptr(label)), label)
	}
	assert.Equal(t, DriverSchemeDNI, DriverSchemeID(nil))
}

func TestIsDriverDocType(t *testing.T) {
	assert.True(t, IsDriverDocType(ptr("DNI")))
	assert.True(t, IsDriverDocType(ptr("Pasaporte")))
	assert.False(t, IsDriverDocType(ptr("RUC")))
	assert.False(t, IsDriverDocType(nil))
}
