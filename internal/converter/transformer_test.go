package converter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/grte-converter/internal/types"
	"github.com/ginjaninja78/grte-converter/internal/ubigeo"
	"github.com/ginjaninja78/grte-converter/internal/ubl"
	"github.com/ginjaninja78/grte-converter/internal/validation"
)

func ptr[T any](v T) *T { return &v }

var fixedNow = time.Date(2024, 3, 16, 10, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func sampleShipment() types.Shipment {
	return types.Shipment{
		TransferDate:     ptr(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)),
		SenderName:       ptr("ACME SAC"),
		SenderGeo:        ptr("LIMA, LIMA, MIRAFLORES"),
		SenderAddress:    ptr("Av. Larco 123"),
		RecipientName:    ptr("Bodega Norte"),
		RecipientGeo:     ptr("la libertad, trujillo, trujillo"),
		RecipientAddress: ptr("Jr. Pizarro 456"),
		Plate:            ptr("ABC-123"),
		Driver:           ptr("PEREZ GOMEZ, JUAN CARLOS"),
		Weight:           ptr(1200.0),
		WeightUnit:       ptr("Kilogramos"),
		Items: [types.MaxLineItems]types.LineItem{
			{Quantity: ptr(10.0), Unit: ptr("Unidades"), Description: ptr("Cajas de fruta")},
			{Quantity: ptr(0.0), Unit: ptr("Unidades"), Description: ptr("Vacío")},
			{Quantity: ptr(5.0), Description: ptr("Sacos de arroz")},
		},
		RowNumber: 3,
	}
}

func sampleLookups() types.Lookups {
	return types.Lookups{
		Drivers: []types.Driver{
			{FullName: ptr("PEREZ GOMEZ, JUAN CARLOS"), DocumentType: ptr("DNI"), DocumentNumber: ptr("45678912"), License: ptr("Q45678912")},
			{FullName: ptr("QUISPE MAMANI JOSE"), DocumentType: ptr("DNI"), DocumentNumber: ptr("41234567"), License: ptr("Q41234567")},
		},
		Vehicles: []types.Vehicle{
			{Plate: ptr("ABC-123"), Authorization: ptr("15M21028374E")},
			{Plate: ptr("XYZ-999")},
		},
		Senders: []types.Party{
			{LegalName: ptr("ACME SAC"), DocumentType: ptr("RUC"), DocumentNumber: ptr("20123456789")},
			{LegalName: ptr("Sin RUC SAC"), DocumentType: ptr("RUC")},
		},
		Recipients: []types.Party{
			{LegalName: ptr("Bodega Norte"), DocumentType: ptr("RUC"), DocumentNumber: ptr("20987654321")},
			{},
		},
	}
}

func sampleGeo() []types.GeoRow {
	return []types.GeoRow{
		{Description: ptr("LIMA, LIMA, MIRAFLORES"), Code: ptr("150122")},
		{Description: ptr("LA LIBERTAD, TRUJILLO, TRUJILLO"), Code: ptr("130101")},
	}
}

func transformSample(t *testing.T, mutate func(s *types.Shipment, l *types.Lookups)) (*ubl.DespatchAdvice, error) {
	t.Helper()
	s, l := sampleShipment(), sampleLookups()
	if mutate != nil {
		mutate(&s, &l)
	}
	tr := NewTransformer(WithClock(fixedClock))
	return tr.Transform(s, l, ubigeo.NewResolver(sampleGeo()), "T001", 1)
}

func TestTransform(t *testing.T) {
	doc, err := transformSample(t, nil)
	require.NoError(t, err)

	assert.Equal(t, "2.1", doc.UBLVersionID.Text)
	assert.Equal(t, "2.0", doc.CustomizationID.Text)
	assert.Equal(t, "T001-00000001", doc.ID.Text)
	assert.Equal(t, "2024-03-16", doc.IssueDate.Text)
	assert.Equal(t, "10:30:00", doc.IssueTime.Text)
	assert.Equal(t, "09", doc.DespatchAdviceTypeCode.Text)

	supplier := doc.DespatchSupplierParty.Party
	assert.Equal(t, ubl.Identifier{Attributes: ubl.SchemeAttributes{SchemeID: "6"}, Text: "20123456789"}, supplier.PartyIdentification.ID)
	assert.Equal(t, "ACME SAC", supplier.PartyLegalEntity.RegistrationName.Text)
	assert.Equal(t, "Av. Larco 123", supplier.PartyLegalEntity.RegistrationAddress.AddressLine.Line.Text)
	assert.Equal(t, "20987654321", doc.DeliveryCustomerParty.Party.PartyIdentification.ID.Text)

	shipment := doc.Shipment
	assert.Equal(t, "1", shipment.ID.Text)
	assert.Equal(t, ubl.Quantity{Attributes: ubl.UnitAttributes{UnitCode: "KGM"}, Text: 1200}, shipment.GrossWeightMeasure)
	assert.Equal(t, "2024-03-15", shipment.ShipmentStage.TransitPeriod.StartDate.Text)

	require.Len(t, shipment.ShipmentStage.DriverPersons, 1)
	driver := shipment.ShipmentStage.DriverPersons[0]
	assert.Equal(t, "7", driver.ID.Attributes.SchemeID)
	assert.Equal(t, "45678912", driver.ID.Text)
	assert.Equal(t, "JUAN CARLOS", driver.FirstName.Text)
	assert.Equal(t, "PEREZ GOMEZ", driver.FamilyName.Text)
	assert.Equal(t, "Conductor", driver.JobTitle.Text)
	assert.Equal(t, "Q45678912", driver.IdentityDocumentReference.ID.Text)

	assert.Equal(t, "130101", shipment.Delivery.DeliveryAddress.ID.Text)
	assert.Equal(t, "Jr. Pizarro 456", shipment.Delivery.DeliveryAddress.AddressLine.Line.Text)
	assert.Equal(t, "150122", shipment.Delivery.Despatch.DespatchAddress.ID.Text)

	equipment := shipment.TransportHandlingUnit.TransportEquipment
	assert.Equal(t, "ABC-123", equipment.ID.Text)
	assert.Equal(t, "15M21028374E", equipment.ApplicableTransportMeans.RegistrationNationalityID.Text)

	require.Len(t, doc.DespatchLines, 2)
	assert.Equal(t, 1.0, doc.DespatchLines[0].ID.Text)
	assert.Equal(t, "NIU", doc.DespatchLines[0].DeliveredQuantity.Attributes.UnitCode)
	assert.Equal(t, 10.0, doc.DespatchLines[0].DeliveredQuantity.Text)
	assert.Equal(t, "Cajas de fruta", doc.DespatchLines[0].Item.Description.Text)
	assert.Equal(t, 2.0, doc.DespatchLines[1].ID.Text)
	assert.Equal(t, 2.0, doc.DespatchLines[1].OrderLineReference.LineID.Text)
	assert.Equal(t, "ZZ", doc.DespatchLines[1].DeliveredQuantity.Attributes.UnitCode)

	assert.Equal(t, "20123456789-09-T001-00000001", ubl.FileName(doc))
}

func TestTransformDefaults(t *testing.T) {
	doc, err := transformSample(t, func(s *types.Shipment, l *types.Lookups) {
		s.Weight = nil
		s.WeightUnit = nil
		s.SenderGeo = nil
		s.RecipientGeo = ptr("CUSCO, CUSCO, CUSCO")
		s.SenderAddress = nil
		s.Items = [types.MaxLineItems]types.LineItem{}
	})
	require.NoError(t, err)

	assert.Equal(t, ubl.Quantity{Attributes: ubl.UnitAttributes{UnitCode: "KGM"}, Text: 0}, doc.Shipment.GrossWeightMeasure)
	assert.Equal(t, ubigeo.DefaultCode, doc.Shipment.Delivery.Despatch.DespatchAddress.ID.Text)
	assert.Equal(t, ubigeo.DefaultCode, doc.Shipment.Delivery.DeliveryAddress.ID.Text)
	assert.Equal(t, "", doc.Shipment.Delivery.Despatch.DespatchAddress.AddressLine.Line.Text)
	assert.Empty(t, doc.DespatchLines)
}

func TestTransformFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *types.Shipment, l *types.Lookups)
		kind   error
		field  string
	}{
		{"missing transfer date", func(s *types.Shipment, l *types.Lookups) { s.TransferDate = nil },
			validation.ErrMissingField, "shipment.transferDate"},
		{"unknown sender", func(s *types.Shipment, l *types.Lookups) { s.SenderName = ptr("Otra SAC") },
			validation.ErrNotFound, "sender"},
		{"sender without document number", func(s *types.Shipment, l *types.Lookups) { s.SenderName = ptr("Sin RUC SAC") },
			validation.ErrNotFound, "sender"},
		{"absent sender never matches empty entries", func(s *types.Shipment, l *types.Lookups) { s.SenderName = nil },
			validation.ErrNotFound, "sender"},
		{"unknown recipient", func(s *types.Shipment, l *types.Lookups) { s.RecipientName = ptr("Nadie") },
			validation.ErrNotFound, "recipient"},
		{"unknown driver", func(s *types.Shipment, l *types.Lookups) { s.Driver = ptr("NADIE, NADIE") },
			validation.ErrNotFound, "driver"},
		{"driver name without comma", func(s *types.Shipment, l *types.Lookups) { s.Driver = ptr("QUISPE MAMANI JOSE") },
			validation.ErrInvalidField, "driver.fullName"},
		{"driver without license", func(s *types.Shipment, l *types.Lookups) { l.Drivers[0].License = nil },
			validation.ErrInvalidField, "driver.license"},
		{"unknown vehicle", func(s *types.Shipment, l *types.Lookups) { s.Plate = ptr("ZZZ-000") },
			validation.ErrNotFound, "vehicle"},
		{"vehicle without authorization", func(s *types.Shipment, l *types.Lookups) { s.Plate = ptr("XYZ-999") },
			validation.ErrNotFound, "vehicle"},
		{"sender checked before driver", func(s *types.Shipment, l *types.Lookups) {
			s.SenderName = ptr("Otra SAC")
			s.Driver = ptr("NADIE, NADIE")
		}, validation.ErrNotFound, "sender"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := transformSample(t, tt.mutate)
			require.Error(t, err)
			assert.Nil(t, doc)
			assert.ErrorIs(t, err, tt.kind)

			e, ok := validation.As(err)
			require.True(t, ok)
			assert.Equal(t, tt.field, e.Field)
		})
	}
}

func TestTransformFirstMatchWins(t *testing.T) {
	doc, err := transformSample(t, func(s *types.Shipment, l *types.Lookups) {
		l.Senders = append(l.Senders, types.Party{LegalName: ptr("ACME SAC"), DocumentNumber: ptr("20000000001")})
	})
	require.NoError(t, err)
	assert.Equal(t, "20123456789", doc.SenderDocumentNumber())
}

func TestTransformIsDeterministic(t *testing.T) {
	first, err := transformSample(t, nil)
	require.NoError(t, err)
	second, err := transformSample(t, nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestTransformLocation(t *testing.T) {
	lima := time.FixedZone("PET", -5*60*60)
	tr := NewTransformer(
		WithClock(func() time.Time { return time.Date(2024, 3, 16, 2, 0, 0, 0, time.UTC) }),
		WithLocation(lima),
	)

	doc, err := tr.Transform(sampleShipment(), sampleLookups(), ubigeo.NewResolver(sampleGeo()), "T001", 7)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", doc.IssueDate.Text)
	assert.Equal(t, "21:00:00", doc.IssueTime.Text)
	assert.Equal(t, "T001-00000007", doc.ID.Text)
}

func TestTransformPackageFunc(t *testing.T) {
	doc, err := Transform(sampleShipment(), sampleLookups(), sampleGeo(), "EG01", 42)
	require.NoError(t, err)
	assert.Equal(t, "EG01-00000042", doc.ID.Text)
	assert.Equal(t, "150122", doc.Shipment.Delivery.Despatch.DespatchAddress.ID.Text)
}

func TestDocumentID(t *testing.T) {
	assert.Equal(t, "T001-00000001", DocumentID("T001", 1))
	assert.Equal(t, "T001-12345678", DocumentID("T001", 12345678))
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		in, surname, given string
	}{
		{"PEREZ GOMEZ, JUAN CARLOS", "PEREZ GOMEZ", "JUAN CARLOS"},
		{"PEREZ,JUAN", "PEREZ", "JUAN"},
		{"DE LA CRUZ, MARIA, JOSE", "DE LA CRUZ", "MARIA, JOSE"},
		{"SIN COMA", "SIN COMA", ""},
	}
	for _, tt := range tests {
		surname, given := splitName(tt.in)
		assert.Equal(t, tt.surname, surname, tt.in)
		assert.Equal(t, tt.given, given, tt.in)
	}
}
