// =============================================================================
// GRTE Workbook Converter - Document Transformer
// =============================================================================
//
// This module turns one shipment record into a GRTE document body. It
// cross-references the shipment against the configuration lookups and the
// geo-code table, checks the driver business rules, and projects the result
// onto the UBL DespatchAdvice structure.
//
// RESOLUTION ORDER (fail-fast, first match wins):
//   1. Transfer date must be present            -> missing-field
//   2. Sender by legal name, with a doc number  -> not-found
//   3. Recipient by legal name, with doc number -> not-found
//   4. Driver by full name, then driver rules   -> not-found / invalid-field
//   5. Vehicle by plate, with authorization     -> not-found
//   6. Driver name split into surname/given names
//   7. Origin and destination ubigeo codes
//   8. Unit and document-type catalog codes
//   9. Line items without quantity or description are dropped
//  10. Document body assembled
//
// Lookups are linear scans by exact value equality. Absent values never
// match, and the first matching entry wins when names repeat.
//
// The transformer never returns a partial document: any failure aborts the
// whole shipment.
//
// =============================================================================

package converter

import (
	"fmt"
	"strings"
	"time"

	"github.com/ginjaninja78/grte-converter/internal/catalog"
	"github.com/ginjaninja78/grte-converter/internal/types"
	"github.com/ginjaninja78/grte-converter/internal/ubigeo"
	"github.com/ginjaninja78/grte-converter/internal/ubl"
	"github.com/ginjaninja78/grte-converter/internal/validation"
)

// CorrelativeDigits is the zero-padded width of the correlative in a
// document ID.
const CorrelativeDigits = 8

// =============================================================================
// TRANSFORMER
// =============================================================================

// Transformer builds document bodies. It holds no per-document state and is
// safe for concurrent use.
type Transformer struct {
	now      func() time.Time
	location *time.Location
}

// TransformerOption configures a Transformer.
type TransformerOption func(*Transformer)

// WithClock sets the clock used for the issue date and time.
func WithClock(now func() time.Time) TransformerOption {
	return func(t *Transformer) {
		if now != nil {
			t.now = now
		}
	}
}

// WithLocation sets the time zone of the issue date and time.
func WithLocation(loc *time.Location) TransformerOption {
	return func(t *Transformer) {
		if loc != nil {
			t.location = loc
		}
	}
}

// NewTransformer creates a Transformer issuing documents at the current UTC
// time unless configured otherwise.
func NewTransformer(opts ...TransformerOption) *Transformer {
	t := &Transformer{
		now:      time.Now,
		location: time.UTC,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Transform builds the document body for a shipment against an unprepared
// geo-code table, using a default Transformer.
func Transform(s types.Shipment, lookups types.Lookups, geo []types.GeoRow, series string, correlative int) (*ubl.DespatchAdvice, error) {
	return NewTransformer().Transform(s, lookups, ubigeo.NewResolver(geo), series, correlative)
}

// Transform builds the document body for one shipment.
//
// PARAMETERS:
//   - s: The shipment record.
//   - lookups: The grouped configuration lookups.
//   - geo: The geo-code resolver built from the UBIGEO table.
//   - series: The document series, e.g. "T001".
//   - correlative: The document number within the series.
//
// RETURNS:
//   - The document body.
//   - A *validation.Error if a reference cannot be resolved or a rule fails.
func (t *Transformer) Transform(s types.Shipment, lookups types.Lookups, geo *ubigeo.Resolver, series string, correlative int) (*ubl.DespatchAdvice, error) {
	// =========================================================================
	// STEPS 1-5: RESOLVE AND VALIDATE REFERENCES
	// =========================================================================

	if s.TransferDate == nil {
		return nil, validation.MissingField("shipment.transferDate", "transfer date is required")
	}

	sender, ok := findParty(lookups.Senders, s.SenderName)
	if !ok || sender.DocumentNumber == nil {
		return nil, validation.NotFound("sender", s.SenderName, "no sender configuration matches the shipment")
	}

	recipient, ok := findParty(lookups.Recipients, s.RecipientName)
	if !ok || recipient.DocumentNumber == nil {
		return nil, validation.NotFound("recipient", s.RecipientName, "no recipient configuration matches the shipment")
	}

	driver, ok := findDriver(lookups.Drivers, s.Driver)
	if !ok {
		return nil, validation.NotFound("driver", s.Driver, "no driver configuration matches the shipment")
	}
	if err := validation.ValidateDriver(driver); err != nil {
		return nil, err
	}

	vehicle, ok := findVehicle(lookups.Vehicles, s.Plate)
	if !ok || vehicle.Authorization == nil {
		return nil, validation.NotFound("vehicle", s.Plate, "no vehicle configuration matches the shipment")
	}

	// =========================================================================
	// STEPS 6-9: DERIVE VALUES
	// =========================================================================

	surname, givenNames := splitName(types.Deref(driver.FullName))
	originCode := geo.Resolve(s.SenderGeo)
	destinationCode := geo.Resolve(s.RecipientGeo)

	weight := 0.0
	if s.Weight != nil {
		weight = *s.Weight
	}

	lines := make([]ubl.DespatchLine, 0, len(s.Items))
	for _, item := range s.Items {
		if !item.Complete() {
			continue
		}
		n := float64(len(lines) + 1)
		lines = append(lines, ubl.DespatchLine{
			ID: ubl.Numeric{Text: n},
			DeliveredQuantity: ubl.Quantity{
				Attributes: ubl.UnitAttributes{UnitCode: catalog.ItemUnitCode(item.Unit)},
				Text:       *item.Quantity,
			},
			OrderLineReference: ubl.OrderLineReference{LineID: ubl.Numeric{Text: n}},
			Item:               ubl.Item{Description: ubl.Text{Text: *item.Description}},
		})
	}

	// =========================================================================
	// STEP 10: ASSEMBLE THE DOCUMENT
	// =========================================================================

	issued := t.now().In(t.location)
	senderAddress := types.Deref(s.SenderAddress)
	recipientAddress := types.Deref(s.RecipientAddress)

	return &ubl.DespatchAdvice{
		UBLVersionID:           ubl.Text{Text: ubl.UBLVersion},
		CustomizationID:        ubl.Text{Text: ubl.CustomizationID},
		ID:                     ubl.Text{Text: DocumentID(series, correlative)},
		IssueDate:              ubl.Text{Text: issued.Format(time.DateOnly)},
		IssueTime:              ubl.Text{Text: issued.Format(time.TimeOnly)},
		DespatchAdviceTypeCode: ubl.Text{Text: ubl.DespatchAdviceTypeCode},

		DespatchSupplierParty: partyBlock(sender, senderAddress),
		DeliveryCustomerParty: partyBlock(recipient, recipientAddress),

		Shipment: ubl.Shipment{
			ID: ubl.Text{Text: ubl.ShipmentID},
			GrossWeightMeasure: ubl.Quantity{
				Attributes: ubl.UnitAttributes{UnitCode: catalog.WeightUnitCode(s.WeightUnit)},
				Text:       weight,
			},
			ShipmentStage: ubl.ShipmentStage{
				TransitPeriod: ubl.TransitPeriod{
					StartDate: ubl.Text{Text: s.TransferDate.UTC().Format(time.DateOnly)},
				},
				DriverPersons: []ubl.DriverPerson{{
					ID: ubl.Identifier{
						Attributes: ubl.SchemeAttributes{SchemeID: catalog.DriverSchemeID(driver.DocumentType)},
						Text:       *driver.DocumentNumber,
					},
					FirstName:  ubl.Text{Text: givenNames},
					FamilyName: ubl.Text{Text: surname},
					JobTitle:   ubl.Text{Text: ubl.DriverJobTitle},
					IdentityDocumentReference: ubl.IdentityDocumentReference{
						ID: ubl.Text{Text: *driver.License},
					},
				}},
			},
			Delivery: ubl.Delivery{
				DeliveryAddress: locatedAddress(destinationCode, recipientAddress),
				Despatch: ubl.Despatch{
					DespatchAddress: locatedAddress(originCode, senderAddress),
				},
			},
			TransportHandlingUnit: ubl.TransportHandlingUnit{
				TransportEquipment: ubl.TransportEquipment{
					ID: ubl.Text{Text: types.Deref(vehicle.Plate)},
					ApplicableTransportMeans: ubl.ApplicableTransportMeans{
						RegistrationNationalityID: ubl.Text{Text: *vehicle.Authorization},
					},
				},
			},
		},

		DespatchLines: lines,
	}, nil
}

// DocumentID formats "{series}-{correlative}" with the correlative
// zero-padded to eight digits.
func DocumentID(series string, correlative int) string {
	return fmt.Sprintf("%s-%0*d", series, CorrelativeDigits, correlative)
}

// =============================================================================
// LOOKUPS
// =============================================================================

func findParty(parties []types.Party, name *string) (types.Party, bool) {
	for _, p := range parties {
		if types.Equal(p.LegalName, name) {
			return p, true
		}
	}
	return types.Party{}, false
}

func findDriver(drivers []types.Driver, name *string) (types.Driver, bool) {
	for _, d := range drivers {
		if types.Equal(d.FullName, name) {
			return d, true
		}
	}
	return types.Driver{}, false
}

func findVehicle(vehicles []types.Vehicle, plate *string) (types.Vehicle, bool) {
	for _, v := range vehicles {
		if types.Equal(v.Plate, plate) {
			return v, true
		}
	}
	return types.Vehicle{}, false
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// splitName splits "Apellidos, Nombres" on the first comma. Without a comma
// the whole name is the surname.
func splitName(fullName string) (surname, givenNames string) {
	before, after, found := strings.Cut(fullName, ",")
	if !found {
		return strings.TrimSpace(fullName), ""
	}
	return strings.TrimSpace(before), strings.TrimSpace(after)
}

func partyBlock(p types.Party, address string) ubl.PartyBlock {
	return ubl.PartyBlock{
		Party: ubl.Party{
			PartyIdentification: ubl.PartyIdentification{
				ID: ubl.Identifier{
					Attributes: ubl.SchemeAttributes{SchemeID: catalog.CompanySchemeID(p.DocumentType)},
					Text:       *p.DocumentNumber,
				},
			},
			PartyLegalEntity: ubl.PartyLegalEntity{
				RegistrationName: ubl.Text{Text: types.Deref(p.LegalName)},
				RegistrationAddress: ubl.Address{
					AddressLine: ubl.AddressLine{Line: ubl.Text{Text: address}},
				},
			},
		},
	}
}

func locatedAddress(code, address string) ubl.LocatedAddress {
	return ubl.LocatedAddress{
		ID:          ubl.Text{Text: code},
		AddressLine: ubl.AddressLine{Line: ubl.Text{Text: address}},
	}
}
