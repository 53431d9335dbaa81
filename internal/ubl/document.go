// =============================================================================
// GRTE Workbook Converter - Document Body Model
// =============================================================================
//
// This module defines the canonical GRTE document body, a UBL 2.1
// DespatchAdvice expressed in the compact JSON form consumed by the
// document-submission service.
//
// LEAF ENCODING:
//   Every leaf is an object with a "_text" member:
//
//     "cbc:ID": { "_text": "T001-00000001" }
//
//   Attributed leaves add an "_attributes" member:
//
//     "cbc:GrossWeightMeasure": {
//       "_attributes": { "unitCode": "KGM" },
//       "_text": 1200
//     }
//
// KEY VOCABULARY:
//   Keys carry their UBL namespace prefix ("cbc:" basic components, "cac:"
//   aggregate components). Both the key names and the nesting are an
//   external contract and must not change.
//
// =============================================================================

package ubl

import "fmt"

// DespatchAdviceTypeCode is the document-type code of a carrier-issued
// waybill for a self-initiated transfer.
const DespatchAdviceTypeCode = "09"

// Fixed identity values of every document body.
const (
	UBLVersion      = "2.1"
	CustomizationID = "2.0"
	ShipmentID      = "1"
	DriverJobTitle  = "Conductor"
)

// =============================================================================
// LEAF TYPES
// =============================================================================

// Text is a plain text leaf.
type Text struct {
	Text string `json:"_text"`
}

// Numeric is a leaf whose value is encoded as a JSON number.
type Numeric struct {
	Text float64 `json:"_text"`
}

// SchemeAttributes holds the schemeID attribute of an identifier.
type SchemeAttributes struct {
	SchemeID string `json:"schemeID"`
}

// Identifier is an identifier leaf qualified by a document-type scheme.
type Identifier struct {
	Attributes SchemeAttributes `json:"_attributes"`
	Text       string           `json:"_text"`
}

// UnitAttributes holds the unitCode attribute of a quantity or measure.
type UnitAttributes struct {
	UnitCode string `json:"unitCode"`
}

// Quantity is a numeric leaf qualified by a unit code. It is used both for
// delivered quantities and for gross weight measures.
type Quantity struct {
	Attributes UnitAttributes `json:"_attributes"`
	Text       float64        `json:"_text"`
}

// =============================================================================
// DOCUMENT BODY
// =============================================================================

// DespatchAdvice is the root of the document body.
type DespatchAdvice struct {
	UBLVersionID           Text           `json:"cbc:UBLVersionID"`
	CustomizationID        Text           `json:"cbc:CustomizationID"`
	ID                     Text           `json:"cbc:ID"`
	IssueDate              Text           `json:"cbc:IssueDate"`
	IssueTime              Text           `json:"cbc:IssueTime"`
	DespatchAdviceTypeCode Text           `json:"cbc:DespatchAdviceTypeCode"`
	DespatchSupplierParty  PartyBlock     `json:"cac:DespatchSupplierParty"`
	DeliveryCustomerParty  PartyBlock     `json:"cac:DeliveryCustomerParty"`
	Shipment               Shipment       `json:"cac:Shipment"`
	DespatchLines          []DespatchLine `json:"cac:DespatchLine"`
}

// PartyBlock wraps the sender or recipient party.
type PartyBlock struct {
	Party Party `json:"cac:Party"`
}

// Party identifies a company by document and legal name.
type Party struct {
	PartyIdentification PartyIdentification `json:"cac:PartyIdentification"`
	PartyLegalEntity    PartyLegalEntity    `json:"cac:PartyLegalEntity"`
}

type PartyIdentification struct {
	ID Identifier `json:"cbc:ID"`
}

type PartyLegalEntity struct {
	RegistrationName    Text    `json:"cbc:RegistrationName"`
	RegistrationAddress Address `json:"cac:RegistrationAddress"`
}

// Address is a free-text address.
type Address struct {
	AddressLine AddressLine `json:"cac:AddressLine"`
}

type AddressLine struct {
	Line Text `json:"cbc:Line"`
}

// LocatedAddress is a free-text address qualified by its ubigeo code.
type LocatedAddress struct {
	ID          Text        `json:"cbc:ID"`
	AddressLine AddressLine `json:"cac:AddressLine"`
}

// Shipment describes the physical transfer.
type Shipment struct {
	ID                    Text                  `json:"cbc:ID"`
	GrossWeightMeasure    Quantity              `json:"cbc:GrossWeightMeasure"`
	ShipmentStage         ShipmentStage         `json:"cac:ShipmentStage"`
	Delivery              Delivery              `json:"cac:Delivery"`
	TransportHandlingUnit TransportHandlingUnit `json:"cac:TransportHandlingUnit"`
}

type ShipmentStage struct {
	TransitPeriod TransitPeriod  `json:"cac:TransitPeriod"`
	DriverPersons []DriverPerson `json:"cac:DriverPerson"`
}

type TransitPeriod struct {
	StartDate Text `json:"cbc:StartDate"`
}

// DriverPerson identifies a driver and their license.
type DriverPerson struct {
	ID                        Identifier                `json:"cbc:ID"`
	FirstName                 Text                      `json:"cbc:FirstName"`
	FamilyName                Text                      `json:"cbc:FamilyName"`
	JobTitle                  Text                      `json:"cbc:JobTitle"`
	IdentityDocumentReference IdentityDocumentReference `json:"cac:IdentityDocumentReference"`
}

type IdentityDocumentReference struct {
	ID Text `json:"cbc:ID"`
}

// Delivery holds the destination and origin points.
type Delivery struct {
	DeliveryAddress LocatedAddress `json:"cac:DeliveryAddress"`
	Despatch        Despatch       `json:"cac:Despatch"`
}

type Despatch struct {
	DespatchAddress LocatedAddress `json:"cac:DespatchAddress"`
}

type TransportHandlingUnit struct {
	TransportEquipment TransportEquipment `json:"cac:TransportEquipment"`
}

// TransportEquipment identifies a vehicle by plate and its registration
// certificate.
type TransportEquipment struct {
	ID                       Text                     `json:"cbc:ID"`
	ApplicableTransportMeans ApplicableTransportMeans `json:"cac:ApplicableTransportMeans"`
}

type ApplicableTransportMeans struct {
	RegistrationNationalityID Text `json:"cbc:RegistrationNationalityID"`
}

// DespatchLine is one delivered item.
type DespatchLine struct {
	ID                 Numeric            `json:"cbc:ID"`
	DeliveredQuantity  Quantity           `json:"cbc:DeliveredQuantity"`
	OrderLineReference OrderLineReference `json:"cac:OrderLineReference"`
	Item               Item               `json:"cac:Item"`
}

type OrderLineReference struct {
	LineID Numeric `json:"cbc:LineID"`
}

type Item struct {
	Description Text `json:"cbc:Description"`
}

// SenderDocumentNumber returns the document number of the despatch supplier.
func (d *DespatchAdvice) SenderDocumentNumber() string {
	return d.DespatchSupplierParty.Party.PartyIdentification.ID.Text
}

// =============================================================================
// SUBMISSION ENVELOPE
// =============================================================================

// Envelope is the request payload of the document-submission service.
type Envelope struct {
	PersonaID     string          `json:"personaId"`
	PersonaToken  string          `json:"personaToken"`
	FileName      string          `json:"fileName"`
	DocumentBody  *DespatchAdvice `json:"documentBody"`
	CustomerEmail string          `json:"customerEmail,omitempty"`
}

// FileName returns the submission file name of a document:
// "{sender document number}-09-{series}-{correlative}".
func FileName(doc *DespatchAdvice) string {
	return fmt.Sprintf("%s-%s-%s", doc.SenderDocumentNumber(), DespatchAdviceTypeCode, doc.ID.Text)
}

// NewEnvelope wraps a document body for submission.
func NewEnvelope(doc *DespatchAdvice, personaID, personaToken, customerEmail string) Envelope {
	return Envelope{
		PersonaID:     personaID,
		PersonaToken:  personaToken,
		FileName:      FileName(doc),
		DocumentBody:  doc,
		CustomerEmail: customerEmail,
	}
}
