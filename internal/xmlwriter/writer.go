// =============================================================================
// GRTE Workbook Converter - XML Writer Module
// =============================================================================
//
// This module renders a document body as a UBL 2.1 DespatchAdvice XML
// document. The element tree mirrors the JSON body key for key, with
// "_attributes" members becoming XML attributes and "_text" members becoming
// character data.
//
// XML STRUCTURE:
//
//   <DespatchAdvice xmlns="...DespatchAdvice-2" xmlns:cac="..." xmlns:cbc="...">
//     <cbc:UBLVersionID>2.1</cbc:UBLVersionID>
//     <cbc:ID>T001-00000001</cbc:ID>
//     ...
//     <cac:Shipment>
//       <cbc:GrossWeightMeasure unitCode="KGM">1200</cbc:GrossWeightMeasure>
//       ...
//     </cac:Shipment>
//     <cac:DespatchLine>
//       <cbc:ID>1</cbc:ID>
//       <cbc:DeliveredQuantity unitCode="NIU">10</cbc:DeliveredQuantity>
//       ...
//     </cac:DespatchLine>
//   </DespatchAdvice>
//
// =============================================================================

package xmlwriter

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/ginjaninja78/grte-converter/internal/ubl"
)

// UBL 2.1 namespaces.
const (
	NamespaceDespatchAdvice = "urn:oasis:names:specification:ubl:schema:xsd:DespatchAdvice-2"
	NamespaceCAC            = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	NamespaceCBC            = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"
)

// =============================================================================
// XML GENERATION OPTIONS
// =============================================================================

// GenerateOptions contains options for XML generation.
type GenerateOptions struct {
	// Indent is the string used for indentation.
	// Default: "  " (two spaces)
	Indent string

	// IncludeXMLDeclaration determines whether to include the XML declaration.
	// Default: true
	IncludeXMLDeclaration bool

	// XMLVersion is the XML version for the declaration.
	// Default: "1.0"
	XMLVersion string

	// Encoding is the encoding for the XML declaration.
	// Default: "UTF-8"
	Encoding string

	// RootAttributes are the attributes of the root element, in order.
	// Default: the UBL DespatchAdvice, cac and cbc namespaces.
	RootAttributes []xml.Attr
}

// DefaultGenerateOptions returns the default generation options.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		Indent:                "  ",
		IncludeXMLDeclaration: true,
		XMLVersion:            "1.0",
		Encoding:              "UTF-8",
		RootAttributes: []xml.Attr{
			{Name: xml.Name{Local: "xmlns"}, Value: NamespaceDespatchAdvice},
			{Name: xml.Name{Local: "xmlns:cac"}, Value: NamespaceCAC},
			{Name: xml.Name{Local: "xmlns:cbc"}, Value: NamespaceCBC},
		},
	}
}

// =============================================================================
// XML GENERATION FUNCTIONS
// =============================================================================

// Generate renders a document body with the default options.
func Generate(doc *ubl.DespatchAdvice) ([]byte, error) {
	return GenerateWithOptions(doc, DefaultGenerateOptions())
}

// GenerateWithOptions renders a document body with custom options.
func GenerateWithOptions(doc *ubl.DespatchAdvice, options GenerateOptions) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("document body is nil")
	}

	var buffer bytes.Buffer

	if options.IncludeXMLDeclaration {
		buffer.WriteString(fmt.Sprintf("<?xml version=\"%s\" encoding=\"%s\"?>\n",
			options.XMLVersion, options.Encoding))
	}

	root := buildDocument(doc)
	root.Attributes = append(root.Attributes, options.RootAttributes...)

	if err := writeElement(&buffer, root, options.Indent, 0); err != nil {
		return nil, fmt.Errorf("failed to write XML: %w", err)
	}

	return buffer.Bytes(), nil
}

// =============================================================================
// XML DOCUMENT BUILDING
// =============================================================================

// XMLElement represents a generic XML element.
type XMLElement struct {
	XMLName    xml.Name
	Attributes []xml.Attr
	Value      string
	Children   []XMLElement
}

// buildDocument constructs the element tree of a document body.
func buildDocument(doc *ubl.DespatchAdvice) XMLElement {
	root := element("DespatchAdvice",
		text("cbc:UBLVersionID", doc.UBLVersionID),
		text("cbc:CustomizationID", doc.CustomizationID),
		text("cbc:ID", doc.ID),
		text("cbc:IssueDate", doc.IssueDate),
		text("cbc:IssueTime", doc.IssueTime),
		text("cbc:DespatchAdviceTypeCode", doc.DespatchAdviceTypeCode),
		element("cac:DespatchSupplierParty", buildParty(doc.DespatchSupplierParty.Party)),
		element("cac:DeliveryCustomerParty", buildParty(doc.DeliveryCustomerParty.Party)),
		buildShipment(doc.Shipment),
	)

	for _, line := range doc.DespatchLines {
		root.Children = append(root.Children, element("cac:DespatchLine",
			numeric("cbc:ID", line.ID),
			quantity("cbc:DeliveredQuantity", line.DeliveredQuantity),
			element("cac:OrderLineReference", numeric("cbc:LineID", line.OrderLineReference.LineID)),
			element("cac:Item", text("cbc:Description", line.Item.Description)),
		))
	}

	return root
}

func buildParty(p ubl.Party) XMLElement {
	return element("cac:Party",
		element("cac:PartyIdentification", identifier("cbc:ID", p.PartyIdentification.ID)),
		element("cac:PartyLegalEntity",
			text("cbc:RegistrationName", p.PartyLegalEntity.RegistrationName),
			element("cac:RegistrationAddress",
				addressLine(p.PartyLegalEntity.RegistrationAddress.AddressLine)),
		),
	)
}

func buildShipment(s ubl.Shipment) XMLElement {
	stage := element("cac:ShipmentStage",
		element("cac:TransitPeriod", text("cbc:StartDate", s.ShipmentStage.TransitPeriod.StartDate)),
	)
	for _, d := range s.ShipmentStage.DriverPersons {
		stage.Children = append(stage.Children, element("cac:DriverPerson",
			identifier("cbc:ID", d.ID),
			text("cbc:FirstName", d.FirstName),
			text("cbc:FamilyName", d.FamilyName),
			text("cbc:JobTitle", d.JobTitle),
			element("cac:IdentityDocumentReference", text("cbc:ID", d.IdentityDocumentReference.ID)),
		))
	}

	equipment := s.TransportHandlingUnit.TransportEquipment

	return element("cac:Shipment",
		text("cbc:ID", s.ID),
		quantity("cbc:GrossWeightMeasure", s.GrossWeightMeasure),
		stage,
		element("cac:Delivery",
			locatedAddress("cac:DeliveryAddress", s.Delivery.DeliveryAddress),
			element("cac:Despatch", locatedAddress("cac:DespatchAddress", s.Delivery.Despatch.DespatchAddress)),
		),
		element("cac:TransportHandlingUnit",
			element("cac:TransportEquipment",
				text("cbc:ID", equipment.ID),
				element("cac:ApplicableTransportMeans",
					text("cbc:RegistrationNationalityID", equipment.ApplicableTransportMeans.RegistrationNationalityID)),
			),
		),
	)
}

func locatedAddress(name string, a ubl.LocatedAddress) XMLElement {
	return element(name, text("cbc:ID", a.ID), addressLine(a.AddressLine))
}

func addressLine(l ubl.AddressLine) XMLElement {
	return element("cac:AddressLine", text("cbc:Line", l.Line))
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func element(name string, children ...XMLElement) XMLElement {
	return XMLElement{XMLName: xml.Name{Local: name}, Children: children}
}

func text(name string, t ubl.Text) XMLElement {
	return XMLElement{XMLName: xml.Name{Local: name}, Value: t.Text}
}

func numeric(name string, n ubl.Numeric) XMLElement {
	return XMLElement{XMLName: xml.Name{Local: name}, Value: formatNumber(n.Text)}
}

func identifier(name string, id ubl.Identifier) XMLElement {
	return XMLElement{
		XMLName:    xml.Name{Local: name},
		Attributes: []xml.Attr{{Name: xml.Name{Local: "schemeID"}, Value: id.Attributes.SchemeID}},
		Value:      id.Text,
	}
}

func quantity(name string, q ubl.Quantity) XMLElement {
	return XMLElement{
		XMLName:    xml.Name{Local: name},
		Attributes: []xml.Attr{{Name: xml.Name{Local: "unitCode"}, Value: q.Attributes.UnitCode}},
		Value:      formatNumber(q.Text),
	}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// writeElement writes an XML element to the buffer with indentation.
func writeElement(buffer *bytes.Buffer, element XMLElement, indent string, level int) error {
	writeIndent(buffer, indent, level)

	buffer.WriteString("<")
	buffer.WriteString(element.XMLName.Local)

	for _, attr := range element.Attributes {
		buffer.WriteString(" ")
		buffer.WriteString(attr.Name.Local)
		buffer.WriteString("=\"")
		if err := xml.EscapeText(buffer, []byte(attr.Value)); err != nil {
			return err
		}
		buffer.WriteString("\"")
	}

	if len(element.Children) == 0 && element.Value == "" {
		buffer.WriteString("/>\n")
		return nil
	}

	buffer.WriteString(">")

	if len(element.Children) == 0 {
		if err := xml.EscapeText(buffer, []byte(element.Value)); err != nil {
			return err
		}
	} else {
		buffer.WriteString("\n")
		for _, child := range element.Children {
			if err := writeElement(buffer, child, indent, level+1); err != nil {
				return err
			}
		}
		writeIndent(buffer, indent, level)
	}

	buffer.WriteString("</")
	buffer.WriteString(element.XMLName.Local)
	buffer.WriteString(">\n")
	return nil
}

func writeIndent(buffer *bytes.Buffer, indent string, level int) {
	for i := 0; i < level; i++ {
		buffer.WriteString(indent)
	}
}
