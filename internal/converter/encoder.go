package converter

import (
	"encoding/json"
	"fmt"

	"github.com/ginjaninja78/grte-converter/internal/config"
	"github.com/ginjaninja78/grte-converter/internal/ubl"
	"github.com/ginjaninja78/grte-converter/internal/xmlwriter"
)

// Encoder serializes document bodies.
type Encoder struct {
	// Format is config.FormatJSON or config.FormatXML.
	Format string

	// Envelope wraps JSON output in the submission envelope. It has no
	// effect on XML output.
	Envelope bool

	PersonaID     string
	PersonaToken  string
	CustomerEmail string
}

// NewEncoder creates an Encoder from the output and submission settings.
func NewEncoder(cfg *config.MainConfig) Encoder {
	return Encoder{
		Format:        cfg.Output.Format,
		Envelope:      cfg.Output.Envelope,
		PersonaID:     cfg.Submission.PersonaID,
		PersonaToken:  cfg.Submission.PersonaToken,
		CustomerEmail: cfg.Submission.CustomerEmail,
	}
}

// Encode serializes a document body.
func (e Encoder) Encode(doc *ubl.DespatchAdvice) ([]byte, error) {
	switch e.Format {
	case config.FormatXML:
		return xmlwriter.Generate(doc)
	case config.FormatJSON, "":
		var v any = doc
		if e.Envelope {
			v = ubl.NewEnvelope(doc, e.PersonaID, e.PersonaToken, e.CustomerEmail)
		}
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode JSON: %w", err)
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", e.Format)
	}
}

// Extension returns the file extension of the encoded output.
func (e Encoder) Extension() string {
	if e.Format == config.FormatXML {
		return ".xml"
	}
	return ".json"
}

// ContentType returns the MIME type of the encoded output.
func (e Encoder) ContentType() string {
	if e.Format == config.FormatXML {
		return "application/xml"
	}
	return "application/json"
}
