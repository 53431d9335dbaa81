package converter

import (
	"fmt"

	"github.com/ginjaninja78/grte-converter/internal/types"
	"github.com/ginjaninja78/grte-converter/internal/ubl"
)

// =============================================================================
// ROW SELECTION
// =============================================================================

// Options selects and numbers the shipments of a dataset.
type Options struct {
	// Series is the document series, e.g. "T001".
	Series string

	// StartCorrelative numbers the first document.
	StartCorrelative int

	// Row is the 1-based position of a single shipment in the data sheet,
	// header rows excluded. Zero selects every shipment.
	Row int

	// ContinueOnError moves on to the next shipment after a failure.
	// Ignored when a single row is selected.
	ContinueOnError bool
}

// RowResult is the outcome of one shipment.
type RowResult struct {
	// RowNumber is the 1-based row in the data sheet.
	RowNumber int `json:"rowNumber"`

	// DocumentID is "{series}-{correlative}" for transformed rows.
	DocumentID string `json:"documentId,omitempty"`

	// FileName is the submission file name for transformed rows.
	FileName string `json:"fileName,omitempty"`

	// OutputFile is where the document was written, if it was.
	OutputFile string `json:"outputFile,omitempty"`

	Document *ubl.DespatchAdvice `json:"-"`
	Err      error               `json:"-"`
}

// OK reports whether the row produced a document.
func (r RowResult) OK() bool {
	return r.Err == nil && r.Document != nil
}

// BatchResult is the outcome of TransformDataset.
type BatchResult struct {
	Rows []RowResult

	// Skipped counts blank data rows.
	Skipped int

	// NextCorrelative is the correlative following the last document issued.
	NextCorrelative int
}

// Documents returns the number of documents produced.
func (b BatchResult) Documents() int {
	n := 0
	for _, r := range b.Rows {
		if r.OK() {
			n++
		}
	}
	return n
}

// Failures returns the failed rows.
func (b BatchResult) Failures() []RowResult {
	var out []RowResult
	for _, r := range b.Rows {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}

// TransformDataset transforms the selected shipments of a dataset.
//
// Each document consumes the next correlative; failed and blank rows do
// not, so the issued documents are numbered without gaps.
//
// RETURNS:
//   - The per-row outcomes.
//   - An error only when the selected row does not exist.
func (t *Transformer) TransformDataset(ds *Dataset, opts Options) (BatchResult, error) {
	result := BatchResult{NextCorrelative: opts.StartCorrelative}

	if opts.Row != 0 {
		if opts.Row < 0 || opts.Row > len(ds.Shipments) {
			return result, fmt.Errorf("row %d out of range: the data sheet has %d row(s)", opts.Row, len(ds.Shipments))
		}
		s := ds.Shipments[opts.Row-1]
		row := t.transformRow(s, ds, opts.Series, result.NextCorrelative)
		if row.OK() {
			result.NextCorrelative++
		}
		result.Rows = append(result.Rows, row)
		return result, nil
	}

	for _, s := range ds.Shipments {
		if isBlank(s) {
			result.Skipped++
			continue
		}
		row := t.transformRow(s, ds, opts.Series, result.NextCorrelative)
		result.Rows = append(result.Rows, row)
		if row.OK() {
			result.NextCorrelative++
			continue
		}
		if !opts.ContinueOnError {
			break
		}
	}
	return result, nil
}

func (t *Transformer) transformRow(s types.Shipment, ds *Dataset, series string, correlative int) RowResult {
	row := RowResult{RowNumber: s.RowNumber}
	doc, err := t.Transform(s, ds.Lookups, ds.Resolver(), series, correlative)
	if err != nil {
		row.Err = err
		return row
	}
	row.Document = doc
	row.DocumentID = doc.ID.Text
	row.FileName = ubl.FileName(doc)
	return row
}

// isBlank reports whether a data row has no cell filled in. Templates are
// often formatted far below the last shipment.
func isBlank(s types.Shipment) bool {
	if s.TransferDate != nil || s.Weight != nil {
		return false
	}
	for _, v := range []*string{
		s.SenderName, s.SenderGeo, s.SenderAddress,
		s.RecipientName, s.RecipientGeo, s.RecipientAddress,
		s.Plate, s.Driver, s.WeightUnit,
	} {
		if v != nil {
			return false
		}
	}
	for _, item := range s.Items {
		if item.Quantity != nil || item.Unit != nil || item.Description != nil {
			return false
		}
	}
	return true
}
