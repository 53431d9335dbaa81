// =============================================================================
// GRTE Workbook Converter - Ubigeo CSV Parser Module
// =============================================================================
//
// This module reads the geo-code table from a CSV export instead of the
// UBIGEO sheet. Official ubigeo listings are commonly distributed as CSV in
// a legacy Windows encoding, so the parser handles:
//   - Different delimiters (comma, semicolon, pipe, tab)
//   - Leading header rows
//   - UTF-8 (with or without BOM), ISO-8859-1 and Windows-1252 input
//   - Quoted fields, including fields with embedded commas
//
// The rows come back as text cells so they go through the same geo-row
// decoder as the sheet: column 0 is the "department, province, district"
// description and column 1 the 6-digit code.
//
// =============================================================================

package csvparser

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/ginjaninja78/grte-converter/internal/xlsxparser"
)

// =============================================================================
// SETTINGS
// =============================================================================

// Settings contains settings for parsing a ubigeo CSV file.
type Settings struct {
	// Delimiter is the field separator.
	// Accepts a single character or one of "tab", "pipe", "semicolon".
	// Default: ","
	Delimiter string

	// HeaderRows is the number of leading rows to drop.
	// Default: 0
	HeaderRows int

	// Encoding is the character encoding of the file.
	// Values: "UTF-8", "ISO-8859-1", "Windows-1252"
	// Default: "UTF-8"
	Encoding string
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// ParseFile reads a ubigeo CSV file.
func ParseFile(filePath string, settings Settings) ([]xlsxparser.Row, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	rows, err := Parse(file, settings)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	return rows, nil
}

// Parse reads ubigeo CSV data.
//
// RETURNS:
//   - One text row per non-empty data row, header rows removed.
//   - An error if the encoding is unknown or the CSV is malformed.
func Parse(r io.Reader, settings Settings) ([]xlsxparser.Row, error) {
	decoder, err := decoderFor(settings.Encoding)
	if err != nil {
		return nil, err
	}

	reader := bufio.NewReader(r)
	if decoder == nil {
		if err := skipBOM(reader); err != nil {
			return nil, err
		}
	}

	var source io.Reader = reader
	if decoder != nil {
		source = transform.NewReader(reader, decoder.NewDecoder())
	}

	csvReader := csv.NewReader(source)
	configureReader(csvReader, settings)

	allRows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	if settings.HeaderRows > 0 {
		if settings.HeaderRows >= len(allRows) {
			return nil, nil
		}
		allRows = allRows[settings.HeaderRows:]
	}

	rows := make([]xlsxparser.Row, 0, len(allRows))
	for _, record := range allRows {
		if isRowEmpty(record) {
			continue
		}
		rows = append(rows, xlsxparser.TextRow(record...))
	}
	return rows, nil
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings Settings) {
	switch settings.Delimiter {
	case "\\t", "tab", "TAB":
		reader.Comma = '\t'
	case "pipe", "PIPE":
		reader.Comma = '|'
	case "semicolon":
		reader.Comma = ';'
	default:
		if len(settings.Delimiter) > 0 {
			reader.Comma = rune(settings.Delimiter[0])
		} else {
			reader.Comma = ','
		}
	}

	// Listings are hand-maintained; tolerate ragged rows and stray quotes.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
}

// decoderFor returns the decoder of a legacy encoding, or nil for UTF-8.
func decoderFor(name string) (encoding.Encoding, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "", "UTF-8", "UTF8":
		return nil, nil
	case "ISO-8859-1", "LATIN1", "LATIN-1":
		return charmap.ISO8859_1, nil
	case "WINDOWS-1252", "CP1252":
		return charmap.Windows1252, nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func skipBOM(reader *bufio.Reader) error {
	head, err := reader.Peek(len(utf8BOM))
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return fmt.Errorf("failed to read CSV: %w", err)
	}
	if bytes.Equal(head, utf8BOM) {
		_, _ = reader.Discard(len(utf8BOM))
	}
	return nil
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
