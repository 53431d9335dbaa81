// =============================================================================
// GRTE Workbook Converter - Main Entry Point
// =============================================================================
//
// USAGE:
//   grte transform   - Transform workbooks into waybill documents
//   grte preview     - Show the shipments and lookups of a workbook
//   grte serve       - Serve the conversion API over HTTP
//   grte version     - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : Workbook reading, transformation and encoding
//   - pkg/       : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/grte-converter/cmd"
)

func main() {
	cmd.Execute()
}
