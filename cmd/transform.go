// =============================================================================
// GRTE Workbook Converter - Transform Command
// =============================================================================
//
// This file defines the 'transform' command, the main command of the tool.
//
// COMMAND USAGE:
//   grte transform [workbook.xlsx ...] [flags]
//
// FLAGS:
//   --row          : Transform a single data row (1-based)
//   --series       : Document series, overrides the configuration
//   --correlative  : Correlative of the first document
//   --format       : Output format, "json" or "xml"
//   --envelope     : Wrap JSON documents in the submission envelope
//   --output-dir   : Output directory, overrides the configuration
//   --archive      : Move fully transformed workbooks to the archive
//
// PROCESSING PIPELINE:
//   1. Load configuration
//   2. Use the workbooks given as arguments, or discover them in the input
//      directory
//   3. Load the workbooks concurrently
//   4. Transform and write documents, one workbook at a time, numbering
//      them consecutively across the run
//   5. Write the error log and summary
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/grte-converter/internal/config"
	"github.com/ginjaninja78/grte-converter/internal/converter"
	"github.com/ginjaninja78/grte-converter/internal/validation"
	"github.com/ginjaninja78/grte-converter/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var transformFlags struct {
	row         int
	series      string
	correlative int
	format      string
	envelope    bool
	outputDir   string
	archive     bool
}

var transformCmd = &cobra.Command{
	Use:   "transform [workbook.xlsx ...]",
	Short: "Transform GRTE workbooks into waybill documents",
	Long: `The transform command reads GRTE workbooks and writes one document per
shipment to the output directory.

Without arguments every .xlsx file in the input directory is processed.
Documents are numbered consecutively from the start correlative across all
workbooks of the run; a shipment that fails does not consume a number.

On error:
  - The failing rows are listed in an error log in the output directory
  - The workbook is not archived
  - Processing continues with the next row unless continue_on_error is off`,
	RunE: runTransform,
}

func init() {
	rootCmd.AddCommand(transformCmd)

	flags := transformCmd.Flags()
	flags.IntVar(&transformFlags.row, "row", 0, "Transform only this data row (1-based)")
	flags.StringVar(&transformFlags.series, "series", "", "Document series, e.g. T001")
	flags.IntVar(&transformFlags.correlative, "correlative", 0, "Correlative of the first document")
	flags.StringVar(&transformFlags.format, "format", "", "Output format: json or xml")
	flags.BoolVar(&transformFlags.envelope, "envelope", false, "Wrap JSON documents in the submission envelope")
	flags.StringVar(&transformFlags.outputDir, "output-dir", "", "Directory for generated documents")
	flags.BoolVar(&transformFlags.archive, "archive", false, "Archive workbooks once every row was transformed")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

func runTransform(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadRuntime()
	if err != nil {
		return err
	}
	if err := applyTransformFlags(cmd, cfg); err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "=== GRTE Workbook Converter ===")

	// =========================================================================
	// STEP 1: DISCOVER INPUT FILES
	// =========================================================================

	files := args
	if len(files) == 0 {
		fm := utils.NewFileManager(cfg.InputDir, cfg.OutputDir, cfg.ArchiveDir)
		files, err = fm.DiscoverInputFiles("")
		if err != nil {
			return fmt.Errorf("failed to discover input files: %w", err)
		}
	}

	if len(files) == 0 {
		fmt.Fprintln(out, "No workbooks found in the input directory.")
		return nil
	}

	fmt.Fprintf(out, "Found %d workbook(s) to process\n", len(files))

	// =========================================================================
	// STEP 2: PROCESS
	// =========================================================================

	results, summary := converter.RunFiles(ctx, files, cfg, logger, converter.WithRow(transformFlags.row))

	for _, result := range results {
		name := filepath.Base(result.FilePath)
		switch {
		case result.Error != nil:
			fmt.Fprintf(out, "  ✗ %s: %v\n", name, result.Error)
		case result.Success:
			fmt.Fprintf(out, "  ✓ %s -> %d document(s)\n", name, result.Stats.DocumentsCreated)
		default:
			fmt.Fprintf(out, "  ✗ %s: %d document(s), %d row(s) failed, see %s\n",
				name, result.Stats.DocumentsCreated, result.Stats.ValidationErrors, result.ErrorLog)
			fmt.Fprintln(out, validation.FormatErrors(rowErrors(result)))
		}
	}

	// =========================================================================
	// STEP 3: SUMMARY
	// =========================================================================

	fmt.Fprintln(out, "\n=== Processing Complete ===")
	fmt.Fprintf(out, "Total files:     %d\n", summary.TotalFiles)
	fmt.Fprintf(out, "Successful:      %d\n", summary.SuccessfulFiles)
	fmt.Fprintf(out, "Documents:       %d\n", summary.TotalDocuments)
	fmt.Fprintf(out, "Failed rows:     %d\n", summary.FailedRows)
	fmt.Fprintf(out, "Time elapsed:    %s\n", summary.EndTime.Sub(summary.StartTime))

	if len(results) > 0 {
		fmt.Fprintf(out, "Next correlative: %d\n", results[len(results)-1].NextCorrelative)
	}

	if cfg.Output.WriteSummary {
		path, err := utils.WriteSummaryLog(summary, cfg.OutputDir)
		if err != nil {
			logger.WithError(err).Warn("failed to write summary")
		} else {
			logger.WithField("path", path).Debug("summary written")
		}
	}

	if summary.FailedFiles > 0 {
		return fmt.Errorf("%d of %d workbook(s) had errors", summary.FailedFiles, summary.TotalFiles)
	}
	return nil
}

// rowErrors returns the failures of a result, each tagged with its row.
func rowErrors(result converter.Result) []error {
	var errs []error
	for _, row := range result.Rows {
		if row.Err != nil {
			errs = append(errs, fmt.Errorf("row %d: %w", row.RowNumber, row.Err))
		}
	}
	return errs
}

// applyTransformFlags lets explicit flags override the configuration.
func applyTransformFlags(cmd *cobra.Command, cfg *config.MainConfig) error {
	flags := cmd.Flags()

	if flags.Changed("series") {
		cfg.Document.Series = strings.ToUpper(transformFlags.series)
	}
	if flags.Changed("correlative") {
		cfg.Document.StartCorrelative = transformFlags.correlative
	}
	if flags.Changed("format") {
		cfg.Output.Format = strings.ToLower(transformFlags.format)
	}
	if flags.Changed("envelope") {
		cfg.Output.Envelope = transformFlags.envelope
	}
	if flags.Changed("output-dir") {
		cfg.OutputDir = transformFlags.outputDir
	}
	if flags.Changed("archive") {
		cfg.ArchiveProcessed = transformFlags.archive
	}
	if transformFlags.row < 0 {
		return fmt.Errorf("invalid --row %d", transformFlags.row)
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	return nil
}
