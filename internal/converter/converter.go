// =============================================================================
// GRTE Workbook Converter - Converter Module
// =============================================================================
//
// This module orchestrates the conversion pipeline for GRTE workbooks, from
// reading the sheets to writing one document per shipment.
//
// CONVERSION PIPELINE:
//   1. Read the data, configuration and UBIGEO sheets (concurrently)
//   2. Decode the rows and group the configuration lookups
//   3. Transform the selected shipments, numbering documents consecutively
//   4. Encode each document (JSON, enveloped JSON, or XML)
//   5. Write the output files and the error log
//   6. Archive the workbook
//
// CONCURRENCY:
//   RunFiles loads several workbooks at once, bounded by MaxConcurrency.
//   Documents are then issued one workbook at a time, in file order, so
//   correlatives are deterministic across a run.
//
// =============================================================================

package converter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ginjaninja78/grte-converter/internal/config"
	"github.com/ginjaninja78/grte-converter/internal/validation"
	"github.com/ginjaninja78/grte-converter/pkg/utils"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of processing a single workbook.
type Result struct {
	// FilePath is the path to the workbook that was processed.
	FilePath string

	// OutputFiles are the generated documents.
	OutputFiles []string

	// Rows holds one outcome per transformed shipment.
	Rows []RowResult

	// Success is true when the workbook loaded and no row failed.
	Success bool

	// Error is set when the workbook could not be processed at all.
	// Row failures are reported on Rows.
	Error error

	// ErrorLog is the path of the error log, when rows failed.
	ErrorLog string

	// ArchivePath is where the workbook was moved, when archived.
	ArchivePath string

	// NextCorrelative is the correlative following the last document issued.
	NextCorrelative int

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the processing.
type ProcessingStats struct {
	// RowsProcessed is the number of shipments transformed or attempted.
	RowsProcessed int

	// RowsSkipped is the number of blank data rows.
	RowsSkipped int

	// DocumentsCreated is the number of documents written.
	DocumentsCreated int

	// LineItemsCreated is the number of despatch lines across documents.
	LineItemsCreated int

	// ValidationErrors is the number of failed shipments.
	ValidationErrors int

	// ProcessingTime is the time taken to process the workbook.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter handles the conversion of a single workbook.
type Converter struct {
	path        string
	cfg         *config.MainConfig
	loader      *Loader
	transformer *Transformer
	encoder     Encoder
	files       *utils.FileManager
	logger      logrus.FieldLogger

	row              int
	startCorrelative int
}

// Option configures a Converter.
type Option func(*Converter)

// WithRow selects a single shipment by its 1-based position.
func WithRow(row int) Option {
	return func(c *Converter) { c.row = row }
}

// WithStartCorrelative overrides the configured start correlative.
func WithStartCorrelative(n int) Option {
	return func(c *Converter) {
		if n > 0 {
			c.startCorrelative = n
		}
	}
}

// WithTransformer replaces the default transformer.
func WithTransformer(t *Transformer) Option {
	return func(c *Converter) {
		if t != nil {
			c.transformer = t
		}
	}
}

// New creates a new Converter for the workbook at path.
func New(path string, cfg *config.MainConfig, logger logrus.FieldLogger, opts ...Option) *Converter {
	c := &Converter{
		path:             path,
		cfg:              cfg,
		loader:           NewLoader(cfg, logger),
		transformer:      NewTransformer(WithLocation(cfg.Location())),
		encoder:          NewEncoder(cfg),
		files:            utils.NewFileManager(cfg.InputDir, cfg.OutputDir, cfg.ArchiveDir),
		logger:           logger.WithField("file", filepath.Base(path)),
		startCorrelative: cfg.Document.StartCorrelative,
	}
	c.files.UseTimestampSubdirs = cfg.ArchiveByDate
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the conversion pipeline for the workbook.
func (c *Converter) Run(ctx context.Context) Result {
	startTime := time.Now()

	c.logger.Info("processing workbook")

	ds, err := c.loader.LoadFile(ctx, c.path)
	if err != nil {
		c.logger.WithError(err).Error("failed to load workbook")
		return Result{
			FilePath:        c.path,
			Error:           fmt.Errorf("failed to load workbook: %w", err),
			NextCorrelative: c.startCorrelative,
			Stats:           ProcessingStats{ProcessingTime: time.Since(startTime)},
		}
	}

	result := c.emit(ds, c.startCorrelative)
	result.Stats.ProcessingTime = time.Since(startTime)
	return result
}

// emit transforms and writes the documents of a loaded workbook.
func (c *Converter) emit(ds *Dataset, start int) Result {
	result := Result{
		FilePath:        c.path,
		NextCorrelative: start,
	}

	// =========================================================================
	// STEP 1: TRANSFORM
	// =========================================================================

	batch, err := c.transformer.TransformDataset(ds, Options{
		Series:           c.cfg.Document.Series,
		StartCorrelative: start,
		Row:              c.row,
		ContinueOnError:  c.cfg.ContinueOnError,
	})
	if err != nil {
		result.Error = err
		return result
	}

	result.NextCorrelative = batch.NextCorrelative
	result.Stats.RowsProcessed = len(batch.Rows)
	result.Stats.RowsSkipped = batch.Skipped

	// =========================================================================
	// STEP 2: WRITE OUTPUT FILES
	// =========================================================================

	if err := c.files.EnsureDirectories(); err != nil {
		result.Error = err
		return result
	}

	var failures []utils.ErrorLogEntry
	for i := range batch.Rows {
		row := &batch.Rows[i]
		log := c.logger.WithField("row", row.RowNumber)

		if row.Err == nil {
			if err := c.writeDocument(row); err != nil {
				row.Err = err
			}
		}

		if row.Err != nil {
			result.Stats.ValidationErrors++
			failures = append(failures, c.errorEntry(row))
			log.WithError(row.Err).WithField("kind", validation.KindOf(row.Err)).Warn("row failed")
			continue
		}

		result.OutputFiles = append(result.OutputFiles, row.OutputFile)
		result.Stats.DocumentsCreated++
		result.Stats.LineItemsCreated += len(row.Document.DespatchLines)
		log.WithFields(logrus.Fields{
			"document": row.DocumentID,
			"output":   row.OutputFile,
		}).Info("document written")
	}
	result.Rows = batch.Rows

	// =========================================================================
	// STEP 3: ERROR LOG AND ARCHIVE
	// =========================================================================

	if len(failures) > 0 {
		logPath, err := utils.WriteErrorLog(failures, c.cfg.OutputDir)
		if err != nil {
			c.logger.WithError(err).Warn("failed to write error log")
		}
		result.ErrorLog = logPath
		return result
	}

	result.Success = true

	if c.cfg.ArchiveProcessed {
		archivePath, err := c.files.ArchiveInputFile(c.path)
		if err != nil {
			// The documents are already written; archival is best effort.
			c.logger.WithError(err).Warn("failed to archive workbook")
		} else {
			result.ArchivePath = archivePath
		}
	}

	return result
}

// writeDocument encodes a transformed row and writes it to the output
// directory.
func (c *Converter) writeDocument(row *RowResult) error {
	data, err := c.encoder.Encode(row.Document)
	if err != nil {
		return err
	}

	name := utils.GenerateOutputFileName(c.cfg.Output.FileNameFormat, map[string]string{
		"file_name": row.FileName,
		"row":       strconv.Itoa(row.RowNumber),
		"series":    c.cfg.Document.Series,
	}, c.encoder.Extension())
	outputPath := filepath.Join(c.cfg.OutputDir, name)

	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	row.OutputFile = outputPath
	return nil
}

func (c *Converter) errorEntry(row *RowResult) utils.ErrorLogEntry {
	entry := utils.ErrorLogEntry{
		Timestamp:    time.Now(),
		FileName:     filepath.Base(c.path),
		ErrorType:    "write",
		ErrorMessage: row.Err.Error(),
		RowNumber:    row.RowNumber,
	}
	if e, ok := validation.As(row.Err); ok {
		entry.ErrorType = string(e.Kind)
		entry.FieldName = e.Field
		entry.FieldValue = e.Value
	}
	return entry
}

// =============================================================================
// MULTI-WORKBOOK RUNS
// =============================================================================

// RunFiles processes several workbooks. Loading is concurrent; documents are
// issued in file order with one correlative sequence across the run.
//
// RETURNS:
//   - One result per path, in input order.
//   - The processing summary of the run.
func RunFiles(ctx context.Context, paths []string, cfg *config.MainConfig, logger logrus.FieldLogger, opts ...Option) ([]Result, utils.ProcessingSummary) {
	summary := utils.ProcessingSummary{
		StartTime:  time.Now(),
		TotalFiles: len(paths),
	}

	converters := make([]*Converter, len(paths))
	datasets := make([]*Dataset, len(paths))
	loadErrs := make([]error, len(paths))
	loadTimes := make([]time.Duration, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.MaxConcurrency)
	for i, path := range paths {
		converters[i] = New(path, cfg, logger, opts...)
		g.Go(func() error {
			start := time.Now()
			datasets[i], loadErrs[i] = converters[i].loader.LoadFile(gctx, path)
			loadTimes[i] = time.Since(start)
			return nil
		})
	}
	_ = g.Wait()

	results := make([]Result, len(paths))
	next := cfg.Document.StartCorrelative
	if len(converters) > 0 {
		next = converters[0].startCorrelative
	}

	for i, c := range converters {
		start := time.Now()
		if err := loadErrs[i]; err != nil {
			c.logger.WithError(err).Error("failed to load workbook")
			results[i] = Result{FilePath: c.path, Error: fmt.Errorf("failed to load workbook: %w", err), NextCorrelative: next}
		} else {
			results[i] = c.emit(datasets[i], next)
			next = results[i].NextCorrelative
		}
		results[i].Stats.ProcessingTime = loadTimes[i] + time.Since(start)
		addToSummary(&summary, results[i])
	}

	summary.EndTime = time.Now()
	return results, summary
}

func addToSummary(summary *utils.ProcessingSummary, r Result) {
	summary.TotalRows += r.Stats.RowsProcessed
	summary.TotalDocuments += r.Stats.DocumentsCreated
	summary.TotalLineItems += r.Stats.LineItemsCreated
	summary.FailedRows += r.Stats.ValidationErrors

	if r.Success {
		summary.SuccessfulFiles++
		summary.ProcessedFiles = append(summary.ProcessedFiles, utils.ProcessedFileInfo{
			InputFile:   r.FilePath,
			OutputFiles: r.OutputFiles,
			ArchivePath: r.ArchivePath,
			Rows:        r.Stats.RowsProcessed,
			Documents:   r.Stats.DocumentsCreated,
			LineItems:   r.Stats.LineItemsCreated,
			ProcessTime: r.Stats.ProcessingTime,
		})
		return
	}

	summary.FailedFiles++
	failed := utils.FailedFileInfo{InputFile: r.FilePath}
	switch {
	case r.Error != nil:
		failed.ErrorType = "load"
		failed.ErrorMessage = r.Error.Error()
	default:
		failed.ErrorType = "rows"
		failed.ErrorMessage = fmt.Sprintf("%d row(s) failed, see %s", r.Stats.ValidationErrors, r.ErrorLog)
	}
	summary.FailedFilesList = append(summary.FailedFilesList, failed)
}
