// =============================================================================
// GRTE Workbook Converter - Configuration Module
// =============================================================================
//
// This module loads the application configuration.
//
// LOADING ORDER:
//   1. Built-in defaults (the GRTE workbook template)
//   2. The YAML file (config.yaml), merged over the defaults
//   3. Environment overrides with the GRTE_ prefix
//   4. Struct validation
//
// A missing configuration file is not an error: the defaults plus the
// environment are a complete configuration.
//
// ENVIRONMENT OVERRIDES:
//   GRTE_PERSONA_ID, GRTE_PERSONA_TOKEN, GRTE_CUSTOMER_EMAIL, GRTE_SERIES,
//   GRTE_START_CORRELATIVE, GRTE_TIME_ZONE, GRTE_OUTPUT_DIR,
//   GRTE_OUTPUT_FORMAT, GRTE_LOG_LEVEL, GRTE_LOG_FORMAT, GRTE_LOG_FILE,
//   GRTE_SERVER_ADDR
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/grte-converter/internal/sheetparser"
	"github.com/ginjaninja78/grte-converter/internal/xlsxparser"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "GRTE"

// Output formats.
const (
	FormatJSON = "json"
	FormatXML  = "xml"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the application configuration.
type MainConfig struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// InputDir is scanned for workbooks when no file is given.
	// Default: "./input"
	InputDir string `yaml:"input_dir" validate:"required"`

	// OutputDir receives the generated documents, error logs and summaries.
	// Default: "./output"
	OutputDir string `yaml:"output_dir" validate:"required"`

	// ArchiveDir receives processed workbooks when ArchiveProcessed is set.
	// Default: "./input_archive"
	ArchiveDir string `yaml:"archive_dir"`

	// ArchiveProcessed moves each workbook to ArchiveDir once every selected
	// row was transformed.
	// Default: false
	ArchiveProcessed bool `yaml:"archive_processed"`

	// ArchiveByDate files archived workbooks under YYYY/MM/DD subdirectories.
	// Default: false
	ArchiveByDate bool `yaml:"archive_by_date"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// MaxConcurrency is the maximum number of workbooks processed at once.
	// Default: 4
	MaxConcurrency int `yaml:"max_concurrency" validate:"gte=1,lte=64"`

	// ContinueOnError keeps transforming the remaining rows of a workbook
	// after a row fails.
	// Default: true
	ContinueOnError bool `yaml:"continue_on_error"`

	Workbook   WorkbookConfig   `yaml:"workbook"`
	Ubigeo     UbigeoConfig     `yaml:"ubigeo"`
	Document   DocumentConfig   `yaml:"document"`
	Output     OutputConfig     `yaml:"output"`
	Submission SubmissionConfig `yaml:"submission"`
	Logging    LoggingConfig    `yaml:"logging"`
	Server     ServerConfig     `yaml:"server"`
}

// WorkbookConfig describes the workbook template.
type WorkbookConfig struct {
	Sheets     xlsxparser.SheetNames  `yaml:"sheets"`
	HeaderRows sheetparser.HeaderRows `yaml:"header_rows"`
	Columns    sheetparser.Layout     `yaml:"columns"`

	// DateLayouts are the Go time layouts tried, in order, for text dates.
	DateLayouts []string `yaml:"date_layouts" validate:"min=1,dive,required"`
}

// UbigeoConfig selects the source of the geo-code table.
type UbigeoConfig struct {
	// CSVPath, when set, replaces the UBIGEO sheet with a CSV file of
	// (description, code) rows.
	CSVPath string `yaml:"csv_path"`

	// Delimiter is the CSV field separator.
	// Default: ","
	Delimiter string `yaml:"delimiter" validate:"required"`

	// HeaderRows is the number of leading CSV rows to skip.
	// Default: 1
	HeaderRows int `yaml:"header_rows" validate:"gte=0"`

	// Encoding is "UTF-8", "ISO-8859-1" or "Windows-1252".
	// Default: "UTF-8"
	Encoding string `yaml:"encoding" validate:"oneof=UTF-8 ISO-8859-1 Windows-1252"`
}

// DocumentConfig holds the document numbering settings.
type DocumentConfig struct {
	// Series is the 4-character document series, e.g. "T001".
	Series string `yaml:"series" validate:"required,series"`

	// StartCorrelative is the correlative of the first document of a run.
	StartCorrelative int `yaml:"start_correlative" validate:"gte=1,lte=99999999"`

	// TimeZone is the IANA zone of the issue date and time.
	// Default: "UTC"
	TimeZone string `yaml:"time_zone" validate:"required,timezone"`
}

// OutputConfig controls how documents are written.
type OutputConfig struct {
	// Format is "json" or "xml".
	Format string `yaml:"format" validate:"oneof=json xml"`

	// Envelope wraps JSON documents in the submission envelope.
	Envelope bool `yaml:"envelope"`

	// FileNameFormat names output files.
	// Placeholders:
	//   {file_name} - Submission file name ({ruc}-09-{series}-{correlative})
	//   {row}       - Source row number
	//   {uuid}      - A random UUID
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	// The format's extension is appended when missing.
	// Default: "{file_name}"
	FileNameFormat string `yaml:"file_name_format" validate:"required"`

	// WriteSummary writes a processing summary file after each run.
	WriteSummary bool `yaml:"write_summary"`
}

// SubmissionConfig holds the credentials of the document-submission service.
type SubmissionConfig struct {
	PersonaID     string `yaml:"persona_id"`
	PersonaToken  string `yaml:"persona_token"`
	CustomerEmail string `yaml:"customer_email" validate:"omitempty,email"`
}

// LoggingConfig controls the application logger.
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string `yaml:"level" validate:"oneof=debug info warn error"`

	// Format is "text" or "json".
	Format string `yaml:"format" validate:"oneof=text json"`

	// File, when set, receives a copy of the log.
	File string `yaml:"file"`
}

// ServerConfig controls the HTTP service.
type ServerConfig struct {
	Addr string `yaml:"addr" validate:"required"`

	// BodyLimitMB is the maximum upload size in megabytes.
	BodyLimitMB int `yaml:"body_limit_mb" validate:"gte=1"`

	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the configuration for the stock GRTE workbook template.
func Default() *MainConfig {
	return &MainConfig{
		InputDir:        "./input",
		OutputDir:       "./output",
		ArchiveDir:      "./input_archive",
		MaxConcurrency:  4,
		ContinueOnError: true,
		Workbook: WorkbookConfig{
			Sheets:      xlsxparser.DefaultSheetNames(),
			HeaderRows:  sheetparser.DefaultHeaderRows(),
			Columns:     sheetparser.DefaultLayout(),
			DateLayouts: sheetparser.DefaultDateLayouts(),
		},
		Ubigeo: UbigeoConfig{
			Delimiter:  ",",
			HeaderRows: 1,
			Encoding:   "UTF-8",
		},
		Document: DocumentConfig{
			Series:           "T001",
			StartCorrelative: 1,
			TimeZone:         "UTC",
		},
		Output: OutputConfig{
			Format:         FormatJSON,
			FileNameFormat: "{file_name}",
			WriteSummary:   true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr:         ":8080",
			BodyLimitMB:  10,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
	}
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// envOverrides are the settings that may come from the environment.
type envOverrides struct {
	PersonaID        string `envconfig:"PERSONA_ID"`
	PersonaToken     string `envconfig:"PERSONA_TOKEN"`
	CustomerEmail    string `envconfig:"CUSTOMER_EMAIL"`
	Series           string `envconfig:"SERIES"`
	StartCorrelative *int   `envconfig:"START_CORRELATIVE"`
	TimeZone         string `envconfig:"TIME_ZONE"`
	OutputDir        string `envconfig:"OUTPUT_DIR"`
	OutputFormat     string `envconfig:"OUTPUT_FORMAT"`
	LogLevel         string `envconfig:"LOG_LEVEL"`
	LogFormat        string `envconfig:"LOG_FORMAT"`
	LogFile          string `envconfig:"LOG_FILE"`
	ServerAddr       string `envconfig:"SERVER_ADDR"`
}

// LoadMainConfig loads the configuration.
//
// PARAMETERS:
//   - configPath: The path to the YAML file. Empty or missing means defaults.
//
// RETURNS:
//   - A pointer to the MainConfig struct.
//   - An error if the file cannot be parsed or the result is invalid.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	config := Default()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// Defaults only.
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	if err := applyEnv(config); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := Validate(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func applyEnv(config *MainConfig) error {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return err
	}

	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&config.Submission.PersonaID, env.PersonaID)
	set(&config.Submission.PersonaToken, env.PersonaToken)
	set(&config.Submission.CustomerEmail, env.CustomerEmail)
	set(&config.Document.Series, env.Series)
	set(&config.Document.TimeZone, env.TimeZone)
	set(&config.OutputDir, env.OutputDir)
	set(&config.Output.Format, env.OutputFormat)
	set(&config.Logging.Level, env.LogLevel)
	set(&config.Logging.Format, env.LogFormat)
	set(&config.Logging.File, env.LogFile)
	set(&config.Server.Addr, env.ServerAddr)
	if env.StartCorrelative != nil {
		config.Document.StartCorrelative = *env.StartCorrelative
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

var (
	validate      = validator.New()
	seriesPattern = regexp.MustCompile(`^[A-Z0-9]{4}$`)
)

func init() {
	_ = validate.RegisterValidation("series", validateSeries)
	_ = validate.RegisterValidation("timezone", validateTimeZone)
}

func validateSeries(fl validator.FieldLevel) bool {
	return seriesPattern.MatchString(fl.Field().String())
}

func validateTimeZone(fl validator.FieldLevel) bool {
	_, err := time.LoadLocation(fl.Field().String())
	return err == nil
}

// Validate checks a configuration.
func Validate(config *MainConfig) error {
	return validate.Struct(config)
}

// ValidSeries reports whether s is a well-formed document series.
func ValidSeries(s string) bool {
	return seriesPattern.MatchString(s)
}

// Location returns the time zone of the issue date and time.
func (c *MainConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Document.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}
