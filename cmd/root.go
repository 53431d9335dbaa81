// =============================================================================
// GRTE Workbook Converter - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Every subcommand
// hangs off it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (grte)
//   ├── transformCmd (grte transform)
//   ├── previewCmd   (grte preview)
//   ├── serveCmd     (grte serve)
//   └── versionCmd   (grte version)
//
// CONFIGURATION:
//   The root command owns the global flags (--config, --verbose). Commands
//   that need configuration call loadRuntime, which reads the YAML file,
//   applies GRTE_* environment overrides and builds the logger.
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/grte-converter/internal/config"
	"github.com/ginjaninja78/grte-converter/internal/logging"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
var cfgFile string

// verbose forces debug logging.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

var rootCmd = &cobra.Command{
	Use:   "grte",
	Short: "GRTE Workbook Converter - Turn freight workbooks into electronic waybills",
	Long: `GRTE Workbook Converter reads the GRTE spreadsheet template (shipments,
configuration and UBIGEO sheets) and produces one electronic freight waybill
(Guía de Remisión Transportista) per shipment, as a JSON document body,
a submission envelope, or UBL 2.1 XML.

Example Usage:
  grte transform                          # Every workbook in the input directory
  grte transform guias.xlsx --row 3       # A single shipment
  grte preview guias.xlsx                 # Show what a workbook contains
  grte serve                              # Start the HTTP API`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// loadRuntime loads the configuration and builds the logger.
func loadRuntime() (*config.MainConfig, *logrus.Logger, error) {
	cfg, err := config.LoadMainConfig(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load main config: %w", err)
	}

	logger, err := logging.New(logging.Options{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		File:    cfg.Logging.File,
		Verbose: verbose,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	logger.WithField("config", cfgFile).Debug("configuration loaded")
	return cfg, logger, nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
