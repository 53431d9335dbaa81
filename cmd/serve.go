package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/grte-converter/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the conversion API over HTTP",
	Long: `Start an HTTP server exposing:
  GET  /api/health
  POST /api/preview    (multipart field "file")
  POST /api/transform  (multipart fields "file", "row", "series",
                        "correlative", "format", "envelope")`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadRuntime()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") {
			cfg.Server.Addr = serveAddr
		}

		ctx, cancel := signalContext(cmd.Context())
		defer cancel()

		return server.New(cfg, logger, server.WithVersion(Version)).Listen(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address, overrides server.addr")
}
