// =============================================================================
// GRTE Workbook Converter - Preview Command
// =============================================================================
//
// COMMAND USAGE:
//   grte preview workbook.xlsx [--json]
//
// Prints the shipments of a workbook and the size of its lookup tables
// without transforming anything. --json prints the decoded records.
//
// =============================================================================

package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/grte-converter/internal/converter"
	"github.com/ginjaninja78/grte-converter/internal/types"
)

var previewJSON bool

var previewCmd = &cobra.Command{
	Use:   "preview workbook.xlsx",
	Short: "Show the shipments and lookups of a workbook",
	Args:  cobra.ExactArgs(1),
	RunE:  runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)
	previewCmd.Flags().BoolVar(&previewJSON, "json", false, "Print the decoded records as JSON")
}

func runPreview(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadRuntime()
	if err != nil {
		return err
	}

	ds, err := converter.NewLoader(cfg, logger).LoadFile(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to load workbook: %w", err)
	}

	out := cmd.OutOrStdout()

	if previewJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Shipments []types.Shipment `json:"shipments"`
			Lookups   types.Lookups    `json:"lookups"`
			GeoCount  int              `json:"geoCount"`
		}{ds.Shipments, ds.Lookups, len(ds.Geo)})
	}

	fmt.Fprintf(out, "Shipments: %d\n", len(ds.Shipments))
	fmt.Fprintf(out, "Drivers: %d  Vehicles: %d  Senders: %d  Recipients: %d  UBIGEO: %d\n\n",
		len(ds.Lookups.Drivers), len(ds.Lookups.Vehicles),
		len(ds.Lookups.Senders), len(ds.Lookups.Recipients), len(ds.Geo))

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ROW\tDATE\tSENDER\tRECIPIENT\tDRIVER\tPLATE\tITEMS")
	for _, s := range ds.Shipments {
		date := "-"
		if s.TransferDate != nil {
			date = s.TransferDate.Format("2006-01-02")
		}
		items := 0
		for _, item := range s.Items {
			if item.Complete() {
				items++
			}
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%d\n",
			s.RowNumber, date,
			orDash(s.SenderName), orDash(s.RecipientName),
			orDash(s.Driver), orDash(s.Plate), items)
	}
	return tw.Flush()
}

func orDash(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}
