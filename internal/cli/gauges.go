package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"manometer-backend/internal/client"
	"manometer-backend/internal/dashboard"
)

// ListCmd returns the list command.
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List gauges through the API",
		Long: `Load every gauge from a running server and print it with its validity.

Examples:
  manometerd list
  manometerd list --search bourdon
  manometerd list --server http://gauges.internal:8080`,
		RunE: runList,
	}

	cmd.Flags().String("search", "", "Case-insensitive match on serial number, manufacturer or location")
	cmd.Flags().String("server", "", "API base URL (default "+DefaultServer+" or MANOMETER_SERVER)")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	search, _ := cmd.Flags().GetString("search")

	m := dashboard.NewModel(client.New(serverFlag(cmd), clientLogger()))
	if err := m.Load(cmd.Context()); err != nil {
		return fmt.Errorf("%s: %w", m.Error(), err)
	}

	gauges := m.Search(search)
	out := cmd.OutOrStdout()
	if len(gauges) == 0 {
		fmt.Fprintln(out, "No gauges registered")
		return nil
	}

	now := time.Now()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSERIAL\tMANUFACTURER\tLOCATION\tVALIDITY\tSTATUS\tSTATE")
	for _, g := range gauges {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			g.ID, g.SerialNumber, g.Manufacturer, g.Location,
			g.ValidityDate.String(), g.Status, colorBucket(dashboard.Classify(g, now)))
	}
	return w.Flush()
}

func colorBucket(b dashboard.Bucket) string {
	switch b {
	case dashboard.BucketExpired:
		return color.New(color.FgRed).Sprint(b.Label())
	case dashboard.BucketExpiring:
		return color.New(color.FgYellow).Sprint(b.Label())
	default:
		return color.New(color.FgGreen).Sprint(b.Label())
	}
}

// SummaryCmd returns the summary command.
func SummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the gauge validity counters",
		RunE:  runSummary,
	}

	cmd.Flags().String("server", "", "API base URL (default "+DefaultServer+" or MANOMETER_SERVER)")

	return cmd
}

func runSummary(cmd *cobra.Command, args []string) error {
	s, err := client.New(serverFlag(cmd), clientLogger()).Summary(cmd.Context())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Total\t%d\n", s.Total)
	fmt.Fprintf(w, "Expired\t%d\n", s.Expired)
	fmt.Fprintf(w, "Expiring in 30 days\t%d\n", s.ExpiringIn30Days)
	fmt.Fprintf(w, "Up to date\t%d\n", s.UpToDate)
	return w.Flush()
}
