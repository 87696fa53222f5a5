package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"evalgo.org/labops/internal/render"
	"evalgo.org/labops/models"
)

var summaryFormat string

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show inventory statistics",
	Long:  `Display host totals by status, BMC coverage, racks, rooms and switches.`,
	Args:  cobra.NoArgs,
	RunE:  runSummary,
}

func init() {
	summaryCmd.Flags().StringVar(&summaryFormat, "format", "text", "output format (text, json, yaml)")
}

func runSummary(cmd *cobra.Command, args []string) error {
	format, err := render.ParseFormat(summaryFormat)
	if err != nil {
		return err
	}

	src, closeSource, err := newSource()
	if err != nil {
		return err
	}
	defer closeSource()

	var (
		hosts    []models.Host
		racks    []models.Rack
		switches []models.Switch
	)
	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() (err error) { hosts, err = src.Hosts(ctx); return err })
	g.Go(func() (err error) { racks, err = src.Racks(ctx); return err })
	g.Go(func() (err error) { switches, err = src.Switches(ctx); return err })
	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to get statistics: %w", err)
	}

	summary := render.Summarize(hosts, racks, switches)
	out := cmd.OutOrStdout()
	if ok, err := render.Structured(out, format, summary); ok {
		return err
	}
	fmt.Fprintln(out, "Inventory Statistics")
	fmt.Fprintln(out, "====================")
	fmt.Fprintln(out)
	fmt.Fprintln(out, summary.Text())
	return nil
}
