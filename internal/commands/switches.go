package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"evalgo.org/labops/internal/render"
	"evalgo.org/labops/models"
)

var (
	switchesStatus string
	switchesRack   string
	switchesFormat string
)

var switchesCmd = &cobra.Command{
	Use:   "switches",
	Short: "List network switches",
	Long: `List network switches.

Examples:
  labops switches
  labops switches --status up --rack SEA85.159
  labops switches --format table`,
	Args: cobra.NoArgs,
	RunE: runSwitches,
}

func init() {
	switchesCmd.Flags().StringVar(&switchesStatus, "status", "", "filter by status (case-insensitive)")
	switchesCmd.Flags().StringVar(&switchesRack, "rack", "", "filter by rack position substring")
	switchesCmd.Flags().StringVar(&switchesFormat, "format", "text", "output format (text, table, json, yaml)")
}

func runSwitches(cmd *cobra.Command, args []string) error {
	format, err := render.ParseFormat(switchesFormat)
	if err != nil {
		return err
	}

	src, closeSource, err := newSource()
	if err != nil {
		return err
	}
	defer closeSource()

	switches, err := src.Switches(cmd.Context())
	if err != nil {
		return err
	}
	switches = filterSwitches(switches, switchesStatus, switchesRack)

	out := cmd.OutOrStdout()
	if ok, err := render.Structured(out, format, switches); ok {
		return err
	}
	if format == render.FormatTable {
		return render.SwitchTable(out, switches)
	}
	fmt.Fprintln(out, render.SwitchList(switches))
	return nil
}

func filterSwitches(switches []models.Switch, status, rack string) []models.Switch {
	rack = strings.ToLower(rack)
	kept := make([]models.Switch, 0, len(switches))
	for _, s := range switches {
		if status != "" && !strings.EqualFold(s.Status, status) {
			continue
		}
		if rack != "" && !strings.Contains(strings.ToLower(s.Rack), rack) {
			continue
		}
		kept = append(kept, s)
	}
	return kept
}
