package commands

import (
	"github.com/spf13/cobra"

	"evalgo.org/labops/internal/logging"
	"evalgo.org/labops/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse rooms, racks and hosts interactively",
	Long: `Start the full-screen rack browser.

Keys:
  ↑/k ↓/j   move
  enter     expand a room or rack, or show the remaining hosts
  /         search by asset ID or hardware ID
  r         reload, bypassing the cache
  q         quit

Logs are written to tui.log_file while the browser owns the terminal.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	if err := logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: "json",
		Output: cfg.TUI.LogFile,
	}); err != nil {
		return err
	}
	defer logging.Shutdown()

	src, closeSource, err := newSource()
	if err != nil {
		return err
	}
	defer closeSource()

	reload := *src
	reload.Refresh = true

	return tui.Run(cmd.Context(), src, &reload)
}
