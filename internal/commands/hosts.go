package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"evalgo.org/labops/internal/filter"
	"evalgo.org/labops/internal/render"
)

var (
	hostsOpts   filter.Options
	hostsLimit  int
	hostsFormat string
)

var hostsCmd = &cobra.Command{
	Use:   "hosts",
	Short: "List hosts with optional filtering",
	Long: `List hosts, narrowed by any combination of filters.

Filters apply in order: status, BMC presence, text filters, then platform.
When the platform does not match exactly, similar platforms are offered
as a numbered menu.

Examples:
  labops hosts --status available
  labops hosts --platform monza --bmc
  labops hosts --all SEA85.159 --format table
  labops hosts --no-bmc --limit 20 --format json`,
	Args: cobra.NoArgs,
	RunE: runHosts,
}

func init() {
	f := hostsCmd.Flags()
	f.StringVar(&hostsOpts.Status, "status", "", "filter by status (case-insensitive)")
	f.StringVar(&hostsOpts.Platform, "platform", "", "filter by platform, offering close matches")
	f.StringVar(&hostsOpts.Hostname, "hostname", "", "filter by hostname substring")
	f.StringVar(&hostsOpts.UsageType, "usagetype", "", "filter by usage type substring")
	f.StringVar(&hostsOpts.Location, "location", "", "filter by location substring")
	f.StringVar(&hostsOpts.CheckoutOwner, "checkout-owner", "", "filter by checkout owner substring")
	f.StringVar(&hostsOpts.Search, "all", "", "search every identifying field")
	f.BoolVar(&hostsOpts.BMCOnly, "bmc", false, "only hosts with a console IP")
	f.BoolVar(&hostsOpts.NoBMCOnly, "no-bmc", false, "only hosts without a console IP")
	f.IntVar(&hostsLimit, "limit", 0, "maximum results (0 for all)")
	f.StringVar(&hostsFormat, "format", "text", "output format (text, table, json, yaml)")
}

func runHosts(cmd *cobra.Command, args []string) error {
	format, err := render.ParseFormat(hostsFormat)
	if err != nil {
		return err
	}

	src, closeSource, err := newSource()
	if err != nil {
		return err
	}
	defer closeSource()

	hosts, err := src.Hosts(cmd.Context())
	if err != nil {
		return err
	}
	total := len(hosts)

	out := cmd.OutOrStdout()
	// Keep structured output parseable: the menu goes to stderr there.
	notes := out
	if format == render.FormatJSON || format == render.FormatYAML {
		notes = cmd.ErrOrStderr()
	}
	chooser := newPromptChooser(cmd.InOrStdin(), notes)
	result, err := filter.Run(hosts, hostsOpts, chooser)
	if err != nil {
		return err
	}
	if result.Count == 0 && hostsOpts.Platform != "" && !chooser.asked {
		fmt.Fprintf(notes, "No hosts found with platform '%s' and no similar matches.\n\n", hostsOpts.Platform)
	}

	shown := result.Hosts
	if hostsLimit > 0 && len(shown) > hostsLimit {
		shown = shown[:hostsLimit]
	}

	if ok, err := render.Structured(out, format, shown); ok {
		return err
	}
	if format == render.FormatTable {
		return render.HostTable(out, shown, total)
	}
	fmt.Fprintln(out, render.HostList(shown, total))
	return nil
}
