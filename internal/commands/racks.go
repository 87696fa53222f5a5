package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"evalgo.org/labops/internal/render"
	"evalgo.org/labops/models"
)

var (
	racksPosition string
	racksLimit    int
	racksFormat   string
	rackFormat    string
	contentsRack  string
	contentsFmt   string
)

var racksCmd = &cobra.Command{
	Use:   "racks",
	Short: "List racks with a per-status host summary",
	Long: `List racks sorted by position.

Examples:
  labops racks
  labops racks --position SEA85.159
  labops racks --limit 10 --format table`,
	Args: cobra.NoArgs,
	RunE: runRacks,
}

var rackCmd = &cobra.Command{
	Use:   "rack [position]",
	Short: "Show one rack and every host in it",
	Long: `Show a rack with its console VLAN and all of its hosts sorted by location.

Examples:
  labops rack SEA85.159.R6-L01
  labops rack SEA85.159.R6-L01 --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runRack,
}

var rackContentsCmd = &cobra.Command{
	Use:   "rack-contents",
	Short: "Show the hosts and switches mounted in a rack",
	Long: `Show everything mounted in a rack.

Hosts come from the rack record; when the service does not embed them, hosts
whose location falls inside the rack are used instead.

Examples:
  labops rack-contents --rack-id SEA85.159.R6-L01`,
	Args: cobra.NoArgs,
	RunE: runRackContents,
}

func init() {
	racksCmd.Flags().StringVar(&racksPosition, "position", "", "filter by position substring")
	racksCmd.Flags().IntVar(&racksLimit, "limit", 0, "maximum results (0 for all)")
	racksCmd.Flags().StringVar(&racksFormat, "format", "text", "output format (text, table, json, yaml)")

	rackCmd.Flags().StringVar(&rackFormat, "format", "text", "output format (text, json, yaml)")

	rackContentsCmd.Flags().StringVar(&contentsRack, "rack-id", "", "rack position")
	rackContentsCmd.Flags().StringVar(&contentsFmt, "format", "text", "output format (text, json, yaml)")
	_ = rackContentsCmd.MarkFlagRequired("rack-id")
}

func runRacks(cmd *cobra.Command, args []string) error {
	format, err := render.ParseFormat(racksFormat)
	if err != nil {
		return err
	}

	src, closeSource, err := newSource()
	if err != nil {
		return err
	}
	defer closeSource()

	racks, err := src.Racks(cmd.Context())
	if err != nil {
		return err
	}

	if racksPosition != "" {
		needle := strings.ToLower(racksPosition)
		kept := make([]models.Rack, 0, len(racks))
		for _, r := range racks {
			if strings.Contains(strings.ToLower(r.Position), needle) {
				kept = append(kept, r)
			}
		}
		racks = kept
	}
	sort.SliceStable(racks, func(i, j int) bool { return racks[i].Position < racks[j].Position })
	if racksLimit > 0 && len(racks) > racksLimit {
		racks = racks[:racksLimit]
	}

	out := cmd.OutOrStdout()
	if ok, err := render.Structured(out, format, racks); ok {
		return err
	}
	if format == render.FormatTable {
		return render.RackTable(out, racks)
	}
	fmt.Fprintln(out, render.RackList(racks))
	return nil
}

func findRack(racks []models.Rack, position string) (models.Rack, bool) {
	position = strings.TrimSpace(position)
	for _, r := range racks {
		if strings.EqualFold(r.Position, position) {
			return r, true
		}
	}
	return models.Rack{}, false
}

func runRack(cmd *cobra.Command, args []string) error {
	format, err := render.ParseFormat(rackFormat)
	if err != nil {
		return err
	}
	position := args[0]

	src, closeSource, err := newSource()
	if err != nil {
		return err
	}
	defer closeSource()

	out := cmd.OutOrStdout()
	racks, err := src.Racks(cmd.Context())
	if err != nil {
		fmt.Fprintln(out, render.Error(fmt.Sprintf("Rack position %s not found: %v", position, err)))
		return nil
	}
	rack, ok := findRack(racks, position)
	if !ok {
		fmt.Fprintln(out, render.Error(fmt.Sprintf("Rack position %s not found", position)))
		return nil
	}

	if ok, err := render.Structured(out, format, rack); ok {
		return err
	}
	fmt.Fprintln(out, render.RackDetail(rack))
	return nil
}

// rackContents is the structured form of rack-contents.
type rackContents struct {
	Rack     models.Rack     `json:"rack"`
	Hosts    []models.Host   `json:"hosts"`
	Switches []models.Switch `json:"switches"`
}

func runRackContents(cmd *cobra.Command, args []string) error {
	format, err := render.ParseFormat(contentsFmt)
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
		return err
	}

	out := cmd.OutOrStdout()
	rack, ok := findRack(racks, contentsRack)
	if !ok {
		fmt.Fprintln(out, render.Error(fmt.Sprintf("Rack position %s not found", contentsRack)))
		return nil
	}

	contents := rackContents{Rack: rack, Hosts: rack.Hosts, Switches: []models.Switch{}}
	if len(contents.Hosts) == 0 {
		for _, h := range hosts {
			if pos, ok := models.RackPosition(h.Location); ok && strings.EqualFold(pos, rack.Position) {
				contents.Hosts = append(contents.Hosts, h)
			}
		}
	}
	for _, s := range switches {
		if strings.EqualFold(s.Rack, rack.Position) {
			contents.Switches = append(contents.Switches, s)
		}
	}
	contents.Rack.Hosts = contents.Hosts

	if ok, err := render.Structured(out, format, contents); ok {
		return err
	}

	fmt.Fprintln(out, render.RackDetail(contents.Rack))
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Switches in Rack:")
	if len(contents.Switches) == 0 {
		fmt.Fprintln(out, "  none")
	}
	for _, s := range contents.Switches {
		fmt.Fprintf(out, "  %s (%s) - %s\n", s.Name, orDash(s.Model), orDash(s.Status))
	}
	return nil
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
