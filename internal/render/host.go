package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"evalgo.org/labops/models"
)

// Host renders the full record of one host, grouped into key, hardware,
// network, rack, usage and timestamp sections.
func Host(h models.Host) string {
	var b builder

	b.field("Asset ID", h.AssetID)
	b.field("Status", string(h.Status))
	b.field("Location", h.Location)
	b.blank()

	b.field("Platform", h.Platform)
	b.field("Manufacturer", h.Manufacturer)
	b.field("Hardware ID", h.HardwareID)
	b.field("Hostname", h.Hostname)
	b.blank()

	b.field("Console IP", h.ConsoleIP)
	b.field("LAN IP", h.LanIP)

	location := strings.TrimSpace(h.Location)
	if h.ServerRack != nil || location != "" {
		b.blank()
		b.heading("Rack Info")

		var lab, position string
		if h.ServerRack != nil {
			lab, position = h.ServerRack.Lab, h.ServerRack.Position
		}
		if position == "" {
			position, _ = models.RackPosition(location)
		}
		b.nested("Lab", lab)
		b.nested("Position", position)

		if h.ServerRack != nil && h.ServerRack.ConsoleVLAN != nil {
			b.nested("VLAN ID", string(h.ServerRack.ConsoleVLAN.VLANID))
			b.nested("Subnet", h.ServerRack.ConsoleVLAN.Subnet)
		}
	}

	if h.UsageType != "" {
		b.blank()
		b.field("Usage Type", string(h.UsageType))
	}
	b.field("Host Class", h.HostClass)
	b.field("OS", h.InstalledOS)
	b.field("Checkout Owner", h.CheckoutOwner)

	if ts, ok := formatTimestamp(h.HWMonTimestamp); ok {
		b.blank()
		b.field("Last Updated", ts)
	}
	return b.String()
}

func formatTimestamp(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02 15:04:05"), true
		}
	}
	return "", false
}

// HostPane is the compact host view of the TUI detail pane.
func HostPane(h models.Host) string {
	var b builder
	b.line("Asset ID: " + orDefault(h.AssetID, "N/A"))
	b.line("Platform: " + orDefault(h.Platform, "Unknown"))
	b.line("Status: " + orDefault(string(h.Status), "Unknown"))
	b.line("Location: " + orDefault(h.Location, "N/A"))
	b.blank()
	if h.HardwareID != "" {
		b.line("Hardware ID: " + h.HardwareID)
	}
	if h.Hostname != "" {
		b.line("Hostname: " + h.Hostname)
	}
	b.line("Network Information:")
	b.line("  Console IP: " + orDefault(h.ConsoleIP, "N/A"))
	b.line("  LAN IP: " + orDefault(h.LanIP, "N/A"))
	if h.CheckoutOwner != "" {
		b.blank()
		b.line("Checkout Owner: " + h.CheckoutOwner)
	}
	return b.String()
}

// HostList renders every host in full followed by a count footer. total is
// the size of the collection before filtering.
func HostList(hosts []models.Host, total int) string {
	var b builder
	for _, h := range hosts {
		b.line(Host(h))
		b.line(Separator)
		b.blank()
	}
	b.line(countFooter(len(hosts), total))
	return b.String()
}

func countFooter(shown, total int) string {
	if shown < total {
		return labelStyle.Render("Showing: ") + valueStyle.Render(fmt.Sprint(shown)) +
			labelStyle.Render(" of ") + valueStyle.Render(fmt.Sprint(total)) +
			labelStyle.Render(" total hosts")
	}
	return labelStyle.Render("Total Hosts: ") + valueStyle.Render(fmt.Sprint(shown))
}

// HostTable writes one row per host.
func HostTable(w io.Writer, hosts []models.Host, total int) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ASSET ID\tHARDWARE ID\tPLATFORM\tSTATUS\tLOCATION\tCONSOLE IP")
	for _, h := range hosts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			orDefault(h.AssetID, "-"), orDefault(h.HardwareID, "-"), orDefault(h.Platform, "-"),
			orDefault(string(h.Status), "-"), orDefault(h.Location, "-"), orDefault(h.ConsoleIP, "-"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%s\n", countFooter(len(hosts), total))
	return err
}
