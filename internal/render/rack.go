package render

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"text/tabwriter"

	"evalgo.org/labops/models"
)

func rackHeader(b *builder, r models.Rack) {
	b.field("Rack Position", r.Position)
	b.field("Lab", r.Lab)
	if n := r.Count(); n > 0 {
		b.field("Host Count", strconv.Itoa(n))
	}
	if v := r.ConsoleVLAN; v != nil && (v.VLANID != "" || v.Subnet != "") {
		b.blank()
		b.heading("Console VLAN")
		b.nested("VLAN ID", string(v.VLANID))
		b.nested("Subnet", v.Subnet)
	}
}

// Rack renders a rack with its hosts tallied by status.
func Rack(r models.Rack) string {
	var b builder
	rackHeader(&b, r)

	if len(r.Hosts) > 0 {
		b.blank()
		b.heading("Hosts by Status")
		counts := r.StatusCounts()
		statuses := make([]string, 0, len(counts))
		for s := range counts {
			statuses = append(statuses, s)
		}
		sort.Strings(statuses)
		for _, s := range statuses {
			b.nested(s, strconv.Itoa(counts[s]))
		}
	}
	return b.String()
}

// RackDetail renders a rack with every host listed by location.
func RackDetail(r models.Rack) string {
	var b builder
	rackHeader(&b, r)

	if len(r.Hosts) > 0 {
		b.blank()
		b.heading("Hosts in Rack")
		for _, h := range SortByLocation(r.Hosts) {
			b.line(fmt.Sprintf("  %s: %s (%s) - %s",
				labelStyle.Render(orDefault(h.Location, "N/A")),
				valueStyle.Render(orDefault(h.AssetID, "N/A")),
				orDefault(h.Platform, "Unknown"),
				orDefault(string(h.Status), "Unknown")))
		}
	}
	return b.String()
}

// SortByLocation returns a copy of hosts ordered by location.
func SortByLocation(hosts []models.Host) []models.Host {
	sorted := make([]models.Host, len(hosts))
	copy(sorted, hosts)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Location < sorted[j].Location })
	return sorted
}

// RackList renders racks followed by a total.
func RackList(racks []models.Rack) string {
	var b builder
	for _, r := range racks {
		b.line(Rack(r))
		b.line(Separator)
		b.blank()
	}
	b.line(labelStyle.Render("Total Racks: ") + valueStyle.Render(strconv.Itoa(len(racks))))
	return b.String()
}

// RackTable writes one row per rack.
func RackTable(w io.Writer, racks []models.Rack) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "POSITION\tROOM\tLAB\tHOSTS\tVLAN")
	for _, r := range racks {
		vlan := "-"
		if r.ConsoleVLAN != nil && r.ConsoleVLAN.VLANID != "" {
			vlan = string(r.ConsoleVLAN.VLANID)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", r.Position, r.Room(), orDefault(r.Lab, "-"), r.Count(), vlan)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\nTotal: %d racks\n", len(racks))
	return err
}

// RackPane is the rack view of the TUI detail pane. It lists every host,
// including those still hidden in the tree.
func RackPane(r models.Rack) string {
	var b builder
	b.line("Rack: " + orDefault(r.Position, "Unknown"))
	b.line("Lab: " + orDefault(r.Lab, "Unknown"))
	b.line(fmt.Sprintf("Host Count: %d", r.Count()))
	b.blank()

	if len(r.Hosts) > 0 {
		b.line(fmt.Sprintf("Hosts in Rack (%d):", len(r.Hosts)))
		for _, h := range r.Hosts {
			b.line(fmt.Sprintf("  • %s: %s [%s]",
				orDefault(h.AssetID, "N/A"), orDefault(h.Platform, "Unknown"), orDefault(string(h.Status), "Unknown")))
			if h.ConsoleIP != "" {
				b.line("    Console IP: " + h.ConsoleIP)
			}
		}
	}
	return b.String()
}

// RoomPane summarizes the racks of one room.
func RoomPane(room string, racks []models.Rack) string {
	sorted := make([]models.Rack, len(racks))
	copy(sorted, racks)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Position < sorted[j].Position })

	hosts := 0
	for _, r := range sorted {
		hosts += r.Count()
	}

	var b builder
	b.line("Room: " + room)
	b.line(fmt.Sprintf("Total Racks: %d", len(sorted)))
	b.line(fmt.Sprintf("Total Hosts: %d", hosts))
	b.blank()
	if len(sorted) > 0 {
		b.line("Racks in Room:")
		for _, r := range sorted {
			state := "(Empty)"
			if n := r.Count(); n > 0 {
				state = fmt.Sprintf("(%d hosts)", n)
			}
			b.line(fmt.Sprintf("  • %s %s", r.Position, state))
		}
	}
	return b.String()
}
