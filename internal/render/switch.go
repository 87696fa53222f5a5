package render

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"evalgo.org/labops/models"
)

// Switch renders one network switch.
func Switch(s models.Switch) string {
	var b builder
	b.field("Switch", s.Name)
	b.field("Status", s.Status)
	b.field("Rack", s.Rack)
	b.field("Location", s.Location)
	b.field("Model", s.Model)
	b.field("Management IP", s.MgmtIP)
	return b.String()
}

// SwitchList renders switches followed by a total.
func SwitchList(switches []models.Switch) string {
	var b builder
	for _, s := range switches {
		b.line(Switch(s))
		b.line(Separator)
		b.blank()
	}
	b.line(labelStyle.Render("Total Switches: ") + valueStyle.Render(strconv.Itoa(len(switches))))
	return b.String()
}

// SwitchTable writes one row per switch.
func SwitchTable(w io.Writer, switches []models.Switch) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSTATUS\tRACK\tMODEL\tMGMT IP")
	for _, s := range switches {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			orDefault(s.Name, "-"), orDefault(s.Status, "-"), orDefault(s.Rack, "-"),
			orDefault(s.Model, "-"), orDefault(s.MgmtIP, "-"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\nTotal: %d switches\n", len(switches))
	return err
}
