package render

import (
	"fmt"
	"sort"
	"strings"

	"evalgo.org/labops/models"
)

// Summary aggregates the whole inventory.
type Summary struct {
	Hosts            int            `json:"hosts"`
	HostsByStatus    map[string]int `json:"hosts_by_status"`
	WithBMC          int            `json:"with_bmc"`
	WithoutBMC       int            `json:"without_bmc"`
	Platforms        int            `json:"platforms"`
	Racks            int            `json:"racks"`
	EmptyRacks       int            `json:"empty_racks"`
	Rooms            int            `json:"rooms"`
	Switches         int            `json:"switches"`
	SwitchesByStatus map[string]int `json:"switches_by_status"`
}

// Summarize counts hosts, racks and switches.
func Summarize(hosts []models.Host, racks []models.Rack, switches []models.Switch) Summary {
	s := Summary{
		Hosts:            len(hosts),
		HostsByStatus:    make(map[string]int),
		Racks:            len(racks),
		Switches:         len(switches),
		SwitchesByStatus: make(map[string]int),
	}

	platforms := make(map[string]struct{})
	for _, h := range hosts {
		s.HostsByStatus[orDefault(string(h.Status), "Unknown")]++
		if h.HasBMC() {
			s.WithBMC++
		} else {
			s.WithoutBMC++
		}
		if h.Platform != "" {
			platforms[strings.ToUpper(h.Platform)] = struct{}{}
		}
	}
	s.Platforms = len(platforms)

	rooms := make(map[string]struct{})
	for _, r := range racks {
		rooms[r.Room()] = struct{}{}
		if r.Count() == 0 {
			s.EmptyRacks++
		}
	}
	s.Rooms = len(rooms)

	for _, sw := range switches {
		s.SwitchesByStatus[orDefault(sw.Status, "Unknown")]++
	}
	return s
}

// Text renders the summary.
func (s Summary) Text() string {
	var b builder
	b.field("Total Hosts", fmt.Sprint(s.Hosts))
	b.nested("With BMC", fmt.Sprint(s.WithBMC))
	b.nested("Without BMC", fmt.Sprint(s.WithoutBMC))
	b.nested("Platforms", fmt.Sprint(s.Platforms))
	if len(s.HostsByStatus) > 0 {
		b.blank()
		b.heading("Hosts by Status")
		writeCounts(&b, s.HostsByStatus)
	}

	b.blank()
	b.field("Total Rooms", fmt.Sprint(s.Rooms))
	b.field("Total Racks", fmt.Sprint(s.Racks))
	b.nested("Empty", fmt.Sprint(s.EmptyRacks))

	b.blank()
	b.field("Total Switches", fmt.Sprint(s.Switches))
	writeCounts(&b, s.SwitchesByStatus)
	return b.String()
}

func writeCounts(b *builder, counts map[string]int) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.nested(k, fmt.Sprint(counts[k]))
	}
}
