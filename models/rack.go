package models

// Rack is a physical rack and, when the service embeds them, its hosts.
//
// HostCount is the count reported by the service. It is trusted for summary
// display even when Hosts is empty or truncated, so it stays a pointer to keep
// "not reported" distinct from zero.
type Rack struct {
	// Position is the unique dot-delimited rack path, e.g. SEA85.159.R6-L01
	Position string `json:"position" validate:"required"`

	// Lab is the lab name the rack belongs to
	Lab string `json:"lab,omitempty"`

	// HostCount is the service-reported number of hosts
	HostCount *int `json:"host_count,omitempty" validate:"omitempty,gte=0"`

	// ConsoleVLAN is the management VLAN of the rack
	ConsoleVLAN *ConsoleVLAN `json:"consolevlan,omitempty"`

	// Hosts is the materialized host list; order carries no meaning
	Hosts []Host `json:"hosts,omitempty"`
}

// Count returns the reported host count, falling back to len(Hosts).
func (r Rack) Count() int {
	if r.HostCount != nil {
		return *r.HostCount
	}
	return len(r.Hosts)
}

// Room returns the room key of the rack.
func (r Rack) Room() string {
	return RoomKey(r.Position)
}

// StatusCounts tallies the materialized hosts by status. Hosts without a
// status are counted under "Unknown".
func (r Rack) StatusCounts() map[string]int {
	counts := make(map[string]int)
	for _, h := range r.Hosts {
		status := string(h.Status)
		if status == "" {
			status = "Unknown"
		}
		counts[status]++
	}
	return counts
}
