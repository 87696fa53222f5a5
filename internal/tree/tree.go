// Package tree holds the room → rack → host hierarchy shown by the TUI.
//
// Nodes live in a flat arena and refer to each other by NodeID. A rack shows
// at most VisibleHosts host children up front; the rest hide behind a single
// More node until ExpandMore materializes them.
package tree

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"evalgo.org/labops/models"
)

// VisibleHosts is the number of host children a rack gets at build time.
const VisibleHosts = 5

// Kind identifies what a node represents.
type Kind int

const (
	KindRoom Kind = iota
	KindRack
	KindHost
	KindMore
)

func (k Kind) String() string {
	switch k {
	case KindRoom:
		return "room"
	case KindRack:
		return "rack"
	case KindHost:
		return "host"
	case KindMore:
		return "more"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// NodeID addresses a node inside its Tree. IDs are never reused.
type NodeID int

// None is the parent of top-level nodes.
const None NodeID = -1

// Node is one entry of the arena.
type Node struct {
	ID       NodeID
	Kind     Kind
	Label    string
	Parent   NodeID
	Children []NodeID
	Expanded bool

	// Room is set on every node and names the room it belongs to.
	Room string
	// Rack is set on rack, host and more nodes.
	Rack *models.Rack
	// Host is set on host nodes only.
	Host *models.Host

	detached bool
}

// Row is one line of the flattened, visible tree.
type Row struct {
	ID    NodeID
	Depth int
}

// Tree is an arena of nodes. The zero value is an empty tree.
type Tree struct {
	nodes      []Node
	roots      []NodeID
	expansions int
}

// Build groups racks into rooms and creates the initial, fully collapsed
// tree. The input slice is copied; the tree never mutates caller data.
func Build(racks []models.Rack) *Tree {
	owned := slices.Clone(racks)

	byRoom := make(map[string][]*models.Rack)
	for i := range owned {
		r := &owned[i]
		key := r.Room()
		byRoom[key] = append(byRoom[key], r)
	}

	rooms := make([]string, 0, len(byRoom))
	for key := range byRoom {
		rooms = append(rooms, key)
	}
	sort.Strings(rooms)

	t := &Tree{}
	for _, room := range rooms {
		members := byRoom[room]
		sort.SliceStable(members, func(i, j int) bool {
			return members[i].Position < members[j].Position
		})

		hosts := 0
		for _, r := range members {
			hosts += r.Count()
		}
		roomID := t.add(Node{
			Kind:   KindRoom,
			Label:  fmt.Sprintf("%s (%d racks, %d hosts)", room, len(members), hosts),
			Parent: None,
			Room:   room,
		})
		t.roots = append(t.roots, roomID)

		for _, r := range members {
			t.addRack(roomID, r)
		}
	}
	return t
}

func (t *Tree) addRack(roomID NodeID, r *models.Rack) {
	label := fmt.Sprintf("%s (%d hosts)", r.Position, r.Count())
	if r.Count() == 0 {
		label = r.Position + " (Empty)"
	}
	room := t.nodes[roomID].Room
	rackID := t.add(Node{Kind: KindRack, Label: label, Parent: roomID, Room: room, Rack: r})

	if r.Count() == 0 || len(r.Hosts) == 0 {
		return
	}
	shown := min(VisibleHosts, len(r.Hosts))
	for i := 0; i < shown; i++ {
		t.addHost(rackID, r, i)
	}
	if rest := len(r.Hosts) - shown; rest > 0 {
		t.add(Node{
			Kind:   KindMore,
			Label:  fmt.Sprintf("... and %d more hosts", rest),
			Parent: rackID,
			Room:   room,
			Rack:   r,
		})
	}
}

func (t *Tree) addHost(rackID NodeID, r *models.Rack, i int) NodeID {
	h := &r.Hosts[i]
	return t.add(Node{
		Kind:   KindHost,
		Label:  HostLabel(*h),
		Parent: rackID,
		Room:   t.nodes[rackID].Room,
		Rack:   r,
		Host:   h,
	})
}

// add appends n to the arena and links it under its parent.
func (t *Tree) add(n Node) NodeID {
	n.ID = NodeID(len(t.nodes))
	t.nodes = append(t.nodes, n)
	if n.Parent != None {
		p := &t.nodes[n.Parent]
		p.Children = append(p.Children, n.ID)
	}
	return n.ID
}

// HostLabel renders the label of a host node.
func HostLabel(h models.Host) string {
	asset := orDefault(h.AssetID, "N/A")
	platform := orDefault(h.Platform, "N/A")
	status := orDefault(string(h.Status), "Unknown")
	return fmt.Sprintf("%s: %s [%s]", asset, platform, status)
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// Len returns the number of nodes ever created, detached ones included.
func (t *Tree) Len() int { return len(t.nodes) }

// Roots returns the room nodes in display order.
func (t *Tree) Roots() []NodeID { return slices.Clone(t.roots) }

// Node returns a copy of the node with the given id. Detached nodes are
// reported as missing.
func (t *Tree) Node(id NodeID) (Node, bool) {
	if !t.live(id) {
		return Node{}, false
	}
	n := t.nodes[id]
	n.Children = slices.Clone(n.Children)
	return n, true
}

// Children returns the ordered children of id.
func (t *Tree) Children(id NodeID) []NodeID {
	if !t.live(id) {
		return nil
	}
	return slices.Clone(t.nodes[id].Children)
}

func (t *Tree) live(id NodeID) bool {
	return id >= 0 && int(id) < len(t.nodes) && !t.nodes[id].detached
}

// Expand marks id as expanded. It only affects what Visible returns.
func (t *Tree) Expand(id NodeID) {
	if t.live(id) {
		t.nodes[id].Expanded = true
	}
}

// Collapse marks id as collapsed.
func (t *Tree) Collapse(id NodeID) {
	if t.live(id) {
		t.nodes[id].Expanded = false
	}
}

// Toggle flips the expansion state of id and reports the new state.
func (t *Tree) Toggle(id NodeID) bool {
	if !t.live(id) {
		return false
	}
	t.nodes[id].Expanded = !t.nodes[id].Expanded
	return t.nodes[id].Expanded
}

// ExpandMore replaces the More node id with host nodes for the remaining
// hosts of its rack, appended in their original order. It reports whether
// anything changed; a second call on the same id is a no-op.
func (t *Tree) ExpandMore(id NodeID) bool {
	if !t.live(id) || t.nodes[id].Kind != KindMore {
		return false
	}
	more := &t.nodes[id]
	more.detached = true
	rackID := more.Parent
	r := more.Rack

	rack := &t.nodes[rackID]
	rack.Children = slices.DeleteFunc(rack.Children, func(c NodeID) bool { return c == id })

	for i := VisibleHosts; i < len(r.Hosts); i++ {
		t.addHost(rackID, r, i)
	}
	t.expansions++
	return true
}

// Expansions returns how many times ExpandMore changed the tree.
func (t *Tree) Expansions() int { return t.expansions }

// Visible flattens the tree into display rows. Children of collapsed nodes
// are omitted.
func (t *Tree) Visible() []Row {
	var rows []Row
	var walk func(id NodeID, depth int)
	walk = func(id NodeID, depth int) {
		rows = append(rows, Row{ID: id, Depth: depth})
		n := &t.nodes[id]
		if !n.Expanded {
			return
		}
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	for _, r := range t.roots {
		walk(r, 0)
	}
	return rows
}

// RoomNode finds the room node for key.
func (t *Tree) RoomNode(key string) (NodeID, bool) {
	for _, id := range t.roots {
		if t.nodes[id].Room == key {
			return id, true
		}
	}
	return None, false
}

// RackNode finds the rack under room whose position equals position. When
// none does, it falls back to the first rack whose label contains position.
func (t *Tree) RackNode(room NodeID, position string) (NodeID, bool) {
	if !t.live(room) || position == "" {
		return None, false
	}
	children := t.nodes[room].Children
	for _, c := range children {
		if n := t.nodes[c]; n.Kind == KindRack && n.Rack.Position == position {
			return c, true
		}
	}
	for _, c := range children {
		if n := t.nodes[c]; n.Kind == KindRack && strings.Contains(n.Label, position) {
			return c, true
		}
	}
	return None, false
}

// HostNode finds the materialized host child of rack with the given asset id.
func (t *Tree) HostNode(rack NodeID, assetID string) (NodeID, bool) {
	if !t.live(rack) {
		return None, false
	}
	for _, c := range t.nodes[rack].Children {
		if n := t.nodes[c]; n.Kind == KindHost && strings.EqualFold(n.Host.AssetID, assetID) {
			return c, true
		}
	}
	return None, false
}

// MoreNode returns the More child of rack, if it still has one.
func (t *Tree) MoreNode(rack NodeID) (NodeID, bool) {
	if !t.live(rack) {
		return None, false
	}
	for _, c := range t.nodes[rack].Children {
		if t.nodes[c].Kind == KindMore {
			return c, true
		}
	}
	return None, false
}
