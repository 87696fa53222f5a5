// Package navigator finds a host by id and reveals it in a tree.
//
// Revealing happens in two phases. Search performs the structural phase
// synchronously: it expands the host's room and rack and materializes hidden
// hosts. It then hands back a Ticket. The caller redeems the ticket with
// Focus once the expanded tree has been rendered, which yields the row the
// cursor should move to. Every Search bumps a generation counter so a ticket
// from an older search never moves the cursor.
package navigator

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"evalgo.org/labops/internal/tree"
	"evalgo.org/labops/models"
)

// NotFoundHint lists the identifier formats Search accepts.
const NotFoundHint = "Try an asset ID (e.g. 12345) or a hardware ID (e.g. ABC123.example)"

// Kind is the result class of a search.
type Kind int

const (
	NotFound Kind = iota
	Found
)

func (k Kind) String() string {
	if k == Found {
		return "found"
	}
	return "not-found"
}

// Ticket identifies a pending focus request.
type Ticket struct {
	Generation uint64
	AssetID    string
}

// Outcome is the result of Search.
type Outcome struct {
	Kind  Kind
	Query string
	Host  *models.Host

	// Revealed is false when the structural phase could not locate the
	// host's room or rack. The host is still Found.
	Revealed bool

	// Ticket is valid only for Found outcomes.
	Ticket Ticket
}

// Message returns the user-facing text for a NotFound outcome.
func (o Outcome) Message() string {
	if o.Kind == Found {
		return ""
	}
	return fmt.Sprintf("No host found matching '%s'. %s", o.Query, NotFoundHint)
}

// Navigator performs searches against one tree.
type Navigator struct {
	tree       *tree.Tree
	generation uint64
}

// New returns a Navigator bound to t.
func New(t *tree.Tree) *Navigator {
	return &Navigator{tree: t}
}

// Tree returns the tree the navigator mutates.
func (n *Navigator) Tree() *tree.Tree { return n.tree }

// Reset binds the navigator to a freshly built tree. Outstanding tickets
// become stale.
func (n *Navigator) Reset(t *tree.Tree) {
	n.tree = t
	n.generation++
}

// Search looks query up in hosts by asset id or hardware id, ignoring case,
// and reveals the first match in the tree. hosts should be the full,
// unfiltered collection; the tree is not consulted to find the host.
func (n *Navigator) Search(query string, hosts []models.Host) Outcome {
	n.generation++
	query = strings.TrimSpace(query)

	host := lookup(query, hosts)
	if host == nil {
		return Outcome{Kind: NotFound, Query: query}
	}

	out := Outcome{
		Kind:   Found,
		Query:  query,
		Host:   host,
		Ticket: Ticket{Generation: n.generation, AssetID: host.AssetID},
	}
	out.Revealed = n.reveal(host)
	if !out.Revealed {
		log.Debug().Str("asset_id", host.AssetID).Str("location", host.Location).Msg("Host not placed in tree")
	}
	return out
}

func lookup(query string, hosts []models.Host) *models.Host {
	if query == "" {
		return nil
	}
	for i := range hosts {
		h := &hosts[i]
		if strings.EqualFold(h.AssetID, query) || strings.EqualFold(h.HardwareID, query) {
			return h
		}
	}
	return nil
}

// reveal is the structural phase. Any lookup failure stops it; whatever was
// expanded before the failure stays expanded.
func (n *Navigator) reveal(h *models.Host) bool {
	if n.tree == nil {
		return false
	}
	room, ok := n.tree.RoomNode(models.RoomKey(h.Location))
	if !ok {
		return false
	}
	n.tree.Expand(room)

	position, ok := models.RackPosition(h.Location)
	if !ok {
		return false
	}
	rack, ok := n.tree.RackNode(room, position)
	if !ok {
		return false
	}
	n.tree.Expand(rack)

	if _, ok := n.tree.HostNode(rack, h.AssetID); ok {
		return true
	}
	more, ok := n.tree.MoreNode(rack)
	if !ok {
		return false
	}
	n.tree.ExpandMore(more)
	_, ok = n.tree.HostNode(rack, h.AssetID)
	return ok
}

// Focus returns the index into rows of the host named by ticket. It reports
// false for stale tickets and for hosts that are not visible; callers ignore
// both.
func (n *Navigator) Focus(ticket Ticket, rows []tree.Row) (int, bool) {
	if ticket.Generation != n.generation || n.tree == nil {
		return 0, false
	}

	fallback := -1
	for i, row := range rows {
		node, ok := n.tree.Node(row.ID)
		if !ok || node.Kind != tree.KindHost {
			continue
		}
		if strings.EqualFold(node.Host.AssetID, ticket.AssetID) {
			return i, true
		}
		if fallback < 0 && ticket.AssetID != "" && strings.Contains(node.Label, ticket.AssetID) {
			fallback = i
		}
	}
	if fallback >= 0 {
		return fallback, true
	}
	return 0, false
}
