// Package tui is the interactive rack browser: a room → rack → host tree
// on the left, details of the selected node on the right and a search
// prompt for jumping to a host by asset id or hardware id.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"evalgo.org/labops/internal/navigator"
	"evalgo.org/labops/internal/render"
	"evalgo.org/labops/internal/tree"
	"evalgo.org/labops/models"
)

// Loader supplies the inventory snapshot. *inventory.Source satisfies it.
type Loader interface {
	Hosts(ctx context.Context) ([]models.Host, error)
	Racks(ctx context.Context) ([]models.Rack, error)
}

// loadedMsg carries the result of one load. Hosts and racks arrive
// together so a tree is never built from a half-fetched snapshot.
type loadedMsg struct {
	hosts []models.Host
	racks []models.Rack
	err   error
}

// focusMsg moves the cursor once the tree revealed by a search is visible.
type focusMsg struct {
	ticket navigator.Ticket
}

// Model is the Bubble Tea model of a session.
type Model struct {
	ctx      context.Context
	loader   Loader
	reloader Loader

	hosts []models.Host
	racks []models.Rack
	nav   *navigator.Navigator
	rows  []tree.Row

	cursor int
	offset int

	loading bool
	pending string

	searching bool
	input     textinput.Model
	detail    viewport.Model
	help      help.Model
	status    string

	width  int
	height int
}

// New returns a model that loads through loader on start. reloader serves
// the "r" key; when nil, loader is reused.
func New(ctx context.Context, loader, reloader Loader) Model {
	if reloader == nil {
		reloader = loader
	}
	input := textinput.New()
	input.Prompt = "Search: "
	input.Placeholder = "asset ID or hardware ID"
	input.CharLimit = 128

	return Model{
		ctx:      ctx,
		loader:   loader,
		reloader: reloader,
		input:    input,
		detail:   viewport.New(40, 20),
		help:     help.New(),
		width:    100,
		height:   30,
		loading:  true,
		status:   "Loading inventory...",
	}
}

// Init starts the initial load.
func (m Model) Init() tea.Cmd {
	return load(m.ctx, m.loader)
}

func load(ctx context.Context, l Loader) tea.Cmd {
	return func() tea.Msg {
		var msg loadedMsg
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			hosts, err := l.Hosts(gctx)
			if err != nil {
				return err
			}
			msg.hosts = hosts
			return nil
		})
		g.Go(func() error {
			racks, err := l.Racks(gctx)
			if err != nil {
				return err
			}
			msg.racks = racks
			return nil
		})
		if err := g.Wait(); err != nil {
			return loadedMsg{err: err}
		}
		return msg
	}
}

// Update handles one message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case loadedMsg:
		return m.loaded(msg)

	case focusMsg:
		if m.nav == nil {
			return m, nil
		}
		if i, ok := m.nav.Focus(msg.ticket, m.rows); ok {
			m.cursor = i
			m.scroll()
			m.showSelected()
		}
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m Model) loaded(msg loadedMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	if msg.err != nil {
		log.Error().Err(msg.err).Msg("Inventory load failed")
		m.status = "Error: " + msg.err.Error()
		return m, nil
	}

	m.hosts, m.racks = msg.hosts, msg.racks
	t := tree.Build(m.racks)
	if m.nav == nil {
		m.nav = navigator.New(t)
	} else {
		m.nav.Reset(t)
	}
	m.cursor, m.offset = 0, 0
	m.refresh()
	m.detail.SetContent("")
	m.status = fmt.Sprintf("Loaded %d racks, %d hosts", len(m.racks), len(m.hosts))
	log.Info().Int("racks", len(m.racks)).Int("hosts", len(m.hosts)).Msg("Inventory loaded")

	if q := m.pending; q != "" {
		m.pending = ""
		return m.search(q)
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		q := m.input.Value()
		m.endSearch()
		return m.search(q)
	case tea.KeyEsc:
		m.endSearch()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) endSearch() {
	m.searching = false
	m.input.Blur()
	m.input.Reset()
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.scroll()
			m.showSelected()
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
			m.scroll()
			m.showSelected()
		}
	case key.Matches(msg, keys.Select):
		m.activate()
	case key.Matches(msg, keys.Search):
		m.searching = true
		cmd := m.input.Focus()
		return m, cmd
	case key.Matches(msg, keys.Reload):
		if m.loading {
			return m, nil
		}
		m.loading = true
		m.status = "Reloading inventory..."
		return m, load(m.ctx, m.reloader)
	}
	return m, nil
}

// search runs the structural phase now and hands the focus phase to the
// next message, after the expanded tree has been drawn.
func (m Model) search(query string) (tea.Model, tea.Cmd) {
	if query == "" {
		return m, nil
	}
	if m.loading || m.nav == nil {
		m.pending = query
		m.status = fmt.Sprintf("Search for '%s' queued until inventory loads", query)
		return m, nil
	}

	out := m.nav.Search(query, m.hosts)
	m.refresh()
	if out.Kind == navigator.NotFound {
		m.status = out.Message()
		return m, nil
	}

	m.status = "Found host " + out.Host.AssetID
	m.setDetail(render.HostPane(*out.Host))
	ticket := out.Ticket
	return m, func() tea.Msg { return focusMsg{ticket: ticket} }
}

func (m *Model) activate() {
	if m.nav == nil || m.cursor >= len(m.rows) {
		return
	}
	t := m.nav.Tree()
	id := m.rows[m.cursor].ID
	n, ok := t.Node(id)
	if !ok {
		return
	}
	switch n.Kind {
	case tree.KindMore:
		t.ExpandMore(id)
	case tree.KindRoom, tree.KindRack:
		t.Toggle(id)
	}
	m.refresh()
	m.showSelected()
}

func (m *Model) refresh() {
	if m.nav == nil {
		m.rows = nil
		return
	}
	m.rows = m.nav.Tree().Visible()
	if m.cursor >= len(m.rows) {
		m.cursor = max(len(m.rows)-1, 0)
	}
	m.scroll()
}

func (m *Model) showSelected() {
	if m.nav == nil || m.cursor >= len(m.rows) {
		return
	}
	n, ok := m.nav.Tree().Node(m.rows[m.cursor].ID)
	if !ok {
		return
	}
	switch n.Kind {
	case tree.KindRoom:
		var racks []models.Rack
		for _, r := range m.racks {
			if r.Room() == n.Room {
				racks = append(racks, r)
			}
		}
		m.setDetail(render.RoomPane(n.Room, racks))
	case tree.KindRack:
		m.setDetail(render.RackPane(*n.Rack))
	case tree.KindHost:
		m.setDetail(render.HostPane(*n.Host))
	case tree.KindMore:
		m.setDetail("Press enter to show the remaining hosts.")
	}
}

func (m *Model) setDetail(s string) {
	m.detail.SetContent(s)
	m.detail.GotoTop()
}

// Selected returns the node under the cursor.
func (m Model) Selected() (tree.Node, bool) {
	if m.nav == nil || m.cursor >= len(m.rows) {
		return tree.Node{}, false
	}
	return m.nav.Tree().Node(m.rows[m.cursor].ID)
}

// Status returns the status line text.
func (m Model) Status() string { return m.status }
