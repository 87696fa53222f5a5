package tui

import (
	"context"
	"errors"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evalgo.org/labops/internal/tree"
	"evalgo.org/labops/models"
)

type fakeLoader struct {
	hosts []models.Host
	racks []models.Rack
	err   error
}

func (f *fakeLoader) Hosts(context.Context) ([]models.Host, error) { return f.hosts, f.err }
func (f *fakeLoader) Racks(context.Context) ([]models.Rack, error) { return f.racks, f.err }

func inventory() *fakeLoader {
	var hosts []models.Host
	for i := 1; i <= 8; i++ {
		hosts = append(hosts, models.Host{
			AssetID:    fmt.Sprintf("100%d", i),
			HardwareID: fmt.Sprintf("SVR.H100%d", i),
			Platform:   "MONZA91",
			Status:     "Available",
			Location:   fmt.Sprintf("SEA85.159.R6-L01.%d", i*10),
		})
	}
	racks := []models.Rack{{Position: "SEA85.159.R6-L01", Lab: "SEALAB85", Hosts: hosts}}
	return &fakeLoader{hosts: hosts, racks: racks}
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

func typeKeys(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var enter = tea.KeyMsg{Type: tea.KeyEnter}

func loaded(t *testing.T, l *fakeLoader) Model {
	t.Helper()
	m := New(context.Background(), l, nil)
	m, _ = send(t, m, m.Init()())
	return m
}

func searchFor(t *testing.T, m Model, query string) (Model, tea.Cmd) {
	t.Helper()
	m, _ = send(t, m, typeKeys("/"))
	require.True(t, m.searching)
	m, _ = send(t, m, typeKeys(query))
	return send(t, m, enter)
}

func TestInitialLoad(t *testing.T) {
	m := loaded(t, inventory())

	assert.False(t, m.loading)
	assert.Equal(t, "Loaded 1 racks, 8 hosts", m.Status())
	require.Len(t, m.rows, 1)

	n, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, tree.KindRoom, n.Kind)
	assert.Contains(t, m.View(), "SEA85.159 (1 racks, 8 hosts)")
}

func TestLoadError(t *testing.T) {
	m := loaded(t, &fakeLoader{err: errors.New("connection refused")})

	assert.Equal(t, "Error: connection refused", m.Status())
	assert.Empty(t, m.rows)
	assert.Contains(t, m.View(), "No racks loaded")
}

func TestBrowse_ExpandAndMore(t *testing.T) {
	m := loaded(t, inventory())

	m, _ = send(t, m, enter)
	require.Len(t, m.rows, 2, "room expanded")

	m, _ = send(t, m, typeKeys("j"))
	m, _ = send(t, m, enter)
	require.Len(t, m.rows, 8, "room, rack, 5 hosts, more")
	assert.Contains(t, m.detail.View(), "Hosts in Rack (8):")

	for i := 0; i < 6; i++ {
		m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}
	n, ok := m.Selected()
	require.True(t, ok)
	require.Equal(t, tree.KindMore, n.Kind)

	m, _ = send(t, m, enter)
	assert.Len(t, m.rows, 10, "room, rack, 8 hosts")
	assert.Equal(t, 1, m.nav.Tree().Expansions())

	n, _ = m.Selected()
	assert.Equal(t, "1006", n.Host.AssetID, "first revealed host takes the more row")

	m, _ = send(t, m, typeKeys("k"))
	n, _ = m.Selected()
	assert.Equal(t, "1005", n.Host.AssetID)
}

func TestSearch_RevealsHiddenHostAndFocuses(t *testing.T) {
	m := loaded(t, inventory())

	m, cmd := searchFor(t, m, "1007")
	require.NotNil(t, cmd)
	assert.False(t, m.searching)
	assert.Equal(t, "Found host 1007", m.Status())
	assert.Equal(t, 1, m.nav.Tree().Expansions())
	assert.Equal(t, 0, m.cursor, "focus waits for the next message")

	m, _ = send(t, m, cmd())
	n, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, tree.KindHost, n.Kind)
	assert.Equal(t, "1007", n.Host.AssetID)
	assert.Contains(t, m.detail.View(), "Asset ID: 1007")
}

func TestSearch_ByHardwareID(t *testing.T) {
	m := loaded(t, inventory())

	m, cmd := searchFor(t, m, "svr.h1002")
	require.NotNil(t, cmd)
	m, _ = send(t, m, cmd())

	n, _ := m.Selected()
	assert.Equal(t, "1002", n.Host.AssetID)
	assert.Equal(t, 0, m.nav.Tree().Expansions())
}

func TestSearch_NotFound(t *testing.T) {
	m := loaded(t, inventory())

	m, cmd := searchFor(t, m, "zzz")
	assert.Nil(t, cmd)
	assert.Contains(t, m.Status(), "No host found matching 'zzz'")
	assert.Len(t, m.rows, 1, "tree untouched")
}

func TestSearch_Escape(t *testing.T) {
	m := loaded(t, inventory())

	m, _ = send(t, m, typeKeys("/"))
	m, _ = send(t, m, typeKeys("10"))
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	assert.False(t, m.searching)
	assert.Empty(t, m.input.Value())
	assert.Equal(t, "Loaded 1 racks, 8 hosts", m.Status())
}

func TestSearch_QueuedWhileLoading(t *testing.T) {
	l := inventory()
	m := New(context.Background(), l, nil)
	initial := m.Init()

	m, cmd := searchFor(t, m, "1001")
	assert.Nil(t, cmd)
	assert.Contains(t, m.Status(), "queued")

	m, cmd = searchFor(t, m, "1008")
	assert.Nil(t, cmd)

	m, cmd = send(t, m, initial())
	require.NotNil(t, cmd, "latest queued search runs after load")
	m, _ = send(t, m, cmd())

	n, _ := m.Selected()
	assert.Equal(t, "1008", n.Host.AssetID)
}

func TestReload(t *testing.T) {
	l := inventory()
	m := New(context.Background(), l, nil)

	_, cmd := send(t, m, typeKeys("r"))
	assert.Nil(t, cmd, "no second fetch while one is in flight")

	m, _ = send(t, m, m.Init()())
	m, cmd = send(t, m, typeKeys("r"))
	require.NotNil(t, cmd)
	assert.True(t, m.loading)

	l.racks = append(l.racks, models.Rack{Position: "SEA85.6920.R1-L01"})
	m, _ = send(t, m, cmd())
	assert.Len(t, m.rows, 2)
}

func TestFocus_StaleAfterReload(t *testing.T) {
	l := inventory()
	m := loaded(t, l)

	m, focus := searchFor(t, m, "1003")
	require.NotNil(t, focus)

	m, reload := send(t, m, typeKeys("r"))
	m, _ = send(t, m, reload())
	m, _ = send(t, m, focus())

	assert.Equal(t, 0, m.cursor)
	n, _ := m.Selected()
	assert.Equal(t, tree.KindRoom, n.Kind)
}

func TestQuit(t *testing.T) {
	m := loaded(t, inventory())

	_, cmd := send(t, m, typeKeys("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestWindowResize(t *testing.T) {
	m := loaded(t, inventory())

	m, _ = send(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 34, m.treeHeight())
	assert.Equal(t, 56, m.detail.Width)
}
