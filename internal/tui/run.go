package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts a full-screen session and blocks until the user quits or ctx
// is cancelled. Callers should point logging away from the terminal first.
func Run(ctx context.Context, loader, reloader Loader) error {
	p := tea.NewProgram(New(ctx, loader, reloader), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
