package tui

import (
	"context"
	"errors"

	"accounts-cli/internal/listview"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

// Options configures the interactive list view.
type Options struct {
	Backend listview.Backend
	// Source names the backend in the title bar (workspace or URL).
	Source string
	// Logger must not write to the terminal the TUI draws on.
	Logger zerolog.Logger
}

func Run(ctx context.Context, opts Options) error {
	if opts.Backend == nil {
		return errors.New("tui: no backend")
	}
	applyColorProfilePreference()
	applyThemePreference()

	m := newAppModel(ctx, opts)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
