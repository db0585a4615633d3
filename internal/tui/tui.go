// Package tui renders the interactive day view: a scrollable timeline
// with keyboard-driven direct manipulation of boxes.
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/INF-Lucas/Timeboxing/internal/timeboxing"
)

// Run starts the day view and blocks until the user quits.
func Run(ctx context.Context, app *timeboxing.App, logger zerolog.Logger) error {
	p := tea.NewProgram(NewModel(app, logger), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
