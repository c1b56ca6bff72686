package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/wrlog/internal/shared"
	"github.com/desertthunder/wrlog/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive changelist browser.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/wrlog-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	store, err := r.openStore()
	if err != nil {
		return err
	}
	defer r.closeStore()

	logger := shared.WithLogger(r.logger, "run", shared.GenerateID())
	model := ui.NewModel(ctx, store, r.updateEngine(ctx, store, logger))
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
