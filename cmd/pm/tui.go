package main

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/tgienger/pm/internal/ui"
)

func runTUI(cmd *cobra.Command, opts *rootOptions) (err error) {
	e, err := openEnv(opts, true)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, e.Close()) }()

	app := ui.NewApp(e.store, e.db, e.log)
	p := tea.NewProgram(app,
		tea.WithAltScreen(),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
