package main

import (
	"fmt"

	"github.com/BerylCAtieno/listing-expert-agent/internal/service"
	"github.com/BerylCAtieno/listing-expert-agent/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Fill in the analysis form interactively",
	RunE:  runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	svc, closeProvider, err := service.FromConfig(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = closeProvider() }()

	p := tea.NewProgram(tui.NewApp(svc, logger), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
