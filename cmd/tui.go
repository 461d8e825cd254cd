package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Renders the portfolio in the terminal",
	Long: `The tui command shows the portfolio as one scrollable page. Number keys
and tab jump to sections, [ and ] pick a project card, enter opens its
details and o/s open its links in the system browser.

Logs go to tui.log_file since the terminal is taken by the page.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.OpenFile(appConfig.TUI.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logger := newLogger(f, appConfig)

		site, err := content.Load(cmd.Context(), appConfig.Content)
		if err != nil {
			return fmt.Errorf("load content: %w", err)
		}

		m, err := tui.New(site, tui.Options{
			ReferenceLine: appConfig.TUI.ReferenceLine,
			Frame:         appConfig.TUI.Frame,
			Logger:        logger,
		})
		if err != nil {
			return err
		}
		defer m.Close()

		opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(cmd.Context())}
		if appConfig.TUI.Mouse {
			opts = append(opts, tea.WithMouseCellMotion())
		}
		if _, err := tea.NewProgram(m, opts...).Run(); err != nil {
			return fmt.Errorf("run: %w", err)
		}
		return nil
	},
}

func init() {
	tuiCmd.Flags().Bool("mouse", true, "enable mouse wheel scrolling")
	rootCmd.AddCommand(tuiCmd)
}
