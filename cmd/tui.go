package cmd

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/roadmap/internal/tui"
	"github.com/twiced-technology-gmbh/roadmap/internal/watcher"
)

var tuiCmd = &cobra.Command{
	Use:   "tui FILE",
	Short: "Browse a roadmap interactively",
	Long:  `Opens a board with one column per stage. The board reloads when the file changes.`,
	Args:  exactArgs(1),
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(args[0])
	if err != nil {
		return err
	}

	model := tui.NewBoard(args[0], cfg)
	model.SetColor(colorEnabled)
	p := tea.NewProgram(model, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	go startTUIWatcher(ctx, model, p)

	_, err = p.Run()
	return err
}

func startTUIWatcher(ctx context.Context, model *tui.Board, p *tea.Program) {
	w, err := watcher.New(model.WatchPaths(), func() {
		p.Send(tui.ReloadMsg{})
	})
	if err != nil {
		p.Send(tui.ErrMsg{Err: err}) // the board still works without live reload
		return
	}
	defer w.Close()
	w.Run(ctx, func(err error) {
		p.Send(tui.ErrMsg{Err: err})
	})
}
