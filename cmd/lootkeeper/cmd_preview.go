package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"lootkeeper/cmd/lootkeeper/ui"
	"lootkeeper/internal/store"
)

var previewList string

// previewCmd opens the interactive terminal previewer.
var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Preview a list interactively in the terminal",
	Long: `Opens an interactive pager over the named list. Arrow keys follow the
payload's own navigation controls, so what you page through is exactly what
the chat platform would receive.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, catalog, cleanup, err := openEngine()
		if err != nil {
			return err
		}
		defer cleanup()

		// The previewer is long-lived, so surface edits hot-reload into it.
		if cfg.Store.WatchSurfaces {
			watcher, err := store.NewCatalogWatcher(catalog, logger)
			if err != nil {
				return err
			}
			if err := watcher.Start(cmd.Context()); err != nil {
				return err
			}
			defer watcher.Stop()
		}

		model := ui.NewPreviewModel(eng, guildID, previewList)
		program := tea.NewProgram(model, tea.WithAltScreen())
		_, err = program.Run()
		return err
	},
}

func init() {
	previewCmd.Flags().StringVar(&previewList, "list", "", "List id to preview, e.g. shop or inv:<actor>")
	_ = previewCmd.MarkFlagRequired("list")
}
