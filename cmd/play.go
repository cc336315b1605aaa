package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/addmath/internal/app"
	"github.com/abhisek/addmath/internal/feed"
	"github.com/abhisek/addmath/internal/screens"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start the practice app",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// runApp opens the store, builds dependencies, and launches the TUI. The
// bank is hydrated by the loading screen's feed sync, not here.
func runApp(cmd *cobra.Command) error {
	e, err := openEnv(cmd, false)
	if err != nil {
		return err
	}
	defer e.Close()

	src := feed.NewHTTPSource(e.cfg.FeedURL, e.cfg.FeedTimeout)
	deps := screens.Deps{
		Bank:         e.bank,
		Events:       e.store.EventRepo(),
		Syncer:       feed.NewSyncer(src, e.bank, e.log),
		Log:          e.log,
		DefaultCount: e.cfg.QuestionCount,
		ExportDir:    ".",
	}

	e.log.Info("starting terminal ui")
	return app.Run(commandContext(cmd), deps)
}
