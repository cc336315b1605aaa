package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/addmath/internal/feed"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch the latest questions from the remote feed",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		syncer := feed.NewSyncer(feed.NewHTTPSource(e.cfg.FeedURL, e.cfg.FeedTimeout), e.bank, e.log)
		res, err := syncer.Sync(commandContext(cmd))
		if err != nil {
			return fmt.Errorf("sync: %w", err)
		}

		if res.FromCache {
			fmt.Println(feed.FallbackMessage)
			if res.FetchErr != nil {
				fmt.Println("  reason:", res.FetchErr)
			}
			if !res.CacheFound {
				fmt.Println("No cached questions either; the question bank is empty.")
			}
		} else {
			fmt.Printf("Fetched %d questions", res.Imported)
			if res.Skipped > 0 {
				fmt.Printf(" (skipped %d malformed rows)", res.Skipped)
			}
			fmt.Println()
		}
		fmt.Printf("%d questions across %d topics, updated %s\n",
			e.bank.Total(), len(e.bank.All()), formatUpdated(e.bank))
		return nil
	},
}
