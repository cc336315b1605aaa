package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/addmath/internal/quiz"
	"github.com/abhisek/addmath/internal/store"
	"github.com/abhisek/addmath/internal/topics"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show practice history",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := commandContext(cmd)
		events := e.store.EventRepo()
		sessions, err := events.QuerySessionSummaries(ctx, store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query sessions: %w", err)
		}

		if len(sessions) == 0 {
			fmt.Println("No practice sessions recorded yet.")
			return nil
		}

		fmt.Println("Recent Sessions")
		fmt.Println(rule(72))
		fmt.Printf("%-16s  %-28s  %7s  %5s  %6s\n", "When", "Topic", "Score", "%", "Time")
		fmt.Println(rule(72))

		var order []string
		seen := map[string]bool{}
		for _, ss := range sessions {
			fmt.Printf("%-16s  %-28s  %3d/%-3d  %4d%%  %6s\n",
				ss.Timestamp.Local().Format("2006-01-02 15:04"),
				truncate(topics.Name(ss.TopicID), 28),
				ss.CorrectAnswers, ss.QuestionsServed,
				percent(ss.CorrectAnswers, ss.QuestionsServed),
				quiz.FormatTime(ss.DurationSecs),
			)
			if !seen[ss.TopicID] {
				seen[ss.TopicID] = true
				order = append(order, ss.TopicID)
			}
		}

		fmt.Println()
		fmt.Println("Accuracy by Topic")
		fmt.Println(rule(72))
		for _, id := range order {
			acc, answered, err := events.TopicAccuracy(ctx, id)
			if err != nil {
				return fmt.Errorf("topic accuracy: %w", err)
			}
			fmt.Printf("%-28s  %4.0f%%  of %d answers\n", truncate(topics.Name(id), 28), acc*100, answered)
		}
		return nil
	},
}

func percent(n, total int) int {
	if total == 0 {
		return 0
	}
	return (n*100 + total/2) / total
}

func init() {
	statsCmd.Flags().IntP("limit", "n", 20, "Number of sessions to show")
}
