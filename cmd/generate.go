package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/abhisek/addmath/internal/bank"
	"github.com/abhisek/addmath/internal/generate"
	"github.com/abhisek/addmath/internal/llm"
	"github.com/abhisek/addmath/internal/mathtext"
	"github.com/abhisek/addmath/internal/topics"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Draft new questions for a topic with an LLM",
	Long: `Draft multiple-choice questions for a topic with the configured LLM provider.

The provider is chosen by ADDMATH_LLM_PROVIDER (gemini, openai, anthropic,
openrouter) with its key in ADDMATH_<PROVIDER>_API_KEY. Drafts are printed
for review and only stored when --save is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		topicID, _ := cmd.Flags().GetString("topic")
		count, _ := cmd.Flags().GetInt("count")
		save, _ := cmd.Flags().GetBool("save")

		topic, err := topics.Get(topicID)
		if err != nil {
			return err
		}
		if count < 1 {
			return fmt.Errorf("--count must be at least 1, got %d", count)
		}

		e, err := openEnv(cmd, true)
		if err != nil {
			return err
		}
		defer e.Close()

		llmCfg := llm.ConfigFromEnv()
		ctx, cancel := context.WithTimeout(commandContext(cmd), llmCfg.Timeout*time.Duration(count))
		defer cancel()

		provider, err := llm.NewProvider(ctx, llmCfg, e.store.EventRepo(), e.log)
		if err != nil {
			return fmt.Errorf("LLM provider not configured: %w", err)
		}

		var prior []string
		for _, q := range e.bank.Questions(topic.ID) {
			prior = append(prior, q.Text)
		}

		fmt.Printf("Drafting %d questions for %s with %s...\n\n", count, topic.Name, provider.ModelID())
		gen := generate.New(provider, generate.DefaultConfig(), e.log)
		drafts, err := gen.Batch(ctx, topic, prior, count)
		for i, q := range drafts {
			printDraft(i+1, q)
		}
		if err != nil {
			e.log.WithError(err).WithFields(logrus.Fields{
				"topic":    topic.ID,
				"accepted": len(drafts),
			}).Warn("question generation stopped early")
			if len(drafts) == 0 {
				return err
			}
			fmt.Printf("Stopped after %d of %d: %v\n", len(drafts), count, err)
		}

		if !save {
			fmt.Println("Dry run; pass --save to store these questions.")
			return nil
		}
		if err := e.bank.Merge(ctx, bank.Set{topic.ID: drafts}, bank.SourceGenerate); err != nil {
			return err
		}
		fmt.Printf("Saved %d questions to %s.\n", len(drafts), topic.Name)
		return nil
	},
}

func printDraft(n int, q bank.Question) {
	fmt.Printf("%d. %s\n", n, mathtext.Terminal(q.Text))
	for i, o := range q.Options {
		mark := " "
		if i == q.Correct {
			mark = "*"
		}
		fmt.Printf("   %s %c) %s\n", mark, bank.OptionLetter(i), mathtext.Terminal(o))
	}
	if q.Explanation != "" {
		fmt.Printf("   %s\n", strings.ReplaceAll(mathtext.Terminal(q.Explanation), "\n", "\n   "))
	}
	fmt.Println()
}

func init() {
	generateCmd.Flags().StringP("topic", "t", "", "Topic ID (see `addmath topics`)")
	generateCmd.Flags().IntP("count", "n", 3, "Number of questions to draft")
	generateCmd.Flags().Bool("save", false, "Store the drafts in the question bank")
	_ = generateCmd.MarkFlagRequired("topic")
}
