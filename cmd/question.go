package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/addmath/internal/admin"
	"github.com/abhisek/addmath/internal/bank"
	"github.com/abhisek/addmath/internal/importer"
	"github.com/abhisek/addmath/internal/mathtext"
	"github.com/abhisek/addmath/internal/topics"
)

var questionCmd = &cobra.Command{
	Use:     "question",
	Aliases: []string{"q"},
	Short:   "List, add and delete stored questions",
}

var questionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored questions",
	RunE: func(cmd *cobra.Command, args []string) error {
		topicID, _ := cmd.Flags().GetString("topic")

		e, err := openEnv(cmd, true)
		if err != nil {
			return err
		}
		defer e.Close()

		set := e.bank.All()
		ids := importer.TopicOrder(set)
		if topicID != "" {
			ids = []string{topicID}
		}

		shown := 0
		for _, id := range ids {
			qs := set[id]
			if len(qs) == 0 {
				continue
			}
			fmt.Printf("%s (%s) - %d questions\n", topics.Name(id), id, len(qs))
			for _, q := range qs {
				fmt.Printf("  %-40s  %s  [%c]\n", truncate(q.ID, 40), truncate(mathtext.Terminal(q.Text), 60), bank.OptionLetter(q.Correct))
			}
			shown += len(qs)
		}
		if shown == 0 {
			fmt.Println("No questions found.")
		}
		return nil
	},
}

var questionAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a question to a topic",
	Example: `  addmath question add --topic form4-quadratic-equations \
    --text 'Solve $x^2 = 4$' --option 2 --option '\pm 2' --option 4 --option -2 \
    --correct B --explanation 'Both roots satisfy the equation'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		topicID, _ := cmd.Flags().GetString("topic")
		text, _ := cmd.Flags().GetString("text")
		options, _ := cmd.Flags().GetStringArray("option")
		correct, _ := cmd.Flags().GetString("correct")
		explanation, _ := cmd.Flags().GetString("explanation")
		diagram, _ := cmd.Flags().GetString("diagram")

		if len(options) != bank.NumOptions {
			return fmt.Errorf("exactly %d --option values are required, got %d", bank.NumOptions, len(options))
		}
		idx, err := bank.ParseOption(correct)
		if err != nil {
			return err
		}

		q := bank.Question{Text: text, Correct: idx, Explanation: explanation}
		copy(q.Options[:], options)
		if diagram != "" {
			if q.Diagram, err = importer.Diagram(admin.CleanPath(diagram)); err != nil {
				return err
			}
		}

		e, err := openEnv(cmd, true)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.bank.Add(commandContext(cmd), topicID, q); err != nil {
			return err
		}
		added := e.bank.Questions(topicID)
		fmt.Println("Added question", added[len(added)-1].ID)
		return nil
	},
}

var questionDeleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete questions by ID",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, true)
		if err != nil {
			return err
		}
		defer e.Close()

		var errs []error
		for _, id := range args {
			if err := e.bank.Delete(commandContext(cmd), id); err != nil {
				errs = append(errs, err)
				continue
			}
			fmt.Println("Deleted", id)
		}
		return errors.Join(errs...)
	},
}

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List forms and topics with question counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, true)
		if err != nil {
			return err
		}
		defer e.Close()

		for _, f := range topics.AllForms() {
			fmt.Printf("%s (%d questions)\n", topics.FormDisplayName(f), e.bank.FormCount(f))
			for _, t := range topics.ByForm(f) {
				fmt.Printf("  %-28s  %-24s  %3d\n", t.ID, t.Name, e.bank.Count(t.ID))
			}
		}
		fmt.Printf("\nTotal: %d questions, updated %s\n", e.bank.Total(), formatUpdated(e.bank))
		return nil
	},
}

func formatUpdated(b *bank.Bank) string {
	t := b.LastUpdated()
	if t.IsZero() {
		return "never"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

func init() {
	questionListCmd.Flags().StringP("topic", "t", "", "Only list questions in this topic")

	questionAddCmd.Flags().StringP("topic", "t", "", "Topic ID (see `addmath topics`)")
	questionAddCmd.Flags().String("text", "", "Question text; math goes between $...$")
	questionAddCmd.Flags().StringArray("option", nil, "Answer option, given four times in order A-D")
	questionAddCmd.Flags().String("correct", "", "Correct option: A-D or 1-4")
	questionAddCmd.Flags().String("explanation", "", "Worked explanation shown after answering")
	questionAddCmd.Flags().String("diagram", "", "Diagram URL, data URI or image file")
	_ = questionAddCmd.MarkFlagRequired("topic")
	_ = questionAddCmd.MarkFlagRequired("text")
	_ = questionAddCmd.MarkFlagRequired("correct")

	questionCmd.AddCommand(questionListCmd)
	questionCmd.AddCommand(questionAddCmd)
	questionCmd.AddCommand(questionDeleteCmd)
}
