package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/addmath/internal/mathtext"
)

var renderCmd = &cobra.Command{
	Use:   "render [text]",
	Short: "Render math markup for the terminal or as HTML",
	Long: `Render text containing $inline$ or $$display$$ math. With no argument the
text is read from stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asHTML, _ := cmd.Flags().GetBool("html")

		var text string
		if len(args) == 1 {
			text = args[0]
		} else {
			b, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			text = strings.TrimRight(string(b), "\n")
		}

		if asHTML {
			fmt.Println(mathtext.HTML(text))
		} else {
			fmt.Println(mathtext.Terminal(text))
		}
		return nil
	},
}

func init() {
	renderCmd.Flags().Bool("html", false, "Emit HTML instead of terminal text")
}
