package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/addmath/internal/admin"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import questions from a .csv or .xlsx file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		replace, _ := cmd.Flags().GetBool("replace")

		e, err := openEnv(cmd, true)
		if err != nil {
			return err
		}
		defer e.Close()

		status, err := admin.ImportFile(commandContext(cmd), e.bank, admin.CleanPath(args[0]), replace, time.Now())
		if err != nil {
			return err
		}
		fmt.Println(status)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:       "export template|csv|backup",
	Short:     "Write the CSV template, a CSV of all questions, or a JSON backup",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"template", "csv", "backup"},
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("output")

		if args[0] == "template" {
			status, err := admin.ExportTemplate(dir)
			if err != nil {
				return err
			}
			fmt.Println(status)
			return nil
		}

		e, err := openEnv(cmd, true)
		if err != nil {
			return err
		}
		defer e.Close()

		var status string
		switch args[0] {
		case "csv":
			status, err = admin.ExportCSV(dir, e.bank.All(), time.Now())
		case "backup":
			status, err = admin.ExportBackup(dir, e.bank.All(), time.Now())
		}
		if err != nil {
			return err
		}
		fmt.Println(status)
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <backup.json>",
	Short: "Replace all questions with the contents of a JSON backup",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		status, err := admin.RestoreBackup(commandContext(cmd), e.bank, admin.CleanPath(args[0]))
		if err != nil {
			return err
		}
		fmt.Println(status)
		return nil
	},
}

func init() {
	importCmd.Flags().Bool("replace", false, "Replace every stored question instead of appending")
	exportCmd.Flags().StringP("output", "o", ".", "Directory to write the file into")
}
