package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog [step-id]",
	Short: "List catalog steps or show one step's guide",
	Long: `Without arguments, list every step in the catalog in catalog order.
With a step id, print that step's guide content.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		cat, _, err := newResolver(cfg)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if len(args) == 0 {
			steps := cat.Steps()
			if jsonOutput {
				return outputJSON(out, steps)
			}
			rows := make([][]string, len(steps))
			for i, s := range steps {
				rows[i] = []string{s.ID, string(s.Category), s.Title}
			}
			PrintSection(out, fmt.Sprintf("Catalog (%s)", PrintCount(len(steps), "step", "steps")))
			PrintTable(out, []string{"ID", "CATEGORY", "TITLE"}, rows)
			return nil
		}

		step, ok := cat.Get(args[0])
		if !ok {
			return fmt.Errorf("unknown step %q", args[0])
		}
		if jsonOutput {
			return outputJSON(out, step)
		}
		PrintSection(out, step.Title)
		PrintLabelValue(out, "ID", step.ID)
		PrintLabelValue(out, "Category", string(step.Category))
		PrintLabelValue(out, "Description", step.Description)
		fmt.Fprintln(out)
		if len(step.Content) == 0 {
			PrintEmptyState(out, "No guide content")
			return nil
		}
		for _, b := range step.Content {
			switch b.Kind {
			case "list":
				for _, item := range b.Items {
					PrintInfo(out, "  • "+item)
				}
			case "code":
				PrintInfo(out, "    "+strings.ReplaceAll(b.Text, "\n", "\n    "))
			default:
				PrintInfo(out, b.Text)
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}
