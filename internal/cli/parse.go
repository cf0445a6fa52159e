package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/steptext"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a pasted step list into custom steps",
	Long: `Parse reads free text from a file, or stdin when no file is given, and
prints one custom step per non-empty line. List markers are stripped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var data []byte
		var err error
		if len(args) == 1 {
			data, err = os.ReadFile(args[0])
		} else {
			data, err = io.ReadAll(cmd.InOrStdin())
		}
		if err != nil {
			return fmt.Errorf("failed to read steps: %w", err)
		}

		result := steptext.NewParser(nil).Parse(string(data))
		if err := result.Err(); err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if jsonOutput {
			return outputJSON(out, result.Steps)
		}
		PrintSuccess(out, fmt.Sprintf("Parsed %s", PrintCount(len(result.Steps), "step", "steps")))
		PrintNumberedList(out, stepTitles(result.Steps), 1)
		return nil
	},
}
