package cli

import (
	"github.com/spf13/cobra"

	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/resolver"
)

var resolveConfig resolver.Config

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve the setup steps for a configuration",
	Long: `Resolve prints the ordered setup steps the rules produce for the given
business unit, language, IDE and tools.`,
	Example: `  onboard resolve --bu "Global Technology" --language Python --ide "VS Code" --tool "GitHub Copilot"`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		_, res, err := newResolver(cfg)
		if err != nil {
			return err
		}
		steps := res.Resolve(resolveConfig)
		out := cmd.OutOrStdout()

		if jsonOutput {
			return outputJSON(out, steps)
		}
		PrintSection(out, PrintCount(len(steps), "step", "steps"))
		PrintNumberedList(out, stepTitles(steps), 1)
		return nil
	},
}

func init() {
	f := resolveCmd.Flags()
	f.StringVar(&resolveConfig.BusinessUnit, "bu", "", "Business unit")
	f.StringVar(&resolveConfig.CodingLanguage, "language", "", "Coding language")
	f.StringVar(&resolveConfig.IDE, "ide", "", "IDE")
	f.StringSliceVar(&resolveConfig.ToolsAndTechnologies, "tool", nil, "Tool or technology (repeatable)")
	f.BoolVar(&resolveConfig.IsIDEAlsoAITool, "ide-is-ai-tool", false, "The IDE is also one of the AI tools")
}
