package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/agent"
	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/autofill"
	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/submission"
	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/tools"
)

var (
	mergeCurrent string
	mergePolicy  string
)

var mergeCmd = &cobra.Command{
	Use:   "merge <draft-file>",
	Short: "Preview merging an autofill draft into form fields",
	Long: `Merge applies a JSON or YAML draft to the current fields under a policy
and prints the result, the conflicting fields and the regenerated plan if the
draft qualifies for step generation.`,
	Example: `  onboard merge draft.yaml --current fields.json --policy keep-both`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		policy, err := autofill.ParsePolicy(mergePolicy)
		if err != nil {
			return fmt.Errorf("%w (one of %s)", err, policyNames())
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		controller, _, err := newController(cfg, nil)
		if err != nil {
			return err
		}

		dir, name := filepath.Split(args[0])
		doc, err := tools.NewFileFetcher(dir).Fetch(cmd.Context(), name)
		if err != nil {
			return err
		}
		draft, err := agent.DecodeDraft(doc)
		if err != nil {
			return err
		}

		state := submission.NewState("preview")
		if mergeCurrent != "" {
			data, err := os.ReadFile(mergeCurrent)
			if err != nil {
				return fmt.Errorf("failed to read current fields: %w", err)
			}
			if err := json.Unmarshal(data, &state.Fields); err != nil {
				return fmt.Errorf("failed to decode current fields: %w", err)
			}
		}

		conflicts := autofill.Conflicts(state.Fields, draft)
		controller.SetDraft(state, draft)
		regenerated, err := controller.ResolveAutofill(state, policy)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return outputJSON(out, map[string]any{
				"fields":      state.Fields,
				"conflicts":   conflicts,
				"regenerated": regenerated,
				"steps":       state.Plan.Steps,
			})
		}

		PrintSection(out, "Merged fields ("+string(policy)+")")
		PrintLabelValue(out, "Use case", state.Fields.UseCaseName)
		PrintLabelValue(out, "Business unit", state.Fields.BusinessUnit)
		PrintLabelValue(out, "Language", state.Fields.CodingLanguage)
		PrintLabelValue(out, "IDE", state.Fields.IDE)
		PrintLabelValue(out, "Tools", strings.Join(state.Fields.Tools, ", "))
		if len(conflicts) > 0 {
			PrintWarning(out, "Conflicting fields: "+strings.Join(conflicts, ", "))
		}
		if regenerated {
			PrintSection(out, "Regenerated plan")
			PrintNumberedList(out, stepTitles(state.Plan.Steps), 1)
		}
		return nil
	},
}

func policyNames() string {
	names := make([]string, len(autofill.Policies))
	for i, p := range autofill.Policies {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}

func init() {
	mergeCmd.Flags().StringVar(&mergeCurrent, "current", "", "JSON file with the current fields")
	mergeCmd.Flags().StringVar(&mergePolicy, "policy", string(autofill.PolicyKeepBoth), "Merge policy")
}
