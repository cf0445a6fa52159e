package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/store"
)

var submissionsLimit int

var submissionsCmd = &cobra.Command{
	Use:   "submissions",
	Short: "List stored submissions, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		st, err := store.Open(cfg.Memory.Path)
		if err != nil {
			return err
		}
		defer st.Close()

		records, err := st.Submissions().List(cmd.Context(), submissionsLimit)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if jsonOutput {
			return outputJSON(out, records)
		}
		if len(records) == 0 {
			PrintEmptyState(out, "No submissions yet")
			return nil
		}
		rows := make([][]string, len(records))
		for i, r := range records {
			rows[i] = []string{
				fmt.Sprint(r.ID),
				r.SubmittedAt.Local().Format("2006-01-02 15:04"),
				r.UseCaseName,
				PrintCount(len(r.Bundle.Plan), "step", "steps"),
			}
		}
		PrintTable(out, []string{"ID", "SUBMITTED", "USE CASE", "PLAN"}, rows)
		return nil
	},
}

func init() {
	submissionsCmd.Flags().IntVarP(&submissionsLimit, "limit", "n", 20, "Maximum number of submissions")
}
