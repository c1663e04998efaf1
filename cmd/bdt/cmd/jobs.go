package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func jobsCmd() *cobra.Command {
	var (
		jobName  string
		jobLimit int
	)

	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "View refresh job history",
		Long: "View the execution history of the scheduled basket refresh. Each run\n" +
			"records status, item count, and any error.",
		Example: `  bdt jobs
  bdt jobs --limit 5 --output json`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			runs, err := c.ListJobs(context.Background(), jobName, jobLimit)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(runs)
			}
			if len(runs) == 0 {
				fmt.Println("No job runs found.")
				return nil
			}
			return printJobRunsTable(runs)
		},
	}
	cmd.Flags().StringVar(&jobName, "name", "", "job name (default: refresh_basket)")
	cmd.Flags().IntVar(&jobLimit, "limit", 20, "maximum runs to show")

	return cmd
}
