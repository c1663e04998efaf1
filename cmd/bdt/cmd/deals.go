package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func dealsCmd() *cobra.Command {
	dealsRoot := &cobra.Command{
		Use:   "deals",
		Short: "Compute and inspect deals",
		Long: "Compute the best per-item deals, the best single-seller bundle, and\n" +
			"the cheapest overall purchase strategy for the current basket.",
	}

	dealsRoot.AddCommand(
		dealsFindCmd(),
		dealsGetCmd(),
	)

	return dealsRoot
}

func dealsFindCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "find",
		Short: "Compute deals for the current basket",
		Example: `  bdt deals find
  bdt deals find --output json`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			results, err := c.FindDeals(context.Background())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(results)
			}
			return printResults(results)
		},
	}
}

func dealsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Show the last computed deals",
		Long: "Show the most recent deal computation. Results are cleared whenever\n" +
			"the basket changes, so a stale snapshot is never returned.",
		Example: `  bdt deals get
  bdt deals get --output json`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			resp, err := c.GetDeals(context.Background())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(resp)
			}
			if !resp.Computed {
				fmt.Println("No deals computed for the current basket. Run: bdt deals find")
				return nil
			}
			return printResults(resp.Results)
		},
	}
}
