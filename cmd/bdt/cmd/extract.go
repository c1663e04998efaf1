package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func extractCmd() *cobra.Command {
	var markupFile string

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract offers from listing page markup",
		Long: "Parse saved listing page HTML server-side and print the offers it\n" +
			"contains, without storing anything. Useful for checking markup before\n" +
			"adding an item.",
		Example: `  bdt extract --markup-file page.html
  cat page.html | bdt extract`,
		RunE: func(_ *cobra.Command, _ []string) error {
			markup, err := readMarkup(markupFile)
			if err != nil {
				return err
			}
			c := newClient()
			resp, err := c.Extract(context.Background(), markup)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(resp)
			}
			if resp.Name != "" {
				fmt.Println("Item:", resp.Name)
			}
			if resp.Total == 0 {
				fmt.Println("No offers found.")
				return nil
			}
			return printExtractedDeals(resp.Deals)
		},
	}
	cmd.Flags().StringVar(&markupFile, "markup-file", "-", "listing page HTML file (- for stdin)")

	return cmd
}
