// Package cmd implements the CLI commands for the basket-deal-tracker server.
package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "basket-deal-tracker",
	Short: "Find the cheapest way to buy a basket of products",
	Long:  "An API-first service that tracks price-comparison offers for a basket of products, computes the best per-item deals and the best single-seller bundle, and picks the cheapest overall purchase strategy.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
