// Package main is the entry point for the basket-deal-tracker server.
package main

import (
	"os"

	"github.com/marcofalcone/basket-deal-tracker/cmd/basket-deal-tracker/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
