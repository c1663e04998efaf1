// Package main is the entry point for the bdt CLI client.
package main

import (
	"github.com/marcofalcone/basket-deal-tracker/cmd/bdt/cmd"
)

func main() {
	cmd.Execute()
}
