// Package main provides the entry point for the labsite CLI.
package main

import (
	"os"

	"github.com/digital-finance/labsite/cmd/labsite/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
