// Package main is the entry point for the launcher CLI.
package main

import (
	"os"

	"github.com/runger/launcher/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
