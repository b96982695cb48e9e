package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "microflow",
	Short: "Turn a supplier quote PDF into a client quote PDF",
	Long: `microflow runs the full quote workflow from the command line:
extract the supplier PDF text, structure it with the configured LLM,
apply your margin and labor line, and render the client PDF.

Usage:
  microflow process <input.pdf> [flags]`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
