// Command geoingest runs the S1-S4 ingest pipeline against a search backend
// reachable over its Elasticsearch-compatible HTTP surface (§4.5, §6).
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// Title is the program title, printed in --help output following the
// teacher CLI's convention.
const Title = "geoingest"

// rootCmd is the root command for the application.
var rootCmd = &cobra.Command{
	Use:   Title,
	Short: Title + ": OpenStreetMap extract to search-index ingest pipeline",
}

func main() {
	rootCmd.InitDefaultHelpCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCodeFor(err))
	}
}
