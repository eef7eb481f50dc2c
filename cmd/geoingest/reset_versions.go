package main

import (
	"github.com/spf13/cobra"

	"github.com/location-microservice/geoingest/internal/indexer"
	"github.com/location-microservice/geoingest/internal/search"
)

var resetVersionsCmd = &cobra.Command{
	Use:   "reset-versions",
	Short: "Delete the version auxiliary index",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadRuntime()
		if err != nil {
			return exitError{code: 2, err: err}
		}
		defer log.Sync()

		backend := search.NewHTTPBackend(cfg.ElasticsearchURL, cfg.RequestTimeout, log)
		refresher := indexer.NewRefresher(backend, log)
		if err := refresher.ResetAll(cmd.Context()); err != nil {
			return exitError{code: 1, err: err}
		}
		log.Info("version auxiliary index reset")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resetVersionsCmd)
}
