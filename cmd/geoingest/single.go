package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/location-microservice/geoingest/internal/pipeline"
)

var singleOpts pipeline.RunConfig
var esURLOverride string

var singleCmd = &cobra.Command{
	Use:   "single",
	Short: "Import one OSM PBF extract",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if singleOpts.File == "" {
			return flagError("file", singleOpts.File, "is required")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadRuntime()
		if err != nil {
			return exitError{code: 2, err: err}
		}
		defer log.Sync()

		if esURLOverride != "" {
			cfg.ElasticsearchURL = esURLOverride
		}

		rt, err := newRuntime(cmd.Context(), cfg, log)
		if err != nil {
			return exitError{code: 2, err: err}
		}
		defer rt.Close()

		summary, err := rt.runner.Run(cmd.Context(), singleOpts)
		logRunSummary(log, summary)
		if err != nil {
			return exitError{code: 1, err: err}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(singleCmd)

	flags := &pflag.FlagSet{}
	flags.StringVar(&singleOpts.File, "file", "", "path to the OSM PBF extract to ingest")
	flags.StringVar(&singleOpts.AdminFile, "admin-file", "", "optional separate PBF extract S1 reads admin boundaries from")
	flags.StringVar(&singleOpts.ImportanceFile, "importance-file", "", "optional wikidata_id,score CSV")
	flags.BoolVar(&singleOpts.Wikidata, "wikidata", false, "fetch multilingual labels for entities carrying a wikidata tag")
	flags.BoolVar(&singleOpts.CreateIndex, "create-index", false, "recreate the places index from schema before ingest")
	flags.BoolVar(&singleOpts.Refresh, "refresh", false, "run the versioned refresh protocol, purging stale documents on success")
	flags.BoolVar(&singleOpts.MergeRoads, "merge-roads", false, "merge eligible highway ways into multi-segment road places (S2)")
	flags.StringVar(&esURLOverride, "es-url", "", "override ELASTICSEARCH_URL for this run")
	flags.StringVar(&singleOpts.WebhookURL, "webhook-url", "", "POST the run summary to this URL on completion")
	flags.VisitAll(func(f *pflag.Flag) { singleCmd.Flags().Var(f.Value, f.Name, f.Usage) })
}
