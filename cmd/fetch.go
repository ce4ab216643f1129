package cmd

import (
	"fmt"
	"time"

	"news-herald/internal/config"
	"news-herald/internal/feed"
	"news-herald/internal/storage"
	"news-herald/worker"

	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch configured feeds and store new items",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if err := cfg.ValidateIngest(); err != nil {
			return err
		}
		db, err := openDB(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		rep := newCollector(cfg, db).Run(cmd.Context())
		fmt.Fprintf(cmd.OutOrStdout(), "Fetched %d sources, %d new items, %d failed\n",
			len(rep.Sources), rep.Inserted(), len(rep.Failed()))
		return nil
	},
}

func newCollector(cfg config.Config, db *storage.DB) *worker.FeedCollector {
	return &worker.FeedCollector{
		Source: feed.NewFetcher(config.Duration(cfg.Feeds.Timeout, 30*time.Second), cfg.Feeds.UserAgent),
		Store:  storage.NewItemStore(db),
		URLs:   cfg.Feeds.URLs,
		Limit:  cfg.Feeds.PerSourceLimit,
	}
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}
