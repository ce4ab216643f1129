package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"news-herald/internal/ai"
	"news-herald/internal/config"
	"news-herald/internal/prompt"
	"news-herald/internal/publish"
	"news-herald/internal/redisclient"
	"news-herald/internal/runlock"
	"news-herald/internal/storage"
	"news-herald/worker"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

const postLockKey = "news-herald:lock:post"

var postDryRun bool

var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Summarize the oldest unpublished item and publish it",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if postDryRun {
			cfg.Publish.DryRun = true
		}
		if err := cfg.ValidatePublish(); err != nil {
			return err
		}
		db, err := openDB(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		var rdb *redis.Client
		if cfg.Redis.Enabled {
			rdb = redisclient.New(cfg.Redis)
			defer rdb.Close()
		}
		pub, err := newPublisher(cfg, db, rdb)
		if err != nil {
			return err
		}

		res, err := pub.RunCycle(cmd.Context())
		if worker.IsLockHeld(err) {
			fmt.Fprintln(cmd.OutOrStdout(), "Another publish cycle is running; nothing done")
			return err
		}
		if err != nil {
			return fmt.Errorf("publish cycle ended in state %s: %w", res.State, err)
		}
		if res.IsNothingToDo() {
			fmt.Fprintln(cmd.OutOrStdout(), "No unpublished items")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Published item %d (%s) as %s\n\n%s\n", res.Item.ID, res.Item.Title, res.RemoteID, res.Text)
		return nil
	},
}

// newPublisher wires the generator, poster, prompt and optional lock from cfg.
// rdb may be nil when redis is disabled.
func newPublisher(cfg config.Config, db *storage.DB, rdb *redis.Client) (*worker.PostPublisher, error) {
	gen, err := ai.New(cfg.LLM)
	if err != nil {
		return nil, err
	}
	poster, err := publish.New(cfg.Publish)
	if err != nil {
		return nil, err
	}
	tpl, err := prompt.Load(cfg.LLM.PromptFile)
	if err != nil {
		return nil, err
	}
	p := &worker.PostPublisher{
		Items:       storage.NewItemStore(db),
		Ledger:      storage.NewLedger(db),
		Generator:   gen,
		Poster:      poster,
		Prompt:      tpl,
		Temperature: cfg.LLM.SamplingTemperature(),
		MaxLength:   cfg.Publish.MaxLength,
		AppendLink:  cfg.Publish.ShouldAppendLink(),
		Lock:        runlock.Noop{},
	}
	if rdb != nil {
		ttl := config.Duration(cfg.Redis.LockTTL, 10*time.Minute)
		p.Lock = runlock.NewRedis(rdb, postLockKey, ttl)
		slog.Debug("post: using redis run lock", "key", postLockKey, "ttl", ttl)
	}
	return p, nil
}

func init() {
	postCmd.Flags().BoolVar(&postDryRun, "dry-run", false, "log the post instead of publishing it (still recorded)")
	postCmd.Flags().BoolVar(&postDryRun, "debug", false, "alias for --dry-run")
	_ = postCmd.Flags().MarkHidden("debug")
	rootCmd.AddCommand(postCmd)
}
