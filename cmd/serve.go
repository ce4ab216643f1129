package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"news-herald/internal/redisclient"
	"news-herald/internal/storage"
	"news-herald/internal/web"
	"news-herald/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

var serveNoSchedule bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the web view and run fetch/post on their schedules",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		db, err := openDB(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		if slog.Default().Enabled(context.Background(), slog.LevelDebug) {
			gin.SetMode(gin.DebugMode)
		} else {
			gin.SetMode(gin.ReleaseMode)
		}
		h := web.NewHandler(storage.NewItemStore(db), storage.NewLedger(db))
		ws := []worker.Worker{web.NewServer(cfg.Server.Addr, h)}

		if !serveNoSchedule {
			var jobs []worker.Job
			if err := cfg.ValidateIngest(); err != nil {
				slog.Warn("serve: fetch schedule disabled", "error", err)
			} else {
				collector := newCollector(cfg, db)
				jobs = append(jobs, worker.Job{Name: "fetch", Spec: cfg.Schedule.Fetch, Run: func(ctx context.Context) {
					collector.Run(ctx)
				}})
			}
			if err := cfg.ValidatePublish(); err != nil {
				slog.Warn("serve: post schedule disabled", "error", err)
			} else {
				var rdb *redis.Client
				if cfg.Redis.Enabled {
					rdb = redisclient.New(cfg.Redis)
					defer rdb.Close()
				}
				pub, err := newPublisher(cfg, db, rdb)
				if err != nil {
					return err
				}
				jobs = append(jobs, worker.Job{Name: "post", Spec: cfg.Schedule.Post, Run: func(ctx context.Context) {
					res, err := pub.RunCycle(ctx)
					if err != nil {
						slog.Error("serve: post cycle failed", "state", res.State.String(), "error", err)
					}
				}})
			}
			if len(jobs) > 0 {
				sched, err := worker.NewScheduler(jobs...)
				if err != nil {
					return fmt.Errorf("invalid schedule: %w", err)
				}
				ws = append(ws, sched)
			}
		}

		// Signal handling for systemd
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return worker.NewManager(ws...).Start(ctx)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveNoSchedule, "no-schedule", false, "only serve the web view")
	rootCmd.AddCommand(serveCmd)
}
