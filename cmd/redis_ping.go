package cmd

import (
	"context"
	"fmt"
	"time"

	"news-herald/internal/redisclient"

	"github.com/spf13/cobra"
)

// pingCmd pings the configured Redis server used for the run lock.
var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Ping Redis and print PONG",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		rdb := redisclient.New(cfg.Redis)
		defer rdb.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Second)
		defer cancel()

		rtt, err := redisclient.Ping(ctx, rdb)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "PONG (%s)\n", rtt.Round(time.Microsecond))
		return nil
	},
}

func init() {
	redisCmd.AddCommand(pingCmd)
}
