package cmd

import "github.com/spf13/cobra"

// redisCmd groups Redis-related subcommands.
var redisCmd = &cobra.Command{
	Use:   "redis",
	Short: "Inspect the Redis server backing the publish run lock",
	Long: "Redis is optional. With redis.enabled set, post and the serve schedule take a\n" +
		"SET NX lock (key " + postLockKey + ", ttl redis.lock_ttl) so only one publish\n" +
		"cycle runs at a time across processes.",
}

func init() {
	rootCmd.AddCommand(redisCmd)
}
