package cmd

import (
	"fmt"

	"news-herald/internal/admin"

	"github.com/spf13/cobra"
)

var cleanupTable string

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove every row from a table, or from both when --table is omitted",
	RunE: func(cmd *cobra.Command, args []string) error {
		var tables []admin.Table
		if cleanupTable != "" {
			t, err := admin.ParseTable(cleanupTable)
			if err != nil {
				return err
			}
			tables = append(tables, t)
		}
		db, err := openDB(GetConfig())
		if err != nil {
			return err
		}
		defer db.Close()

		removed, err := admin.New(db).Cleanup(cmd.Context(), tables...)
		for _, t := range admin.AllTables {
			if n, ok := removed[t]; ok {
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s: %d rows removed\n", t, n)
			}
		}
		return err
	},
}

func init() {
	cleanupCmd.Flags().StringVar(&cleanupTable, "table", "", "table to clear: articles or posts (default both)")
	rootCmd.AddCommand(cleanupCmd)
}
