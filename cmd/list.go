package cmd

import (
	"news-herald/internal/admin"

	"github.com/spf13/cobra"
)

var (
	listTable  string
	listOutput string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List rows of the articles or posts table",
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := admin.ParseTable(listTable)
		if err != nil {
			return err
		}
		db, err := openDB(GetConfig())
		if err != nil {
			return err
		}
		defer db.Close()

		l, err := admin.New(db).List(cmd.Context(), table)
		if err != nil {
			return err
		}
		return l.Write(cmd.OutOrStdout(), listOutput)
	},
}

func init() {
	listCmd.Flags().StringVar(&listTable, "table", string(admin.Articles), "table to list: articles or posts")
	listCmd.Flags().StringVarP(&listOutput, "output", "o", admin.FormatTable, "output format: table, json or yaml")
	rootCmd.AddCommand(listCmd)
}
