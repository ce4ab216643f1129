package cmd

import (
	"errors"
	"fmt"

	"news-herald/internal/admin"

	"github.com/spf13/cobra"
)

var (
	deleteTable string
	deleteID    int64
)

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete one row by id from the articles or posts table",
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := admin.ParseTable(deleteTable)
		if err != nil {
			return err
		}
		if deleteID <= 0 {
			return errors.New("--id must be a positive row id")
		}
		db, err := openDB(GetConfig())
		if err != nil {
			return err
		}
		defer db.Close()

		if err := admin.New(db).Delete(cmd.Context(), table, deleteID); err != nil {
			if admin.IsNotFound(err) {
				return fmt.Errorf("no row with id %d in %s: %w", deleteID, table, err)
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted id %d from %s\n", deleteID, table)
		return nil
	},
}

func init() {
	deleteCmd.Flags().StringVar(&deleteTable, "table", "", "table: articles or posts")
	deleteCmd.Flags().Int64Var(&deleteID, "id", 0, "row id to delete")
	_ = deleteCmd.MarkFlagRequired("table")
	_ = deleteCmd.MarkFlagRequired("id")
	rootCmd.AddCommand(deleteCmd)
}
