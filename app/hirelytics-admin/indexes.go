package main

import (
	"fmt"

	"github.com/hirelytics/hirelytics/config"
	"github.com/spf13/cobra"
)

var ensureIndexesCmd = &cobra.Command{
	Use:   "ensure-indexes",
	Short: "Create the MongoDB indexes the server relies on",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := config.InitMongo(); err != nil {
			return fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		defer func() { _ = config.CloseMongo(cmd.Context()) }()

		if err := config.EnsureMongoIndexes(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "indexes ok")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ensureIndexesCmd)
}
