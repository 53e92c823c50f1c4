package main

import (
	"fmt"

	"github.com/hirelytics/hirelytics/config"
	"github.com/hirelytics/hirelytics/internal/cache"
	pgrepo "github.com/hirelytics/hirelytics/internal/repositories/postgres"
	"github.com/hirelytics/hirelytics/internal/services"
	"github.com/spf13/cobra"
)

var seedJobsCmd = &cobra.Command{
	Use:   "seed-jobs",
	Short: "Upsert the built-in available jobs catalog into PostgreSQL",
	RunE:  runSeedJobs,
}

var seedJobsIfEmpty bool

func init() {
	seedJobsCmd.Flags().BoolVar(&seedJobsIfEmpty, "if-empty", false, "Only seed when the catalog table is empty")
	rootCmd.AddCommand(seedJobsCmd)
}

func runSeedJobs(cmd *cobra.Command, _ []string) error {
	if err := config.InitPostgres(); err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	if err := config.MigratePostgres(); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}

	// the cache is skipped here; the server drops its copy on the next seed or TTL
	catalog := services.NewCatalogService(pgrepo.NewCatalogRepo(config.PostgresDB), nil, nil, cache.Nop{}, 0)
	n, err := catalog.Seed(cmd.Context(), seedJobsIfEmpty)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "seeded %d jobs\n", n)
	return nil
}
