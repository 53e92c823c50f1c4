package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/hirelytics/hirelytics/config"
	"github.com/hirelytics/hirelytics/internal/cache"
	"github.com/hirelytics/hirelytics/internal/logger"
	"github.com/hirelytics/hirelytics/internal/models"
	"github.com/hirelytics/hirelytics/internal/recruiters"
	mongorepo "github.com/hirelytics/hirelytics/internal/repositories/mongo"
	pgrepo "github.com/hirelytics/hirelytics/internal/repositories/postgres"
	"github.com/hirelytics/hirelytics/internal/services"
	"github.com/spf13/cobra"
)

var recruitersCmd = &cobra.Command{
	Use:   "recruiters",
	Short: "Inspect the recruiter directory",
}

var recruitersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users with a recruiter profile",
	RunE:  runRecruitersList,
}

var recruitersAssignCmd = &cobra.Command{
	Use:   "assign",
	Short: "Print which recruiter each catalog job is assigned to",
	RunE:  runRecruitersAssign,
}

func init() {
	recruitersCmd.AddCommand(recruitersListCmd, recruitersAssignCmd)
	rootCmd.AddCommand(recruitersCmd)
}

func userRepo() (mongorepo.UserRepository, error) {
	if err := config.InitMongo(); err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	db, err := config.MongoDatabase()
	if err != nil {
		return nil, err
	}
	return mongorepo.NewUserRepo(db), nil
}

func runRecruitersList(cmd *cobra.Command, _ []string) error {
	users, err := userRepo()
	if err != nil {
		return err
	}
	defer func() { _ = config.CloseMongo(cmd.Context()) }()

	list, err := users.ListRecruiters(cmd.Context())
	if err != nil {
		return err
	}
	return writeRecruiters(cmd.OutOrStdout(), list)
}

func runRecruitersAssign(cmd *cobra.Command, _ []string) error {
	users, err := userRepo()
	if err != nil {
		return err
	}
	defer func() { _ = config.CloseMongo(cmd.Context()) }()
	if err := config.InitPostgres(); err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	dir := recruiters.NewCache(users, 0, logger.New())
	catalog := services.NewCatalogService(pgrepo.NewCatalogRepo(config.PostgresDB), nil, dir, cache.Nop{}, 0)
	jobs, err := catalog.Assignments(cmd.Context())
	if err != nil {
		return err
	}
	return writeAssignments(cmd.OutOrStdout(), jobs)
}

func writeRecruiters(w io.Writer, list []models.RecruiterInfo) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "UID\tCOMPANY\tEMAIL")
	for _, r := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.UID, r.Profile.CompanyName, r.Profile.RecruiterEmail)
	}
	return tw.Flush()
}

func writeAssignments(w io.Writer, jobs []models.AvailableJob) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "JOB\tTITLE\tCOMPANY\tRECRUITER")
	for _, j := range jobs {
		rid := j.RecruiterID
		if rid == "" {
			rid = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", j.ID, j.Title, j.Company, rid)
	}
	return tw.Flush()
}
