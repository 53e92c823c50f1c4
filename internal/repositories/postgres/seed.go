package postgres

import (
	_ "embed"
	"fmt"

	"github.com/hirelytics/hirelytics/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed seed/available_jobs.yaml
var seedCatalog []byte

// SeedCatalog returns the built-in job catalog.
func SeedCatalog() ([]models.AvailableJob, error) {
	var jobs []models.AvailableJob
	if err := yaml.Unmarshal(seedCatalog, &jobs); err != nil {
		return nil, fmt.Errorf("decode seed catalog: %w", err)
	}
	return jobs, nil
}
