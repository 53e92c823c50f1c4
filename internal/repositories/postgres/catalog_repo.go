package postgres

import (
	"context"
	"errors"

	"github.com/hirelytics/hirelytics/internal/models"
	"github.com/hirelytics/hirelytics/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CatalogRepository reads the seed job catalog. Only the admin CLI and the
// startup seeder write to it.
type CatalogRepository interface {
	List(ctx context.Context) ([]models.AvailableJob, error)
	Get(ctx context.Context, id int) (*models.AvailableJob, error)
	Count(ctx context.Context) (int64, error)
	UpsertAll(ctx context.Context, jobs []models.AvailableJob) error
}

type catalogRepo struct {
	db *gorm.DB
}

func NewCatalogRepo(db *gorm.DB) CatalogRepository {
	return &catalogRepo{db: db}
}

func (r *catalogRepo) List(ctx context.Context) ([]models.AvailableJob, error) {
	var rows []models.AvailableJob
	err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error
	return rows, err
}

func (r *catalogRepo) Get(ctx context.Context, id int) (*models.AvailableJob, error) {
	var j models.AvailableJob
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&j).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &j, err
}

func (r *catalogRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.AvailableJob{}).Count(&n).Error
	return n, err
}

func (r *catalogRepo) UpsertAll(ctx context.Context, jobs []models.AvailableJob) error {
	if len(jobs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "company", "location", "type", "posted_date", "salary", "description", "requirements", "status", "apply_link"}),
		}).
		Create(&jobs).Error
}
