package mongo

import (
	"context"
	"errors"

	"github.com/hirelytics/hirelytics/internal/models"
	"github.com/hirelytics/hirelytics/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type JobRepository interface {
	Create(ctx context.Context, j *models.JobPosting) (string, error)
	Get(ctx context.Context, id string) (*models.JobPosting, error)
	ListByRecruiter(ctx context.Context, recruiterID string) ([]models.JobPosting, error)
	LatestBySource(ctx context.Context, source string, limit int64) ([]models.JobPosting, error)
}

type jobRepo struct {
	col *mongo.Collection
}

func NewJobRepo(db *mongo.Database) JobRepository {
	return &jobRepo{col: db.Collection("jobs")}
}

func (r *jobRepo) Create(ctx context.Context, j *models.JobPosting) (string, error) {
	if j.ID.IsZero() {
		j.ID = primitive.NewObjectID()
	}
	if _, err := r.col.InsertOne(ctx, j); err != nil {
		return "", err
	}
	return j.ID.Hex(), nil
}

func (r *jobRepo) Get(ctx context.Context, id string) (*models.JobPosting, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, utils.ErrNotFound
	}
	var j models.JobPosting
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&j)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *jobRepo) ListByRecruiter(ctx context.Context, recruiterID string) ([]models.JobPosting, error) {
	return r.find(ctx, bson.M{"recruiter_id": recruiterID}, 0)
}

func (r *jobRepo) LatestBySource(ctx context.Context, source string, limit int64) ([]models.JobPosting, error) {
	return r.find(ctx, bson.M{"job_source": source}, limit)
}

func (r *jobRepo) find(ctx context.Context, filter bson.M, limit int64) ([]models.JobPosting, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.JobPosting{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
