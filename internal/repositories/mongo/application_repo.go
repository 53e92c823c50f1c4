package mongo

import (
	"context"
	"errors"

	"github.com/hirelytics/hirelytics/internal/models"
	"github.com/hirelytics/hirelytics/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ApplicationRepository stores every user's applications in one collection
// keyed by (user_id, id).
type ApplicationRepository interface {
	List(ctx context.Context, userID string) ([]models.JobApplication, error)
	Get(ctx context.Context, userID, id string) (*models.JobApplication, error)
	// InsertIfAbsent reports false, without writing, when the id exists.
	InsertIfAbsent(ctx context.Context, a *models.JobApplication) (bool, error)
	Update(ctx context.Context, userID, id string, set bson.M) error
	// UpdateIfStatus applies set only while the stored status is still from.
	// It returns utils.ErrConflict when the status has moved on.
	UpdateIfStatus(ctx context.Context, userID, id string, from models.ApplicationStatus, set bson.M) error
	ListByRecruiter(ctx context.Context, recruiterID string) ([]models.JobApplication, error)
}

type applicationRepo struct {
	col *mongo.Collection
}

func NewApplicationRepo(db *mongo.Database) ApplicationRepository {
	return &applicationRepo{col: db.Collection("applications")}
}

func (r *applicationRepo) List(ctx context.Context, userID string) ([]models.JobApplication, error) {
	return r.find(ctx, bson.M{"user_id": userID})
}

func (r *applicationRepo) ListByRecruiter(ctx context.Context, recruiterID string) ([]models.JobApplication, error) {
	return r.find(ctx, bson.M{"recruiter_id": recruiterID})
}

func (r *applicationRepo) find(ctx context.Context, filter bson.M) ([]models.JobApplication, error) {
	opts := options.Find().SetSort(bson.D{{Key: "application_date", Value: -1}, {Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.JobApplication{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *applicationRepo) Get(ctx context.Context, userID, id string) (*models.JobApplication, error) {
	var a models.JobApplication
	err := r.col.FindOne(ctx, bson.M{"user_id": userID, "id": id}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *applicationRepo) InsertIfAbsent(ctx context.Context, a *models.JobApplication) (bool, error) {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"user_id": a.UserID, "id": a.ID},
		bson.M{"$setOnInsert": a},
		options.Update().SetUpsert(true),
	)
	if mongo.IsDuplicateKeyError(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return res.UpsertedCount > 0, nil
}

func (r *applicationRepo) UpdateIfStatus(ctx context.Context, userID, id string, from models.ApplicationStatus, set bson.M) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"user_id": userID, "id": id, "status": from},
		bson.M{"$set": set},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return utils.ErrConflict
	}
	return nil
}

func (r *applicationRepo) Update(ctx context.Context, userID, id string, set bson.M) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"user_id": userID, "id": id},
		bson.M{"$set": set},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return utils.ErrNotFound
	}
	return nil
}
