package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/hirelytics/hirelytics/internal/models"
	"github.com/hirelytics/hirelytics/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepository interface {
	Get(ctx context.Context, uid string) (*models.UserRecord, error)
	// CreateWithRole upserts the record with role. An existing record holding
	// a different role is left alone and ErrConflict is returned.
	CreateWithRole(ctx context.Context, uid string, role models.Role, identityProviderID string, now time.Time) error
	SetProfile(ctx context.Context, uid string, p models.UserProfile, complete bool, now time.Time) error
	SetRecruiterProfile(ctx context.Context, uid string, p models.RecruiterProfile, complete bool, now time.Time) error
	ListRecruiters(ctx context.Context) ([]models.RecruiterInfo, error)
}

type userRepo struct {
	col *mongo.Collection
}

func NewUserRepo(db *mongo.Database) UserRepository {
	return &userRepo{col: db.Collection("users")}
}

func (r *userRepo) Get(ctx context.Context, uid string) (*models.UserRecord, error) {
	var u models.UserRecord
	err := r.col.FindOne(ctx, bson.M{"_id": uid}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) CreateWithRole(ctx context.Context, uid string, role models.Role, identityProviderID string, now time.Time) error {
	filter := bson.M{
		"_id": uid,
		"$or": bson.A{
			bson.M{"role": bson.M{"$exists": false}},
			bson.M{"role": ""},
			bson.M{"role": role},
		},
	}
	set := bson.M{"role": role, "updated_at": now}
	if identityProviderID != "" {
		set["identity_provider_user_id"] = identityProviderID
	}
	update := bson.M{
		"$set": set,
		"$setOnInsert": bson.M{
			"created_at":                  now,
			"applicant_profile_completed": false,
			"recruiter_profile_completed": false,
		},
	}

	_, err := r.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	// the filter misses a record with another role, so the upsert collides on _id
	if mongo.IsDuplicateKeyError(err) {
		return utils.ErrConflict
	}
	return err
}

func (r *userRepo) SetProfile(ctx context.Context, uid string, p models.UserProfile, complete bool, now time.Time) error {
	return r.merge(ctx, uid, bson.M{
		"profile":                     p,
		"applicant_profile_completed": complete,
		"updated_at":                  now,
	}, now)
}

func (r *userRepo) SetRecruiterProfile(ctx context.Context, uid string, p models.RecruiterProfile, complete bool, now time.Time) error {
	return r.merge(ctx, uid, bson.M{
		"recruiter_profile":           p,
		"recruiter_profile_completed": complete,
		"updated_at":                  now,
	}, now)
}

func (r *userRepo) merge(ctx context.Context, uid string, set bson.M, now time.Time) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": uid},
		bson.M{"$set": set, "$setOnInsert": bson.M{"created_at": now}},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *userRepo) ListRecruiters(ctx context.Context) ([]models.RecruiterInfo, error) {
	cur, err := r.col.Find(ctx,
		bson.M{"recruiter_profile": bson.M{"$exists": true, "$ne": nil}},
		options.Find().SetProjection(bson.M{"_id": 1, "recruiter_profile": 1}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.RecruiterInfo{}
	for cur.Next(ctx) {
		var u models.UserRecord
		if err := cur.Decode(&u); err != nil {
			return nil, err
		}
		if u.RecruiterProfile == nil {
			continue
		}
		out = append(out, models.RecruiterInfo{UID: u.UID, Profile: *u.RecruiterProfile})
	}
	return out, cur.Err()
}
