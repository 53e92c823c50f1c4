package config

import (
	"context"
	"errors"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDatabase returns the application database on the initialized client.
func MongoDatabase() (*mongo.Database, error) {
	if MongoClient == nil {
		return nil, errors.New("MongoClient is nil; call InitMongo() first")
	}
	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "hirelytics"
	}
	return MongoClient.Database(dbName), nil
}

func EnsureMongoIndexes() error {
	db, err := MongoDatabase()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// applications: one document per (user, application id)
	applications := db.Collection("applications")
	_, err = applications.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "id", Value: 1}},
			Options: options.Index().
				SetName("uniq_user_application").
				SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "application_date", Value: -1}},
			Options: options.Index().SetName("by_user_date"),
		},
		{
			Keys: bson.D{{Key: "recruiter_id", Value: 1}},
			Options: options.Index().
				SetName("by_recruiter").
				SetSparse(true),
		},
	})
	if err != nil {
		return err
	}

	jobs := db.Collection("jobs")
	_, err = jobs.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "job_source", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("by_source_created"),
		},
		{
			Keys:    bson.D{{Key: "recruiter_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("by_recruiter_created"),
		},
	})
	if err != nil {
		return err
	}

	users := db.Collection("users")
	_, err = users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "recruiter_profile", Value: 1}},
		Options: options.Index().
			SetName("has_recruiter_profile").
			SetSparse(true),
	})
	return err
}
