package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/hirelytics/hirelytics/config"
	"github.com/hirelytics/hirelytics/internal/api/handlers"
	"github.com/hirelytics/hirelytics/internal/api/middleware"
	"github.com/hirelytics/hirelytics/internal/api/routes"
	"github.com/hirelytics/hirelytics/internal/autofill"
	"github.com/hirelytics/hirelytics/internal/cache"
	"github.com/hirelytics/hirelytics/internal/identity"
	"github.com/hirelytics/hirelytics/internal/live"
	"github.com/hirelytics/hirelytics/internal/logger"
	"github.com/hirelytics/hirelytics/internal/recruiters"
	mongorepo "github.com/hirelytics/hirelytics/internal/repositories/mongo"
	pgrepo "github.com/hirelytics/hirelytics/internal/repositories/postgres"
	"github.com/hirelytics/hirelytics/internal/services"
	"github.com/hirelytics/hirelytics/internal/storage"
	"github.com/hirelytics/hirelytics/internal/validation"
	"github.com/hirelytics/hirelytics/internal/workers"
)

func main() {
	_ = godotenv.Load()

	log := logger.New()
	settings := config.LoadSettings()
	if err := settings.Validate(); err != nil {
		log.WithError(err).Warn("incomplete configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Init MongoDB
	if err := config.InitMongo(); err != nil {
		log.WithError(err).Fatal("MongoDB init error")
	}
	if err := config.EnsureMongoIndexes(); err != nil {
		log.WithError(err).Fatal("MongoDB index error")
	}
	log.Info("MongoDB connected")

	// Init PostgreSQL
	if err := config.InitPostgres(); err != nil {
		log.WithError(err).Fatal("PostgreSQL init error")
	}
	if err := config.MigratePostgres(); err != nil {
		log.WithError(err).Fatal("PostgreSQL migrate error")
	}
	log.Info("PostgreSQL connected")

	// Init Redis
	if err := config.InitRedis(); err != nil {
		log.WithError(err).Fatal("Redis init error")
	}
	log.Info("Redis connected")

	mdb, err := config.MongoDatabase()
	if err != nil {
		log.WithError(err).Fatal("MongoDB database error")
	}

	// Repositories
	users := mongorepo.NewUserRepo(mdb)
	apps := mongorepo.NewApplicationRepo(mdb)
	jobs := mongorepo.NewJobRepo(mdb)
	catalogRepo := pgrepo.NewCatalogRepo(config.PostgresDB)
	events := pgrepo.NewEventRepo(config.PostgresDB)

	// Shared infrastructure
	redisCache := cache.NewRedisCache(config.RedisClient, "hirelytics:")
	recruiterCache := recruiters.NewCache(users, settings.RecruiterCacheTTL, log)
	notifier := live.NewRedisNotifier(config.RedisClient)
	v := validation.New()
	inflight := services.NewInflight()

	var meta identity.MetadataWriter = identity.NopMetadataWriter{}
	if settings.Identity.SecretKey != "" {
		meta = identity.NewClerkMetadataClient(settings.Identity.APIURL, settings.Identity.SecretKey)
	}

	var uploader storage.Uploader = storage.DataURLUploader{}
	if settings.GCSBucket != "" {
		gcsUp, err := storage.NewGCSUploader(ctx, settings.GCSBucket)
		if err != nil {
			log.WithError(err).Fatal("GCS init error")
		}
		defer gcsUp.Close()
		uploader = gcsUp
	}

	var minter handlers.TokenMinter
	if m, err := identity.NewCustomTokenMinter(settings.FirebaseAdmin.ClientEmail, settings.FirebaseAdmin.PrivateKey); err != nil {
		log.WithError(err).Warn("custom tokens disabled")
	} else {
		minter = m
	}

	// Services
	roleSvc := services.NewRoleService(users, redisCache, settings.RoleCacheTTL, meta, log)
	profileSvc := services.NewProfileService(users, v, uploader, recruiterCache, inflight)
	catalogSvc := services.NewCatalogService(catalogRepo, apps, recruiterCache, redisCache, time.Hour)
	appSvc := services.NewApplicationService(apps, events, catalogSvc, notifier, v, inflight, log)
	jobSvc := services.NewJobService(jobs, v, inflight)
	shellSvc := services.NewShellService(roleSvc, profileSvc)

	if n, err := catalogSvc.Seed(ctx, true); err != nil {
		log.WithError(err).Error("catalog seed failed")
	} else if n > 0 {
		log.WithField("jobs", n).Info("catalog seeded")
	}

	// Workers
	pool := &workers.EventWorkerPool{
		Redis:      config.RedisClient,
		Events:     events,
		NumWorkers: settings.EventWorkers,
		Logger:     log,
	}
	if err := pool.Start(ctx); err != nil {
		log.WithError(err).Fatal("event workers")
	}

	// HTTP
	r := gin.New()
	r.MaxMultipartMemory = 16 << 20
	r.Use(gin.Recovery(), middleware.RequestLogger(log))

	routes.RegisterRoutes(r, routes.Deps{
		Verifier:    identity.NewVerifier(settings.Identity.JWTSecret, settings.Identity.JWTIssuer, settings.Identity.JWTAudience),
		Roles:       roleSvc,
		Logger:      log,
		User:        handlers.NewUserHandler(roleSvc, minter),
		Shell:       handlers.NewShellHandler(shellSvc, roleSvc, settings.FirebaseClient),
		Profile:     handlers.NewProfileHandler(profileSvc, roleSvc),
		Application: handlers.NewApplicationHandler(appSvc, catalogSvc, autofill.New(nil, log)),
		Job:         handlers.NewJobHandler(jobSvc),
		WS:          handlers.NewWSHandler(appSvc, live.NewRedisSubscriber(config.RedisClient), log, settings.AllowedOrigins),
	})

	srv := &http.Server{
		Addr:              ":" + settings.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", settings.Port).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	<-ctx.Done()
	shutdown(log, srv)
}

func shutdown(log *logrus.Logger, srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("http shutdown")
	}
	if err := config.CloseMongo(ctx); err != nil {
		log.WithError(err).Error("mongo close")
	}
	if config.RedisClient != nil {
		_ = config.RedisClient.Close()
	}
	if sqlDB, err := config.PostgresDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("stopped")
}
