package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/noah-isme/course-registration-api/api/swagger"
	"github.com/noah-isme/course-registration-api/internal/handler"
	"github.com/noah-isme/course-registration-api/internal/repository"
	"github.com/noah-isme/course-registration-api/internal/router"
	"github.com/noah-isme/course-registration-api/internal/service"
	"github.com/noah-isme/course-registration-api/pkg/cache"
	"github.com/noah-isme/course-registration-api/pkg/config"
	"github.com/noah-isme/course-registration-api/pkg/database"
	"github.com/noah-isme/course-registration-api/pkg/logger"
)

// @title Course Registration Helper API
// @version 1.0.0
// @description Catalog browsing, interest-based demand tracking, saved timetables and AI recommendations for course registration.
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logr.Sugar().Fatalw("invalid timezone", "timezone", cfg.Timezone, "error", err)
	}

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("database connection failed", "error", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			logr.Sugar().Fatalw("migration failed", "error", err)
		}
	}

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("redis connection failed", "error", err)
	}
	if redisClient == nil {
		logr.Info("redis disabled; catalog caching and logout revocation are off")
	}

	validate := validator.New()
	metrics := service.NewMetricsService()

	classRepo := repository.NewClassRepository(db)
	interestRepo := repository.NewInterestRepository(db)
	timetableRepo := repository.NewTimetableRepository(db)
	userRepo := repository.NewUserRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, cfg.Catalog.CachePrefix, logr)
	defer cacheRepo.Close() //nolint:errcheck
	blacklist := repository.NewTokenBlacklistRepository(redisClient)

	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Catalog.CacheTTL, logr, cacheRepo.Enabled())
	courseSvc := service.NewCourseService(classRepo, cacheSvc, cfg.Catalog.CacheTTL, logr)
	interestSvc := service.NewInterestService(interestRepo, courseSvc, metrics, logr)
	demandSvc := service.NewDemandService(classRepo, interestRepo, courseSvc, metrics, logr)
	timetableSvc := service.NewTimetableService(timetableRepo, validate, logr, service.TimetableConfig{
		ExportWeeks: cfg.Timetables.ExportWeeks,
		Location:    loc,
	})
	authSvc := service.NewAuthService(userRepo, blacklist, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	recommendSvc := service.NewRecommendationService(courseSvc, nil, validate, logr, service.RecommendationConfig{
		BaseURL: cfg.AI.BaseURL,
		Timeout: cfg.AI.Timeout,
	})

	scheduler := service.NewDemandScheduler(demandSvc, cfg.Demand.AggregateInterval, cfg.Demand.WorkerRetries, logr)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	readiness := map[string]handler.ReadinessCheck{
		"postgres": func(ctx context.Context) error { return db.PingContext(ctx) },
		"redis":    cacheRepo.Ping,
	}

	engine := router.Setup(cfg, router.Handlers{
		Course:    handler.NewCourseHandler(courseSvc, interestSvc, demandSvc),
		Auth:      handler.NewAuthHandler(authSvc),
		Timetable: handler.NewTimetableHandler(timetableSvc, loc),
		AI:        handler.NewAIHandler(recommendSvc),
		Metrics:   handler.NewMetricsHandler(metrics, readiness, logr),
	}, authSvc, metrics, logr)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "prefix", cfg.APIPrefix)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
