// Command coursectl runs operator tasks against the course registration database:
//
//	coursectl migrate
//	coursectl seed -file catalog.yaml
//	coursectl aggregate
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/course-registration-api/internal/repository"
	"github.com/noah-isme/course-registration-api/internal/service"
	"github.com/noah-isme/course-registration-api/pkg/cache"
	"github.com/noah-isme/course-registration-api/pkg/config"
	"github.com/noah-isme/course-registration-api/pkg/database"
	"github.com/noah-isme/course-registration-api/pkg/logger"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s <migrate|seed|aggregate> [flags]\n", os.Args[0])
	fmt.Fprintln(os.Stderr, "  migrate             apply pending schema migrations")
	fmt.Fprintln(os.Stderr, "  seed -file PATH     import a YAML course catalog")
	fmt.Fprintln(os.Stderr, "  aggregate           recompute enrolled counts and demand status")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

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

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("database connection failed", "error", err)
	}
	defer db.Close()

	switch os.Args[1] {
	case "migrate":
		err = runMigrate(ctx, db, logr)
	case "seed":
		err = runSeed(ctx, cfg, db, logr, os.Args[2:])
	case "aggregate":
		err = runAggregate(ctx, cfg, db, logr)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		logr.Error("command failed", zap.String("command", os.Args[1]), zap.Error(err))
		os.Exit(1)
	}
}

func runMigrate(ctx context.Context, db *sqlx.DB, logr *zap.Logger) error {
	if err := database.Migrate(ctx, db); err != nil {
		return err
	}
	version, err := database.MigrationVersion(ctx, db)
	if err != nil {
		return err
	}
	logr.Info("schema up to date", zap.Int64("version", version))
	return nil
}

func runSeed(ctx context.Context, cfg *config.Config, db *sqlx.DB, logr *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	path := fs.String("file", "catalog.yaml", "YAML catalog to import")
	if err := fs.Parse(args); err != nil {
		return err
	}

	f, err := os.Open(*path)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	entries, err := service.ParseCatalog(f)
	if err != nil {
		return err
	}

	courses, closeCache, err := catalogService(ctx, cfg, db, logr)
	if err != nil {
		return err
	}
	defer closeCache()

	result, err := service.NewCatalogService(repository.NewClassRepository(db), courses, logr).Import(ctx, entries)
	if err != nil {
		return err
	}
	logr.Info("catalog imported", zap.String("file", *path), zap.Int("classes", result.Classes), zap.Int("schedules", result.Schedules))
	return nil
}

func runAggregate(ctx context.Context, cfg *config.Config, db *sqlx.DB, logr *zap.Logger) error {
	courses, closeCache, err := catalogService(ctx, cfg, db, logr)
	if err != nil {
		return err
	}
	defer closeCache()

	demand := service.NewDemandService(repository.NewClassRepository(db), repository.NewInterestRepository(db), courses, nil, logr)
	result, err := demand.Aggregate(ctx)
	if err != nil {
		return err
	}
	logr.Info("aggregation finished", zap.Int("classes", result.Updated), zap.Int("changed", result.Changed))
	return nil
}

// catalogService builds the course service so writes invalidate the API's
// cached listings when Redis is configured.
func catalogService(ctx context.Context, cfg *config.Config, db *sqlx.DB, logr *zap.Logger) (*service.CourseService, func(), error) {
	client, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	repo := repository.NewCacheRepository(client, cfg.Catalog.CachePrefix, logr)
	cacheSvc := service.NewCacheService(repo, nil, cfg.Catalog.CacheTTL, logr, repo.Enabled())
	courses := service.NewCourseService(repository.NewClassRepository(db), cacheSvc, cfg.Catalog.CacheTTL, logr)
	return courses, func() { _ = repo.Close() }, nil
}
