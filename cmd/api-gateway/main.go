package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/noah-isme/section-planner-api/api/swagger"
	"github.com/noah-isme/section-planner-api/internal/handler"
	"github.com/noah-isme/section-planner-api/internal/repository"
	"github.com/noah-isme/section-planner-api/internal/scheduler"
	"github.com/noah-isme/section-planner-api/internal/service"
	"github.com/noah-isme/section-planner-api/pkg/cache"
	"github.com/noah-isme/section-planner-api/pkg/config"
	"github.com/noah-isme/section-planner-api/pkg/database"
	"github.com/noah-isme/section-planner-api/pkg/export"
	"github.com/noah-isme/section-planner-api/pkg/jobs"
	"github.com/noah-isme/section-planner-api/pkg/logger"
	"github.com/noah-isme/section-planner-api/pkg/storage"
)

// @title Section Planner API
// @version 1.0.0
// @description Generates conflict-free course section schedules and manages saved plans.
// @BasePath /api/v1
// @schemes http https
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

	if err := run(cfg, logr); err != nil {
		logr.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logr *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer db.Close() //nolint:errcheck
	if cfg.Database.AutoMigrate {
		if err := database.EnsureSchema(ctx, db); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}

	metrics := service.NewMetricsService()

	var cacheRepo *repository.CacheRepository
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, caching disabled", zap.Error(err))
		} else {
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
			defer cacheRepo.Close() //nolint:errcheck
		}
	}
	var cacheSvc *service.CacheService
	if cacheRepo != nil {
		cacheSvc = service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr, true)
	}

	semesters := repository.NewSemesterRepository(db)
	offerings := repository.NewCourseOfferingRepository(db)
	savedSchedules := repository.NewSavedScheduleRepository(db)
	exportJobs := repository.NewExportJobRepository(db)

	pairing, err := scheduler.ParsePairingMode(cfg.Scheduler.PairingMode)
	if err != nil {
		return fmt.Errorf("scheduler pairing mode: %w", err)
	}

	validate := validator.New()
	authSvc := service.NewAuthService(service.AuthConfig{Secret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer})
	generator := service.NewScheduleGeneratorService(offerings, savedSchedules, cacheSvc, metrics, validate, logr, service.ScheduleGeneratorConfig{
		DefaultOptions:       cfg.Scheduler.DefaultOptions,
		MaxOptions:           cfg.Scheduler.MaxOptions,
		MaxCourses:           cfg.Scheduler.MaxCourses,
		MaxSectionsPerCourse: cfg.Scheduler.MaxSectionsPerCourse,
		ProposalTTL:          cfg.Scheduler.ProposalTTL,
		CacheTTL:             cfg.Cache.TTL,
		Engine: scheduler.Options{
			PoolMultiplier:  cfg.Scheduler.PoolMultiplier,
			MaxCombinations: cfg.Scheduler.MaxCombinations,
			Pairing:         pairing,
		},
	})
	catalog := service.NewCatalogService(semesters, offerings, cacheSvc, validate, logr)
	importer := service.NewOfferingImportService(semesters, offerings, db, cacheSvc, metrics, logr)

	files, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		return fmt.Errorf("export storage: %w", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
	exporter := service.NewExportService(savedSchedules, files, signer, service.ExportConfig{
		APIPrefix: cfg.APIPrefix,
		ResultTTL: cfg.Exports.SignedURLTTL,
	}, logr, export.NewCSVExporter(), export.NewPDFExporter())

	worker := service.NewExportWorker(exportJobs, exporter, metrics, cfg.Exports.WorkerRetries, logr)
	queue := jobs.NewQueue("schedule-exports", worker.Handle, jobs.QueueConfig{
		Workers:    cfg.Exports.WorkerConcurrency,
		MaxRetries: cfg.Exports.WorkerRetries,
		RetryDelay: 2 * time.Second,
		Logger:     logr,
	})
	queue.Start(ctx)
	defer queue.Stop()

	exportJobsSvc := service.NewExportJobService(exportJobs, savedSchedules, queue, exporter, logr, service.ExportJobConfig{
		ResultTTL:       cfg.Exports.SignedURLTTL,
		CleanupInterval: cfg.Exports.CleanupInterval,
	})
	exportJobsSvc.RecoverPendingJobs(ctx)
	exportJobsSvc.StartCleanup(ctx)
	go pruneProposals(ctx, generator, cfg.Scheduler.ProposalTTL, logr)

	checks := map[string]handler.Pinger{"postgres": db}
	if cacheRepo != nil {
		checks["redis"] = cacheRepo
	}

	router := newRouter(cfg, logr, routes{
		auth:      authSvc,
		metrics:   metrics,
		schedules: handler.NewScheduleHandler(generator),
		catalog:   handler.NewCatalogHandler(catalog, importer, cfg.Imports.MaxFileSizeBytes),
		exports:   handler.NewExportHandler(exportJobsSvc),
		health:    handler.NewHealthHandler(metrics, checks),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func pruneProposals(ctx context.Context, generator *service.ScheduleGeneratorService, ttl time.Duration, logr *zap.Logger) {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	ticker := time.NewTicker(ttl / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := generator.PruneProposals(); removed > 0 {
				logr.Debug("expired proposals pruned", zap.Int("removed", removed))
			}
		}
	}
}
