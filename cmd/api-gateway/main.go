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

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/vocsched/timetable-api/api/swagger"
	"github.com/vocsched/timetable-api/internal/handler"
	"github.com/vocsched/timetable-api/internal/middleware"
	"github.com/vocsched/timetable-api/internal/repository"
	"github.com/vocsched/timetable-api/internal/service"
	"github.com/vocsched/timetable-api/pkg/cache"
	"github.com/vocsched/timetable-api/pkg/config"
	"github.com/vocsched/timetable-api/pkg/database"
	"github.com/vocsched/timetable-api/pkg/jobs"
	"github.com/vocsched/timetable-api/pkg/logger"
	corsmiddleware "github.com/vocsched/timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/vocsched/timetable-api/pkg/middleware/requestid"
)

// @title Vocational Timetable API
// @version 1.0.0
// @description Evolutionary course-timetabling service: catalog management, timetable generation, search and export.
// @BasePath /api/v1
// @schemes http

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	// Redis is optional: without it search simply skips the cache.
	var cacheRepo service.CacheRepository
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, search cache disabled", "error", err)
	} else {
		repo := repository.NewCacheRepository(redisClient, logr)
		defer repo.Close() //nolint:errcheck
		cacheRepo = repo
	}

	validate := validator.New()

	curriculumRepo := repository.NewCurriculumRepository(db)
	classroomRepo := repository.NewClassroomRepository(db)
	instructorRepo := repository.NewInstructorRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	scheduleRepo := repository.NewGeneratedScheduleRepository(db)

	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Search.CacheTTL, logr, cfg.Search.CacheEnabled)

	timetableSvc := service.NewTimetableService(curriculumRepo, classroomRepo, instructorRepo, scheduleRepo, cfg.Scheduler, metricsSvc, validate, logr)
	searchSvc := service.NewSearchService(scheduleRepo, studentRepo, instructorRepo, classroomRepo, curriculumRepo, cacheSvc, validate, logr)
	timetableSvc.AttachInvalidator(searchSvc)
	catalogSvc := service.NewCatalogService(studentRepo, instructorRepo, classroomRepo, curriculumRepo, scheduleRepo, validate, logr)
	exportSvc := service.NewExportService(scheduleRepo, logr)

	queue := jobs.NewQueue("generation", timetableSvc.HandleJob, jobs.QueueConfig{
		Workers:    cfg.Jobs.Workers,
		BufferSize: cfg.Jobs.BufferSize,
		MaxRetries: cfg.Jobs.MaxRetries,
		RetryDelay: cfg.Jobs.RetryDelay,
		Logger:     logr,
	})
	timetableSvc.AttachQueue(queue)

	timetableHandler := handler.NewTimetableHandler(timetableSvc, searchSvc, exportSvc)
	catalogHandler := handler.NewCatalogHandler(catalogSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/schedules/generate", timetableHandler.Generate)
		api.GET("/schedules/runs/:id", timetableHandler.RunStatus)
		api.GET("/schedules/search", timetableHandler.Search)
		api.GET("/schedules/export", timetableHandler.Export)

		api.POST("/students", catalogHandler.CreateStudent)
		api.POST("/instructors", catalogHandler.CreateInstructor)
		api.GET("/instructors", catalogHandler.ListInstructors)
		api.POST("/classrooms", catalogHandler.CreateClassroom)
		api.GET("/classrooms", catalogHandler.ListClassrooms)
		api.POST("/subjects", catalogHandler.CreateOffering)
		api.GET("/stats", catalogHandler.Stats)
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	queue.Start(ctx)
	defer queue.Stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
