package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/labsyncpro/labsync-api/api/swagger"
	"github.com/labsyncpro/labsync-api/internal/handler"
	"github.com/labsyncpro/labsync-api/internal/middleware"
	"github.com/labsyncpro/labsync-api/internal/models"
	"github.com/labsyncpro/labsync-api/internal/repository"
	"github.com/labsyncpro/labsync-api/internal/service"
	"github.com/labsyncpro/labsync-api/pkg/cache"
	"github.com/labsyncpro/labsync-api/pkg/config"
	"github.com/labsyncpro/labsync-api/pkg/database"
	"github.com/labsyncpro/labsync-api/pkg/logger"
	corsmiddleware "github.com/labsyncpro/labsync-api/pkg/middleware/cors"
	reqidmiddleware "github.com/labsyncpro/labsync-api/pkg/middleware/requestid"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// @title LabSyncPro API
// @version 1.0.0
// @description School lab administration: period generation, timetable versioning and session scheduling
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
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, continuing without cache", zap.Error(err))
		redisClient = nil
	}

	validate := validator.New()
	metricsService := service.NewMetricsService()

	versionRepo := repository.NewTimetableVersionRepository(db)
	periodRepo := repository.NewPeriodRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	labRepo := repository.NewLabRepository(db)
	classRepo := repository.NewClassRepository(db)
	userRepo := repository.NewUserRepository(db)
	gradeRepo := repository.NewGradeScaleRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	generatorService := service.NewPeriodGeneratorService(validate, logr, service.PeriodGeneratorConfig{
		MaxBreaks: cfg.Timetable.MaxBreaks,
	})
	versionService := service.NewTimetableVersionService(
		versionRepo, periodRepo, sessionRepo, db, cacheRepo, metricsService,
		cfg.Timetable.CacheTTL, validate, logr,
	)
	sessionService := service.NewSessionService(sessionRepo, periodRepo, cfg.Timetable.EnforceConflicts, validate, logr)
	exportService := service.NewExportService(sessionService, logr)
	authService := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})
	labService := service.NewLabService(labRepo, validate, logr)
	classService := service.NewClassService(classRepo, validate, logr)
	gradeService := service.NewGradeService(gradeRepo, db, validate, logr)
	importService := service.NewImportService(userRepo, cfg.Imports.MaxRows, validate, logr)

	timetableHandler := handler.NewTimetableHandler(generatorService, versionService)
	sessionHandler := handler.NewSessionHandler(sessionService, metricsService)
	exportHandler := handler.NewExportHandler(exportService)
	authHandler := handler.NewAuthHandler(authService)
	labHandler := handler.NewLabHandler(labService)
	classHandler := handler.NewClassHandler(classService)
	gradeHandler := handler.NewGradeHandler(gradeService)
	importHandler := handler.NewImportHandler(importService)
	metricsHandler := handler.NewMetricsHandler(metricsService)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", middleware.JWT(authService), authHandler.Logout)
		auth.GET("/me", middleware.JWT(authService), authHandler.Me)
	}

	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleInstructor)

	timetable := api.Group("/timetable", middleware.JWT(authService))
	{
		timetable.POST("/config/generate-periods", adminOnly, timetableHandler.GeneratePeriods)

		versions := timetable.Group("/versions")
		{
			versions.GET("", timetableHandler.ListVersions)
			versions.POST("", adminOnly, timetableHandler.CreateVersion)
			versions.GET("/active", timetableHandler.GetActiveVersion)
			versions.GET("/compare", timetableHandler.CompareVersions)
			versions.GET("/:id", timetableHandler.GetVersion)
			versions.DELETE("/:id", adminOnly, timetableHandler.DeleteVersion)
			versions.GET("/:id/validate", timetableHandler.ValidateVersion)
			versions.PUT("/:id/periods", adminOnly, timetableHandler.ReplacePeriods)
			versions.POST("/:id/activate", adminOnly, timetableHandler.ActivateVersion)
		}

		schedules := timetable.Group("/schedules")
		{
			schedules.GET("", sessionHandler.List)
			schedules.POST("", staff, sessionHandler.Create)
			schedules.GET("/conflicts", sessionHandler.Conflicts)
			schedules.GET("/daily", sessionHandler.Daily)
			schedules.GET("/:id", sessionHandler.Get)
			schedules.PUT("/:id", staff, sessionHandler.Update)
			schedules.DELETE("/:id", staff, sessionHandler.Delete)
		}

		timetable.GET("/export/pdf", exportHandler.TimetablePDF)
		timetable.GET("/export/csv", exportHandler.TimetableCSV)
	}

	labs := api.Group("/labs", middleware.JWT(authService))
	{
		labs.GET("", labHandler.List)
		labs.POST("", adminOnly, labHandler.Create)
		labs.GET("/:id", labHandler.Get)
		labs.PUT("/:id", adminOnly, labHandler.Update)
		labs.DELETE("/:id", adminOnly, labHandler.Delete)
		labs.GET("/:id/computers", labHandler.ListComputers)
		labs.PUT("/:id/computers", staff, labHandler.UpsertComputer)
	}

	classes := api.Group("/classes", middleware.JWT(authService))
	{
		classes.GET("", classHandler.List)
		classes.POST("", adminOnly, classHandler.Create)
		classes.GET("/:id", classHandler.Get)
		classes.PUT("/:id", adminOnly, classHandler.Update)
		classes.DELETE("/:id", adminOnly, classHandler.Delete)
		classes.GET("/:id/groups", classHandler.ListGroups)
		classes.POST("/:id/groups", staff, classHandler.CreateGroup)
	}

	grades := api.Group("/grades", middleware.JWT(authService))
	{
		grades.GET("/scale", gradeHandler.List)
		grades.PUT("/scale", adminOnly, gradeHandler.Replace)
		grades.GET("/scale/lookup", gradeHandler.Lookup)
	}

	api.POST("/import/users", middleware.JWT(authService), adminOnly, importHandler.Users)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
