package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/section-planner-api/internal/handler"
	"github.com/noah-isme/section-planner-api/internal/middleware"
	"github.com/noah-isme/section-planner-api/internal/models"
	"github.com/noah-isme/section-planner-api/internal/service"
	"github.com/noah-isme/section-planner-api/pkg/config"
	"github.com/noah-isme/section-planner-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/section-planner-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/section-planner-api/pkg/middleware/requestid"
)

type routes struct {
	auth      middleware.TokenValidator
	metrics   *service.MetricsService
	schedules *handler.ScheduleHandler
	catalog   *handler.CatalogHandler
	exports   *handler.ExportHandler
	health    *handler.HealthHandler
}

func newRouter(cfg *config.Config, logr *zap.Logger, h routes) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(h.metrics))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", h.health.Health)
	r.GET("/ready", h.health.Ready)
	r.GET("/metrics", h.health.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	authed := middleware.JWT(h.auth)
	anyUser := middleware.RequireRoles(models.RoleStudent, models.RoleAdmin)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	schedules := api.Group("/schedules", authed, anyUser)
	schedules.POST("/generate", h.schedules.Generate)
	schedules.POST("/conflicts", h.schedules.CheckConflicts)
	schedules.POST("", h.schedules.Save)
	schedules.GET("", h.schedules.List)
	schedules.GET("/:id", h.schedules.Get)
	schedules.PATCH("/:id/favorite", h.schedules.ToggleFavorite)
	schedules.DELETE("/:id", h.schedules.Delete)
	schedules.POST("/:id/exports", h.exports.Create)

	api.GET("/exports/:id", authed, anyUser, h.exports.Status)
	api.GET("/export/:token", h.exports.Download)

	catalog := api.Group("/catalog")
	catalog.GET("/reference", h.catalog.Reference)
	catalog.GET("/semesters", h.catalog.Semesters)
	catalog.GET("/semesters/:id/courses", h.catalog.Courses)
	catalog.GET("/semesters/:id/courses/:code/sections", h.catalog.Sections)
	catalog.POST("/semesters", authed, adminOnly, h.catalog.CreateSemester)
	catalog.POST("/semesters/:id/offerings/import", authed, adminOnly, h.catalog.ImportOfferings)

	return r
}
