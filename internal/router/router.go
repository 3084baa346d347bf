package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/course-registration-api/internal/handler"
	"github.com/noah-isme/course-registration-api/internal/middleware"
	"github.com/noah-isme/course-registration-api/internal/service"
	"github.com/noah-isme/course-registration-api/pkg/config"
	appErrors "github.com/noah-isme/course-registration-api/pkg/errors"
	"github.com/noah-isme/course-registration-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/course-registration-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/course-registration-api/pkg/middleware/requestid"
	"github.com/noah-isme/course-registration-api/pkg/response"
)

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Course    *handler.CourseHandler
	Auth      *handler.AuthHandler
	Timetable *handler.TimetableHandler
	AI        *handler.AIHandler
	Metrics   *handler.MetricsHandler
}

// Setup builds the gin engine with global middleware and the route table.
func Setup(cfg *config.Config, h Handlers, tokens middleware.TokenValidator, metrics *service.MetricsService, logr *zap.Logger) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	if logr == nil {
		logr = zap.NewNop()
	}

	r := gin.New()
	r.Use(reqidmiddleware.Middleware())
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins, cfg.Cron.Header))
	r.Use(logger.GinMiddleware(logr))
	r.Use(middleware.Metrics(metrics))
	r.Use(gin.Recovery())

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "route not found"))
	})

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	authRequired := middleware.JWT(tokens)
	cronOnly := middleware.CronSecret(cfg.Cron.Secret, cfg.Cron.Header, logr)

	api := r.Group(cfg.APIPrefix)
	{
		courses := api.Group("/courses")
		{
			courses.GET("", h.Course.List)
			courses.GET("/alerts", h.Course.Alerts)
			courses.POST("/conflicts", h.Course.Conflicts)
			courses.GET("/interests", authRequired, h.Course.Interests)
			courses.POST("/:classId/interest", authRequired, h.Course.ToggleInterest)
			courses.POST("/aggregate", cronOnly, h.Course.Aggregate)
		}

		auth := api.Group("/auth")
		{
			auth.POST("/signup", h.Auth.Signup)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/logout", authRequired, h.Auth.Logout)
			auth.GET("/me", authRequired, h.Auth.Me)
		}

		timetables := api.Group("/timetables", authRequired)
		{
			timetables.GET("", h.Timetable.List)
			timetables.POST("", h.Timetable.Create)
			timetables.DELETE("/:id", h.Timetable.Delete)
			timetables.GET("/:id/export", h.Timetable.Export)
		}

		ai := api.Group("/ai")
		{
			ai.POST("/recommend", h.AI.Recommend)
			ai.POST("/schedule", h.AI.Schedule)
		}
	}

	return r
}
