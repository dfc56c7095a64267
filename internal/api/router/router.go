package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"prezz/config"
	"prezz/internal/api/handler"
	"prezz/internal/api/middleware"
	"prezz/internal/session"
	"prezz/pkg/jwt"
	"prezz/pkg/redis"
)

// Setup builds the gin engine. rdb may be nil, which disables rate limiting.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	if cfg.Server.BodyLimit > 0 {
		r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	student := middleware.RoleAuth(session.RoleStudent)
	reps := middleware.RoleAuth(session.RoleCR, session.RoleElectiveCR)
	classRep := middleware.RoleAuth(session.RoleCR)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(jwtMgr))
	v1.Use(middleware.RateLimit(rdb, cfg.RateLimit.Requests, cfg.RateLimit.Window))
	{
		v1.GET("/timetable/week", h.Dashboard.Week)
		v1.GET("/classes", h.Dashboard.Classes)

		attendance := v1.Group("/attendance")
		{
			attendance.GET("/stats", student, h.Dashboard.Stats)
			attendance.GET("/daily", student, h.Dashboard.Daily)
			attendance.GET("/reasons", student, h.Dashboard.Reasons)
			attendance.POST("", student, h.Attendance.Save)
		}

		schedules := v1.Group("/schedules", reps)
		{
			schedules.POST("", h.Schedule.Create)
			schedules.POST("/cancel", h.Schedule.Cancel)
			schedules.DELETE("/:id", h.Schedule.Delete)
		}

		holidays := v1.Group("/holidays", classRep)
		{
			holidays.POST("", h.Schedule.CreateHoliday)
			holidays.DELETE("/:id", h.Schedule.DeleteHoliday)
		}

		export := v1.Group("/export")
		{
			export.GET("/timetable.xlsx", h.Export.Workbook)
			export.GET("/calendar.ics", h.Export.Calendar)
		}

		chat := v1.Group("/chat")
		{
			chat.GET("/messages", h.Chat.List)
			chat.POST("/messages", h.Chat.Send)
		}
	}

	return r
}
