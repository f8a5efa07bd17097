package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/zachbush96/TipTracker/config"
	"github.com/zachbush96/TipTracker/controllers"
	"github.com/zachbush96/TipTracker/middleware"
	"github.com/zachbush96/TipTracker/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Recovery())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(db)
	tipsController := controllers.NewTipsController(db)
	statsController := controllers.NewStatsController(db)

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimitMiddleware())

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.AuthRequired(db))
	authGroup.GET("/user", authController.Me)
	authGroup.POST("/logout", authController.Logout)

	api.GET("/user/role", middleware.AuthRequired(db), authController.Role)

	// demo=true short-circuits auth on the read endpoints, so DemoBypass
	// must run before AuthRequired.
	protected := api.Group("")
	protected.Use(middleware.DemoBypass(), middleware.AuthRequired(db))
	protected.GET("/tips", tipsController.List)
	protected.GET("/tips/sections", tipsController.ListSections)
	protected.GET("/stats/daily", statsController.Daily)
	protected.GET("/stats/weekday", statsController.Weekday)
	protected.GET("/stats/section", statsController.Section)
	protected.GET("/stats/breakdown", statsController.Breakdown)

	// Writes never run in demo mode.
	api.POST("/tips", middleware.AuthRequired(db), tipsController.Create)
	api.DELETE("/tips/:id", middleware.AuthRequired(db), tipsController.Delete)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
