package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vidasana/vidasana/config"
	"github.com/vidasana/vidasana/controllers"
	"github.com/vidasana/vidasana/middleware"
	"github.com/vidasana/vidasana/utils"
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
	r.Use(utils.GinLogger())
	r.Use(utils.GinRecovery())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
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
	userController := controllers.NewUserController(db)
	importController := controllers.NewImportController(db)
	dashboardController := controllers.NewDashboardController(db)

	// Credential endpoints are rate limited per IP.
	r.POST("/register", middleware.RateLimitMiddleware(), authController.Register)
	r.POST("/login", middleware.RateLimitMiddleware(), authController.Login)
	r.POST("/logout", middleware.AuthRequired(), authController.Logout)

	r.GET("/users/me", middleware.AuthRequired(), authController.Me)
	r.GET("/users/:id", userController.GetUser)

	protected := r.Group("")
	protected.Use(middleware.AuthRequired())
	protected.PUT("/users/:id", userController.UpdateUser)
	protected.POST("/users/:id/import", importController.Import)
	protected.GET("/dashboard/:id/current", dashboardController.CurrentStats)
	protected.GET("/dashboard/:id/history", dashboardController.History)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
