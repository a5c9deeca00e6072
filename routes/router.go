package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/uwezo-ai/uwezo/auth"
	"github.com/uwezo-ai/uwezo/config"
	"github.com/uwezo-ai/uwezo/controllers"
	"github.com/uwezo-ai/uwezo/events"
	"github.com/uwezo-ai/uwezo/middleware"
	"github.com/uwezo-ai/uwezo/pipeline"
	"github.com/uwezo-ai/uwezo/state"
	"github.com/uwezo-ai/uwezo/utils"
)

// Deps carries the shared components the router wires into controllers.
type Deps struct {
	Store         *state.Store
	Authenticator *auth.Authenticator
	Runner        *pipeline.Runner
	Hub           *events.Hub
}

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(deps Deps) *gin.Engine {
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
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		// fallback to default recovery if logger failed to init
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.Static("/static", "./static")

	r.GET("/", func(c *gin.Context) {
		c.File("./static/index.html")
	})

	r.GET("/audit", func(c *gin.Context) {
		c.File("./static/audit.html")
	})

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(deps.Authenticator)
	dashboardController := controllers.NewDashboardController(deps.Store)
	documentController := controllers.NewDocumentController(deps.Store, deps.Runner, deps.Hub, utils.Sugar)
	analyticsController := controllers.NewAnalyticsController(deps.Store)
	auditController := controllers.NewAuditController(deps.Hub, utils.Sugar)
	configController := controllers.NewConfigController()

	// Audit feed and its triggers live at the root, matching the audit page.
	r.GET("/ws", auditController.ServeWS)
	r.POST("/trigger-retrain", auditController.TriggerRetrain)
	r.POST("/predict-sim", auditController.PredictSim)
	r.POST("/review", auditController.SubmitReview)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/signup", authController.Signup)
	authGroup.GET("/session", authController.Session)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)
	authGroup.PATCH("/profile", middleware.AuthRequired(), authController.UpdateProfile)

	// Public config endpoints
	api.GET("/config/upload-policy", configController.GetUploadPolicy)
	api.GET("/config/ui", configController.GetUISettings)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired())

	protected.GET("/state", dashboardController.GetState)
	protected.PUT("/state/page", dashboardController.SetPage)
	protected.POST("/notifications", dashboardController.AddNotification)
	protected.DELETE("/notifications/:id", dashboardController.DismissNotification)

	protected.POST("/documents", documentController.Upload)
	protected.DELETE("/documents/:id", documentController.Remove)
	protected.GET("/results", documentController.ListResults)
	protected.GET("/results/latest", documentController.LatestResult)
	protected.GET("/certificate", documentController.Certificate)

	protected.GET("/analytics/summary", analyticsController.GetSummary)

	admin := protected.Group("")
	admin.Use(middleware.AdminRequired())
	admin.GET("/users", authController.ListUsers)

	r.NoRoute(func(ctx *gin.Context) {
		path := ctx.Request.URL.Path
		if strings.HasPrefix(path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
			return
		}
		if strings.HasPrefix(path, "/static/") {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "static asset not found"})
			return
		}
		// Everything else falls back to the SPA entry.
		ctx.Status(http.StatusOK)
		ctx.File("./static/index.html")
	})

	return r
}
