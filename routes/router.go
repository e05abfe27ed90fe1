package routes

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/DhavalSuthar-24/profiles/config"
	"github.com/DhavalSuthar-24/profiles/internal/catalog"
	"github.com/DhavalSuthar-24/profiles/internal/middleware"
	"github.com/DhavalSuthar-24/profiles/internal/store"
	"github.com/DhavalSuthar-24/profiles/internal/user"
)

// SetupRoutes builds the engine with every API group mounted under /api.
func SetupRoutes(cfg *config.Config, log *slog.Logger, st store.Store, users user.UserService) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logging(log),
		middleware.Recover(),
		cors.New(corsConfig(cfg)),
	)

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "profiles",
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
		})
	})

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	user.RegisterUserRoutes(api, users, cfg.JWT.AccessTokenSecret)
	catalog.RegisterCatalogRoutes(api, st)

	return r
}

// corsConfig allows every origin unless FRONTEND_URL pins one.
func corsConfig(cfg *config.Config) cors.Config {
	cc := cors.DefaultConfig()
	cc.AllowHeaders = append(cc.AllowHeaders, "Authorization", middleware.RequestIDHeader)
	cc.ExposeHeaders = []string{middleware.RequestIDHeader}
	if cfg.App.FrontendURL != "" {
		cc.AllowOrigins = []string{cfg.App.FrontendURL}
	} else {
		cc.AllowAllOrigins = true
	}
	return cc
}
