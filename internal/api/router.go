package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"gorm.io/gorm"

	_ "github.com/obituaryapp/obituary-api/docs"
	"github.com/obituaryapp/obituary-api/internal/api/handler"
	"github.com/obituaryapp/obituary-api/internal/api/middleware"
	"github.com/obituaryapp/obituary-api/internal/core/service"
	"github.com/obituaryapp/obituary-api/internal/infrastructure/assistant"
	"github.com/obituaryapp/obituary-api/internal/infrastructure/config"
	"github.com/obituaryapp/obituary-api/internal/infrastructure/db/postgres"
	"github.com/obituaryapp/obituary-api/internal/infrastructure/db/redis"
	"github.com/obituaryapp/obituary-api/internal/infrastructure/storage"
	"github.com/obituaryapp/obituary-api/internal/web"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *gorm.DB, rdb *goredis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)
	e.Renderer = web.NewRenderer()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.CORS.AllowOrigins,
	}))
	e.Use(echoprometheus.NewMiddleware("obituary"))

	// --- Dependencies ---
	obituaryRepo := postgres.NewObituaryRepository(db)
	authRepo := postgres.NewAuthRepository(db)
	photos := storage.NewPhotoStore(cfg.Uploads.Dir, cfg.Uploads.PublicPath)
	sessions := redis.NewSessionStore(rdb)

	obituaryService := service.NewObituaryService(obituaryRepo, photos, log)
	authService := service.NewAuthService(authRepo, service.TokenConfig{
		Secret:   cfg.JWT.Secret,
		Issuer:   cfg.JWT.Issuer,
		Audience: cfg.JWT.Audience,
		TTL:      time.Duration(cfg.JWT.ExpireMinutes) * time.Minute,
	})

	obituaryHandler := handler.NewObituaryHandler(obituaryService, photos)
	authHandler := handler.NewAuthHandler(authService)
	assistantHandler := handler.NewAssistantHandler(
		assistant.NewClient(cfg.Assistant.URL, cfg.Assistant.Token, log))
	webHandler := web.NewHandler(obituaryService, authService, authRepo, sessions, log)

	bearerAuth := middleware.Auth(middleware.TokenVerifier{
		Secret:   cfg.JWT.Secret,
		Issuer:   cfg.JWT.Issuer,
		Audience: cfg.JWT.Audience,
	})
	sessionAuth := middleware.Session(sessions, authRepo)

	// --- REST API (bearer scheme) ---
	apiGroup := e.Group("/api")
	apiGroup.GET("/obituaries", obituaryHandler.List)
	apiGroup.GET("/obituaries/:id", obituaryHandler.Get)
	apiGroup.POST("/obituaries", obituaryHandler.Create, bearerAuth)
	apiGroup.PUT("/obituaries/:id", obituaryHandler.Update, bearerAuth)
	apiGroup.DELETE("/obituaries/:id", obituaryHandler.Delete, bearerAuth)

	apiGroup.POST("/auth/register", authHandler.Register)
	apiGroup.POST("/auth/login", authHandler.Login)

	apiGroup.POST("/assistant/famous-death", assistantHandler.FamousDeath)

	// --- Server-rendered UI (cookie-session scheme) ---
	webHandler.Register(e, sessionAuth)

	// --- Uploaded photos served as static assets ---
	e.Static(cfg.Uploads.PublicPath, cfg.Uploads.Dir)

	// --- Operational endpoints ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
