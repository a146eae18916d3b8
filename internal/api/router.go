package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/setlist-live/setlist/docs"
	"github.com/setlist-live/setlist/internal/api/handler"
	"github.com/setlist-live/setlist/internal/api/middleware"
	"github.com/setlist-live/setlist/internal/core/domain"
	"github.com/setlist-live/setlist/internal/core/ports"
	"github.com/setlist-live/setlist/internal/core/service"
	"github.com/setlist-live/setlist/internal/infrastructure/config"
	mongodb "github.com/setlist-live/setlist/internal/infrastructure/db/mongo"
	redisdb "github.com/setlist-live/setlist/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, mail ports.MailEnqueuer, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("setlist"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	artistRepo := mongodb.NewArtistRepository(db)
	showRepo := mongodb.NewShowRepository(db)
	venueRepo := mongodb.NewVenueRepository(db)
	refreshStore := redisdb.NewRefreshTokenStore(rdb)
	actionStore := redisdb.NewActionTokenStore(rdb)

	authService := service.NewAuthService(userRepo, artistRepo, refreshStore, actionStore, mail,
		cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	userService := service.NewUserService(userRepo)
	artistService := service.NewArtistService(userRepo, artistRepo)
	showService := service.NewShowService(showRepo, venueRepo)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService, authService)
	artistHandler := handler.NewArtistHandler(artistService)
	showHandler := handler.NewShowHandler(showService)

	authRequired := middleware.Auth(cfg.JWTSecret)

	v1 := e.Group("/api/v1")

	// --- Auth routes ---
	v1.POST("/auth/register", authHandler.Register)
	v1.POST("/auth/login", authHandler.Login)
	v1.POST("/auth/refresh", authHandler.Refresh)
	v1.POST("/auth/logout", authHandler.Logout)
	v1.GET("/auth/me", authHandler.Me, authRequired)
	v1.POST("/auth/password-reset/request", authHandler.RequestPasswordReset)
	v1.POST("/auth/password-reset/confirm", authHandler.ConfirmPasswordReset)
	v1.POST("/auth/verify-email", authHandler.VerifyEmail)

	// --- User routes ---
	v1.GET("/users", userHandler.List, authRequired, middleware.RBAC(domain.RoleAdmin))
	v1.GET("/users/:id", userHandler.Get, authRequired)
	v1.PUT("/users/:id", userHandler.Update, authRequired)
	v1.DELETE("/users/:id", userHandler.Delete, authRequired)
	v1.PUT("/users/:id/password", userHandler.ChangePassword, authRequired)

	// --- Artist routes (reads are public) ---
	v1.GET("/artists", artistHandler.List)
	v1.GET("/artists/:username", artistHandler.Get)
	v1.PUT("/artists/me", artistHandler.UpdateOwn, authRequired, middleware.RBAC(domain.RoleArtist))

	// --- Show and venue routes ---
	v1.GET("/shows", showHandler.ListShows)
	v1.GET("/shows/:id", showHandler.GetShow)
	v1.POST("/shows", showHandler.CreateShow, authRequired, middleware.RBAC(domain.RolePromoter, domain.RoleAdmin))
	v1.PUT("/shows/:id/status", showHandler.UpdateShowStatus, authRequired, middleware.RBAC(domain.RolePromoter, domain.RoleAdmin))
	v1.GET("/venues", showHandler.ListVenues)
	v1.GET("/venues/:id", showHandler.GetVenue)
	v1.POST("/venues", showHandler.CreateVenue, authRequired, middleware.RBAC(domain.RoleVenue, domain.RoleAdmin))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)          // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Ops endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
