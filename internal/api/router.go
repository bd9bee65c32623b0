package api

import (
	"context"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bookhaven/library-api/internal/api/handler"
	"github.com/bookhaven/library-api/internal/api/middleware"
	"github.com/bookhaven/library-api/internal/auth"
	"github.com/bookhaven/library-api/internal/core/service"
	"github.com/bookhaven/library-api/internal/infrastructure/config"
	mongodb "github.com/bookhaven/library-api/internal/infrastructure/db/mongo"
	redisdb "github.com/bookhaven/library-api/internal/infrastructure/db/redis"
	"github.com/bookhaven/library-api/internal/infrastructure/http/handlers"
	"github.com/bookhaven/library-api/internal/infrastructure/queue"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// Background workers started here stop when ctx is cancelled.
func NewRouter(ctx context.Context, cfg *config.Config, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORS())
	e.Use(echoprometheus.NewMiddleware("library"))

	// --- Dependencies ---
	tenantRepo := mongodb.NewTenantRepository(db)
	userRepo := mongodb.NewUserRepository(db)
	bookRepo := mongodb.NewBookRepository(db)
	revoker := redisdb.NewTokenDenyList(rdb)

	lastLogin := queue.NewLastLoginDispatcher(0, userRepo, log)
	lastLogin.Start(ctx)

	codec := auth.NewTokenCodec(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	tenantResolver := middleware.NewTenantResolver(tenantRepo, cfg.TenantMode, cfg.ReservedSubdomains)

	authService := service.NewAuthService(tenantRepo, userRepo, codec, revoker, log)
	tenantService := service.NewTenantService(tenantRepo, cfg.BaseDomain, cfg.TenantMode, cfg.ReservedSubdomains, log)
	userService := service.NewUserService(userRepo, log)
	bookService := service.NewBookService(bookRepo, log)

	authHandler := handler.NewAuthHandler(authService, tenantResolver)
	tenantHandler := handler.NewTenantHandler(tenantService)
	userHandler := handler.NewUserHandler(userService)
	bookHandler := handler.NewBookHandler(bookService)

	authn := middleware.Auth(middleware.AuthDeps{
		Codec:     codec,
		Users:     userRepo,
		Tenants:   tenantRepo,
		Revoker:   revoker,
		LastLogin: lastLogin,
		Logger:    log,
	})

	apiGroup := e.Group("/api")

	// --- Public routes ---
	apiGroup.POST("/tenants/register", tenantHandler.Register)
	apiGroup.POST("/auth/login", authHandler.Login)
	apiGroup.POST("/auth/refresh", authHandler.Refresh)

	// --- Authenticated routes ---
	apiGroup.POST("/auth/logout", authHandler.Logout, authn)
	apiGroup.POST("/auth/change-password", authHandler.ChangePassword, authn)

	apiGroup.GET("/tenants/me", tenantHandler.Me, authn)
	apiGroup.PUT("/tenants/me", tenantHandler.UpdateMe, authn, middleware.RequireAdmin())

	apiGroup.GET("/users", userHandler.List, authn, middleware.RequireAdmin())
	apiGroup.GET("/users/me", userHandler.Me, authn)
	apiGroup.POST("/users", userHandler.Create, authn, middleware.RequireAdmin())
	apiGroup.PUT("/users/:id", userHandler.Update, authn, middleware.RequireAdmin())
	apiGroup.DELETE("/users/:id", userHandler.Delete, authn, middleware.RequireAdmin())

	apiGroup.GET("/books", bookHandler.List, authn, middleware.RequireMember())
	apiGroup.GET("/books/:id", bookHandler.Get, authn, middleware.RequireMember())
	apiGroup.POST("/books", bookHandler.Create, authn, middleware.RequireLibrarian())
	apiGroup.PUT("/books/:id", bookHandler.Update, authn, middleware.RequireLibrarian())
	apiGroup.DELETE("/books/:id", bookHandler.Delete, authn, middleware.RequireAdmin())

	// --- Observability (no auth required) ---
	e.GET("/metrics", echoprometheus.NewHandler())

	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	return e
}
