package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/aitools/platform-api/internal/api/handler"
	"github.com/aitools/platform-api/internal/api/middleware"
	"github.com/aitools/platform-api/internal/core/domain"
	"github.com/aitools/platform-api/internal/core/ports"
	"github.com/aitools/platform-api/internal/infrastructure/http/handlers"
)

// Dependencies is everything the router needs to build the HTTP surface.
type Dependencies struct {
	Auth  ports.AuthService
	Users ports.UserService
	Tools ports.ToolService

	Cookie   *middleware.SessionCookie
	HomePath string

	// LoginRatePerMinute <= 0 disables the login throttle.
	LoginRatePerMinute float64
	LoginRateBurst     int

	HealthChecks []handlers.DependencyCheck
	Logger       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	e.Use(middleware.Authenticate(deps.Auth, deps.Cookie))
	e.Use(middleware.CSRF())

	authHandler := handler.NewAuthHandler(deps.Auth, deps.Users, deps.Cookie, deps.HomePath)
	toolHandler := handler.NewToolHandler(deps.Tools)
	loginLimit := middleware.LoginRateLimit(deps.LoginRatePerMinute, deps.LoginRateBurst)
	requireAuth := middleware.RequireAuth()
	can := func(action domain.Action) echo.MiddlewareFunc {
		return middleware.Authorize(deps.Auth, action)
	}

	// --- Auth routes ---
	e.POST("/login", authHandler.Login, loginLimit)
	e.POST("/register", authHandler.Register, loginLimit)
	e.POST("/logout", authHandler.Logout, requireAuth)
	e.GET("/user", authHandler.User, requireAuth)
	e.PATCH("/user/profile", authHandler.UpdateProfile, requireAuth)
	e.GET("/csrf-cookie", authHandler.CSRFCookie)
	e.GET("/roles", authHandler.Roles)
	e.PUT("/users/:id/role", authHandler.ChangeRole, can(domain.ActionUserManage))

	// --- Catalog ---
	tools := e.Group("/tools", requireAuth)
	tools.GET("", toolHandler.List)
	tools.GET("/:id", toolHandler.Get)
	tools.POST("", toolHandler.Create, can(domain.ActionToolCreate))
	tools.PUT("/:id", toolHandler.Update, can(domain.ActionToolUpdate))
	tools.DELETE("/:id", toolHandler.Delete, can(domain.ActionToolDelete))

	categories := e.Group("/categories", requireAuth)
	categories.GET("", toolHandler.ListCategories)
	categories.POST("", toolHandler.CreateCategory, can(domain.ActionCategoryCreate))

	e.GET("/dashboard", toolHandler.Dashboard, requireAuth)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.HealthChecks...)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	// --- Ops ---
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Status >= 500 {
				evt = log.Error().Err(v.Error)
			}
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Str("credential", string(middleware.Principal(c).Kind())).
				Msg("request")
			return nil
		},
	})
}
