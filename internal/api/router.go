package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/stitchboard/tailor-admin/docs"
	"github.com/stitchboard/tailor-admin/internal/api/handler"
	"github.com/stitchboard/tailor-admin/internal/api/middleware"
	"github.com/stitchboard/tailor-admin/internal/core/domain"
	"github.com/stitchboard/tailor-admin/internal/core/ports"
)

// RouterConfig carries everything the HTTP layer needs.
type RouterConfig struct {
	Accounts     ports.AccountService
	Clients      ports.ClientService
	Readiness    map[string]handler.DependencyCheck
	Cookie       handler.CookieOptions
	AllowOrigins []string
	Logger       zerolog.Logger

	// Registry receives the HTTP request metrics. Nil uses the default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(cfg.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.AllowOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	registerMetrics(e, cfg.Registry)

	// --- Health probes and docs (no auth required) ---
	health := handler.NewHealthHandler()
	readiness := handler.NewReadinessHandler(cfg.Readiness)
	e.GET("/ping", health.Ping)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", readiness.Readiness)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	accounts := handler.NewAccountHandler(cfg.Accounts, cfg.Cookie)
	clients := handler.NewClientHandler(cfg.Clients)
	auth := middleware.Auth(cfg.Accounts)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	v1 := e.Group("/api/v1")

	// --- Account routes ---
	user := v1.Group("/user")
	user.POST("/signup", accounts.SignUp)
	user.POST("/create-user", accounts.SignUp)
	user.POST("/login", accounts.LogIn)
	user.POST("/reset-password", accounts.ResetPassword)
	user.POST("/logout", accounts.LogOut, auth)
	user.GET("/me", accounts.Me, auth)
	user.GET("/allusers", accounts.ListUsers, auth)
	user.DELETE("/remove/:id", accounts.Remove, auth, adminOnly)
	user.PATCH("/update/:id", accounts.Update, auth, adminOnly)
	user.PUT("/updatepassword/:id", accounts.UpdatePassword, auth, adminOnly)
	user.POST("/recovery-token/:id", accounts.IssueRecoveryToken, auth, adminOnly)

	// --- Measurement record routes ---
	admin := v1.Group("/admin", auth)
	admin.POST("/create-measurement", clients.Create)
	admin.GET("/client-details", clients.List)
	admin.PUT("/update/:id", clients.Update)
	admin.DELETE("/remove/:id", clients.Remove, adminOnly)

	return e
}

func registerMetrics(e *echo.Echo, registry *prometheus.Registry) {
	skipProbes := func(c echo.Context) bool {
		p := c.Path()
		return p == "/metrics" || strings.HasPrefix(p, "/health") || p == "/ping"
	}

	if registry == nil {
		e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Subsystem: "tailorshop",
			Skipper:   skipProbes,
		}))
		e.GET("/metrics", echoprometheus.NewHandler())
		return
	}

	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "tailorshop",
		Skipper:    skipProbes,
		Registerer: registry,
	}))
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: registry}))
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			switch {
			case v.Status >= http.StatusInternalServerError:
				evt = log.Error().Err(v.Error)
			case v.Error != nil:
				evt = log.Warn().Err(v.Error)
			}
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
