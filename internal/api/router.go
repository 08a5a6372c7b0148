package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/librarydesk/library-admin/docs" // swagger docs
	"github.com/librarydesk/library-admin/internal/api/handler"
	"github.com/librarydesk/library-admin/internal/api/middleware"
	"github.com/librarydesk/library-admin/internal/core/domain"
	"github.com/librarydesk/library-admin/internal/core/ports"
)

// Deps are the services and probes the router exposes.
type Deps struct {
	Catalog   ports.CatalogService
	Directory ports.DirectoryService
	Auth      ports.AuthService
	Readiness *handler.ReadinessHandler
	JWTSecret string
	Log       zerolog.Logger

	// Registry receives the HTTP metrics; nil means the default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = jsonSerializer{}
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echomiddleware.CORS())

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if d.Registry != nil {
		registerer, gatherer = d.Registry, d.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "library",
		Registerer: registerer,
	}))

	// --- Operational routes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readiness := d.Readiness
	if readiness == nil {
		readiness = handler.NewReadinessHandler(nil)
	}

	e.GET("/health", healthHandler.Liveness)    // liveness
	e.GET("/health/ready", readiness.Readiness) // readiness
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(d.Auth)
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	auth := middleware.Auth(d.JWTSecret, d.Directory)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Book catalog ---
	books := handler.NewBookHandler(d.Catalog, d.Directory)
	bg := e.Group("/books", auth)
	bg.GET("", books.List)
	bg.POST("", books.Create, adminOnly)
	bg.GET("/search", books.Search)
	bg.POST("/search", books.Search)
	bg.GET("/:id", books.Show)
	bg.GET("/:id/edit", books.Edit)
	bg.PATCH("/:id", books.Update, adminOnly)
	bg.DELETE("/:id", books.Delete, adminOnly)
	bg.PATCH("/:id/take", books.Take)
	bg.PATCH("/:id/free", books.Free)
	bg.GET("/:id/history", books.History, adminOnly)

	// --- Person directory ---
	people := handler.NewPersonHandler(d.Directory)
	pg := e.Group("/people", auth)
	pg.GET("", people.List, adminOnly)
	pg.POST("", people.Create)
	pg.GET("/search", people.Search, adminOnly)
	pg.POST("/search", people.Search, adminOnly)
	pg.GET("/:id", people.Show)
	pg.GET("/:id/edit", people.Edit)
	pg.PATCH("/:id", people.Update)
	pg.DELETE("/:id", people.Delete, adminOnly)

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
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}
