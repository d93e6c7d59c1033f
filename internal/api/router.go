package api

import (
	"net"
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/inkpress/blog-api/docs"
	"github.com/inkpress/blog-api/internal/api/handler"
	"github.com/inkpress/blog-api/internal/api/middleware"
	"github.com/inkpress/blog-api/internal/core/domain"
	"github.com/inkpress/blog-api/internal/core/ports"
	"github.com/inkpress/blog-api/internal/infrastructure/http/handlers"
)

// Deps are the collaborators the router wires into handlers and middleware.
type Deps struct {
	Auth     ports.AuthService
	Gate     ports.Authenticator
	Posts    ports.PostService
	Comments ports.CommentService

	// Audit receives access denials raised before a handler runs.
	Audit ports.AuditSink

	// Limiter is optional; without it requests are not rate limited.
	Limiter middleware.Limiter

	// TrustedProxies are the only peers whose X-Forwarded-For names the
	// client. Empty means the socket peer is the client.
	TrustedProxies []*net.IPNet

	// Readiness lists the dependencies checked by GET /health/ready.
	Readiness map[string]handlers.Pinger

	CORSOrigins []string

	// MetricsRegisterer receives the HTTP request metrics. Defaults to the
	// global Prometheus registerer.
	MetricsRegisterer prometheus.Registerer

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)
	e.IPExtractor = middleware.ClientIP(d.TrustedProxies)

	registerer := d.MetricsRegisterer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: d.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "blog",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Operational routes (no auth required) ---
	health := handlers.NewHealthHandler()
	ready := handlers.NewHealthDependenciesHandler(d.Readiness)

	e.GET("/", health.Banner)
	e.GET("/health", health.Liveness)       // liveness  – is the process alive?
	e.GET("/health/ready", ready.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- API ---
	api := e.Group("/api")
	if d.Limiter != nil {
		api.Use(middleware.RateLimit(d.Limiter, d.Log))
	}

	required := middleware.Auth(d.Gate)
	optional := middleware.OptionalAuth(d.Gate)

	authHandler := handler.NewAuthHandler(d.Auth)
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", authHandler.Me, required)

	postHandler := handler.NewPostHandler(d.Posts)
	commentHandler := handler.NewCommentHandler(d.Comments)

	posts := api.Group("/posts")
	posts.GET("", postHandler.List)
	posts.GET("/all", postHandler.ListAll, required, middleware.Authorize(domain.OpListAllPosts, d.Audit))
	posts.GET("/my", postHandler.ListMine, required, middleware.Authorize(domain.OpListOwnPosts, d.Audit))
	posts.GET("/:id", postHandler.Get, optional)
	posts.POST("", postHandler.Create, required, middleware.Authorize(domain.OpCreatePost, d.Audit))
	posts.PUT("/:id", postHandler.Update, required)
	posts.DELETE("/:id", postHandler.Delete, required)
	posts.PUT("/:id/publish", postHandler.TogglePublish, required)
	posts.POST("/:id/comments", commentHandler.Create, optional)

	comments := api.Group("/comments")
	comments.GET("", commentHandler.List, optional)
	comments.GET("/:id", commentHandler.Get, optional)
	comments.PUT("/:id", commentHandler.Update, required)
	comments.DELETE("/:id", commentHandler.Delete, required)

	return e
}

// requestLogger writes one zerolog entry per request.
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
			ev := log.Info()
			if v.Status >= http.StatusInternalServerError {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
