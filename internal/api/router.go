package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/tasklist/tasklist-api/docs"
	"github.com/tasklist/tasklist-api/internal/api/handler"
	"github.com/tasklist/tasklist-api/internal/api/middleware"
	"github.com/tasklist/tasklist-api/internal/core/ports"
	"github.com/tasklist/tasklist-api/internal/infrastructure/http/handlers"
)

// Deps collects everything the router wires into handlers.
type Deps struct {
	Log         zerolog.Logger
	Auth        ports.AuthService
	Users       ports.UserService
	Tasks       ports.TaskService
	AvatarLimit int64
	FilesDir    string
	FilesPrefix string
	// Checks are run by the readiness probe, keyed by dependency name.
	Checks map[string]handlers.Check
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(middleware.Metrics())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(echomiddleware.BodyLimit(bodyLimit(d.AvatarLimit)))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(d.Auth)
	userHandler := handler.NewUserHandler(d.Users, d.AvatarLimit)
	taskHandler := handler.NewTaskHandler(d.Tasks)
	requireAuth := middleware.Auth(d.Auth)

	// --- Auth routes ---
	e.POST("/auth", authHandler.Login)

	// --- User routes ---
	users := e.Group("/users")
	users.POST("", userHandler.Create)
	users.GET("", userHandler.List)
	users.POST("/upload", userHandler.UploadAvatar, requireAuth)
	users.GET("/:id", userHandler.Get)
	users.PATCH("/:id", userHandler.Update, requireAuth)
	users.DELETE("/:id", userHandler.Delete, requireAuth)

	// --- Task routes ---
	tasks := e.Group("/tasks")
	tasks.GET("", taskHandler.List)
	tasks.POST("", taskHandler.Create, requireAuth)
	tasks.GET("/:id", taskHandler.Get)
	tasks.PATCH("/:id", taskHandler.Update, requireAuth)
	tasks.DELETE("/:id", taskHandler.Delete, requireAuth)

	// --- Static avatars, docs and metrics ---
	if d.FilesDir != "" && d.FilesPrefix != "" {
		e.Static(d.FilesPrefix, d.FilesDir)
	}
	e.GET("/docs/*", echoSwagger.WrapHandler)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.Checks)

	e.GET("/health", healthHandler.Liveness)            // liveness
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness

	return e
}

// bodyLimit leaves room for multipart framing around the largest avatar.
func bodyLimit(avatarLimit int64) string {
	const overhead = 1 << 20
	if avatarLimit <= 0 {
		avatarLimit = 3 << 20
	}
	return fmt.Sprintf("%dK", (avatarLimit+overhead)/1024+1)
}

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
