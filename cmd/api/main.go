package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"noteapi/docs"
	"noteapi/internal/app"
	"noteapi/internal/config"
	handlers "noteapi/internal/http/handler"
	"noteapi/internal/http/middleware"
	"noteapi/internal/logging"
	"noteapi/internal/otel"
)

// @title Note API
// @version 1.0
// @description Notes with metadata in a table store and content in an object store.
// @BasePath /
func main() {
	// Load configuration from an optional YAML file and environment variables (.env auto-loaded if present)
	cfg, err := config.Load()
	if err != nil {
		logging.New("info", time.UTC).WithError(err).Fatal("failed to load configuration")
	}
	log := logging.New(cfg.LogLevel, logging.LoadLocation(cfg.TZName))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize tracing")
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.WithError(err).Warn("tracing shutdown")
		}
	}()

	// Metadata store, blob store and the note service
	c, err := app.New(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize note service")
	}
	defer c.Close()

	promMiddleware, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.WithError(err).Fatal("failed to register metrics")
	}

	fiberApp := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Global middleware: tracing first so request ids and logs see the span
	fiberApp.Use(otelfiber.Middleware())
	fiberApp.Use(middleware.RequestID())
	fiberApp.Use(middleware.Logger(log))
	fiberApp.Use(promMiddleware.Handler())

	fiberApp.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	handlers.RegisterRoutes(fiberApp, c.Repo, c.Service, log)

	// Swagger UI with dynamic host and scheme
	fiberApp.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	go func() {
		<-ctx.Done()
		if err := fiberApp.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.WithError(err).Warn("server shutdown")
		}
	}()

	addr := ":" + cfg.Port
	log.WithField("addr", addr).Info("listening")
	if err := fiberApp.Listen(addr); err != nil {
		log.WithError(err).Fatal("failed to start server")
	}
}
