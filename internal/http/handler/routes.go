package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"noteapi/internal/invoke"
	"noteapi/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers stay thin: parse, call the service, map the result.
func RegisterRoutes(app *fiber.App, p Pinger, svc service.NoteService, log logrus.FieldLogger) {
	app.Get("/health", HealthCheck(p))
	app.Get("/healthz", LivenessProbe())

	app.Post("/notes", SaveNote(svc, log))
	app.Put("/notes", SaveNote(svc, log))
	app.Get("/notes", GetNotes(svc, log))
	app.Delete("/notes", DeleteNote(svc, log))

	admin := app.Group("/admin")
	admin.Post("/purge", PurgeBlobs(svc, log))
	admin.Get("/orphans", ListOrphans(svc, log))

	app.Post("/invoke/:operation", Invoke(invoke.NewHandler(svc, log)))
}
