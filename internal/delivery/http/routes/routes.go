package routes

import (
	"job-board/internal/delivery/http/handler"
	"job-board/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	health *handler.HealthHandler
	jobs   *handler.JobsHandler
	ws     *ws.Handler
}

func NewRegistry(health *handler.HealthHandler, jobs *handler.JobsHandler, wsHandler *ws.Handler) *Registry {
	return &Registry{health: health, jobs: jobs, ws: wsHandler}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerJobs(app)
	r.registerAPI(app)
	r.registerWS(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	if r.health == nil {
		return
	}
	r.health.RegisterRoutes(app)
}

func (r *Registry) registerJobs(app *fiber.App) {
	if r.jobs == nil {
		return
	}
	r.jobs.RegisterRoutes(app.Group("/jobs"))
}

// registerAPI mirrors the job routes under /api for clients that use the
// prefixed paths.
func (r *Registry) registerAPI(app *fiber.App) {
	if r.jobs == nil {
		return
	}
	api := app.Group("/api")
	r.jobs.RegisterRoutes(api.Group("/jobs"))
}

func (r *Registry) registerWS(app *fiber.App) {
	if r.ws == nil {
		return
	}
	r.ws.RegisterRoutes(app)
}
