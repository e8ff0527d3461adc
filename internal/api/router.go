package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/dashspec/engine/internal/api/handlers"
	mw "github.com/dashspec/engine/internal/api/middleware"
)

type Dependencies struct {
	Verifier       mw.TokenVerifier
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
	// SwaggerURL is where the UI fetches the document; defaults to a
	// path relative to /docs/.
	SwaggerURL string

	HealthHandler   *handlers.HealthHandler
	AuthHandler     *handlers.AuthHandler
	ProjectsHandler *handlers.ProjectsHandler
	ChatHandler     *handlers.ChatHandler
	TasksHandler    *handlers.TasksHandler
	ExportHandler   *handlers.ExportHandler
}

func NewRouter(dep Dependencies) http.Handler {
	r := chi.NewRouter()

	// Built-in middleware
	r.Use(mw.RequestID)
	r.Use(mw.Recovery)
	r.Use(mw.Logging)
	r.Use(mw.CORS(dep.AllowedOrigins))
	if dep.RateLimitRPS > 0 {
		r.Use(mw.RateLimit(dep.RateLimitRPS, dep.RateLimitBurst))
	}
	r.Use(chimid.Compress(5))

	// Health endpoints
	hh := dep.HealthHandler
	if hh == nil {
		hh = handlers.NewHealthHandler(nil)
	}
	r.Get("/healthz", hh.Liveness)
	r.Get("/readyz", hh.Readiness)

	// Swagger documentation
	swaggerURL := dep.SwaggerURL
	if swaggerURL == "" {
		swaggerURL = "doc.json"
	}
	r.Get("/docs/*", httpSwagger.Handler(httpSwagger.URL(swaggerURL)))

	r.Route("/api/v1", func(api chi.Router) {
		// Auth routes (public)
		api.Route("/auth", func(ar chi.Router) {
			ar.Post("/register", dep.AuthHandler.Register)
			ar.Post("/login", dep.AuthHandler.Login)
			ar.Post("/logout", dep.AuthHandler.Logout)
		})

		// Protected routes
		api.Group(func(protected chi.Router) {
			protected.Use(mw.Auth(dep.Verifier))

			protected.Route("/projects", func(pr chi.Router) {
				pr.Get("/", dep.ProjectsHandler.List)
				pr.Post("/", dep.ProjectsHandler.Create)

				pr.Route("/{id}", func(p chi.Router) {
					p.Get("/", dep.ProjectsHandler.Get)
					p.Put("/", dep.ProjectsHandler.Update)
					p.Delete("/", dep.ProjectsHandler.Delete)
					p.Post("/done", dep.ProjectsHandler.MarkDone)
					p.Post("/enhancements", dep.ProjectsHandler.CreateEnhancement)
					p.Get("/versions", dep.ProjectsHandler.Versions)
					p.Get("/history", dep.ProjectsHandler.History)
					p.Patch("/autosave", dep.ProjectsHandler.Autosave)

					p.Get("/chat/{flow}", dep.ChatHandler.Resume)
					p.Post("/chat/{flow}", dep.ChatHandler.Submit)
					p.Delete("/chat/{flow}", dep.ChatHandler.Reset)

					p.Get("/tasks", dep.TasksHandler.List)
					p.Post("/tasks", dep.TasksHandler.Create)
					p.Put("/tasks/order", dep.TasksHandler.Reorder)
					p.Patch("/tasks/{taskID}", dep.TasksHandler.Update)
					p.Delete("/tasks/{taskID}", dep.TasksHandler.Delete)

					p.Get("/export", dep.ExportHandler.Download)
					p.Post("/exports", dep.ExportHandler.Enqueue)
					p.Get("/exports/latest", dep.ExportHandler.Latest)
				})
			})
		})
	})

	return r
}
