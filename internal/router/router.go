package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/becomingxdev/CrisisCheckTest1/internal/handlers"
	"github.com/becomingxdev/CrisisCheckTest1/internal/middleware"
	"github.com/becomingxdev/CrisisCheckTest1/internal/models"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth       *handlers.AuthHandler
	Assistant  *handlers.AssistantHandler
	Sessions   *handlers.SessionHandler
	Reports    *handlers.ReportHandler
	Volunteers *handlers.VolunteerHandler
	Settings   *handlers.SettingsHandler
	Dashboard  *handlers.DashboardHandler
	Health     *handlers.HealthHandler
	WebSocket  http.HandlerFunc
}

func New(
	h Handlers,
	jwtAuth *middleware.JWTAuth,
	assistantLimiter *middleware.RateLimiter,
	authLimiter *middleware.RateLimiter,
	frontendURL string,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(frontendURL))

	r.Get("/health", h.Health.Health)
	r.Get("/ready", h.Health.Ready)

	adminOnly := middleware.RequireRole(string(models.RoleAdmin))

	r.Route("/api", func(r chi.Router) {

		// ──── Assistant Routes (public, rate limited) ────
		r.Group(func(r chi.Router) {
			r.Use(assistantLimiter.Middleware)
			r.Post("/crisis-guide", h.Assistant.CrisisGuide)
			r.Post("/fact-check", h.Assistant.FactCheck)
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", h.Sessions.Create)
			r.Get("/{id}", h.Sessions.Get)
			r.With(assistantLimiter.Middleware).Post("/{id}/messages", h.Sessions.Send)
			r.Delete("/{id}", h.Sessions.Delete)
		})

		// ──── Auth ────
		r.With(authLimiter.Middleware).Post("/auth", h.Auth.Login)

		// ──── Crisis Reports ────
		r.Route("/crisis-reports", func(r chi.Router) {
			r.Get("/", h.Reports.List)
			r.Post("/", h.Reports.Create)
			r.With(jwtAuth.Middleware, adminOnly).Put("/", h.Reports.UpdateStatus)
		})

		// ──── Volunteers ────
		r.Route("/volunteers", func(r chi.Router) {
			r.Get("/", h.Volunteers.List)
			r.Post("/", h.Volunteers.Register)
			r.With(jwtAuth.Middleware, adminOnly).Put("/", h.Volunteers.UpdateStatus)
		})

		// ──── Site Settings ────
		r.Route("/site-settings", func(r chi.Router) {
			r.Get("/", h.Settings.Get)
			r.With(jwtAuth.Middleware, adminOnly).Put("/", h.Settings.Update)
		})

		r.Get("/dashboard-stats", h.Dashboard.Stats)

		// ──── WebSocket ────
		r.Get("/ws", h.WebSocket)
	})

	return r
}
