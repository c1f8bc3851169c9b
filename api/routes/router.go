package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dermalink/dermalink-backend/api/controllers"
	"github.com/dermalink/dermalink-backend/api/middleware"
	"github.com/dermalink/dermalink-backend/internal/auth"
	"github.com/dermalink/dermalink-backend/internal/users"
	"github.com/dermalink/dermalink-backend/pkg/config"
	"github.com/dermalink/dermalink-backend/pkg/enums"
	"github.com/dermalink/dermalink-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	registry *prometheus.Registry,
	authService auth.Service,
	userService *users.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Get("/health/live", controllers.HealthLive(cfg))
	if registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	requireAuth := middleware.Auth(cfg.JWT, userService, logg)
	requireAdmin := middleware.RequireRole(string(enums.UserRoleAdmin), logg)

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.AuthRegister(authService, logg))
		r.Post("/login", controllers.AuthLogin(authService, logg))
		r.Post("/refresh", controllers.AuthRefresh(authService, logg))
		r.With(requireAuth).Get("/me", controllers.AuthMe(userService, logg))
	})

	r.Route("/api/v1/users", func(r chi.Router) {
		r.Use(requireAuth, requireAdmin)
		r.Get("/", controllers.UsersList(userService, logg))
		r.Get("/{id}", controllers.UsersGet(userService, logg))
		r.Patch("/{id}", controllers.UsersUpdate(userService, logg))
		r.Put("/{id}/password", controllers.UsersSetPassword(userService, logg))
		r.Delete("/{id}", controllers.UsersDelete(userService, logg))
	})

	return r
}
