package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"gestor/internal/auth"
	"gestor/internal/httpserver/handlers"
	"gestor/internal/metrics"
	"gestor/internal/store"
)

// NewRouter builds the HTTP surface. Auth endpoints are public;
// everything under /v1 runs behind the bearer middleware, and each
// protected resource declares its required module and action before
// any handler logic runs.
func NewRouter(st *store.Store, tokens *auth.TokenService, lg *zap.SugaredLogger) http.Handler {
	creds := auth.NewCredentialStore(st)
	resolver := auth.NewPermissionResolver(st)
	mw := auth.NewMiddleware(tokens, st, resolver, lg)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer, metrics.HTTPMiddleware)

	r.Post("/auth/login", handlers.Login(creds, tokens, st, lg))
	r.Post("/auth/register", handlers.Register(tokens, st, lg))

	r.Route("/v1", func(protected chi.Router) {
		protected.Use(mw.Authenticate)
		protected.Get("/me", handlers.Me(st, lg))

		protected.Group(func(g chi.Router) {
			g.Use(mw.Require("companies", auth.ActionRead))
			g.Get("/companies", handlers.ListCompanies(st, lg))
			g.Get("/companies/{id}", handlers.GetCompany(st, lg))
		})
		protected.Group(func(g chi.Router) {
			g.Use(mw.Require("settings", auth.ActionRead))
			g.Get("/roles/{id}/permissions", handlers.ListRolePermissions(st, lg))
			g.Get("/logs", handlers.Logs(st, lg))
		})
		protected.Group(func(g chi.Router) {
			g.Use(mw.Require("settings", auth.ActionWrite))
			g.Put("/roles/{id}/permissions/{module}", handlers.SetRolePermission(st, lg))
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	return r
}
