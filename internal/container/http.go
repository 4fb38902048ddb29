package container

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/serroba/shortlink-service/internal/auth"
	"github.com/serroba/shortlink-service/internal/handlers"
	"github.com/serroba/shortlink-service/internal/health"
	"github.com/serroba/shortlink-service/internal/links"
	"github.com/serroba/shortlink-service/internal/metrics"
	"github.com/serroba/shortlink-service/internal/middleware"
	"go.uber.org/zap"
)

// HTTPPackage provides the router and the API with all routes and
// middlewares registered.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(_ *do.Injector) (*chi.Mux, error) {
		router := chi.NewMux()
		router.Handle("/metrics", metrics.Handler())

		return router, nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		logger := do.MustInvoke[*zap.Logger](i)
		router := do.MustInvoke[*chi.Mux](i)

		api := humachi.New(router, huma.DefaultConfig("Short Link Service", "1.0.0"))

		api.UseMiddleware(
			middleware.RequestMetadata(api),
			auth.Identity(api, do.MustInvoke[*auth.TokenManager](i)),
		)

		linkHandler := handlers.NewLinkHandler(do.MustInvoke[*links.Service](i), logger)
		authHandler := handlers.NewAuthHandler(do.MustInvoke[*auth.Service](i), logger)
		handlers.RegisterRoutes(api, linkHandler, authHandler)

		healthHandler := health.NewHandler(
			health.NewRedisChecker(do.MustInvoke[*redis.Client](i)),
			health.NewPostgresChecker(do.MustInvoke[*pgxpool.Pool](i)),
		)
		health.RegisterRoutes(api, healthHandler)

		return api, nil
	})
}
