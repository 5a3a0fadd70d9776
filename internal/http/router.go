package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/rogerio-castellano/product-catalog/docs"
	"github.com/rogerio-castellano/product-catalog/internal/auth"
	"github.com/rogerio-castellano/product-catalog/internal/http/handlers"
	rl "github.com/rogerio-castellano/product-catalog/internal/http/rate_limiter"
	"github.com/rogerio-castellano/product-catalog/internal/logging"
)

type RouterConfig struct {
	// BasePath prefixes every API route, e.g. "/bp".
	BasePath string
	// Issuer guards mutating routes when set.
	Issuer *auth.TokenIssuer
	// Limiter rate-limits every API route when set.
	Limiter *rl.Limiter
	Logger  logging.Logger
}

func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = logging.Nop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(cfg.Logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", handlers.HealthHandler)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("doc.json")))

	api := func(r chi.Router) {
		if cfg.Limiter != nil {
			r.Use(cfg.Limiter.Middleware)
		}

		r.Post("/login", handlers.LoginHandler)
		r.Get("/products", handlers.GetProductsHandler)
		r.Get("/products/verification/{id}", handlers.VerifyProductIDHandler)
		r.Get("/products/{id}", handlers.GetProductByIDHandler)

		r.Group(func(r chi.Router) {
			if cfg.Issuer != nil {
				r.Use(AuthMiddleware(cfg.Issuer))
			}
			r.Post("/products", handlers.CreateProductHandler)
			r.Put("/products/{id}", handlers.UpdateProductHandler)
			r.Delete("/products/{id}", handlers.DeleteProductHandler)
		})
	}

	if cfg.BasePath == "" || cfg.BasePath == "/" {
		r.Group(api)
	} else {
		r.Route(cfg.BasePath, api)
	}
	return r
}
