package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"toolplanet/services/marketplace-api/internal/auth"
	"toolplanet/services/marketplace-api/internal/http/handlers"
	"toolplanet/shared/pkg/metrics"
)

type Handlers struct {
	Products *handlers.ProductsHandler
	Users    *handlers.UsersHandler
	Orders   *handlers.OrdersHandler
	Reviews  *handlers.ReviewsHandler
	Profiles *handlers.ProfilesHandler
	Payments *handlers.PaymentsHandler
}

type Options struct {
	Service string
	Log     zerolog.Logger
	Gate    *auth.Gate
	Roles   auth.UserLookup
}

func NewRouter(opts Options, h *Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(AccessLog(opts.Log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(metrics.Middleware(opts.Service))
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/", handlers.Root)
	r.Get("/health", handlers.Health)

	r.Get("/products", h.Products.List)
	r.Get("/product/{id}", h.Products.Get)
	r.Put("/user/{email}", h.Users.Upsert)
	r.Get("/user/admin/{email}", h.Users.IsAdmin)
	r.Post("/orders", h.Orders.Create)
	r.Get("/reviews", h.Reviews.List)

	r.Group(func(r chi.Router) {
		r.Use(opts.Gate.Middleware)

		r.With(auth.RequireOwnerQuery("email")).Get("/order", h.Orders.ListByCustomer)
		r.Get("/order/{id}", h.Orders.Get)
		r.Delete("/order/{id}", h.Orders.Delete)
		r.Post("/reviews", h.Reviews.Create)
		r.Put("/userprofile", h.Profiles.Upsert)
		r.With(auth.RequireOwnerQuery("userEmail")).Get("/userprofile", h.Profiles.Get)
		r.Get("/users", h.Users.List)
		r.Post("/create-payment-intent", h.Payments.CreateIntent)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdmin(opts.Roles))

			r.Put("/user/admin/{email}", h.Users.MakeAdmin)
			r.Post("/product", h.Products.Create)
			r.Delete("/product/{id}", h.Products.Delete)
		})
	})
	return r
}
