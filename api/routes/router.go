package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jcastellanos/marketcart-backend/api/controllers"
	"github.com/jcastellanos/marketcart-backend/api/middleware"
	authsvc "github.com/jcastellanos/marketcart-backend/internal/auth"
	ordersvc "github.com/jcastellanos/marketcart-backend/internal/orders"
	productsvc "github.com/jcastellanos/marketcart-backend/internal/products"
	usersvc "github.com/jcastellanos/marketcart-backend/internal/users"
	"github.com/jcastellanos/marketcart-backend/pkg/auth/session"
	"github.com/jcastellanos/marketcart-backend/pkg/config"
	"github.com/jcastellanos/marketcart-backend/pkg/db"
	"github.com/jcastellanos/marketcart-backend/pkg/logger"
	"github.com/jcastellanos/marketcart-backend/pkg/metrics"
	"github.com/jcastellanos/marketcart-backend/pkg/redis"
)

// Deps bundles everything the router needs wired in.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       db.Pinger
	Redis    *redis.Client
	Sessions session.AccessSessionChecker
	Metrics  *metrics.HTTPMetrics
	Gatherer prometheus.Gatherer

	Auth     authsvc.Service
	Users    usersvc.Service
	Products productsvc.Service
	Orders   ordersvc.Service
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(d.Metrics),
		middleware.CORS(),
	)

	authed := middleware.Auth(cfg.JWT, d.Sessions, logg)
	public := middleware.OptionalAuth(cfg.JWT, d.Sessions, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, d.DB, d.Redis, logg))
	})

	if d.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.Register(d.Auth, logg))
		r.Post("/login", controllers.Login(d.Auth, logg))
		r.Post("/refresh", controllers.Refresh(d.Auth, logg))
		r.Post("/logout", controllers.Logout(d.Auth, logg))
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		// Catalog reads are public; guests get the visible subset.
		r.With(public).Get("/", controllers.ListProducts(d.Products, logg))
		r.With(public).Get("/{id}", controllers.GetProduct(d.Products, logg))

		r.Group(func(r chi.Router) {
			r.Use(authed)
			r.Post("/", controllers.CreateProduct(d.Products, logg))
			r.Put("/{id}", controllers.UpdateProduct(d.Products, logg))
			r.Delete("/{id}", controllers.DeleteProduct(d.Products, logg))
			r.Put("/{id}/stock", controllers.UpdateProductStock(d.Products, logg))
			r.Put("/{id}/status", controllers.UpdateProductStatus(d.Products, logg))
		})
	})

	r.Route("/api/v1/users", func(r chi.Router) {
		r.Use(authed)
		r.Get("/", controllers.ListUsers(d.Users, logg))
		r.Post("/", controllers.CreateUser(d.Users, logg))
		r.Get("/{id}", controllers.GetUser(d.Users, logg))
		r.Put("/{id}", controllers.UpdateUser(d.Users, logg))
		r.Delete("/{id}", controllers.DeleteUser(d.Users, logg))
	})

	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Use(authed)
		r.Get("/", controllers.ListOrders(d.Orders, logg))
		r.Post("/", controllers.CreateOrder(d.Orders, logg))
		r.Get("/{id}", controllers.GetOrder(d.Orders, logg))
		r.Delete("/{id}", controllers.DeleteOrder(d.Orders, logg))
		r.Put("/{id}/status", controllers.UpdateOrderStatus(d.Orders, logg))

		r.Route("/{orderID}/items", func(r chi.Router) {
			r.Post("/", controllers.AddOrderItem(d.Orders, logg))
			r.Put("/{itemID}", controllers.UpdateOrderItem(d.Orders, logg))
			r.Delete("/{itemID}", controllers.RemoveOrderItem(d.Orders, logg))
		})
	})

	return r
}
