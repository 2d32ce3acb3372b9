package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/grocerly/storefront-api/api/controllers"
	"github.com/grocerly/storefront-api/api/middleware"
	"github.com/grocerly/storefront-api/api/responses"
	"github.com/grocerly/storefront-api/internal/address"
	"github.com/grocerly/storefront-api/internal/cart"
	"github.com/grocerly/storefront-api/internal/catalog"
	"github.com/grocerly/storefront-api/internal/demand"
	"github.com/grocerly/storefront-api/internal/orders"
	"github.com/grocerly/storefront-api/pkg/access"
	"github.com/grocerly/storefront-api/pkg/config"
	pkgerrors "github.com/grocerly/storefront-api/pkg/errors"
	"github.com/grocerly/storefront-api/pkg/logger"
	"github.com/grocerly/storefront-api/pkg/metrics"
	pkgredis "github.com/grocerly/storefront-api/pkg/redis"
)

// Deps carries everything the router wires into handlers. Redis, Idempotency,
// HTTPMetrics and MetricsHandler are optional.
type Deps struct {
	DB             controllers.Pinger
	Redis          controllers.Pinger
	Policy         *access.Policy
	Catalog        catalog.Service
	Cart           cart.Service
	Address        address.Service
	Orders         orders.Service
	Demand         demand.Service
	Idempotency    pkgredis.IdempotencyStore
	HTTPMetrics    *metrics.HTTPMetrics
	MetricsHandler http.Handler
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Deps) http.Handler {
	policy := deps.Policy
	if policy == nil {
		policy = access.DefaultPolicy()
	}
	can := func(capability access.Capability) func(http.Handler) http.Handler {
		return middleware.Authorize(policy, capability, logg)
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(cfg.CORS),
	)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		responses.WriteError(req.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "route not found"))
	})

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": deps.DB,
			"redis":    deps.Redis,
		}))
	})
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	r.Route("/api", func(r chi.Router) {
		// Public catalog reads.
		r.Get("/products", controllers.ProductSearch(deps.Catalog, logg))
		r.Get("/category", controllers.CategoryList(deps.Catalog, logg))
		r.Get("/category/{id}", controllers.CategoryGet(deps.Catalog, logg))
		r.Get("/subcategories", controllers.SubcategoryList(deps.Catalog, logg))
		r.Get("/subcategories/category/{categoryId}", controllers.SubcategoryListByCategory(deps.Catalog, logg))
		r.Get("/subcategories/{id}", controllers.SubcategoryGet(deps.Catalog, logg))
		r.Post("/checkout", controllers.CheckoutDeprecated(logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.With(can(access.ProductListAll)).Get("/products/all", controllers.ProductListAll(deps.Catalog, logg))
			r.With(can(access.ProductListOwn)).Get("/products/mine", controllers.ProductListMine(deps.Catalog, logg))
			r.With(can(access.ProductCreate)).Post("/products/add", controllers.ProductCreate(deps.Catalog, logg))
			r.With(can(access.ProductUpdate)).Put("/products/{id}", controllers.ProductUpdate(deps.Catalog, logg))
			r.With(can(access.ProductDelete)).Delete("/products/{id}", controllers.ProductDelete(deps.Catalog, logg))

			r.Group(func(r chi.Router) {
				r.Use(can(access.CategoryWrite))
				r.Post("/category/add", controllers.CategoryCreate(deps.Catalog, logg))
				r.Put("/category/{id}", controllers.CategoryUpdate(deps.Catalog, logg))
				r.Delete("/category/{id}", controllers.CategoryDelete(deps.Catalog, logg))
				r.Post("/subcategories/add", controllers.SubcategoryCreate(deps.Catalog, logg))
				r.Put("/subcategories/{id}", controllers.SubcategoryUpdate(deps.Catalog, logg))
				r.Delete("/subcategories/{id}", controllers.SubcategoryDelete(deps.Catalog, logg))
			})

			r.Route("/cart", func(r chi.Router) {
				r.With(can(access.CartRead)).Get("/", controllers.CartList(deps.Cart, logg))
				r.Group(func(r chi.Router) {
					r.Use(can(access.CartWrite))
					r.Post("/add", controllers.CartAdd(deps.Cart, logg))
					r.Put("/update/{productId}", controllers.CartUpdate(deps.Cart, logg))
					r.Delete("/remove/{productId}", controllers.CartRemove(deps.Cart, logg))
					r.Delete("/clear", controllers.CartClear(deps.Cart, logg))
				})
			})

			r.Route("/address", func(r chi.Router) {
				r.With(can(access.AddressCreate)).Post("/add", controllers.AddressCreate(deps.Address, logg))
				r.With(can(access.AddressRead)).Get("/", controllers.AddressList(deps.Address, logg))
				r.With(can(access.AddressRead)).Get("/{id}", controllers.AddressGet(deps.Address, logg))
				r.With(can(access.AddressWrite)).Put("/{id}", controllers.AddressUpdate(deps.Address, logg))
				r.With(can(access.AddressWrite)).Delete("/{id}", controllers.AddressDelete(deps.Address, logg))
			})

			r.With(can(access.OrderCreate), middleware.Idempotency(deps.Idempotency, logg)).
				Post("/order/add", controllers.OrderPlace(deps.Orders, logg))
			r.With(can(access.OrderRead)).Get("/order/{id}", controllers.OrderDetail(deps.Orders, logg))
			r.With(can(access.OrderRead)).Get("/order-confirmation/{id}", controllers.OrderDetail(deps.Orders, logg))
			r.With(can(access.OrderRead)).Get("/order-history", controllers.OrderHistory(deps.Orders, logg))

			r.With(can(access.DemandRead)).Get("/prediction/demand/{productId}", controllers.DemandForecast(deps.Demand, cfg.Demand, logg))
		})

		r.Get("/products/{id}", controllers.ProductGet(deps.Catalog, logg))
	})

	return r
}
