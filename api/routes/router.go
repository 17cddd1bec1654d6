package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/herbpoint/kiosk-backend/api/controllers"
	"github.com/herbpoint/kiosk-backend/api/middleware"
	cartsvc "github.com/herbpoint/kiosk-backend/internal/cart"
	catalogsvc "github.com/herbpoint/kiosk-backend/internal/catalog"
	checkoutsvc "github.com/herbpoint/kiosk-backend/internal/checkout"
	customerssvc "github.com/herbpoint/kiosk-backend/internal/customers"
	devicessvc "github.com/herbpoint/kiosk-backend/internal/devices"
	orderssvc "github.com/herbpoint/kiosk-backend/internal/orders"
	recsvc "github.com/herbpoint/kiosk-backend/internal/recommendations"
	sessionsvc "github.com/herbpoint/kiosk-backend/internal/session"
	storessvc "github.com/herbpoint/kiosk-backend/internal/stores"
	"github.com/herbpoint/kiosk-backend/pkg/config"
	"github.com/herbpoint/kiosk-backend/pkg/logger"
	"github.com/herbpoint/kiosk-backend/pkg/metrics"
	pkgredis "github.com/herbpoint/kiosk-backend/pkg/redis"
)

// Deps carries everything the route table wires into handlers. The
// session service doubles as the token liveness check for the kiosk
// middleware.
type Deps struct {
	Config *config.Config
	Logger *logger.Logger

	DB    controllers.Pinger
	Cache controllers.Pinger

	IdempotencyStore pkgredis.IdempotencyStore
	HTTPMetrics      *metrics.HTTPMetrics
	MetricsHandler   http.Handler

	Sessions        sessionsvc.Service
	Catalog         catalogsvc.Service
	Cart            cartsvc.Service
	Recommendations recsvc.Service
	Checkout        checkoutsvc.Service
	Orders          orderssvc.Service
	Customers       customerssvc.Service
	Stores          storessvc.Service
	Devices         devicessvc.Service
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.Metrics(d.HTTPMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, d.DB, d.Cache, logg))
	})

	r.Get("/api/public/ping", controllers.PublicPing())

	if d.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", d.MetricsHandler)
	}

	// Session start is the only kiosk endpoint reachable without a token.
	r.Post("/api/v1/kiosk/sessions", controllers.SessionStart(d.Sessions, logg))

	r.Route("/api/v1/kiosk", func(r chi.Router) {
		r.Use(middleware.KioskSession(cfg.JWT, d.Sessions, logg))
		r.Use(middleware.Idempotency(d.IdempotencyStore, logg))

		r.Get("/ping", controllers.KioskPing())

		r.Route("/session", func(r chi.Router) {
			r.Get("/", controllers.SessionGet(d.Sessions, logg))
			r.Put("/language", controllers.SessionSetLanguage(d.Sessions, logg))
			r.Post("/reset", controllers.SessionReset(d.Sessions, logg))
		})

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/", controllers.CatalogBrowse(d.Catalog, logg))
			r.Get("/filters", controllers.CatalogFilters(d.Catalog, logg))
			r.Get("/products/{productId}", controllers.CatalogProduct(d.Catalog, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(d.Cart, logg))
			r.Delete("/", controllers.CartClear(d.Cart, logg))
			r.Post("/items", controllers.CartAddItem(d.Cart, logg))
			r.Put("/items/{lineId}", controllers.CartUpdateItem(d.Cart, logg))
			r.Delete("/items/{lineId}", controllers.CartRemoveItem(d.Cart, logg))
		})

		r.Get("/recommendations", controllers.Recommendations(d.Recommendations, logg))
		r.Post("/checkout", controllers.CheckoutSubmit(d.Checkout, logg))
		r.Get("/orders/{orderId}/confirmation", controllers.OrderConfirmation(d.Orders, logg))
		r.Post("/customers/login", controllers.CustomerLogin(d.Customers, logg))
	})

	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Use(middleware.Idempotency(d.IdempotencyStore, logg))

		r.Get("/address/autocomplete", controllers.AddressAutocomplete(d.Stores, logg))

		r.Route("/stores", func(r chi.Router) {
			r.Get("/", controllers.AdminStoreList(d.Stores, logg))
			r.Post("/", controllers.AdminStoreCreate(d.Stores, logg))
			r.Route("/{storeId}", func(r chi.Router) {
				r.Get("/", controllers.AdminStoreGet(d.Stores, logg))
				r.Put("/", controllers.AdminStoreUpdate(d.Stores, logg))
				r.Delete("/", controllers.AdminStoreDeactivate(d.Stores, logg))
				r.Get("/devices", controllers.AdminDeviceList(d.Devices, logg))
				r.Post("/devices", controllers.AdminDeviceRegister(d.Devices, logg))
				r.Get("/orders", controllers.AdminOrderList(d.Orders, logg))
			})
		})

		r.Post("/devices/{deviceId}/heartbeat", controllers.AdminDeviceHeartbeat(d.Devices, logg))
		r.Post("/devices/{deviceId}/retire", controllers.AdminDeviceRetire(d.Devices, logg))
		r.Put("/orders/{orderId}/status", controllers.AdminOrderUpdateStatus(d.Orders, logg))

		r.Route("/customers", func(r chi.Router) {
			r.Post("/", controllers.AdminCustomerCreate(d.Customers, logg))
			r.Get("/{customerId}", controllers.AdminCustomerGet(d.Customers, logg))
			r.Post("/{customerId}/login-code", controllers.AdminCustomerRotateCode(d.Customers, logg))
		})
	})

	return r
}
