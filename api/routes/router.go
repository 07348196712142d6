package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shopkeeperhq/shopkeeper-backend/api/controllers"
	"github.com/shopkeeperhq/shopkeeper-backend/api/middleware"
	checkoutsvc "github.com/shopkeeperhq/shopkeeper-backend/internal/checkout"
	inventorysvc "github.com/shopkeeperhq/shopkeeper-backend/internal/inventory"
	ledgersvc "github.com/shopkeeperhq/shopkeeper-backend/internal/ledger"
	settingssvc "github.com/shopkeeperhq/shopkeeper-backend/internal/settings"
	"github.com/shopkeeperhq/shopkeeper-backend/pkg/config"
	"github.com/shopkeeperhq/shopkeeper-backend/pkg/db"
	"github.com/shopkeeperhq/shopkeeper-backend/pkg/logger"
	pkgredis "github.com/shopkeeperhq/shopkeeper-backend/pkg/redis"
)

// Deps carries everything the HTTP surface needs.
type Deps struct {
	Config    *config.Config
	Logger    *logger.Logger
	DB        db.Pinger
	Redis     pkgredis.Pinger
	IdemStore pkgredis.IdempotencyStore

	Inventory inventorysvc.Service
	Checkout  checkoutsvc.Service
	Ledger    ledgersvc.Service
	Settings  settingssvc.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(deps.IdemStore, logg))

		r.Route("/items", func(r chi.Router) {
			r.Get("/", controllers.ItemList(deps.Inventory, logg))
			r.Post("/", controllers.ItemCreate(deps.Inventory, logg))
			r.Route("/{itemId}", func(r chi.Router) {
				r.Get("/", controllers.ItemDetail(deps.Inventory, logg))
				r.Put("/", controllers.ItemUpdate(deps.Inventory, logg))
				r.Delete("/", controllers.ItemDelete(deps.Inventory, logg))
				r.Post("/adjust", controllers.ItemAdjust(deps.Inventory, logg))
				r.Post("/coil-receipt", controllers.ItemCoilReceipt(deps.Inventory, logg))
			})
		})

		r.Post("/cart/quote", controllers.CartQuote(logg))
		r.Post("/checkout", controllers.Checkout(deps.Checkout, logg))

		r.Route("/invoices", func(r chi.Router) {
			r.Get("/", controllers.InvoiceList(deps.Checkout, logg))
			r.Get("/{invoiceId}", controllers.InvoiceDetail(deps.Checkout, logg))
		})

		r.Route("/ledger", func(r chi.Router) {
			r.Get("/", controllers.LedgerList(deps.Ledger, logg))
			r.Get("/export", controllers.LedgerExport(deps.Ledger, logg))
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/profile", controllers.SettingsProfile(deps.Settings, logg))
			r.Put("/profile", controllers.SettingsUpdate(deps.Settings, logg))
		})

		r.Get("/dashboard/summary", controllers.DashboardSummary(deps.Inventory, deps.Ledger, logg))
		r.Get("/reports/stock-by-category", controllers.StockByCategory(deps.Inventory, logg))
	})

	return r
}
