package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/timeout"

	"github.com/jhoicas/puntoventa-api/internal/application/alerts"
	"github.com/jhoicas/puntoventa-api/internal/application/inventory"
	"github.com/jhoicas/puntoventa-api/internal/application/offers"
	"github.com/jhoicas/puntoventa-api/internal/application/reports"
	"github.com/jhoicas/puntoventa-api/internal/application/sales"
	"github.com/jhoicas/puntoventa-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AppName        string
	Sales          *sales.Ledger
	Offers         *offers.Service
	Inventory      *inventory.Service
	Alerts         *alerts.Service
	Reports        *reports.Service
	Policy         *Policy
	JWTSecret      string
	Logger         *logger.Logger
	Production     bool
	RequestTimeout time.Duration
	ExpiryDays     int
}

// NewApp crea la aplicación Fiber con el manejador de errores, recover, /health y las rutas de la API.
func NewApp(deps RouterDeps) *fiber.App {
	errs := NewErrorMapper(deps.Logger, deps.Production)
	app := fiber.New(fiber.Config{
		AppName:      deps.AppName,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: errs.FiberErrorHandler,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})

	Router(app, deps, errs)
	return app
}

// Router registra las rutas de la API. Todas requieren Bearer Token y pasan por la tabla de permisos.
func Router(app *fiber.App, deps RouterDeps, errs *ErrorMapper) {
	policy := deps.Policy
	if policy == nil {
		policy = DefaultPolicy()
	}
	val := NewValidator()
	withTimeout := func(h fiber.Handler) fiber.Handler {
		if deps.RequestTimeout <= 0 {
			return h
		}
		return timeout.NewWithContext(h, deps.RequestTimeout)
	}
	can := func(resource, action string) fiber.Handler {
		return Authorize(policy, resource, action)
	}

	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Ventas
	saleHandler := NewSaleHandler(deps.Sales, deps.Reports, val, errs)
	api.Post("/ventas", can(ResourceSales, ActionCreate), withTimeout(saleHandler.Create))
	api.Get("/ventas", can(ResourceSales, ActionRead), withTimeout(saleHandler.List))
	api.Get("/ventas/:id", can(ResourceSales, ActionRead), withTimeout(saleHandler.GetByID))
	api.Get("/ventas/:id/ticket", can(ResourceSales, ActionRead), withTimeout(saleHandler.Ticket))

	// Ofertas y asignación a productos
	offerHandler := NewOfferHandler(deps.Offers, val, errs)
	api.Post("/producto-oferta/assign", can(ResourceOffers, ActionUpdate), withTimeout(offerHandler.Assign))
	api.Post("/producto-oferta/unassign", can(ResourceOffers, ActionUpdate), withTimeout(offerHandler.Unassign))
	api.Get("/productos/:id/ofertas", can(ResourceOffers, ActionRead), withTimeout(offerHandler.ActiveForProduct))

	ofertas := api.Group("/ofertas")
	ofertas.Post("/", can(ResourceOffers, ActionCreate), withTimeout(offerHandler.Create))
	ofertas.Get("/", can(ResourceOffers, ActionRead), withTimeout(offerHandler.List))
	ofertas.Get("/:id", can(ResourceOffers, ActionRead), withTimeout(offerHandler.GetByID))
	ofertas.Patch("/:id", can(ResourceOffers, ActionUpdate), withTimeout(offerHandler.Update))
	ofertas.Delete("/:id", can(ResourceOffers, ActionDelete), withTimeout(offerHandler.Delete))
	ofertas.Get("/:id/productos", can(ResourceOffers, ActionRead), withTimeout(offerHandler.Products))

	// Inventario
	inventoryHandler := NewInventoryHandler(deps.Inventory, val, errs)
	api.Post("/inventario/ajustes", can(ResourceInventory, ActionUpdate), withTimeout(inventoryHandler.Adjust))
	api.Get("/inventario/historial/:productId", can(ResourceInventory, ActionRead), withTimeout(inventoryHandler.History))

	// Alertas
	alertHandler := NewAlertHandler(deps.Alerts, deps.ExpiryDays, errs)
	api.Get("/alertas", can(ResourceAlerts, ActionRead), withTimeout(alertHandler.ListPending))
	api.Patch("/alertas/:id/atender", can(ResourceAlerts, ActionUpdate), withTimeout(alertHandler.Acknowledge))
	api.Get("/productos/por-caducar", can(ResourceAlerts, ActionRead), withTimeout(alertHandler.Expiring))

	// Reportes
	reportHandler := NewReportHandler(deps.Reports, errs)
	api.Get("/reportes/ventas-diarias", can(ResourceReports, ActionRead), withTimeout(reportHandler.DailySales))
}
