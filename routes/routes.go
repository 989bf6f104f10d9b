package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/scantagcandles/oremus-1/cart"
	"github.com/scantagcandles/oremus-1/catalog"
	"github.com/scantagcandles/oremus-1/config"
	healthcontroller "github.com/scantagcandles/oremus-1/controllers/health"
	"github.com/scantagcandles/oremus-1/prayers"
	"go.uber.org/zap"
)

// Deps is everything the handlers are built from.
type Deps struct {
	Config    config.Config
	Log       *zap.Logger
	Prayers   *prayers.Repository
	Products  *catalog.Products
	Shipping  catalog.ShippingCatalog
	Cart      *cart.Service
	Checkouts *cart.GormRecorder
}

// SetupRoutes is the single entry-point that wires up every route group.
func SetupRoutes(r *gin.Engine, deps Deps) {
	r.GET("/health", healthcontroller.Health(deps.Config.Env))

	// Public prayers, optional JWT
	SetupPrayerRoutes(r, deps)

	// Candle shop and cart, keyed by user or device
	SetupShopRoutes(r, deps)

	// Admin routes (API-Key protected)
	SetupAdminRoutes(r, deps)

	r.NoRoute(healthcontroller.NotFound)
}
