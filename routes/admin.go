package routes

import (
	"github.com/gin-gonic/gin"
	orderControllers "github.com/scantagcandles/oremus-1/controllers/order"
	productcontroller "github.com/scantagcandles/oremus-1/controllers/product"
	"github.com/scantagcandles/oremus-1/middleware"
)

// SetupAdminRoutes registers all "/admin/*" endpoints. Requires API-Key middleware.
func SetupAdminRoutes(r *gin.Engine, deps Deps) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateAPIKey(deps.Config.AdminAPIKey))
	{
		// ─────────── Candle Catalog ───────────
		productAdmin := adminGroup.Group("/products")
		{
			productAdmin.GET("/export-excel", productcontroller.ExportProductsToExcel(deps.Products))
			productAdmin.POST("/import-excel", productcontroller.ImportProductsFromExcel(deps.Products, deps.Log))
		}

		// ─────────── Checkout Handoffs ───────────
		checkoutAdmin := adminGroup.Group("/checkouts")
		{
			checkoutAdmin.GET("", orderControllers.GetAllCheckoutsHandler(deps.Checkouts, deps.Log))
			checkoutAdmin.GET("/:reference", orderControllers.GetCheckoutHandler(deps.Checkouts, deps.Log))
			checkoutAdmin.PUT("/:reference/status", orderControllers.UpdateCheckoutStatusHandler(deps.Checkouts, deps.Cart, deps.Log))
		}
	}
}
