package routes

import (
	"github.com/gin-gonic/gin"
	prayercontroller "github.com/scantagcandles/oremus-1/controllers/prayer"
	"github.com/scantagcandles/oremus-1/middleware"
)

// SetupPrayerRoutes registers all "/api/prayers/*" endpoints.
func SetupPrayerRoutes(r *gin.Engine, deps Deps) {
	store, log := deps.Prayers, deps.Log
	secret := deps.Config.JWTSecret

	prayerGroup := r.Group("/api/prayers")
	{
		// ──────────────── Public (optional auth) ────────────────
		public := prayerGroup.Group("", middleware.OptionalUser(secret))
		public.GET("", prayercontroller.ListPrayers(store, log))   // GET /api/prayers
		public.GET("/:id", prayercontroller.GetPrayer(store, log)) // GET /api/prayers/:id

		// ──────────────── Authenticated ────────────────
		private := prayerGroup.Group("", middleware.RequireUser(secret))
		private.POST("", prayercontroller.CreatePrayer(store, log))
		private.PUT("/:id", prayercontroller.UpdatePrayer(store, log))
		private.DELETE("/:id", prayercontroller.DeletePrayer(store, log))
		private.GET("/user/my", prayercontroller.MyPrayers(store, log))
		private.GET("/favorites", prayercontroller.FavoritePrayers(store, log))
		private.POST("/:id/favorite", prayercontroller.AddFavorite(store, log))
		private.DELETE("/:id/favorite", prayercontroller.RemoveFavorite(store, log))
	}
}
