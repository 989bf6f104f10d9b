package routes

import (
	"github.com/gin-gonic/gin"
	shopcontroller "github.com/scantagcandles/oremus-1/controllers/shop"
	"github.com/scantagcandles/oremus-1/middleware"
)

// SetupShopRoutes registers all "/shop/*" endpoints.
func SetupShopRoutes(r *gin.Engine, deps Deps) {
	log := deps.Log

	shopGroup := r.Group("/shop")
	{
		shopGroup.GET("/products", shopcontroller.ListProducts(deps.Products, log))
		shopGroup.GET("/products/:id", shopcontroller.GetProduct(deps.Products, log))
		shopGroup.GET("/shipping-methods", shopcontroller.ListShippingMethods(deps.Shipping, log))

		// ──────────────── Cart ────────────────
		cartGroup := shopGroup.Group("/cart", middleware.OptionalUser(deps.Config.JWTSecret), shopcontroller.ResolveOwner())
		{
			cartGroup.GET("", shopcontroller.GetCart(deps.Cart))                        // GET /shop/cart
			cartGroup.DELETE("", shopcontroller.ClearCart(deps.Cart, log))              // DELETE /shop/cart
			cartGroup.POST("/items", shopcontroller.AddItem(deps.Cart, log))            // POST /shop/cart/items
			cartGroup.PUT("/items/:id", shopcontroller.UpdateItem(deps.Cart, log))      // PUT /shop/cart/items/:id
			cartGroup.DELETE("/items/:id", shopcontroller.RemoveItem(deps.Cart, log))   // DELETE /shop/cart/items/:id
			cartGroup.PUT("/shipping", shopcontroller.SelectShipping(deps.Cart, log))   // PUT /shop/cart/shipping
			cartGroup.POST("/discount", shopcontroller.ApplyDiscount(deps.Cart, log))   // POST /shop/cart/discount
			cartGroup.DELETE("/discount", shopcontroller.ClearDiscount(deps.Cart, log)) // DELETE /shop/cart/discount
			cartGroup.POST("/checkout", shopcontroller.Checkout(deps.Cart, log))        // POST /shop/cart/checkout
		}
	}
}
