package shopcontroller

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/scantagcandles/oremus-1/cart"
	"github.com/scantagcandles/oremus-1/catalog"
	"github.com/scantagcandles/oremus-1/middleware"
	"github.com/scantagcandles/oremus-1/models"
	"github.com/scantagcandles/oremus-1/pricing"
	"go.uber.org/zap"
)

// Cart is what the handlers need from cart.Service.
type Cart interface {
	Get(ctx context.Context, owner string) cart.View
	AddItem(ctx context.Context, owner, productID string, quantity int) (cart.View, error)
	SetQuantity(ctx context.Context, owner, itemID string, quantity int) (cart.View, error)
	RemoveItem(ctx context.Context, owner, itemID string) (cart.View, error)
	SelectShipping(ctx context.Context, owner, methodID string) (cart.View, error)
	ApplyDiscount(ctx context.Context, owner, code string) (cart.View, error)
	ClearDiscount(ctx context.Context, owner string) (cart.View, error)
	Clear(ctx context.Context, owner string) error
	Checkout(ctx context.Context, owner string) (cart.CheckoutBundle, error)
}

const ownerKey = "cart_owner"

// DeviceHeader identifies anonymous shoppers.
const DeviceHeader = "X-Device-ID"

// ResolveOwner keys the cart by the authenticated user, falling back to
// the device id for guests. It must run after middleware.OptionalUser.
func ResolveOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := middleware.UserID(c); userID != "" {
			c.Set(ownerKey, "user:"+userID)
			c.Next()
			return
		}
		device := strings.TrimSpace(c.GetHeader(DeviceHeader))
		if device == "" || len(device) > 128 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Sign in or send an X-Device-ID header",
			})
			return
		}
		c.Set(ownerKey, "device:"+device)
		c.Next()
	}
}

func owner(c *gin.Context) string {
	return c.GetString(ownerKey)
}

// Money is rendered as fixed two-decimal strings.
type totalsResponse struct {
	Subtotal       string `json:"subtotal"`
	DiscountAmount string `json:"discount_amount"`
	ShippingPrice  string `json:"shipping_price"`
	Total          string `json:"total"`
}

type cartResponse struct {
	Items          []pricing.LineItem      `json:"items"`
	ItemCount      int                     `json:"item_count"`
	ShippingMethod *pricing.ShippingMethod `json:"shipping_method"`
	Discount       *pricing.DiscountCode   `json:"discount"`
	DiscountError  string                  `json:"discount_error,omitempty"`
	Totals         totalsResponse          `json:"totals"`
}

func render(view cart.View) cartResponse {
	items := view.Snapshot.Items
	if items == nil {
		items = []pricing.LineItem{}
	}
	ev := view.Evaluation
	return cartResponse{
		Items:          items,
		ItemCount:      view.Snapshot.ItemCount(),
		ShippingMethod: view.Snapshot.Shipping,
		Discount:       ev.Discount,
		DiscountError:  pricing.Reason(ev.DiscountErr),
		Totals: totalsResponse{
			Subtotal:       ev.Subtotal.StringFixed(2),
			DiscountAmount: ev.DiscountAmount.StringFixed(2),
			ShippingPrice:  ev.ShippingPrice.StringFixed(2),
			Total:          ev.GrandTotal.StringFixed(2),
		},
	}
}

var discountMessages = map[string]string{
	"invalid_code":        "Invalid discount code",
	"not_yet_valid":       "This discount code is not active yet",
	"expired":             "This discount code has expired",
	"usage_limit_reached": "This discount code has already been used up",
	"below_minimum_order": "Order total is below the minimum for this discount code",
}

// respond writes the cart view, or maps err onto a status code. Rejected
// operations still return the unchanged cart so the client stays usable.
func respond(c *gin.Context, log *zap.Logger, view cart.View, err error) {
	if err == nil {
		c.JSON(http.StatusOK, gin.H{"success": true, "data": render(view)})
		return
	}

	body := gin.H{"success": false, "data": render(view)}
	status := http.StatusInternalServerError

	if reason := pricing.Reason(err); reason != "" {
		status = http.StatusUnprocessableEntity
		body["reason"] = reason
		body["error"] = discountMessages[reason]
	} else {
		switch {
		case errors.Is(err, cart.ErrEmptyCart):
			status = http.StatusUnprocessableEntity
			body["reason"] = "empty_cart"
			body["error"] = "Cart is empty"
		case errors.Is(err, cart.ErrInvalidQuantity), errors.Is(err, pricing.ErrInvalidLineItem):
			status = http.StatusBadRequest
			body["error"] = fmt.Sprintf("Quantity must be between 1 and %d", pricing.MaxQuantity)
		case errors.Is(err, cart.ErrInvalidShipping):
			status = http.StatusBadRequest
			body["error"] = "Invalid shipping method"
		case errors.Is(err, cart.ErrItemNotFound):
			status = http.StatusNotFound
			body["error"] = "Item is not in the cart"
		case errors.Is(err, catalog.ErrProductNotFound):
			status = http.StatusNotFound
			body["error"] = "Product not found"
		case errors.Is(err, catalog.ErrShippingNotFound):
			status = http.StatusNotFound
			body["error"] = "Shipping method not found"
		default:
			log.Error("cart operation failed", zap.String("owner", owner(c)), zap.Error(err))
			body["error"] = "Failed to update cart"
		}
	}
	c.JSON(status, body)
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": message})
}

// GET /shop/products
func ListProducts(products catalog.ProductCatalog, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := products.ActiveProducts(c.Request.Context())
		if err != nil {
			log.Error("list products failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch products"})
			return
		}
		if data == nil {
			data = []models.CandleProduct{}
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": data, "total": len(data)})
	}
}

// GET /shop/products/:id
func GetProduct(products catalog.ProductCatalog, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := products.Product(c.Request.Context(), c.Param("id"))
		switch {
		case errors.Is(err, catalog.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Product not found"})
			return
		case err != nil:
			log.Error("get product failed", zap.String("id", c.Param("id")), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to retrieve product"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": product})
	}
}

// GET /shop/shipping-methods
func ListShippingMethods(shipping catalog.ShippingCatalog, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := shipping.ActiveMethods(c.Request.Context())
		if err != nil {
			log.Error("list shipping methods failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch shipping methods"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": data, "total": len(data)})
	}
}

// GET /shop/cart
func GetCart(svc Cart) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "data": render(svc.Get(c.Request.Context(), owner(c)))})
	}
}

type addItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
}

// POST /shop/cart/items
func AddItem(svc Cart, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "product_id is required")
			return
		}
		if req.Quantity == 0 {
			req.Quantity = 1
		}
		view, err := svc.AddItem(c.Request.Context(), owner(c), req.ProductID, req.Quantity)
		respond(c, log, view, err)
	}
}

type quantityRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// PUT /shop/cart/items/:id
func UpdateItem(svc Cart, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req quantityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "quantity is required")
			return
		}
		view, err := svc.SetQuantity(c.Request.Context(), owner(c), c.Param("id"), req.Quantity)
		respond(c, log, view, err)
	}
}

// DELETE /shop/cart/items/:id
func RemoveItem(svc Cart, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := svc.RemoveItem(c.Request.Context(), owner(c), c.Param("id"))
		respond(c, log, view, err)
	}
}

type shippingRequest struct {
	MethodID string `json:"shipping_method_id" binding:"required"`
}

// PUT /shop/cart/shipping
func SelectShipping(svc Cart, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req shippingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "shipping_method_id is required")
			return
		}
		view, err := svc.SelectShipping(c.Request.Context(), owner(c), req.MethodID)
		respond(c, log, view, err)
	}
}

type discountRequest struct {
	Code string `json:"code" binding:"required"`
}

// POST /shop/cart/discount
func ApplyDiscount(svc Cart, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req discountRequest
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Code) == "" {
			badRequest(c, "Enter a discount code")
			return
		}
		view, err := svc.ApplyDiscount(c.Request.Context(), owner(c), req.Code)
		respond(c, log, view, err)
	}
}

// DELETE /shop/cart/discount
func ClearDiscount(svc Cart, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := svc.ClearDiscount(c.Request.Context(), owner(c))
		respond(c, log, view, err)
	}
}

// DELETE /shop/cart
func ClearCart(svc Cart, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Clear(c.Request.Context(), owner(c)); err != nil {
			log.Error("clear cart failed", zap.String("owner", owner(c)), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to clear cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cart cleared"})
	}
}

// POST /shop/cart/checkout
func Checkout(svc Cart, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		bundle, err := svc.Checkout(c.Request.Context(), owner(c))
		if err != nil {
			respond(c, log, svc.Get(c.Request.Context(), owner(c)), err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "data": bundle})
	}
}
