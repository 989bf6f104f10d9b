package orderControllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/scantagcandles/oremus-1/cart"
	"github.com/scantagcandles/oremus-1/models"
	"go.uber.org/zap"
)

type CheckoutStore interface {
	List(ctx context.Context, status models.CheckoutStatus) ([]models.CheckoutRecord, error)
	Find(ctx context.Context, reference string) (*models.CheckoutRecord, error)
	SetStatus(ctx context.Context, reference string, status models.CheckoutStatus) (*models.CheckoutRecord, error)
}

// CartClearer empties a shopper's cart once their payment went through.
type CartClearer interface {
	Clear(ctx context.Context, owner string) error
}

type UpdateCheckoutStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type checkoutResponse struct {
	models.CheckoutRecord
	Bundle json.RawMessage `json:"bundle"`
}

func withBundle(record models.CheckoutRecord) checkoutResponse {
	return checkoutResponse{CheckoutRecord: record, Bundle: json.RawMessage(record.Bundle)}
}

// GET /admin/checkouts?status=pending
func GetAllCheckoutsHandler(store CheckoutStore, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var status models.CheckoutStatus
		if raw := c.Query("status"); raw != "" {
			parsed, err := models.ParseCheckoutStatus(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			status = parsed
		}

		records, err := store.List(c.Request.Context(), status)
		if err != nil {
			log.Error("list checkouts failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch checkouts"})
			return
		}
		data := make([]checkoutResponse, 0, len(records))
		for _, r := range records {
			data = append(data, withBundle(r))
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": data, "total": len(data)})
	}
}

// GET /admin/checkouts/:reference
func GetCheckoutHandler(store CheckoutStore, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		record, err := store.Find(c.Request.Context(), c.Param("reference"))
		switch {
		case errors.Is(err, cart.ErrCheckoutNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Checkout not found"})
			return
		case err != nil:
			log.Error("get checkout failed", zap.String("reference", c.Param("reference")), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch checkout"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": withBundle(*record)})
	}
}

// PUT /admin/checkouts/:reference/status
func UpdateCheckoutStatusHandler(store CheckoutStore, carts CartClearer, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateCheckoutStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "status is required"})
			return
		}
		status, err := models.ParseCheckoutStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}

		record, err := store.SetStatus(c.Request.Context(), c.Param("reference"), status)
		switch {
		case errors.Is(err, cart.ErrCheckoutNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Checkout not found"})
			return
		case errors.Is(err, cart.ErrCheckoutAlreadyFinal):
			c.JSON(http.StatusConflict, gin.H{"success": false, "error": err.Error()})
			return
		case err != nil:
			log.Error("update checkout status failed", zap.String("reference", c.Param("reference")), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update checkout status"})
			return
		}

		if record.Status == models.CheckoutStatusPaid {
			if err := carts.Clear(c.Request.Context(), record.OwnerKey); err != nil {
				log.Warn("cart not cleared after payment", zap.String("owner", record.OwnerKey), zap.Error(err))
			}
		}
		log.Info("checkout status updated", zap.String("reference", record.Reference), zap.String("status", string(record.Status)))
		c.JSON(http.StatusOK, gin.H{"success": true, "data": withBundle(*record), "message": "Checkout status updated"})
	}
}
