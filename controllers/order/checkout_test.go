package orderControllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/scantagcandles/oremus-1/cart"
	"github.com/scantagcandles/oremus-1/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCheckouts struct {
	records map[string]*models.CheckoutRecord
	listed  models.CheckoutStatus
}

func (f *fakeCheckouts) List(_ context.Context, status models.CheckoutStatus) ([]models.CheckoutRecord, error) {
	f.listed = status
	var out []models.CheckoutRecord
	for _, r := range f.records {
		if status == "" || r.Status == status {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeCheckouts) Find(_ context.Context, reference string) (*models.CheckoutRecord, error) {
	r, ok := f.records[reference]
	if !ok {
		return nil, cart.ErrCheckoutNotFound
	}
	return r, nil
}

func (f *fakeCheckouts) SetStatus(_ context.Context, reference string, status models.CheckoutStatus) (*models.CheckoutRecord, error) {
	r, ok := f.records[reference]
	if !ok {
		return nil, cart.ErrCheckoutNotFound
	}
	if r.Status != models.CheckoutStatusPending {
		return nil, cart.ErrCheckoutAlreadyFinal
	}
	r.Status = status
	return r, nil
}

type fakeCarts struct{ cleared []string }

func (f *fakeCarts) Clear(_ context.Context, owner string) error {
	f.cleared = append(f.cleared, owner)
	return nil
}

func newRouter(store CheckoutStore, carts CartClearer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := zap.NewNop()
	r := gin.New()
	r.GET("/checkouts", GetAllCheckoutsHandler(store, log))
	r.GET("/checkouts/:reference", GetCheckoutHandler(store, log))
	r.PUT("/checkouts/:reference/status", UpdateCheckoutStatusHandler(store, carts, log))
	return r
}

func seed() *fakeCheckouts {
	return &fakeCheckouts{records: map[string]*models.CheckoutRecord{
		"ref-1": {
			ID:        "id-1",
			Reference: "ref-1",
			OwnerKey:  "device:d1",
			Bundle:    `{"reference":"ref-1","total":"24.98"}`,
			Total:     decimal.RequireFromString("24.98"),
			Status:    models.CheckoutStatusPending,
		},
	}}
}

func serve(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetAllCheckouts(t *testing.T) {
	store := seed()
	r := newRouter(store, &fakeCarts{})

	w := serve(r, http.MethodGet, "/checkouts?status=PENDING", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.CheckoutStatusPending, store.listed)

	var body struct {
		Data []struct {
			Reference string          `json:"reference"`
			Bundle    json.RawMessage `json:"bundle"`
		} `json:"data"`
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, 1, body.Total)
	assert.JSONEq(t, `{"reference":"ref-1","total":"24.98"}`, string(body.Data[0].Bundle))

	w = serve(r, http.MethodGet, "/checkouts?status=shipped", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetCheckout(t *testing.T) {
	r := newRouter(seed(), &fakeCarts{})

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/checkouts/ref-1", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodGet, "/checkouts/nope", "").Code)
}

func TestUpdateCheckoutStatus(t *testing.T) {
	carts := &fakeCarts{}
	r := newRouter(seed(), carts)

	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodPut, "/checkouts/ref-1/status", `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodPut, "/checkouts/ref-1/status", `{"status":"refunded"}`).Code)
	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodPut, "/checkouts/nope/status", `{"status":"paid"}`).Code)

	w := serve(r, http.MethodPut, "/checkouts/ref-1/status", `{"status":"paid"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"device:d1"}, carts.cleared)

	w = serve(r, http.MethodPut, "/checkouts/ref-1/status", `{"status":"failed"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}
