package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"storemart-be/internal/auth"
	"storemart-be/internal/inventory"
	"storemart-be/internal/order"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubOrderService struct {
	order.Service

	placed    *order.PlaceOrderInput
	placeErr  error
	placedOut *order.Order

	updated   *order.Patch
	updateErr error
}

func (s *stubOrderService) PlaceOrder(ctx context.Context, input order.PlaceOrderInput) (*order.Order, error) {
	s.placed = &input
	if s.placeErr != nil {
		return nil, s.placeErr
	}
	return s.placedOut, nil
}

func (s *stubOrderService) UpdateOrder(ctx context.Context, id uint, patch order.Patch) (*order.Order, error) {
	s.updated = &patch
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	return &order.Order{ID: id, Status: order.StatusConfirmed}, nil
}

func newOrderTestRouter(svc order.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewOrderHandler(svc)

	r := gin.New()
	r.POST("/orders", withPrincipal(auth.Principal{Kind: auth.KindCustomer, ID: 1, Role: "customer"}), h.Place)
	r.PATCH("/orders/:id", withPrincipal(auth.Principal{Kind: auth.KindUser, ID: 2, Role: "ADMIN"}), h.Update)
	return r
}

func withPrincipal(p auth.Principal) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := auth.WithPrincipal(c.Request.Context(), p)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestOrderHandler_Place(t *testing.T) {
	t.Run("UsesTokenCustomerID", func(t *testing.T) {
		svc := &stubOrderService{placedOut: &order.Order{ID: 1, OrderNumber: "ORD000001", CustomerID: 1}}
		r := newOrderTestRouter(svc)

		w := doJSON(t, r, http.MethodPost, "/orders", gin.H{
			"items": []gin.H{{"productId": 10, "quantity": 2}},
			"address": gin.H{
				"street": "1 Main St", "city": "Springfield", "state": "IL",
				"postalCode": "62701", "country": "USA",
			},
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		require.NotNil(t, svc.placed)
		// Identity always comes from the principal, not the body.
		assert.Equal(t, uint(1), svc.placed.CustomerID)
		assert.Equal(t, order.ShippingStandard, svc.placed.ShippingMethod)
		assert.Equal(t, order.PaymentCOD, svc.placed.PaymentMethod)
	})

	t.Run("InsufficientStockIs422", func(t *testing.T) {
		svc := &stubOrderService{placeErr: inventory.ErrInsufficientStock}
		r := newOrderTestRouter(svc)

		w := doJSON(t, r, http.MethodPost, "/orders", gin.H{
			"items": []gin.H{{"productId": 10, "quantity": 2}},
			"address": gin.H{
				"street": "1 Main St", "city": "Springfield", "state": "IL",
				"postalCode": "62701", "country": "USA",
			},
		})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("MissingItemsIs400", func(t *testing.T) {
		svc := &stubOrderService{}
		r := newOrderTestRouter(svc)

		w := doJSON(t, r, http.MethodPost, "/orders", gin.H{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestOrderHandler_Update(t *testing.T) {
	t.Run("RejectsImmutableField", func(t *testing.T) {
		svc := &stubOrderService{}
		r := newOrderTestRouter(svc)

		w := doJSON(t, r, http.MethodPatch, "/orders/1", gin.H{
			"status":      "Confirmed",
			"totalAmount": 10,
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Nil(t, svc.updated, "service must not be reached")
	})

	t.Run("RejectsUnknownField", func(t *testing.T) {
		svc := &stubOrderService{}
		r := newOrderTestRouter(svc)

		w := doJSON(t, r, http.MethodPatch, "/orders/1", gin.H{"giftWrap": true})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Nil(t, svc.updated)
	})

	t.Run("StatusPatchWithAuthor", func(t *testing.T) {
		svc := &stubOrderService{}
		r := newOrderTestRouter(svc)

		w := doJSON(t, r, http.MethodPatch, "/orders/1", gin.H{
			"status":  "Confirmed",
			"comment": "Confirmed by staff",
		})

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, svc.updated)
		require.NotNil(t, svc.updated.Status)
		assert.Equal(t, order.StatusConfirmed, *svc.updated.Status)
		require.NotNil(t, svc.updated.AuthorID)
		assert.Equal(t, uint(2), *svc.updated.AuthorID)
	})

	t.Run("InvalidTransitionIs409", func(t *testing.T) {
		svc := &stubOrderService{updateErr: order.ErrInvalidTransition}
		r := newOrderTestRouter(svc)

		w := doJSON(t, r, http.MethodPatch, "/orders/1", gin.H{"status": "Delivered"})
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}
