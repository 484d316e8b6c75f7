package controllers

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"storefront/cart"
	"storefront/checkout"
	"storefront/models"
	"storefront/services"
	"storefront/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const placeOrderBody = `{
	"checkoutData": {
		"customer": {"firstName":"Jane","lastName":"Doe","email":"jane@example.com","phone":"+1 555 0100"},
		"shipping": {"address":"1 Main St","city":"Springfield","state":"IL","zipCode":"62701","shippingMethod":"standard"},
		"payment": {"paymentMethod":"cash_on_delivery"},
		"review": {"termsAccepted":true},
		"stepProgress": ["customer","shipping","payment","review"]
	},
	"cartItems": [{"product":{"id":"6f1c1b9e-8f43-4c1e-9a55-3f0a9d2c1b7e","title":"Plain Tee","slug":"plain-tee","currentPrice":29.99},"quantity":2}]
}`

const teeID = "6f1c1b9e-8f43-4c1e-9a55-3f0a9d2c1b7e"

func isAnonymous(id *uuid.UUID) bool { return id == nil }

// catalogWithTee serves the tee at its current catalog price.
func catalogWithTee(price float64) *MockCatalogService {
	catalog := new(MockCatalogService)
	catalog.On("ProductByID", mock.Anything, uuid.MustParse(teeID)).Return(&models.Product{
		ID:           uuid.MustParse(teeID),
		Title:        "Plain Tee",
		Slug:         "plain-tee",
		CurrentPrice: price,
		Images:       []string{"/product-images/plain-tee.webp"},
		InStock:      true,
	}, nil)
	return catalog
}

func TestOrderController_PlaceOrder(t *testing.T) {
	t.Run("Success - clears cart and checkout", func(t *testing.T) {
		// Arrange
		router, provider := sessionRouter()
		orders := new(MockOrderService)
		oc := NewOrderController(orders, catalogWithTee(29.99), zap.NewNop())
		router.POST("/api/orders", oc.PlaceOrder)

		ctx := context.Background()
		store := provider.For(testSessionID)
		tee := cart.ProductRef{ID: "6f1c1b9e-8f43-4c1e-9a55-3f0a9d2c1b7e", Title: "Plain Tee", CurrentPrice: 29.99}
		_, err := storage.Set(ctx, store, storage.KeyCart, cart.Cart{}.Add(tee, 2, cart.Variant{}), cart.Cart.Validate)
		require.NoError(t, err)

		orderID := uuid.New()
		orders.On("PlaceOrder", mock.Anything, mock.MatchedBy(isAnonymous), mock.MatchedBy(func(req services.PlaceOrderRequest) bool {
			return len(req.CartItems) == 1 && req.CheckoutData.Shipping.ShippingMethod == checkout.ShippingStandard
		})).Return(&services.PlaceOrderResult{OrderID: orderID, OrderNumber: "DEMO-1-ABCDEF"}, nil).Once()

		// Act
		recorder := performRequest(router, http.MethodPost, "/api/orders", placeOrderBody)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.JSONEq(t, `{"success":true,"orderId":"`+orderID.String()+`","orderNumber":"DEMO-1-ABCDEF"}`, recorder.Body.String())
		_, found := storage.Get[cart.Cart](ctx, store, storage.KeyCart, nil)
		assert.False(t, found)
		cookie := findCookie(recorder, checkout.CookieName)
		require.NotNil(t, cookie)
		assert.True(t, cookie.MaxAge < 0)
		orders.AssertExpectations(t)
	})

	t.Run("Signed in user is attached to the order", func(t *testing.T) {
		router, _ := sessionRouter()
		orders := new(MockOrderService)
		oc := NewOrderController(orders, catalogWithTee(29.99), zap.NewNop())
		user := &models.User{ID: uuid.New(), Role: models.RoleUser}
		router.POST("/api/orders", withUser(user), oc.PlaceOrder)

		orders.On("PlaceOrder", mock.Anything, &user.ID, mock.Anything).
			Return(&services.PlaceOrderResult{OrderID: uuid.New(), OrderNumber: "DEMO-2-ABCDEF"}, nil).Once()

		recorder := performRequest(router, http.MethodPost, "/api/orders", placeOrderBody)

		assert.Equal(t, http.StatusOK, recorder.Code)
		orders.AssertExpectations(t)
	})

	t.Run("Failure - service error keeps the cart", func(t *testing.T) {
		router, provider := sessionRouter()
		orders := new(MockOrderService)
		oc := NewOrderController(orders, catalogWithTee(29.99), zap.NewNop())
		router.POST("/api/orders", oc.PlaceOrder)

		ctx := context.Background()
		store := provider.For(testSessionID)
		tee := cart.ProductRef{ID: "p-1", Title: "Plain Tee", CurrentPrice: 10}
		_, err := storage.Set(ctx, store, storage.KeyCart, cart.Cart{}.Add(tee, 1, cart.Variant{}), cart.Cart.Validate)
		require.NoError(t, err)

		orders.On("PlaceOrder", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, &services.ServiceError{StatusCode: http.StatusBadRequest, Message: "Invalid checkout data"}).Once()

		recorder := performRequest(router, http.MethodPost, "/api/orders", placeOrderBody)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.JSONEq(t, `{"success":false,"error":"Invalid checkout data"}`, recorder.Body.String())
		_, found := storage.Get[cart.Cart](ctx, store, storage.KeyCart, nil)
		assert.True(t, found)
	})

	t.Run("Failure - malformed body", func(t *testing.T) {
		router, _ := sessionRouter()
		orders := new(MockOrderService)
		router.POST("/api/orders", NewOrderController(orders, new(MockCatalogService), zap.NewNop()).PlaceOrder)

		recorder := performRequest(router, http.MethodPost, "/api/orders", `{"cartItems":`)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `"success":false`)
		orders.AssertNotCalled(t, "PlaceOrder")
	})

	t.Run("Lines are priced from the catalog", func(t *testing.T) {
		// Arrange
		router, _ := sessionRouter()
		orders := new(MockOrderService)
		router.POST("/api/orders", NewOrderController(orders, catalogWithTee(35), zap.NewNop()).PlaceOrder)

		orders.On("PlaceOrder", mock.Anything, mock.Anything, mock.MatchedBy(func(req services.PlaceOrderRequest) bool {
			item := req.CartItems[0]
			return len(req.CartItems) == 1 &&
				item.Product.CurrentPrice == 35 &&
				item.Product.Images[0] == "/product-images/plain-tee.webp" &&
				item.Quantity == 2
		})).Return(&services.PlaceOrderResult{OrderID: uuid.New(), OrderNumber: "DEMO-3-ABCDEF"}, nil).Once()

		// Act
		recorder := performRequest(router, http.MethodPost, "/api/orders", strings.Replace(placeOrderBody, `"currentPrice":29.99`, `"currentPrice":0.01`, 1))

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		orders.AssertExpectations(t)
	})

	t.Run("Failure - product no longer in the catalog", func(t *testing.T) {
		// Arrange
		router, _ := sessionRouter()
		orders := new(MockOrderService)
		catalog := new(MockCatalogService)
		catalog.On("ProductByID", mock.Anything, uuid.MustParse(teeID)).
			Return(nil, &services.ServiceError{StatusCode: http.StatusNotFound, Message: "Product not found"}).Once()
		router.POST("/api/orders", NewOrderController(orders, catalog, zap.NewNop()).PlaceOrder)

		// Act
		recorder := performRequest(router, http.MethodPost, "/api/orders", placeOrderBody)

		// Assert
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.JSONEq(t, `{"success":false,"error":"Product no longer available"}`, recorder.Body.String())
		orders.AssertNotCalled(t, "PlaceOrder")
	})

	t.Run("Failure - cart line without a product id", func(t *testing.T) {
		router, _ := sessionRouter()
		orders := new(MockOrderService)
		router.POST("/api/orders", NewOrderController(orders, new(MockCatalogService), zap.NewNop()).PlaceOrder)

		recorder := performRequest(router, http.MethodPost, "/api/orders", strings.Replace(placeOrderBody, teeID, "not-a-uuid", 1))

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.JSONEq(t, `{"success":false,"error":"Invalid cart item"}`, recorder.Body.String())
		orders.AssertNotCalled(t, "PlaceOrder")
	})

	t.Run("Failure - invalid checkout is rejected before any catalog lookup", func(t *testing.T) {
		// Arrange
		router, _ := sessionRouter()
		orders := new(MockOrderService)
		catalog := new(MockCatalogService)
		router.POST("/api/orders", NewOrderController(orders, catalog, zap.NewNop()).PlaceOrder)
		body := strings.Replace(placeOrderBody, `"shippingMethod":"standard"`, `"shippingMethod":"teleport"`, 1)
		body = strings.Replace(body, teeID, "not-a-uuid", 1)

		// Act
		recorder := performRequest(router, http.MethodPost, "/api/orders", body)

		// Assert
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.JSONEq(t, `{"success":false,"error":"Invalid checkout data"}`, recorder.Body.String())
		catalog.AssertNotCalled(t, "ProductByID", mock.Anything, mock.Anything)
		orders.AssertNotCalled(t, "PlaceOrder")
	})
}
