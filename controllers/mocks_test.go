package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"storefront/cart"
	"storefront/middleware"
	"storefront/models"
	"storefront/repository"
	"storefront/services"
	"storefront/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// --- Mock Services ---

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) orderResult(args mock.Arguments) (*models.Order, *services.ServiceError) {
	var order *models.Order
	if args.Get(0) != nil {
		order = args.Get(0).(*models.Order)
	}
	return order, serviceErr(args.Get(1))
}

func (m *MockOrderService) PlaceOrder(ctx context.Context, userID *uuid.UUID, req services.PlaceOrderRequest) (*services.PlaceOrderResult, *services.ServiceError) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, serviceErr(args.Get(1))
	}
	return args.Get(0).(*services.PlaceOrderResult), serviceErr(args.Get(1))
}

func (m *MockOrderService) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, *services.ServiceError) {
	return m.orderResult(m.Called(ctx, id))
}

func (m *MockOrderService) GetOrderByNumber(ctx context.Context, orderNumber string) (*models.Order, *services.ServiceError) {
	return m.orderResult(m.Called(ctx, orderNumber))
}

func (m *MockOrderService) GetUserOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, *services.ServiceError) {
	return m.orderResult(m.Called(ctx, userID, orderID))
}

func (m *MockOrderService) GetUserOrders(ctx context.Context, userID uuid.UUID, page, limit int) (*services.OrderResponse, *services.ServiceError) {
	args := m.Called(ctx, userID, page, limit)
	if args.Get(0) == nil {
		return nil, serviceErr(args.Get(1))
	}
	return args.Get(0).(*services.OrderResponse), serviceErr(args.Get(1))
}

func (m *MockOrderService) GetAllOrders(ctx context.Context, filter repository.OrderFilter, page, limit int) (*services.OrderResponse, *services.ServiceError) {
	args := m.Called(ctx, filter, page, limit)
	if args.Get(0) == nil {
		return nil, serviceErr(args.Get(1))
	}
	return args.Get(0).(*services.OrderResponse), serviceErr(args.Get(1))
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Order, *services.ServiceError) {
	return m.orderResult(m.Called(ctx, id, status))
}

func (m *MockOrderService) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status string) (*models.Order, *services.ServiceError) {
	return m.orderResult(m.Called(ctx, id, status))
}

func (m *MockOrderService) UpdateTracking(ctx context.Context, id uuid.UUID, trackingNumber string, estimatedDelivery *time.Time) (*models.Order, *services.ServiceError) {
	return m.orderResult(m.Called(ctx, id, trackingNumber, estimatedDelivery))
}

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) products(args mock.Arguments) ([]models.Product, *services.ServiceError) {
	var products []models.Product
	if args.Get(0) != nil {
		products = args.Get(0).([]models.Product)
	}
	return products, serviceErr(args.Get(1))
}

func (m *MockCatalogService) product(args mock.Arguments) (*models.Product, *services.ServiceError) {
	var product *models.Product
	if args.Get(0) != nil {
		product = args.Get(0).(*models.Product)
	}
	return product, serviceErr(args.Get(1))
}

func (m *MockCatalogService) category(args mock.Arguments) (*models.Category, *services.ServiceError) {
	var category *models.Category
	if args.Get(0) != nil {
		category = args.Get(0).(*models.Category)
	}
	return category, serviceErr(args.Get(1))
}

func (m *MockCatalogService) Home(ctx context.Context) (*services.HomePage, *services.ServiceError) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, serviceErr(args.Get(1))
	}
	return args.Get(0).(*services.HomePage), serviceErr(args.Get(1))
}

func (m *MockCatalogService) Categories(ctx context.Context) ([]models.Category, *services.ServiceError) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, serviceErr(args.Get(1))
	}
	return args.Get(0).([]models.Category), serviceErr(args.Get(1))
}

func (m *MockCatalogService) CategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, *services.ServiceError) {
	return m.category(m.Called(ctx, id))
}

func (m *MockCatalogService) CategoryBySlug(ctx context.Context, slug string) (*models.Category, *services.ServiceError) {
	return m.category(m.Called(ctx, slug))
}

func (m *MockCatalogService) CategoryPage(ctx context.Context, slug string, q services.CategoryQuery) (*services.CategoryPage, *services.ServiceError) {
	args := m.Called(ctx, slug, q)
	if args.Get(0) == nil {
		return nil, serviceErr(args.Get(1))
	}
	return args.Get(0).(*services.CategoryPage), serviceErr(args.Get(1))
}

func (m *MockCatalogService) ProductByID(ctx context.Context, id uuid.UUID) (*models.Product, *services.ServiceError) {
	return m.product(m.Called(ctx, id))
}

func (m *MockCatalogService) ProductBySlug(ctx context.Context, slug string) (*models.Product, *services.ServiceError) {
	return m.product(m.Called(ctx, slug))
}

func (m *MockCatalogService) Products(ctx context.Context, filter repository.ProductFilter) ([]models.Product, *services.ServiceError) {
	return m.products(m.Called(ctx, filter))
}

func (m *MockCatalogService) ProductsByCategory(ctx context.Context, slug string) ([]models.Product, *services.ServiceError) {
	return m.products(m.Called(ctx, slug))
}

func (m *MockCatalogService) Featured(ctx context.Context) ([]models.Product, *services.ServiceError) {
	return m.products(m.Called(ctx))
}

func (m *MockCatalogService) Discounted(ctx context.Context) ([]models.Product, *services.ServiceError) {
	return m.products(m.Called(ctx))
}

func (m *MockCatalogService) InStock(ctx context.Context) ([]models.Product, *services.ServiceError) {
	return m.products(m.Called(ctx))
}

func (m *MockCatalogService) Search(ctx context.Context, query string) ([]models.Product, *services.ServiceError) {
	return m.products(m.Called(ctx, query))
}

func (m *MockCatalogService) UniqueColors(ctx context.Context, categorySlug string) ([]cart.Color, *services.ServiceError) {
	args := m.Called(ctx, categorySlug)
	if args.Get(0) == nil {
		return nil, serviceErr(args.Get(1))
	}
	return args.Get(0).([]cart.Color), serviceErr(args.Get(1))
}

func (m *MockCatalogService) CreateProduct(ctx context.Context, product *models.Product) *services.ServiceError {
	return serviceErr(m.Called(ctx, product).Get(0))
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) SignUp(ctx context.Context, req services.SignUpRequest) (*models.User, *services.ServiceError) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, serviceErr(args.Get(1))
	}
	return args.Get(0).(*models.User), serviceErr(args.Get(1))
}

func (m *MockAuthService) SignIn(ctx context.Context, req services.SignInRequest) (*services.Session, *services.ServiceError) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, serviceErr(args.Get(1))
	}
	return args.Get(0).(*services.Session), serviceErr(args.Get(1))
}

func (m *MockAuthService) Logout(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockAuthService) Authenticate(ctx context.Context, token string) (*models.User, *services.AuthError) {
	args := m.Called(ctx, token)
	var user *models.User
	if args.Get(0) != nil {
		user = args.Get(0).(*models.User)
	}
	var authErr *services.AuthError
	if args.Get(1) != nil {
		authErr = args.Get(1).(*services.AuthError)
	}
	return user, authErr
}

type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) user(args mock.Arguments) (*models.User, *services.ServiceError) {
	var user *models.User
	if args.Get(0) != nil {
		user = args.Get(0).(*models.User)
	}
	return user, serviceErr(args.Get(1))
}

func (m *MockAccountService) address(args mock.Arguments) (*models.Address, *services.ServiceError) {
	var address *models.Address
	if args.Get(0) != nil {
		address = args.Get(0).(*models.Address)
	}
	return address, serviceErr(args.Get(1))
}

func (m *MockAccountService) Overview(ctx context.Context, userID uuid.UUID) (*services.AccountOverview, *services.ServiceError) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, serviceErr(args.Get(1))
	}
	return args.Get(0).(*services.AccountOverview), serviceErr(args.Get(1))
}

func (m *MockAccountService) UpdateProfile(ctx context.Context, userID uuid.UUID, req services.ProfileRequest) (*models.User, *services.ServiceError) {
	return m.user(m.Called(ctx, userID, req))
}

func (m *MockAccountService) Addresses(ctx context.Context, userID uuid.UUID) ([]models.Address, *services.ServiceError) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, serviceErr(args.Get(1))
	}
	return args.Get(0).([]models.Address), serviceErr(args.Get(1))
}

func (m *MockAccountService) DefaultAddress(ctx context.Context, userID uuid.UUID) (*models.Address, *services.ServiceError) {
	return m.address(m.Called(ctx, userID))
}

func (m *MockAccountService) CreateAddress(ctx context.Context, userID uuid.UUID, req services.AddressRequest) (*models.Address, *services.ServiceError) {
	return m.address(m.Called(ctx, userID, req))
}

func (m *MockAccountService) UpdateAddress(ctx context.Context, userID, id uuid.UUID, req services.AddressRequest) (*models.Address, *services.ServiceError) {
	return m.address(m.Called(ctx, userID, id, req))
}

func (m *MockAccountService) DeleteAddress(ctx context.Context, userID, id uuid.UUID) *services.ServiceError {
	return serviceErr(m.Called(ctx, userID, id).Get(0))
}

func (m *MockAccountService) SetDefaultAddress(ctx context.Context, userID, id uuid.UUID) *services.ServiceError {
	return serviceErr(m.Called(ctx, userID, id).Get(0))
}

func (m *MockAccountService) UpdateRole(ctx context.Context, userID uuid.UUID, role string) (*models.User, *services.ServiceError) {
	return m.user(m.Called(ctx, userID, role))
}

func serviceErr(v interface{}) *services.ServiceError {
	if v == nil {
		return nil
	}
	return v.(*services.ServiceError)
}

// --- Helpers ---

// sessionRouter returns a router whose requests share storage through the
// sid cookie set by performRequest.
func sessionRouter() (*gin.Engine, *storage.Provider) {
	gin.SetMode(gin.TestMode)
	provider := storage.NewProvider(storage.MemoryFactory(storage.EstimatedCapacity), nil)
	router := gin.New()
	router.Use(middleware.Session(provider))
	return router, provider
}

const testSessionID = "0b6f2b8e-3c44-4a53-9d3a-7f0f1c2d3e4f"

func performRequest(router http.Handler, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req, _ = http.NewRequest(method, path, nil)
	} else {
		req, _ = http.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: testSessionID})
	for _, c := range cookies {
		req.AddCookie(c)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func findCookie(recorder *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range recorder.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// withUser stands in for the auth middleware.
func withUser(user *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserContextKey, user)
		c.Next()
	}
}

