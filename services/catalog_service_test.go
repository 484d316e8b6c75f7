package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"storefront/cart"
	"storefront/models"
	"storefront/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupProductCache(t *testing.T) (*ProductCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewProductCache(client, time.Minute, zap.NewNop()), mr
}

func sampleProducts() []models.Product {
	original := 39.99
	return []models.Product{
		{
			ID: uuid.New(), Title: "Plain Tee", Slug: "plain-tee", CurrentPrice: 24.99,
			OriginalPrice: &original, InStock: true,
			AvailableColors: []cart.Color{{Name: "Red", Hex: "#ff0000"}},
			AvailableSizes:  []string{"S", "M"},
		},
		{
			ID: uuid.New(), Title: "Striped Tee", Slug: "striped-tee", CurrentPrice: 29.5, InStock: true,
			AvailableSizes: []string{"M", "L"},
		},
	}
}

func TestCatalogService_ProductsAreCached(t *testing.T) {
	ctx := context.Background()
	cache, _ := setupProductCache(t)
	products := new(MockProductRepository)
	s := NewCatalogService(products, new(MockCategoryRepository), cache, zap.NewNop())
	filter := repository.ProductFilter{CategorySlug: "t-shirt"}

	products.On("Find", ctx, filter).Return(sampleProducts(), nil).Once()

	first, serr := s.Products(ctx, filter)
	require.Nil(t, serr)
	second, serr := s.Products(ctx, filter)
	require.Nil(t, serr)

	assert.Len(t, first, 2)
	assert.Equal(t, first[0].Slug, second[0].Slug)
	products.AssertNumberOfCalls(t, "Find", 1)
}

func TestCatalogService_CreateInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	cache, mr := setupProductCache(t)
	products := new(MockProductRepository)
	s := NewCatalogService(products, new(MockCategoryRepository), cache, zap.NewNop())

	products.On("Find", ctx, mock.Anything).Return(sampleProducts(), nil).Twice()
	products.On("Create", ctx, mock.Anything).Return(nil).Once()

	_, serr := s.Featured(ctx)
	require.Nil(t, serr)
	require.Nil(t, s.CreateProduct(ctx, &models.Product{Slug: "new-tee"}))
	_, serr = s.Featured(ctx)
	require.Nil(t, serr)

	v, err := mr.Get(CacheVersionKey)
	require.NoError(t, err)
	assert.Equal(t, "2", v)
	products.AssertNumberOfCalls(t, "Find", 2)
}

func TestCatalogService_WorksWithoutCache(t *testing.T) {
	ctx := context.Background()
	products := new(MockProductRepository)
	s := NewCatalogService(products, new(MockCategoryRepository), nil, zap.NewNop())
	products.On("Search", ctx, "tee").Return(sampleProducts(), nil).Twice()

	_, serr := s.Search(ctx, " tee ")
	require.Nil(t, serr)
	_, serr = s.Search(ctx, "tee")
	require.Nil(t, serr)
	products.AssertNumberOfCalls(t, "Search", 2)

	empty, serr := s.Search(ctx, "   ")
	require.Nil(t, serr)
	assert.Empty(t, empty)
}

func TestCatalogService_CategoryPage(t *testing.T) {
	ctx := context.Background()
	products := new(MockProductRepository)
	categories := new(MockCategoryRepository)
	s := NewCatalogService(products, categories, nil, zap.NewNop())
	all := sampleProducts()
	minPrice := 25.0

	categories.On("FindBySlug", ctx, "t-shirt").Return(&models.Category{Name: "T-Shirt", Slug: "t-shirt"}, nil).Once()
	products.On("Find", ctx, repository.ProductFilter{CategorySlug: "t-shirt"}).Return(all, nil).Once()
	products.On("UniqueColors", ctx, "t-shirt").Return([]cart.Color{{Name: "Red", Hex: "#ff0000"}}, nil).Once()
	products.On("Find", ctx, repository.ProductFilter{CategorySlug: "t-shirt", MinPrice: &minPrice}).Return(all[1:], nil).Once()

	page, serr := s.CategoryPage(ctx, "t-shirt", CategoryQuery{MinPrice: &minPrice})

	require.Nil(t, serr)
	assert.Equal(t, "T-Shirt", page.Category.Name)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "striped-tee", page.Products[0].Slug)
	assert.Equal(t, []string{"S", "M", "L"}, page.Sizes)
	assert.Equal(t, []string{}, page.ColorFilters)
	products.AssertExpectations(t)
}

func TestCatalogService_NotFound(t *testing.T) {
	ctx := context.Background()
	products := new(MockProductRepository)
	categories := new(MockCategoryRepository)
	s := NewCatalogService(products, categories, nil, zap.NewNop())

	categories.On("FindBySlug", ctx, "hats").Return(nil, gorm.ErrRecordNotFound).Once()
	products.On("FindBySlug", ctx, "ghost").Return(nil, gorm.ErrRecordNotFound).Once()
	products.On("FindBySlug", ctx, "broken").Return(nil, errors.New("db down")).Once()

	_, serr := s.CategoryPage(ctx, "hats", CategoryQuery{})
	require.NotNil(t, serr)
	assert.Equal(t, "Category not found", serr.Message)

	_, serr = s.ProductBySlug(ctx, "ghost")
	require.NotNil(t, serr)
	assert.Equal(t, http.StatusNotFound, serr.StatusCode)

	_, serr = s.ProductBySlug(ctx, "broken")
	require.NotNil(t, serr)
	assert.Equal(t, http.StatusInternalServerError, serr.StatusCode)
}

func TestFilterCacheKey_IsOrderIndependent(t *testing.T) {
	a := filterCacheKey(repository.ProductFilter{Colors: []string{"Red", "Blue"}, Sizes: []string{"M", "S"}})
	b := filterCacheKey(repository.ProductFilter{Colors: []string{"Blue", "Red"}, Sizes: []string{"S", "M"}})
	assert.Equal(t, a, b)
}
