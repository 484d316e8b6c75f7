package services

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"storefront/cart"
	"storefront/models"
	"storefront/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	CategoryNewArrivals = "new-arrivals"
	CategoryTopSelling  = "top-selling"
	FeaturedLimit       = 8
)

type HomePage struct {
	NewArrivals []models.Product `json:"newArrivalsProducts"`
	TopSelling  []models.Product `json:"topSellingProducts"`
}

// CategoryQuery carries the listing filters of a category page.
type CategoryQuery struct {
	MinPrice *float64
	MaxPrice *float64
	Colors   []string
	Sizes    []string
}

type CategoryPage struct {
	Category     models.Category  `json:"category"`
	Products     []models.Product `json:"products"`
	Colors       []cart.Color     `json:"colors"`
	Sizes        []string         `json:"sizes"`
	MinPrice     *float64         `json:"minPrice"`
	MaxPrice     *float64         `json:"maxPrice"`
	ColorFilters []string         `json:"colorFilters"`
	SizeFilters  []string         `json:"sizeFilters"`
}

type CatalogService interface {
	Home(ctx context.Context) (*HomePage, *ServiceError)
	Categories(ctx context.Context) ([]models.Category, *ServiceError)
	CategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, *ServiceError)
	CategoryBySlug(ctx context.Context, slug string) (*models.Category, *ServiceError)
	CategoryPage(ctx context.Context, slug string, q CategoryQuery) (*CategoryPage, *ServiceError)
	ProductByID(ctx context.Context, id uuid.UUID) (*models.Product, *ServiceError)
	ProductBySlug(ctx context.Context, slug string) (*models.Product, *ServiceError)
	Products(ctx context.Context, filter repository.ProductFilter) ([]models.Product, *ServiceError)
	ProductsByCategory(ctx context.Context, slug string) ([]models.Product, *ServiceError)
	Featured(ctx context.Context) ([]models.Product, *ServiceError)
	Discounted(ctx context.Context) ([]models.Product, *ServiceError)
	InStock(ctx context.Context) ([]models.Product, *ServiceError)
	Search(ctx context.Context, query string) ([]models.Product, *ServiceError)
	UniqueColors(ctx context.Context, categorySlug string) ([]cart.Color, *ServiceError)
	CreateProduct(ctx context.Context, product *models.Product) *ServiceError
}

type catalogService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	cache      *ProductCache
	logger     *zap.Logger
}

func NewCatalogService(products repository.ProductRepository, categories repository.CategoryRepository, cache *ProductCache, logger *zap.Logger) CatalogService {
	return &catalogService{products: products, categories: categories, cache: cache, logger: logger}
}

func (s *catalogService) fetchFailed(what string, err error) *ServiceError {
	s.logger.Error("Failed to fetch "+what, zap.Error(err))
	return newServiceError(http.StatusInternalServerError, "Failed to fetch "+what)
}

// cachedProducts serves name from the cache or loads and stores it.
func (s *catalogService) cachedProducts(ctx context.Context, name string, load func() ([]models.Product, error)) ([]models.Product, *ServiceError) {
	var products []models.Product
	if s.cache.Get(ctx, name, &products) {
		return products, nil
	}
	products, err := load()
	if err != nil {
		return nil, s.fetchFailed("products", err)
	}
	if products == nil {
		products = []models.Product{}
	}
	s.cache.Set(ctx, name, products)
	return products, nil
}

func (s *catalogService) Home(ctx context.Context) (*HomePage, *ServiceError) {
	newArrivals, serr := s.ProductsByCategory(ctx, CategoryNewArrivals)
	if serr != nil {
		return nil, serr
	}
	topSelling, serr := s.ProductsByCategory(ctx, CategoryTopSelling)
	if serr != nil {
		return nil, serr
	}
	return &HomePage{NewArrivals: newArrivals, TopSelling: topSelling}, nil
}

func (s *catalogService) Categories(ctx context.Context) ([]models.Category, *ServiceError) {
	categories, err := s.categories.FindAll(ctx)
	if err != nil {
		return nil, s.fetchFailed("categories", err)
	}
	return categories, nil
}

func (s *catalogService) CategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, *ServiceError) {
	category, err := s.categories.FindByID(ctx, id)
	return s.categoryResult(category, err)
}

func (s *catalogService) CategoryBySlug(ctx context.Context, slug string) (*models.Category, *ServiceError) {
	category, err := s.categories.FindBySlug(ctx, slug)
	return s.categoryResult(category, err)
}

func (s *catalogService) categoryResult(category *models.Category, err error) (*models.Category, *ServiceError) {
	if err != nil {
		if isNotFound(err) {
			return nil, newServiceError(http.StatusNotFound, "Category not found")
		}
		return nil, s.fetchFailed("category", err)
	}
	return category, nil
}

// CategoryPage lists a category with its filter facets. Facets come from
// the unfiltered listing so they do not shrink as filters are applied.
func (s *catalogService) CategoryPage(ctx context.Context, slug string, q CategoryQuery) (*CategoryPage, *ServiceError) {
	category, serr := s.CategoryBySlug(ctx, slug)
	if serr != nil {
		return nil, serr
	}
	all, serr := s.ProductsByCategory(ctx, slug)
	if serr != nil {
		return nil, serr
	}
	colors, serr := s.UniqueColors(ctx, slug)
	if serr != nil {
		return nil, serr
	}

	products := all
	if q.MinPrice != nil || q.MaxPrice != nil || len(q.Colors) > 0 || len(q.Sizes) > 0 {
		products, serr = s.Products(ctx, repository.ProductFilter{
			CategorySlug: slug,
			MinPrice:     q.MinPrice,
			MaxPrice:     q.MaxPrice,
			Colors:       q.Colors,
			Sizes:        q.Sizes,
		})
		if serr != nil {
			return nil, serr
		}
	}

	return &CategoryPage{
		Category:     *category,
		Products:     products,
		Colors:       colors,
		Sizes:        uniqueSizes(all),
		MinPrice:     q.MinPrice,
		MaxPrice:     q.MaxPrice,
		ColorFilters: nonNil(q.Colors),
		SizeFilters:  nonNil(q.Sizes),
	}, nil
}

func uniqueSizes(products []models.Product) []string {
	seen := map[string]bool{}
	sizes := []string{}
	for _, p := range products {
		for _, size := range p.AvailableSizes {
			if !seen[size] {
				seen[size] = true
				sizes = append(sizes, size)
			}
		}
	}
	return sizes
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func (s *catalogService) ProductByID(ctx context.Context, id uuid.UUID) (*models.Product, *ServiceError) {
	product, err := s.products.FindByID(ctx, id)
	return s.productResult(product, err)
}

func (s *catalogService) ProductBySlug(ctx context.Context, slug string) (*models.Product, *ServiceError) {
	product, err := s.products.FindBySlug(ctx, slug)
	return s.productResult(product, err)
}

func (s *catalogService) productResult(product *models.Product, err error) (*models.Product, *ServiceError) {
	if err != nil {
		if isNotFound(err) {
			return nil, newServiceError(http.StatusNotFound, "Product not found")
		}
		return nil, s.fetchFailed("product", err)
	}
	return product, nil
}

func (s *catalogService) Products(ctx context.Context, filter repository.ProductFilter) ([]models.Product, *ServiceError) {
	return s.cachedProducts(ctx, filterCacheKey(filter), func() ([]models.Product, error) {
		return s.products.Find(ctx, filter)
	})
}

func (s *catalogService) ProductsByCategory(ctx context.Context, slug string) ([]models.Product, *ServiceError) {
	return s.Products(ctx, repository.ProductFilter{CategorySlug: slug})
}

func (s *catalogService) Featured(ctx context.Context) ([]models.Product, *ServiceError) {
	return s.Products(ctx, repository.ProductFilter{Limit: FeaturedLimit})
}

func (s *catalogService) Discounted(ctx context.Context) ([]models.Product, *ServiceError) {
	return s.Products(ctx, repository.ProductFilter{OnSale: true})
}

func (s *catalogService) InStock(ctx context.Context) ([]models.Product, *ServiceError) {
	inStock := true
	return s.Products(ctx, repository.ProductFilter{InStock: &inStock})
}

func (s *catalogService) Search(ctx context.Context, query string) ([]models.Product, *ServiceError) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.Product{}, nil
	}
	return s.cachedProducts(ctx, "search:"+strings.ToLower(query), func() ([]models.Product, error) {
		return s.products.Search(ctx, query)
	})
}

func (s *catalogService) UniqueColors(ctx context.Context, categorySlug string) ([]cart.Color, *ServiceError) {
	name := "colors:" + categorySlug
	var colors []cart.Color
	if s.cache.Get(ctx, name, &colors) {
		return colors, nil
	}
	colors, err := s.products.UniqueColors(ctx, categorySlug)
	if err != nil {
		return nil, s.fetchFailed("colors", err)
	}
	s.cache.Set(ctx, name, colors)
	return colors, nil
}

func (s *catalogService) CreateProduct(ctx context.Context, product *models.Product) *ServiceError {
	if err := s.products.Create(ctx, product); err != nil {
		s.logger.Error("Failed to create product", zap.String("slug", product.Slug), zap.Error(err))
		return newServiceError(http.StatusInternalServerError, "Failed to create product")
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Error("Failed to invalidate product cache", zap.Error(err))
	}
	return nil
}

// filterCacheKey renders filter in a stable order so equal filters share a key.
func filterCacheKey(f repository.ProductFilter) string {
	colors := append([]string(nil), f.Colors...)
	sizes := append([]string(nil), f.Sizes...)
	sort.Strings(colors)
	sort.Strings(sizes)
	stock := ""
	if f.InStock != nil {
		stock = strconv.FormatBool(*f.InStock)
	}
	return fmt.Sprintf("list:c:%s:min:%s:max:%s:col:%s:sz:%s:stock:%s:sale:%t:l:%d",
		f.CategorySlug,
		formatFloatForCache(f.MinPrice),
		formatFloatForCache(f.MaxPrice),
		strings.Join(colors, ","),
		strings.Join(sizes, ","),
		stock,
		f.OnSale,
		f.Limit,
	)
}

func formatFloatForCache(value *float64) string {
	if value == nil {
		return ""
	}
	return strconv.FormatFloat(*value, 'f', -1, 64)
}
