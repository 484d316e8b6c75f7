package repository

import (
	"context"
	"encoding/json"
	"strings"

	"storefront/cart"
	"storefront/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductFilter narrows a product listing. Zero values leave a dimension
// unfiltered; colors and sizes match any of the given values.
type ProductFilter struct {
	CategorySlug string
	MinPrice     *float64
	MaxPrice     *float64
	Colors       []string
	Sizes        []string
	InStock      *bool
	OnSale       bool
	Limit        int
}

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindBySlug(ctx context.Context, slug string) (*models.Product, error)
	Find(ctx context.Context, filter ProductFilter) ([]models.Product, error)
	Search(ctx context.Context, query string) ([]models.Product, error)
	UniqueColors(ctx context.Context, categorySlug string) ([]cart.Color, error)
}

type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) ProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		Preload("Categories").
		Where("id = ?", id).
		First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormProductRepository) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		Preload("Categories").
		Where("slug = ?", slug).
		First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormProductRepository) Find(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	var products []models.Product
	query := r.filtered(ctx, filter).Order("products.created_at DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *GormProductRepository) filtered(ctx context.Context, filter ProductFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.Product{})
	if filter.CategorySlug != "" {
		query = query.
			Joins("JOIN product_categories ON product_categories.product_id = products.id").
			Joins("JOIN categories ON categories.id = product_categories.category_id").
			Where("categories.slug = ?", filter.CategorySlug)
	}
	if filter.MinPrice != nil {
		query = query.Where("products.current_price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("products.current_price <= ?", *filter.MaxPrice)
	}
	if filter.InStock != nil {
		query = query.Where("products.in_stock = ?", *filter.InStock)
	}
	if filter.OnSale {
		query = query.Where("products.original_price IS NOT NULL")
	}
	if len(filter.Colors) > 0 {
		values := make([]interface{}, 0, len(filter.Colors))
		for _, c := range filter.Colors {
			b, _ := json.Marshal([]map[string]string{{"name": c}})
			values = append(values, string(b))
		}
		query = query.Where(anyOf("products.available_colors @> ?", len(values)), values...)
	}
	if len(filter.Sizes) > 0 {
		values := make([]interface{}, 0, len(filter.Sizes))
		for _, s := range filter.Sizes {
			b, _ := json.Marshal([]string{s})
			values = append(values, string(b))
		}
		query = query.Where(anyOf("products.available_sizes @> ?", len(values)), values...)
	}
	return query
}

// anyOf repeats cond n times joined with OR.
func anyOf(cond string, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = cond
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

func (r *GormProductRepository) Search(ctx context.Context, query string) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).
		Where("title ILIKE ?", "%"+query+"%").
		Order("created_at DESC").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// UniqueColors returns each color once, by name, in first-seen order.
func (r *GormProductRepository) UniqueColors(ctx context.Context, categorySlug string) ([]cart.Color, error) {
	var products []models.Product
	if err := r.filtered(ctx, ProductFilter{CategorySlug: categorySlug}).
		Select("products.available_colors").
		Find(&products).Error; err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	colors := []cart.Color{}
	for _, p := range products {
		for _, c := range p.AvailableColors {
			if !seen[c.Name] {
				seen[c.Name] = true
				colors = append(colors, c)
			}
		}
	}
	return colors, nil
}
