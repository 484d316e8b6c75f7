package controllers

import (
	"net/http"
	"strconv"

	"storefront/cart"
	"storefront/models"
	"storefront/repository"
	"storefront/services"

	"github.com/gin-gonic/gin"
)

type CatalogController struct {
	catalog services.CatalogService
}

func NewCatalogController(catalog services.CatalogService) *CatalogController {
	return &CatalogController{catalog: catalog}
}

func (cc *CatalogController) Home(ctx *gin.Context) {
	home, serr := cc.catalog.Home(ctx.Request.Context())
	if serr != nil {
		respondError(ctx, serr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"newArrivalsProducts": productViews(home.NewArrivals),
		"topSellingProducts":  productViews(home.TopSelling),
	})
}

func (cc *CatalogController) Categories(ctx *gin.Context) {
	categories, serr := cc.catalog.Categories(ctx.Request.Context())
	if serr != nil {
		respondError(ctx, serr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"categories": categories})
}

// CategoryProducts serves a category page. color and size may repeat.
func (cc *CatalogController) CategoryProducts(ctx *gin.Context) {
	page, serr := cc.catalog.CategoryPage(ctx.Request.Context(), ctx.Param("slug"), services.CategoryQuery{
		MinPrice: parseFloatQuery(ctx, "minPrice"),
		MaxPrice: parseFloatQuery(ctx, "maxPrice"),
		Colors:   ctx.QueryArray("color"),
		Sizes:    ctx.QueryArray("size"),
	})
	if serr != nil {
		respondError(ctx, serr)
		return
	}
	ctx.JSON(http.StatusOK, categoryPageView{CategoryPage: page, Products: productViews(page.Products)})
}

func (cc *CatalogController) Product(ctx *gin.Context) {
	product, serr := cc.catalog.ProductBySlug(ctx.Request.Context(), ctx.Param("slug"))
	if serr != nil {
		respondError(ctx, serr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"product": newProductView(*product)})
}

// Products searches by title when q is set, otherwise lists with filters.
func (cc *CatalogController) Products(ctx *gin.Context) {
	if q, ok := ctx.GetQuery("q"); ok {
		products, serr := cc.catalog.Search(ctx.Request.Context(), q)
		if serr != nil {
			respondError(ctx, serr)
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"products": productViews(products), "query": q})
		return
	}

	filter := repository.ProductFilter{
		CategorySlug: ctx.Query("category"),
		MinPrice:     parseFloatQuery(ctx, "minPrice"),
		MaxPrice:     parseFloatQuery(ctx, "maxPrice"),
		Colors:       ctx.QueryArray("color"),
		Sizes:        ctx.QueryArray("size"),
		OnSale:       ctx.Query("onSale") == "true",
	}
	if raw := ctx.Query("inStock"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			filter.InStock = &v
		}
	}
	if limit, err := strconv.Atoi(ctx.Query("limit")); err == nil && limit > 0 && limit <= 100 {
		filter.Limit = limit
	}

	products, serr := cc.catalog.Products(ctx.Request.Context(), filter)
	if serr != nil {
		respondError(ctx, serr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"products": productViews(products)})
}

// Collection serves the named product shelves.
func (cc *CatalogController) Collection(ctx *gin.Context) {
	var (
		products []models.Product
		serr     *services.ServiceError
	)
	switch ctx.Param("name") {
	case "featured":
		products, serr = cc.catalog.Featured(ctx.Request.Context())
	case "discounted":
		products, serr = cc.catalog.Discounted(ctx.Request.Context())
	case "in-stock":
		products, serr = cc.catalog.InStock(ctx.Request.Context())
	default:
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Unknown collection"})
		return
	}
	if serr != nil {
		respondError(ctx, serr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"products": productViews(products)})
}

func (cc *CatalogController) Colors(ctx *gin.Context) {
	colors, serr := cc.catalog.UniqueColors(ctx.Request.Context(), ctx.Query("category"))
	if serr != nil {
		respondError(ctx, serr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"colors": colors})
}

type CreateProductRequest struct {
	Title           string       `json:"title" binding:"required"`
	Slug            string       `json:"slug" binding:"required"`
	Description     string       `json:"description" binding:"required"`
	CurrentPrice    float64      `json:"currentPrice" binding:"required,gt=0"`
	OriginalPrice   *float64     `json:"originalPrice" binding:"omitempty,gt=0"`
	Images          []string     `json:"images" binding:"required,min=1"`
	InStock         bool         `json:"inStock"`
	Rating          *float64     `json:"rating" binding:"omitempty,min=0,max=5"`
	ReviewCount     int          `json:"reviewCount" binding:"min=0"`
	AvailableColors []cart.Color `json:"availableColors"`
	AvailableSizes  []string     `json:"availableSizes"`
	CategorySlugs   []string     `json:"categories"`
}

// CreateProduct adds a product to the catalog, linked to existing categories.
func (cc *CatalogController) CreateProduct(ctx *gin.Context) {
	var req CreateProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	product := &models.Product{
		Title:           req.Title,
		Slug:            req.Slug,
		Description:     req.Description,
		CurrentPrice:    req.CurrentPrice,
		OriginalPrice:   req.OriginalPrice,
		Images:          req.Images,
		InStock:         req.InStock,
		Rating:          req.Rating,
		ReviewCount:     req.ReviewCount,
		AvailableColors: req.AvailableColors,
		AvailableSizes:  req.AvailableSizes,
	}
	for _, slug := range req.CategorySlugs {
		category, serr := cc.catalog.CategoryBySlug(ctx.Request.Context(), slug)
		if serr != nil {
			respondError(ctx, serr)
			return
		}
		product.Categories = append(product.Categories, *category)
	}

	if serr := cc.catalog.CreateProduct(ctx.Request.Context(), product); serr != nil {
		respondError(ctx, serr)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"product": product})
}
