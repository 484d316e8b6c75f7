package controllers

import (
	"net/http"
	"slices"

	"storefront/cart"
	"storefront/middleware"
	"storefront/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CartController struct {
	catalog services.CatalogService
	logger  *zap.Logger
}

func NewCartController(catalog services.CatalogService, logger *zap.Logger) *CartController {
	return &CartController{catalog: catalog, logger: logger}
}

type CartLineRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Color     string `json:"selectedColor"`
	Size      string `json:"selectedSize"`
}

func (r CartLineRequest) variant() cart.Variant {
	return cart.Variant{Color: r.Color, Size: r.Size}
}

type AddToCartRequest struct {
	CartLineRequest
	Quantity int `json:"quantity" binding:"required,min=1"`
}

type UpdateCartRequest struct {
	CartLineRequest
	Quantity int `json:"quantity"`
}

func (cc *CartController) load(ctx *gin.Context) *cart.Container {
	return cart.Load(ctx.Request.Context(), middleware.GetStore(ctx), cc.logger)
}

func (cc *CartController) GetCart(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, cc.load(ctx).Snapshot())
}

// AddItem snapshots the product from the catalog and adds it to the session
// cart.
func (cc *CartController) AddItem(ctx *gin.Context) {
	var req AddToCartRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	product, serr := cc.catalog.ProductByID(ctx.Request.Context(), productID)
	if serr != nil {
		respondError(ctx, serr)
		return
	}
	if !product.InStock {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Product is out of stock"})
		return
	}
	if req.Color != "" && len(product.AvailableColors) > 0 &&
		!slices.ContainsFunc(product.AvailableColors, func(c cart.Color) bool { return c.Name == req.Color }) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Selected color is not available"})
		return
	}
	if req.Size != "" && len(product.AvailableSizes) > 0 && !slices.Contains(product.AvailableSizes, req.Size) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Selected size is not available"})
		return
	}

	updated := cc.load(ctx).AddItem(ctx.Request.Context(), product.Ref(), req.Quantity, req.variant())
	ctx.JSON(http.StatusOK, updated)
}

// UpdateItem sets a line's quantity; zero removes the line.
func (cc *CartController) UpdateItem(ctx *gin.Context) {
	var req UpdateCartRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	updated := cc.load(ctx).UpdateQuantity(ctx.Request.Context(), req.ProductID, req.Quantity, req.variant())
	ctx.JSON(http.StatusOK, updated)
}

func (cc *CartController) RemoveItem(ctx *gin.Context) {
	var req CartLineRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	updated := cc.load(ctx).RemoveItem(ctx.Request.Context(), req.ProductID, req.variant())
	ctx.JSON(http.StatusOK, updated)
}

func (cc *CartController) ClearCart(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, cc.load(ctx).Clear(ctx.Request.Context()))
}
