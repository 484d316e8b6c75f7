package controllers

import (
	"context"
	"net/http"

	"storefront/cart"
	"storefront/checkout"
	"storefront/middleware"
	"storefront/services"
	"storefront/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type OrderController struct {
	orderService services.OrderService
	catalog      services.CatalogService
	logger       *zap.Logger
}

func NewOrderController(orderService services.OrderService, catalog services.CatalogService, logger *zap.Logger) *OrderController {
	return &OrderController{orderService: orderService, catalog: catalog, logger: logger}
}

// PlaceOrder submits the checkout. The draft is checked before any catalog
// lookup; cart lines are then priced from the catalog, not from the request.
// On success the session cart and checkout draft are cleared.
func (oc *OrderController) PlaceOrder(ctx *gin.Context) {
	var req services.PlaceOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request"})
		return
	}

	if sub := checkout.ValidateSubmission(req.CheckoutData); !sub.Valid {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid checkout data"})
		return
	}

	items, serr := oc.repriceItems(ctx.Request.Context(), req.CartItems)
	if serr != nil {
		ctx.JSON(serr.StatusCode, gin.H{"success": false, "error": serr.Message})
		return
	}
	req.CartItems = items

	var userID *uuid.UUID
	if id, err := middleware.GetUserID(ctx); err == nil {
		userID = &id
	}

	result, serr := oc.orderService.PlaceOrder(ctx.Request.Context(), userID, req)
	if serr != nil {
		ctx.JSON(serr.StatusCode, gin.H{"success": false, "error": serr.Message})
		return
	}

	middleware.GetStore(ctx).Remove(ctx.Request.Context(), storage.KeyCart)
	newCheckoutStorage(ctx, oc.logger).ClearCheckoutData(ctx.Request.Context())

	ctx.JSON(http.StatusOK, gin.H{
		"success":     true,
		"orderId":     result.OrderID,
		"orderNumber": result.OrderNumber,
	})
}

// repriceItems swaps each line's product snapshot for the current catalog
// record. Quantity and variant selection are kept.
func (oc *OrderController) repriceItems(ctx context.Context, items []cart.Item) ([]cart.Item, *services.ServiceError) {
	priced := make([]cart.Item, 0, len(items))
	for _, item := range items {
		id, err := uuid.Parse(item.Product.ID)
		if err != nil {
			return nil, &services.ServiceError{StatusCode: http.StatusBadRequest, Message: "Invalid cart item"}
		}
		product, serr := oc.catalog.ProductByID(ctx, id)
		if serr != nil {
			if serr.StatusCode == http.StatusNotFound {
				return nil, &services.ServiceError{StatusCode: http.StatusBadRequest, Message: "Product no longer available"}
			}
			return nil, serr
		}
		if client := item.Product.CurrentPrice; client != product.CurrentPrice {
			oc.logger.Info("Cart line repriced",
				zap.String("product_id", product.ID.String()),
				zap.Float64("cart_price", client),
				zap.Float64("catalog_price", product.CurrentPrice),
			)
		}
		item.Product = product.Ref()
		priced = append(priced, item)
	}
	return priced, nil
}
