package controllers

import (
	"net/http"
	"time"

	"storefront/repository"
	"storefront/services"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	orderService   services.OrderService
	accountService services.AccountService
}

func NewAdminController(orderService services.OrderService, accountService services.AccountService) *AdminController {
	return &AdminController{orderService: orderService, accountService: accountService}
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"paymentStatus" binding:"required"`
}

type UpdateTrackingRequest struct {
	TrackingNumber    string     `json:"trackingNumber" binding:"required"`
	EstimatedDelivery *time.Time `json:"estimatedDelivery"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

func (ac *AdminController) ListOrders(ctx *gin.Context) {
	page, limit := parsePaginationParams(ctx)
	filter := repository.OrderFilter{
		Status:        ctx.Query("status"),
		PaymentStatus: ctx.Query("paymentStatus"),
	}
	result, serr := ac.orderService.GetAllOrders(ctx.Request.Context(), filter, page, limit)
	if serr != nil {
		respondError(ctx, serr)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

func (ac *AdminController) GetOrder(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id", "Invalid order ID")
	if !ok {
		return
	}
	order, serr := ac.orderService.GetOrder(ctx.Request.Context(), id)
	if serr != nil {
		respondError(ctx, serr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"order": order})
}

func (ac *AdminController) GetOrderByNumber(ctx *gin.Context) {
	order, serr := ac.orderService.GetOrderByNumber(ctx.Request.Context(), ctx.Param("orderNumber"))
	if serr != nil {
		respondError(ctx, serr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"order": order})
}

func (ac *AdminController) UpdateStatus(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id", "Invalid order ID")
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Status is required"})
		return
	}
	order, serr := ac.orderService.UpdateStatus(ctx.Request.Context(), id, req.Status)
	if serr != nil {
		respondError(ctx, serr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"order": order})
}

func (ac *AdminController) UpdatePaymentStatus(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id", "Invalid order ID")
	if !ok {
		return
	}
	var req UpdatePaymentStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Payment status is required"})
		return
	}
	order, serr := ac.orderService.UpdatePaymentStatus(ctx.Request.Context(), id, req.PaymentStatus)
	if serr != nil {
		respondError(ctx, serr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"order": order})
}

func (ac *AdminController) UpdateTracking(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id", "Invalid order ID")
	if !ok {
		return
	}
	var req UpdateTrackingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Tracking number is required"})
		return
	}
	order, serr := ac.orderService.UpdateTracking(ctx.Request.Context(), id, req.TrackingNumber, req.EstimatedDelivery)
	if serr != nil {
		respondError(ctx, serr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"order": order})
}

// UpdateUserRole is owner only.
func (ac *AdminController) UpdateUserRole(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id", "Invalid user ID")
	if !ok {
		return
	}
	var req UpdateRoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Role is required"})
		return
	}
	user, serr := ac.accountService.UpdateRole(ctx.Request.Context(), id, req.Role)
	if serr != nil {
		respondError(ctx, serr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"user": user})
}
