package controllers

import (
	"net/http"

	"storefront/middleware"
	"storefront/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AccountController struct {
	accountService services.AccountService
	orderService   services.OrderService
}

func NewAccountController(accountService services.AccountService, orderService services.OrderService) *AccountController {
	return &AccountController{accountService: accountService, orderService: orderService}
}

func currentUserID(ctx *gin.Context) (uuid.UUID, bool) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return uuid.Nil, false
	}
	return userID, true
}

func (ac *AccountController) Overview(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	overview, serr := ac.accountService.Overview(ctx.Request.Context(), userID)
	if serr != nil {
		respondError(ctx, serr)
		return
	}
	ctx.JSON(http.StatusOK, overview)
}

func (ac *AccountController) UpdateProfile(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var req services.ProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}
	user, serr := ac.accountService.UpdateProfile(ctx.Request.Context(), userID, req)
	if serr != nil {
		respondError(ctx, serr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Profile updated", "user": user})
}

func (ac *AccountController) Addresses(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	addresses, serr := ac.accountService.Addresses(ctx.Request.Context(), userID)
	if serr != nil {
		respondError(ctx, serr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"addresses": addresses})
}

func (ac *AccountController) DefaultAddress(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	address, serr := ac.accountService.DefaultAddress(ctx.Request.Context(), userID)
	if serr != nil {
		respondError(ctx, serr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"address": address})
}

func (ac *AccountController) CreateAddress(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var req services.AddressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}
	address, serr := ac.accountService.CreateAddress(ctx.Request.Context(), userID, req)
	if serr != nil {
		respondError(ctx, serr)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"address": address})
}

func (ac *AccountController) UpdateAddress(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(ctx, "id", "Invalid address ID")
	if !ok {
		return
	}
	var req services.AddressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}
	address, serr := ac.accountService.UpdateAddress(ctx.Request.Context(), userID, id, req)
	if serr != nil {
		respondError(ctx, serr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"address": address})
}

func (ac *AccountController) DeleteAddress(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(ctx, "id", "Invalid address ID")
	if !ok {
		return
	}
	if serr := ac.accountService.DeleteAddress(ctx.Request.Context(), userID, id); serr != nil {
		respondError(ctx, serr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Address deleted"})
}

func (ac *AccountController) SetDefaultAddress(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(ctx, "id", "Invalid address ID")
	if !ok {
		return
	}
	if serr := ac.accountService.SetDefaultAddress(ctx.Request.Context(), userID, id); serr != nil {
		respondError(ctx, serr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Default address updated"})
}

// Orders returns the caller's orders, newest first.
func (ac *AccountController) Orders(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	page, limit := parsePaginationParams(ctx)
	result, serr := ac.orderService.GetUserOrders(ctx.Request.Context(), userID, page, limit)
	if serr != nil {
		respondError(ctx, serr)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

func (ac *AccountController) Order(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	orderID, ok := parseUUIDParam(ctx, "orderId", "Invalid order ID")
	if !ok {
		return
	}
	order, serr := ac.orderService.GetUserOrder(ctx.Request.Context(), userID, orderID)
	if serr != nil {
		respondError(ctx, serr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"order": newOrderView(order)})
}
