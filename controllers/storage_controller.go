package controllers

import (
	"net/http"

	"storefront/middleware"

	"github.com/gin-gonic/gin"
)

// StorageController exposes diagnostics for the caller's session storage.
type StorageController struct{}

func NewStorageController() *StorageController {
	return &StorageController{}
}

func (sc *StorageController) Info(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, middleware.GetStore(ctx).Info(ctx.Request.Context()))
}

func (sc *StorageController) Health(ctx *gin.Context) {
	health := middleware.GetStore(ctx).HealthCheck(ctx.Request.Context())
	status := http.StatusOK
	if !health.Healthy {
		status = http.StatusServiceUnavailable
	}
	ctx.JSON(status, health)
}
