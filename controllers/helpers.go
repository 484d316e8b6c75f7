package controllers

import (
	"net/http"
	"strconv"

	"storefront/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func parsePaginationParams(ctx *gin.Context) (int, int) {
	page, err := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 10
	}

	return page, limit
}

// parseUUIDParam writes a 400 and returns false when the path param is not a
// UUID.
func parseUUIDParam(ctx *gin.Context, name, message string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": message})
		return uuid.Nil, false
	}
	return id, true
}

func respondError(ctx *gin.Context, serr *services.ServiceError) {
	ctx.JSON(serr.StatusCode, gin.H{"error": serr.Message})
}

func parseFloatQuery(ctx *gin.Context, key string) *float64 {
	raw := ctx.Query(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}
