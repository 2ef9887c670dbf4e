package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"foodgram/global"
	"foodgram/logger"
	"foodgram/services"
	"foodgram/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// respondError maps service errors onto status codes and the {"detail": ...} body.
func respondError(ctx *gin.Context, err error) {
	var verr *services.ValidationError
	var rerr *services.RequestError

	switch {
	case errors.As(err, &verr):
		ctx.JSON(http.StatusBadRequest, verr.Fields)
	case errors.As(err, &rerr):
		ctx.JSON(http.StatusBadRequest, gin.H{"detail": rerr.Error()})
	case errors.Is(err, services.ErrNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
	case errors.Is(err, services.ErrForbidden):
		ctx.JSON(http.StatusForbidden, gin.H{"detail": services.ErrForbidden.Error()})
	default:
		logger.FromGin(ctx, global.Logger).Error("request failed", zap.Error(err))
		_ = ctx.Error(err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"detail": "internal server error"})
	}
}

func bindJSON(ctx *gin.Context, dst any) bool {
	if err := ctx.ShouldBindJSON(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			ctx.JSON(http.StatusBadRequest, utils.ValidationMessages(verrs))
		} else {
			ctx.JSON(http.StatusBadRequest, gin.H{"detail": "Malformed request body: " + err.Error()})
		}
		return false
	}
	return true
}

// pathID parses a numeric path parameter. Anything else is a 404 like an unknown id.
func pathID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || id == 0 {
		ctx.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return 0, false
	}
	return uint(id), true
}

// queryInt returns the query value as an int, or def when absent or malformed.
func queryInt(ctx *gin.Context, name string, def int) int {
	v, err := strconv.Atoi(ctx.Query(name))
	if err != nil {
		return def
	}
	return v
}

func queryTruthy(ctx *gin.Context, name string) bool {
	v, err := strconv.ParseBool(ctx.Query(name))
	return err == nil && v
}
