package controllers

import (
	"net/http"

	"foodgram/global"
	"foodgram/middlewares"
	"foodgram/services"

	"github.com/gin-gonic/gin"
)

const (
	defaultActivityLimit = 20
	maxActivityLimit     = 100
)

func ListMyActivity(ctx *gin.Context) {
	limit := queryInt(ctx, "limit", defaultActivityLimit)
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	limit = min(limit, maxActivityLimit)

	acts, err := services.ListActivity(ctx.Request.Context(), middlewares.CurrentUserID(ctx), limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	out := make([]activityResponse, 0, len(acts))
	for _, a := range acts {
		out = append(out, activityResponse{
			Action:       a.Action,
			RecipeID:     optionalID(a.RecipeID),
			TargetUserID: optionalID(a.TargetUserID),
			CreatedAt:    a.CreatedAt,
		})
	}
	ctx.JSON(http.StatusOK, out)
}

// Healthz reports whether the database answers.
func Healthz(ctx *gin.Context) {
	sqlDB, err := global.Db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx.Request.Context())
	}
	if err != nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
