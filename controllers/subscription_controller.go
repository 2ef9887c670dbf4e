package controllers

import (
	"net/http"

	"foodgram/middlewares"
	"foodgram/services"

	"github.com/gin-gonic/gin"
)

// recipesLimit reads ?recipes_limit=, where absent or negative means all recipes.
func recipesLimit(ctx *gin.Context) int {
	n := queryInt(ctx, "recipes_limit", -1)
	if n < 0 {
		return -1
	}
	return n
}

func ListSubscriptions(ctx *gin.Context) {
	p := parsePage(ctx)
	authors, count, err := services.ListSubscriptions(ctx.Request.Context(), middlewares.CurrentUserID(ctx), p.Limit, p.Offset)
	if err != nil {
		respondError(ctx, err)
		return
	}
	limit := recipesLimit(ctx)
	results := make([]subscriptionResponse, 0, len(authors))
	for _, a := range authors {
		s, err := presentSubscription(ctx, a, limit)
		if err != nil {
			respondError(ctx, err)
			return
		}
		results = append(results, s)
	}
	ctx.JSON(http.StatusOK, paginate(ctx, p, count, results))
}

func Subscribe(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	author, err := services.Subscribe(ctx.Request.Context(), middlewares.CurrentUserID(ctx), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	out, err := presentSubscription(ctx, *author, recipesLimit(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, out)
}

func Unsubscribe(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := services.Unsubscribe(ctx.Request.Context(), middlewares.CurrentUserID(ctx), id); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
