package controllers

import (
	"net/http"

	"foodgram/services"

	"github.com/gin-gonic/gin"
)

func ListTags(ctx *gin.Context) {
	tags, err := services.ListTags(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	out := make([]tagResponse, 0, len(tags))
	for _, t := range tags {
		out = append(out, newTagResponse(t))
	}
	ctx.JSON(http.StatusOK, out)
}

func GetTag(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	tag, err := services.GetTag(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, newTagResponse(*tag))
}

// ListIngredients filters by ?name= prefix and is not paginated.
func ListIngredients(ctx *gin.Context) {
	ings, err := services.SearchIngredients(ctx.Request.Context(), ctx.Query("name"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	out := make([]ingredientResponse, 0, len(ings))
	for _, i := range ings {
		out = append(out, newIngredientResponse(i))
	}
	ctx.JSON(http.StatusOK, out)
}

func GetIngredient(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	ing, err := services.GetIngredient(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, newIngredientResponse(*ing))
}
