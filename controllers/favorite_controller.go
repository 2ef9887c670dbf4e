package controllers

import (
	"net/http"

	"foodgram/middlewares"
	"foodgram/services"

	"github.com/gin-gonic/gin"
)

const (
	defaultPopularTop = 10
	maxPopularTop     = 100
)

func AddFavorite(ctx *gin.Context)            { addToCollection(ctx, services.Favorites) }
func RemoveFavorite(ctx *gin.Context)         { removeFromCollection(ctx, services.Favorites) }
func AddToShoppingCart(ctx *gin.Context)      { addToCollection(ctx, services.ShoppingCarts) }
func RemoveFromShoppingCart(ctx *gin.Context) { removeFromCollection(ctx, services.ShoppingCarts) }

func addToCollection(ctx *gin.Context, c *services.RecipeCollection) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	recipe, err := c.Add(ctx.Request.Context(), middlewares.CurrentUserID(ctx), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, newShortRecipeResponse(*recipe))
}

func removeFromCollection(ctx *gin.Context, c *services.RecipeCollection) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.Remove(ctx.Request.Context(), middlewares.CurrentUserID(ctx), id); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// RecipeFavorites reports how many users favorited the recipe.
func RecipeFavorites(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	n, err := services.FavoriteCount(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"id": id, "favorites": n})
}

// PopularRecipes returns the ?top=N most favorited recipes.
func PopularRecipes(ctx *gin.Context) {
	top := queryInt(ctx, "top", defaultPopularTop)
	if top <= 0 {
		top = defaultPopularTop
	}
	if top > maxPopularTop {
		top = maxPopularTop
	}

	ranking, err := services.TopRecipes(ctx.Request.Context(), top)
	if err != nil {
		respondError(ctx, err)
		return
	}
	list := make([]popularRecipeResponse, 0, len(ranking))
	for _, p := range ranking {
		list = append(list, popularRecipeResponse{
			Rank:        p.Rank,
			ID:          p.Recipe.ID,
			Name:        p.Recipe.Name,
			Image:       p.Recipe.Image,
			CookingTime: p.Recipe.CookingTime,
			Favorites:   p.Favorites,
		})
	}
	ctx.JSON(http.StatusOK, list)
}
