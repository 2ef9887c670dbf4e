package controllers

import (
	"net/http"
	"strconv"

	"foodgram/middlewares"
	"foodgram/models"
	"foodgram/services"

	"github.com/gin-gonic/gin"
)

type ingredientAmountRequest struct {
	ID     uint    `json:"id"`
	Amount flexInt `json:"amount"`
}

// recipeRequest keeps pointers so absent fields can be told apart from zero values.
type recipeRequest struct {
	Ingredients *[]ingredientAmountRequest `json:"ingredients"`
	Tags        *[]uint                    `json:"tags"`
	Image       *string                    `json:"image"`
	Name        *string                    `json:"name"`
	Text        *string                    `json:"text"`
	CookingTime *flexInt                   `json:"cooking_time"`
}

func (r recipeRequest) input() services.RecipeInput {
	in := services.RecipeInput{
		Name:  r.Name,
		Text:  r.Text,
		Image: r.Image,
	}
	if r.CookingTime != nil {
		ct := int(*r.CookingTime)
		in.CookingTime = &ct
	}
	if r.Tags != nil {
		in.Tags = append([]uint{}, *r.Tags...)
	}
	if r.Ingredients != nil {
		in.Ingredients = make([]services.IngredientAmount, 0, len(*r.Ingredients))
		for _, it := range *r.Ingredients {
			in.Ingredients = append(in.Ingredients, services.IngredientAmount{ID: it.ID, Amount: int(it.Amount)})
		}
	}
	return in
}

func ListRecipes(ctx *gin.Context) {
	p := parsePage(ctx)
	filter := services.RecipeFilter{
		TagSlugs: ctx.QueryArray("tags"),
		Search:   ctx.Query("search"),
		Limit:    p.Limit,
		Offset:   p.Offset,
	}
	if author := ctx.Query("author"); author != "" {
		id, err := strconv.ParseUint(author, 10, 64)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"author": []string{"Select a valid choice."}})
			return
		}
		filter.AuthorID = uint(id)
	}
	if viewer := middlewares.CurrentUserID(ctx); viewer != 0 {
		if queryTruthy(ctx, "is_favorited") {
			filter.FavoritedBy = viewer
		}
		if queryTruthy(ctx, "is_in_shopping_cart") {
			filter.InCartOf = viewer
		}
	}

	recipes, count, err := services.ListRecipes(ctx.Request.Context(), filter)
	if err != nil {
		respondError(ctx, err)
		return
	}
	results, err := presentRecipes(ctx, recipes)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, paginate(ctx, p, count, results))
}

func GetRecipe(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	recipe, err := services.GetRecipe(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	writeRecipe(ctx, http.StatusOK, recipe)
}

func CreateRecipe(ctx *gin.Context) {
	var req recipeRequest
	if !bindJSON(ctx, &req) {
		return
	}
	recipe, err := services.CreateRecipe(ctx.Request.Context(), middlewares.CurrentUserID(ctx), req.input())
	if err != nil {
		respondError(ctx, err)
		return
	}
	writeRecipe(ctx, http.StatusCreated, recipe)
}

func UpdateRecipe(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req recipeRequest
	if !bindJSON(ctx, &req) {
		return
	}
	recipe, err := services.UpdateRecipe(ctx.Request.Context(), middlewares.CurrentUserID(ctx), id, req.input())
	if err != nil {
		respondError(ctx, err)
		return
	}
	writeRecipe(ctx, http.StatusOK, recipe)
}

func DeleteRecipe(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := services.DeleteRecipe(ctx.Request.Context(), middlewares.CurrentUserID(ctx), id); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// DownloadShoppingCart sends the aggregated ingredient list of the cart as a text file.
func DownloadShoppingCart(ctx *gin.Context) {
	body, err := services.RenderShoppingList(ctx.Request.Context(), middlewares.CurrentUserID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Header("Content-Disposition", `attachment; filename="shopping_list.txt"`)
	ctx.Data(http.StatusOK, "text/plain; charset=utf-8", body)
}

func writeRecipe(ctx *gin.Context, status int, recipe *models.Recipe) {
	out, err := presentRecipe(ctx, recipe)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(status, out)
}
