package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"foodgram/middlewares"
	"foodgram/models"
	"foodgram/services"

	"github.com/gin-gonic/gin"
)

type userResponse struct {
	Email        string `json:"email"`
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

type registeredUserResponse struct {
	Email     string `json:"email"`
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type tagResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Slug  string `json:"slug"`
}

type ingredientResponse struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

type recipeIngredientResponse struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

type recipeResponse struct {
	ID               uint                       `json:"id"`
	Tags             []tagResponse              `json:"tags"`
	Author           userResponse               `json:"author"`
	Ingredients      []recipeIngredientResponse `json:"ingredients"`
	IsFavorited      bool                       `json:"is_favorited"`
	IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
	Name             string                     `json:"name"`
	Image            string                     `json:"image"`
	Text             string                     `json:"text"`
	CookingTime      int                        `json:"cooking_time"`
}

type shortRecipeResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

type subscriptionResponse struct {
	userResponse
	Recipes      []shortRecipeResponse `json:"recipes"`
	RecipesCount int64                 `json:"recipes_count"`
}

type popularRecipeResponse struct {
	Rank        int    `json:"rank"`
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
	Favorites   int64  `json:"favorites"`
}

type activityResponse struct {
	Action       string    `json:"action"`
	RecipeID     *uint     `json:"recipe_id"`
	TargetUserID *uint     `json:"target_user_id"`
	CreatedAt    time.Time `json:"created_at"`
}

func newUserResponse(u models.User, subscribed bool) userResponse {
	return userResponse{
		Email:        u.Email,
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}
}

func newTagResponse(t models.Tag) tagResponse {
	return tagResponse{ID: t.ID, Name: t.Name, Color: t.Color, Slug: t.Slug}
}

func newIngredientResponse(i models.Ingredient) ingredientResponse {
	return ingredientResponse{ID: i.ID, Name: i.Name, MeasurementUnit: i.MeasurementUnit}
}

func newShortRecipeResponse(r models.Recipe) shortRecipeResponse {
	return shortRecipeResponse{ID: r.ID, Name: r.Name, Image: r.Image, CookingTime: r.CookingTime}
}

func optionalID(id uint) *uint {
	if id == 0 {
		return nil
	}
	return &id
}

// presentUsers adds is_subscribed from the viewer's point of view.
func presentUsers(ctx *gin.Context, users []models.User) ([]userResponse, error) {
	ids := make([]uint, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	subscribed, err := services.SubscribedTo(ctx.Request.Context(), middlewares.CurrentUserID(ctx), ids)
	if err != nil {
		return nil, err
	}
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, newUserResponse(u, subscribed[u.ID]))
	}
	return out, nil
}

func presentUser(ctx *gin.Context, u models.User) (userResponse, error) {
	out, err := presentUsers(ctx, []models.User{u})
	if err != nil {
		return userResponse{}, err
	}
	return out[0], nil
}

// presentRecipes renders full recipes with the viewer's favorite, cart and subscription flags.
func presentRecipes(ctx *gin.Context, recipes []models.Recipe) ([]recipeResponse, error) {
	viewer := middlewares.CurrentUserID(ctx)
	recipeIDs := make([]uint, 0, len(recipes))
	authorIDs := make([]uint, 0, len(recipes))
	for _, r := range recipes {
		recipeIDs = append(recipeIDs, r.ID)
		authorIDs = append(authorIDs, r.AuthorID)
	}

	flags, err := services.RecipeFlagsFor(ctx.Request.Context(), viewer, recipeIDs)
	if err != nil {
		return nil, err
	}
	subscribed, err := services.SubscribedTo(ctx.Request.Context(), viewer, authorIDs)
	if err != nil {
		return nil, err
	}

	out := make([]recipeResponse, 0, len(recipes))
	for _, r := range recipes {
		tags := make([]tagResponse, 0, len(r.Tags))
		for _, t := range r.Tags {
			tags = append(tags, newTagResponse(t))
		}
		ings := make([]recipeIngredientResponse, 0, len(r.Ingredients))
		for _, ri := range r.Ingredients {
			ings = append(ings, recipeIngredientResponse{
				ID:              ri.IngredientID,
				Name:            ri.Ingredient.Name,
				MeasurementUnit: ri.Ingredient.MeasurementUnit,
				Amount:          ri.Amount,
			})
		}
		out = append(out, recipeResponse{
			ID:               r.ID,
			Tags:             tags,
			Author:           newUserResponse(r.Author, subscribed[r.AuthorID]),
			Ingredients:      ings,
			IsFavorited:      flags.Favorited[r.ID],
			IsInShoppingCart: flags.InCart[r.ID],
			Name:             r.Name,
			Image:            r.Image,
			Text:             r.Text,
			CookingTime:      r.CookingTime,
		})
	}
	return out, nil
}

func presentRecipe(ctx *gin.Context, r *models.Recipe) (recipeResponse, error) {
	out, err := presentRecipes(ctx, []models.Recipe{*r})
	if err != nil {
		return recipeResponse{}, err
	}
	return out[0], nil
}

// presentSubscription renders a followed author with up to recipesLimit of their recipes.
func presentSubscription(ctx *gin.Context, author models.User, recipesLimit int) (subscriptionResponse, error) {
	recipes, count, err := services.AuthorRecipes(ctx.Request.Context(), author.ID, recipesLimit)
	if err != nil {
		return subscriptionResponse{}, err
	}
	short := make([]shortRecipeResponse, 0, len(recipes))
	for _, r := range recipes {
		short = append(short, newShortRecipeResponse(r))
	}
	return subscriptionResponse{
		userResponse: newUserResponse(author, true),
		Recipes:      short,
		RecipesCount: count,
	}, nil
}

// flexInt accepts a JSON number or a numeric string.
type flexInt int

var errNotInteger = errors.New("a valid integer is required")

func (f *flexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return errNotInteger
		}
		b = []byte(s)
	}
	n, err := strconv.Atoi(string(b))
	if err != nil {
		return errNotInteger
	}
	*f = flexInt(n)
	return nil
}
