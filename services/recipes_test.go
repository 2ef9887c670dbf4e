package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"foodgram/models"
	"foodgram/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recipeFixture struct {
	db        *gorm.DB
	author    *models.User
	other     *models.User
	breakfast *models.Tag
	dinner    *models.Tag
	egg       *models.Ingredient
	milk      *models.Ingredient
}

func newRecipeFixture(t *testing.T) recipeFixture {
	db := testutil.SetupDB(t)
	return recipeFixture{
		db:        db,
		author:    testutil.CreateUser(t, db, "author"),
		other:     testutil.CreateUser(t, db, "other"),
		breakfast: testutil.CreateTag(t, db, "Breakfast", "#E26C2D", "breakfast"),
		dinner:    testutil.CreateTag(t, db, "Dinner", "#49B64E", "dinner"),
		egg:       testutil.CreateIngredient(t, db, "egg", "pcs"),
		milk:      testutil.CreateIngredient(t, db, "milk", "ml"),
	}
}

func ptr[T any](v T) *T { return &v }

func (f recipeFixture) input(name string) RecipeInput {
	return RecipeInput{
		Name:        ptr(name),
		Text:        ptr("Whisk and fry."),
		CookingTime: ptr(15),
		Image:       ptr(testutil.PNGDataURI),
		Tags:        []uint{f.breakfast.ID},
		Ingredients: []IngredientAmount{{ID: f.egg.ID, Amount: 2}, {ID: f.milk.ID, Amount: 50}},
	}
}

func validationFields(t *testing.T, err error) map[string][]string {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected validation error, got %v", err)
	return verr.Fields
}

func TestCreateRecipe(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()

	recipe, err := CreateRecipe(ctx, f.author.ID, f.input("Omelette"))
	require.NoError(t, err)

	assert.Equal(t, "Omelette", recipe.Name)
	assert.Equal(t, f.author.ID, recipe.Author.ID)
	assert.Contains(t, recipe.Image, "/media/recipes/images/")
	assert.Contains(t, recipe.Image, ".png")
	require.Len(t, recipe.Tags, 1)
	assert.Equal(t, "breakfast", recipe.Tags[0].Slug)
	require.Len(t, recipe.Ingredients, 2)
	assert.Equal(t, "egg", recipe.Ingredients[0].Ingredient.Name)
	assert.Equal(t, 2, recipe.Ingredients[0].Amount)
	assert.Equal(t, 50, recipe.Ingredients[1].Amount)

	var acts []models.Activity
	require.NoError(t, f.db.Where("user_id = ?", f.author.ID).Find(&acts).Error)
	require.Len(t, acts, 1)
	assert.Equal(t, EventRecipeCreated, acts[0].Action)
}

func TestCreateRecipe_Validation(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()
	_, err := CreateRecipe(ctx, f.author.ID, f.input("Taken"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(in *RecipeInput)
		field  string
	}{
		{"missing name", func(in *RecipeInput) { in.Name = nil }, "name"},
		{"name too long", func(in *RecipeInput) { in.Name = ptr(strings.Repeat("a", 201)) }, "name"},
		{"duplicate name", func(in *RecipeInput) { in.Name = ptr("Taken") }, "name"},
		{"missing image", func(in *RecipeInput) { in.Image = nil }, "image"},
		{"bad image", func(in *RecipeInput) { in.Image = ptr("not-an-image") }, "image"},
		{"cooking time zero", func(in *RecipeInput) { in.CookingTime = ptr(0) }, "cooking_time"},
		{"cooking time too big", func(in *RecipeInput) { in.CookingTime = ptr(32001) }, "cooking_time"},
		{"no tags", func(in *RecipeInput) { in.Tags = []uint{} }, "tags"},
		{"missing tags", func(in *RecipeInput) { in.Tags = nil }, "tags"},
		{"duplicate tags", func(in *RecipeInput) { in.Tags = []uint{f.breakfast.ID, f.breakfast.ID} }, "tags"},
		{"unknown tag", func(in *RecipeInput) { in.Tags = []uint{9999} }, "tags"},
		{"no ingredients", func(in *RecipeInput) { in.Ingredients = []IngredientAmount{} }, "ingredients"},
		{"duplicate ingredient", func(in *RecipeInput) {
			in.Ingredients = []IngredientAmount{{ID: f.egg.ID, Amount: 1}, {ID: f.egg.ID, Amount: 2}}
		}, "ingredients"},
		{"unknown ingredient", func(in *RecipeInput) { in.Ingredients = []IngredientAmount{{ID: 9999, Amount: 1}} }, "ingredients"},
		{"amount zero", func(in *RecipeInput) { in.Ingredients = []IngredientAmount{{ID: f.egg.ID, Amount: 0}} }, "ingredients"},
		{"amount too big", func(in *RecipeInput) { in.Ingredients = []IngredientAmount{{ID: f.egg.ID, Amount: 32001}} }, "ingredients"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := f.input("Pancakes")
			tt.mutate(&in)
			_, err := CreateRecipe(ctx, f.author.ID, in)
			assert.Contains(t, validationFields(t, err), tt.field)
		})
	}

	var n int64
	require.NoError(t, f.db.Model(&models.Recipe{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestUpdateRecipe(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()
	created, err := CreateRecipe(ctx, f.author.ID, f.input("Omelette"))
	require.NoError(t, err)

	t.Run("non author is forbidden", func(t *testing.T) {
		_, err := UpdateRecipe(ctx, f.other.ID, created.ID, f.input("Stolen"))
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("missing recipe", func(t *testing.T) {
		_, err := UpdateRecipe(ctx, f.author.ID, 9999, f.input("Ghost"))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("replaces relations and keeps image", func(t *testing.T) {
		in := f.input("Big omelette")
		in.Image = nil
		in.Tags = []uint{f.dinner.ID, f.breakfast.ID}
		in.Ingredients = []IngredientAmount{{ID: f.egg.ID, Amount: 4}}

		updated, err := UpdateRecipe(ctx, f.author.ID, created.ID, in)
		require.NoError(t, err)
		assert.Equal(t, "Big omelette", updated.Name)
		assert.Equal(t, created.Image, updated.Image)
		assert.Len(t, updated.Tags, 2)
		require.Len(t, updated.Ingredients, 1)
		assert.Equal(t, 4, updated.Ingredients[0].Amount)
	})

	t.Run("same name is not a duplicate of itself", func(t *testing.T) {
		in := f.input("Big omelette")
		in.Image = ptr(created.Image)
		_, err := UpdateRecipe(ctx, f.author.ID, created.ID, in)
		assert.NoError(t, err)
	})

	t.Run("new image replaces the stored one", func(t *testing.T) {
		updated, err := UpdateRecipe(ctx, f.author.ID, created.ID, f.input("Big omelette"))
		require.NoError(t, err)
		assert.NotEqual(t, created.Image, updated.Image)
	})
}

func TestDeleteRecipe(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()
	recipe, err := CreateRecipe(ctx, f.author.ID, f.input("Omelette"))
	require.NoError(t, err)

	_, err = Favorites.Add(ctx, f.other.ID, recipe.ID)
	require.NoError(t, err)
	_, err = ShoppingCarts.Add(ctx, f.other.ID, recipe.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, DeleteRecipe(ctx, f.other.ID, recipe.ID), ErrForbidden)
	assert.ErrorIs(t, DeleteRecipe(ctx, f.author.ID, 9999), ErrNotFound)
	require.NoError(t, DeleteRecipe(ctx, f.author.ID, recipe.ID))

	_, err = GetRecipe(ctx, recipe.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	for _, model := range []any{&models.RecipeTag{}, &models.RecipeIngredient{}, &models.Favorite{}, &models.ShoppingCart{}} {
		var n int64
		require.NoError(t, f.db.Model(model).Where("recipe_id = ?", recipe.ID).Count(&n).Error)
		assert.Zero(t, n)
	}
}

func TestListRecipes_Filters(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()

	omelette := testutil.CreateRecipe(t, f.db, f.author, "Omelette", []*models.Tag{f.breakfast})
	steak := testutil.CreateRecipe(t, f.db, f.author, "Steak", []*models.Tag{f.dinner})
	porridge := testutil.CreateRecipe(t, f.db, f.other, "Porridge", []*models.Tag{f.breakfast, f.dinner})

	_, err := Favorites.Add(ctx, f.other.ID, steak.ID)
	require.NoError(t, err)
	_, err = ShoppingCarts.Add(ctx, f.other.ID, omelette.ID)
	require.NoError(t, err)

	names := func(rs []models.Recipe) []string {
		out := make([]string, 0, len(rs))
		for _, r := range rs {
			out = append(out, r.Name)
		}
		return out
	}

	tests := []struct {
		name   string
		filter RecipeFilter
		want   []string
		count  int64
	}{
		{"all", RecipeFilter{Limit: 10}, []string{"Omelette", "Porridge", "Steak"}, 3},
		{"by author", RecipeFilter{AuthorID: f.other.ID, Limit: 10}, []string{"Porridge"}, 1},
		{"one tag", RecipeFilter{TagSlugs: []string{"breakfast"}, Limit: 10}, []string{"Omelette", "Porridge"}, 2},
		{"tags are or-ed", RecipeFilter{TagSlugs: []string{"breakfast", "dinner"}, Limit: 10}, []string{"Omelette", "Porridge", "Steak"}, 3},
		{"favorited", RecipeFilter{FavoritedBy: f.other.ID, Limit: 10}, []string{"Steak"}, 1},
		{"in cart", RecipeFilter{InCartOf: f.other.ID, Limit: 10}, []string{"Omelette"}, 1},
		{"search", RecipeFilter{Search: "porr", Limit: 10}, []string{"Porridge"}, 1},
		{"search wildcards are literal", RecipeFilter{Search: "%", Limit: 10}, []string{}, 0},
		{"paged", RecipeFilter{Limit: 1, Offset: 1}, nil, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, count, err := ListRecipes(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.count, count)
			if tt.want == nil {
				assert.Len(t, got, 1)
				return
			}
			assert.ElementsMatch(t, tt.want, names(got))
		})
	}

	flags, err := RecipeFlagsFor(ctx, f.other.ID, []uint{omelette.ID, steak.ID, porridge.ID})
	require.NoError(t, err)
	assert.True(t, flags.Favorited[steak.ID])
	assert.False(t, flags.Favorited[omelette.ID])
	assert.True(t, flags.InCart[omelette.ID])
}

func TestAuthorRecipes(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()
	for _, name := range []string{"A", "B", "C"} {
		testutil.CreateRecipe(t, f.db, f.author, name, nil)
	}

	recipes, count, err := AuthorRecipes(ctx, f.author.ID, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
	assert.Len(t, recipes, 2)

	recipes, _, err = AuthorRecipes(ctx, f.author.ID, -1)
	require.NoError(t, err)
	assert.Len(t, recipes, 3)
}
