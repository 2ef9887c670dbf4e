package testutil

import (
	"fmt"
	"testing"

	"foodgram/models"
	"foodgram/utils"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// DefaultPassword is the plain password of users made by CreateUser.
const DefaultPassword = "s3cret-pass"

func CreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	hash, err := utils.HashPassword(DefaultPassword)
	require.NoError(t, err)
	u := &models.User{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "First " + username,
		LastName:  "Last " + username,
		Password:  hash,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func CreateTag(t *testing.T, db *gorm.DB, name, color, slug string) *models.Tag {
	t.Helper()
	tag := &models.Tag{Name: name, Color: color, Slug: slug}
	require.NoError(t, db.Create(tag).Error)
	return tag
}

func CreateIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()
	ing := &models.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(ing).Error)
	return ing
}

// RecipeLine is an ingredient and amount for CreateRecipe.
type RecipeLine struct {
	Ingredient *models.Ingredient
	Amount     int
}

// CreateRecipe inserts a recipe with its relations directly, bypassing validation.
func CreateRecipe(t *testing.T, db *gorm.DB, author *models.User, name string, tags []*models.Tag, lines ...RecipeLine) *models.Recipe {
	t.Helper()
	r := &models.Recipe{
		Name:        name,
		Text:        "How to cook " + name,
		CookingTime: 10,
		Image:       fmt.Sprintf("/media/recipes/images/%s.png", name),
		AuthorID:    author.ID,
	}
	require.NoError(t, db.Omit("Author", "Tags", "Ingredients").Create(r).Error)
	for _, tag := range tags {
		require.NoError(t, db.Create(&models.RecipeTag{RecipeID: r.ID, TagID: tag.ID}).Error)
	}
	for _, l := range lines {
		require.NoError(t, db.Omit("Ingredient").Create(&models.RecipeIngredient{
			RecipeID:     r.ID,
			IngredientID: l.Ingredient.ID,
			Amount:       l.Amount,
		}).Error)
	}
	return r
}
