package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"foodgram/global"
	"foodgram/models"
	"foodgram/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type IngredientAmount struct {
	ID     uint
	Amount int
}

// RecipeInput is a create or update request. Nil fields were absent from the request.
type RecipeInput struct {
	Name        *string
	Text        *string
	CookingTime *int
	Image       *string
	Tags        []uint
	Ingredients []IngredientAmount
}

type RecipeFilter struct {
	AuthorID    uint
	TagSlugs    []string
	FavoritedBy uint
	InCartOf    uint
	Search      string
	Limit       int
	Offset      int
}

// RecipeFlags tells, per recipe id, whether the viewer favorited it or has it in the cart.
type RecipeFlags struct {
	Favorited map[uint]bool
	InCart    map[uint]bool
}

type decodedImage struct {
	data        []byte
	ext         string
	contentType string
}

func withRecipeRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.id") }).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("recipe_ingredients.id") }).
		Preload("Ingredients.Ingredient")
}

func GetRecipe(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := withRecipeRelations(global.Db.WithContext(ctx)).First(&recipe, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

// ListRecipes returns one page of recipes, newest first, and the total matching count.
func ListRecipes(ctx context.Context, f RecipeFilter) ([]models.Recipe, int64, error) {
	db := global.Db.WithContext(ctx)

	filter := func(tx *gorm.DB) *gorm.DB {
		if f.AuthorID != 0 {
			tx = tx.Where("recipes.author_id = ?", f.AuthorID)
		}
		if len(f.TagSlugs) > 0 {
			tagged := db.Model(&models.RecipeTag{}).
				Select("recipe_tags.recipe_id").
				Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
				Where("tags.slug IN ?", f.TagSlugs)
			tx = tx.Where("recipes.id IN (?)", tagged)
		}
		if f.FavoritedBy != 0 {
			tx = tx.Where("recipes.id IN (?)", db.Model(&models.Favorite{}).Select("recipe_id").Where("user_id = ?", f.FavoritedBy))
		}
		if f.InCartOf != 0 {
			tx = tx.Where("recipes.id IN (?)", db.Model(&models.ShoppingCart{}).Select("recipe_id").Where("user_id = ?", f.InCartOf))
		}
		for _, kw := range strings.Fields(f.Search) {
			like := "%" + likePrefix(strings.ToLower(kw))
			tx = tx.Where(`LOWER(recipes.name) LIKE ? ESCAPE '!' OR LOWER(recipes.text) LIKE ? ESCAPE '!'`, like, like)
		}
		return tx
	}

	var count int64
	if err := db.Model(&models.Recipe{}).Scopes(filter).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var recipes []models.Recipe
	err := withRecipeRelations(db.Scopes(filter)).
		Order("recipes.pub_date DESC").
		Order("recipes.name").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&recipes).Error
	return recipes, count, err
}

// AuthorRecipes returns up to limit recipes of an author (all when limit < 0) and their total count.
func AuthorRecipes(ctx context.Context, authorID uint, limit int) ([]models.Recipe, int64, error) {
	db := global.Db.WithContext(ctx)
	var count int64
	if err := db.Model(&models.Recipe{}).Where("author_id = ?", authorID).Count(&count).Error; err != nil {
		return nil, 0, err
	}
	var recipes []models.Recipe
	err := db.Where("author_id = ?", authorID).
		Order("pub_date DESC").Order("name").
		Limit(limit).
		Find(&recipes).Error
	return recipes, count, err
}

func RecipeFlagsFor(ctx context.Context, userID uint, recipeIDs []uint) (RecipeFlags, error) {
	flags := RecipeFlags{Favorited: map[uint]bool{}, InCart: map[uint]bool{}}
	if userID == 0 || len(recipeIDs) == 0 {
		return flags, nil
	}
	db := global.Db.WithContext(ctx)

	var ids []uint
	if err := db.Model(&models.Favorite{}).Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).Pluck("recipe_id", &ids).Error; err != nil {
		return flags, err
	}
	for _, id := range ids {
		flags.Favorited[id] = true
	}

	ids = nil
	if err := db.Model(&models.ShoppingCart{}).Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).Pluck("recipe_id", &ids).Error; err != nil {
		return flags, err
	}
	for _, id := range ids {
		flags.InCart[id] = true
	}
	return flags, nil
}

func CreateRecipe(ctx context.Context, authorID uint, in RecipeInput) (*models.Recipe, error) {
	img, err := validateRecipeInput(ctx, in, 0, "", true)
	if err != nil {
		return nil, err
	}
	url, err := saveImage(ctx, img)
	if err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		Name:        strings.TrimSpace(*in.Name),
		Text:        *in.Text,
		CookingTime: *in.CookingTime,
		Image:       url,
		AuthorID:    authorID,
	}
	err = global.Db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&recipe).Error; err != nil {
			return err
		}
		return writeRecipeRelations(tx, recipe.ID, in.Tags, in.Ingredients)
	})
	if err != nil {
		deleteImage(ctx, url)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fieldError("name", "A recipe with this name already exists.")
		}
		return nil, fmt.Errorf("create recipe: %w", err)
	}

	publish(ctx, Event{Type: EventRecipeCreated, UserID: authorID, RecipeID: recipe.ID})
	return GetRecipe(ctx, recipe.ID)
}

// UpdateRecipe replaces the recipe fields, tags and ingredients. The image is optional and
// kept when absent or equal to the stored URL.
func UpdateRecipe(ctx context.Context, userID, recipeID uint, in RecipeInput) (*models.Recipe, error) {
	recipe, err := loadOwnedRecipe(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}
	img, err := validateRecipeInput(ctx, in, recipe.ID, recipe.Image, false)
	if err != nil {
		return nil, err
	}

	newURL := ""
	if img != nil {
		if newURL, err = saveImage(ctx, img); err != nil {
			return nil, err
		}
	}

	updates := map[string]any{
		"name":         strings.TrimSpace(*in.Name),
		"text":         *in.Text,
		"cooking_time": *in.CookingTime,
	}
	if newURL != "" {
		updates["image"] = newURL
	}

	err = global.Db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Recipe{}).Where("id = ?", recipe.ID).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		return writeRecipeRelations(tx, recipe.ID, in.Tags, in.Ingredients)
	})
	if err != nil {
		deleteImage(ctx, newURL)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fieldError("name", "A recipe with this name already exists.")
		}
		return nil, fmt.Errorf("update recipe: %w", err)
	}
	if newURL != "" {
		deleteImage(ctx, recipe.Image)
	}
	return GetRecipe(ctx, recipe.ID)
}

// DeleteRecipe removes a recipe with everything that references it.
func DeleteRecipe(ctx context.Context, userID, recipeID uint) error {
	recipe, err := loadOwnedRecipe(ctx, userID, recipeID)
	if err != nil {
		return err
	}

	err = global.Db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, child := range []any{&models.RecipeTag{}, &models.RecipeIngredient{}, &models.Favorite{}, &models.ShoppingCart{}} {
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(child).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Recipe{}, recipe.ID).Error
	})
	if err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}

	deleteImage(ctx, recipe.Image)
	dropFavoriteCounters(ctx, recipe.ID)
	publish(ctx, Event{Type: EventRecipeDeleted, UserID: userID, RecipeID: recipe.ID})
	return nil
}

func loadOwnedRecipe(ctx context.Context, userID, recipeID uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := global.Db.WithContext(ctx).First(&recipe, recipeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if recipe.AuthorID != userID {
		return nil, ErrForbidden
	}
	return &recipe, nil
}

func writeRecipeRelations(tx *gorm.DB, recipeID uint, tagIDs []uint, ingredients []IngredientAmount) error {
	tags := make([]models.RecipeTag, 0, len(tagIDs))
	for _, id := range tagIDs {
		tags = append(tags, models.RecipeTag{RecipeID: recipeID, TagID: id})
	}
	if len(tags) > 0 {
		if err := tx.Create(&tags).Error; err != nil {
			return err
		}
	}

	rows := make([]models.RecipeIngredient, 0, len(ingredients))
	for _, ing := range ingredients {
		rows = append(rows, models.RecipeIngredient{RecipeID: recipeID, IngredientID: ing.ID, Amount: ing.Amount})
	}
	if len(rows) > 0 {
		return tx.Omit(clause.Associations).Create(&rows).Error
	}
	return nil
}

// validateRecipeInput checks a create/update payload. It returns the decoded image when a new one was sent.
func validateRecipeInput(ctx context.Context, in RecipeInput, recipeID uint, currentImage string, requireImage bool) (*decodedImage, error) {
	db := global.Db.WithContext(ctx)
	verr := &ValidationError{}
	const required = "This field is required."

	if in.Name == nil {
		verr.Add("name", required)
	} else if name := strings.TrimSpace(*in.Name); name == "" {
		verr.Add("name", "This field may not be blank.")
	} else if utf8.RuneCountInString(name) > models.MaxFieldLength {
		verr.Add("name", fmt.Sprintf("Ensure this field has no more than %d characters.", models.MaxFieldLength))
	} else {
		var n int64
		if err := db.Model(&models.Recipe{}).Where("name = ? AND id <> ?", name, recipeID).Count(&n).Error; err != nil {
			return nil, err
		}
		if n > 0 {
			verr.Add("name", "A recipe with this name already exists.")
		}
	}

	if in.Text == nil {
		verr.Add("text", required)
	} else if strings.TrimSpace(*in.Text) == "" {
		verr.Add("text", "This field may not be blank.")
	}

	if in.CookingTime == nil {
		verr.Add("cooking_time", required)
	} else if *in.CookingTime < models.MinCookingTime {
		verr.Add("cooking_time", fmt.Sprintf("Cooking time cannot be less than %d.", models.MinCookingTime))
	} else if *in.CookingTime > models.MaxCookingTime {
		verr.Add("cooking_time", fmt.Sprintf("Cooking time cannot be greater than %d.", models.MaxCookingTime))
	}

	if err := validateRecipeTags(db, in.Tags, verr); err != nil {
		return nil, err
	}
	if err := validateRecipeIngredients(db, in.Ingredients, verr); err != nil {
		return nil, err
	}

	var img *decodedImage
	switch {
	case in.Image == nil || *in.Image == "":
		if requireImage {
			verr.Add("image", required)
		}
	case *in.Image == currentImage:
	default:
		data, ext, contentType, err := utils.DecodeImageDataURI(*in.Image)
		if err != nil {
			verr.Add("image", "Upload a valid image as a base64 data URI.")
		} else {
			img = &decodedImage{data: data, ext: ext, contentType: contentType}
		}
	}

	return img, verr.OrNil()
}

func validateRecipeTags(db *gorm.DB, tagIDs []uint, verr *ValidationError) error {
	if tagIDs == nil {
		verr.Add("tags", "This field is required.")
		return nil
	}
	if len(tagIDs) == 0 {
		verr.Add("tags", "At least one tag is required.")
		return nil
	}
	seen := make(map[uint]bool, len(tagIDs))
	for _, id := range tagIDs {
		if seen[id] {
			verr.Add("tags", "The same tag cannot be added twice.")
			return nil
		}
		seen[id] = true
	}
	var n int64
	if err := db.Model(&models.Tag{}).Where("id IN ?", tagIDs).Count(&n).Error; err != nil {
		return err
	}
	if int(n) != len(tagIDs) {
		verr.Add("tags", "Tag not found.")
	}
	return nil
}

func validateRecipeIngredients(db *gorm.DB, items []IngredientAmount, verr *ValidationError) error {
	if items == nil {
		verr.Add("ingredients", "This field is required.")
		return nil
	}
	if len(items) == 0 {
		verr.Add("ingredients", "At least one ingredient is required.")
		return nil
	}
	seen := make(map[uint]bool, len(items))
	ids := make([]uint, 0, len(items))
	for _, it := range items {
		if seen[it.ID] {
			verr.Add("ingredients", "The same ingredient cannot be added twice.")
			return nil
		}
		seen[it.ID] = true
		ids = append(ids, it.ID)
		if it.Amount < models.MinIngredientAmount {
			verr.Add("ingredients", fmt.Sprintf("Amount cannot be less than %d.", models.MinIngredientAmount))
			return nil
		}
		if it.Amount > models.MaxIngredientAmount {
			verr.Add("ingredients", fmt.Sprintf("Amount cannot be greater than %d.", models.MaxIngredientAmount))
			return nil
		}
	}
	var n int64
	if err := db.Model(&models.Ingredient{}).Where("id IN ?", ids).Count(&n).Error; err != nil {
		return err
	}
	if int(n) != len(ids) {
		verr.Add("ingredients", "Ingredient not found.")
	}
	return nil
}

func saveImage(ctx context.Context, img *decodedImage) (string, error) {
	if global.Images == nil {
		return "", errors.New("image storage is not configured")
	}
	key := fmt.Sprintf("recipes/images/%s.%s", uuid.NewString(), img.ext)
	url, err := global.Images.Save(ctx, key, img.data, img.contentType)
	if err != nil {
		return "", fmt.Errorf("save recipe image: %w", err)
	}
	return url, nil
}

func deleteImage(ctx context.Context, url string) {
	if url == "" || global.Images == nil {
		return
	}
	if err := global.Images.Delete(ctx, url); err != nil {
		global.Logger.Warn("failed to delete recipe image", zap.String("url", url), zap.Error(err))
	}
}
