package services

import (
	"context"
	"errors"
	"fmt"

	"foodgram/global"
	"foodgram/models"

	"gorm.io/gorm"
)

// RecipeCollection is a per-user set of recipes: favorites or the shopping cart.
type RecipeCollection struct {
	name         string
	model        func() any
	entry        func(userID, recipeID uint) any
	errExists    error
	errMissing   error
	addedEvent   string
	removedEvent string
	onChange     func(ctx context.Context, recipeID uint, delta int64)
}

var (
	Favorites = &RecipeCollection{
		name:  "favorites",
		model: func() any { return &models.Favorite{} },
		entry: func(userID, recipeID uint) any {
			return &models.Favorite{UserID: userID, RecipeID: recipeID}
		},
		errExists:    ErrAlreadyFavorited,
		errMissing:   ErrNotFavorited,
		addedEvent:   EventFavoriteAdded,
		removedEvent: EventFavoriteRemoved,
		onChange:     bumpFavoriteCounter,
	}
	ShoppingCarts = &RecipeCollection{
		name:  "shopping_cart",
		model: func() any { return &models.ShoppingCart{} },
		entry: func(userID, recipeID uint) any {
			return &models.ShoppingCart{UserID: userID, RecipeID: recipeID}
		},
		errExists:    ErrAlreadyInCart,
		errMissing:   ErrNotInCart,
		addedEvent:   EventCartAdded,
		removedEvent: EventCartRemoved,
	}
)

// Add puts a recipe into the user's collection. A missing recipe is a client error here, not a 404.
func (c *RecipeCollection) Add(ctx context.Context, userID, recipeID uint) (*models.Recipe, error) {
	db := global.Db.WithContext(ctx)

	var recipe models.Recipe
	err := db.First(&recipe, recipeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecipeMissing
	}
	if err != nil {
		return nil, err
	}

	ok, err := c.Contains(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}
	if ok {
		return nil, c.errExists
	}
	if err := db.Create(c.entry(userID, recipeID)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, c.errExists
		}
		return nil, fmt.Errorf("add to %s: %w", c.name, err)
	}

	CollectionChanges.WithLabelValues(c.name, "add").Inc()
	if c.onChange != nil {
		c.onChange(ctx, recipeID, 1)
	}
	publish(ctx, Event{Type: c.addedEvent, UserID: userID, RecipeID: recipeID})
	return &recipe, nil
}

// Remove takes a recipe out of the user's collection.
func (c *RecipeCollection) Remove(ctx context.Context, userID, recipeID uint) error {
	db := global.Db.WithContext(ctx)

	var n int64
	if err := db.Model(&models.Recipe{}).Where("id = ?", recipeID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}

	res := db.Where("user_id = ? AND recipe_id = ?", userID, recipeID).Delete(c.model())
	if res.Error != nil {
		return fmt.Errorf("remove from %s: %w", c.name, res.Error)
	}
	if res.RowsAffected == 0 {
		return c.errMissing
	}

	CollectionChanges.WithLabelValues(c.name, "remove").Inc()
	if c.onChange != nil {
		c.onChange(ctx, recipeID, -1)
	}
	publish(ctx, Event{Type: c.removedEvent, UserID: userID, RecipeID: recipeID})
	return nil
}

func (c *RecipeCollection) Contains(ctx context.Context, userID, recipeID uint) (bool, error) {
	var n int64
	err := global.Db.WithContext(ctx).Model(c.model()).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&n).Error
	return n > 0, err
}
