package models

import (
	"fmt"

	"gorm.io/gorm"
)

// Migrate creates or updates every table the API uses.
func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&Recipe{}, "Tags", &RecipeTag{}); err != nil {
		return fmt.Errorf("setup recipe_tags join table: %w", err)
	}
	return db.AutoMigrate(
		&User{},
		&Tag{},
		&Ingredient{},
		&Recipe{},
		&RecipeIngredient{},
		&RecipeTag{},
		&Favorite{},
		&ShoppingCart{},
		&Subscription{},
		&Activity{},
	)
}
