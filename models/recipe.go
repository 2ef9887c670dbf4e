package models

import "time"

const (
	MaxFieldLength      = 200
	MinCookingTime      = 1
	MaxCookingTime      = 32000
	MinIngredientAmount = 1
	MaxIngredientAmount = 32000
)

type Recipe struct {
	ID          uint      `gorm:"primaryKey"`
	Name        string    `gorm:"size:200;uniqueIndex;not null"`
	Image       string    `gorm:"size:512;not null"`
	Text        string    `gorm:"type:text;not null"`
	CookingTime int       `gorm:"not null"`
	PubDate     time.Time `gorm:"autoCreateTime;index"`
	AuthorID    uint      `gorm:"not null;index"`

	Author      User               `gorm:"foreignKey:AuthorID"`
	Tags        []Tag              `gorm:"many2many:recipe_tags;"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID"`
}

// RecipeIngredient is the amount of one ingredient used by a recipe.
type RecipeIngredient struct {
	ID           uint `gorm:"primaryKey"`
	RecipeID     uint `gorm:"not null;uniqueIndex:uniq_recipe_ingredient"`
	IngredientID uint `gorm:"not null;uniqueIndex:uniq_recipe_ingredient;index"`
	Amount       int  `gorm:"not null"`

	Ingredient Ingredient `gorm:"foreignKey:IngredientID"`
}

// RecipeTag is the join row behind Recipe.Tags.
type RecipeTag struct {
	RecipeID uint `gorm:"primaryKey"`
	TagID    uint `gorm:"primaryKey;index"`
}
