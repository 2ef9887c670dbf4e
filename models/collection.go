package models

import "time"

// Favorite and ShoppingCart are per-user recipe collections, unique per (user, recipe).

type Favorite struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;uniqueIndex:uniq_favorite"`
	RecipeID  uint      `gorm:"not null;uniqueIndex:uniq_favorite;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

type ShoppingCart struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;uniqueIndex:uniq_shopping_cart"`
	RecipeID  uint      `gorm:"not null;uniqueIndex:uniq_shopping_cart;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
