package services

import (
	"context"
	"errors"
	"strings"

	"foodgram/global"
	"foodgram/models"

	"github.com/sahilm/fuzzy"
	"gorm.io/gorm"
)

const fuzzyIngredientLimit = 20

func ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	err := global.Db.WithContext(ctx).Order("name").Find(&tags).Error
	return tags, err
}

func GetTag(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	err := global.Db.WithContext(ctx).First(&tag, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

func GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error) {
	var ing models.Ingredient
	err := global.Db.WithContext(ctx).First(&ing, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ing, nil
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// likePrefix turns s into a LIKE pattern, escaped with '!', matching values that start with s literally.
// '!' is used because MySQL treats a backslash inside a string literal as an escape.
func likePrefix(s string) string {
	return likeEscaper.Replace(s) + "%"
}

// SearchIngredients returns ingredients whose name starts with prefix, case-insensitively.
// When nothing starts with the prefix the best fuzzy matches are returned instead.
func SearchIngredients(ctx context.Context, prefix string) ([]models.Ingredient, error) {
	db := global.Db.WithContext(ctx)
	prefix = strings.TrimSpace(prefix)

	var found []models.Ingredient
	q := db.Order("name").Order("measurement_unit")
	if prefix != "" {
		q = q.Where(`LOWER(name) LIKE ? ESCAPE '!'`, likePrefix(strings.ToLower(prefix)))
	}
	if err := q.Find(&found).Error; err != nil {
		return nil, err
	}
	if len(found) > 0 || prefix == "" {
		return found, nil
	}

	var all []models.Ingredient
	if err := db.Order("name").Find(&all).Error; err != nil {
		return nil, err
	}
	names := make([]string, len(all))
	for i, ing := range all {
		names[i] = strings.ToLower(ing.Name)
	}
	matches := fuzzy.Find(strings.ToLower(prefix), names)
	if len(matches) > fuzzyIngredientLimit {
		matches = matches[:fuzzyIngredientLimit]
	}
	out := make([]models.Ingredient, 0, len(matches))
	for _, m := range matches {
		out = append(out, all[m.Index])
	}
	return out, nil
}
