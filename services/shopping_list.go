package services

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"

	"foodgram/global"
)

// CartIngredient is one ingredient line of one recipe in a cart.
type CartIngredient struct {
	Name   string
	Unit   string
	Amount int
}

type ShoppingListItem struct {
	Name  string
	Unit  string
	Total int
}

const shoppingListHeader = "Shopping list:"

// Aggregate groups cart lines by (name, unit), sums their amounts and orders the
// result by name, then unit. The same name with different units stays separate.
func Aggregate(items []CartIngredient) []ShoppingListItem {
	type key struct{ name, unit string }
	totals := make(map[key]int, len(items))
	for _, it := range items {
		totals[key{it.Name, it.Unit}] += it.Amount
	}

	out := make([]ShoppingListItem, 0, len(totals))
	for k, total := range totals {
		out = append(out, ShoppingListItem{Name: k.name, Unit: k.unit, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Unit < out[j].Unit
	})
	return out
}

// CartIngredients loads every ingredient line of every recipe in the user's cart.
func CartIngredients(ctx context.Context, userID uint) ([]CartIngredient, error) {
	var items []CartIngredient
	err := global.Db.WithContext(ctx).
		Table("shopping_carts").
		Select("ingredients.name AS name, ingredients.measurement_unit AS unit, recipe_ingredients.amount AS amount").
		Joins("JOIN recipe_ingredients ON recipe_ingredients.recipe_id = shopping_carts.recipe_id").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("shopping_carts.user_id = ?", userID).
		Scan(&items).Error
	if err != nil {
		return nil, fmt.Errorf("load cart ingredients: %w", err)
	}
	return items, nil
}

func BuildShoppingList(ctx context.Context, userID uint) ([]ShoppingListItem, error) {
	items, err := CartIngredients(ctx, userID)
	if err != nil {
		return nil, err
	}
	return Aggregate(items), nil
}

func WriteShoppingList(w io.Writer, items []ShoppingListItem) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, shoppingListHeader)
	for _, it := range items {
		fmt.Fprintf(bw, "%s (%s): %d\n", it.Name, it.Unit, it.Total)
	}
	return bw.Flush()
}

// RenderShoppingList builds the downloadable text file for a user's cart.
func RenderShoppingList(ctx context.Context, userID uint) ([]byte, error) {
	items, err := BuildShoppingList(ctx, userID)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := WriteShoppingList(&buf, items); err != nil {
		return nil, err
	}
	ShoppingListDownloads.Inc()
	return buf.Bytes(), nil
}
