package services

import (
	"bytes"
	"context"
	"testing"

	"foodgram/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate(t *testing.T) {
	tests := []struct {
		name  string
		items []CartIngredient
		want  []ShoppingListItem
	}{
		{
			name:  "empty cart",
			items: nil,
			want:  []ShoppingListItem{},
		},
		{
			name: "sums same name and unit",
			items: []CartIngredient{
				{Name: "sugar", Unit: "g", Amount: 100},
				{Name: "flour", Unit: "g", Amount: 300},
				{Name: "sugar", Unit: "g", Amount: 50},
			},
			want: []ShoppingListItem{
				{Name: "flour", Unit: "g", Total: 300},
				{Name: "sugar", Unit: "g", Total: 150},
			},
		},
		{
			name: "different units stay separate",
			items: []CartIngredient{
				{Name: "milk", Unit: "ml", Amount: 200},
				{Name: "milk", Unit: "cup", Amount: 1},
				{Name: "milk", Unit: "ml", Amount: 300},
			},
			want: []ShoppingListItem{
				{Name: "milk", Unit: "cup", Total: 1},
				{Name: "milk", Unit: "ml", Total: 500},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Aggregate(tt.items))
		})
	}
}

func TestAggregate_OrderIndependent(t *testing.T) {
	a := []CartIngredient{
		{Name: "egg", Unit: "pcs", Amount: 2},
		{Name: "butter", Unit: "g", Amount: 20},
		{Name: "egg", Unit: "pcs", Amount: 3},
	}
	b := []CartIngredient{a[2], a[0], a[1]}
	assert.Equal(t, Aggregate(a), Aggregate(b))
}

func TestWriteShoppingList(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteShoppingList(&buf, []ShoppingListItem{
		{Name: "flour", Unit: "g", Total: 300},
		{Name: "sugar", Unit: "g", Total: 150},
	}))
	assert.Equal(t, "Shopping list:\nflour (g): 300\nsugar (g): 150\n", buf.String())
}

func TestRenderShoppingList_FromCart(t *testing.T) {
	db := testutil.SetupDB(t)
	ctx := context.Background()

	chef := testutil.CreateUser(t, db, "chef")
	buyer := testutil.CreateUser(t, db, "buyer")
	sugar := testutil.CreateIngredient(t, db, "sugar", "g")
	flour := testutil.CreateIngredient(t, db, "flour", "g")

	cake := testutil.CreateRecipe(t, db, chef, "cake", nil,
		testutil.RecipeLine{Ingredient: sugar, Amount: 100},
		testutil.RecipeLine{Ingredient: flour, Amount: 200})
	cookies := testutil.CreateRecipe(t, db, chef, "cookies", nil,
		testutil.RecipeLine{Ingredient: sugar, Amount: 50})
	testutil.CreateRecipe(t, db, chef, "bread", nil,
		testutil.RecipeLine{Ingredient: flour, Amount: 500})

	_, err := ShoppingCarts.Add(ctx, buyer.ID, cake.ID)
	require.NoError(t, err)
	_, err = ShoppingCarts.Add(ctx, buyer.ID, cookies.ID)
	require.NoError(t, err)

	out, err := RenderShoppingList(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shopping list:\nflour (g): 200\nsugar (g): 150\n", string(out))

	out, err = RenderShoppingList(ctx, chef.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shopping list:\n", string(out))
}
