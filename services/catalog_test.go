package services

import (
	"context"
	"testing"

	"foodgram/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchIngredients(t *testing.T) {
	db := testutil.SetupDB(t)
	ctx := context.Background()
	for _, name := range []string{"sugar", "salt", "sour cream", "butter"} {
		testutil.CreateIngredient(t, db, name, "g")
	}

	names := func(prefix string) []string {
		got, err := SearchIngredients(ctx, prefix)
		require.NoError(t, err)
		out := []string{}
		for _, ing := range got {
			out = append(out, ing.Name)
		}
		return out
	}

	assert.Len(t, names(""), 4)
	assert.Equal(t, []string{"salt", "sour cream", "sugar"}, names("s"))
	assert.Equal(t, []string{"sour cream"}, names("SOU"))
	// nothing starts with "btr", fuzzy matching still finds butter
	assert.Equal(t, []string{"butter"}, names("btr"))
	assert.Empty(t, names("xyz"))
}

func TestSearchIngredientsTreatsWildcardsLiterally(t *testing.T) {
	db := testutil.SetupDB(t)
	ctx := context.Background()
	for _, name := range []string{"milk_powder", "salt", "sugar", "50% cream"} {
		testutil.CreateIngredient(t, db, name, "g")
	}

	names := func(prefix string) []string {
		got, err := SearchIngredients(ctx, prefix)
		require.NoError(t, err)
		out := []string{}
		for _, ing := range got {
			out = append(out, ing.Name)
		}
		return out
	}

	assert.Equal(t, []string{"milk_powder"}, names("milk_"))
	assert.Equal(t, []string{"50% cream"}, names("50%"))
	assert.Empty(t, names("s_"))
	// only the fuzzy fallback can match a bare "%"
	assert.Equal(t, []string{"50% cream"}, names("%"))
	assert.Equal(t, "a!%b!_c!!%", likePrefix("a%b_c!"))
}

func TestTags(t *testing.T) {
	db := testutil.SetupDB(t)
	ctx := context.Background()
	lunch := testutil.CreateTag(t, db, "Lunch", "#111111", "lunch")
	testutil.CreateTag(t, db, "Breakfast", "#222222", "breakfast")

	tags, err := ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "Breakfast", tags[0].Name)

	got, err := GetTag(ctx, lunch.ID)
	require.NoError(t, err)
	assert.Equal(t, "lunch", got.Slug)

	_, err = GetTag(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = GetIngredient(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}
