package services

import (
	"context"
	"strings"
	"testing"

	"foodgram/models"
	"foodgram/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportIngredients(t *testing.T) {
	db := testutil.SetupDB(t)
	ctx := context.Background()

	csvData := "\xEF\xBB\xBFname,measurement_unit\nsugar,g\nmilk, ml\n\"salt, sea\",g\n"
	n, err := ImportIngredients(ctx, strings.NewReader(csvData))
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	// a second run only adds the new row
	n, err = ImportIngredients(ctx, strings.NewReader("sugar,g\nsugar,kg\n"))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	var count int64
	require.NoError(t, db.Model(&models.Ingredient{}).Count(&count).Error)
	assert.EqualValues(t, 4, count)

	var salt models.Ingredient
	require.NoError(t, db.Where("name = ?", "salt, sea").First(&salt).Error)
	assert.Equal(t, "g", salt.MeasurementUnit)
}

func TestImportIngredients_BadRows(t *testing.T) {
	testutil.SetupDB(t)
	ctx := context.Background()

	_, err := ImportIngredients(ctx, strings.NewReader("sugar\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")

	_, err = ImportIngredients(ctx, strings.NewReader("sugar,g\n,g\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestImportTags(t *testing.T) {
	db := testutil.SetupDB(t)
	ctx := context.Background()

	n, err := ImportTags(ctx, strings.NewReader("name,color,slug\nBreakfast,#e26c2d,breakfast\nDinner,#49B64E,dinner\n"))
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	var tag models.Tag
	require.NoError(t, db.Where("slug = ?", "breakfast").First(&tag).Error)
	assert.Equal(t, "#E26C2D", tag.Color)

	_, err = ImportTags(ctx, strings.NewReader("Lunch,red,lunch\n"))
	assert.Error(t, err)
	_, err = ImportTags(ctx, strings.NewReader("Lunch,#123456,not a slug\n"))
	assert.Error(t, err)
}
