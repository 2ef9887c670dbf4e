package services

import (
	"context"
	"strconv"

	"foodgram/global"
	"foodgram/models"

	"github.com/go-redis/redis"
	"go.uber.org/zap"
)

const favoriteRankKey = "rank:recipe:favorites"

func favoriteCountKey(recipeID uint) string {
	return "recipe:" + strconv.FormatUint(uint64(recipeID), 10) + ":favorites"
}

// PopularRecipe is one row of the most-favorited ranking.
type PopularRecipe struct {
	Rank      int
	Recipe    models.Recipe
	Favorites int64
}

// bumpFavoriteCounter moves the per-recipe counter and the ranking together.
// Counter failures are logged only, the favorites table stays the source of truth.
func bumpFavoriteCounter(ctx context.Context, recipeID uint, delta int64) {
	if global.RedisDB == nil {
		return
	}
	member := strconv.FormatUint(uint64(recipeID), 10)
	pipe := global.RedisDB.WithContext(ctx).TxPipeline()
	pipe.IncrBy(favoriteCountKey(recipeID), delta)
	pipe.ZIncrBy(favoriteRankKey, float64(delta), member)
	if _, err := pipe.Exec(); err != nil {
		global.Logger.Warn("favorite counter update failed", zap.Uint("recipe_id", recipeID), zap.Error(err))
	}
}

func dropFavoriteCounters(ctx context.Context, recipeID uint) {
	if global.RedisDB == nil {
		return
	}
	member := strconv.FormatUint(uint64(recipeID), 10)
	pipe := global.RedisDB.WithContext(ctx).TxPipeline()
	pipe.Del(favoriteCountKey(recipeID))
	pipe.ZRem(favoriteRankKey, member)
	if _, err := pipe.Exec(); err != nil {
		global.Logger.Warn("favorite counter cleanup failed", zap.Uint("recipe_id", recipeID), zap.Error(err))
	}
}

// FavoriteCount returns how many users favorited a recipe, or ErrNotFound for an unknown recipe.
func FavoriteCount(ctx context.Context, recipeID uint) (int64, error) {
	var exists int64
	if err := global.Db.WithContext(ctx).Model(&models.Recipe{}).Where("id = ?", recipeID).Count(&exists).Error; err != nil {
		return 0, err
	}
	if exists == 0 {
		return 0, ErrNotFound
	}
	if global.RedisDB != nil {
		n, err := global.RedisDB.WithContext(ctx).Get(favoriteCountKey(recipeID)).Int64()
		if err == nil {
			return n, nil
		}
		if err != redis.Nil {
			global.Logger.Warn("favorite counter read failed, counting rows", zap.Error(err))
		}
	}
	var n int64
	err := global.Db.WithContext(ctx).Model(&models.Favorite{}).Where("recipe_id = ?", recipeID).Count(&n).Error
	return n, err
}

// TopRecipes returns up to top recipes ordered by favorite count.
func TopRecipes(ctx context.Context, top int) ([]PopularRecipe, error) {
	if top <= 0 {
		return []PopularRecipe{}, nil
	}

	type scored struct {
		RecipeID  uint
		Favorites int64
	}
	var ranking []scored

	fromRedis := false
	if global.RedisDB != nil {
		zres, err := global.RedisDB.WithContext(ctx).ZRevRangeWithScores(favoriteRankKey, 0, int64(top-1)).Result()
		if err != nil && err != redis.Nil {
			global.Logger.Warn("favorite ranking read failed, counting rows", zap.Error(err))
		} else {
			fromRedis = true
			for _, z := range zres {
				memberStr, _ := z.Member.(string)
				id, perr := strconv.ParseUint(memberStr, 10, 64)
				if perr != nil || z.Score <= 0 {
					continue
				}
				ranking = append(ranking, scored{RecipeID: uint(id), Favorites: int64(z.Score)})
			}
		}
	}
	if !fromRedis {
		err := global.Db.WithContext(ctx).Model(&models.Favorite{}).
			Select("recipe_id, COUNT(*) AS favorites").
			Group("recipe_id").
			Order("favorites DESC, recipe_id").
			Limit(top).
			Scan(&ranking).Error
		if err != nil {
			return nil, err
		}
	}
	if len(ranking) == 0 {
		return []PopularRecipe{}, nil
	}

	ids := make([]uint, 0, len(ranking))
	for _, r := range ranking {
		ids = append(ids, r.RecipeID)
	}
	var recipes []models.Recipe
	if err := global.Db.WithContext(ctx).Where("id IN ?", ids).Find(&recipes).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Recipe, len(recipes))
	for _, r := range recipes {
		byID[r.ID] = r
	}

	out := make([]PopularRecipe, 0, len(ranking))
	for _, r := range ranking {
		recipe, ok := byID[r.RecipeID]
		if !ok {
			continue
		}
		out = append(out, PopularRecipe{Rank: len(out) + 1, Recipe: recipe, Favorites: r.Favorites})
	}
	return out, nil
}
