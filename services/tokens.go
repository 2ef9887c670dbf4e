package services

import (
	"context"
	"time"

	"foodgram/global"

	"github.com/go-redis/redis"
	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"
)

const revokedTokenPrefix = "token:revoked:"

// revokedLocal holds revoked token ids when redis is not configured.
var revokedLocal, _ = lru.New(10000)

// RevokeToken blacklists a token id until the token would have expired anyway.
func RevokeToken(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if global.RedisDB != nil {
		return global.RedisDB.WithContext(ctx).Set(revokedTokenPrefix+jti, 1, ttl).Err()
	}
	revokedLocal.Add(jti, expiresAt)
	return nil
}

func IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	if global.RedisDB != nil {
		err := global.RedisDB.WithContext(ctx).Get(revokedTokenPrefix + jti).Err()
		if err == redis.Nil {
			return false, nil
		}
		if err != nil {
			global.Logger.Warn("token revocation lookup failed", zap.Error(err))
			return false, err
		}
		return true, nil
	}

	v, ok := revokedLocal.Get(jti)
	if !ok {
		return false, nil
	}
	if exp, _ := v.(time.Time); time.Now().After(exp) {
		revokedLocal.Remove(jti)
		return false, nil
	}
	return true, nil
}
