package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"foodgram/global"
	"foodgram/logger"
	"foodgram/models"
	"foodgram/services"
	"foodgram/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	CurrentUserKey = "current_user"
	TokenClaimsKey = "token_claims"
)

// AuthMiddleware resolves the Authorization header into the current user.
// Requests without the header pass through anonymously; a bad token is rejected
// even on public routes.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
		if !ok || !(strings.EqualFold(scheme, "Token") || strings.EqualFold(scheme, "Bearer")) || token == "" {
			abortUnauthorized(c, "Invalid token header.")
			return
		}

		claims, err := utils.ParseJWT(strings.TrimSpace(token), secret)
		if err != nil {
			abortUnauthorized(c, "Invalid token.")
			return
		}

		revoked, err := services.IsTokenRevoked(c.Request.Context(), claims.Id)
		if err != nil {
			logger.FromGin(c, global.Logger).Error("token revocation check failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"detail": "Authentication is temporarily unavailable."})
			return
		}
		if revoked {
			abortUnauthorized(c, "Invalid token.")
			return
		}

		user, err := services.GetUser(c.Request.Context(), claims.UserID)
		if errors.Is(err, services.ErrNotFound) {
			abortUnauthorized(c, "User not found.")
			return
		}
		if err != nil {
			c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "internal server error"})
			return
		}

		c.Set(CurrentUserKey, user)
		c.Set(TokenClaimsKey, claims)
		c.Next()
	}
}

// RequireAuth rejects anonymous requests. It must run after AuthMiddleware.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			abortUnauthorized(c, "Authentication credentials were not provided.")
			return
		}
		c.Next()
	}
}

func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(CurrentUserKey); ok {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}

// CurrentUserID is 0 for anonymous requests.
func CurrentUserID(c *gin.Context) uint {
	if u := CurrentUser(c); u != nil {
		return u.ID
	}
	return 0
}

func TokenClaims(c *gin.Context) *utils.Claims {
	if v, ok := c.Get(TokenClaimsKey); ok {
		if claims, ok := v.(*utils.Claims); ok {
			return claims
		}
	}
	return nil
}

func abortUnauthorized(c *gin.Context, detail string) {
	c.Header("WWW-Authenticate", "Token")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": detail})
}
