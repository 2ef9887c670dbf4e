package controllers

import (
	"net/http"

	"foodgram/config"
	"foodgram/middlewares"
	"foodgram/services"
	"foodgram/utils"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login exchanges email and password for a token.
func Login(ctx *gin.Context) {
	var req loginRequest
	if !bindJSON(ctx, &req) {
		return
	}

	user, err := services.Authenticate(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(ctx, err)
		return
	}

	jwtCfg := config.AppConfig.JWT
	token, _, err := utils.GenerateJWT(user.ID, jwtCfg.Secret, jwtCfg.Issuer, jwtCfg.Expiration)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"auth_token": token})
}

// Logout revokes the token used for this request.
func Logout(ctx *gin.Context) {
	claims := middlewares.TokenClaims(ctx)
	if claims == nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"detail": "Authentication credentials were not provided."})
		return
	}
	if err := services.RevokeToken(ctx.Request.Context(), claims.Id, claims.ExpiresAtTime()); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
