package controllers

import (
	"net/http"

	"foodgram/middlewares"
	"foodgram/services"

	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Email     string `json:"email" binding:"required,email,max=254"`
	Username  string `json:"username" binding:"required,max=150,username"`
	FirstName string `json:"first_name" binding:"required,max=150"`
	LastName  string `json:"last_name" binding:"required,max=150"`
	Password  string `json:"password" binding:"required,max=72"`
}

type setPasswordRequest struct {
	NewPassword     string `json:"new_password" binding:"required,max=72"`
	CurrentPassword string `json:"current_password" binding:"required"`
}

func Register(ctx *gin.Context) {
	var req registerRequest
	if !bindJSON(ctx, &req) {
		return
	}
	user, err := services.RegisterUser(ctx.Request.Context(), services.RegisterInput{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, registeredUserResponse{
		Email:     user.Email,
		ID:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	})
}

func ListUsers(ctx *gin.Context) {
	p := parsePage(ctx)
	users, count, err := services.ListUsers(ctx.Request.Context(), p.Limit, p.Offset)
	if err != nil {
		respondError(ctx, err)
		return
	}
	results, err := presentUsers(ctx, users)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, paginate(ctx, p, count, results))
}

func GetUser(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	user, err := services.GetUser(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	out, err := presentUser(ctx, *user)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, out)
}

func Me(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, newUserResponse(*middlewares.CurrentUser(ctx), false))
}

func SetPassword(ctx *gin.Context) {
	var req setPasswordRequest
	if !bindJSON(ctx, &req) {
		return
	}
	if err := services.SetPassword(ctx.Request.Context(), middlewares.CurrentUser(ctx), req.CurrentPassword, req.NewPassword); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
