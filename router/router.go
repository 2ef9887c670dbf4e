package router

import (
	"strings"

	"foodgram/config"
	"foodgram/controllers"
	"foodgram/global"
	"foodgram/logger"
	"foodgram/middlewares"
	"foodgram/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRouter(cfg *config.Config) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		utils.RegisterValidatorsOnce(v)
	}

	r := gin.New()
	r.Use(
		middlewares.RequestID(),
		logger.GinMiddleware(global.Logger),
		logger.Recovery(global.Logger),
		middlewares.Metrics(),
		cors.New(corsConfig(cfg.Cors.AllowOrigins)),
	)

	if cfg.Storage.Driver != "s3" {
		r.Static("/"+strings.Trim(cfg.Storage.MediaURL, "/"), cfg.Storage.MediaRoot)
	}
	r.GET("/healthz", controllers.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authLimiter := middlewares.RateLimit(middlewares.NewRateLimiter(cfg.RateLimit.AuthPerMinute, cfg.RateLimit.Burst))
	requireAuth := middlewares.RequireAuth()

	api := r.Group("/api", middlewares.AuthMiddleware(cfg.JWT.Secret))
	{
		auth := api.Group("/auth/token")
		auth.POST("/login/", authLimiter, controllers.Login)
		auth.POST("/logout/", requireAuth, controllers.Logout)
	}
	{
		users := api.Group("/users")
		users.GET("/", controllers.ListUsers)
		users.POST("/", authLimiter, controllers.Register)
		users.GET("/me/", requireAuth, controllers.Me)
		users.GET("/me/activity/", requireAuth, controllers.ListMyActivity)
		users.POST("/set_password/", requireAuth, controllers.SetPassword)
		users.GET("/subscriptions/", requireAuth, controllers.ListSubscriptions)
		users.GET("/:id/", controllers.GetUser)
		users.POST("/:id/subscribe/", requireAuth, controllers.Subscribe)
		users.DELETE("/:id/subscribe/", requireAuth, controllers.Unsubscribe)
	}
	{
		api.GET("/tags/", controllers.ListTags)
		api.GET("/tags/:id/", controllers.GetTag)
		api.GET("/ingredients/", controllers.ListIngredients)
		api.GET("/ingredients/:id/", controllers.GetIngredient)
	}
	{
		recipes := api.Group("/recipes")
		recipes.GET("/", controllers.ListRecipes)
		recipes.POST("/", requireAuth, controllers.CreateRecipe)
		recipes.GET("/popular/", controllers.PopularRecipes)
		recipes.GET("/download_shopping_cart/", requireAuth, controllers.DownloadShoppingCart)
		recipes.GET("/:id/", controllers.GetRecipe)
		recipes.PATCH("/:id/", requireAuth, controllers.UpdateRecipe)
		recipes.DELETE("/:id/", requireAuth, controllers.DeleteRecipe)
		recipes.POST("/:id/favorite/", requireAuth, controllers.AddFavorite)
		recipes.DELETE("/:id/favorite/", requireAuth, controllers.RemoveFavorite)
		recipes.GET("/:id/favorites/", controllers.RecipeFavorites)
		recipes.POST("/:id/shopping_cart/", requireAuth, controllers.AddToShoppingCart)
		recipes.DELETE("/:id/shopping_cart/", requireAuth, controllers.RemoveFromShoppingCart)
	}

	return r
}

// corsConfig allows any origin when the list is empty or contains "*".
func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	c.AllowHeaders = append(c.AllowHeaders, "Authorization", middlewares.RequestIDHeader)
	c.ExposeHeaders = []string{middlewares.RequestIDHeader, "Content-Disposition"}
	allowAll := len(origins) == 0
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
	}
	if allowAll {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	return c
}
