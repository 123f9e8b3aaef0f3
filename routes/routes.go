package routes

import (
    "github.com/manilotw/Recipes/controllers"
    "github.com/manilotw/Recipes/middlewares"

    "github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
    r := gin.Default()

    // Public auth routes
    auth := r.Group("/auth")
    {
        auth.POST("/register", controllers.Register)
        auth.POST("/login", controllers.Login)
    }

    // Public catalog reads (dish cards)
    r.GET("/dishes", controllers.ListDishes)
    r.GET("/dishes/:id", controllers.GetDish)

    // Protected user routes
    user := r.Group("/user")
    user.Use(middlewares.AuthMiddleware())
    {
        user.GET("/profile", controllers.GetProfile)
        user.PUT("/profile", controllers.UpdateProfile)
    }

    tariff := r.Group("/tariff")
    tariff.Use(middlewares.AuthMiddleware())
    {
        tariff.POST("", controllers.CreateTariff)
        tariff.GET("", controllers.GetTariff)
        tariff.PUT("", controllers.UpdateTariff)
    }

    menu := r.Group("/menu")
    menu.Use(middlewares.AuthMiddleware())
    {
        menu.GET("", controllers.GetMenu)
        menu.POST("/swap/:meal_type", controllers.SwapMeal)
    }

    // Catalog management
    catalog := r.Group("/catalog")
    catalog.Use(middlewares.AuthMiddleware())
    {
        catalog.POST("/dishes", controllers.CreateDish)
        catalog.PUT("/dishes/:id", controllers.UpdateDish)
        catalog.POST("/dishes/:id/ingredients", controllers.AddDishIngredient)
        catalog.PUT("/dishes/:id/ingredients/:itemId", controllers.UpdateDishIngredient)
        catalog.DELETE("/dishes/:id/ingredients/:itemId", controllers.RemoveDishIngredient)
        catalog.POST("/ingredients", controllers.CreateIngredient)
        catalog.GET("/ingredients", controllers.ListIngredients)
        catalog.PUT("/ingredients/:id", controllers.UpdateIngredient)
    }

    return r
}
