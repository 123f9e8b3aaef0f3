package main

import (
    "log"

    "github.com/manilotw/Recipes/config"
    "github.com/manilotw/Recipes/routes"
    "github.com/manilotw/Recipes/services"
    "github.com/manilotw/Recipes/utils"
)

func main() {
    config.InitDB()
    config.InitRedis()
    utils.InitS3()

    if err := services.SeedAllergens(); err != nil {
        log.Fatalf("failed to seed allergens: %v", err)
    }
    if err := services.ValidateAllergenCatalog(); err != nil {
        log.Fatalf("allergen catalog check failed: %v", err)
    }

    r := routes.SetupRouter()
    r.Run(":8080")
}
