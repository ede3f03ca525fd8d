package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"inventory/internal/config"
	"inventory/internal/database"
	"inventory/internal/handlers"
	"inventory/internal/service"
	"inventory/internal/store"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureProductIndexes(db); err != nil {
		log.Printf("product index warning: %v", err)
	}

	productStore := store.NewMongoStore(db)
	productService := service.NewProductService(productStore)

	r := gin.Default()
	handlers.RegisterProductRoutes(r, productService)

	if err := r.Run(":" + config.AppEnv.Port); err != nil {
		log.Fatal(err)
	}
}
