package main

import (
	"log"

	"recipebook-backend/cmd/config"
	"recipebook-backend/cmd/database/migrate"
	"recipebook-backend/internal/utils"
)

func main() {
	utils.LoadConfig()

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	migrate.AutoMigrate(db)

	app, err := config.NewApp(db)
	if err != nil {
		log.Fatalf("failed to start app: %v", err)
	}

	port := utils.GetConfig("APP_PORT")
	if port == "" {
		port = "8080"
	}
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("failed to listen: %v", err)
	}
}
