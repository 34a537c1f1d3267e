package main

import (
	"log"
	"os"

	"recipebook-backend/cmd/config"
	"recipebook-backend/cmd/database/migrate"
	"recipebook-backend/cmd/database/seed"
	"recipebook-backend/internal/utils"
)

// Loads the CSV reference data (ingredients and tags) into the
// database. Pass the data directory as the first argument.
func main() {
	utils.LoadConfig()

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	migrate.AutoMigrate(db)

	dataDir := "data"
	if len(os.Args) > 1 {
		dataDir = os.Args[1]
	}
	seed.Seed(db, dataDir)
	log.Println("seeding finished")
}
