package migrate

import (
	"log"

	"gorm.io/gorm"

	"recipebook-backend/entities"
)

func AutoMigrate(db *gorm.DB) {
	if err := db.AutoMigrate(&entities.User{}); err != nil {
		log.Fatalf("failed to migrate user entity: %v", err)
	}
	if err := db.AutoMigrate(&entities.Subscription{}); err != nil {
		log.Fatalf("failed to migrate subscription entity: %v", err)
	}
	if err := db.AutoMigrate(&entities.Tag{}); err != nil {
		log.Fatalf("failed to migrate tag entity: %v", err)
	}
	if err := db.AutoMigrate(&entities.Ingredient{}); err != nil {
		log.Fatalf("failed to migrate ingredient entity: %v", err)
	}
	if err := db.AutoMigrate(&entities.Recipe{}); err != nil {
		log.Fatalf("failed to migrate recipe entity: %v", err)
	}
	if err := db.AutoMigrate(&entities.RecipeIngredient{}); err != nil {
		log.Fatalf("failed to migrate recipe ingredient entity: %v", err)
	}
	if err := db.AutoMigrate(&entities.Favorite{}); err != nil {
		log.Fatalf("failed to migrate favorite entity: %v", err)
	}
	if err := db.AutoMigrate(&entities.CartItem{}); err != nil {
		log.Fatalf("failed to migrate cart item entity: %v", err)
	}
}
