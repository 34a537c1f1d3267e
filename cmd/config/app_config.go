package config

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"

	"recipebook-backend/internal/api/handlers"
	"recipebook-backend/internal/api/routes"
	"recipebook-backend/internal/middleware"
	"recipebook-backend/internal/utils"
	"recipebook-backend/internal/utils/storage"
	"recipebook-backend/pkg/ingredient"
	"recipebook-backend/pkg/jwt"
	"recipebook-backend/pkg/recipe"
	"recipebook-backend/pkg/relation"
	"recipebook-backend/pkg/shoppinglist"
	"recipebook-backend/pkg/tag"
	"recipebook-backend/pkg/user"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()

	// Repository
	userRepository := user.NewUserRepository(db)
	tagRepository := tag.NewTagRepository(db)
	ingredientRepository := ingredient.NewIngredientRepository(db)
	recipeRepository := recipe.NewRecipeRepository(db)
	relationRepository := relation.NewRelationRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	relationService := relation.NewRelationService(relationRepository)
	tagService := tag.NewTagService(tagRepository)
	ingredientService := ingredient.NewIngredientService(ingredientRepository)
	recipeService := recipe.NewRecipeService(
		recipeRepository,
		tagRepository,
		ingredientRepository,
		relationRepository,
		s3,
	)
	shoppingListService := shoppinglist.NewShoppingListService(recipeRepository)
	userService := user.NewUserService(
		userRepository,
		recipeRepository,
		relationRepository,
		jwtService,
		s3,
	)

	// Handler
	userHandler := handlers.NewUserHandler(userService, relationService, validator)
	recipeHandler := handlers.NewRecipeHandler(recipeService, relationService, shoppingListService, validator)
	tagHandler := handlers.NewTagHandler(tagService)
	ingredientHandler := handlers.NewIngredientHandler(ingredientService)

	// routes
	routesConfig := routes.Config{
		App:               app,
		UserHandler:       userHandler,
		RecipeHandler:     recipeHandler,
		TagHandler:        tagHandler,
		IngredientHandler: ingredientHandler,
		Middleware:        middlewares,
		JWTService:        jwtService,
	}
	routesConfig.Setup()
	return app, nil
}
