package domain

import (
	"errors"
	"time"
)

const (
	MinCookingTime = 1
	MaxCookingTime = 200
)

var (
	MessageSuccessGetRecipes    = "success get recipes"
	MessageSuccessGetRecipe     = "success get recipe detail"
	MessageSuccessCreateRecipe  = "recipe created successfully"
	MessageSuccessUpdateRecipe  = "recipe updated successfully"
	MessageSuccessDeleteRecipe  = "recipe deleted successfully"
	MessageSuccessGetRecipeLink = "success get recipe link"

	MessageFailedGetRecipes   = "failed to get recipes"
	MessageFailedGetRecipe    = "failed to get recipe detail"
	MessageFailedCreateRecipe = "failed to create recipe"
	MessageFailedUpdateRecipe = "failed to update recipe"
	MessageFailedDeleteRecipe = "failed to delete recipe"

	ErrRecipeNotFound     = errors.New("recipe not found")
	ErrNotRecipeAuthor    = errors.New("only the author can modify this recipe")
	ErrRecipeNameTaken    = errors.New("author already has a recipe with this name")
	ErrMissingTags        = errors.New("tags field is required")
	ErrEmptyTags          = errors.New("tags must not be empty")
	ErrDuplicateTags      = errors.New("tags must not repeat")
	ErrUnknownTag         = errors.New("unknown tag")
	ErrMissingIngredients = errors.New("ingredients field is required")
	ErrEmptyIngredients   = errors.New("ingredients must not be empty")
	ErrDuplicateIngredients = errors.New(
		"ingredients must not repeat within a recipe")
	ErrUnknownIngredient  = errors.New("unknown ingredient")
	ErrInvalidAmount      = errors.New("ingredient amount must be at least 1")
	ErrMissingImage       = errors.New("image is required")
	ErrInvalidCookingTime = errors.New("cooking time must be between 1 and 200")
)

type (
	// IngredientSpec is one requested ingredient line of a recipe write.
	IngredientSpec struct {
		ID     string `json:"id" validate:"required,uuid"`
		Amount int    `json:"amount" validate:"required"`
	}

	CreateRecipeRequest struct {
		Name        string            `json:"name" validate:"required,max=150"`
		Text        string            `json:"text" validate:"required"`
		CookingTime int               `json:"cooking_time" validate:"required"`
		Image       string            `json:"image"`
		Tags        []string          `json:"tags"`
		Ingredients []*IngredientSpec `json:"ingredients"`
	}

	UpdateRecipeRequest struct {
		Name        string            `json:"name" validate:"required,max=150"`
		Text        string            `json:"text" validate:"required"`
		CookingTime int               `json:"cooking_time" validate:"required"`
		Image       string            `json:"image"`
		Tags        []string          `json:"tags"`
		Ingredients []*IngredientSpec `json:"ingredients"`
	}

	RecipeFilter struct {
		AuthorID         string
		TagSlugs         []string
		IsFavorited      bool
		IsInShoppingCart bool
		RequestingUserID string
		Limit            int
		Offset           int
	}

	IngredientInRecipeResponse struct {
		ID              string `json:"id"`
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		Amount          int    `json:"amount"`
	}

	RecipeResponse struct {
		ID               string                       `json:"id"`
		Author           *UserProfileResponse         `json:"author"`
		Name             string                       `json:"name"`
		ImageURL         string                       `json:"image_url"`
		Text             string                       `json:"text"`
		CookingTime      int                          `json:"cooking_time"`
		CreatedAt        time.Time                    `json:"created_at"`
		Tags             []TagResponse                `json:"tags"`
		Ingredients      []IngredientInRecipeResponse `json:"ingredients"`
		IsFavorited      bool                         `json:"is_favorited"`
		IsInShoppingCart bool                         `json:"is_in_shopping_cart"`
	}

	// ShortRecipeResponse is the compact representation used inside
	// favorite/cart responses and subscription listings.
	ShortRecipeResponse struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		ImageURL    string `json:"image_url"`
		CookingTime int    `json:"cooking_time"`
	}

	RecipeListResponse struct {
		Recipes    []RecipeResponse `json:"recipes"`
		Pagination Pagination       `json:"pagination"`
	}

	RecipeLinkResponse struct {
		ShortLink string `json:"short-link"`
	}
)
