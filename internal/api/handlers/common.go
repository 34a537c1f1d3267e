package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"recipebook-backend/domain"
)

// errorStatus maps a domain error to its HTTP status code. Validation
// and conflict outcomes are client errors (400), absent entities 404,
// authorization failures 403; anything unrecognized is a server fault.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrRecipeNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrTagNotFound),
		errors.Is(err, domain.ErrIngredientNotFound),
		errors.Is(err, domain.ErrShoppingListEmpty):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrNotRecipeAuthor):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrMissingTags),
		errors.Is(err, domain.ErrEmptyTags),
		errors.Is(err, domain.ErrDuplicateTags),
		errors.Is(err, domain.ErrUnknownTag),
		errors.Is(err, domain.ErrMissingIngredients),
		errors.Is(err, domain.ErrEmptyIngredients),
		errors.Is(err, domain.ErrDuplicateIngredients),
		errors.Is(err, domain.ErrUnknownIngredient),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrMissingImage),
		errors.Is(err, domain.ErrInvalidCookingTime),
		errors.Is(err, domain.ErrMissingAvatar),
		errors.Is(err, domain.ErrSelfSubscription),
		errors.Is(err, domain.ErrAlreadyExists),
		errors.Is(err, domain.ErrNotRelated),
		errors.Is(err, domain.ErrRecipeNameTaken),
		errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrUsernameTaken),
		errors.Is(err, domain.ErrCredentialsInvalid),
		errors.Is(err, domain.ErrParseUUID),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrTokenInvalid):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func requestUserID(c *fiber.Ctx) string {
	if id, ok := c.Locals("user_id").(string); ok {
		return id
	}
	return ""
}
