package shoppinglist

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"recipebook-backend/domain"
	"recipebook-backend/pkg/recipe"
)

type (
	// ShoppingListService aggregates the ingredient lines of every
	// recipe in a user's cart into one deduplicated, summed list.
	ShoppingListService interface {
		BuildShoppingList(ctx context.Context, userID string) ([]domain.ShoppingListItem, error)
		RenderShoppingList(ctx context.Context, userID string) ([]byte, error)
	}

	shoppingListService struct {
		recipeRepository recipe.RecipeRepository
	}
)

func NewShoppingListService(recipeRepository recipe.RecipeRepository) ShoppingListService {
	return &shoppingListService{recipeRepository: recipeRepository}
}

func (s *shoppingListService) BuildShoppingList(ctx context.Context, userID string) ([]domain.ShoppingListItem, error) {
	lines, err := s.recipeRepository.GetCartIngredientLines(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, domain.ErrShoppingListEmpty
	}

	// grouped by ingredient identity, not by name: two ingredients
	// sharing a name but measured in different units stay separate
	totals := make(map[string]*domain.ShoppingListItem)
	for _, line := range lines {
		key := line.IngredientID.String()
		if item, ok := totals[key]; ok {
			item.Amount += line.Amount
			continue
		}
		item := &domain.ShoppingListItem{Amount: line.Amount}
		if line.Ingredient != nil {
			item.Name = line.Ingredient.Name
			item.MeasurementUnit = line.Ingredient.MeasurementUnit
		}
		totals[key] = item
	}

	result := make([]domain.ShoppingListItem, 0, len(totals))
	for _, item := range totals {
		result = append(result, *item)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		// same-name ingredients keep a fixed order too
		return result[i].MeasurementUnit < result[j].MeasurementUnit
	})
	return result, nil
}

// RenderShoppingList produces the plaintext attachment served by the
// download endpoint.
func (s *shoppingListService) RenderShoppingList(ctx context.Context, userID string) ([]byte, error) {
	items, err := s.BuildShoppingList(ctx, userID)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteString("Shopping list\n\n")
	for _, item := range items {
		fmt.Fprintf(&b, " - %s (%s): %d\n", item.Name, item.MeasurementUnit, item.Amount)
	}
	return []byte(b.String()), nil
}
