package shoppinglist

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"recipebook-backend/domain"
	"recipebook-backend/entities"
	"recipebook-backend/pkg/recipe"
)

func withShoppingListTestDatabase(t *testing.T) (*gorm.DB, func()) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}
	if err := db.AutoMigrate(
		&entities.User{},
		&entities.Tag{},
		&entities.Ingredient{},
		&entities.Recipe{},
		&entities.RecipeIngredient{},
		&entities.Favorite{},
		&entities.CartItem{},
		&entities.Subscription{},
	); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	return db, func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}
}

type cartFixture struct {
	user  *entities.User
	flour *entities.Ingredient
	egg   *entities.Ingredient
}

// seedCart puts two recipes in the user's cart: both use flour, one
// also uses egg.
func seedCart(t *testing.T, db *gorm.DB) cartFixture {
	t.Helper()

	user := &entities.User{
		ID:       uuid.New(),
		Email:    "cook@example.com",
		Username: "cook",
		Password: "hashed",
		Role:     domain.RoleUser,
	}
	require.NoError(t, db.Create(user).Error)

	flour := &entities.Ingredient{ID: uuid.New(), Name: "flour", MeasurementUnit: "g"}
	egg := &entities.Ingredient{ID: uuid.New(), Name: "egg", MeasurementUnit: "pcs"}
	require.NoError(t, db.Create(flour).Error)
	require.NoError(t, db.Create(egg).Error)

	pancakes := &entities.Recipe{
		ID: uuid.New(), AuthorID: &user.ID, Name: "pancakes",
		Text: "mix and fry", CookingTime: 20,
	}
	bread := &entities.Recipe{
		ID: uuid.New(), AuthorID: &user.ID, Name: "bread",
		Text: "knead and bake", CookingTime: 60,
	}
	require.NoError(t, db.Create(pancakes).Error)
	require.NoError(t, db.Create(bread).Error)

	lines := []*entities.RecipeIngredient{
		{ID: uuid.New(), RecipeID: pancakes.ID, IngredientID: flour.ID, Amount: 100},
		{ID: uuid.New(), RecipeID: pancakes.ID, IngredientID: egg.ID, Amount: 2},
		{ID: uuid.New(), RecipeID: bread.ID, IngredientID: flour.ID, Amount: 50},
	}
	require.NoError(t, db.Create(lines).Error)

	for _, r := range []*entities.Recipe{pancakes, bread} {
		item := &entities.CartItem{ID: uuid.New(), UserID: user.ID, RecipeID: r.ID}
		require.NoError(t, db.Create(item).Error)
	}

	return cartFixture{user: user, flour: flour, egg: egg}
}

func TestBuildShoppingListAggregates(t *testing.T) {
	db, cleanup := withShoppingListTestDatabase(t)
	defer cleanup()

	fixture := seedCart(t, db)
	service := NewShoppingListService(recipe.NewRecipeRepository(db))

	items, err := service.BuildShoppingList(context.Background(), fixture.user.ID.String())
	require.NoError(t, err)

	// the same ingredient across cart recipes collapses to one summed
	// line, sorted by name
	require.Len(t, items, 2)
	assert.Equal(t, domain.ShoppingListItem{Name: "egg", MeasurementUnit: "pcs", Amount: 2}, items[0])
	assert.Equal(t, domain.ShoppingListItem{Name: "flour", MeasurementUnit: "g", Amount: 150}, items[1])
}

func TestBuildShoppingListEmptyCart(t *testing.T) {
	db, cleanup := withShoppingListTestDatabase(t)
	defer cleanup()

	service := NewShoppingListService(recipe.NewRecipeRepository(db))

	_, err := service.BuildShoppingList(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrShoppingListEmpty)
}

func TestBuildShoppingListKeepsUnitsSeparate(t *testing.T) {
	db, cleanup := withShoppingListTestDatabase(t)
	defer cleanup()

	user := &entities.User{
		ID:       uuid.New(),
		Email:    "cook@example.com",
		Username: "cook",
		Password: "hashed",
		Role:     domain.RoleUser,
	}
	require.NoError(t, db.Create(user).Error)

	grams := &entities.Ingredient{ID: uuid.New(), Name: "sugar", MeasurementUnit: "g"}
	spoons := &entities.Ingredient{ID: uuid.New(), Name: "sugar", MeasurementUnit: "tbsp"}
	require.NoError(t, db.Create(grams).Error)
	require.NoError(t, db.Create(spoons).Error)

	cake := &entities.Recipe{
		ID: uuid.New(), AuthorID: &user.ID, Name: "cake",
		Text: "bake", CookingTime: 40,
	}
	require.NoError(t, db.Create(cake).Error)
	require.NoError(t, db.Create([]*entities.RecipeIngredient{
		{ID: uuid.New(), RecipeID: cake.ID, IngredientID: grams.ID, Amount: 200},
		{ID: uuid.New(), RecipeID: cake.ID, IngredientID: spoons.ID, Amount: 3},
	}).Error)
	require.NoError(t, db.Create(&entities.CartItem{
		ID: uuid.New(), UserID: user.ID, RecipeID: cake.ID,
	}).Error)

	service := NewShoppingListService(recipe.NewRecipeRepository(db))
	items, err := service.BuildShoppingList(context.Background(), user.ID.String())
	require.NoError(t, err)

	// same name, different unit: two distinct lines, tie broken by
	// unit so the order never changes between runs
	expected := []domain.ShoppingListItem{
		{Name: "sugar", MeasurementUnit: "g", Amount: 200},
		{Name: "sugar", MeasurementUnit: "tbsp", Amount: 3},
	}
	assert.Equal(t, expected, items)

	// rebuilding from the same cart must reproduce the exact order
	for i := 0; i < 20; i++ {
		again, err := service.BuildShoppingList(context.Background(), user.ID.String())
		require.NoError(t, err)
		assert.Equal(t, expected, again)
	}
}

func TestRenderShoppingList(t *testing.T) {
	db, cleanup := withShoppingListTestDatabase(t)
	defer cleanup()

	fixture := seedCart(t, db)
	service := NewShoppingListService(recipe.NewRecipeRepository(db))

	rendered, err := service.RenderShoppingList(context.Background(), fixture.user.ID.String())
	require.NoError(t, err)

	expected := "Shopping list\n\n" +
		" - egg (pcs): 2\n" +
		" - flour (g): 150\n"
	assert.Equal(t, expected, string(rendered))
}
