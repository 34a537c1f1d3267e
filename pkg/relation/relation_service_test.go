package relation

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
)

func withRelationTestDatabase(t *testing.T) (*gorm.DB, func()) {
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

func seedUser(t *testing.T, db *gorm.DB, username string) *entities.User {
	t.Helper()
	user := &entities.User{
		ID:       uuid.New(),
		Email:    username + "@example.com",
		Username: username,
		Password: "hashed",
		Role:     domain.RoleUser,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedRecipe(t *testing.T, db *gorm.DB, author *entities.User, name string) *entities.Recipe {
	t.Helper()
	recipe := &entities.Recipe{
		ID:          uuid.New(),
		AuthorID:    &author.ID,
		Name:        name,
		ImageURL:    "https://bucket.s3.region.amazonaws.com/recipes/" + name,
		Text:        "instructions",
		CookingTime: 30,
	}
	require.NoError(t, db.Create(recipe).Error)
	return recipe
}

func TestRelationServiceAddAndRemove(t *testing.T) {
	db, cleanup := withRelationTestDatabase(t)
	defer cleanup()

	service := NewRelationService(NewRelationRepository(db))
	ctx := context.Background()

	user := seedUser(t, db, "alice")
	author := seedUser(t, db, "bob")
	recipe := seedRecipe(t, db, author, "pancakes")

	require.NoError(t, service.Add(ctx, domain.RelationFavorite, user.ID.String(), recipe.ID.String()))

	err := service.Add(ctx, domain.RelationFavorite, user.ID.String(), recipe.ID.String())
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	require.NoError(t, service.Remove(ctx, domain.RelationFavorite, user.ID.String(), recipe.ID.String()))

	err = service.Remove(ctx, domain.RelationFavorite, user.ID.String(), recipe.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotRelated)

	// relation can be re-established after removal
	require.NoError(t, service.Add(ctx, domain.RelationFavorite, user.ID.String(), recipe.ID.String()))
}

func TestRelationServiceKindsAreIndependent(t *testing.T) {
	db, cleanup := withRelationTestDatabase(t)
	defer cleanup()

	repository := NewRelationRepository(db)
	service := NewRelationService(repository)
	ctx := context.Background()

	user := seedUser(t, db, "alice")
	author := seedUser(t, db, "bob")
	recipe := seedRecipe(t, db, author, "pancakes")

	require.NoError(t, service.Add(ctx, domain.RelationFavorite, user.ID.String(), recipe.ID.String()))

	inCart, err := repository.Exists(ctx, domain.RelationCart, user.ID.String(), recipe.ID.String())
	require.NoError(t, err)
	assert.False(t, inCart)

	require.NoError(t, service.Add(ctx, domain.RelationCart, user.ID.String(), recipe.ID.String()))
	require.NoError(t, service.Remove(ctx, domain.RelationCart, user.ID.String(), recipe.ID.String()))

	favorited, err := repository.Exists(ctx, domain.RelationFavorite, user.ID.String(), recipe.ID.String())
	require.NoError(t, err)
	assert.True(t, favorited)
}

func TestRelationServiceSelfSubscription(t *testing.T) {
	db, cleanup := withRelationTestDatabase(t)
	defer cleanup()

	service := NewRelationService(NewRelationRepository(db))
	ctx := context.Background()

	user := seedUser(t, db, "alice")

	err := service.Add(ctx, domain.RelationSubscription, user.ID.String(), user.ID.String())
	assert.ErrorIs(t, err, domain.ErrSelfSubscription)
}

func TestRelationServiceSubscription(t *testing.T) {
	db, cleanup := withRelationTestDatabase(t)
	defer cleanup()

	service := NewRelationService(NewRelationRepository(db))
	ctx := context.Background()

	user := seedUser(t, db, "alice")
	author := seedUser(t, db, "bob")

	require.NoError(t, service.Add(ctx, domain.RelationSubscription, user.ID.String(), author.ID.String()))

	err := service.Add(ctx, domain.RelationSubscription, user.ID.String(), author.ID.String())
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	// the reverse direction is a distinct subscription
	require.NoError(t, service.Add(ctx, domain.RelationSubscription, author.ID.String(), user.ID.String()))
}

func TestRelationServiceUnknownKind(t *testing.T) {
	db, cleanup := withRelationTestDatabase(t)
	defer cleanup()

	service := NewRelationService(NewRelationRepository(db))
	ctx := context.Background()

	err := service.Add(ctx, domain.RelationKind("bookmark"), uuid.NewString(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrUnknownRelation)
}
