package ingredient

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

func withIngredientTestService(t *testing.T) (IngredientService, func()) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}
	if err := db.AutoMigrate(&entities.Ingredient{}); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	for _, spec := range [][2]string{
		{"Flour", "g"},
		{"flaked almonds", "g"},
		{"egg", "pcs"},
	} {
		row := &entities.Ingredient{ID: uuid.New(), Name: spec[0], MeasurementUnit: spec[1]}
		require.NoError(t, db.Create(row).Error)
	}

	return NewIngredientService(NewIngredientRepository(db)), func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}
}

func TestGetIngredientsPrefixSearch(t *testing.T) {
	service, cleanup := withIngredientTestService(t)
	defer cleanup()
	ctx := context.Background()

	all, err := service.GetIngredients(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// prefix match is case-insensitive
	matched, err := service.GetIngredients(ctx, "fl")
	require.NoError(t, err)
	require.Len(t, matched, 2)

	none, err := service.GetIngredients(ctx, "lour")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGetIngredientByID(t *testing.T) {
	service, cleanup := withIngredientTestService(t)
	defer cleanup()
	ctx := context.Background()

	all, err := service.GetIngredients(ctx, "egg")
	require.NoError(t, err)
	require.Len(t, all, 1)

	got, err := service.GetIngredientByID(ctx, all[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "egg", got.Name)
	assert.Equal(t, "pcs", got.MeasurementUnit)

	_, err = service.GetIngredientByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrIngredientNotFound)
}
