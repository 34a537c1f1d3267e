package user

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"recipebook-backend/domain"
	"recipebook-backend/entities"
	"recipebook-backend/pkg/jwt"
	"recipebook-backend/pkg/recipe"
	"recipebook-backend/pkg/relation"
)

type fakeStorage struct{}

func (f *fakeStorage) UploadBase64(fileName string, payload string, dir string, allow ...string) (string, error) {
	return dir + "/" + fileName + ".png", nil
}

func (f *fakeStorage) DeleteFile(objectKey string) error { return nil }

func (f *fakeStorage) GetPublicLinkKey(objectKey string) string {
	return "https://bucket.s3.test.amazonaws.com/" + objectKey
}

func (f *fakeStorage) GetObjectKeyFromLink(link string) string {
	return strings.TrimPrefix(link, "https://bucket.s3.test.amazonaws.com/")
}

func withUserTestService(t *testing.T) (UserService, *gorm.DB, func()) {
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

	service := NewUserService(
		NewUserRepository(db),
		recipe.NewRecipeRepository(db),
		relation.NewRelationRepository(db),
		jwt.NewJWTService(),
		&fakeStorage{},
	)
	return service, db, func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}
}

func registerUser(t *testing.T, service UserService, username string) domain.RegisterResponse {
	t.Helper()
	res, err := service.Register(context.Background(), domain.RegisterRequest{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "Test",
		LastName:  "User",
		Password:  "supersecret",
	})
	require.NoError(t, err)
	return res
}

func TestRegister(t *testing.T) {
	service, db, cleanup := withUserTestService(t)
	defer cleanup()
	ctx := context.Background()

	res := registerUser(t, service, "alice")
	assert.Equal(t, "alice", res.Username)
	assert.NotEmpty(t, res.ID)

	// the password is stored hashed
	var stored entities.User
	require.NoError(t, db.Where("username = ?", "alice").First(&stored).Error)
	assert.NotEqual(t, "supersecret", stored.Password)
	assert.Equal(t, domain.RoleUser, stored.Role)

	_, err := service.Register(ctx, domain.RegisterRequest{
		Email:    "alice@example.com",
		Username: "alice2",
		Password: "supersecret",
	})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	_, err = service.Register(ctx, domain.RegisterRequest{
		Email:    "alice2@example.com",
		Username: "alice",
		Password: "supersecret",
	})
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)
}

func TestLogin(t *testing.T) {
	service, _, cleanup := withUserTestService(t)
	defer cleanup()
	ctx := context.Background()

	registerUser(t, service, "alice")

	res, err := service.Login(ctx, domain.LoginRequest{
		Email:    "alice@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, domain.RoleUser, res.Role)

	_, err = service.Login(ctx, domain.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrongpassword",
	})
	assert.ErrorIs(t, err, domain.ErrCredentialsInvalid)

	_, err = service.Login(ctx, domain.LoginRequest{
		Email:    "nobody@example.com",
		Password: "supersecret",
	})
	assert.ErrorIs(t, err, domain.ErrCredentialsInvalid)
}

func TestUpdateUser(t *testing.T) {
	service, _, cleanup := withUserTestService(t)
	defer cleanup()
	ctx := context.Background()

	alice := registerUser(t, service, "alice")
	registerUser(t, service, "bob")

	err := service.UpdateUser(ctx, domain.UpdateUserRequest{Username: "bob"}, alice.ID)
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)

	require.NoError(t, service.UpdateUser(ctx, domain.UpdateUserRequest{
		Username:  "alice_cooks",
		FirstName: "Alice",
	}, alice.ID))

	profile, err := service.Me(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice_cooks", profile.Username)
	assert.Equal(t, "Alice", profile.FirstName)
}

func TestSetAndDeleteAvatar(t *testing.T) {
	service, _, cleanup := withUserTestService(t)
	defer cleanup()
	ctx := context.Background()

	alice := registerUser(t, service, "alice")

	_, err := service.SetAvatar(ctx, domain.SetAvatarRequest{}, alice.ID)
	assert.ErrorIs(t, err, domain.ErrMissingAvatar)

	url, err := service.SetAvatar(ctx, domain.SetAvatarRequest{
		Avatar: "data:image/png;base64,aGVsbG8=",
	}, alice.ID)
	require.NoError(t, err)
	assert.Contains(t, url, "avatars/avatar-"+alice.ID)

	require.NoError(t, service.DeleteAvatar(ctx, alice.ID))

	profile, err := service.Me(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, profile.AvatarURL)
}

func TestGetProfileSubscriptionFlag(t *testing.T) {
	service, db, cleanup := withUserTestService(t)
	defer cleanup()
	ctx := context.Background()

	alice := registerUser(t, service, "alice")
	bob := registerUser(t, service, "bob")

	profile, err := service.GetProfile(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, profile.IsSubscribed)

	sub := &entities.Subscription{
		ID:       uuid.New(),
		UserID:   uuid.MustParse(alice.ID),
		AuthorID: uuid.MustParse(bob.ID),
	}
	require.NoError(t, db.Create(sub).Error)

	profile, err = service.GetProfile(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, profile.IsSubscribed)

	_, err = service.GetProfile(ctx, uuid.NewString(), alice.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestGetSubscriptions(t *testing.T) {
	service, db, cleanup := withUserTestService(t)
	defer cleanup()
	ctx := context.Background()

	alice := registerUser(t, service, "alice")
	bob := registerUser(t, service, "bob")
	bobID := uuid.MustParse(bob.ID)

	for _, name := range []string{"pancakes", "stew", "bread"} {
		require.NoError(t, db.Create(&entities.Recipe{
			ID:          uuid.New(),
			AuthorID:    &bobID,
			Name:        name,
			Text:        "instructions",
			CookingTime: 30,
		}).Error)
	}

	require.NoError(t, db.Create(&entities.Subscription{
		ID:       uuid.New(),
		UserID:   uuid.MustParse(alice.ID),
		AuthorID: bobID,
	}).Error)

	res, err := service.GetSubscriptions(ctx, alice.ID, 10, 0, 2)
	require.NoError(t, err)
	require.Len(t, res.Subscriptions, 1)

	sub := res.Subscriptions[0]
	assert.Equal(t, "bob", sub.Username)
	assert.True(t, sub.IsSubscribed)
	// recipes trimmed to the requested limit, full count reported
	assert.Len(t, sub.Recipes, 2)
	assert.EqualValues(t, 3, sub.RecipesCount)
	assert.EqualValues(t, 1, res.Pagination.Total)
}

func TestUserExists(t *testing.T) {
	service, _, cleanup := withUserTestService(t)
	defer cleanup()
	ctx := context.Background()

	alice := registerUser(t, service, "alice")

	exists, err := service.UserExists(ctx, alice.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = service.UserExists(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.False(t, exists)
}
