package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"recipebook-backend/domain"
	"recipebook-backend/entities"
	"recipebook-backend/internal/utils/mailing"
	"recipebook-backend/internal/utils/storage"
	"recipebook-backend/pkg/jwt"
	"recipebook-backend/pkg/recipe"
	"recipebook-backend/pkg/relation"
)

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.RegisterResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
		Me(ctx context.Context, userID string) (domain.UserProfileResponse, error)
		UpdateUser(ctx context.Context, req domain.UpdateUserRequest, userID string) error
		SetAvatar(ctx context.Context, req domain.SetAvatarRequest, userID string) (string, error)
		DeleteAvatar(ctx context.Context, userID string) error
		GetProfile(ctx context.Context, profileID string, requesterID string) (domain.UserProfileResponse, error)
		GetSubscriptions(ctx context.Context, userID string, limit, offset, recipesLimit int) (domain.SubscriptionListResponse, error)
		ForgotPassword(ctx context.Context, req domain.ForgotPasswordRequest) error
		ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error
		UserExists(ctx context.Context, userID string) (bool, error)
	}

	userService struct {
		userRepository     UserRepository
		recipeRepository   recipe.RecipeRepository
		relationRepository relation.RelationRepository
		jwtService         jwt.JWTService
		s3                 storage.AwsS3
	}
)

func NewUserService(
	userRepository UserRepository,
	recipeRepository recipe.RecipeRepository,
	relationRepository relation.RelationRepository,
	jwtService jwt.JWTService,
	s3 storage.AwsS3,
) UserService {
	return &userService{
		userRepository:     userRepository,
		recipeRepository:   recipeRepository,
		relationRepository: relationRepository,
		jwtService:         jwtService,
		s3:                 s3,
	}
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.RegisterResponse, error) {
	if _, err := s.userRepository.GetUserByEmail(ctx, req.Email); err == nil {
		return domain.RegisterResponse{}, domain.ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.RegisterResponse{}, err
	}

	if _, err := s.userRepository.GetUserByUsername(ctx, req.Username); err == nil {
		return domain.RegisterResponse{}, domain.ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.RegisterResponse{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.RegisterResponse{}, err
	}

	user := &entities.User{
		ID:        uuid.New(),
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  string(hashed),
		Role:      domain.RoleUser,
	}

	if err := s.userRepository.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.RegisterResponse{}, domain.ErrEmailTaken
		}
		return domain.RegisterResponse{}, err
	}

	return domain.RegisterResponse{
		ID:       user.ID.String(),
		Email:    user.Email,
		Username: user.Username,
	}, nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.LoginResponse{}, domain.ErrCredentialsInvalid
		}
		return domain.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return domain.LoginResponse{}, domain.ErrCredentialsInvalid
	}

	token := s.jwtService.GenerateTokenUser(user.ID.String(), user.Role)
	return domain.LoginResponse{
		Token: token,
		Role:  user.Role,
	}, nil
}

func (s *userService) Me(ctx context.Context, userID string) (domain.UserProfileResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserProfileResponse{}, domain.ErrUserNotFound
		}
		return domain.UserProfileResponse{}, err
	}

	return s.toProfile(ctx, user, ""), nil
}

func (s *userService) UpdateUser(ctx context.Context, req domain.UpdateUserRequest, userID string) error {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	if req.Username != "" && req.Username != user.Username {
		if _, err := s.userRepository.GetUserByUsername(ctx, req.Username); err == nil {
			return domain.ErrUsernameTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		user.Username = req.Username
	}
	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}

	return s.userRepository.UpdateUser(ctx, user)
}

func (s *userService) SetAvatar(ctx context.Context, req domain.SetAvatarRequest, userID string) (string, error) {
	if req.Avatar == "" {
		return "", domain.ErrMissingAvatar
	}

	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.ErrUserNotFound
		}
		return "", err
	}

	if existingKey := s.s3.GetObjectKeyFromLink(user.AvatarURL); existingKey != "" {
		_ = s.s3.DeleteFile(existingKey)
	}

	objectKey, err := s.s3.UploadBase64(
		fmt.Sprintf("avatar-%s", user.ID.String()),
		req.Avatar,
		"avatars",
		storage.AllowImage...,
	)
	if err != nil {
		return "", err
	}

	user.AvatarURL = s.s3.GetPublicLinkKey(objectKey)
	if err := s.userRepository.UpdateUser(ctx, user); err != nil {
		return "", err
	}
	return user.AvatarURL, nil
}

func (s *userService) DeleteAvatar(ctx context.Context, userID string) error {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	if objectKey := s.s3.GetObjectKeyFromLink(user.AvatarURL); objectKey != "" {
		_ = s.s3.DeleteFile(objectKey)
	}

	user.AvatarURL = ""
	return s.userRepository.UpdateUser(ctx, user)
}

func (s *userService) GetProfile(ctx context.Context, profileID string, requesterID string) (domain.UserProfileResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserProfileResponse{}, domain.ErrUserNotFound
		}
		return domain.UserProfileResponse{}, err
	}

	return s.toProfile(ctx, user, requesterID), nil
}

func (s *userService) GetSubscriptions(ctx context.Context, userID string, limit, offset, recipesLimit int) (domain.SubscriptionListResponse, error) {
	if limit < 1 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	subscriptions, count, err := s.userRepository.GetSubscriptions(ctx, userID, limit, offset)
	if err != nil {
		return domain.SubscriptionListResponse{}, err
	}

	result := make([]domain.SubscriptionResponse, 0, len(subscriptions))
	for _, sub := range subscriptions {
		if sub.Author == nil {
			continue
		}
		authorID := sub.Author.ID.String()

		recipes, err := s.recipeRepository.GetRecipesByAuthor(ctx, authorID, recipesLimit)
		if err != nil {
			return domain.SubscriptionListResponse{}, err
		}
		recipesCount, err := s.recipeRepository.CountRecipesByAuthor(ctx, authorID)
		if err != nil {
			return domain.SubscriptionListResponse{}, err
		}

		shortRecipes := make([]domain.ShortRecipeResponse, 0, len(recipes))
		for _, r := range recipes {
			shortRecipes = append(shortRecipes, domain.ShortRecipeResponse{
				ID:          r.ID.String(),
				Name:        r.Name,
				ImageURL:    r.ImageURL,
				CookingTime: r.CookingTime,
			})
		}

		profile := s.toProfile(ctx, sub.Author, userID)
		result = append(result, domain.SubscriptionResponse{
			UserProfileResponse: profile,
			Recipes:             shortRecipes,
			RecipesCount:        recipesCount,
		})
	}

	return domain.SubscriptionListResponse{
		Subscriptions: result,
		Pagination: domain.Pagination{
			Limit:  limit,
			Offset: offset,
			Total:  count,
		},
	}, nil
}

func (s *userService) ForgotPassword(ctx context.Context, req domain.ForgotPasswordRequest) error {
	user, err := s.userRepository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	token, err := s.jwtService.GenerateTokenResetPassword(
		map[string]any{"user_id": user.ID.String()},
		time.Minute*30,
	)
	if err != nil {
		return err
	}

	mailConfig := mailing.LoadMailConfig()
	resetLink := fmt.Sprintf("%s/reset-password?token=%s", mailConfig.AppURL, token)
	body := fmt.Sprintf(
		"<p>Hello %s,</p><p>Follow <a href=%q>this link</a> to reset your password. The link expires in 30 minutes.</p>",
		user.Username, resetLink,
	)

	return mailing.SendMail(user.Email, "Reset your password", body)
}

func (s *userService) ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error {
	claims, err := s.jwtService.ValidateTokenResetPassword(req.Token)
	if err != nil {
		return err
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return domain.ErrTokenInvalid
	}

	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.Password = string(hashed)
	return s.userRepository.UpdateUser(ctx, user)
}

func (s *userService) UserExists(ctx context.Context, userID string) (bool, error) {
	if _, err := s.userRepository.GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *userService) toProfile(ctx context.Context, user *entities.User, requesterID string) domain.UserProfileResponse {
	profile := domain.UserProfileResponse{
		ID:        user.ID.String(),
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		AvatarURL: user.AvatarURL,
	}

	if requesterID != "" && requesterID != profile.ID {
		if subscribed, err := s.relationRepository.Exists(
			ctx, domain.RelationSubscription, requesterID, profile.ID); err == nil {
			profile.IsSubscribed = subscribed
		}
	}
	return profile
}
