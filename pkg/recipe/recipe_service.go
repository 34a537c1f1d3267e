package recipe

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"recipebook-backend/domain"
	"recipebook-backend/entities"
	"recipebook-backend/internal/utils/storage"
	"recipebook-backend/pkg/ingredient"
	"recipebook-backend/pkg/relation"
	"recipebook-backend/pkg/tag"
)

type (
	RecipeService interface {
		CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, userID string) (domain.RecipeResponse, error)
		UpdateRecipe(ctx context.Context, recipeID string, req domain.UpdateRecipeRequest, userID string) (domain.RecipeResponse, error)
		GetRecipeByID(ctx context.Context, recipeID string, userID string) (domain.RecipeResponse, error)
		GetRecipes(ctx context.Context, filter domain.RecipeFilter) (domain.RecipeListResponse, error)
		DeleteRecipe(ctx context.Context, recipeID string, userID string) error
		GetRecipeShort(ctx context.Context, recipeID string) (domain.ShortRecipeResponse, error)
		GetRecipeLink(ctx context.Context, recipeID string, host string) (domain.RecipeLinkResponse, error)
	}

	recipeService struct {
		recipeRepository     RecipeRepository
		tagRepository        tag.TagRepository
		ingredientRepository ingredient.IngredientRepository
		relationRepository   relation.RelationRepository
		s3                   storage.AwsS3
	}
)

func NewRecipeService(
	recipeRepository RecipeRepository,
	tagRepository tag.TagRepository,
	ingredientRepository ingredient.IngredientRepository,
	relationRepository relation.RelationRepository,
	s3 storage.AwsS3,
) RecipeService {
	return &recipeService{
		recipeRepository:     recipeRepository,
		tagRepository:        tagRepository,
		ingredientRepository: ingredientRepository,
		relationRepository:   relationRepository,
		s3:                   s3,
	}
}

// validateAggregateShape runs the presence and duplicate checks of a
// recipe write. The order is part of the contract: clients see the
// first failing rule, always the same one for the same input. Amount,
// image and cooking-time checks run after ingredient resolution, in
// validateAggregateValues.
func validateAggregateShape(tagIDs []string, specs []*domain.IngredientSpec) error {
	if tagIDs == nil {
		return domain.ErrMissingTags
	}
	if specs == nil {
		return domain.ErrMissingIngredients
	}
	if len(tagIDs) == 0 {
		return domain.ErrEmptyTags
	}
	seenTags := make(map[string]struct{}, len(tagIDs))
	for _, id := range tagIDs {
		if _, ok := seenTags[id]; ok {
			return domain.ErrDuplicateTags
		}
		seenTags[id] = struct{}{}
	}
	if len(specs) == 0 {
		return domain.ErrEmptyIngredients
	}
	seenIngredients := make(map[string]struct{}, len(specs))
	for _, spec := range specs {
		if _, ok := seenIngredients[spec.ID]; ok {
			return domain.ErrDuplicateIngredients
		}
		seenIngredients[spec.ID] = struct{}{}
	}
	return nil
}

func validateAggregateValues(specs []*domain.IngredientSpec, image string, cookingTime int) error {
	for _, spec := range specs {
		if spec.Amount < 1 {
			return domain.ErrInvalidAmount
		}
	}
	if image == "" {
		return domain.ErrMissingImage
	}
	if cookingTime < domain.MinCookingTime || cookingTime > domain.MaxCookingTime {
		return domain.ErrInvalidCookingTime
	}
	return nil
}

// resolveTags maps the requested tag ids to rows, failing when any id
// is unknown.
func (s *recipeService) resolveTags(ctx context.Context, tagIDs []string) ([]*entities.Tag, error) {
	tags, err := s.tagRepository.GetTagsByIDs(ctx, tagIDs)
	if err != nil {
		return nil, err
	}
	if len(tags) != len(tagIDs) {
		return nil, domain.ErrUnknownTag
	}
	return tags, nil
}

// resolveIngredients maps ingredient specs to line rows, reporting the
// full set of unknown ids in one error.
func (s *recipeService) resolveIngredients(ctx context.Context, recipeID uuid.UUID, specs []*domain.IngredientSpec) ([]*entities.RecipeIngredient, error) {
	ids := make([]string, 0, len(specs))
	for _, spec := range specs {
		ids = append(ids, spec.ID)
	}

	found, err := s.ingredientRepository.GetIngredientsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*entities.Ingredient, len(found))
	for _, ing := range found {
		byID[ing.ID.String()] = ing
	}

	var missing []string
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnknownIngredient, missing)
	}

	lines := make([]*entities.RecipeIngredient, 0, len(specs))
	for _, spec := range specs {
		ing := byID[spec.ID]
		lines = append(lines, &entities.RecipeIngredient{
			ID:           uuid.New(),
			RecipeID:     recipeID,
			IngredientID: ing.ID,
			Amount:       spec.Amount,
			Ingredient:   ing,
		})
	}
	return lines, nil
}

func (s *recipeService) CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, userID string) (domain.RecipeResponse, error) {
	if err := validateAggregateShape(req.Tags, req.Ingredients); err != nil {
		return domain.RecipeResponse{}, err
	}

	authorUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.RecipeResponse{}, domain.ErrParseUUID
	}

	tags, err := s.resolveTags(ctx, req.Tags)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	recipeID := uuid.New()
	lines, err := s.resolveIngredients(ctx, recipeID, req.Ingredients)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	if err := validateAggregateValues(req.Ingredients, req.Image, req.CookingTime); err != nil {
		return domain.RecipeResponse{}, err
	}

	taken, err := s.recipeRepository.ExistsByAuthorAndName(ctx, userID, req.Name, "")
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	if taken {
		return domain.RecipeResponse{}, domain.ErrRecipeNameTaken
	}

	objectKey, err := s.s3.UploadBase64(
		fmt.Sprintf("recipe-%s", recipeID.String()),
		req.Image,
		"recipes",
		storage.AllowImage...,
	)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	recipe := &entities.Recipe{
		ID:          recipeID,
		AuthorID:    &authorUUID,
		Name:        req.Name,
		ImageURL:    s.s3.GetPublicLinkKey(objectKey),
		Text:        req.Text,
		CookingTime: req.CookingTime,
		Tags:        tags,
	}

	if err := s.recipeRepository.CreateRecipeAggregate(ctx, recipe, lines); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.RecipeResponse{}, domain.ErrRecipeNameTaken
		}
		return domain.RecipeResponse{}, err
	}

	created, err := s.recipeRepository.GetRecipeByID(ctx, recipeID.String())
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	return s.toResponse(ctx, created, userID)
}

func (s *recipeService) UpdateRecipe(ctx context.Context, recipeID string, req domain.UpdateRecipeRequest, userID string) (domain.RecipeResponse, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeResponse{}, err
	}

	if recipe.AuthorID == nil || recipe.AuthorID.String() != userID {
		return domain.RecipeResponse{}, domain.ErrNotRecipeAuthor
	}

	if err := validateAggregateShape(req.Tags, req.Ingredients); err != nil {
		return domain.RecipeResponse{}, err
	}

	tags, err := s.resolveTags(ctx, req.Tags)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	lines, err := s.resolveIngredients(ctx, recipe.ID, req.Ingredients)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	if err := validateAggregateValues(req.Ingredients, req.Image, req.CookingTime); err != nil {
		return domain.RecipeResponse{}, err
	}

	taken, err := s.recipeRepository.ExistsByAuthorAndName(ctx, userID, req.Name, recipeID)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	if taken {
		return domain.RecipeResponse{}, domain.ErrRecipeNameTaken
	}

	previousKey := s.s3.GetObjectKeyFromLink(recipe.ImageURL)
	objectKey, err := s.s3.UploadBase64(
		fmt.Sprintf("recipe-%s", recipe.ID.String()),
		req.Image,
		"recipes",
		storage.AllowImage...,
	)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	recipe.Name = req.Name
	recipe.Text = req.Text
	recipe.CookingTime = req.CookingTime
	recipe.ImageURL = s.s3.GetPublicLinkKey(objectKey)
	recipe.Tags = tags
	recipe.Ingredients = nil

	if err := s.recipeRepository.UpdateRecipeAggregate(ctx, recipe, lines); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.RecipeResponse{}, domain.ErrRecipeNameTaken
		}
		return domain.RecipeResponse{}, err
	}

	// the old image goes only once the new aggregate is committed
	if previousKey != "" && previousKey != objectKey {
		_ = s.s3.DeleteFile(previousKey)
	}

	updated, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	return s.toResponse(ctx, updated, userID)
}

func (s *recipeService) GetRecipeByID(ctx context.Context, recipeID string, userID string) (domain.RecipeResponse, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeResponse{}, err
	}

	return s.toResponse(ctx, recipe, userID)
}

func (s *recipeService) GetRecipes(ctx context.Context, filter domain.RecipeFilter) (domain.RecipeListResponse, error) {
	if filter.Limit < 1 {
		filter.Limit = 10
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	recipes, count, err := s.recipeRepository.GetRecipes(ctx, filter)
	if err != nil {
		return domain.RecipeListResponse{}, err
	}

	result := make([]domain.RecipeResponse, 0, len(recipes))
	for _, r := range recipes {
		res, err := s.toResponse(ctx, r, filter.RequestingUserID)
		if err != nil {
			return domain.RecipeListResponse{}, err
		}
		result = append(result, res)
	}

	return domain.RecipeListResponse{
		Recipes: result,
		Pagination: domain.Pagination{
			Limit:  filter.Limit,
			Offset: filter.Offset,
			Total:  count,
		},
	}, nil
}

func (s *recipeService) DeleteRecipe(ctx context.Context, recipeID string, userID string) error {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRecipeNotFound
		}
		return err
	}

	if recipe.AuthorID == nil || recipe.AuthorID.String() != userID {
		return domain.ErrNotRecipeAuthor
	}

	if err := s.recipeRepository.DeleteRecipe(ctx, recipeID); err != nil {
		return err
	}

	if objectKey := s.s3.GetObjectKeyFromLink(recipe.ImageURL); objectKey != "" {
		_ = s.s3.DeleteFile(objectKey)
	}
	return nil
}

func (s *recipeService) GetRecipeShort(ctx context.Context, recipeID string) (domain.ShortRecipeResponse, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ShortRecipeResponse{}, domain.ErrRecipeNotFound
		}
		return domain.ShortRecipeResponse{}, err
	}

	return domain.ShortRecipeResponse{
		ID:          recipe.ID.String(),
		Name:        recipe.Name,
		ImageURL:    recipe.ImageURL,
		CookingTime: recipe.CookingTime,
	}, nil
}

func (s *recipeService) GetRecipeLink(ctx context.Context, recipeID string, host string) (domain.RecipeLinkResponse, error) {
	if _, err := s.recipeRepository.GetRecipeByID(ctx, recipeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeLinkResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeLinkResponse{}, err
	}

	h := fnv.New32a()
	h.Write([]byte(recipeID))
	shortID := h.Sum32() % 1000

	return domain.RecipeLinkResponse{
		ShortLink: fmt.Sprintf("http://%s/s/%d", host, shortID),
	}, nil
}

func (s *recipeService) toResponse(ctx context.Context, recipe *entities.Recipe, userID string) (domain.RecipeResponse, error) {
	tags := make([]domain.TagResponse, 0, len(recipe.Tags))
	for _, t := range recipe.Tags {
		tags = append(tags, domain.TagResponse{
			ID:   t.ID.String(),
			Name: t.Name,
			Slug: t.Slug,
		})
	}

	ingredients := make([]domain.IngredientInRecipeResponse, 0, len(recipe.Ingredients))
	for _, line := range recipe.Ingredients {
		res := domain.IngredientInRecipeResponse{
			ID:     line.IngredientID.String(),
			Amount: line.Amount,
		}
		if line.Ingredient != nil {
			res.Name = line.Ingredient.Name
			res.MeasurementUnit = line.Ingredient.MeasurementUnit
		}
		ingredients = append(ingredients, res)
	}

	var author *domain.UserProfileResponse
	if recipe.Author != nil {
		author = &domain.UserProfileResponse{
			ID:        recipe.Author.ID.String(),
			Email:     recipe.Author.Email,
			Username:  recipe.Author.Username,
			FirstName: recipe.Author.FirstName,
			LastName:  recipe.Author.LastName,
			AvatarURL: recipe.Author.AvatarURL,
		}
		if userID != "" {
			subscribed, err := s.relationRepository.Exists(
				ctx, domain.RelationSubscription, userID, recipe.Author.ID.String())
			if err == nil {
				author.IsSubscribed = subscribed
			}
		}
	}

	isFavorited := false
	isInCart := false
	if userID != "" {
		if ok, err := s.relationRepository.Exists(ctx, domain.RelationFavorite, userID, recipe.ID.String()); err == nil {
			isFavorited = ok
		}
		if ok, err := s.relationRepository.Exists(ctx, domain.RelationCart, userID, recipe.ID.String()); err == nil {
			isInCart = ok
		}
	}

	return domain.RecipeResponse{
		ID:               recipe.ID.String(),
		Author:           author,
		Name:             recipe.Name,
		ImageURL:         recipe.ImageURL,
		Text:             recipe.Text,
		CookingTime:      recipe.CookingTime,
		CreatedAt:        recipe.CreatedAt,
		Tags:             tags,
		Ingredients:      ingredients,
		IsFavorited:      isFavorited,
		IsInShoppingCart: isInCart,
	}, nil
}
