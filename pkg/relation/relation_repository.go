package relation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"recipebook-backend/domain"
	"recipebook-backend/entities"
)

type (
	// RelationRepository persists the three (user, target) toggle
	// relations behind one interface, keyed by relation kind.
	RelationRepository interface {
		Exists(ctx context.Context, kind domain.RelationKind, userID, targetID string) (bool, error)
		Create(ctx context.Context, kind domain.RelationKind, userID, targetID string) error
		Delete(ctx context.Context, kind domain.RelationKind, userID, targetID string) (int64, error)
	}

	relationRepository struct {
		db *gorm.DB
	}
)

func NewRelationRepository(db *gorm.DB) RelationRepository {
	return &relationRepository{db: db}
}

// model returns an empty entity of the kind's backing table together
// with the name of its target column.
func model(kind domain.RelationKind) (interface{}, string, error) {
	switch kind {
	case domain.RelationFavorite:
		return &entities.Favorite{}, "recipe_id", nil
	case domain.RelationCart:
		return &entities.CartItem{}, "recipe_id", nil
	case domain.RelationSubscription:
		return &entities.Subscription{}, "author_id", nil
	default:
		return nil, "", domain.ErrUnknownRelation
	}
}

func (r *relationRepository) Exists(ctx context.Context, kind domain.RelationKind, userID, targetID string) (bool, error) {
	entity, targetColumn, err := model(kind)
	if err != nil {
		return false, err
	}

	var count int64
	if err := r.db.WithContext(ctx).
		Model(entity).
		Where("user_id = ? AND "+targetColumn+" = ?", userID, targetID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *relationRepository) Create(ctx context.Context, kind domain.RelationKind, userID, targetID string) error {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.ErrParseUUID
	}
	targetUUID, err := uuid.Parse(targetID)
	if err != nil {
		return domain.ErrParseUUID
	}

	now := time.Now()
	switch kind {
	case domain.RelationFavorite:
		return r.db.WithContext(ctx).Create(&entities.Favorite{
			ID:        uuid.New(),
			UserID:    userUUID,
			RecipeID:  targetUUID,
			CreatedAt: now,
		}).Error
	case domain.RelationCart:
		return r.db.WithContext(ctx).Create(&entities.CartItem{
			ID:        uuid.New(),
			UserID:    userUUID,
			RecipeID:  targetUUID,
			CreatedAt: now,
		}).Error
	case domain.RelationSubscription:
		return r.db.WithContext(ctx).Create(&entities.Subscription{
			ID:        uuid.New(),
			UserID:    userUUID,
			AuthorID:  targetUUID,
			CreatedAt: now,
		}).Error
	default:
		return domain.ErrUnknownRelation
	}
}

func (r *relationRepository) Delete(ctx context.Context, kind domain.RelationKind, userID, targetID string) (int64, error) {
	entity, targetColumn, err := model(kind)
	if err != nil {
		return 0, err
	}

	result := r.db.WithContext(ctx).
		Where("user_id = ? AND "+targetColumn+" = ?", userID, targetID).
		Delete(entity)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
