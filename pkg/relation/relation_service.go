package relation

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"recipebook-backend/domain"
)

type (
	// RelationService implements the shared add/remove contract of the
	// favorite, cart and subscription toggles. Target existence is the
	// caller's concern; this service assumes the target row exists.
	RelationService interface {
		Add(ctx context.Context, kind domain.RelationKind, userID, targetID string) error
		Remove(ctx context.Context, kind domain.RelationKind, userID, targetID string) error
	}

	relationService struct {
		relationRepository RelationRepository
	}
)

func NewRelationService(relationRepository RelationRepository) RelationService {
	return &relationService{relationRepository: relationRepository}
}

func (s *relationService) Add(ctx context.Context, kind domain.RelationKind, userID, targetID string) error {
	if kind == domain.RelationSubscription && userID == targetID {
		return domain.ErrSelfSubscription
	}

	exists, err := s.relationRepository.Exists(ctx, kind, userID, targetID)
	if err != nil {
		return err
	}
	if exists {
		return domain.ErrAlreadyExists
	}

	if err := s.relationRepository.Create(ctx, kind, userID, targetID); err != nil {
		// Two concurrent adds can both pass the exists check; the
		// unique index decides the loser, which is reported the same
		// way as the sequential duplicate.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (s *relationService) Remove(ctx context.Context, kind domain.RelationKind, userID, targetID string) error {
	deleted, err := s.relationRepository.Delete(ctx, kind, userID, targetID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return domain.ErrNotRelated
	}
	return nil
}
