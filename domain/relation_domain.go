package domain

import (
	"errors"
)

// RelationKind tags the three user-to-entity toggle relations that
// share one add/remove contract.
type RelationKind string

const (
	RelationFavorite     RelationKind = "favorite"
	RelationCart         RelationKind = "cart"
	RelationSubscription RelationKind = "subscription"
)

var (
	MessageSuccessAddFavorite    = "recipe added to favorites"
	MessageSuccessRemoveFavorite = "recipe removed from favorites"
	MessageSuccessAddToCart      = "recipe added to shopping cart"
	MessageSuccessRemoveFromCart = "recipe removed from shopping cart"
	MessageSuccessSubscribe      = "subscribed successfully"
	MessageSuccessUnsubscribe    = "unsubscribed successfully"

	MessageFailedAddFavorite    = "failed to add recipe to favorites"
	MessageFailedRemoveFavorite = "failed to remove recipe from favorites"
	MessageFailedAddToCart      = "failed to add recipe to shopping cart"
	MessageFailedRemoveFromCart = "failed to remove recipe from shopping cart"
	MessageFailedSubscribe      = "failed to subscribe"
	MessageFailedUnsubscribe    = "failed to unsubscribe"

	ErrAlreadyExists    = errors.New("relation already exists")
	ErrNotRelated       = errors.New("relation does not exist")
	ErrSelfSubscription = errors.New("cannot subscribe to yourself")
	ErrUnknownRelation  = errors.New("unknown relation kind")
)
