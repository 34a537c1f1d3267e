package domain

import (
	"errors"
)

var (
	MessageSuccessGetShoppingList = "success get shopping list"
	MessageFailedGetShoppingList  = "failed to get shopping list"

	ErrShoppingListEmpty = errors.New("shopping cart is empty")
)

// ShoppingListItem is one aggregated line of a user's shopping list:
// the same ingredient across several cart recipes collapses into one
// entry with its amounts summed.
type ShoppingListItem struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}
