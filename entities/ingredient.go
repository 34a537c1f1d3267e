package entities

import (
	"github.com/google/uuid"
)

// Ingredient is immutable reference data seeded by CSV import.
// The same name may exist with different measurement units.
type Ingredient struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name            string    `gorm:"uniqueIndex:idx_name_unit" json:"name"`
	MeasurementUnit string    `gorm:"uniqueIndex:idx_name_unit" json:"measurement_unit"`

	Timestamp
}
