package seed

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"recipebook-backend/entities"
)

// Seed loads reference data from CSV files into the catalog tables.
// Existing rows are left untouched so the command can be re-run.
func Seed(db *gorm.DB, dataDir string) {
	if err := seedIngredients(db, dataDir+"/ingredients.csv"); err != nil {
		log.Fatalf("failed to seed ingredients: %v", err)
	}
	if err := seedTags(db, dataDir+"/tags.csv"); err != nil {
		log.Fatalf("failed to seed tags: %v", err)
	}
}

func seedIngredients(db *gorm.DB, path string) error {
	rows, err := readCSV(path)
	if err != nil {
		return err
	}
	for _, row := range rows {
		if len(row) != 2 {
			return fmt.Errorf("expected 2 columns in %s, got %d", path, len(row))
		}
		ingredient := entities.Ingredient{
			ID:              uuid.New(),
			Name:            row[0],
			MeasurementUnit: row[1],
		}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&ingredient).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedTags(db *gorm.DB, path string) error {
	rows, err := readCSV(path)
	if err != nil {
		return err
	}
	for _, row := range rows {
		if len(row) != 2 {
			return fmt.Errorf("expected 2 columns in %s, got %d", path, len(row))
		}
		tag := entities.Tag{
			ID:   uuid.New(),
			Name: row[0],
			Slug: row[1],
		}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&tag).Error; err != nil {
			return err
		}
	}
	return nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return csv.NewReader(file).ReadAll()
}
