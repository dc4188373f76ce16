package cart

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormStore persists cart lines in a local sqlite database so the cart
// survives process restarts.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens (or creates) the sqlite file at path and migrates
// the cart table.
func NewGormStore(path string) (*GormStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open cart store at %s: %w", path, err)
	}
	if err := db.AutoMigrate(&Line{}); err != nil {
		return nil, fmt.Errorf("failed to migrate cart store: %w", err)
	}
	return &GormStore{db: db}, nil
}

// Load restores all persisted cart lines.
func (s *GormStore) Load() ([]Line, error) {
	var lines []Line
	if err := s.db.Find(&lines).Error; err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return lines, nil
}

// Save replaces the persisted lines with the given set.
func (s *GormStore) Save(lines []Line) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&Line{}).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return nil
		}
		return tx.Create(&lines).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}
