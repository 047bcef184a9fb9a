package permissions

import (
	"sync"

	"gorm.io/gorm"

	"github.com/yeremiapane/orderdesk-app/models"
	"github.com/yeremiapane/orderdesk-app/utils"
)

// Store persists the field-permission mapping. On load failure it falls
// back to the last copy it saw, then to the built-in defaults, so the
// dashboard never starts without a usable mapping.
type Store struct {
	DB    *gorm.DB
	mu    sync.Mutex
	cache []models.FieldConfig
}

func NewStore(db *gorm.DB) *Store {
	return &Store{DB: db}
}

func (s *Store) LoadFieldConfig() []models.FieldConfig {
	var fields []models.FieldConfig
	err := s.DB.Order("position asc").Find(&fields).Error
	if err == nil && len(fields) > 0 {
		s.mu.Lock()
		s.cache = fields
		s.mu.Unlock()
		return fields
	}

	if err != nil && utils.ErrorLogger != nil {
		utils.ErrorLogger.Printf("Error loading field config: %v", err)
	}

	s.mu.Lock()
	cached := s.cache
	s.mu.Unlock()
	if len(cached) > 0 {
		return cached
	}
	return DefaultFieldConfigs()
}

// SaveFieldConfig replaces the persisted mapping in one transaction; a
// failed save leaves the previous mapping in place.
func (s *Store) SaveFieldConfig(fields []models.FieldConfig) error {
	if err := validate(fields); err != nil {
		return err
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.FieldConfig{}).Error; err != nil {
			return err
		}
		for i := range fields {
			fields[i].ID = 0
			if err := tx.Create(&fields[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.cache = fields
	s.mu.Unlock()
	return nil
}

func (s *Store) ResetFieldConfig() ([]models.FieldConfig, error) {
	defaults := DefaultFieldConfigs()
	if err := s.SaveFieldConfig(defaults); err != nil {
		return nil, err
	}
	return defaults, nil
}
