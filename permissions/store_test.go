package permissions

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeremiapane/orderdesk-app/models"
	"github.com/yeremiapane/orderdesk-app/utils"
)

var storeTestSeq int

func setupStoreDB(t *testing.T) *gorm.DB {
	t.Helper()
	utils.InitLogger()

	storeTestSeq++
	dsn := fmt.Sprintf("file:fieldconfig%d?mode=memory&cache=shared", storeTestSeq)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&models.FieldConfig{}))
	return db
}

func TestLoadFallsBackToDefaultsOnEmptyTable(t *testing.T) {
	s := NewStore(setupStoreDB(t))

	fields := s.LoadFieldConfig()
	assert.Equal(t, DefaultFieldConfigs(), fields)
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	s := NewStore(setupStoreDB(t))

	custom := []models.FieldConfig{
		{Name: "quantity", Label: "Qty", EditableBy: models.FieldAudienceAdmin, VisibleTo: models.FieldAudienceBoth, Type: "number", Position: 1},
		{Name: "notes", Label: "Notes", EditableBy: models.FieldAudienceBoth, VisibleTo: models.FieldAudienceBoth, Type: "textarea", Position: 2},
	}
	assert.NoError(t, s.SaveFieldConfig(custom))

	loaded := s.LoadFieldConfig()
	assert.Len(t, loaded, 2)
	assert.Equal(t, "quantity", loaded[0].Name)
	assert.Equal(t, models.FieldAudienceAdmin, loaded[0].EditableBy)
	assert.Equal(t, "notes", loaded[1].Name)
}

func TestSaveRejectsInvalidMapping(t *testing.T) {
	s := NewStore(setupStoreDB(t))

	seed := DefaultFieldConfigs()
	assert.NoError(t, s.SaveFieldConfig(seed))

	err := s.SaveFieldConfig([]models.FieldConfig{
		{Name: "", EditableBy: models.FieldAudienceBoth, VisibleTo: models.FieldAudienceBoth},
	})
	assert.Error(t, err)

	// the persisted mapping is untouched
	loaded := s.LoadFieldConfig()
	assert.Len(t, loaded, len(seed))
}

func TestResetFieldConfig(t *testing.T) {
	s := NewStore(setupStoreDB(t))

	custom := []models.FieldConfig{
		{Name: "quantity", EditableBy: models.FieldAudienceAdmin, VisibleTo: models.FieldAudienceBoth, Position: 1},
	}
	assert.NoError(t, s.SaveFieldConfig(custom))

	restored, err := s.ResetFieldConfig()
	assert.NoError(t, err)
	assert.Len(t, restored, len(DefaultFieldConfigs()))

	loaded := s.LoadFieldConfig()
	assert.Len(t, loaded, len(DefaultFieldConfigs()))
}
