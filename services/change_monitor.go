package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/orderdesk-app/models"
	"github.com/yeremiapane/orderdesk-app/realtime"
	"github.com/yeremiapane/orderdesk-app/utils"
)

// ChangeMonitor polls the db_changes feed filled by the SQL triggers and
// turns unprocessed rows into push events. Changes written by other
// instances or by out-of-band tools surface through here.
type ChangeMonitor struct {
	DB       *gorm.DB
	Hub      *realtime.Hub
	StopChan chan struct{}
	Interval time.Duration
}

func NewChangeMonitor(db *gorm.DB, hub *realtime.Hub) *ChangeMonitor {
	return &ChangeMonitor{
		DB:       db,
		Hub:      hub,
		StopChan: make(chan struct{}),
		Interval: 1 * time.Second,
	}
}

func (cm *ChangeMonitor) Start() {
	go func() {
		ticker := time.NewTicker(cm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				cm.checkChanges()
			case <-cm.StopChan:
				return
			}
		}
	}()
}

func (cm *ChangeMonitor) Stop() {
	close(cm.StopChan)
}

func (cm *ChangeMonitor) checkChanges() {
	var changes []models.DBChange

	tx := cm.DB.Begin()

	if err := tx.Where("processed = ?", false).
		Order("changed_at ASC").
		Limit(100).
		Find(&changes).Error; err != nil {
		tx.Rollback()
		if utils.ErrorLogger != nil {
			utils.ErrorLogger.Printf("Error fetching changes: %v", err)
		}
		return
	}

	for _, change := range changes {
		switch change.TableName {
		case "orders":
			cm.processOrderChange(change)
		case "vendors":
			cm.processVendorChange(change)
		case "products":
			cm.processProductChange(change)
		}

		if err := tx.Model(&models.DBChange{}).
			Where("id = ?", change.ID).
			Update("processed", true).Error; err != nil {
			tx.Rollback()
			if utils.ErrorLogger != nil {
				utils.ErrorLogger.Printf("Error marking change as processed: %v", err)
			}
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		if utils.ErrorLogger != nil {
			utils.ErrorLogger.Printf("Error committing change batch: %v", err)
		}
		tx.Rollback()
	}
}

func (cm *ChangeMonitor) processOrderChange(change models.DBChange) {
	if change.ActionType == "DELETE" {
		cm.Hub.Broadcast(realtime.TopicOrdersDeleted, map[string]string{"id": change.RecordID})
		return
	}

	var order models.Order
	err := cm.DB.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("item_index asc")
	}).Where("id = ?", change.RecordID).First(&order).Error
	if err != nil {
		if utils.ErrorLogger != nil {
			utils.ErrorLogger.Printf("Error fetching changed order %s: %v", change.RecordID, err)
		}
		return
	}

	switch change.ActionType {
	case "INSERT":
		cm.Hub.Broadcast(realtime.TopicOrdersCreated, order)
	case "UPDATE":
		cm.Hub.Broadcast(realtime.TopicOrdersUpdated, order)
	}
}

func (cm *ChangeMonitor) processVendorChange(change models.DBChange) {
	if change.ActionType == "DELETE" {
		cm.Hub.Broadcast(realtime.TopicVendorsUpdated, map[string]string{"id": change.RecordID, "deleted": "true"})
		return
	}

	var vendor models.Vendor
	if err := cm.DB.Where("id = ?", change.RecordID).First(&vendor).Error; err != nil {
		return
	}
	cm.Hub.Broadcast(realtime.TopicVendorsUpdated, vendor)
}

func (cm *ChangeMonitor) processProductChange(change models.DBChange) {
	if change.ActionType == "DELETE" {
		cm.Hub.Broadcast(realtime.TopicProductsUpdated, map[string]string{"id": change.RecordID, "deleted": "true"})
		return
	}

	var product models.Product
	if err := cm.DB.Where("id = ?", change.RecordID).First(&product).Error; err != nil {
		return
	}
	cm.Hub.Broadcast(realtime.TopicProductsUpdated, product)
}
