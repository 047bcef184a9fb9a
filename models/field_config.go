package models

import "time"

// Field audience values for FieldConfig.EditableBy / VisibleTo.
const (
	FieldAudienceAdmin  = "admin"
	FieldAudienceVendor = "vendor"
	FieldAudienceBoth   = "both"
)

// FieldConfig is one per-field rule: who may edit it, who may see it, and
// where it sits in the dynamic edit form. Position order is display order.
type FieldConfig struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	Name       string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"name"`
	Label      string    `gorm:"type:varchar(128)" json:"label"`
	EditableBy string    `gorm:"type:varchar(10);not null;default:'admin'" json:"editable_by"`
	VisibleTo  string    `gorm:"type:varchar(10);not null;default:'both'" json:"visible_to"`
	Required   bool      `gorm:"default:false" json:"required"`
	Type       string    `gorm:"type:varchar(20);not null;default:'text'" json:"type"`
	Position   int       `gorm:"not null;default:0" json:"position"`
	CreatedAt  time.Time `json:"-"`
	UpdatedAt  time.Time `json:"-"`
}
