package models

import "time"

type Product struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	VendorID    string    `gorm:"type:varchar(64);index" json:"vendor_id"`
	Vendor      *Vendor   `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	SKU         string    `gorm:"type:varchar(64);uniqueIndex" json:"sku"`
	UnitPrice   float64   `gorm:"type:decimal(12,2);not null;default:0.00" json:"unit_price"`
	Stock       int       `gorm:"not null;default:0" json:"stock"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
