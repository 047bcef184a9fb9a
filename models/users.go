package models

import "time"

// Roles known to the dashboard. Admin is a superset role: it passes every
// permission check regardless of field configuration.
const (
	RoleAdmin  = "admin"
	RoleVendor = "vendor"
	RoleClient = "client"
)

type User struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"type:varchar(255); not null"`
	Email     string `gorm:"type:varchar(255); unique;not null"`
	Password  string `gorm:"type:varchar(255); not null"`
	Role      string `gorm:"type:varchar(255); not null"`
	VendorID  string `gorm:"type:varchar(64);index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
