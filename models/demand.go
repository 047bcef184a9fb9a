package models

import "time"

// Demand is a client request for products that has not been turned into an
// order yet.
type Demand struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	User        *User     `gorm:"foreignKey:UserID" json:"-"`
	ProductID   *uint     `json:"product_id,omitempty"`
	Product     *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	Description string    `gorm:"type:text" json:"description"`
	Status      string    `gorm:"type:varchar(20);not null;default:'open'" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
