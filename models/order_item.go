package models

import (
	"time"
)

// OrderItem is one line within an order. Items have no identity outside
// their parent order; they are addressed by (order id, item index).
type OrderItem struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	OrderID   string `gorm:"type:varchar(64);not null;index" json:"order_id"`
	ItemIndex int    `gorm:"not null" json:"item_index"`
	// Omitting Order field from JSON to avoid recursive nesting
	Order                        *Order   `gorm:"foreignKey:OrderID;references:id;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	ItemNumber                   string   `gorm:"type:varchar(64)" json:"item_number"`
	ProductID                    *uint    `json:"product_id,omitempty"`
	Product                      *Product `gorm:"foreignKey:ProductID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"product,omitempty"`
	Quantity                     int      `gorm:"not null" json:"quantity"`
	UnitPrice                    float64  `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	TotalPrice                   float64  `gorm:"type:decimal(12,2)" json:"total_price"`
	PriceApprovalStatus          string   `gorm:"type:varchar(20);not null;default:'pending'" json:"item_price_approval_status"`
	PriceApprovalRejectionReason string   `gorm:"type:text" json:"item_price_approval_rejection_reason,omitempty"`
	Status                       string   `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt                    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt                    time.Time `gorm:"not null" json:"updated_at"`
}

// Total returns the line total: the supplied total price when the backend
// set one, otherwise quantity times unit price.
func (it *OrderItem) Total() float64 {
	if it.TotalPrice != 0 {
		return it.TotalPrice
	}
	return float64(it.Quantity) * it.UnitPrice
}
