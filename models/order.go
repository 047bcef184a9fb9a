package models

import (
	"encoding/json"
	"time"
)

// Order header statuses
const (
	OrderStatusOpen      = "open"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// Price approval statuses (order header and item level)
const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

// VendorRef is the canonical vendor reference inside an order.
// On the wire a vendor arrives either as a bare id string or as an
// embedded summary object; both shapes decode into this struct.
type VendorRef struct {
	ID   string `gorm:"type:varchar(64);index" json:"id"`
	Name string `gorm:"type:varchar(255)" json:"name"`
}

func (v *VendorRef) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v.ID = s
		v.Name = ""
		return nil
	}

	var obj struct {
		ID          string `json:"id"`
		LegacyID    string `json:"_id"`
		Name        string `json:"name"`
		CompanyName string `json:"company_name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}

	v.ID = obj.ID
	if v.ID == "" {
		v.ID = obj.LegacyID
	}
	v.Name = obj.Name
	if v.Name == "" {
		v.Name = obj.CompanyName
	}
	return nil
}

type Order struct {
	ID                  string      `gorm:"primaryKey;type:varchar(64)" json:"id"`
	OrderNumber         string      `gorm:"type:varchar(64);index" json:"order_number"`
	Vendor              VendorRef   `gorm:"embedded;embeddedPrefix:vendor_" json:"vendor"`
	Status              string      `gorm:"type:varchar(32);not null;default:'open'" json:"status"`
	ConfirmFormDate     *time.Time  `json:"confirm_form_date,omitempty"`
	InvoiceNumber       string      `gorm:"type:varchar(64)" json:"invoice_number"`
	TransferAmount      float64     `gorm:"type:decimal(12,2);not null;default:0.00" json:"transfer_amount"`
	ShippingDates       string      `gorm:"type:text" json:"shipping_dates"`
	Notes               string      `gorm:"type:text" json:"notes"`
	PriceApprovalStatus string      `gorm:"type:varchar(20);not null;default:'pending'" json:"price_approval_status"`
	OrderDate           *time.Time  `json:"order_date,omitempty"`
	CreatedAt           time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt           time.Time   `gorm:"not null" json:"updated_at"`
	Items               []OrderItem `gorm:"foreignKey:OrderID;references:id;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"items"`
}

// ValidOrderID reports whether id can identify an order. Feeds from the
// legacy frontend occasionally carry the literal strings "undefined" or
// "null"; rows like that are dropped before display.
func ValidOrderID(id string) bool {
	return id != "" && id != "undefined" && id != "null"
}

// EffectiveDate is the date used for range filtering: the order date when
// present, otherwise the creation timestamp.
func (o *Order) EffectiveDate() time.Time {
	if o.OrderDate != nil {
		return *o.OrderDate
	}
	return o.CreatedAt
}

// Clone returns a deep copy, so snapshot readers can never reach back into
// the authoritative collection.
func (o *Order) Clone() Order {
	cp := *o
	if o.ConfirmFormDate != nil {
		d := *o.ConfirmFormDate
		cp.ConfirmFormDate = &d
	}
	if o.OrderDate != nil {
		d := *o.OrderDate
		cp.OrderDate = &d
	}
	cp.Items = make([]OrderItem, len(o.Items))
	copy(cp.Items, o.Items)
	return cp
}
