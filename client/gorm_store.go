package client

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/orderdesk-app/models"
)

// GormStore is the database-backed OrderAPI the service runs against.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

// Header field name -> column. Names line up with the JSON field names
// used by the edit form.
var headerColumns = map[string]string{
	"status":                "status",
	"confirm_form_date":     "confirm_form_date",
	"invoice_number":        "invoice_number",
	"transfer_amount":       "transfer_amount",
	"shipping_dates":        "shipping_dates",
	"notes":                 "notes",
	"price_approval_status": "price_approval_status",
}

// Item field name -> column. The approval pair is prefixed on the wire to
// keep it apart from the header approval status.
var itemColumns = map[string]string{
	"item_number":                          "item_number",
	"quantity":                             "quantity",
	"unit_price":                           "unit_price",
	"total_price":                          "total_price",
	"item_price_approval_status":           "price_approval_status",
	"item_price_approval_rejection_reason": "price_approval_rejection_reason",
	"status":                               "status",
}

func (s *GormStore) ListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := s.DB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("item_index asc")
		}).
		Order("created_at desc").
		Find(&orders).Error
	if err != nil {
		return nil, &TransientError{Err: err}
	}
	return orders, nil
}

func (s *GormStore) CreateOrder(ctx context.Context, order models.Order) (*models.Order, error) {
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	var total float64
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
		order.Items[i].ItemIndex = i
		order.Items[i].CreatedAt = now
		order.Items[i].UpdatedAt = now
		if order.Items[i].TotalPrice == 0 {
			order.Items[i].TotalPrice = float64(order.Items[i].Quantity) * order.Items[i].UnitPrice
		}
		total += order.Items[i].TotalPrice
	}
	if order.TransferAmount == 0 {
		order.TransferAmount = total
	}

	if err := s.DB.WithContext(ctx).Create(&order).Error; err != nil {
		return nil, &TransientError{Err: err}
	}
	return s.reload(ctx, order.ID)
}

func (s *GormStore) UpdateOrder(ctx context.Context, id string, fields map[string]interface{}) (*models.Order, error) {
	updates := make(map[string]interface{}, len(fields)+1)
	for name, value := range fields {
		col, ok := headerColumns[name]
		if !ok {
			return nil, errors.New("unknown order field: " + name)
		}
		updates[col] = value
	}
	updates["updated_at"] = time.Now()

	res := s.DB.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, &TransientError{Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return nil, &TransientError{Err: gorm.ErrRecordNotFound}
	}
	return s.reload(ctx, id)
}

func (s *GormStore) UpdateOrderItem(ctx context.Context, id string, itemIndex int, fields map[string]interface{}) (*models.Order, error) {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.OrderItem
		if err := tx.Where("order_id = ? AND item_index = ?", id, itemIndex).First(&item).Error; err != nil {
			return err
		}

		updates := make(map[string]interface{}, len(fields)+1)
		for name, value := range fields {
			col, ok := itemColumns[name]
			if !ok {
				return errors.New("unknown item field: " + name)
			}
			updates[col] = value
		}
		updates["updated_at"] = time.Now()

		if err := tx.Model(&item).Updates(updates).Error; err != nil {
			return err
		}

		// The store owns the derived total: recompute unless one was
		// supplied explicitly.
		_, qtyChanged := fields["quantity"]
		_, priceChanged := fields["unit_price"]
		_, totalSupplied := fields["total_price"]
		if (qtyChanged || priceChanged) && !totalSupplied {
			if err := tx.Where("order_id = ? AND item_index = ?", id, itemIndex).First(&item).Error; err != nil {
				return err
			}
			derived := float64(item.Quantity) * item.UnitPrice
			if err := tx.Model(&item).Update("total_price", derived).Error; err != nil {
				return err
			}
		}

		return tx.Model(&models.Order{}).Where("id = ?", id).Update("updated_at", time.Now()).Error
	})
	if err != nil {
		return nil, &TransientError{Err: err}
	}
	return s.reload(ctx, id)
}

func (s *GormStore) DeleteOrder(ctx context.Context, id string) (bool, error) {
	res := s.DB.WithContext(ctx).Where("order_id = ?", id).Delete(&models.OrderItem{})
	if res.Error != nil {
		return false, &TransientError{Err: res.Error}
	}
	res = s.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Order{})
	if res.Error != nil {
		return false, &TransientError{Err: res.Error}
	}
	return res.RowsAffected > 0, nil
}

func (s *GormStore) reload(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := s.DB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("item_index asc")
		}).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, &TransientError{Err: err}
	}
	return &order, nil
}
