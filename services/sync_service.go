package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yeremiapane/orderdesk-app/client"
	"github.com/yeremiapane/orderdesk-app/models"
	"github.com/yeremiapane/orderdesk-app/permissions"
	"github.com/yeremiapane/orderdesk-app/realtime"
	"github.com/yeremiapane/orderdesk-app/reconciler"
	"github.com/yeremiapane/orderdesk-app/utils"
)

var (
	ErrRejectionReasonRequired = errors.New("a rejection reason is required when rejecting an item price")
	ErrNegativeValue           = errors.New("quantity and amount fields must not be negative")
)

const storeCallTimeout = 15 * time.Second

// SyncService is the edit entry point of the dashboard. Every edit goes
// permission check -> shape check -> optimistic apply -> async store call
// -> confirm or rollback. The optimistic apply happens synchronously, so
// the caller's next snapshot already shows the edit.
type SyncService struct {
	Rec   *reconciler.Reconciler
	API   client.OrderAPI
	Perms *permissions.Model
	Hub   *realtime.Hub
}

func NewSyncService(rec *reconciler.Reconciler, api client.OrderAPI, perms *permissions.Model, hub *realtime.Hub) *SyncService {
	return &SyncService{Rec: rec, API: api, Perms: perms, Hub: hub}
}

// SubmitHeaderEdit applies an optimistic edit to an order header and
// dispatches the store call for it.
func (s *SyncService) SubmitHeaderEdit(role, orderID string, fields map[string]interface{}) error {
	for name := range fields {
		if !reconciler.IsHeaderField(name) {
			return reconciler.ErrInvalidEditShape
		}
	}
	if err := s.checkPermissions(role, fields); err != nil {
		return err
	}
	if err := checkNonNegative(fields, "transfer_amount"); err != nil {
		return err
	}

	target := reconciler.HeaderTarget(orderID)
	version, err := s.Rec.ApplyLocalEdit(target, fields)
	if err != nil {
		return err
	}

	go s.dispatch(target, version, func(ctx context.Context) (*models.Order, error) {
		return s.API.UpdateOrder(ctx, orderID, fields)
	})
	return nil
}

// SubmitItemEdit applies an optimistic edit to a single item. The delta is
// sent through the item path of the store; routing it through the
// whole-order path would be a caller error.
func (s *SyncService) SubmitItemEdit(role, orderID string, itemIndex int, fields map[string]interface{}) error {
	for name := range fields {
		if !reconciler.IsItemField(name) {
			return reconciler.ErrInvalidEditShape
		}
	}
	if err := s.checkPermissions(role, fields); err != nil {
		return err
	}
	if err := checkNonNegative(fields, "quantity", "unit_price", "total_price"); err != nil {
		return err
	}

	if status, ok := fields["item_price_approval_status"]; ok && status == models.ApprovalRejected {
		if reason, _ := fields["item_price_approval_rejection_reason"].(string); reason == "" {
			return ErrRejectionReasonRequired
		}
	}

	target := reconciler.ItemTarget(orderID, itemIndex)
	version, err := s.Rec.ApplyLocalEdit(target, fields)
	if err != nil {
		return err
	}

	go s.dispatch(target, version, func(ctx context.Context) (*models.Order, error) {
		return s.API.UpdateOrderItem(ctx, orderID, itemIndex, fields)
	})
	return nil
}

// checkNonNegative rejects an edit carrying a negative value in any of the
// named numeric fields. Creation already enforces this; edits must not be a
// side door to negative quantities or amounts.
func checkNonNegative(fields map[string]interface{}, names ...string) error {
	for _, name := range names {
		v, ok := fields[name]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			if n < 0 {
				return fmt.Errorf("%w: %s", ErrNegativeValue, name)
			}
		case float32:
			if n < 0 {
				return fmt.Errorf("%w: %s", ErrNegativeValue, name)
			}
		case int:
			if n < 0 {
				return fmt.Errorf("%w: %s", ErrNegativeValue, name)
			}
		case int64:
			if n < 0 {
				return fmt.Errorf("%w: %s", ErrNegativeValue, name)
			}
		}
	}
	return nil
}

// checkPermissions rejects the whole edit before any mutation when one of
// its fields is not editable by the role.
func (s *SyncService) checkPermissions(role string, fields map[string]interface{}) error {
	for name := range fields {
		if !s.Perms.CanEdit(name, role) {
			return fmt.Errorf("%w: %s", permissions.ErrPermissionDenied, name)
		}
	}
	return nil
}

// dispatch runs the store call and resolves the target. A result arriving
// after a newer edit superseded this version is discarded inside the
// reconciler; a failure rolls back and surfaces a retryable notification.
func (s *SyncService) dispatch(target reconciler.Target, version int64, call func(ctx context.Context) (*models.Order, error)) {
	ctx, cancel := context.WithTimeout(context.Background(), storeCallTimeout)
	defer cancel()

	result, err := call(ctx)
	if err != nil {
		s.Rec.Fail(target, version)
		if utils.ErrorLogger != nil {
			utils.ErrorLogger.Printf("Edit on order %s failed, rolled back: %v", target.OrderID, err)
		}
		if s.Hub != nil {
			s.Hub.Broadcast(realtime.TopicNotifications, map[string]interface{}{
				"order_id":  target.OrderID,
				"message":   "saving the edit failed, please retry",
				"retryable": client.IsTransient(err),
			})
		}
		return
	}

	s.Rec.Confirm(target, version, result)
	if s.Hub != nil && result != nil {
		s.Hub.Broadcast(realtime.TopicOrdersUpdated, result)
	}
}
