package client

import (
	"context"
	"errors"

	"github.com/yeremiapane/orderdesk-app/models"
)

// TransientError marks a store failure the caller may retry. The core
// never retries on its own; it rolls back the optimistic state and leaves
// the retry decision to the UI layer.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return "transient store error: " + e.Err.Error()
}

func (e *TransientError) Unwrap() error { return e.Err }

func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// OrderAPI is the backend collaborator contract the reconciliation layer
// runs against. UpdateOrder and UpdateOrderItem return the updated entity
// when the store produced one, or nil for a bare acknowledgement.
type OrderAPI interface {
	ListOrders(ctx context.Context) ([]models.Order, error)
	CreateOrder(ctx context.Context, order models.Order) (*models.Order, error)
	UpdateOrder(ctx context.Context, id string, fields map[string]interface{}) (*models.Order, error)
	UpdateOrderItem(ctx context.Context, id string, itemIndex int, fields map[string]interface{}) (*models.Order, error)
	DeleteOrder(ctx context.Context, id string) (bool, error)
}
