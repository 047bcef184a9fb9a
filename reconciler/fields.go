package reconciler

import (
	"time"

	"github.com/yeremiapane/orderdesk-app/models"
)

// Editable order header fields, keyed by their JSON names.
var headerFields = map[string]bool{
	"status":                true,
	"confirm_form_date":     true,
	"invoice_number":        true,
	"transfer_amount":       true,
	"shipping_dates":        true,
	"notes":                 true,
	"price_approval_status": true,
}

// Editable item fields. "status" is deliberately present in both sets; the
// edit shape is decided by the target, not by the field name.
var itemFields = map[string]bool{
	"item_number":                          true,
	"quantity":                             true,
	"unit_price":                           true,
	"total_price":                          true,
	"item_price_approval_status":           true,
	"item_price_approval_rejection_reason": true,
	"status":                               true,
}

func IsHeaderField(name string) bool { return headerFields[name] }
func IsItemField(name string) bool   { return itemFields[name] }

// coercions for values coming out of encoding/json

func toString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}

func toInt(v interface{}) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

func toTimePtr(v interface{}) *time.Time {
	switch t := v.(type) {
	case *time.Time:
		return t
	case time.Time:
		return &t
	case string:
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return &parsed
		}
	}
	return nil
}

// applyHeaderFields sets the given header fields on the order and returns
// the previous values for rollback. Field names must already be validated.
func applyHeaderFields(o *models.Order, fields map[string]interface{}) map[string]interface{} {
	prev := make(map[string]interface{}, len(fields))
	for name, value := range fields {
		switch name {
		case "status":
			prev[name] = o.Status
			o.Status = toString(value)
		case "confirm_form_date":
			prev[name] = o.ConfirmFormDate
			o.ConfirmFormDate = toTimePtr(value)
		case "invoice_number":
			prev[name] = o.InvoiceNumber
			o.InvoiceNumber = toString(value)
		case "transfer_amount":
			prev[name] = o.TransferAmount
			o.TransferAmount = toFloat(value)
		case "shipping_dates":
			prev[name] = o.ShippingDates
			o.ShippingDates = toString(value)
		case "notes":
			prev[name] = o.Notes
			o.Notes = toString(value)
		case "price_approval_status":
			prev[name] = o.PriceApprovalStatus
			o.PriceApprovalStatus = toString(value)
		}
	}
	return prev
}

// applyItemFields sets the given item fields and returns previous values.
// When quantity or unit price change without an explicit total, the local
// total is re-derived; the server remains authoritative on confirmation.
func applyItemFields(it *models.OrderItem, fields map[string]interface{}) map[string]interface{} {
	prev := make(map[string]interface{}, len(fields))
	for name, value := range fields {
		switch name {
		case "item_number":
			prev[name] = it.ItemNumber
			it.ItemNumber = toString(value)
		case "quantity":
			prev[name] = it.Quantity
			it.Quantity = toInt(value)
		case "unit_price":
			prev[name] = it.UnitPrice
			it.UnitPrice = toFloat(value)
		case "total_price":
			prev[name] = it.TotalPrice
			it.TotalPrice = toFloat(value)
		case "item_price_approval_status":
			prev[name] = it.PriceApprovalStatus
			it.PriceApprovalStatus = toString(value)
		case "item_price_approval_rejection_reason":
			prev[name] = it.PriceApprovalRejectionReason
			it.PriceApprovalRejectionReason = toString(value)
		case "status":
			prev[name] = it.Status
			it.Status = toString(value)
		}
	}

	_, qtyChanged := fields["quantity"]
	_, priceChanged := fields["unit_price"]
	_, totalSupplied := fields["total_price"]
	if (qtyChanged || priceChanged) && !totalSupplied {
		prev["total_price"] = it.TotalPrice
		it.TotalPrice = float64(it.Quantity) * it.UnitPrice
	}

	return prev
}
