package permissions

import "github.com/yeremiapane/orderdesk-app/models"

// DefaultFieldConfigs is the built-in mapping the dashboard ships with.
// Admins may override it in bulk; Reset restores exactly this list.
func DefaultFieldConfigs() []models.FieldConfig {
	return []models.FieldConfig{
		{Name: "status", Label: "Status", EditableBy: models.FieldAudienceAdmin, VisibleTo: models.FieldAudienceBoth, Required: true, Type: "select", Position: 1},
		{Name: "confirm_form_date", Label: "Confirm Form Date", EditableBy: models.FieldAudienceVendor, VisibleTo: models.FieldAudienceBoth, Type: "date", Position: 2},
		{Name: "invoice_number", Label: "Invoice Number", EditableBy: models.FieldAudienceVendor, VisibleTo: models.FieldAudienceBoth, Type: "text", Position: 3},
		{Name: "transfer_amount", Label: "Transfer Amount", EditableBy: models.FieldAudienceAdmin, VisibleTo: models.FieldAudienceBoth, Type: "number", Position: 4},
		{Name: "shipping_dates", Label: "Shipping Dates", EditableBy: models.FieldAudienceBoth, VisibleTo: models.FieldAudienceBoth, Type: "text", Position: 5},
		{Name: "notes", Label: "Notes", EditableBy: models.FieldAudienceBoth, VisibleTo: models.FieldAudienceBoth, Type: "textarea", Position: 6},
		{Name: "price_approval_status", Label: "Price Approval", EditableBy: models.FieldAudienceAdmin, VisibleTo: models.FieldAudienceBoth, Type: "select", Position: 7},
		{Name: "item_number", Label: "Item Number", EditableBy: models.FieldAudienceVendor, VisibleTo: models.FieldAudienceBoth, Type: "text", Position: 8},
		{Name: "quantity", Label: "Quantity", EditableBy: models.FieldAudienceBoth, VisibleTo: models.FieldAudienceBoth, Required: true, Type: "number", Position: 9},
		{Name: "unit_price", Label: "Unit Price", EditableBy: models.FieldAudienceVendor, VisibleTo: models.FieldAudienceBoth, Type: "number", Position: 10},
		{Name: "total_price", Label: "Total Price", EditableBy: models.FieldAudienceAdmin, VisibleTo: models.FieldAudienceBoth, Type: "number", Position: 11},
		{Name: "item_price_approval_status", Label: "Item Price Approval", EditableBy: models.FieldAudienceAdmin, VisibleTo: models.FieldAudienceBoth, Type: "select", Position: 12},
		{Name: "item_price_approval_rejection_reason", Label: "Rejection Reason", EditableBy: models.FieldAudienceAdmin, VisibleTo: models.FieldAudienceAdmin, Type: "textarea", Position: 13},
	}
}
