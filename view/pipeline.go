package view

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// Search scopes for the free-text filter.
const (
	ScopeInvoiceNumber = "invoice_number"
	ScopeItemCount     = "item_count"
	ScopeOrderNumber   = "order_number"
	ScopeItemNumber    = "item_number"
	ScopeNotes         = "notes"
)

// FilterState is everything the table's filter bar can express.
type FilterState struct {
	VendorID    string     `form:"vendor_id" json:"vendor_id"`
	Status      string     `form:"status" json:"status"`
	DateFrom    *time.Time `form:"date_from" json:"date_from"`
	DateTo      *time.Time `form:"date_to" json:"date_to"`
	SearchTerm  string     `form:"search_term" json:"search_term"`
	SearchScope string     `form:"search_scope" json:"search_scope"`
	SortKey     string     `form:"sort_key" json:"sort_key"`
	SortDesc    bool       `form:"sort_desc" json:"sort_desc"`
}

// Apply runs the filters and the sort over projected rows. Filters AND-
// compose in a fixed order (cheap equality checks before substring search)
// so the result is deterministic regardless of how the UI built the state.
// The input slice is never mutated.
func Apply(rows []Row, fs FilterState) []Row {
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		if !matchVendor(row, fs.VendorID) {
			continue
		}
		if !matchStatus(row, fs.Status) {
			continue
		}
		if !matchDateRange(row, fs.DateFrom, fs.DateTo) {
			continue
		}
		if !matchSearch(row, fs.SearchTerm, fs.SearchScope) {
			continue
		}
		out = append(out, row)
	}

	sortRows(out, fs.SortKey, fs.SortDesc)
	return out
}

// matchVendor compares against the id or the display name, since vendor
// references arrive in both shapes.
func matchVendor(row Row, vendorID string) bool {
	if vendorID == "" {
		return true
	}
	if row.Order.Vendor.ID == vendorID {
		return true
	}
	return strings.EqualFold(row.Order.Vendor.Name, vendorID)
}

// matchStatus: an order matches when any of its items carries the status.
func matchStatus(row Row, status string) bool {
	if status == "" {
		return true
	}
	for _, item := range row.Order.Items {
		if item.Status == status {
			return true
		}
	}
	return false
}

// matchDateRange checks the order's effective date, inclusive of the whole
// end day.
func matchDateRange(row Row, from, to *time.Time) bool {
	if from == nil && to == nil {
		return true
	}
	date := row.Order.EffectiveDate()
	if from != nil && date.Before(*from) {
		return false
	}
	if to != nil {
		end := to.AddDate(0, 0, 1)
		if !date.Before(end) {
			return false
		}
	}
	return true
}

func matchSearch(row Row, term, scope string) bool {
	if term == "" {
		return true
	}
	needle := strings.ToLower(term)

	contains := func(s string) bool {
		return strings.Contains(strings.ToLower(s), needle)
	}

	switch scope {
	case ScopeInvoiceNumber:
		return contains(row.Order.InvoiceNumber)
	case ScopeItemCount:
		return contains(strconv.Itoa(len(row.Order.Items)))
	case ScopeOrderNumber:
		return contains(row.Order.OrderNumber)
	case ScopeItemNumber:
		for _, item := range row.Order.Items {
			if contains(item.ItemNumber) {
				return true
			}
		}
		return false
	case ScopeNotes:
		return contains(row.Order.Notes)
	}
	// Unknown scope: search the common columns.
	return contains(row.Order.OrderNumber) || contains(row.Order.InvoiceNumber) || contains(row.Order.Notes)
}

// sortRows is a stable single-key sort; ties keep their prior relative
// order so re-sorting never reshuffles equal rows.
func sortRows(rows []Row, key string, desc bool) {
	if key == "" {
		return
	}

	less := func(a, b Row) bool { return false }
	switch key {
	case "order_number":
		less = func(a, b Row) bool { return a.Order.OrderNumber < b.Order.OrderNumber }
	case "vendor":
		less = func(a, b Row) bool { return a.Order.Vendor.Name < b.Order.Vendor.Name }
	case "status":
		less = func(a, b Row) bool { return a.Order.Status < b.Order.Status }
	case "invoice_number":
		less = func(a, b Row) bool { return a.Order.InvoiceNumber < b.Order.InvoiceNumber }
	case "transfer_amount":
		less = func(a, b Row) bool { return a.Order.TransferAmount < b.Order.TransferAmount }
	case "order_date":
		less = func(a, b Row) bool { return a.Order.EffectiveDate().Before(b.Order.EffectiveDate()) }
	default:
		return
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if desc {
			return less(rows[j], rows[i])
		}
		return less(rows[i], rows[j])
	})
}
