package view

import (
	"strconv"

	"github.com/yeremiapane/orderdesk-app/models"
	"github.com/yeremiapane/orderdesk-app/utils"
)

// Row is one display row of the dashboard table: one (order, item) pair,
// plus the grouping metadata the table needs to draw order boundaries.
// LineTotal and TransferAmountDisplay are computed here so the table
// renders them without redoing money math client-side.
type Row struct {
	StableKey             string            `json:"stable_key"`
	OrderID               string            `json:"order_id"`
	ItemIndex             int               `json:"item_index"`
	Order                 models.Order      `json:"order"`
	Item                  *models.OrderItem `json:"item"`
	LineTotal             float64           `json:"line_total"`
	TransferAmountDisplay string            `json:"transfer_amount_display"`
	IsFirstItem           bool              `json:"is_first_item"`
	IsLastItem            bool              `json:"is_last_item"`
	SiblingCount          int               `json:"sibling_count"`
}

// ProjectRows flattens orders into one row per item, preserving
// order-then-item order. An order with no items still gets one placeholder
// row so it stays visible. The transform is pure and deterministic; the
// stable key (orderId + "-" + itemIndex) survives re-projection so the UI
// keeps editing focus and scroll anchoring across reconciliation passes.
func ProjectRows(orders []models.Order) []Row {
	var rows []Row

	for _, order := range orders {
		if !models.ValidOrderID(order.ID) {
			continue
		}

		transferDisplay := utils.FormatAmount(order.TransferAmount)

		if len(order.Items) == 0 {
			rows = append(rows, Row{
				StableKey:             stableKey(order.ID, 0),
				OrderID:               order.ID,
				ItemIndex:             0,
				Order:                 order,
				Item:                  nil,
				TransferAmountDisplay: transferDisplay,
				IsFirstItem:           true,
				IsLastItem:            true,
				SiblingCount:          0,
			})
			continue
		}

		count := len(order.Items)
		for i := range order.Items {
			item := order.Items[i]
			rows = append(rows, Row{
				StableKey:             stableKey(order.ID, i),
				OrderID:               order.ID,
				ItemIndex:             i,
				Order:                 order,
				Item:                  &item,
				LineTotal:             item.Total(),
				TransferAmountDisplay: transferDisplay,
				IsFirstItem:           i == 0,
				IsLastItem:            i == count-1,
				SiblingCount:          count,
			})
		}
	}
	return rows
}

func stableKey(orderID string, itemIndex int) string {
	return orderID + "-" + strconv.Itoa(itemIndex)
}
