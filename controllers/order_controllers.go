package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yeremiapane/orderdesk-app/client"
	"github.com/yeremiapane/orderdesk-app/models"
	"github.com/yeremiapane/orderdesk-app/permissions"
	"github.com/yeremiapane/orderdesk-app/realtime"
	"github.com/yeremiapane/orderdesk-app/reconciler"
	"github.com/yeremiapane/orderdesk-app/services"
	"github.com/yeremiapane/orderdesk-app/utils"
)

type OrderController struct {
	Rec   *reconciler.Reconciler
	Sync  *services.SyncService
	Store client.OrderAPI
	Hub   *realtime.Hub
}

func NewOrderController(rec *reconciler.Reconciler, sync *services.SyncService, store client.OrderAPI, hub *realtime.Hub) *OrderController {
	return &OrderController{Rec: rec, Sync: sync, Store: store, Hub: hub}
}

// GetAllOrders -> the authoritative in-memory collection, vendor-scoped for
// vendor users.
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	orders := oc.Rec.Snapshot()

	role, _ := c.Get("role")
	if role == models.RoleVendor {
		vendorID := c.GetString("vendor_id")
		scoped := orders[:0]
		for _, o := range orders {
			if o.Vendor.ID == vendorID {
				scoped = append(scoped, o)
			}
		}
		orders = scoped
	}

	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// CreateOrder -> admin or vendor creates an order with its item sequence.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	role, _ := c.Get("role")
	if role != models.RoleAdmin && role != models.RoleVendor {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	type ItemReq struct {
		ItemNumber string  `json:"item_number"`
		ProductID  *uint   `json:"product_id"`
		Quantity   int     `json:"quantity" binding:"required"`
		UnitPrice  float64 `json:"unit_price"`
	}

	type ReqBody struct {
		OrderNumber string           `json:"order_number"`
		Vendor      models.VendorRef `json:"vendor"`
		OrderDate   *time.Time       `json:"order_date"`
		Notes       string           `json:"notes"`
		Items       []ItemReq        `json:"items" binding:"required"`
	}

	var body ReqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if role == models.RoleVendor {
		// Vendors create orders for themselves only.
		body.Vendor = models.VendorRef{ID: c.GetString("vendor_id")}
	}

	order := models.Order{
		ID:          uuid.NewString(),
		OrderNumber: body.OrderNumber,
		Vendor:      body.Vendor,
		Status:      models.OrderStatusOpen,
		OrderDate:   body.OrderDate,
		Notes:       body.Notes,
	}
	for i, item := range body.Items {
		if item.Quantity < 0 {
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("item %d: quantity must not be negative", i))
			return
		}
		order.Items = append(order.Items, models.OrderItem{
			ItemNumber: item.ItemNumber,
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			Status:     "pending",
		})
	}

	created, err := oc.Store.CreateOrder(c.Request.Context(), order)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	// The adapter picks this up and prepends the order to the collection.
	oc.Hub.Broadcast(realtime.TopicOrdersCreated, created)

	utils.RespondJSON(c, http.StatusCreated, "Order created", created)
}

// GetOrderByID -> detail of one order from the in-memory collection.
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	orderID := c.Param("order_id")

	order, ok := oc.Rec.Get(orderID)
	if !ok {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("order %s not found", orderID))
		return
	}

	if !oc.mayAccess(c, order) {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// UpdateOrderHeader -> optimistic header edit through the sync service.
// Returns 202: the visible state already reflects the edit while the store
// call is still in flight.
func (oc *OrderController) UpdateOrderHeader(c *gin.Context) {
	orderID := c.Param("order_id")
	role := c.GetString("role")

	order, ok := oc.Rec.Get(orderID)
	if !ok {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("order %s not found", orderID))
		return
	}
	if !oc.mayAccess(c, order) {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := oc.Sync.SubmitHeaderEdit(role, orderID, fields); err != nil {
		oc.respondEditError(c, err)
		return
	}

	updated, _ := oc.Rec.Get(orderID)
	utils.RespondJSON(c, http.StatusAccepted, "Order update submitted", updated)
}

// UpdateOrderItem -> optimistic single-item edit, addressed by item index.
func (oc *OrderController) UpdateOrderItem(c *gin.Context) {
	orderID := c.Param("order_id")
	role := c.GetString("role")

	itemIndex, err := strconv.Atoi(c.Param("item_index"))
	if err != nil || itemIndex < 0 {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid item index"))
		return
	}

	order, ok := oc.Rec.Get(orderID)
	if !ok {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("order %s not found", orderID))
		return
	}
	if !oc.mayAccess(c, order) {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := oc.Sync.SubmitItemEdit(role, orderID, itemIndex, fields); err != nil {
		oc.respondEditError(c, err)
		return
	}

	updated, _ := oc.Rec.Get(orderID)
	utils.RespondJSON(c, http.StatusAccepted, "Item update submitted", updated)
}

// DeleteOrder -> admin only.
func (oc *OrderController) DeleteOrder(c *gin.Context) {
	role, _ := c.Get("role")
	if role != models.RoleAdmin {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	orderID := c.Param("order_id")
	deleted, err := oc.Store.DeleteOrder(c.Request.Context(), orderID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if !deleted {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("order %s not found", orderID))
		return
	}

	oc.Hub.Broadcast(realtime.TopicOrdersDeleted, map[string]string{"id": orderID})

	utils.RespondJSON(c, http.StatusOK, "Order deleted", gin.H{"order_id": orderID})
}

// mayAccess -> vendors only reach their own orders; admin and client roles
// see everything their routes allow.
func (oc *OrderController) mayAccess(c *gin.Context, order models.Order) bool {
	role, _ := c.Get("role")
	if role != models.RoleVendor {
		return true
	}
	return order.Vendor.ID == c.GetString("vendor_id")
}

func (oc *OrderController) respondEditError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, reconciler.ErrInvalidEditShape),
		errors.Is(err, reconciler.ErrItemIndexOutOfRange),
		errors.Is(err, services.ErrRejectionReasonRequired),
		errors.Is(err, services.ErrNegativeValue):
		utils.RespondError(c, http.StatusBadRequest, err)
	case errors.Is(err, permissions.ErrPermissionDenied):
		utils.RespondError(c, http.StatusForbidden, err)
	case errors.Is(err, reconciler.ErrUnknownOrder):
		utils.RespondError(c, http.StatusNotFound, err)
	default:
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}
