package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeremiapane/orderdesk-app/client"
	"github.com/yeremiapane/orderdesk-app/models"
	"github.com/yeremiapane/orderdesk-app/permissions"
	"github.com/yeremiapane/orderdesk-app/realtime"
	"github.com/yeremiapane/orderdesk-app/reconciler"
	"github.com/yeremiapane/orderdesk-app/services"
	"github.com/yeremiapane/orderdesk-app/utils"
)

var ctrlTestSeq int

type testEnv struct {
	router *gin.Engine
	rec    *reconciler.Reconciler
	store  *client.GormStore
	db     *gorm.DB
}

// setupEnv wires the order routes against an in-memory database, with a
// stub auth layer injecting the role and vendor id.
func setupEnv(t *testing.T, role, vendorID string) *testEnv {
	t.Helper()

	gin.SetMode(gin.TestMode)
	utils.InitLogger()

	ctrlTestSeq++
	dsn := fmt.Sprintf("file:ctrl%d?mode=memory&cache=shared", ctrlTestSeq)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&models.Order{}, &models.OrderItem{}, &models.FieldConfig{}))

	rec := reconciler.New()
	store := client.NewGormStore(db)
	perms := permissions.NewModel(permissions.DefaultFieldConfigs())
	hub := realtime.NewHub()
	realtime.NewAdapter(rec).Bind(hub)
	sync := services.NewSyncService(rec, store, perms, hub)

	orderCtrl := NewOrderController(rec, sync, store, hub)
	dashCtrl := NewDashboardController(rec, perms)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", uint(1))
		c.Set("role", role)
		c.Set("vendor_id", vendorID)
		c.Next()
	})
	r.GET("/api/orders", orderCtrl.GetAllOrders)
	r.POST("/api/orders", orderCtrl.CreateOrder)
	r.GET("/api/orders/:order_id", orderCtrl.GetOrderByID)
	r.PATCH("/api/orders/:order_id", orderCtrl.UpdateOrderHeader)
	r.PATCH("/api/orders/:order_id/items/:item_index", orderCtrl.UpdateOrderItem)
	r.DELETE("/api/orders/:order_id", orderCtrl.DeleteOrder)
	r.GET("/api/dashboard/rows", dashCtrl.GetDashboardRows)

	return &testEnv{router: r, rec: rec, store: store, db: db}
}

func (e *testEnv) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func envelopeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp struct {
		Status  bool                   `json:"status"`
		Message string                 `json:"message"`
		Data    map[string]interface{} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data
}

func createTestOrder(t *testing.T, e *testEnv, vendorID string) string {
	t.Helper()
	w := e.do(http.MethodPost, "/api/orders", gin.H{
		"order_number": "PO-100",
		"vendor":       gin.H{"id": vendorID, "name": "Acme Supplies"},
		"notes":        "deliver to dock 4",
		"items": []gin.H{
			{"item_number": "A1", "quantity": 5, "unit_price": 2.5},
			{"item_number": "B2", "quantity": 2, "unit_price": 10},
		},
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	data := envelopeData(t, w)
	id, _ := data["id"].(string)
	assert.NotEmpty(t, id)
	return id
}

func TestCreateOrderAndListIt(t *testing.T) {
	e := setupEnv(t, models.RoleAdmin, "")
	id := createTestOrder(t, e, "v1")

	// the create broadcast flows through the adapter into the collection
	got, ok := e.rec.Get(id)
	assert.True(t, ok)
	assert.Equal(t, "PO-100", got.OrderNumber)
	assert.Len(t, got.Items, 2)

	w := e.do(http.MethodGet, "/api/orders", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateOrderRejectsNegativeQuantity(t *testing.T) {
	e := setupEnv(t, models.RoleAdmin, "")

	w := e.do(http.MethodPost, "/api/orders", gin.H{
		"order_number": "PO-1",
		"items":        []gin.H{{"item_number": "A1", "quantity": -2}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateOrderForbiddenForClients(t *testing.T) {
	e := setupEnv(t, models.RoleClient, "")

	w := e.do(http.MethodPost, "/api/orders", gin.H{
		"order_number": "PO-1",
		"items":        []gin.H{{"item_number": "A1", "quantity": 1}},
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestVendorOnlySeesOwnOrders(t *testing.T) {
	admin := setupEnv(t, models.RoleAdmin, "")
	id := createTestOrder(t, admin, "v1")

	// same collection, viewed through a vendor session of another vendor
	vendorRouter := gin.New()
	vendorRouter.Use(func(c *gin.Context) {
		c.Set("role", models.RoleVendor)
		c.Set("vendor_id", "v2")
		c.Next()
	})
	sync := services.NewSyncService(admin.rec, admin.store, permissions.NewModel(permissions.DefaultFieldConfigs()), nil)
	ctrl := NewOrderController(admin.rec, sync, admin.store, realtime.NewHub())
	vendorRouter.GET("/api/orders/:order_id", ctrl.GetOrderByID)

	req := httptest.NewRequest(http.MethodGet, "/api/orders/"+id, nil)
	w := httptest.NewRecorder()
	vendorRouter.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestHeaderEditReturnsAcceptedWithOptimisticState(t *testing.T) {
	e := setupEnv(t, models.RoleAdmin, "")
	id := createTestOrder(t, e, "v1")

	w := e.do(http.MethodPatch, "/api/orders/"+id, gin.H{"notes": "rush"})
	assert.Equal(t, http.StatusAccepted, w.Code)

	data := envelopeData(t, w)
	assert.Equal(t, "rush", data["notes"])

	// the store call settles and the edit persists
	assert.Eventually(t, func() bool {
		var order models.Order
		if err := e.db.Where("id = ?", id).First(&order).Error; err != nil {
			return false
		}
		return order.Notes == "rush"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestItemEditReturnsAccepted(t *testing.T) {
	e := setupEnv(t, models.RoleAdmin, "")
	id := createTestOrder(t, e, "v1")

	w := e.do(http.MethodPatch, "/api/orders/"+id+"/items/0", gin.H{"quantity": 7})
	assert.Equal(t, http.StatusAccepted, w.Code)

	got, _ := e.rec.Get(id)
	assert.Equal(t, 7, got.Items[0].Quantity)

	assert.Eventually(t, func() bool {
		var item models.OrderItem
		err := e.db.Where("order_id = ? AND item_index = ?", id, 0).First(&item).Error
		return err == nil && item.Quantity == 7 && item.TotalPrice == 17.5
	}, 2*time.Second, 10*time.Millisecond)
}

func TestItemEditShapeViolationIsBadRequest(t *testing.T) {
	e := setupEnv(t, models.RoleAdmin, "")
	id := createTestOrder(t, e, "v1")

	w := e.do(http.MethodPatch, "/api/orders/"+id+"/items/0", gin.H{"invoice_number": "INV-1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestItemEditNegativeQuantityIsBadRequest(t *testing.T) {
	e := setupEnv(t, models.RoleAdmin, "")
	id := createTestOrder(t, e, "v1")

	w := e.do(http.MethodPatch, "/api/orders/"+id+"/items/0", gin.H{"quantity": -3})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// nothing moved
	got, _ := e.rec.Get(id)
	assert.Equal(t, 5, got.Items[0].Quantity)
}

func TestItemEditOutOfRangeIsBadRequest(t *testing.T) {
	e := setupEnv(t, models.RoleAdmin, "")
	id := createTestOrder(t, e, "v1")

	w := e.do(http.MethodPatch, "/api/orders/"+id+"/items/9", gin.H{"quantity": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVendorEditOfAdminFieldIsForbidden(t *testing.T) {
	admin := setupEnv(t, models.RoleAdmin, "")
	id := createTestOrder(t, admin, "v1")

	vendor := setupEnv(t, models.RoleVendor, "v1")
	vendor.rec.Replace(admin.rec.Snapshot())

	w := vendor.do(http.MethodPatch, "/api/orders/"+id, gin.H{"transfer_amount": 5.0})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestEditUnknownOrderIsNotFound(t *testing.T) {
	e := setupEnv(t, models.RoleAdmin, "")

	w := e.do(http.MethodPatch, "/api/orders/ghost", gin.H{"notes": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteOrderAdminOnly(t *testing.T) {
	e := setupEnv(t, models.RoleAdmin, "")
	id := createTestOrder(t, e, "v1")

	w := e.do(http.MethodDelete, "/api/orders/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// the delete broadcast drops the order from the collection
	_, ok := e.rec.Get(id)
	assert.False(t, ok)

	// and it is gone for real
	w = e.do(http.MethodDelete, "/api/orders/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	vendor := setupEnv(t, models.RoleVendor, "v1")
	vid := "whatever"
	w = vendor.do(http.MethodDelete, "/api/orders/"+vid, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDashboardRowsFilterAndLayout(t *testing.T) {
	e := setupEnv(t, models.RoleAdmin, "")
	createTestOrder(t, e, "v1")

	w := e.do(http.MethodGet, "/api/dashboard/rows?vendor_id=v1&sort_key=order_number", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	data := envelopeData(t, w)
	rows, ok := data["rows"].([]interface{})
	assert.True(t, ok)
	assert.Len(t, rows, 2)

	fields, ok := data["fields"].([]interface{})
	assert.True(t, ok)
	assert.Len(t, fields, len(permissions.DefaultFieldConfigs()))

	editable, ok := data["editable"].(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, true, editable["quantity"])

	w = e.do(http.MethodGet, "/api/dashboard/rows?vendor_id=nobody", nil)
	data = envelopeData(t, w)
	assert.Empty(t, data["rows"])
}

func TestDashboardSearchByItemCount(t *testing.T) {
	e := setupEnv(t, models.RoleAdmin, "")
	createTestOrder(t, e, "v1") // two items

	w := e.do(http.MethodGet, "/api/dashboard/rows?search_term=2&search_scope=item_count", nil)
	data := envelopeData(t, w)
	rows, _ := data["rows"].([]interface{})
	assert.Len(t, rows, 2)

	w = e.do(http.MethodGet, "/api/dashboard/rows?search_term=3&search_scope=item_count", nil)
	data = envelopeData(t, w)
	assert.Empty(t, data["rows"])
}
