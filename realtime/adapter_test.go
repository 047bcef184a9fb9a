package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yeremiapane/orderdesk-app/models"
	"github.com/yeremiapane/orderdesk-app/reconciler"
	"github.com/yeremiapane/orderdesk-app/utils"
)

func setupAdapter(orders ...models.Order) (*reconciler.Reconciler, *Adapter) {
	utils.InitLogger()
	rec := reconciler.New()
	rec.Replace(orders)
	return rec, NewAdapter(rec)
}

func seedOrder(id string) models.Order {
	return models.Order{
		ID:          id,
		OrderNumber: "PO-" + id,
		Status:      models.OrderStatusOpen,
		Items: []models.OrderItem{
			{OrderID: id, ItemIndex: 0, ItemNumber: "A1", Quantity: 5},
		},
	}
}

func TestCreatedEventWithCanonicalID(t *testing.T) {
	rec, a := setupAdapter()

	a.HandleCreated([]byte(`{"id":"o1","order_number":"PO-1","items":[{"item_number":"A1","quantity":2}]}`))

	got, ok := rec.Get("o1")
	assert.True(t, ok)
	assert.Equal(t, "PO-1", got.OrderNumber)
	assert.Len(t, got.Items, 1)
}

func TestCreatedEventWithLegacyID(t *testing.T) {
	rec, a := setupAdapter()

	a.HandleCreated([]byte(`{"_id":"o2","order_number":"PO-2"}`))

	got, ok := rec.Get("o2")
	assert.True(t, ok)
	assert.Equal(t, "o2", got.ID)
}

func TestCreatedEventWithSummaryID(t *testing.T) {
	rec, a := setupAdapter()

	a.HandleCreated([]byte(`{"order_id":"o3","order_number":"PO-3"}`))

	_, ok := rec.Get("o3")
	assert.True(t, ok)
}

func TestUpdatedEventWithItemsIsFull(t *testing.T) {
	rec, a := setupAdapter(seedOrder("o1"))

	a.HandleUpdated([]byte(`{"id":"o1","status":"shipped","items":[{"item_number":"A1","quantity":9}]}`))

	got, _ := rec.Get("o1")
	assert.Equal(t, "shipped", got.Status)
	assert.Equal(t, 9, got.Items[0].Quantity)
	assert.False(t, rec.IsStale())
}

func TestUpdatedEventWithoutItemsIsPartial(t *testing.T) {
	rec, a := setupAdapter(seedOrder("o1"))

	a.HandleUpdated([]byte(`{"id":"o1","status":"shipped"}`))

	// partial events never touch the item sequence; they only flag staleness
	got, _ := rec.Get("o1")
	assert.Len(t, got.Items, 1)
	assert.Equal(t, 5, got.Items[0].Quantity)
	assert.Equal(t, models.OrderStatusOpen, got.Status)
	assert.True(t, rec.IsStale())

	select {
	case <-rec.RefetchRequests():
	default:
		t.Fatal("expected a refetch request for a partial update")
	}
}

func TestDeletedEventBareString(t *testing.T) {
	rec, a := setupAdapter(seedOrder("o1"))

	a.HandleDeleted([]byte(`"o1"`))

	_, ok := rec.Get("o1")
	assert.False(t, ok)
}

func TestDeletedEventObjectPayload(t *testing.T) {
	rec, a := setupAdapter(seedOrder("o1"))

	a.HandleDeleted([]byte(`{"order_id":"o1"}`))

	_, ok := rec.Get("o1")
	assert.False(t, ok)
}

func TestMalformedPayloadsAreDropped(t *testing.T) {
	rec, a := setupAdapter(seedOrder("o1"))
	before := rec.Snapshot()

	a.HandleCreated([]byte(`{not json`))
	a.HandleUpdated([]byte(`{"status":"shipped"}`))      // no id at all
	a.HandleCreated([]byte(`{"id":"undefined"}`))        // sentinel junk id
	a.HandleDeleted([]byte(`{"id":"null"}`))             // sentinel junk id
	a.HandleDeleted([]byte(`[1,2,3]`))                   // wrong shape entirely

	assert.Equal(t, before, rec.Snapshot())
	assert.False(t, rec.IsStale())
}

func TestVendorRefObjectAndStringShapes(t *testing.T) {
	rec, a := setupAdapter()

	a.HandleCreated([]byte(`{"id":"o1","vendor":{"_id":"v1","company_name":"Acme Supplies"}}`))
	a.HandleCreated([]byte(`{"id":"o2","vendor":"v2"}`))

	o1, _ := rec.Get("o1")
	assert.Equal(t, "v1", o1.Vendor.ID)
	assert.Equal(t, "Acme Supplies", o1.Vendor.Name)

	o2, _ := rec.Get("o2")
	assert.Equal(t, "v2", o2.Vendor.ID)
}

func TestBindRoutesHubBroadcasts(t *testing.T) {
	rec, a := setupAdapter()
	hub := NewHub()
	a.Bind(hub)

	hub.Broadcast(TopicOrdersCreated, map[string]interface{}{
		"id":           "o9",
		"order_number": "PO-9",
	})

	got, ok := rec.Get("o9")
	assert.True(t, ok)
	assert.Equal(t, "PO-9", got.OrderNumber)
}
