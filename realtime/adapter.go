package realtime

import (
	"encoding/json"

	"github.com/yeremiapane/orderdesk-app/models"
	"github.com/yeremiapane/orderdesk-app/reconciler"
	"github.com/yeremiapane/orderdesk-app/utils"
)

// Adapter translates wire events into reconciler operations. All identifier
// normalization and the full-versus-partial decision happen here, once;
// nothing downstream re-inspects payload shape. Malformed payloads are
// dropped with a logged warning and never mutate state.
type Adapter struct {
	rec *reconciler.Reconciler
}

func NewAdapter(rec *reconciler.Reconciler) *Adapter {
	return &Adapter{rec: rec}
}

// Bind subscribes the adapter to the order topics of a hub.
func (a *Adapter) Bind(hub *Hub) {
	hub.Subscribe(TopicOrdersCreated, a.HandleCreated)
	hub.Subscribe(TopicOrdersUpdated, a.HandleUpdated)
	hub.Subscribe(TopicOrdersDeleted, a.HandleDeleted)
}

// wireOrder accepts the identifier shapes seen on the wire: "id", the
// legacy "_id", or "order_id" on summary events.
type wireOrder struct {
	models.Order
	LegacyID string `json:"_id"`
	AltID    string `json:"order_id"`
}

func (w *wireOrder) normalizedID() string {
	if models.ValidOrderID(w.Order.ID) {
		return w.Order.ID
	}
	if models.ValidOrderID(w.LegacyID) {
		return w.LegacyID
	}
	if models.ValidOrderID(w.AltID) {
		return w.AltID
	}
	return ""
}

func (a *Adapter) HandleCreated(data []byte) {
	order, ok := a.decodeOrder(TopicOrdersCreated, data)
	if !ok {
		return
	}
	a.rec.ApplyRemoteEvent(reconciler.Event{
		Kind:      reconciler.EventCreated,
		OrderID:   order.ID,
		Order:     order,
		Timestamp: order.UpdatedAt,
	})
}

func (a *Adapter) HandleUpdated(data []byte) {
	order, ok := a.decodeOrder(TopicOrdersUpdated, data)
	if !ok {
		return
	}

	// Full only when the payload carries items; a header-only or summary
	// event must never overwrite the authoritative item sequence.
	kind := reconciler.EventUpdatedPartial
	if len(order.Items) > 0 {
		kind = reconciler.EventUpdatedFull
	}

	a.rec.ApplyRemoteEvent(reconciler.Event{
		Kind:      kind,
		OrderID:   order.ID,
		Order:     order,
		Timestamp: order.UpdatedAt,
	})
}

func (a *Adapter) HandleDeleted(data []byte) {
	// Deletion payloads are either a bare id string or an object carrying
	// one of the id fields.
	var id string
	if err := json.Unmarshal(data, &id); err != nil {
		var w wireOrder
		if err := json.Unmarshal(data, &w); err != nil {
			a.warnMalformed(TopicOrdersDeleted, err)
			return
		}
		id = w.normalizedID()
	}

	if !models.ValidOrderID(id) {
		a.warnMalformed(TopicOrdersDeleted, nil)
		return
	}

	a.rec.ApplyRemoteEvent(reconciler.Event{
		Kind:    reconciler.EventDeleted,
		OrderID: id,
	})
}

func (a *Adapter) decodeOrder(topic string, data []byte) (*models.Order, bool) {
	var w wireOrder
	if err := json.Unmarshal(data, &w); err != nil {
		a.warnMalformed(topic, err)
		return nil, false
	}

	id := w.normalizedID()
	if id == "" {
		a.warnMalformed(topic, nil)
		return nil, false
	}

	order := w.Order
	order.ID = id
	return &order, true
}

func (a *Adapter) warnMalformed(topic string, err error) {
	if utils.ErrorLogger == nil {
		return
	}
	if err != nil {
		utils.ErrorLogger.Printf("Dropping malformed %s event: %v", topic, err)
		return
	}
	utils.ErrorLogger.Printf("Dropping %s event without a usable order id", topic)
}
