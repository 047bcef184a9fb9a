package reconciler

import (
	"time"

	"github.com/yeremiapane/orderdesk-app/models"
)

// EventKind tags a realtime event once, at ingestion. Downstream code never
// re-inspects the payload shape.
type EventKind int

const (
	EventCreated EventKind = iota
	// EventUpdatedFull carries a complete order, item sequence included.
	EventUpdatedFull
	// EventUpdatedPartial is a header-only or summary event. It never
	// carries authoritative item data; it only signals that a refetch is
	// needed.
	EventUpdatedPartial
	EventDeleted
)

func (k EventKind) String() string {
	switch k {
	case EventCreated:
		return "created"
	case EventUpdatedFull:
		return "updated_full"
	case EventUpdatedPartial:
		return "updated_partial"
	case EventDeleted:
		return "deleted"
	}
	return "unknown"
}

// Event is a normalized realtime event ready for the reconciler.
type Event struct {
	Kind      EventKind
	OrderID   string
	Order     *models.Order // set for Created and UpdatedFull
	Timestamp time.Time     // zero when the wire payload carried none
}
