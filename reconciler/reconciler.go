package reconciler

import (
	"sync"
	"time"

	"github.com/yeremiapane/orderdesk-app/models"
	"github.com/yeremiapane/orderdesk-app/utils"
)

// Target addresses one edit unit: an order header or one of its items.
type Target struct {
	OrderID   string
	ItemIndex int // -1 for the order header
}

func HeaderTarget(orderID string) Target {
	return Target{OrderID: orderID, ItemIndex: -1}
}

func ItemTarget(orderID string, itemIndex int) Target {
	return Target{OrderID: orderID, ItemIndex: itemIndex}
}

func (t Target) isHeader() bool { return t.ItemIndex < 0 }

// pendingEdit is the in-memory record of one optimistic edit awaiting its
// store call. At most one exists per target; a newer edit to the same
// target supersedes it (version bump) rather than queueing behind it.
type pendingEdit struct {
	version     int64
	fields      map[string]interface{} // latest optimistic values
	baseline    map[string]interface{} // pre-edit values; nil once unreliable
	submittedAt time.Time
}

// Reconciler owns the authoritative in-memory order collection. Every
// mutation goes through it: optimistic local edits, store confirmations
// and rollbacks, and normalized realtime events. Readers only ever get
// deep-copied snapshots.
type Reconciler struct {
	mu        sync.Mutex
	orders    []*models.Order // display order, newest first
	pending   map[Target]*pendingEdit
	version   int64
	stale     bool
	refetchCh chan struct{}
	now       func() time.Time
}

func New() *Reconciler {
	return &Reconciler{
		pending:   make(map[Target]*pendingEdit),
		refetchCh: make(chan struct{}, 1),
		now:       time.Now,
	}
}

// RefetchRequests delivers a signal whenever the collection went stale and
// a full reload from the store is needed. The refresh monitor listens on it.
func (r *Reconciler) RefetchRequests() <-chan struct{} {
	return r.refetchCh
}

func (r *Reconciler) requestRefetch() {
	select {
	case r.refetchCh <- struct{}{}:
	default:
	}
}

// Replace loads a full collection from the store. Rows with unusable ids
// are dropped. Optimistic fields of still-pending edits are re-applied on
// top, since their own confirmation or failure has not resolved yet.
func (r *Reconciler) Replace(orders []models.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.orders = r.orders[:0]
	for i := range orders {
		if !models.ValidOrderID(orders[i].ID) {
			continue
		}
		cp := orders[i].Clone()
		r.orders = append(r.orders, &cp)
	}

	for target, p := range r.pending {
		if o := r.find(target.OrderID); o != nil {
			r.reapplyOptimistic(o, target, p)
		}
	}
	r.stale = false
}

// Snapshot returns deep copies of the collection in display order.
func (r *Reconciler) Snapshot() []models.Order {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, o.Clone())
	}
	return out
}

// Get returns a deep copy of one order.
func (r *Reconciler) Get(orderID string) (models.Order, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if o := r.find(orderID); o != nil {
		return o.Clone(), true
	}
	return models.Order{}, false
}

// IsStale reports whether a partial event or lost baseline invalidated the
// collection since the last full load.
func (r *Reconciler) IsStale() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stale
}

// ApplyLocalEdit mutates the visible collection immediately and records
// the pre-edit values for rollback. It returns the edit version the caller
// must hand back to Confirm or Fail; results carrying an older version are
// discarded as stale.
func (r *Reconciler) ApplyLocalEdit(target Target, fields map[string]interface{}) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o := r.find(target.OrderID)
	if o == nil {
		return 0, ErrUnknownOrder
	}

	var baseline map[string]interface{}
	if target.isHeader() {
		for name := range fields {
			if !IsHeaderField(name) {
				return 0, ErrInvalidEditShape
			}
		}
		baseline = applyHeaderFields(o, fields)
	} else {
		if target.ItemIndex >= len(o.Items) {
			return 0, ErrItemIndexOutOfRange
		}
		for name := range fields {
			if !IsItemField(name) {
				return 0, ErrInvalidEditShape
			}
		}
		baseline = applyItemFields(&o.Items[target.ItemIndex], fields)
	}

	r.version++
	r.pending[target] = &pendingEdit{
		version:     r.version,
		fields:      copyFields(fields),
		baseline:    baseline,
		submittedAt: r.now(),
	}
	return r.version, nil
}

// Confirm resolves a target after a successful store call. A full entity
// replaces local state wholesale (the server is authoritative for derived
// fields); a bare acknowledgement keeps the optimistic fields as-is.
// Results for superseded edit versions are discarded.
func (r *Reconciler) Confirm(target Target, version int64, result *models.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.pending[target]
	if !ok || p.version != version {
		if utils.InfoLogger != nil {
			utils.InfoLogger.Printf("discarding stale confirmation for order %s (version %d)", target.OrderID, version)
		}
		return
	}

	if result != nil && models.ValidOrderID(result.ID) {
		r.replaceOrder(result)
		// The entity reflects this edit but not edits still in flight on
		// sibling targets of the same order; their optimistic fields go
		// back on top until they resolve themselves.
		if o := r.find(result.ID); o != nil {
			for t, p := range r.pending {
				if t.OrderID == result.ID && t != target {
					r.reapplyOptimistic(o, t, p)
				}
			}
		}
	}
	delete(r.pending, target)
}

// Fail rolls a target back to the baseline captured when the edit was
// applied. When the baseline is unknown the collection is marked stale and
// a full refetch is requested instead.
func (r *Reconciler) Fail(target Target, version int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.pending[target]
	if !ok || p.version != version {
		return
	}
	delete(r.pending, target)

	o := r.find(target.OrderID)
	if o == nil {
		return
	}

	if p.baseline == nil {
		r.stale = true
		r.requestRefetch()
		return
	}

	if target.isHeader() {
		applyHeaderFields(o, p.baseline)
	} else if target.ItemIndex < len(o.Items) {
		applyItemFields(&o.Items[target.ItemIndex], p.baseline)
	}
}

// ApplyRemoteEvent merges one normalized realtime event into the
// collection. All variants are idempotent.
func (r *Reconciler) ApplyRemoteEvent(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch ev.Kind {
	case EventCreated:
		if ev.Order == nil || !models.ValidOrderID(ev.Order.ID) {
			return
		}
		if r.find(ev.Order.ID) != nil {
			// Idempotent insert: an order we already hold is an update.
			r.mergeFullUpdate(ev)
			return
		}
		cp := ev.Order.Clone()
		r.orders = append([]*models.Order{&cp}, r.orders...)

	case EventUpdatedFull:
		if ev.Order == nil || !models.ValidOrderID(ev.Order.ID) {
			return
		}
		if r.find(ev.Order.ID) == nil {
			// An update for an order we never saw is as good as a create.
			cp := ev.Order.Clone()
			r.orders = append([]*models.Order{&cp}, r.orders...)
			return
		}
		r.mergeFullUpdate(ev)

	case EventUpdatedPartial:
		// Never merge partial payloads over item data; flag and refetch.
		r.stale = true
		r.requestRefetch()

	case EventDeleted:
		r.removeOrder(ev.OrderID)
	}
}

// mergeFullUpdate replaces the matching order wholesale, then arbitrates
// against in-flight optimistic edits: last writer by timestamp wins, and
// the optimistic edit wins when the event carries no usable timestamp.
func (r *Reconciler) mergeFullUpdate(ev Event) {
	r.replaceOrder(ev.Order)
	o := r.find(ev.Order.ID)

	for target, p := range r.pending {
		if target.OrderID != ev.Order.ID {
			continue
		}
		if ev.Timestamp.IsZero() || p.submittedAt.After(ev.Timestamp) {
			r.reapplyOptimistic(o, target, p)
			continue
		}
		// The event is newer: its fields stand. The recorded baseline now
		// predates the event, so a later rollback must refetch instead.
		if utils.InfoLogger != nil {
			utils.InfoLogger.Printf("stale write conflict on order %s resolved in favor of remote event", ev.Order.ID)
		}
		p.baseline = nil
	}
}

func (r *Reconciler) reapplyOptimistic(o *models.Order, target Target, p *pendingEdit) {
	if target.isHeader() {
		applyHeaderFields(o, p.fields)
	} else if target.ItemIndex < len(o.Items) {
		applyItemFields(&o.Items[target.ItemIndex], p.fields)
	}
}

func (r *Reconciler) find(orderID string) *models.Order {
	for _, o := range r.orders {
		if o.ID == orderID {
			return o
		}
	}
	return nil
}

func (r *Reconciler) replaceOrder(src *models.Order) {
	for i, o := range r.orders {
		if o.ID == src.ID {
			cp := src.Clone()
			r.orders[i] = &cp
			return
		}
	}
}

func (r *Reconciler) removeOrder(orderID string) {
	for i, o := range r.orders {
		if o.ID == orderID {
			r.orders = append(r.orders[:i], r.orders[i+1:]...)
			break
		}
	}
	for target := range r.pending {
		if target.OrderID == orderID {
			delete(r.pending, target)
		}
	}
}

func copyFields(fields map[string]interface{}) map[string]interface{} {
	cp := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		cp[k] = v
	}
	return cp
}
