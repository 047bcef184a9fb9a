package services

import (
	"context"
	"time"

	"github.com/yeremiapane/orderdesk-app/client"
	"github.com/yeremiapane/orderdesk-app/reconciler"
	"github.com/yeremiapane/orderdesk-app/utils"
)

// RefreshMonitor reloads the full collection into the reconciler: once on
// every refetch request (partial events, lost rollback baselines) and on a
// slow periodic tick as a safety net. Stop clears the timer so a torn-down
// view is never acted on.
type RefreshMonitor struct {
	Rec      *reconciler.Reconciler
	API      client.OrderAPI
	StopChan chan struct{}
	Interval time.Duration
}

func NewRefreshMonitor(rec *reconciler.Reconciler, api client.OrderAPI) *RefreshMonitor {
	return &RefreshMonitor{
		Rec:      rec,
		API:      api,
		StopChan: make(chan struct{}),
		Interval: 5 * time.Minute,
	}
}

func (rm *RefreshMonitor) Start() {
	go func() {
		ticker := time.NewTicker(rm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-rm.Rec.RefetchRequests():
				rm.Refresh()
			case <-ticker.C:
				rm.Refresh()
			case <-rm.StopChan:
				return
			}
		}
	}()
}

func (rm *RefreshMonitor) Stop() {
	close(rm.StopChan)
}

// Refresh loads the collection once. A failed load keeps the current state;
// the next tick or refetch request tries again.
func (rm *RefreshMonitor) Refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	orders, err := rm.API.ListOrders(ctx)
	if err != nil {
		if utils.ErrorLogger != nil {
			utils.ErrorLogger.Printf("Full refetch failed: %v", err)
		}
		return
	}
	rm.Rec.Replace(orders)
}
