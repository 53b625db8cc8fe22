package analytics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mohitkumar/txwizard/logger"
	"github.com/mohitkumar/txwizard/util"
	"github.com/mohitkumar/txwizard/wallet"
	"go.uber.org/zap"
)

const DEFAULT_TRACKER_CAPACITY = 64
const trackTimeout = 10 * time.Second

// TxTracker turns submissions into analytics events off the caller's goroutine.
// Delivery is best effort.
type TxTracker struct {
	fetcher   wallet.DetailsFetcher
	collector Collector
	worker    *util.Worker
	wg        sync.WaitGroup
}

func NewTxTracker(fetcher wallet.DetailsFetcher, collector Collector, capacity int) *TxTracker {
	if capacity <= 0 {
		capacity = DEFAULT_TRACKER_CAPACITY
	}
	t := &TxTracker{
		fetcher:   fetcher,
		collector: collector,
	}
	t.worker = util.NewWorker("tx-tracker", &t.wg, t.handle, capacity)
	return t
}

func (t *TxTracker) Start() {
	t.worker.Start()
}

func (t *TxTracker) Stop() {
	t.worker.Stop()
	t.wg.Wait()
}

// Enqueue never blocks; it reports false when the request was dropped.
func (t *TxTracker) Enqueue(req TrackRequest) bool {
	return t.worker.Offer(req)
}

func (t *TxTracker) TrackEvent(event Event) {
	t.collector.TrackEvent(event)
}

func (t *TxTracker) handle(task util.Task) error {
	req, ok := task.(TrackRequest)
	if !ok {
		return fmt.Errorf("unexpected task %T", task)
	}
	ctx, cancel := context.WithTimeout(context.Background(), trackTimeout)
	defer cancel()
	return t.Track(ctx, req)
}

// Track emits the events for req synchronously. The label is the transaction type
// reported by the details fetcher.
func (t *TxTracker) Track(ctx context.Context, req TrackRequest) error {
	label := ""
	if req.TxID != "" && t.fetcher != nil {
		details, err := t.fetcher.GetTxDetails(ctx, req.TxID)
		if err != nil {
			logger.Warn("could not fetch tx details for analytics", zap.String("txId", req.TxID), zap.Error(err))
		} else {
			label = details.TxType
		}
	}
	for _, action := range TxActions(req) {
		t.collector.TrackEvent(Event{
			Action:   action,
			Category: TX_CATEGORY,
			Label:    label,
		})
	}
	return nil
}
