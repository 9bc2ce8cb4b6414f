package worker

import (
	"context"
	"sync"
	"time"

	"github.com/waypointlabs/prizehunt/internal/logger"
)

// RedemptionExpirer cancels pending redemptions past their expiry.
type RedemptionExpirer interface {
	ExpireStale(ctx context.Context) (int, error)
}

// HoldSweeper releases stock holds abandoned longer than a TTL.
type HoldSweeper interface {
	SweepStaleHolds(ctx context.Context, ttl time.Duration) (int64, error)
}

// SweepWorker periodically runs the two reconciliation sweeps: expiring stale
// redemptions and returning abandoned stock holds. Both sweeps are idempotent,
// so overlapping instances across replicas are safe.
type SweepWorker struct {
	expirer  RedemptionExpirer
	sweeper  HoldSweeper
	interval time.Duration
	holdTTL  time.Duration

	shutdown chan struct{}
	wg       sync.WaitGroup
}

// NewSweepWorker creates a new SweepWorker
func NewSweepWorker(expirer RedemptionExpirer, sweeper HoldSweeper, interval, holdTTL time.Duration) *SweepWorker {
	return &SweepWorker{
		expirer:  expirer,
		sweeper:  sweeper,
		interval: interval,
		holdTTL:  holdTTL,
		shutdown: make(chan struct{}),
	}
}

// Start launches the sweep loop
func (w *SweepWorker) Start() {
	w.wg.Add(1)
	go w.loop()
}

func (w *SweepWorker) loop() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.runOnce(context.Background())
		case <-w.shutdown:
			return
		}
	}
}

func (w *SweepWorker) runOnce(ctx context.Context) {
	log := logger.FromContext(ctx)
	log.Debug(LogMsgSweepStarting)

	expired, err := w.expirer.ExpireStale(ctx)
	if err != nil {
		log.Error(LogMsgRedemptionSweepError, "error", err)
	}

	released, err := w.sweeper.SweepStaleHolds(ctx, w.holdTTL)
	if err != nil {
		log.Error(LogMsgHoldSweepError, "error", err)
	}

	if expired > 0 || released > 0 {
		log.Info(LogMsgSweepCompleted, "redemptions_expired", expired, "holds_released", released)
	}
}

// Stop stops the sweep loop and waits for an in-flight sweep to finish
func (w *SweepWorker) Stop() {
	close(w.shutdown)
	w.wg.Wait()
}
