// Package sideeffect dispatches post-commit work: event publication,
// progression checks, and achievement checks. Dispatch is best-effort by
// policy. The owning transaction has already committed, so failures here are
// logged and counted, never propagated back to the caller.
package sideeffect

import (
	"context"

	"github.com/google/uuid"

	"github.com/waypointlabs/prizehunt/internal/domain"
	"github.com/waypointlabs/prizehunt/internal/event"
	"github.com/waypointlabs/prizehunt/internal/logger"
	"github.com/waypointlabs/prizehunt/internal/metrics"
	"github.com/waypointlabs/prizehunt/internal/worker"
)

// Task labels for the failure metric.
const (
	TaskPublish     = "publish"
	TaskProgression = "progression"
	TaskAchievement = "achievement"
)

// ProgressionChecker runs the post-commit level check.
type ProgressionChecker interface {
	CheckLevelUp(ctx context.Context, userID uuid.UUID) error
}

// AchievementService receives committed gameplay facts for achievement
// evaluation. Implementations must be safe to call concurrently.
type AchievementService interface {
	OnCapture(ctx context.Context, payload domain.PrizeCapturedPayload) error
	OnPurchase(ctx context.Context, payload domain.ItemPurchasedPayload) error
}

// NoopAchievements satisfies AchievementService until a real backend exists.
type NoopAchievements struct{}

func (NoopAchievements) OnCapture(context.Context, domain.PrizeCapturedPayload) error { return nil }
func (NoopAchievements) OnPurchase(context.Context, domain.ItemPurchasedPayload) error {
	return nil
}

// Pool is the subset of the worker pool the dispatcher uses.
type Pool interface {
	TryEnqueue(job worker.Job) bool
}

// Dispatcher fans committed transactions out to the side-effect workers.
type Dispatcher struct {
	pool         Pool
	publisher    event.Bus
	progression  ProgressionChecker
	achievements AchievementService
}

// NewDispatcher creates a new Dispatcher
func NewDispatcher(pool Pool, publisher event.Bus, progression ProgressionChecker, achievements AchievementService) *Dispatcher {
	if achievements == nil {
		achievements = NoopAchievements{}
	}
	return &Dispatcher{
		pool:         pool,
		publisher:    publisher,
		progression:  progression,
		achievements: achievements,
	}
}

// CaptureCommitted dispatches the side effects of a committed capture.
func (d *Dispatcher) CaptureCommitted(ctx context.Context, result *domain.CaptureResult) {
	d.enqueue(ctx, &captureJob{dispatcher: d, result: result})
}

// PurchaseCommitted dispatches the side effects of a committed purchase.
func (d *Dispatcher) PurchaseCommitted(ctx context.Context, redemption *domain.Redemption) {
	d.enqueue(ctx, &purchaseJob{dispatcher: d, redemption: redemption})
}

// RedemptionClosed dispatches the notification for a redemption leaving pending.
func (d *Dispatcher) RedemptionClosed(ctx context.Context, redemption *domain.Redemption) {
	d.enqueue(ctx, &redemptionClosedJob{dispatcher: d, redemption: redemption})
}

// enqueue never blocks the request path: a full queue drops the job.
func (d *Dispatcher) enqueue(ctx context.Context, job worker.Job) {
	if !d.pool.TryEnqueue(job) {
		metrics.SideEffectsDropped.Inc()
		logger.FromContext(ctx).Warn("Side effect dropped, worker queue full")
	}
}

func (d *Dispatcher) publish(ctx context.Context, evt event.Event) {
	if err := d.publisher.Publish(ctx, evt); err != nil {
		metrics.SideEffectFailures.WithLabelValues(TaskPublish).Inc()
		logger.FromContext(ctx).Error("Side effect publish failed", "event_type", evt.Type, "error", err)
	}
}

type captureJob struct {
	dispatcher *Dispatcher
	result     *domain.CaptureResult
}

func (j *captureJob) Process(ctx context.Context) error {
	d := j.dispatcher
	claim := j.result.Claim

	d.publish(ctx, event.NewPrizeCapturedEvent(claim, j.result.RewardGranted))
	if j.result.RewardGranted && j.result.Redemption != nil {
		d.publish(ctx, event.NewRewardGrantedEvent(
			claim.UserID.String(),
			claim.PrizeID.String(),
			j.result.Redemption.RewardID.String(),
			j.result.Redemption.ID.String(),
		))
	}

	if err := d.progression.CheckLevelUp(ctx, claim.UserID); err != nil {
		metrics.SideEffectFailures.WithLabelValues(TaskProgression).Inc()
		logger.FromContext(ctx).Error("Progression check failed", "user_id", claim.UserID, "error", err)
	}

	if err := d.achievements.OnCapture(ctx, domain.PrizeCapturedPayload{
		UserID:          claim.UserID.String(),
		PrizeID:         claim.PrizeID.String(),
		ClaimID:         claim.ID.String(),
		PointsAwarded:   claim.PointsAwarded,
		RewardGranted:   j.result.RewardGranted,
		ValidationScore: claim.ValidationScore,
		DistanceMeters:  claim.DistanceMeters,
	}); err != nil {
		metrics.SideEffectFailures.WithLabelValues(TaskAchievement).Inc()
		logger.FromContext(ctx).Error("Achievement check failed", "user_id", claim.UserID, "error", err)
	}

	return nil
}

type purchaseJob struct {
	dispatcher *Dispatcher
	redemption *domain.Redemption
}

func (j *purchaseJob) Process(ctx context.Context) error {
	d := j.dispatcher
	red := j.redemption

	d.publish(ctx, event.NewItemPurchasedEvent(red))

	if err := d.achievements.OnPurchase(ctx, domain.ItemPurchasedPayload{
		UserID:       red.UserID.String(),
		RewardID:     red.RewardID.String(),
		RedemptionID: red.ID.String(),
		PointsSpent:  red.PointsSpent,
		Quantity:     red.Quantity,
	}); err != nil {
		metrics.SideEffectFailures.WithLabelValues(TaskAchievement).Inc()
		logger.FromContext(ctx).Error("Achievement check failed", "user_id", red.UserID, "error", err)
	}

	return nil
}

type redemptionClosedJob struct {
	dispatcher *Dispatcher
	redemption *domain.Redemption
}

func (j *redemptionClosedJob) Process(ctx context.Context) error {
	j.dispatcher.publish(ctx, event.NewRedemptionClosedEvent(j.redemption))
	return nil
}
