package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
)

// CartSweeper strips a deleted product from every cart. Satisfied by the
// cart service.
type CartSweeper interface {
	SweepProduct(ctx context.Context, productID string) ([]string, error)
}

// CartSweepJob handles cart:sweep tasks.
type CartSweepJob struct {
	carts   CartSweeper
	logger  *slog.Logger
	metrics *Metrics
}

// NewCartSweepJob constructs the sweep handler. Metrics may be nil.
func NewCartSweepJob(carts CartSweeper, logger *slog.Logger, metrics *Metrics) *CartSweepJob {
	return &CartSweepJob{carts: carts, logger: logger, metrics: metrics}
}

// Handle processes one sweep task. Failures are returned so Asynq retries.
func (j *CartSweepJob) Handle(ctx context.Context, task *asynq.Task) error {
	tracker := j.metrics.Track(TaskCartSweep)

	var payload CartSweepPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return tracker.End(fmt.Errorf("cart sweep: decode payload: %w", err))
	}
	if payload.ProductID == "" {
		return tracker.End(fmt.Errorf("cart sweep: empty product id"))
	}

	affected, err := j.carts.SweepProduct(ctx, payload.ProductID)
	if err != nil {
		return tracker.End(fmt.Errorf("cart sweep %s: %w", payload.ProductID, err))
	}
	j.logger.Info("cart sweep finished",
		slog.String("product_id", payload.ProductID),
		slog.Int("carts_updated", len(affected)))
	return tracker.End(nil)
}
