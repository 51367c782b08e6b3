// Package jobs wires background work through Asynq. The only task today is
// the cart sweep that runs after a product delete.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// QueueDefault is the queue all tasks are enqueued on.
const QueueDefault = "default"

// TaskCartSweep removes line items referencing a deleted product from every
// cart.
const TaskCartSweep = "cart:sweep"

// CartSweepPayload identifies the deleted product to sweep.
type CartSweepPayload struct {
	ProductID string `json:"product_id"`
}

// NewCartSweepTask builds the sweep task for a deleted product id.
func NewCartSweepTask(productID string) (*asynq.Task, error) {
	payload, err := json.Marshal(CartSweepPayload{ProductID: productID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCartSweep, payload), nil
}
