// Package notify implements best-effort broadcast of mutation events to
// connected observers. Delivery is never guaranteed and publish failures are
// logged and swallowed; no mutating operation depends on notifier success.
package notify

// Event names, one per mutation kind. Browser clients subscribe to these
// over the SSE stream.
const (
	EventProductAdded           = "productAdded"
	EventProductUpdated         = "productUpdated"
	EventProductDeleted         = "productDeleted"
	EventCartUpdated            = "cartUpdated"
	EventCartEmptied            = "cartEmptied"
	EventProductRemovedFromCart = "productRemovedFromCart"
	EventProductQuantityUpdated = "productQuantityUpdated"
)

// Event carries a named mutation and the affected entity or id.
type Event struct {
	Name    string `json:"event"`
	Payload any    `json:"payload"`
}
