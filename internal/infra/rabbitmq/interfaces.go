package rabbitmq

import "context"

// PublisherInterface sends an order event under its pattern, for example
// "order.placed". Callers treat failures as best-effort.
type PublisherInterface interface {
	Publish(ctx context.Context, pattern string, event any) error
}

var (
	_ PublisherInterface = (*Publisher)(nil)
	_ PublisherInterface = LogPublisher{}
)
