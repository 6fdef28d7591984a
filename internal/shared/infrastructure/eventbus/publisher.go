package eventbus

import "context"

// Publisher hands an encoded envelope to a transport.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload []byte) error
	Close() error
}
