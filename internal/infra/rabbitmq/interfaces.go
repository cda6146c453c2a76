package rabbitmq

import (
	"context"

	"github.com/streadway/amqp"
)

type PublisherInterface interface {
	Publish(ctx context.Context, routingKey string, data any) error
}

var _ PublisherInterface = (*Publisher)(nil)
var _ PublisherInterface = NoopPublisher{}
var _ Channel = (*amqp.Channel)(nil)
