package kafkamiddleware

import (
	"context"
	"time"

	"carrental/pkg/kafka"
	"carrental/pkg/metrics"
)

const (
	directionProduce = "produce"
	directionConsume = "consume"
)

func MetricsProducerMiddleware() kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next kafka.MessageHandler) error {
		start := time.Now()
		err := next(ctx, msg)
		metrics.ObserveKafka(directionProduce, msg.Topic, err, time.Since(start))
		return err
	}
}

func MetricsConsumerMiddleware() kafka.ConsumerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next kafka.MessageHandler) error {
		start := time.Now()
		err := next(ctx, msg)
		metrics.ObserveKafka(directionConsume, msg.Topic, err, time.Since(start))
		return err
	}
}
