package cmd

import (
	"storefront/config"
	"storefront/infrastructure/messaging"
	"storefront/infrastructure/persistence/mysql"
	"storefront/pkg/logger"

	"go.uber.org/zap"
)

// NewOutboxPublisher returns the RabbitMQ publisher when rabbitmq.url is set,
// otherwise a publisher that only logs. The returned close func is never nil.
func NewOutboxPublisher(cfg *config.Config) (mysql.OutboxPublisher, func() error, error) {
	if cfg.RabbitMQ.URL == "" {
		logger.Warn("rabbitmq.url is empty; outbox events will only be logged")
		return &mysql.LoggingOutboxPublisher{}, func() error { return nil }, nil
	}

	publisher, err := messaging.Dial(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Publishing outbox events to RabbitMQ", zap.String("exchange", cfg.RabbitMQ.Exchange))
	return publisher, publisher.Close, nil
}
