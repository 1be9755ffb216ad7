package app

import (
	"context"

	log "github.com/sirupsen/logrus"

	healthcheck "github.com/vladislavdragonenkov/checkout/internal/health"
	"github.com/vladislavdragonenkov/checkout/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/checkout/internal/service/order"
	"github.com/vladislavdragonenkov/checkout/internal/service/outbox"
	"github.com/vladislavdragonenkov/checkout/internal/transport/rest"
	"github.com/vladislavdragonenkov/checkout/internal/version"
)

// RunOrderService запускает сервис заказов: хранилище по конфигурации,
// REST-маршруты и outbox-воркер при наличии Kafka. Блокируется до отмены
// контекста.
func RunOrderService(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "order-service")

	deps, err := initRuntimeDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if deps.closeFn != nil {
		defer func() { _ = deps.closeFn() }()
	}

	producer, kafkaErr := initKafkaProducer(cfg.KafkaBrokers, logger)
	defer closeKafka(producer, logger)

	svc := order.NewService(deps.orderRepo, deps.outboxRepo, log.StandardLogger())

	// Outbox публикуется только при живом Kafka: без брокера события
	// копятся в pending и уходят после рестарта с брокером.
	if producer != nil && kafkaErr == nil {
		publisher := kafka.NewOutboxPublisher(producer, cfg.KafkaTopic)
		worker := outbox.NewWorker(deps.outboxRepo, publisher,
			outbox.WithLogger(logger.WithField("layer", "outbox")),
			outbox.WithPollInterval(cfg.OutboxPollInterval),
			outbox.WithBatchSize(cfg.OutboxBatchSize),
			outbox.WithMaxAttempts(cfg.OutboxMaxAttempts),
			outbox.WithRetryBaseDelay(cfg.OutboxRetryDelay),
		)
		go worker.Run(ctx)
	}

	handler := rest.NewOrderHandler(svc, logger.WithField("layer", "rest"))
	router := rest.NewOrderRouter(handler)

	v, _, _ := version.Info()
	healthHandler := healthcheck.NewHandler(v)
	if deps.storageChecker != nil {
		healthHandler.RegisterChecker("storage", deps.storageChecker)
	}

	return serveHTTP(ctx, cfg, router, healthHandler, logger)
}
