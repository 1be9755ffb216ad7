package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
	healthcheck "github.com/vladislavdragonenkov/checkout/internal/health"
	"github.com/vladislavdragonenkov/checkout/internal/storage/memory"
	"github.com/vladislavdragonenkov/checkout/internal/storage/postgres"
)

// runtimeDependencies содержит репозитории, выбранные по StorageDriver.
// Каждый сервис использует своё подмножество.
type runtimeDependencies struct {
	orderRepo      domain.OrderRepository
	paymentRepo    domain.PaymentRepository
	validationRepo domain.ValidationRepository
	outboxRepo     domain.OutboxRepository
	storageChecker healthcheck.Checker
	closeFn        func() error
}

// initRuntimeDependencies создаёт репозитории по конфигурации. Для postgres
// открывает подключение и, если включён auto-migrate, применяет миграции.
func initRuntimeDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*runtimeDependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	switch cfg.StorageDriver {
	case StorageDriverMemory, "":
		logger.Info("используется in-memory хранилище")
		return &runtimeDependencies{
			orderRepo:      memory.NewOrderRepository(),
			paymentRepo:    memory.NewPaymentRepository(),
			validationRepo: memory.NewValidationRepository(),
			outboxRepo:     memory.NewOutboxRepository(),
		}, nil

	case StorageDriverPostgres:
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("postgres storage driver requires PostgresDSN")
		}

		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres storage: %w", err)
		}

		if cfg.PostgresAutoMigrate {
			if err := store.EnsureSchema(ctx); err != nil {
				_ = store.Close()
				return nil, fmt.Errorf("apply postgres migrations: %w", err)
			}
			logger.Info("postgres миграции применены")
		}

		logger.Info("используется postgres хранилище")
		return &runtimeDependencies{
			orderRepo:      postgres.NewOrderRepository(store),
			paymentRepo:    postgres.NewPaymentRepository(store),
			validationRepo: postgres.NewValidationRepository(store),
			outboxRepo:     postgres.NewOutboxRepository(store),
			storageChecker: healthcheck.NewSimpleChecker("storage", func() error {
				return store.Ping(context.Background())
			}),
			closeFn: store.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.StorageDriver)
	}
}
