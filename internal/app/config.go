package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// StorageDriver выбирает реализацию хранилища.
type StorageDriver string

const (
	// StorageDriverMemory — in-memory репозитории (по умолчанию, для
	// локального запуска и тестов).
	StorageDriverMemory StorageDriver = "memory"
	// StorageDriverPostgres — PostgreSQL через database/sql поверх pgx.
	StorageDriverPostgres StorageDriver = "postgres"
)

// Config описывает настройки запуска одного сервиса. Каждый бинарь
// использует своё подмножество полей: gateway — адреса downstream-сервисов,
// in-house сервисы — storage и outbox.
type Config struct {
	HTTPAddr    string
	MetricsAddr string

	StorageDriver       StorageDriver
	PostgresDSN         string
	PostgresAutoMigrate bool

	KafkaBrokers string
	KafkaTopic   string

	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	OutboxMaxAttempts  int
	OutboxRetryDelay   time.Duration

	// Адреса downstream-сервисов (только для gateway; у validation —
	// user и product).
	OrderServiceURL      string
	ValidationServiceURL string
	PaymentServiceURL    string
	UserServiceURL       string
	ProductServiceURL    string
	CartServiceURL       string
	DeliveryServiceURL   string
}

// DefaultGatewayConfig возвращает настройки API gateway с портами сервисов
// из docker-compose окружения.
func DefaultGatewayConfig() Config {
	return Config{
		HTTPAddr:             ":8004",
		MetricsAddr:          ":9004",
		OrderServiceURL:      "http://order-service:8005",
		ValidationServiceURL: "http://order-validation-service:8006",
		PaymentServiceURL:    "http://payment-service:8007",
		UserServiceURL:       "http://user-service:8001",
		ProductServiceURL:    "http://product-service:8000",
		CartServiceURL:       "http://cart-service:8003",
		DeliveryServiceURL:   "http://delivery-service:8002",
	}
}

// DefaultOrderConfig возвращает настройки сервиса заказов.
func DefaultOrderConfig() Config {
	return Config{
		HTTPAddr:            ":8005",
		MetricsAddr:         ":9005",
		StorageDriver:       StorageDriverMemory,
		PostgresAutoMigrate: true,
		KafkaTopic:          "order-events",
		OutboxPollInterval:  time.Second,
		OutboxBatchSize:     100,
		OutboxMaxAttempts:   3,
		OutboxRetryDelay:    50 * time.Millisecond,
	}
}

// DefaultValidationConfig возвращает настройки сервиса валидации.
func DefaultValidationConfig() Config {
	return Config{
		HTTPAddr:            ":8006",
		MetricsAddr:         ":9006",
		StorageDriver:       StorageDriverMemory,
		PostgresAutoMigrate: true,
		UserServiceURL:      "http://user-service:8001",
		ProductServiceURL:   "http://product-service:8000",
	}
}

// DefaultPaymentConfig возвращает настройки сервиса платежей.
func DefaultPaymentConfig() Config {
	return Config{
		HTTPAddr:            ":8007",
		MetricsAddr:         ":9007",
		StorageDriver:       StorageDriverMemory,
		PostgresAutoMigrate: true,
	}
}

// LoadFromEnv накладывает переменные окружения поверх переданных
// значений по умолчанию и возвращает итоговую конфигурацию.
func LoadFromEnv(defaults Config) Config {
	cfg := defaults

	cfg.HTTPAddr = envOr("CHECKOUT_HTTP_ADDR", cfg.HTTPAddr)
	cfg.MetricsAddr = envOr("CHECKOUT_METRICS_ADDR", cfg.MetricsAddr)

	if v := strings.TrimSpace(os.Getenv("CHECKOUT_STORAGE_DRIVER")); v != "" {
		cfg.StorageDriver = StorageDriver(v)
	}
	cfg.PostgresDSN = envOr("CHECKOUT_POSTGRES_DSN", cfg.PostgresDSN)
	if v := strings.TrimSpace(os.Getenv("CHECKOUT_POSTGRES_AUTO_MIGRATE")); v != "" {
		cfg.PostgresAutoMigrate = v == "true" || v == "1"
	}

	cfg.KafkaBrokers = envOr("KAFKA_BROKERS", cfg.KafkaBrokers)
	cfg.KafkaTopic = envOr("CHECKOUT_KAFKA_TOPIC", cfg.KafkaTopic)

	cfg.OutboxPollInterval = envDurationOr("CHECKOUT_OUTBOX_POLL_INTERVAL", cfg.OutboxPollInterval)
	cfg.OutboxBatchSize = envIntOr("CHECKOUT_OUTBOX_BATCH_SIZE", cfg.OutboxBatchSize)
	cfg.OutboxMaxAttempts = envIntOr("CHECKOUT_OUTBOX_MAX_ATTEMPTS", cfg.OutboxMaxAttempts)
	cfg.OutboxRetryDelay = envDurationOr("CHECKOUT_OUTBOX_RETRY_DELAY", cfg.OutboxRetryDelay)

	cfg.OrderServiceURL = envOr("ORDER_SERVICE_URL", cfg.OrderServiceURL)
	cfg.ValidationServiceURL = envOr("ORDER_VALIDATION_SERVICE_URL", cfg.ValidationServiceURL)
	cfg.PaymentServiceURL = envOr("PAYMENT_SERVICE_URL", cfg.PaymentServiceURL)
	cfg.UserServiceURL = envOr("USER_SERVICE_URL", cfg.UserServiceURL)
	cfg.ProductServiceURL = envOr("PRODUCT_SERVICE_URL", cfg.ProductServiceURL)
	cfg.CartServiceURL = envOr("CART_SERVICE_URL", cfg.CartServiceURL)
	cfg.DeliveryServiceURL = envOr("DELIVERY_SERVICE_URL", cfg.DeliveryServiceURL)

	return cfg
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func envIntOr(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
