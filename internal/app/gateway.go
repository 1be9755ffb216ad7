package app

import (
	"context"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/checkout/internal/clients"
	healthcheck "github.com/vladislavdragonenkov/checkout/internal/health"
	"github.com/vladislavdragonenkov/checkout/internal/metrics"
	"github.com/vladislavdragonenkov/checkout/internal/service/checkout"
	"github.com/vladislavdragonenkov/checkout/internal/transport/rest"
	"github.com/vladislavdragonenkov/checkout/internal/version"
)

const clientTimeout = 10 * time.Second

// RunGateway запускает API gateway: HTTP-клиенты ко всем downstream-сервисам,
// оркестратор саги и REST-маршруты checkout. Блокируется до отмены контекста.
func RunGateway(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "gateway")

	httpClient := &http.Client{Timeout: clientTimeout}

	orders := clients.NewOrderClient(cfg.OrderServiceURL, httpClient)
	validations := clients.NewValidationClient(cfg.ValidationServiceURL, httpClient)
	// Платёжному клиенту нужен собственный, более длинный таймаут:
	// банковский перевод в шлюзе заметно медленнее остальных вызовов.
	payments := clients.NewPaymentClient(cfg.PaymentServiceURL, nil)
	products := clients.NewProductClient(cfg.ProductServiceURL, httpClient)
	carts := clients.NewCartClient(cfg.CartServiceURL, httpClient)
	deliveries := clients.NewDeliveryClient(cfg.DeliveryServiceURL, httpClient)

	opts := []checkout.Option{
		checkout.WithMetrics(metrics.NewCheckoutMetrics()),
	}

	producer, err := initKafkaProducer(cfg.KafkaBrokers, logger)
	if err == nil && producer != nil {
		opts = append(opts, checkout.WithKafkaProducer(producer))
	}
	defer closeKafka(producer, logger)

	orchestrator := checkout.NewOrchestrator(
		orders,
		validations,
		payments,
		carts,
		products,
		deliveries,
		logger.WithField("layer", "saga"),
		opts...,
	)

	handler := rest.NewGatewayHandler(orchestrator, logger.WithField("layer", "rest"))
	router := rest.NewGatewayRouter(handler)

	v, _, _ := version.Info()
	healthHandler := healthcheck.NewHandler(v)

	return serveHTTP(ctx, cfg, router, healthHandler, logger)
}
