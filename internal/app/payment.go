package app

import (
	"context"

	log "github.com/sirupsen/logrus"

	healthcheck "github.com/vladislavdragonenkov/checkout/internal/health"
	"github.com/vladislavdragonenkov/checkout/internal/service/payment"
	"github.com/vladislavdragonenkov/checkout/internal/transport/rest"
	"github.com/vladislavdragonenkov/checkout/internal/version"
)

// RunPaymentService запускает сервис платежей с мок-шлюзом.
// NOTE: в production мок-шлюз заменяется на клиента реального PSP.
func RunPaymentService(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "payment-service")

	deps, err := initRuntimeDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if deps.closeFn != nil {
		defer func() { _ = deps.closeFn() }()
	}

	processor := payment.NewProcessor(deps.paymentRepo, payment.NewMockGateway(), log.StandardLogger())

	handler := rest.NewPaymentHandler(processor, logger.WithField("layer", "rest"))
	router := rest.NewPaymentRouter(handler)

	v, _, _ := version.Info()
	healthHandler := healthcheck.NewHandler(v)
	if deps.storageChecker != nil {
		healthHandler.RegisterChecker("storage", deps.storageChecker)
	}

	return serveHTTP(ctx, cfg, router, healthHandler, logger)
}
