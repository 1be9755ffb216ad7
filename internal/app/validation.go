package app

import (
	"context"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/checkout/internal/clients"
	healthcheck "github.com/vladislavdragonenkov/checkout/internal/health"
	"github.com/vladislavdragonenkov/checkout/internal/service/validation"
	"github.com/vladislavdragonenkov/checkout/internal/transport/rest"
	"github.com/vladislavdragonenkov/checkout/internal/version"
)

// RunValidationService запускает сервис валидации заказов: клиенты к
// сервисам пользователей и товаров, движок правил и REST-маршруты.
func RunValidationService(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "validation-service")

	deps, err := initRuntimeDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if deps.closeFn != nil {
		defer func() { _ = deps.closeFn() }()
	}

	httpClient := &http.Client{Timeout: clientTimeout}
	users := clients.NewUserClient(cfg.UserServiceURL, httpClient)
	products := clients.NewProductClient(cfg.ProductServiceURL, httpClient)

	engine := validation.NewEngine(users, products, deps.validationRepo, logger.WithField("layer", "engine"))

	handler := rest.NewValidationHandler(engine, deps.validationRepo, logger.WithField("layer", "rest"))
	router := rest.NewValidationRouter(handler)

	v, _, _ := version.Info()
	healthHandler := healthcheck.NewHandler(v)
	if deps.storageChecker != nil {
		healthHandler.RegisterChecker("storage", deps.storageChecker)
	}

	return serveHTTP(ctx, cfg, router, healthHandler, logger)
}
