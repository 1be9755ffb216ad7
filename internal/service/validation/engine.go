package validation

import (
	"context"
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

// priceTolerance — допустимое абсолютное расхождение цен и итога.
const priceTolerance = 0.01

// validatedBy — идентификатор валидатора для автоматических проверок.
const validatedBy = "system"

// Engine прогоняет четыре независимых правила по снимку заказа и
// выносит вердикт. Правила изолированы: сбой одного (включая панику
// клиента) превращается в ошибку этого правила и не мешает остальным.
type Engine struct {
	users    domain.UserService
	products domain.ProductService
	repo     domain.ValidationRepository
	logger   *log.Entry
}

// NewEngine создаёт движок валидации.
func NewEngine(users domain.UserService, products domain.ProductService, repo domain.ValidationRepository, logger *log.Entry) *Engine {
	if logger == nil {
		logger = log.New().WithField("component", "validation")
	}
	return &Engine{
		users:    users,
		products: products,
		repo:     repo,
		logger:   logger,
	}
}

// Validate выполняет все правила, сохраняет новую запись валидации и
// возвращает вердикт. Каждая валидация — отдельная запись: повторный
// запрос по тому же заказу истории не перетирает.
func (e *Engine) Validate(ctx context.Context, req domain.ValidationRequest) (domain.ValidationResult, error) {
	v := domain.NewOrderValidation(req.OrderID)

	e.runRule(v, domain.RuleUserVerification, func() {
		e.checkUser(ctx, v, req.UserID)
	})
	e.runRule(v, domain.RuleProductAvailability, func() {
		e.checkProducts(ctx, v, req.Items)
	})
	e.runRule(v, domain.RuleStockAvailability, func() {
		e.checkStock(ctx, v, req.Items)
	})
	e.runRule(v, domain.RulePriceValidation, func() {
		e.checkPrices(ctx, v, req.Items, req.Total)
	})

	if v.IsComplete() && len(v.Errors) == 0 {
		v.Approve(validatedBy)
	} else {
		v.Reject(validatedBy)
	}

	if err := e.repo.Create(*v); err != nil {
		return domain.ValidationResult{}, fmt.Errorf("save validation: %w", err)
	}

	message := "Order validation completed"
	if len(v.Errors) > 0 {
		message = "Order validation failed"
	}

	e.logger.WithFields(log.Fields{
		"order_id":   req.OrderID,
		"status":     v.Status,
		"errors_cnt": len(v.Errors),
	}).Info("order validated")

	return domain.ValidationResult{
		ValidationID: v.ID,
		OrderID:      v.OrderID,
		IsValid:      v.Status == domain.ValidationStatusApproved,
		Errors:       v.Errors,
		Message:      message,
	}, nil
}

// runRule изолирует выполнение правила: паника клиента превращается в
// ошибку правила, остальные правила продолжают работать.
func (e *Engine) runRule(v *domain.OrderValidation, rule domain.ValidationRule, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.WithField("rule", rule).Errorf("validation rule panicked: %v", r)
			v.AddError(rule, fmt.Sprintf("Error validating %s: %v", rule, r), "", "")
		}
	}()
	fn()
}

// checkUser: пользователь существует и активен.
func (e *Engine) checkUser(ctx context.Context, v *domain.OrderValidation, userID string) {
	user, err := e.users.Get(ctx, userID)
	switch {
	case err == nil && !user.IsActive:
		v.AddError(domain.RuleUserVerification, "User account is not active", "user_id", userID)
	case err == nil:
		v.MarkRuleValidated(domain.RuleUserVerification)
	case domain.IsNotFound(err):
		v.AddError(domain.RuleUserVerification, "User not found", "user_id", userID)
	default:
		v.AddError(domain.RuleUserVerification, "Unable to verify user", "user_id", userID)
	}
}

// checkProducts: каждый товар существует и активен. Правило считается
// выполненным, только если к этому моменту не накопилось ни одной
// ошибки — семантика исходного валидатора сохранена намеренно.
func (e *Engine) checkProducts(ctx context.Context, v *domain.OrderValidation, items []domain.OrderCreateItem) {
	for _, item := range items {
		product, err := e.products.Get(ctx, item.ProductID)
		switch {
		case domain.IsNotFound(err):
			v.AddError(domain.RuleProductAvailability,
				fmt.Sprintf("Product not found: %s", item.ProductID), "product_id", item.ProductID)
		case err != nil:
			v.AddError(domain.RuleProductAvailability,
				fmt.Sprintf("Unable to verify product: %s", item.ProductID), "product_id", item.ProductID)
		case !product.IsActive:
			v.AddError(domain.RuleProductAvailability,
				fmt.Sprintf("Product is not available: %s", item.ProductID), "product_id", item.ProductID)
		}
	}

	if len(v.Errors) == 0 {
		v.MarkRuleValidated(domain.RuleProductAvailability)
	}
}

// checkStock: доступный остаток покрывает запрошенное количество.
// Правило независимо от product_availability: выполнено, если нет
// ошибок именно этого правила.
func (e *Engine) checkStock(ctx context.Context, v *domain.OrderValidation, items []domain.OrderCreateItem) {
	for _, item := range items {
		stock, err := e.products.GetStock(ctx, item.ProductID)
		if err != nil {
			v.AddError(domain.RuleStockAvailability,
				fmt.Sprintf("Unable to check stock for product: %s", item.ProductID), "product_id", item.ProductID)
			continue
		}
		if stock.AvailableStock < item.Quantity {
			v.AddError(domain.RuleStockAvailability,
				fmt.Sprintf("Insufficient stock for product %s. Available: %d, Requested: %d",
					item.ProductID, stock.AvailableStock, item.Quantity),
				"quantity", fmt.Sprintf("%d", item.Quantity))
		}
	}

	if !v.HasRuleError(domain.RuleStockAvailability) {
		v.MarkRuleValidated(domain.RuleStockAvailability)
	}
}

// checkPrices: цена каждой позиции и итог сверяются с текущими ценами
// сервиса товаров с допуском priceTolerance. Итог пересчитывается по
// текущим ценам.
func (e *Engine) checkPrices(ctx context.Context, v *domain.OrderValidation, items []domain.OrderCreateItem, total float64) {
	var calculated float64

	for _, item := range items {
		product, err := e.products.Get(ctx, item.ProductID)
		if err != nil {
			v.AddError(domain.RulePriceValidation,
				fmt.Sprintf("Unable to verify price for product: %s", item.ProductID), "product_id", item.ProductID)
			continue
		}

		if math.Abs(product.Price-item.UnitPrice) > priceTolerance {
			v.AddError(domain.RulePriceValidation,
				fmt.Sprintf("Price mismatch for product %s. Current: %.2f, Provided: %.2f",
					item.ProductID, product.Price, item.UnitPrice),
				"unit_price", fmt.Sprintf("%.2f", item.UnitPrice))
		}

		calculated += product.Price * float64(item.Quantity)
	}

	if math.Abs(calculated-total) > priceTolerance {
		v.AddError(domain.RulePriceValidation,
			fmt.Sprintf("Total amount mismatch. Calculated: %.2f, Provided: %.2f", calculated, total),
			"total", fmt.Sprintf("%.2f", total))
	}

	if !v.HasRuleError(domain.RulePriceValidation) {
		v.MarkRuleValidated(domain.RulePriceValidation)
	}
}
