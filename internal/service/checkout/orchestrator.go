package checkout

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
	"github.com/vladislavdragonenkov/checkout/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/checkout/internal/metrics"
)

// Request — запрос checkout с явным списком позиций.
// Payment == nil означает оплату наличными по умолчанию.
type Request struct {
	UserID  string
	Items   []domain.OrderCreateItem
	Payment *domain.PaymentDetails
}

// CartSummary — сводка по корзине для ответа from-cart варианта.
type CartSummary struct {
	CartID     string
	ItemsCount int
}

// Result — составной результат успешной саги.
type Result struct {
	Order      domain.Order
	Payment    domain.PaymentResult
	Validation domain.ValidationResult
	Cart       *CartSummary
}

// Orchestrator ведёт сагу checkout: create → validate → pay → finalize.
// Шаги строго последовательны, без ретраев и без компенсаций: отказ
// валидации или платежа оставляет заказ в creada, провал финализации
// оставляет подтверждённое списание при неоплаченном заказе. Это
// осознанное сужение, а не баг; усиление гарантий — отдельное расширение.
type Orchestrator struct {
	orders      domain.OrderService
	validations domain.ValidationService
	payments    domain.PaymentService
	carts       domain.CartService
	products    domain.ProductService
	deliveries  domain.DeliveryService
	logger      *log.Entry
	metrics     *metrics.CheckoutMetrics
	producer    *kafka.Producer // опциональный producer событий саги
}

// Option настраивает Orchestrator.
type Option func(*Orchestrator)

// WithMetrics включает prometheus-метрики саги.
func WithMetrics(m *metrics.CheckoutMetrics) Option {
	return func(o *Orchestrator) {
		o.metrics = m
	}
}

// WithKafkaProducer включает публикацию событий жизненного цикла саги.
func WithKafkaProducer(p *kafka.Producer) Option {
	return func(o *Orchestrator) {
		o.producer = p
	}
}

// NewOrchestrator создаёт рабочий экземпляр оркестратора.
func NewOrchestrator(
	orders domain.OrderService,
	validations domain.ValidationService,
	payments domain.PaymentService,
	carts domain.CartService,
	products domain.ProductService,
	deliveries domain.DeliveryService,
	logger *log.Entry,
	opts ...Option,
) *Orchestrator {
	if logger == nil {
		logger = log.New().WithField("component", "checkout")
	}
	o := &Orchestrator{
		orders:      orders,
		validations: validations,
		payments:    payments,
		carts:       carts,
		products:    products,
		deliveries:  deliveries,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run выполняет сагу для явно переданных позиций.
func (o *Orchestrator) Run(ctx context.Context, req Request) (Result, error) {
	return o.run(ctx, req, nil)
}

// RunFromCart выполняет сагу по активной корзине пользователя: читает
// корзину и её позиции, дорешивает отсутствующие цены через сервис
// товаров и дальше идёт по общему скелету. Оплата — cash.
//
// Конкурентный checkout одной и той же корзины не сериализуется: два
// параллельных вызова могут прочитать одинаковое содержимое и создать
// два заказа. Single-writer guard по корзине — открытое расширение.
func (o *Orchestrator) RunFromCart(ctx context.Context, userID string) (Result, error) {
	cart, err := o.carts.GetByUser(ctx, userID)
	if err != nil {
		if domain.IsNotFound(err) {
			return Result{}, notFoundErr(domain.CheckoutStepCreateOrder, "Active cart not found for user", err)
		}
		return Result{}, transportErr(domain.CheckoutStepCreateOrder, "Active cart not found for user", err)
	}

	cartItems, err := o.carts.GetItems(ctx, cart.ID)
	if err != nil {
		return Result{}, transportErr(domain.CheckoutStepCreateOrder, "Cart items lookup failed", err)
	}

	items := make([]domain.OrderCreateItem, 0, len(cartItems))
	for _, ci := range cartItems {
		unitPrice := 0.0
		if ci.UnitPrice != nil {
			unitPrice = *ci.UnitPrice
		} else {
			product, err := o.products.Get(ctx, ci.ProductID)
			if err != nil {
				return Result{}, transportErr(domain.CheckoutStepCreateOrder, "Product price lookup failed", err)
			}
			unitPrice = product.Price
		}
		items = append(items, domain.OrderCreateItem{
			ProductID: ci.ProductID,
			Quantity:  ci.Quantity,
			UnitPrice: unitPrice,
		})
	}

	summary := &CartSummary{CartID: cart.ID, ItemsCount: len(cartItems)}
	return o.run(ctx, Request{UserID: userID, Items: items}, summary)
}

// run — общий скелет саги. Порядок шагов и точки останова фиксированы
// контрактом: create → validate → pay → finalize.
func (o *Orchestrator) run(ctx context.Context, req Request, cart *CartSummary) (Result, error) {
	start := time.Now()
	if o.metrics != nil {
		o.metrics.RecordCheckoutStarted()
	}
	defer func() {
		if o.metrics != nil {
			o.metrics.RecordCheckoutDuration(time.Since(start))
			o.metrics.RecordCheckoutInFlightFinished()
		}
	}()

	// 1) Создание заказа. Компенсировать нечего: до этого шага
	// ни один downstream-сервис не затронут.
	order, err := o.createOrder(ctx, req)
	if err != nil {
		o.failCheckout("", err)
		return Result{}, err
	}

	logger := o.logger.WithField("order_id", order.ID)
	o.publishEvent(kafka.EventTypeCheckoutStarted, order.ID, map[string]interface{}{
		"user_id":     req.UserID,
		"items_count": len(req.Items),
	})

	// 2) Валидация заказа. Отказ оставляет заказ в creada: автоматической
	// отмены нет.
	validation, err := o.validateOrder(ctx, order, req)
	if err != nil {
		o.failCheckout(order.ID, err)
		return Result{}, err
	}

	// 3) Платёж. Отказ — тоже без компенсации, заказ остаётся creada.
	payment, err := o.processPayment(ctx, order, req)
	if err != nil {
		o.failCheckout(order.ID, err)
		return Result{}, err
	}

	// 4) Финализация. Провал здесь — окно несогласованности: списание уже
	// подтверждено, а заказ так и не перейдёт в pagada.
	updated, err := o.finalizeOrder(ctx, order.ID)
	if err != nil {
		logger.WithError(err).Error("finalize failed after approved payment, order left unpaid")
		o.failCheckout(order.ID, err)
		return Result{}, err
	}

	logger.WithFields(log.Fields{
		"payment_id": payment.PaymentID,
		"total":      updated.Total,
	}).Info("checkout completed")
	if o.metrics != nil {
		o.metrics.RecordCheckoutCompleted()
	}
	o.publishEvent(kafka.EventTypeCheckoutCompleted, order.ID, map[string]interface{}{
		"payment_id": payment.PaymentID,
		"total":      updated.Total,
	})

	return Result{Order: updated, Payment: payment, Validation: validation, Cart: cart}, nil
}

func (o *Orchestrator) createOrder(ctx context.Context, req Request) (domain.Order, error) {
	stepStart := time.Now()
	order, err := o.orders.Create(ctx, req.UserID, req.Items)
	o.recordStep(domain.CheckoutStepCreateOrder, stepStart)
	if err != nil {
		return domain.Order{}, transportErr(domain.CheckoutStepCreateOrder, "Order creation failed", err)
	}
	return order, nil
}

func (o *Orchestrator) validateOrder(ctx context.Context, order domain.Order, req Request) (domain.ValidationResult, error) {
	stepStart := time.Now()
	result, err := o.validations.Validate(ctx, domain.ValidationRequest{
		OrderID: order.ID,
		UserID:  req.UserID,
		Items:   req.Items,
		Total:   order.Total,
	})
	o.recordStep(domain.CheckoutStepValidate, stepStart)
	if err != nil {
		return domain.ValidationResult{}, transportErr(domain.CheckoutStepValidate, "Order validation failed", err)
	}
	if !result.IsValid {
		return domain.ValidationResult{}, rejectedErr(domain.CheckoutStepValidate, "Order validation failed", result)
	}
	return result, nil
}

func (o *Orchestrator) processPayment(ctx context.Context, order domain.Order, req Request) (domain.PaymentResult, error) {
	details := domain.PaymentDetails{Method: domain.PaymentMethodCash, Currency: "USD"}
	if req.Payment != nil {
		details = *req.Payment
	}

	stepStart := time.Now()
	result, err := o.payments.Process(ctx, domain.PaymentProcessRequest{
		OrderID: order.ID,
		UserID:  req.UserID,
		Amount:  order.Total,
		Details: details,
	})
	o.recordStep(domain.CheckoutStepPay, stepStart)
	if err != nil {
		return domain.PaymentResult{}, transportErr(domain.CheckoutStepPay, "Payment processing failed", err)
	}
	if !result.Success {
		return domain.PaymentResult{}, rejectedErr(domain.CheckoutStepPay, "Payment rejected", result)
	}
	return result, nil
}

func (o *Orchestrator) finalizeOrder(ctx context.Context, orderID string) (domain.Order, error) {
	stepStart := time.Now()
	updated, err := o.orders.UpdateStatus(ctx, orderID, domain.OrderStatusPaid)
	o.recordStep(domain.CheckoutStepFinalize, stepStart)
	if err != nil {
		return domain.Order{}, transportErr(domain.CheckoutStepFinalize, "Order update failed", err)
	}
	return updated, nil
}

// Ship переводит заказ в enviada (одношаговый passthrough).
func (o *Orchestrator) Ship(ctx context.Context, orderID string) (domain.Order, error) {
	return o.patchStatus(ctx, orderID, domain.OrderStatusShipped)
}

// Deliver переводит заказ в entregada.
func (o *Orchestrator) Deliver(ctx context.Context, orderID string) (domain.Order, error) {
	return o.patchStatus(ctx, orderID, domain.OrderStatusDelivered)
}

// Cancel переводит заказ в cancelada.
func (o *Orchestrator) Cancel(ctx context.Context, orderID string) (domain.Order, error) {
	return o.patchStatus(ctx, orderID, domain.OrderStatusCancelled)
}

func (o *Orchestrator) patchStatus(ctx context.Context, orderID string, status domain.OrderStatus) (domain.Order, error) {
	order, err := o.orders.UpdateStatus(ctx, orderID, status)
	if err != nil {
		switch {
		case domain.IsNotFound(err):
			return domain.Order{}, notFoundErr(domain.CheckoutStepFinalize, "Order not found", err)
		case errors.Is(err, domain.ErrIllegalStatusTransition):
			return domain.Order{}, rejectedErr(domain.CheckoutStepFinalize, "Order update rejected", err.Error())
		}
		return domain.Order{}, transportErr(domain.CheckoutStepFinalize, "Order update failed", err)
	}
	return order, nil
}

// BookDelivery бронирует доставку для заказа через сервис доставки.
// Окно проверяется до вызова, чтобы не тратить сетевой hop на заведомо
// некорректное бронирование.
func (o *Orchestrator) BookDelivery(ctx context.Context, booking domain.DeliveryBooking) (domain.Delivery, error) {
	if err := domain.ValidateBookingWindow(booking.BookingStart, booking.BookingEnd); err != nil {
		return domain.Delivery{}, rejectedErr(domain.CheckoutStepFinalize, "Delivery booking failed", err.Error())
	}
	delivery, err := o.deliveries.Create(ctx, booking)
	if err != nil {
		return domain.Delivery{}, transportErr(domain.CheckoutStepFinalize, "Delivery booking failed", err)
	}
	return delivery, nil
}

// ChangeDeliveryState меняет состояние доставки.
func (o *Orchestrator) ChangeDeliveryState(ctx context.Context, deliveryID string, newState domain.DeliveryState) (domain.Delivery, error) {
	delivery, err := o.deliveries.ChangeState(ctx, deliveryID, newState)
	if err != nil {
		switch {
		case domain.IsNotFound(err):
			return domain.Delivery{}, notFoundErr(domain.CheckoutStepFinalize, "Delivery not found", err)
		case errors.Is(err, domain.ErrDeliveryStateTransition):
			return domain.Delivery{}, rejectedErr(domain.CheckoutStepFinalize, "Delivery state change rejected", err.Error())
		}
		return domain.Delivery{}, transportErr(domain.CheckoutStepFinalize, "Delivery state change failed", err)
	}
	return delivery, nil
}

// RefundPayment инициирует возврат средств через платёжный сервис.
func (o *Orchestrator) RefundPayment(ctx context.Context, paymentID string, req domain.RefundRequest) (domain.RefundResult, error) {
	result, err := o.payments.Refund(ctx, paymentID, req)
	if err != nil {
		if domain.IsNotFound(err) {
			return domain.RefundResult{}, notFoundErr(domain.CheckoutStepPay, "Payment not found", err)
		}
		return domain.RefundResult{}, transportErr(domain.CheckoutStepPay, "Refund failed", err)
	}
	if !result.Success {
		return domain.RefundResult{}, rejectedErr(domain.CheckoutStepPay, "Refund rejected", result)
	}
	return result, nil
}

func (o *Orchestrator) recordStep(step domain.CheckoutStep, start time.Time) {
	if o.metrics != nil {
		o.metrics.RecordStepDuration(string(step), time.Since(start))
	}
}

func (o *Orchestrator) failCheckout(orderID string, err error) {
	rejected := false
	if se, ok := err.(*StepError); ok && se.Kind == KindRejected {
		rejected = true
	}
	if o.metrics != nil {
		if rejected {
			o.metrics.RecordCheckoutRejected()
		} else {
			o.metrics.RecordCheckoutFailed()
		}
	}
	if orderID == "" {
		return
	}
	meta := map[string]interface{}{"reason": err.Error()}
	if se, ok := err.(*StepError); ok {
		meta["step"] = string(se.Step)
	}
	eventType := kafka.EventTypeCheckoutFailed
	if rejected {
		eventType = kafka.EventTypeCheckoutRejected
	}
	o.publishEvent(eventType, orderID, meta)
}

// publishEvent публикует событие саги в Kafka (если producer настроен).
func (o *Orchestrator) publishEvent(eventType kafka.EventType, orderID string, metadata map[string]interface{}) {
	if o.producer == nil {
		return
	}

	event := kafka.NewCheckoutEvent(eventType, orderID, metadata)
	if err := o.producer.PublishEvent(kafka.TopicCheckoutEvents, orderID, event); err != nil {
		// Kafka опциональна: ошибка публикации не прерывает сагу.
		o.logger.WithError(err).WithFields(log.Fields{
			"event_type": eventType,
			"order_id":   orderID,
		}).Warn("failed to publish checkout event to kafka")
	}
}
