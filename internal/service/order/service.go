package order

import (
	"context"
	"encoding/json"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
	"github.com/vladislavdragonenkov/checkout/internal/messaging/kafka"
)

// Service реализует use cases сервиса заказов: создание, чтение и переводы
// статуса по графу жизненного цикла. Каждая мутация кладёт событие в
// transactional outbox; публикацией занимается отдельный воркер.
type Service struct {
	repo   domain.OrderRepository
	outbox domain.OutboxRepository
	logger *log.Entry
}

var _ domain.OrderService = (*Service)(nil)

// NewService создаёт сервис заказов. outbox может быть nil: тогда события
// не записываются (режим для тестов и локального запуска без Kafka).
func NewService(repo domain.OrderRepository, outbox domain.OutboxRepository, logger *log.Logger) *Service {
	return &Service{
		repo:   repo,
		outbox: outbox,
		logger: logger.WithField("component", "order_service"),
	}
}

// Create создаёт заказ со статусом creada. Total всегда пересчитывается
// из позиций на стороне сервиса; значение клиента игнорируется. Пустой
// список позиций допустим: получается заказ с total 0, позиции можно
// добавить позже.
func (s *Service) Create(_ context.Context, userID string, items []domain.OrderCreateItem) (domain.Order, error) {
	if userID == "" {
		return domain.Order{}, domain.ErrUserIDRequired
	}

	order := domain.NewOrder(userID)
	for _, item := range items {
		if _, err := order.AddItem(item.ProductID, item.Quantity, item.UnitPrice); err != nil {
			return domain.Order{}, fmt.Errorf("item %s: %w", item.ProductID, err)
		}
	}

	if err := s.repo.Create(*order); err != nil {
		return domain.Order{}, fmt.Errorf("create order: %w", err)
	}

	s.logger.WithFields(log.Fields{
		"order_id": order.ID,
		"user_id":  order.UserID,
		"total":    order.Total,
		"items":    len(order.Items),
	}).Info("order created")

	s.enqueueEvent(kafka.EventTypeOrderCreated, *order)

	return *order, nil
}

// Get возвращает заказ по идентификатору.
func (s *Service) Get(_ context.Context, orderID string) (domain.Order, error) {
	return s.repo.Get(orderID)
}

// ListByUser возвращает заказы пользователя, новые первыми.
func (s *Service) ListByUser(_ context.Context, userID string, limit int) ([]domain.Order, error) {
	if userID == "" {
		return nil, domain.ErrUserIDRequired
	}
	return s.repo.ListByUser(userID, limit)
}

// UpdateStatus переводит заказ в новый статус. Переход вне графа
// жизненного цикла отклоняется с ErrIllegalStatusTransition, а заказ
// остаётся без изменений.
func (s *Service) UpdateStatus(_ context.Context, orderID string, status domain.OrderStatus) (domain.Order, error) {
	order, err := s.repo.Get(orderID)
	if err != nil {
		return domain.Order{}, err
	}

	if err := order.UpdateStatus(status); err != nil {
		return domain.Order{}, err
	}

	if err := s.repo.Save(order); err != nil {
		return domain.Order{}, fmt.Errorf("save order: %w", err)
	}

	s.logger.WithFields(log.Fields{
		"order_id": order.ID,
		"status":   order.Status,
	}).Info("order status updated")

	eventType := kafka.EventTypeOrderStatusChanged
	if status == domain.OrderStatusCancelled {
		eventType = kafka.EventTypeOrderCanceled
	}
	s.enqueueEvent(eventType, order)

	return order, nil
}

// enqueueEvent кладёт событие заказа в outbox. Ошибка записи не роняет
// операцию: событие аудиторское, а не координирующее.
func (s *Service) enqueueEvent(eventType kafka.EventType, order domain.Order) {
	if s.outbox == nil {
		return
	}

	event := kafka.NewOrderEvent(eventType, order.ID, order.UserID, string(order.Status), map[string]interface{}{
		"total": order.Total,
	})
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Warn("failed to marshal order event")
		return
	}

	if _, err := s.outbox.Enqueue(domain.OutboxMessage{
		AggregateType: "order",
		AggregateID:   order.ID,
		EventType:     string(eventType),
		Payload:       payload,
	}); err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Warn("failed to enqueue order event")
	}
}
