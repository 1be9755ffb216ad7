package domain

import "time"

// OrderRepository — персистентность заказов (владеет сервис заказов).
type OrderRepository interface {
	Create(order Order) error
	Get(id string) (Order, error)
	ListByUser(userID string, limit int) ([]Order, error)
	Save(order Order) error
}

// PaymentRepository — персистентность платежей (владеет платёжный сервис).
type PaymentRepository interface {
	Create(payment Payment) error
	Get(id string) (Payment, error)
	Update(payment Payment) error
}

// ValidationRepository — персистентность записей валидации.
// Каждая валидация — новая запись; история по заказу сохраняется целиком.
type ValidationRepository interface {
	Create(validation OrderValidation) error
	Get(id string) (OrderValidation, error)
	ListByOrder(orderID string) ([]OrderValidation, error)
}

// OutboxMessage хранит данные для публикуемого события.
type OutboxMessage struct {
	ID            string
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

// OutboxStats описывает текущее состояние backlog transactional outbox.
type OutboxStats struct {
	PendingCount    int
	OldestPendingAt time.Time
}

// OutboxRepository позволяет сохранять события для последующей публикации.
type OutboxRepository interface {
	Enqueue(msg OutboxMessage) (OutboxMessage, error)
	PullPending(limit int) ([]OutboxMessage, error)
	Stats() (OutboxStats, error)
	MarkSent(id string) error
	MarkFailed(id string) error
}

// OutboxPublisher публикует события из transactional outbox.
type OutboxPublisher interface {
	// Publish передаёт событие наружу; должен быть идемпотентным.
	Publish(event OutboxMessage) error
}

// CheckoutStep задаёт константы шагов саги для метрик/логов.
type CheckoutStep string

const (
	CheckoutStepCreateOrder CheckoutStep = "create_order"
	CheckoutStepValidate    CheckoutStep = "validate"
	CheckoutStepPay         CheckoutStep = "pay"
	CheckoutStepFinalize    CheckoutStep = "finalize"
)
