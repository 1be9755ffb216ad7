package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// OrderStatus описывает жизненный цикл заказа.
// Значения на проводе исторические (испанские) и менять их нельзя:
// от них зависят остальные сервисы и фронтенд.
type OrderStatus string

const (
	// OrderStatusCreated — заказ создан, оплата ещё не прошла.
	OrderStatusCreated OrderStatus = "creada"
	// OrderStatusPaid — оплата подтверждена платёжным сервисом.
	OrderStatusPaid OrderStatus = "pagada"
	// OrderStatusShipped — заказ передан в доставку.
	OrderStatusShipped OrderStatus = "enviada"
	// OrderStatusDelivered — заказ доставлен клиенту.
	OrderStatusDelivered OrderStatus = "entregada"
	// OrderStatusCancelled — заказ отменён до отгрузки.
	OrderStatusCancelled OrderStatus = "cancelada"
)

// Valid сообщает, входит ли статус в известный жизненный цикл.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusCreated, OrderStatusPaid, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo проверяет допустимость перехода по графу:
// creada → pagada → enviada → entregada, creada|pagada → cancelada.
// Возврат в creada запрещён из любого состояния.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case OrderStatusCreated:
		return next == OrderStatusPaid || next == OrderStatusCancelled
	case OrderStatusPaid:
		return next == OrderStatusShipped || next == OrderStatusCancelled
	case OrderStatusShipped:
		return next == OrderStatusDelivered
	}
	return false
}

// OrderItem представляет одну позицию заказа.
type OrderItem struct {
	ID        string
	OrderID   string
	ProductID string
	Quantity  int32
	UnitPrice float64
	// Subtotal всегда равен Quantity*UnitPrice; пересчитывается при любой мутации позиций.
	Subtotal  float64
	CreatedAt time.Time
}

// Order агрегирует состояние заказа и его позиции.
type Order struct {
	ID        string
	UserID    string
	CartID    string // пустой для checkout с явным списком позиций
	Total     float64
	Status    OrderStatus
	PaymentID string
	Items     []OrderItem
	// Version растёт при каждом Save; расхождение значит конкурентную запись.
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewOrder создаёт пустой заказ в статусе creada.
func NewOrder(userID string) *Order {
	now := time.Now().UTC()
	return &Order{
		ID:        uuid.NewString(),
		UserID:    userID,
		Status:    OrderStatusCreated,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddItem добавляет позицию и пересчитывает сумму заказа.
func (o *Order) AddItem(productID string, quantity int32, unitPrice float64) (OrderItem, error) {
	if quantity <= 0 {
		return OrderItem{}, ErrItemQtyInvalid
	}
	if unitPrice <= 0 {
		return OrderItem{}, ErrItemPriceInvalid
	}

	item := OrderItem{
		ID:        uuid.NewString(),
		OrderID:   o.ID,
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Subtotal:  float64(quantity) * unitPrice,
		CreatedAt: time.Now().UTC(),
	}
	o.Items = append(o.Items, item)
	o.recalculate()
	return item, nil
}

// RemoveItem удаляет позицию по идентификатору и пересчитывает сумму.
func (o *Order) RemoveItem(itemID string) bool {
	for i, item := range o.Items {
		if item.ID == itemID {
			o.Items = append(o.Items[:i], o.Items[i+1:]...)
			o.recalculate()
			return true
		}
	}
	return false
}

// UpdateStatus переводит заказ в новый статус, проверяя граф переходов.
func (o *Order) UpdateStatus(next OrderStatus) error {
	if !next.Valid() {
		return ErrUnknownOrderStatus
	}
	if !o.Status.CanTransitionTo(next) {
		return ErrIllegalStatusTransition
	}
	o.Status = next
	o.UpdatedAt = time.Now().UTC()
	return nil
}

// CanBeCancelled: отмена допустима только до отгрузки.
func (o *Order) CanBeCancelled() bool {
	return o.Status == OrderStatusCreated || o.Status == OrderStatusPaid
}

// CanBeShipped: отгрузка допустима только после оплаты.
func (o *Order) CanBeShipped() bool {
	return o.Status == OrderStatusPaid
}

// recalculate восстанавливает инвариант total == Σ subtotal.
func (o *Order) recalculate() {
	var total float64
	for i := range o.Items {
		o.Items[i].Subtotal = float64(o.Items[i].Quantity) * o.Items[i].UnitPrice
		total += o.Items[i].Subtotal
	}
	o.Total = total
	o.UpdatedAt = time.Now().UTC()
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.UserID == "" {
		errs = append(errs, ErrUserIDRequired)
	}

	var calc float64
	for _, item := range o.Items {
		if item.Quantity <= 0 {
			errs = append(errs, ErrItemQtyInvalid)
		}
		if item.UnitPrice <= 0 {
			errs = append(errs, ErrItemPriceInvalid)
		}
		calc += item.Subtotal
	}
	// Денежная точность: сверяем с допуском в цент.
	if math.Abs(calc-o.Total) > 0.01 {
		errs = append(errs, ErrTotalMismatch)
	}

	return errs
}
