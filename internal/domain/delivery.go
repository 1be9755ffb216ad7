package domain

import (
	"time"

	"github.com/google/uuid"
)

// DeliveryState описывает состояние бронирования доставки.
type DeliveryState string

const (
	DeliveryStateBooked    DeliveryState = "BOOKED"
	DeliveryStateConfirmed DeliveryState = "CONFIRMED"
	DeliveryStateCancelled DeliveryState = "CANCELLED"
)

// Valid сообщает, известно ли состояние доставки.
func (s DeliveryState) Valid() bool {
	switch s {
	case DeliveryStateBooked, DeliveryStateConfirmed, DeliveryStateCancelled:
		return true
	}
	return false
}

// CanTransitionTo запрещает возврат в BOOKED из терминальных состояний;
// остальные переходы разрешены.
func (s DeliveryState) CanTransitionTo(next DeliveryState) bool {
	if next == DeliveryStateBooked && (s == DeliveryStateConfirmed || s == DeliveryStateCancelled) {
		return false
	}
	return true
}

// Delivery — бронирование доставки заказа. Время окна передаётся строками
// "HH:MM" или "HH:MM:SS", как в остальных сервисах.
type Delivery struct {
	ID           string
	OrderID      string
	Schedule     string // дата доставки, "2006-01-02"
	BookingStart string
	BookingEnd   string
	State        DeliveryState
	CreatedAt    time.Time
}

// NewDelivery создаёт бронирование в состоянии BOOKED, проверяя окно.
func NewDelivery(orderID, schedule, bookingStart, bookingEnd string) (*Delivery, error) {
	if orderID == "" {
		return nil, ErrOrderIDRequired
	}
	if err := ValidateBookingWindow(bookingStart, bookingEnd); err != nil {
		return nil, err
	}
	return &Delivery{
		ID:           uuid.NewString(),
		OrderID:      orderID,
		Schedule:     schedule,
		BookingStart: bookingStart,
		BookingEnd:   bookingEnd,
		State:        DeliveryStateBooked,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// ChangeState переводит доставку в новое состояние, проверяя граф переходов.
func (d *Delivery) ChangeState(next DeliveryState) error {
	if !next.Valid() {
		return ErrDeliveryStateTransition
	}
	if !d.State.CanTransitionTo(next) {
		return ErrDeliveryStateTransition
	}
	d.State = next
	return nil
}

// Reschedule меняет дату и окно; инвариант окна проверяется и на обновлении.
func (d *Delivery) Reschedule(schedule, bookingStart, bookingEnd string) error {
	if err := ValidateBookingWindow(bookingStart, bookingEnd); err != nil {
		return err
	}
	d.Schedule = schedule
	d.BookingStart = bookingStart
	d.BookingEnd = bookingEnd
	return nil
}

// ValidateBookingWindow требует, чтобы конец окна был строго позже начала.
func ValidateBookingWindow(start, end string) error {
	startAt, err := parseClock(start)
	if err != nil {
		return ErrDeliveryWindowInvalid
	}
	endAt, err := parseClock(end)
	if err != nil {
		return ErrDeliveryWindowInvalid
	}
	if !endAt.After(startAt) {
		return ErrDeliveryWindowInvalid
	}
	return nil
}

func parseClock(v string) (time.Time, error) {
	if t, err := time.Parse("15:04:05", v); err == nil {
		return t, nil
	}
	return time.Parse("15:04", v)
}
