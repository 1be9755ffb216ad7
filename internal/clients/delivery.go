package clients

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

// DeliveryClient — HTTP-клиент сервиса доставки.
type DeliveryClient struct {
	client  *http.Client
	baseURL string
}

var _ domain.DeliveryService = (*DeliveryClient)(nil)

// NewDeliveryClient создаёт клиент сервиса доставки.
func NewDeliveryClient(baseURL string, httpClient *http.Client) *DeliveryClient {
	if httpClient == nil {
		httpClient = newHTTPClient(defaultTimeout)
	}
	return &DeliveryClient{client: httpClient, baseURL: baseURL}
}

type deliveryWire struct {
	ID           string    `json:"id"`
	OrderID      string    `json:"order_id"`
	Schedule     string    `json:"schedule"`
	BookingStart string    `json:"booking_start"`
	BookingEnd   string    `json:"booking_end"`
	State        string    `json:"state"`
	CreatedAt    time.Time `json:"created_at"`
}

type deliveryCreateWire struct {
	OrderID      string `json:"order_id"`
	Schedule     string `json:"schedule"`
	BookingStart string `json:"booking_start"`
	BookingEnd   string `json:"booking_end"`
}

type deliveryStateWire struct {
	State string `json:"state"`
}

func (w deliveryWire) toDomain() domain.Delivery {
	return domain.Delivery{
		ID:           w.ID,
		OrderID:      w.OrderID,
		Schedule:     w.Schedule,
		BookingStart: w.BookingStart,
		BookingEnd:   w.BookingEnd,
		State:        domain.DeliveryState(w.State),
		CreatedAt:    w.CreatedAt,
	}
}

// Create бронирует доставку для заказа.
func (c *DeliveryClient) Create(ctx context.Context, booking domain.DeliveryBooking) (domain.Delivery, error) {
	u, err := joinPath(c.baseURL, "api", "v1", "deliveries")
	if err != nil {
		return domain.Delivery{}, err
	}

	body := deliveryCreateWire{
		OrderID:      booking.OrderID,
		Schedule:     booking.Schedule,
		BookingStart: booking.BookingStart,
		BookingEnd:   booking.BookingEnd,
	}

	var wire deliveryWire
	status, err := doJSON(ctx, c.client, http.MethodPost, u, body, &wire, http.StatusCreated)
	if err != nil {
		return domain.Delivery{}, err
	}
	switch status {
	case http.StatusCreated:
		return wire.toDomain(), nil
	case http.StatusBadRequest:
		return domain.Delivery{}, domain.ErrDeliveryWindowInvalid
	default:
		return domain.Delivery{}, fmt.Errorf("delivery service returned status %d", status)
	}
}

// ChangeState меняет состояние бронирования. 409 — запрещённый переход.
func (c *DeliveryClient) ChangeState(ctx context.Context, deliveryID string, newState domain.DeliveryState) (domain.Delivery, error) {
	u, err := joinPath(c.baseURL, "api", "v1", "deliveries", deliveryID, "state")
	if err != nil {
		return domain.Delivery{}, err
	}

	var wire deliveryWire
	status, err := doJSON(ctx, c.client, http.MethodPatch, u, deliveryStateWire{State: string(newState)}, &wire, http.StatusOK)
	if err != nil {
		return domain.Delivery{}, err
	}
	switch status {
	case http.StatusOK:
		return wire.toDomain(), nil
	case http.StatusNotFound:
		return domain.Delivery{}, domain.ErrDeliveryNotFound
	case http.StatusConflict:
		return domain.Delivery{}, domain.ErrDeliveryStateTransition
	default:
		return domain.Delivery{}, fmt.Errorf("delivery service returned status %d", status)
	}
}
