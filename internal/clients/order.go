package clients

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

// OrderClient — HTTP-клиент сервиса заказов.
type OrderClient struct {
	client  *http.Client
	baseURL string
}

var _ domain.OrderService = (*OrderClient)(nil)

// NewOrderClient создаёт клиент сервиса заказов. httpClient == nil
// означает клиент по умолчанию с таймаутом defaultTimeout.
func NewOrderClient(baseURL string, httpClient *http.Client) *OrderClient {
	if httpClient == nil {
		httpClient = newHTTPClient(defaultTimeout)
	}
	return &OrderClient{client: httpClient, baseURL: baseURL}
}

type orderItemWire struct {
	ID        string  `json:"id,omitempty"`
	ProductID string  `json:"product_id"`
	Quantity  int32   `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Subtotal  float64 `json:"subtotal,omitempty"`
}

type orderWire struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Status    string          `json:"status"`
	Total     float64         `json:"total_amount"`
	Items     []orderItemWire `json:"items"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type orderCreateWire struct {
	UserID string          `json:"user_id"`
	Items  []orderItemWire `json:"items"`
}

type orderPatchWire struct {
	Status string `json:"status"`
}

func (w orderWire) toDomain() domain.Order {
	order := domain.Order{
		ID:        w.ID,
		UserID:    w.UserID,
		Status:    domain.OrderStatus(w.Status),
		Total:     w.Total,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
	for _, item := range w.Items {
		order.Items = append(order.Items, domain.OrderItem{
			ID:        item.ID,
			OrderID:   w.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal,
		})
	}
	return order
}

// Create создаёт заказ. Сервис заказов сам считает total по позициям.
func (c *OrderClient) Create(ctx context.Context, userID string, items []domain.OrderCreateItem) (domain.Order, error) {
	u, err := joinPath(c.baseURL, "api", "v1", "orders")
	if err != nil {
		return domain.Order{}, err
	}

	body := orderCreateWire{UserID: userID}
	for _, item := range items {
		body.Items = append(body.Items, orderItemWire{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	var wire orderWire
	status, err := doJSON(ctx, c.client, http.MethodPost, u, body, &wire, http.StatusCreated)
	if err != nil {
		return domain.Order{}, err
	}
	if status != http.StatusCreated {
		return domain.Order{}, fmt.Errorf("order service returned status %d", status)
	}
	return wire.toDomain(), nil
}

// Get возвращает заказ по идентификатору.
func (c *OrderClient) Get(ctx context.Context, orderID string) (domain.Order, error) {
	u, err := joinPath(c.baseURL, "api", "v1", "orders", orderID)
	if err != nil {
		return domain.Order{}, err
	}

	var wire orderWire
	status, err := doJSON(ctx, c.client, http.MethodGet, u, nil, &wire, http.StatusOK)
	if err != nil {
		return domain.Order{}, err
	}
	switch status {
	case http.StatusOK:
		return wire.toDomain(), nil
	case http.StatusNotFound:
		return domain.Order{}, domain.ErrOrderNotFound
	default:
		return domain.Order{}, fmt.Errorf("order service returned status %d", status)
	}
}

// UpdateStatus переводит заказ в новый статус (PATCH).
// 409 означает запрещённый переход по графу жизненного цикла.
func (c *OrderClient) UpdateStatus(ctx context.Context, orderID string, newStatus domain.OrderStatus) (domain.Order, error) {
	u, err := joinPath(c.baseURL, "api", "v1", "orders", orderID)
	if err != nil {
		return domain.Order{}, err
	}

	var wire orderWire
	status, err := doJSON(ctx, c.client, http.MethodPatch, u, orderPatchWire{Status: string(newStatus)}, &wire, http.StatusOK)
	if err != nil {
		return domain.Order{}, err
	}
	switch status {
	case http.StatusOK:
		return wire.toDomain(), nil
	case http.StatusNotFound:
		return domain.Order{}, domain.ErrOrderNotFound
	case http.StatusConflict:
		return domain.Order{}, domain.ErrIllegalStatusTransition
	default:
		return domain.Order{}, fmt.Errorf("order service returned status %d", status)
	}
}
