package clients

import (
	"context"
	"fmt"
	"net/http"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

// CartClient — HTTP-клиент сервиса корзин.
type CartClient struct {
	client  *http.Client
	baseURL string
}

var _ domain.CartService = (*CartClient)(nil)

// NewCartClient создаёт клиент сервиса корзин.
func NewCartClient(baseURL string, httpClient *http.Client) *CartClient {
	if httpClient == nil {
		httpClient = newHTTPClient(defaultTimeout)
	}
	return &CartClient{client: httpClient, baseURL: baseURL}
}

type cartWire struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
}

type cartItemWire struct {
	ProductID string   `json:"product_id"`
	Quantity  int32    `json:"quantity"`
	UnitPrice *float64 `json:"unit_price"`
}

// GetByUser возвращает активную корзину пользователя или ErrCartNotFound.
func (c *CartClient) GetByUser(ctx context.Context, userID string) (domain.Cart, error) {
	u, err := joinPath(c.baseURL, "api", "v1", "carts", "user", userID)
	if err != nil {
		return domain.Cart{}, err
	}

	var wire cartWire
	status, err := doJSON(ctx, c.client, http.MethodGet, u, nil, &wire, http.StatusOK)
	if err != nil {
		return domain.Cart{}, err
	}
	switch status {
	case http.StatusOK:
		return domain.Cart{ID: wire.ID, UserID: wire.UserID}, nil
	case http.StatusNotFound:
		return domain.Cart{}, domain.ErrCartNotFound
	default:
		return domain.Cart{}, fmt.Errorf("cart service returned status %d", status)
	}
}

// GetItems возвращает позиции корзины. UnitPrice может отсутствовать:
// тогда цену дорешивает сервис товаров.
func (c *CartClient) GetItems(ctx context.Context, cartID string) ([]domain.CartItem, error) {
	u, err := joinPath(c.baseURL, "api", "v1", "carts", cartID, "items")
	if err != nil {
		return nil, err
	}

	var wire []cartItemWire
	status, err := doJSON(ctx, c.client, http.MethodGet, u, nil, &wire, http.StatusOK)
	if err != nil {
		return nil, err
	}
	switch status {
	case http.StatusOK:
		items := make([]domain.CartItem, 0, len(wire))
		for _, item := range wire {
			items = append(items, domain.CartItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
			})
		}
		return items, nil
	case http.StatusNotFound:
		return nil, domain.ErrCartNotFound
	default:
		return nil, fmt.Errorf("cart service returned status %d", status)
	}
}
