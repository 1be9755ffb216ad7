package clients

import (
	"context"
	"fmt"
	"net/http"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

// ProductClient — HTTP-клиент сервиса товаров.
type ProductClient struct {
	client  *http.Client
	baseURL string
}

var _ domain.ProductService = (*ProductClient)(nil)

// NewProductClient создаёт клиент сервиса товаров.
func NewProductClient(baseURL string, httpClient *http.Client) *ProductClient {
	if httpClient == nil {
		httpClient = newHTTPClient(defaultTimeout)
	}
	return &ProductClient{client: httpClient, baseURL: baseURL}
}

type productWire struct {
	ID            string  `json:"id"`
	Price         float64 `json:"price"`
	IsActive      bool    `json:"is_active"`
	StockQuantity int32   `json:"stock_quantity"`
}

type stockWire struct {
	ProductID      string `json:"product_id"`
	AvailableStock int32  `json:"available_stock"`
}

// Get возвращает товар или ErrProductNotFound на 404.
func (c *ProductClient) Get(ctx context.Context, productID string) (domain.Product, error) {
	u, err := joinPath(c.baseURL, "api", "v1", "products", productID)
	if err != nil {
		return domain.Product{}, err
	}

	var wire productWire
	status, err := doJSON(ctx, c.client, http.MethodGet, u, nil, &wire, http.StatusOK)
	if err != nil {
		return domain.Product{}, err
	}
	switch status {
	case http.StatusOK:
		return domain.Product{
			ID:            wire.ID,
			Price:         wire.Price,
			IsActive:      wire.IsActive,
			StockQuantity: wire.StockQuantity,
		}, nil
	case http.StatusNotFound:
		return domain.Product{}, domain.ErrProductNotFound
	default:
		return domain.Product{}, fmt.Errorf("product service returned status %d", status)
	}
}

// GetStock возвращает доступный остаток товара.
func (c *ProductClient) GetStock(ctx context.Context, productID string) (domain.Stock, error) {
	u, err := joinPath(c.baseURL, "api", "v1", "products", productID, "stock")
	if err != nil {
		return domain.Stock{}, err
	}

	var wire stockWire
	status, err := doJSON(ctx, c.client, http.MethodGet, u, nil, &wire, http.StatusOK)
	if err != nil {
		return domain.Stock{}, err
	}
	switch status {
	case http.StatusOK:
		return domain.Stock{ProductID: wire.ProductID, AvailableStock: wire.AvailableStock}, nil
	case http.StatusNotFound:
		return domain.Stock{}, domain.ErrProductNotFound
	default:
		return domain.Stock{}, fmt.Errorf("product service returned status %d", status)
	}
}
