package clients

import (
	"context"
	"fmt"
	"net/http"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

// UserClient — HTTP-клиент сервиса пользователей. Валидации нужны
// только существование и активность, остальные поля игнорируются.
type UserClient struct {
	client  *http.Client
	baseURL string
}

var _ domain.UserService = (*UserClient)(nil)

// NewUserClient создаёт клиент сервиса пользователей.
func NewUserClient(baseURL string, httpClient *http.Client) *UserClient {
	if httpClient == nil {
		httpClient = newHTTPClient(defaultTimeout)
	}
	return &UserClient{client: httpClient, baseURL: baseURL}
}

type userWire struct {
	ID       string `json:"id"`
	IsActive bool   `json:"is_active"`
}

// Get возвращает пользователя или ErrUserNotFound на 404.
func (c *UserClient) Get(ctx context.Context, userID string) (domain.User, error) {
	u, err := joinPath(c.baseURL, "api", "v1", "users", userID)
	if err != nil {
		return domain.User{}, err
	}

	var wire userWire
	status, err := doJSON(ctx, c.client, http.MethodGet, u, nil, &wire, http.StatusOK)
	if err != nil {
		return domain.User{}, err
	}
	switch status {
	case http.StatusOK:
		return domain.User{ID: wire.ID, IsActive: wire.IsActive}, nil
	case http.StatusNotFound:
		return domain.User{}, domain.ErrUserNotFound
	default:
		return domain.User{}, fmt.Errorf("user service returned status %d", status)
	}
}
