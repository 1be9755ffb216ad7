package clients

import (
	"context"
	"fmt"
	"net/http"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

// ValidationClient — HTTP-клиент сервиса валидации заказов.
type ValidationClient struct {
	client  *http.Client
	baseURL string
}

var _ domain.ValidationService = (*ValidationClient)(nil)

// NewValidationClient создаёт клиент сервиса валидации.
func NewValidationClient(baseURL string, httpClient *http.Client) *ValidationClient {
	if httpClient == nil {
		httpClient = newHTTPClient(defaultTimeout)
	}
	return &ValidationClient{client: httpClient, baseURL: baseURL}
}

type validationRequestWire struct {
	OrderID string          `json:"order_id"`
	UserID  string          `json:"user_id"`
	Items   []orderItemWire `json:"items"`
	Total   float64         `json:"total_amount"`
}

type validationErrorWire struct {
	Rule    string `json:"rule"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Value   string `json:"value,omitempty"`
}

type validationResultWire struct {
	ValidationID string                `json:"validation_id"`
	OrderID      string                `json:"order_id"`
	IsValid      bool                  `json:"is_valid"`
	Errors       []validationErrorWire `json:"errors"`
	Message      string                `json:"message"`
}

// Validate отправляет снимок заказа на проверку. Бизнес-отказ приходит
// как 200 с is_valid=false и не является ошибкой вызова.
func (c *ValidationClient) Validate(ctx context.Context, req domain.ValidationRequest) (domain.ValidationResult, error) {
	u, err := joinPath(c.baseURL, "api", "v1", "validations", "validate")
	if err != nil {
		return domain.ValidationResult{}, err
	}

	body := validationRequestWire{
		OrderID: req.OrderID,
		UserID:  req.UserID,
		Total:   req.Total,
	}
	for _, item := range req.Items {
		body.Items = append(body.Items, orderItemWire{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	var wire validationResultWire
	status, err := doJSON(ctx, c.client, http.MethodPost, u, body, &wire, http.StatusOK)
	if err != nil {
		return domain.ValidationResult{}, err
	}
	if status != http.StatusOK {
		return domain.ValidationResult{}, fmt.Errorf("validation service returned status %d", status)
	}

	result := domain.ValidationResult{
		ValidationID: wire.ValidationID,
		OrderID:      wire.OrderID,
		IsValid:      wire.IsValid,
		Message:      wire.Message,
	}
	for _, e := range wire.Errors {
		result.Errors = append(result.Errors, domain.ValidationError{
			Rule:    domain.ValidationRule(e.Rule),
			Message: e.Message,
			Field:   e.Field,
			Value:   e.Value,
		})
	}
	return result, nil
}
