package clients

import (
	"context"
	"fmt"
	"net/http"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

// PaymentClient — HTTP-клиент платёжного сервиса. Таймаут выше обычного:
// банковский перевод в шлюзе заметно медленнее карточных операций.
type PaymentClient struct {
	client  *http.Client
	baseURL string
}

var _ domain.PaymentService = (*PaymentClient)(nil)

// NewPaymentClient создаёт клиент платёжного сервиса.
func NewPaymentClient(baseURL string, httpClient *http.Client) *PaymentClient {
	if httpClient == nil {
		httpClient = newHTTPClient(paymentTimeout)
	}
	return &PaymentClient{client: httpClient, baseURL: baseURL}
}

type paymentDetailsWire struct {
	CardNumber      string `json:"card_number,omitempty"`
	CardHolderName  string `json:"card_holder_name,omitempty"`
	CardExpiryMonth int    `json:"card_expiry_month,omitempty"`
	CardExpiryYear  int    `json:"card_expiry_year,omitempty"`
	CardCVV         string `json:"card_cvv,omitempty"`
	BillingAddress  string `json:"billing_address,omitempty"`
}

type paymentProcessWire struct {
	OrderID     string             `json:"order_id"`
	UserID      string             `json:"user_id"`
	Amount      float64            `json:"amount"`
	Method      string             `json:"payment_method"`
	Currency    string             `json:"currency,omitempty"`
	Description string             `json:"description,omitempty"`
	Details     paymentDetailsWire `json:"payment_details"`
}

type paymentResultWire struct {
	PaymentID            string `json:"payment_id"`
	Success              bool   `json:"success"`
	Status               string `json:"status"`
	GatewayTransactionID string `json:"transaction_id"`
	ReferenceNumber      string `json:"reference_number"`
	Message              string `json:"message"`
	FailureReason        string `json:"failure_reason,omitempty"`
}

type refundRequestWire struct {
	Amount float64 `json:"amount,omitempty"`
	Reason string  `json:"reason,omitempty"`
}

type refundResultWire struct {
	PaymentID           string  `json:"payment_id"`
	Success             bool    `json:"success"`
	Status              string  `json:"status"`
	RefundAmount        float64 `json:"refund_amount"`
	RefundTransactionID string  `json:"refund_transaction_id"`
	Message             string  `json:"message"`
}

// Process проводит платёж. Отклонение шлюза приходит как 200 с
// success=false и не является ошибкой вызова.
func (c *PaymentClient) Process(ctx context.Context, req domain.PaymentProcessRequest) (domain.PaymentResult, error) {
	u, err := joinPath(c.baseURL, "api", "v1", "payments", "process")
	if err != nil {
		return domain.PaymentResult{}, err
	}

	body := paymentProcessWire{
		OrderID:     req.OrderID,
		UserID:      req.UserID,
		Amount:      req.Amount,
		Method:      string(req.Details.Method),
		Currency:    req.Details.Currency,
		Description: req.Details.Description,
		Details: paymentDetailsWire{
			CardNumber:      req.Details.CardNumber,
			CardHolderName:  req.Details.CardHolderName,
			CardExpiryMonth: req.Details.CardExpiryMonth,
			CardExpiryYear:  req.Details.CardExpiryYear,
			CardCVV:         req.Details.CardCVV,
			BillingAddress:  req.Details.BillingAddress,
		},
	}

	var wire paymentResultWire
	status, err := doJSON(ctx, c.client, http.MethodPost, u, body, &wire, http.StatusOK)
	if err != nil {
		return domain.PaymentResult{}, err
	}
	if status != http.StatusOK {
		return domain.PaymentResult{}, fmt.Errorf("payment service returned status %d", status)
	}

	return domain.PaymentResult{
		PaymentID:            wire.PaymentID,
		Success:              wire.Success,
		Status:               domain.PaymentStatus(wire.Status),
		GatewayTransactionID: wire.GatewayTransactionID,
		ReferenceNumber:      wire.ReferenceNumber,
		Message:              wire.Message,
		FailureReason:        wire.FailureReason,
	}, nil
}

// Refund инициирует возврат средств по платежу.
func (c *PaymentClient) Refund(ctx context.Context, paymentID string, req domain.RefundRequest) (domain.RefundResult, error) {
	u, err := joinPath(c.baseURL, "api", "v1", "payments", paymentID, "refund")
	if err != nil {
		return domain.RefundResult{}, err
	}

	var wire refundResultWire
	status, err := doJSON(ctx, c.client, http.MethodPost, u, refundRequestWire{Amount: req.Amount, Reason: req.Reason}, &wire, http.StatusOK)
	if err != nil {
		return domain.RefundResult{}, err
	}
	switch status {
	case http.StatusOK:
		return domain.RefundResult{
			PaymentID:           wire.PaymentID,
			Success:             wire.Success,
			Status:              domain.PaymentStatus(wire.Status),
			RefundAmount:        wire.RefundAmount,
			RefundTransactionID: wire.RefundTransactionID,
			Message:             wire.Message,
		}, nil
	case http.StatusNotFound:
		return domain.RefundResult{}, domain.ErrPaymentNotFound
	default:
		return domain.RefundResult{}, fmt.Errorf("payment service returned status %d", status)
	}
}
