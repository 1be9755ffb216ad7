package payment

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
)

// CardPaymentParams — параметры карточного платежа (кредит и дебет).
type CardPaymentParams struct {
	Amount         float64
	Currency       string
	CardNumber     string
	CardHolderName string
	ExpiryMonth    int
	ExpiryYear     int
	CVV            string
	BillingAddress string
	Reference      string
}

// PayPalParams — параметры платежа через PayPal.
type PayPalParams struct {
	Amount      float64
	Currency    string
	Description string
	Reference   string
}

// BankTransferParams — параметры банковского перевода.
type BankTransferParams struct {
	Amount    float64
	Currency  string
	Reference string
}

// RefundParams — параметры возврата средств.
type RefundParams struct {
	OriginalTransactionID string
	Amount                float64
	Currency              string
	Reason                string
}

// GatewayResult — единый конверт ответа шлюза: success с транзакцией
// либо код и текст ошибки.
type GatewayResult struct {
	Success           bool    `json:"success"`
	TransactionID     string  `json:"transaction_id,omitempty"`
	AuthorizationCode string  `json:"authorization_code,omitempty"`
	Status            string  `json:"status,omitempty"`
	RefundAmount      float64 `json:"refund_amount,omitempty"`
	ErrorCode         string  `json:"error_code,omitempty"`
	ErrorMessage      string  `json:"error_message,omitempty"`
	Message           string  `json:"message,omitempty"`
}

// Gateway абстрагирует платёжный шлюз. Продакшен-реализация подключается
// без изменения логики саги; mock остаётся тестовым дублем.
type Gateway interface {
	CardPayment(ctx context.Context, params CardPaymentParams) (GatewayResult, error)
	PayPalPayment(ctx context.Context, params PayPalParams) (GatewayResult, error)
	BankTransfer(ctx context.Context, params BankTransferParams) (GatewayResult, error)
	Refund(ctx context.Context, params RefundParams) (GatewayResult, error)
}

// Лимиты mock-шлюза. Это тестовые фикстуры, а не бизнес-правила.
const (
	mockCardLimit   = 10000.0
	mockPayPalLimit = 5000.0
)

// mockGateway — детерминированная заглушка шлюза: сценарий выбирается
// суффиксом номера карты и суммой, возврат с центами .99 всегда
// отклоняется. Детерминизм нужен воспроизводимым тестам.
type mockGateway struct{}

// NewMockGateway возвращает детерминированный mock платёжного шлюза.
func NewMockGateway() Gateway {
	return &mockGateway{}
}

func (g *mockGateway) CardPayment(_ context.Context, params CardPaymentParams) (GatewayResult, error) {
	switch {
	case strings.HasSuffix(params.CardNumber, "0000"):
		return GatewayResult{
			Success:      false,
			ErrorCode:    "CARD_DECLINED",
			ErrorMessage: "Card was declined by the issuing bank",
		}, nil
	case strings.HasSuffix(params.CardNumber, "1111"):
		return GatewayResult{
			Success:      false,
			ErrorCode:    "INSUFFICIENT_FUNDS",
			ErrorMessage: "Insufficient funds on the card",
		}, nil
	case params.Amount > mockCardLimit:
		return GatewayResult{
			Success:      false,
			ErrorCode:    "AMOUNT_TOO_HIGH",
			ErrorMessage: "Transaction amount exceeds limit",
		}, nil
	}

	return GatewayResult{
		Success:           true,
		TransactionID:     mockTransactionID("TXN", 12),
		AuthorizationCode: mockTransactionID("AUTH", 6),
		Message:           "Payment processed successfully",
	}, nil
}

func (g *mockGateway) PayPalPayment(_ context.Context, params PayPalParams) (GatewayResult, error) {
	if params.Amount > mockPayPalLimit {
		return GatewayResult{
			Success:      false,
			ErrorCode:    "PAYPAL_LIMIT_EXCEEDED",
			ErrorMessage: "PayPal transaction limit exceeded",
		}, nil
	}

	return GatewayResult{
		Success:       true,
		TransactionID: mockTransactionID("PP", 10),
		Message:       "PayPal payment processed successfully",
	}, nil
}

func (g *mockGateway) BankTransfer(_ context.Context, _ BankTransferParams) (GatewayResult, error) {
	// Перевод принимается всегда, но требует ручной сверки.
	return GatewayResult{
		Success:       true,
		TransactionID: mockTransactionID("BT", 10),
		Status:        "PENDING_VERIFICATION",
		Message:       "Bank transfer initiated, pending verification",
	}, nil
}

func (g *mockGateway) Refund(_ context.Context, params RefundParams) (GatewayResult, error) {
	if params.OriginalTransactionID == "" {
		return GatewayResult{
			Success:      false,
			ErrorCode:    "INVALID_TRANSACTION",
			ErrorMessage: "Original transaction ID is required for refund",
		}, nil
	}

	// Детерминированный «сбой шлюза» для тестов: центы .99.
	cents := int(math.Round(params.Amount*100)) % 100
	if cents == 99 {
		return GatewayResult{
			Success:      false,
			ErrorCode:    "REFUND_FAILED",
			ErrorMessage: "Refund could not be processed at this time",
		}, nil
	}

	return GatewayResult{
		Success:       true,
		TransactionID: mockTransactionID("REF", 10),
		RefundAmount:  params.Amount,
		Message:       "Refund processed successfully",
	}, nil
}

func mockTransactionID(prefix string, length int) string {
	hex := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	if length > len(hex) {
		length = len(hex)
	}
	return fmt.Sprintf("%s_%s", prefix, hex[:length])
}

var _ Gateway = (*mockGateway)(nil)
