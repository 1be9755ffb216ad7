package domain

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PaymentStatus описывает состояние платежа. Значения на проводе исторические.
type PaymentStatus string

const (
	// PaymentStatusPending — платёж создан, шлюз ещё не ответил.
	PaymentStatusPending PaymentStatus = "pendiente"
	// PaymentStatusApproved — шлюз подтвердил списание.
	PaymentStatusApproved PaymentStatus = "aprobado"
	// PaymentStatusRejected — шлюз отклонил платёж; реанимация запрещена.
	PaymentStatusRejected PaymentStatus = "rechazado"
	// PaymentStatusRefunded — деньги возвращены клиенту.
	PaymentStatusRefunded PaymentStatus = "reembolsado"
)

// PaymentMethod описывает способ оплаты.
type PaymentMethod string

const (
	PaymentMethodCreditCard   PaymentMethod = "credit_card"
	PaymentMethodDebitCard    PaymentMethod = "debit_card"
	PaymentMethodPayPal       PaymentMethod = "paypal"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCash         PaymentMethod = "cash"
)

// Valid сообщает, известен ли способ оплаты.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCreditCard, PaymentMethodDebitCard, PaymentMethodPayPal,
		PaymentMethodBankTransfer, PaymentMethodCash:
		return true
	}
	return false
}

// IsCard объединяет кредитные и дебетовые карты: шлюз обрабатывает их одинаково.
func (m PaymentMethod) IsCard() bool {
	return m == PaymentMethodCreditCard || m == PaymentMethodDebitCard
}

// Payment описывает платёж, связанный с заказом.
type Payment struct {
	ID      string
	OrderID string
	UserID  string
	Amount  float64
	Method  PaymentMethod
	Status  PaymentStatus
	// ReferenceNumber генерируется один раз при создании и больше не меняется.
	ReferenceNumber      string
	GatewayTransactionID string
	Currency             string
	Description          string
	// GatewayResponse хранит сырой ответ шлюза для аудита.
	GatewayResponse json.RawMessage
	FailureReason   string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	ProcessedAt     time.Time // нулевое время, пока шлюз не ответил
}

// NewPayment создаёт платёж в статусе pendiente со сгенерированным референсом.
func NewPayment(orderID, userID string, amount float64, method PaymentMethod, currency, description string) *Payment {
	now := time.Now().UTC()
	return &Payment{
		ID:              uuid.NewString(),
		OrderID:         orderID,
		UserID:          userID,
		Amount:          amount,
		Method:          method,
		Status:          PaymentStatusPending,
		ReferenceNumber: newPaymentReference(),
		Currency:        currency,
		Description:     description,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func newPaymentReference() string {
	hex := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "PAY_" + hex[:8]
}

// Approve переводит платёж в aprobado и фиксирует транзакцию шлюза.
func (p *Payment) Approve(gatewayTxID string, gatewayResponse json.RawMessage) {
	now := time.Now().UTC()
	p.Status = PaymentStatusApproved
	p.GatewayTransactionID = gatewayTxID
	p.GatewayResponse = gatewayResponse
	p.ProcessedAt = now
	p.UpdatedAt = now
}

// Reject переводит платёж в rechazado с причиной отказа.
func (p *Payment) Reject(failureReason string, gatewayResponse json.RawMessage) {
	now := time.Now().UTC()
	p.Status = PaymentStatusRejected
	p.FailureReason = failureReason
	p.GatewayResponse = gatewayResponse
	p.ProcessedAt = now
	p.UpdatedAt = now
}

// Refund переводит платёж в reembolsado. Допустим только из aprobado.
func (p *Payment) Refund(gatewayTxID string) error {
	if p.Status != PaymentStatusApproved {
		return ErrPaymentNotRefundable
	}
	p.Status = PaymentStatusRefunded
	if gatewayTxID != "" {
		p.GatewayTransactionID = gatewayTxID
	}
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// CanBeRefunded сообщает, допустим ли возврат средств.
func (p *Payment) CanBeRefunded() bool {
	return p.Status == PaymentStatusApproved
}

// IsSuccessful сообщает, прошёл ли платёж.
func (p *Payment) IsSuccessful() bool {
	return p.Status == PaymentStatusApproved
}

// Validate проверяет корректность полей платежа и возвращает ошибки, если они есть.
func (p *Payment) Validate() []error {
	var errs []error

	if p.OrderID == "" {
		errs = append(errs, ErrOrderIDRequired)
	}
	if p.UserID == "" {
		errs = append(errs, ErrUserIDRequired)
	}
	if p.Amount <= 0 {
		errs = append(errs, ErrPaymentAmountInvalid)
	}
	if !p.Method.Valid() {
		errs = append(errs, ErrUnknownPaymentMethod)
	}

	return errs
}
