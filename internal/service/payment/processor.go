package payment

import (
	"context"
	"encoding/json"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

const defaultCurrency = "USD"

// Processor — сервис обработки платежей: создаёт платёж, прогоняет его
// через шлюз и фиксирует итоговый статус в хранилище.
type Processor struct {
	repo    domain.PaymentRepository
	gateway Gateway
	logger  *log.Entry
}

var _ domain.PaymentService = (*Processor)(nil)

// NewProcessor создаёт процессор платежей.
func NewProcessor(repo domain.PaymentRepository, gateway Gateway, logger *log.Logger) *Processor {
	return &Processor{
		repo:    repo,
		gateway: gateway,
		logger:  logger.WithField("component", "payment_processor"),
	}
}

// Process обрабатывает платёж по заказу. Отказ шлюза или бизнес-отклонение
// не являются ошибкой вызова: платёж переводится в rechazado, а результат
// возвращается с success=false. Ошибка возвращается только при сбое
// инфраструктуры (хранилище) или невалидном запросе.
func (p *Processor) Process(ctx context.Context, req domain.PaymentProcessRequest) (domain.PaymentResult, error) {
	if req.Amount <= 0 {
		return domain.PaymentResult{}, domain.ErrPaymentAmountInvalid
	}
	if !req.Details.Method.Valid() {
		return domain.PaymentResult{}, fmt.Errorf("%w: %s", domain.ErrUnknownPaymentMethod, req.Details.Method)
	}

	currency := req.Details.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	payment := domain.NewPayment(req.OrderID, req.UserID, req.Amount, req.Details.Method, currency, req.Details.Description)
	if err := p.repo.Create(*payment); err != nil {
		return domain.PaymentResult{}, fmt.Errorf("create payment: %w", err)
	}

	p.logger.WithFields(log.Fields{
		"payment_id": payment.ID,
		"order_id":   payment.OrderID,
		"method":     payment.Method,
		"amount":     payment.Amount,
	}).Info("processing payment")

	result, err := p.charge(ctx, payment, req.Details)
	if err != nil {
		// Сбой шлюза трактуем как отклонение платежа, а не как ошибку
		// вызова: заказ остаётся неоплаченным, клиент получает отказ.
		p.logger.WithError(err).WithField("payment_id", payment.ID).
			Warn("gateway failure, rejecting payment")
		result = GatewayResult{
			Success:      false,
			ErrorCode:    "GATEWAY_ERROR",
			ErrorMessage: "Payment gateway is unavailable",
		}
	}

	raw, _ := json.Marshal(result)
	if result.Success {
		payment.Approve(result.TransactionID, raw)
	} else {
		payment.Reject(result.ErrorMessage, raw)
	}

	if err := p.repo.Update(*payment); err != nil {
		return domain.PaymentResult{}, fmt.Errorf("update payment: %w", err)
	}

	p.logger.WithFields(log.Fields{
		"payment_id": payment.ID,
		"status":     payment.Status,
	}).Info("payment processed")

	return domain.PaymentResult{
		PaymentID:            payment.ID,
		Success:              result.Success,
		Status:               payment.Status,
		GatewayTransactionID: payment.GatewayTransactionID,
		ReferenceNumber:      payment.ReferenceNumber,
		Message:              resultMessage(result),
		FailureReason:        payment.FailureReason,
	}, nil
}

func (p *Processor) charge(ctx context.Context, payment *domain.Payment, details domain.PaymentDetails) (GatewayResult, error) {
	switch {
	case payment.Method.IsCard():
		return p.gateway.CardPayment(ctx, CardPaymentParams{
			Amount:         payment.Amount,
			Currency:       payment.Currency,
			CardNumber:     details.CardNumber,
			CardHolderName: details.CardHolderName,
			ExpiryMonth:    details.CardExpiryMonth,
			ExpiryYear:     details.CardExpiryYear,
			CVV:            details.CardCVV,
			BillingAddress: details.BillingAddress,
			Reference:      payment.ReferenceNumber,
		})
	case payment.Method == domain.PaymentMethodPayPal:
		return p.gateway.PayPalPayment(ctx, PayPalParams{
			Amount:      payment.Amount,
			Currency:    payment.Currency,
			Description: fmt.Sprintf("Order %s", payment.OrderID),
			Reference:   payment.ReferenceNumber,
		})
	case payment.Method == domain.PaymentMethodBankTransfer:
		return p.gateway.BankTransfer(ctx, BankTransferParams{
			Amount:    payment.Amount,
			Currency:  payment.Currency,
			Reference: payment.ReferenceNumber,
		})
	case payment.Method == domain.PaymentMethodCash:
		// Наличные не ходят через шлюз: одобряем сразу.
		return GatewayResult{
			Success:       true,
			TransactionID: mockTransactionID("CASH", 10),
			Message:       "Cash payment registered",
		}, nil
	default:
		return GatewayResult{}, fmt.Errorf("%w: %s", domain.ErrUnknownPaymentMethod, payment.Method)
	}
}

// Refund выполняет возврат по платежу. Бизнес-отказы (невозвратный статус,
// превышение суммы, отказ шлюза) возвращаются как success=false; ошибка —
// только отсутствие платежа или сбой хранилища.
func (p *Processor) Refund(ctx context.Context, paymentID string, req domain.RefundRequest) (domain.RefundResult, error) {
	payment, err := p.repo.Get(paymentID)
	if err != nil {
		return domain.RefundResult{}, err
	}

	amount := req.Amount
	if amount == 0 {
		amount = payment.Amount
	}

	if !payment.CanBeRefunded() {
		return domain.RefundResult{
			PaymentID: payment.ID,
			Success:   false,
			Status:    payment.Status,
			Message:   domain.ErrPaymentNotRefundable.Error(),
		}, nil
	}
	if amount > payment.Amount {
		return domain.RefundResult{
			PaymentID: payment.ID,
			Success:   false,
			Status:    payment.Status,
			Message:   domain.ErrRefundAmountExceeds.Error(),
		}, nil
	}

	result, err := p.gateway.Refund(ctx, RefundParams{
		OriginalTransactionID: payment.GatewayTransactionID,
		Amount:                amount,
		Currency:              payment.Currency,
		Reason:                req.Reason,
	})
	if err != nil {
		p.logger.WithError(err).WithField("payment_id", payment.ID).
			Warn("gateway refund failure")
		result = GatewayResult{
			Success:      false,
			ErrorMessage: "Refund gateway is unavailable",
		}
	}
	if !result.Success {
		return domain.RefundResult{
			PaymentID: payment.ID,
			Success:   false,
			Status:    payment.Status,
			Message:   result.ErrorMessage,
		}, nil
	}

	if err := payment.Refund(result.TransactionID); err != nil {
		return domain.RefundResult{}, err
	}
	if err := p.repo.Update(payment); err != nil {
		return domain.RefundResult{}, fmt.Errorf("update payment: %w", err)
	}

	p.logger.WithFields(log.Fields{
		"payment_id":    payment.ID,
		"refund_amount": amount,
	}).Info("payment refunded")

	return domain.RefundResult{
		PaymentID:           payment.ID,
		RefundAmount:        amount,
		Status:              payment.Status,
		Success:             true,
		Message:             "Refund processed successfully",
		RefundTransactionID: result.TransactionID,
	}, nil
}

// Get возвращает платёж по идентификатору.
func (p *Processor) Get(_ context.Context, id string) (domain.Payment, error) {
	return p.repo.Get(id)
}

func resultMessage(result GatewayResult) string {
	if result.Success {
		if result.Message != "" {
			return result.Message
		}
		return "Payment processed successfully"
	}
	if result.ErrorMessage != "" {
		return result.ErrorMessage
	}
	return "Payment was rejected"
}
